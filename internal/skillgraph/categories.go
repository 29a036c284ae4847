package skillgraph

// RelatedCategories is the fixed adjacency between neighboring STEM
// fields, used purely for layout. It carries no persisted semantics.
var RelatedCategories = [][2]string{
	{"Biology", "Chemistry"},
	{"Chemistry", "Physics"},
	{"Physics", "Mathematics"},
	{"Mathematics", "Engineering"},
	{"Engineering", "Technology"},
}

// categoryColors is the display palette keyed by category name.
var categoryColors = map[string]string{
	"Biology":     "#22C55E",
	"Chemistry":   "#3B82F6",
	"Physics":     "#8B5CF6",
	"Mathematics": "#F59E0B",
	"Engineering": "#EF4444",
	"Technology":  "#06B6D4",
}

// defaultCategoryColor is used for categories outside the known taxonomy.
// Unknown categories get the default treatment but aggregate like any
// other.
const defaultCategoryColor = "#6B7280"

// CategoryColor returns the display color for a category, falling back
// to the default for unknown ones.
func CategoryColor(category string) string {
	if c, ok := categoryColors[category]; ok {
		return c
	}
	return defaultCategoryColor
}
