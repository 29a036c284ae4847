package progress

// Badge is a one-off achievement. Badges and skills are distinct types;
// a badge never carries mastery or XP.
type Badge struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// AllBadges is the static badge catalog.
var AllBadges = []Badge{
	{
		ID:          "badge_garden_explorer",
		Name:        "Garden Explorer",
		Description: `You completed the "Backyard Ecologist" quest!`,
		Icon:        "🌳",
	},
	{
		ID:          "badge_first_discovery",
		Name:        "First Discovery",
		Description: "You made your very first discovery!",
		Icon:        "🔍",
	},
	{
		ID:          "badge_week_streak",
		Name:        "Week of Wonder",
		Description: "Seven discovery days in a row.",
		Icon:        "🔥",
	},
}

// BadgeByID looks a badge up in the catalog.
func BadgeByID(id string) (Badge, bool) {
	for _, b := range AllBadges {
		if b.ID == id {
			return b, true
		}
	}
	return Badge{}, false
}
