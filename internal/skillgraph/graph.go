// Package skillgraph builds the node/edge relationship graph shown on the
// skill-tree screen: a central user node, one node per category, one leaf
// node per skill, and a fixed adjacency between related categories. The
// graph is derived fresh from category stats on every change and never
// persisted.
package skillgraph

import (
	"fmt"

	"github.com/tuklascope/tuklascope/internal/skills"
)

// UserNodeID is the id of the fixed center node.
const UserNodeID = "user"

// NodeType distinguishes the three graph levels.
type NodeType string

const (
	NodeUser     NodeType = "user"
	NodeCategory NodeType = "category"
	NodeSkill    NodeType = "skill"
)

// EdgeType labels an edge for layout styling.
type EdgeType string

const (
	EdgeUserToCategory  EdgeType = "user-to-category"
	EdgeCategoryToSkill EdgeType = "category-to-skill"
	EdgeRelated         EdgeType = "related"
)

// Node is one graph vertex.
type Node struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Type     NodeType `json:"type"`
	Category string   `json:"category"`
	Mastery  int      `json:"mastery_level"`
	XP       int      `json:"xp_earned"`
	Level    int      `json:"level"`
	Color    string   `json:"color"`
}

// Edge connects two nodes by id.
type Edge struct {
	Source string   `json:"source"`
	Target string   `json:"target"`
	Type   EdgeType `json:"type"`
}

// Graph is the full node/edge set, ready for force-directed layout.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// categoryXPPerFullMastery scales category XP onto the 0-100 display
// mastery: a category shows full mastery at 500 XP.
const categoryXPPerFullMastery = 500

// CategoryMastery derives the display mastery for a category from its
// summed XP, capped at 100.
func CategoryMastery(xp int) int {
	return min(100, xp*100/categoryXPPerFullMastery)
}

// SkillNodeID forms the leaf node id for a skill within a category.
// Unique because skill names are unique across the whole map.
func SkillNodeID(category, skillName string) string {
	return fmt.Sprintf("%s-%s", category, skillName)
}

// Build converts category stats into the relationship graph. The same
// stats in the same order always produce the same graph.
func Build(stats []skills.CategoryStat) Graph {
	g := Graph{
		Nodes: []Node{{
			ID:      UserNodeID,
			Name:    "You",
			Type:    NodeUser,
			Mastery: 100,
			Level:   1,
		}},
	}

	for _, cs := range stats {
		g.Nodes = append(g.Nodes, Node{
			ID:       cs.Subject,
			Name:     cs.Subject,
			Type:     NodeCategory,
			Category: cs.Subject,
			Mastery:  CategoryMastery(cs.XP),
			XP:       cs.XP,
			Level:    cs.Level,
			Color:    CategoryColor(cs.Subject),
		})
		g.Edges = append(g.Edges, Edge{
			Source: UserNodeID,
			Target: cs.Subject,
			Type:   EdgeUserToCategory,
		})

		for _, sk := range cs.Skills {
			id := SkillNodeID(cs.Subject, sk.Name)
			g.Nodes = append(g.Nodes, Node{
				ID:       id,
				Name:     sk.Name,
				Type:     NodeSkill,
				Category: cs.Subject,
				Mastery:  sk.MasteryLevel,
				XP:       sk.XPEarned,
				Level:    1,
				Color:    CategoryColor(cs.Subject),
			})
			g.Edges = append(g.Edges, Edge{
				Source: cs.Subject,
				Target: id,
				Type:   EdgeCategoryToSkill,
			})
		}
	}

	g.Edges = append(g.Edges, relatedEdges(stats)...)
	return g
}

// relatedEdges emits one edge per adjacency-table pair whose both
// categories are present. Categories outside the table get none.
func relatedEdges(stats []skills.CategoryStat) []Edge {
	present := make(map[string]bool, len(stats))
	for _, cs := range stats {
		present[cs.Subject] = true
	}

	var out []Edge
	for _, pair := range RelatedCategories {
		if present[pair[0]] && present[pair[1]] {
			out = append(out, Edge{Source: pair[0], Target: pair[1], Type: EdgeRelated})
		}
	}
	return out
}
