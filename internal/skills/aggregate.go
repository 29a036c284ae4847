package skills

// CategoryStat is the derived roll-up for one category present in a
// skill map. Never persisted; recomputed from the map on every change.
type CategoryStat struct {
	Subject  string  `json:"subject"`
	XP       int     `json:"xp"`
	Level    int     `json:"level"`
	Progress float64 `json:"progress"`
	Mastered int     `json:"mastered"`
	Skills   []Skill `json:"skills"`
}

// Aggregate folds a skill map into per-category statistics: summed XP,
// level = xp/100 + 1, progress toward the next level, and the count of
// member skills at or above MasteredThreshold. Output order is
// unspecified; callers needing stable order must sort.
func Aggregate(m SkillMap) []CategoryStat {
	byCategory := make(map[string]*CategoryStat)

	for _, sk := range m {
		cs, ok := byCategory[sk.Category]
		if !ok {
			cs = &CategoryStat{Subject: sk.Category}
			byCategory[sk.Category] = cs
		}
		cs.XP += sk.XPEarned
		if sk.MasteryLevel >= MasteredThreshold {
			cs.Mastered++
		}
		cs.Skills = append(cs.Skills, sk)
	}

	out := make([]CategoryStat, 0, len(byCategory))
	for _, cs := range byCategory {
		cs.Level = cs.XP/100 + 1
		cs.Progress = float64(cs.XP%100) / 100
		out = append(out, *cs)
	}
	return out
}

// Totals summarizes a skill map for the overview display.
type Totals struct {
	TotalXP int

	// ConceptsMastered uses the display tier (mastery >= 80), not the
	// aggregation counting threshold.
	ConceptsMastered int

	AverageLevel int
}

// ComputeTotals derives overall stats from a skill map.
func ComputeTotals(m SkillMap) Totals {
	var t Totals
	for _, sk := range m {
		t.TotalXP += sk.XPEarned
		if sk.MasteryLevel >= 80 {
			t.ConceptsMastered++
		}
	}

	stats := Aggregate(m)
	if len(stats) > 0 {
		sum := 0
		for _, cs := range stats {
			sum += cs.Level
		}
		t.AverageLevel = sum / len(stats)
	} else {
		t.AverageLevel = 1
	}
	return t
}
