// Package skills implements the skill-mastery side of the gamification
// engine: the per-user skill map, the award rules applied when a discovery
// observes skills, and the category aggregation derived from the map.
package skills

import "time"

// Award and mastery constants. Mastery clamps at MaxMastery; XP earned by
// the same observation does not clamp, so a fully-mastered skill keeps
// accumulating XP on repeat observations. That asymmetry is intentional.
const (
	// InitialMastery is the mastery and XP granted when a skill is first
	// observed.
	InitialMastery = 25

	// MasteryStep is the mastery and XP increment for each repeat
	// observation of a known skill.
	MasteryStep = 10

	// MaxMastery is the mastery ceiling.
	MaxMastery = 100

	// MasteredThreshold is the mastery level at which a skill counts as
	// mastered in category aggregation.
	MasteredThreshold = 50

	// PointsNewSkill is awarded for observing a brand-new skill.
	PointsNewSkill = 25

	// PointsLevelUp is awarded for each repeat observation, regardless of
	// current mastery.
	PointsLevelUp = 5
)

// Skill is one discrete, named piece of knowledge a user has encountered.
// JSON tags match the persisted document shape.
type Skill struct {
	Name         string    `json:"skill_name"`
	Category     string    `json:"category"`
	MasteryLevel int       `json:"mastery_level"`
	XPEarned     int       `json:"xp_earned"`
	DateAcquired time.Time `json:"date_acquired"`
	LastUpdated  time.Time `json:"last_updated"`
}

// SkillMap maps skill name to Skill. One map per user, persisted as a
// single document. Skills are never removed.
type SkillMap map[string]Skill

// Observation is one skill sighting produced by a discovery.
type Observation struct {
	Name     string `json:"skill_name"`
	Category string `json:"category"`
}

// MasteryLabel returns the display tier for a mastery level.
// The tiers are presentation only; aggregation uses MasteredThreshold.
func MasteryLabel(level int) string {
	switch {
	case level >= 80:
		return "Mastered"
	case level >= 60:
		return "Proficient"
	case level >= 40:
		return "Developing"
	default:
		return "Beginner"
	}
}
