// Package progress implements the gamification state that is independent
// of individual skills: total points, the daily discovery streak, and the
// badge catalog.
package progress

import "time"

// DateLayout is the calendar-day format used for streak bookkeeping.
const DateLayout = "2006-01-02"

// UserProgress is the persisted gamification state for one user.
// JSON tags match the persisted document shape.
type UserProgress struct {
	// TotalPoints only ever increases in normal flow.
	TotalPoints int `json:"totalPoints"`

	// Streak counts consecutive calendar days with at least one
	// qualifying discovery.
	Streak int `json:"streak"`

	// LastLoginDate is the last calendar day (YYYY-MM-DD) on which
	// streak-qualifying activity was recorded. Empty means never.
	LastLoginDate string `json:"lastLoginDate"`
}

// Day normalizes t to a calendar-day string. All streak arithmetic runs
// in UTC so a user's day boundary does not move with machine settings.
func Day(t time.Time) string {
	return t.UTC().Format(DateLayout)
}
