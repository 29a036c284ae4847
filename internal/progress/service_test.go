package progress

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tuklascope/tuklascope/internal/store"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	st, err := store.Open("file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return NewService(st)
}

// fixedDay returns a clock pinned to noon UTC on the given day.
func fixedDay(day string) func() time.Time {
	t, err := time.Parse(DateLayout, day)
	if err != nil {
		panic(err)
	}
	t = t.Add(12 * time.Hour)
	return func() time.Time { return t }
}

func TestUpdateStatsMissingUser(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.UpdateStats(context.Background(), "ghost", 10, true)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestUpdateStatsPointsOnly(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	if err := svc.Init(ctx, "u1"); err != nil {
		t.Fatalf("init: %v", err)
	}
	svc.Now = fixedDay("2024-01-15")

	got, err := svc.UpdateStats(ctx, "u1", 10, false)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.TotalPoints != 10 {
		t.Errorf("totalPoints = %d, want 10", got.TotalPoints)
	}
	if got.Streak != 0 || got.LastLoginDate != "" {
		t.Errorf("streak state changed: %+v", got)
	}
}

func TestStreakFirstDiscovery(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	if err := svc.Init(ctx, "u1"); err != nil {
		t.Fatalf("init: %v", err)
	}
	svc.Now = fixedDay("2024-01-15")

	got, err := svc.UpdateStats(ctx, "u1", 25, true)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Streak != 1 {
		t.Errorf("streak = %d, want 1", got.Streak)
	}
	if got.LastLoginDate != "2024-01-15" {
		t.Errorf("lastLoginDate = %q, want 2024-01-15", got.LastLoginDate)
	}
	if got.TotalPoints != 25 {
		t.Errorf("totalPoints = %d, want 25", got.TotalPoints)
	}
}

func TestStreakContinuation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	if err := svc.Init(ctx, "u1"); err != nil {
		t.Fatalf("init: %v", err)
	}

	svc.Now = fixedDay("2024-01-15")
	if _, err := svc.UpdateStats(ctx, "u1", 25, true); err != nil {
		t.Fatalf("day 1: %v", err)
	}

	svc.Now = fixedDay("2024-01-16")
	got, err := svc.UpdateStats(ctx, "u1", 5, true)
	if err != nil {
		t.Fatalf("day 2: %v", err)
	}
	if got.Streak != 2 {
		t.Errorf("streak = %d, want 2", got.Streak)
	}
	if got.LastLoginDate != "2024-01-16" {
		t.Errorf("lastLoginDate = %q, want 2024-01-16", got.LastLoginDate)
	}
	if got.TotalPoints != 30 {
		t.Errorf("totalPoints = %d, want 30", got.TotalPoints)
	}
}

func TestStreakResetAfterGap(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	if err := svc.Init(ctx, "u1"); err != nil {
		t.Fatalf("init: %v", err)
	}

	svc.Now = fixedDay("2024-01-15")
	if _, err := svc.UpdateStats(ctx, "u1", 25, true); err != nil {
		t.Fatalf("day 1: %v", err)
	}
	svc.Now = fixedDay("2024-01-16")
	if _, err := svc.UpdateStats(ctx, "u1", 5, true); err != nil {
		t.Fatalf("day 2: %v", err)
	}

	// Two-day gap resets the streak, counting today as day one.
	svc.Now = fixedDay("2024-01-19")
	got, err := svc.UpdateStats(ctx, "u1", 5, true)
	if err != nil {
		t.Fatalf("after gap: %v", err)
	}
	if got.Streak != 1 {
		t.Errorf("streak = %d, want 1", got.Streak)
	}
	if got.LastLoginDate != "2024-01-19" {
		t.Errorf("lastLoginDate = %q, want 2024-01-19", got.LastLoginDate)
	}
}

func TestSameDayIdempotence(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	if err := svc.Init(ctx, "u1"); err != nil {
		t.Fatalf("init: %v", err)
	}
	svc.Now = fixedDay("2024-01-15")

	if _, err := svc.UpdateStats(ctx, "u1", 25, true); err != nil {
		t.Fatalf("first: %v", err)
	}
	got, err := svc.UpdateStats(ctx, "u1", 5, true)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if got.Streak != 1 {
		t.Errorf("streak = %d, want 1 (one advance per day)", got.Streak)
	}
	if got.TotalPoints != 30 {
		t.Errorf("totalPoints = %d, want 30", got.TotalPoints)
	}

	// Persisted state agrees with the returned view.
	stored, err := svc.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if stored != got {
		t.Errorf("stored = %+v, returned = %+v", stored, got)
	}
}

func TestLeaderboard(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	users := map[string]int{"ana": 120, "ben": 45, "cai": 120, "dee": 300}
	for id, pts := range users {
		if err := svc.Init(ctx, id); err != nil {
			t.Fatalf("init %s: %v", id, err)
		}
		if _, err := svc.UpdateStats(ctx, id, pts, false); err != nil {
			t.Fatalf("points %s: %v", id, err)
		}
	}

	top, err := svc.Leaderboard(ctx, 3)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("len = %d, want 3", len(top))
	}
	wantOrder := []string{"dee", "ana", "cai"}
	for i, want := range wantOrder {
		if top[i].UserID != want {
			t.Errorf("rank %d = %s, want %s", i+1, top[i].UserID, want)
		}
	}
}

func TestBadgeCatalog(t *testing.T) {
	b, ok := BadgeByID("badge_garden_explorer")
	if !ok {
		t.Fatal("garden explorer badge missing from catalog")
	}
	if b.Name != "Garden Explorer" {
		t.Errorf("name = %q", b.Name)
	}
	if _, ok := BadgeByID("badge_unknown"); ok {
		t.Error("unexpected badge for unknown id")
	}
}
