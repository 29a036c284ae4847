package store

import (
	"context"
	"errors"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil sql.DB")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so journal_mode is not asserted here.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestGetMissing(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Get(context.Background(), "users", "nobody")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSetAndGet(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	doc := Document{"name": "Maya", "points": float64(25)}
	if err := s.Set(ctx, "users", "u1", doc); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, err := s.Get(ctx, "users", "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got["name"] != "Maya" {
		t.Errorf("name = %v, want Maya", got["name"])
	}
	if got["points"] != float64(25) {
		t.Errorf("points = %v, want 25", got["points"])
	}
}

func TestSetReplacesWholeDocument(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, "users", "u1", Document{"a": "1", "b": "2"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Set(ctx, "users", "u1", Document{"a": "3"}); err != nil {
		t.Fatalf("set: %v", err)
	}

	got, err := s.Get(ctx, "users", "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if _, ok := got["b"]; ok {
		t.Error("field b survived a full replace")
	}
}

func TestMergeKeepsUnlistedFields(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, "users", "u1", Document{"a": "1", "b": "2"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Merge(ctx, "users", "u1", Document{"b": "9", "c": "3"}); err != nil {
		t.Fatalf("merge: %v", err)
	}

	got, err := s.Get(ctx, "users", "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got["a"] != "1" || got["b"] != "9" || got["c"] != "3" {
		t.Errorf("merged doc = %v", got)
	}
}

func TestMergeCreatesMissingDocument(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Merge(ctx, "users", "fresh", Document{"a": "1"}); err != nil {
		t.Fatalf("merge: %v", err)
	}
	got, err := s.Get(ctx, "users", "fresh")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got["a"] != "1" {
		t.Errorf("doc = %v", got)
	}
}

func TestIncrement(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, "user_progress", "u1", Document{"totalPoints": float64(10)}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Increment(ctx, "user_progress", "u1", "totalPoints", 25); err != nil {
		t.Fatalf("increment: %v", err)
	}
	if err := s.Increment(ctx, "user_progress", "u1", "totalPoints", 5); err != nil {
		t.Fatalf("increment: %v", err)
	}

	got, err := s.Get(ctx, "user_progress", "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got["totalPoints"] != float64(40) {
		t.Errorf("totalPoints = %v, want 40", got["totalPoints"])
	}
}

func TestIncrementMissingField(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, "user_progress", "u1", Document{"streak": float64(0)}); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Increment(ctx, "user_progress", "u1", "totalPoints", 7); err != nil {
		t.Fatalf("increment: %v", err)
	}

	got, err := s.Get(ctx, "user_progress", "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got["totalPoints"] != float64(7) {
		t.Errorf("totalPoints = %v, want 7", got["totalPoints"])
	}
}

func TestIncrementMissingDocument(t *testing.T) {
	s := openTestStore(t)
	err := s.Increment(context.Background(), "user_progress", "ghost", "totalPoints", 1)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteMissingIsNoError(t *testing.T) {
	s := openTestStore(t)
	if err := s.Delete(context.Background(), "users", "ghost"); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestList(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, k := range []string{"u1", "u2", "u3"} {
		if err := s.Set(ctx, "user_progress", k, Document{"totalPoints": float64(1)}); err != nil {
			t.Fatalf("set %s: %v", k, err)
		}
	}

	docs, err := s.List(ctx, "user_progress")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(docs) != 3 {
		t.Errorf("len = %d, want 3", len(docs))
	}
}

func TestWatchDeliversFullDocument(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	ch, cancel := s.Watch("user_skills", "u1")
	defer cancel()

	if err := s.Set(ctx, "user_skills", "u1", Document{"Photosynthesis": "x"}); err != nil {
		t.Fatalf("set: %v", err)
	}

	select {
	case doc := <-ch:
		if doc["Photosynthesis"] != "x" {
			t.Errorf("doc = %v", doc)
		}
	case <-time.After(time.Second):
		t.Fatal("no delivery within 1s")
	}
}

func TestWatchIgnoresOtherKeys(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	ch, cancel := s.Watch("user_skills", "u1")
	defer cancel()

	if err := s.Set(ctx, "user_skills", "u2", Document{"a": "1"}); err != nil {
		t.Fatalf("set: %v", err)
	}

	select {
	case doc := <-ch:
		t.Fatalf("unexpected delivery: %v", doc)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var got []Document
	done := make(chan struct{})
	unsubscribe := s.Subscribe("user_skills", "u1", func(d Document) {
		got = append(got, d)
		select {
		case done <- struct{}{}:
		default:
		}
	})

	if err := s.Set(ctx, "user_skills", "u1", Document{"a": "1"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("no delivery within 1s")
	}

	unsubscribe()
	unsubscribe() // second call is a no-op

	if err := s.Set(ctx, "user_skills", "u1", Document{"a": "2"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(50 * time.Millisecond)
	if len(got) != 1 {
		t.Errorf("deliveries = %d, want 1", len(got))
	}
}

func TestEventRepoDiscoveries(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.EventRepo()

	for i, label := range []string{"Fern", "Magnet", "Prism"} {
		err := repo.AppendDiscovery(ctx, DiscoveryEventData{
			ID:            string(rune('a' + i)),
			UserID:        "u1",
			ObjectLabel:   label,
			SkillsAwarded: 2,
			PointsAwarded: 30,
		})
		if err != nil {
			t.Fatalf("append %s: %v", label, err)
		}
		time.Sleep(2 * time.Millisecond) // distinct timestamps
	}

	recent, err := repo.RecentDiscoveries(ctx, "u1", 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("len = %d, want 2", len(recent))
	}
	if recent[0].ObjectLabel != "Prism" {
		t.Errorf("newest = %s, want Prism", recent[0].ObjectLabel)
	}
}

func TestEventRepoLLMUsage(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.EventRepo()

	events := []LLMRequestEventData{
		{Provider: "gemini", Model: "m", Purpose: "identify", InputTokens: 10, OutputTokens: 5, Success: true},
		{Provider: "gemini", Model: "m", Purpose: "identify", InputTokens: 12, OutputTokens: 6, Success: false, ErrorMessage: "boom"},
		{Provider: "gemini", Model: "m", Purpose: "spark", InputTokens: 20, OutputTokens: 40, Success: true},
	}
	for _, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	usage, err := repo.LLMUsage(ctx)
	if err != nil {
		t.Fatalf("usage: %v", err)
	}
	if len(usage) != 2 {
		t.Fatalf("len = %d, want 2", len(usage))
	}
	if usage[0].Purpose != "identify" || usage[0].Model != "m" || usage[0].Requests != 2 || usage[0].Failures != 1 {
		t.Errorf("identify usage = %+v", usage[0])
	}
	if usage[0].InputTokens != 22 {
		t.Errorf("identify input tokens = %d, want 22", usage[0].InputTokens)
	}
}
