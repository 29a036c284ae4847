package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/tuklascope/tuklascope/internal/store"
)

// Collection is the document collection holding per-user progress.
const Collection = "user_progress"

// ErrNotFound indicates the user's progress document does not exist.
// UpdateStats treats this as a hard precondition failure: the profile
// must be created (see the users package) before stats can be updated.
var ErrNotFound = errors.New("user progress not found")

// Service updates and reads gamification state against the store.
type Service struct {
	store *store.Store

	// Now is the clock; overridable in tests. Defaults to time.Now.
	Now func() time.Time
}

// NewService creates a progress service backed by st.
func NewService(st *store.Store) *Service {
	return &Service{store: st, Now: time.Now}
}

// Init writes a zeroed progress document for a new user. Called from the
// profile-creation flow only; UpdateStats never auto-creates.
func (s *Service) Init(ctx context.Context, userID string) error {
	doc, err := toDocument(UserProgress{})
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, Collection, userID, doc); err != nil {
		return fmt.Errorf("init progress for %s: %w", userID, err)
	}
	return nil
}

// Get reads the user's current progress. Returns ErrNotFound when the
// document does not exist.
func (s *Service) Get(ctx context.Context, userID string) (UserProgress, error) {
	doc, err := s.store.Get(ctx, Collection, userID)
	if errors.Is(err, store.ErrNotFound) {
		return UserProgress{}, fmt.Errorf("%w: %s", ErrNotFound, userID)
	}
	if err != nil {
		return UserProgress{}, err
	}
	return fromDocument(doc)
}

// UpdateStats adds points and, for new discoveries, advances the daily
// streak. Exactly one streak transition is evaluated per call:
//
//   - not a new discovery: points only
//   - already credited today: points only (a day registers at most one
//     streak advance)
//   - last activity was yesterday: streak continues (+1)
//   - otherwise (gap, or never active): streak resets to 1
//
// Points go through the store's atomic increment; streak and date go
// through a field merge. Persistence failures propagate unchanged.
func (s *Service) UpdateStats(ctx context.Context, userID string, pointsToAdd int, isNewDiscovery bool) (UserProgress, error) {
	current, err := s.Get(ctx, userID)
	if err != nil {
		return UserProgress{}, err
	}

	now := s.Now()
	today := Day(now)
	yesterday := Day(now.AddDate(0, 0, -1))

	next := current
	next.TotalPoints += pointsToAdd

	if isNewDiscovery && current.LastLoginDate != today {
		if current.LastLoginDate == yesterday {
			next.Streak = current.Streak + 1
		} else {
			next.Streak = 1
		}
		next.LastLoginDate = today

		err := s.store.Merge(ctx, Collection, userID, store.Document{
			"streak":        next.Streak,
			"lastLoginDate": next.LastLoginDate,
		})
		if err != nil {
			return UserProgress{}, fmt.Errorf("update streak for %s: %w", userID, err)
		}
	}

	if pointsToAdd != 0 {
		err := s.store.Increment(ctx, Collection, userID, "totalPoints", int64(pointsToAdd))
		if err != nil {
			return UserProgress{}, fmt.Errorf("add points for %s: %w", userID, err)
		}
	}

	return next, nil
}

// LeaderboardEntry is one user's standing.
type LeaderboardEntry struct {
	UserID      string
	TotalPoints int
	Streak      int
}

// Leaderboard returns the top n users by total points, descending.
// Ties break by user ID for stable output.
func (s *Service) Leaderboard(ctx context.Context, n int) ([]LeaderboardEntry, error) {
	docs, err := s.store.List(ctx, Collection)
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(docs))
	for _, kd := range docs {
		p, err := fromDocument(kd.Doc)
		if err != nil {
			return nil, fmt.Errorf("decode progress for %s: %w", kd.Key, err)
		}
		entries = append(entries, LeaderboardEntry{
			UserID:      kd.Key,
			TotalPoints: p.TotalPoints,
			Streak:      p.Streak,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].TotalPoints != entries[j].TotalPoints {
			return entries[i].TotalPoints > entries[j].TotalPoints
		}
		return entries[i].UserID < entries[j].UserID
	})

	if n > 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries, nil
}

func toDocument(p UserProgress) (store.Document, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode progress: %w", err)
	}
	var doc store.Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("encode progress: %w", err)
	}
	return doc, nil
}

func fromDocument(doc store.Document) (UserProgress, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return UserProgress{}, fmt.Errorf("decode progress: %w", err)
	}
	var p UserProgress
	if err := json.Unmarshal(b, &p); err != nil {
		return UserProgress{}, fmt.Errorf("decode progress: %w", err)
	}
	return p, nil
}
