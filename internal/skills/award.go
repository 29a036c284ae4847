package skills

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/tuklascope/tuklascope/internal/progress"
	"github.com/tuklascope/tuklascope/internal/store"
)

// Collection is the document collection holding per-user skill maps.
const Collection = "user_skills"

// ErrNotAuthenticated indicates no user context was supplied.
var ErrNotAuthenticated = errors.New("not authenticated: no user id")

// ValidationError indicates a malformed skill observation. The whole
// batch is rejected: nothing is persisted for a batch that contains any
// invalid entry.
type ValidationError struct {
	Index  int
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid observation at index %d: %s", e.Index, e.Reason)
}

// StatsUpdater is the slice of the progress service the award engine
// needs. The engine credits points as a new-discovery update after each
// awarding write.
type StatsUpdater interface {
	UpdateStats(ctx context.Context, userID string, pointsToAdd int, isNewDiscovery bool) (progress.UserProgress, error)
}

// Engine applies skill observations to a user's persisted skill map.
type Engine struct {
	store *store.Store
	stats StatsUpdater

	// Now is the clock; overridable in tests. Defaults to time.Now.
	Now func() time.Time
}

// NewEngine creates an award engine. stats may be nil, in which case no
// point/streak update is attempted (display-only flows).
func NewEngine(st *store.Store, stats StatsUpdater) *Engine {
	return &Engine{store: st, stats: stats, Now: time.Now}
}

// AwardResult reports the outcome of one AwardSkills call.
type AwardResult struct {
	Updated       SkillMap
	PointsAwarded int
	NewSkills     []string
	LeveledUp     []string
	Progress      *progress.UserProgress
}

// AwardSkills processes a batch of skill observations in input order:
// a new skill name enters the map at InitialMastery and earns
// PointsNewSkill; a known name gains MasteryStep mastery (clamped at
// MaxMastery) and MasteryStep XP (unclamped) and earns PointsLevelUp.
// The updated map is persisted as a single document write, then the
// points are credited through the progress engine as a new discovery.
//
// An empty batch is a no-op returning zero points. A batch containing
// an observation with no skill name fails whole with *ValidationError.
// There is no optimistic-concurrency guard on the map write: two racing
// calls for the same user can lose one call's mutations.
func (e *Engine) AwardSkills(ctx context.Context, userID string, observed []Observation) (*AwardResult, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	for i, obs := range observed {
		if obs.Name == "" {
			return nil, &ValidationError{Index: i, Reason: "missing skill_name"}
		}
	}
	if len(observed) == 0 {
		return &AwardResult{Updated: SkillMap{}}, nil
	}

	m, err := e.Load(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := e.Now().UTC()
	result := &AwardResult{}

	for _, obs := range observed {
		if sk, ok := m[obs.Name]; ok {
			sk.MasteryLevel = min(sk.MasteryLevel+MasteryStep, MaxMastery)
			sk.XPEarned += MasteryStep
			sk.LastUpdated = now
			m[obs.Name] = sk
			result.PointsAwarded += PointsLevelUp
			result.LeveledUp = append(result.LeveledUp, obs.Name)
		} else {
			m[obs.Name] = Skill{
				Name:         obs.Name,
				Category:     obs.Category,
				MasteryLevel: InitialMastery,
				XPEarned:     InitialMastery,
				DateAcquired: now,
				LastUpdated:  now,
			}
			result.PointsAwarded += PointsNewSkill
			result.NewSkills = append(result.NewSkills, obs.Name)
		}
	}

	doc, err := toDocument(m)
	if err != nil {
		return nil, err
	}
	if err := e.store.Set(ctx, Collection, userID, doc); err != nil {
		return nil, fmt.Errorf("persist skill map for %s: %w", userID, err)
	}
	result.Updated = m

	if result.PointsAwarded > 0 && e.stats != nil {
		p, err := e.stats.UpdateStats(ctx, userID, result.PointsAwarded, true)
		if err != nil {
			return nil, fmt.Errorf("credit %d points for %s: %w", result.PointsAwarded, userID, err)
		}
		result.Progress = &p
	}

	return result, nil
}

// Load reads a user's skill map. A user with no document yet gets an
// empty map, not an error.
func (e *Engine) Load(ctx context.Context, userID string) (SkillMap, error) {
	doc, err := e.store.Get(ctx, Collection, userID)
	if errors.Is(err, store.ErrNotFound) {
		return SkillMap{}, nil
	}
	if err != nil {
		return nil, err
	}
	return FromDocument(doc)
}

func toDocument(m SkillMap) (store.Document, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode skill map: %w", err)
	}
	var doc store.Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("encode skill map: %w", err)
	}
	return doc, nil
}

// FromDocument decodes a raw skill document into a SkillMap.
func FromDocument(doc store.Document) (SkillMap, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("decode skill map: %w", err)
	}
	var m SkillMap
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("decode skill map: %w", err)
	}
	// Document shape carries names as keys; keep the embedded name in sync
	// for maps written by older clients.
	for name, sk := range m {
		if sk.Name == "" {
			sk.Name = name
			m[name] = sk
		}
	}
	return m, nil
}
