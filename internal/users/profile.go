// Package users manages user profile documents. Profile creation is the
// flow that bootstraps the progress document; the stats engine itself
// never auto-creates it.
package users

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/tuklascope/tuklascope/internal/progress"
	"github.com/tuklascope/tuklascope/internal/store"
)

// Collection is the document collection holding user profiles.
const Collection = "users"

// ErrNotFound indicates the profile document does not exist.
var ErrNotFound = errors.New("user profile not found")

// DefaultGradeLevel is used when a profile is created without one.
const DefaultGradeLevel = "Junior High School"

// Profile is the persisted user profile.
type Profile struct {
	DisplayName string    `json:"display_name"`
	GradeLevel  string    `json:"grade_level"`
	CreatedAt   time.Time `json:"created_at"`
}

// Service provides profile access.
type Service struct {
	store    *store.Store
	progress *progress.Service

	// Now is the clock; overridable in tests. Defaults to time.Now.
	Now func() time.Time
}

// NewService creates a profile service backed by st.
func NewService(st *store.Store, pg *progress.Service) *Service {
	return &Service{store: st, progress: pg, Now: time.Now}
}

// Create writes a new profile and initializes the user's progress
// document with zero points, zero streak, and no last-login date.
func (s *Service) Create(ctx context.Context, userID, displayName, gradeLevel string) (Profile, error) {
	if userID == "" {
		return Profile{}, errors.New("user id is required")
	}
	if gradeLevel == "" {
		gradeLevel = DefaultGradeLevel
	}

	p := Profile{
		DisplayName: displayName,
		GradeLevel:  gradeLevel,
		CreatedAt:   s.Now().UTC(),
	}
	doc, err := toDocument(p)
	if err != nil {
		return Profile{}, err
	}
	if err := s.store.Set(ctx, Collection, userID, doc); err != nil {
		return Profile{}, fmt.Errorf("create profile for %s: %w", userID, err)
	}

	if err := s.progress.Init(ctx, userID); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Get reads a profile. Returns ErrNotFound when it does not exist.
func (s *Service) Get(ctx context.Context, userID string) (Profile, error) {
	doc, err := s.store.Get(ctx, Collection, userID)
	if errors.Is(err, store.ErrNotFound) {
		return Profile{}, fmt.Errorf("%w: %s", ErrNotFound, userID)
	}
	if err != nil {
		return Profile{}, err
	}
	return fromDocument(doc)
}

// SetGradeLevel updates just the education level on an existing profile.
func (s *Service) SetGradeLevel(ctx context.Context, userID, gradeLevel string) error {
	if _, err := s.Get(ctx, userID); err != nil {
		return err
	}
	err := s.store.Merge(ctx, Collection, userID, store.Document{"grade_level": gradeLevel})
	if err != nil {
		return fmt.Errorf("set grade level for %s: %w", userID, err)
	}
	return nil
}

func toDocument(p Profile) (store.Document, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode profile: %w", err)
	}
	var doc store.Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("encode profile: %w", err)
	}
	return doc, nil
}

func fromDocument(doc store.Document) (Profile, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return Profile{}, fmt.Errorf("decode profile: %w", err)
	}
	var p Profile
	if err := json.Unmarshal(b, &p); err != nil {
		return Profile{}, fmt.Errorf("decode profile: %w", err)
	}
	return p, nil
}
