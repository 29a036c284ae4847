// Package discovery runs the snap-to-spark pipeline: identify an object
// from a photo, generate learning content for it, and extract the STEM
// skills that content teaches.
package discovery

import (
	"context"

	"github.com/tuklascope/tuklascope/internal/skills"
)

// Identification names the object in a captured image.
type Identification struct {
	ObjectLabel  string `json:"object_label"`
	CategoryHint string `json:"category_hint"`
}

// SparkContent is the learning content generated for an identified object.
type SparkContent struct {
	QuickFacts     string `json:"quick_facts"`
	STEMConcepts   string `json:"stem_concepts"`
	HandsOnProject string `json:"hands_on_project"`
}

// SkillsResponse lists the normalized skills extracted from spark content.
type SkillsResponse struct {
	NormalizedSkills []skills.Observation `json:"normalized_skills"`
}

// FullDiscovery is the complete result of one discovery run.
type FullDiscovery struct {
	Identification Identification `json:"identification"`
	SparkContent   SparkContent   `json:"spark_content"`
	Skills         SkillsResponse `json:"skills"`
}

// Image is a captured photo handed to the pipeline.
type Image struct {
	// MediaType is the MIME type, e.g. "image/jpeg".
	MediaType string

	// Data is the raw image bytes.
	Data []byte
}

// StrongestField is one of the user's top skills by mastery score.
type StrongestField struct {
	Skill string `json:"skill"`
	Score int    `json:"score"`
}

// Inspiration is a role model attached to a recommendation.
type Inspiration struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Recommendation is one guidance entry from the pathfinder.
type Recommendation struct {
	Type           string       `json:"type"`
	Name           string       `json:"name"`
	Why            string       `json:"why"`
	WhatsNext      string       `json:"whats_next,omitempty"`
	Inspiration    *Inspiration `json:"inspiration,omitempty"`
	CareerPaths    []string     `json:"career_paths,omitempty"`
	LocalSpotlight []string     `json:"local_spotlight,omitempty"`
}

// PathfinderGuidance is personalized academic and career guidance
// derived from the user's acquired skills.
type PathfinderGuidance struct {
	Title           string           `json:"title"`
	Summary         string           `json:"summary"`
	StrongestFields []StrongestField `json:"strongest_fields"`
	Recommendations []Recommendation `json:"recommendations"`
}

// ChatMessage is one turn of tutor conversation history.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// TutorInput is a conversational question for the tutor.
type TutorInput struct {
	Question      string        `json:"user_question"`
	GradeLevel    string        `json:"grade_level"`
	ChatHistory   []ChatMessage `json:"chat_history,omitempty"`
	ObjectContext string        `json:"object_context,omitempty"`
}

// Discoverer is implemented by both the local LLM pipeline and the
// remote HTTP client.
type Discoverer interface {
	// Discover runs the full pipeline for one image.
	Discover(ctx context.Context, img Image, gradeLevel string) (*FullDiscovery, error)

	// Pathfinder generates guidance from a skill→mastery map.
	Pathfinder(ctx context.Context, userSkills map[string]int, gradeLevel string) (*PathfinderGuidance, error)

	// Tutor answers a conversational question.
	Tutor(ctx context.Context, input TutorInput) (string, error)
}
