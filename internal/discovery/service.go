package discovery

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tuklascope/tuklascope/internal/llm"
)

// ErrEmptyImage indicates Discover was called without image data.
var ErrEmptyImage = errors.New("image data is empty")

// ErrNoSkills indicates the pipeline completed but extracted no skills.
var ErrNoSkills = errors.New("no skills extracted from spark content")

// Service runs the discovery pipeline against a local LLM provider.
type Service struct {
	provider llm.Provider
	cfg      Config

	// Now is the clock used in prompts; overridable in tests.
	Now func() time.Time
}

var _ Discoverer = (*Service)(nil)

// NewService creates a discovery service.
func NewService(provider llm.Provider, cfg Config) *Service {
	return &Service{provider: provider, cfg: cfg, Now: time.Now}
}

// Discover runs the three pipeline stages in order. Each stage is a
// schema-validated structured call; a failure in any stage aborts the run.
func (s *Service) Discover(ctx context.Context, img Image, gradeLevel string) (*FullDiscovery, error) {
	if len(img.Data) == 0 {
		return nil, ErrEmptyImage
	}

	id, err := s.identify(ctx, img)
	if err != nil {
		return nil, fmt.Errorf("identification: %w", err)
	}

	spark, err := s.spark(ctx, id, gradeLevel)
	if err != nil {
		return nil, fmt.Errorf("spark content: %w", err)
	}

	extracted, err := s.extractSkills(ctx, spark)
	if err != nil {
		return nil, fmt.Errorf("skill extraction: %w", err)
	}

	return &FullDiscovery{
		Identification: id,
		SparkContent:   spark,
		Skills:         extracted,
	}, nil
}

func (s *Service) identify(ctx context.Context, img Image) (Identification, error) {
	ctx = llm.WithPurpose(ctx, "identification")

	mediaType := img.MediaType
	if mediaType == "" {
		mediaType = "image/jpeg"
	}

	req := llm.Request{
		System: identificationSystemPrompt,
		Messages: []llm.Message{{
			Role:    llm.RoleUser,
			Content: identificationUserMessage,
			Images: []llm.ImageData{{
				MediaType: mediaType,
				Base64:    base64.StdEncoding.EncodeToString(img.Data),
			}},
		}},
		Schema:      IdentificationSchema,
		MaxTokens:   s.cfg.IdentifyMaxTokens,
		Temperature: s.cfg.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return Identification{}, err
	}

	var id Identification
	if err := json.Unmarshal(resp.Content, &id); err != nil {
		return Identification{}, fmt.Errorf("parse identification: %w", err)
	}
	return id, nil
}

func (s *Service) spark(ctx context.Context, id Identification, gradeLevel string) (SparkContent, error) {
	ctx = llm.WithPurpose(ctx, "spark-content")

	req := llm.Request{
		System: sparkSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildSparkUserMessage(id, gradeLevel)},
		},
		Schema:      SparkSchema,
		MaxTokens:   s.cfg.SparkMaxTokens,
		Temperature: s.cfg.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return SparkContent{}, err
	}

	var spark SparkContent
	if err := json.Unmarshal(resp.Content, &spark); err != nil {
		return SparkContent{}, fmt.Errorf("parse spark content: %w", err)
	}
	return spark, nil
}

func (s *Service) extractSkills(ctx context.Context, spark SparkContent) (SkillsResponse, error) {
	ctx = llm.WithPurpose(ctx, "skill-extraction")

	req := llm.Request{
		System: skillsSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildSkillsUserMessage(spark)},
		},
		Schema:      SkillsSchema,
		MaxTokens:   s.cfg.SkillsMaxTokens,
		Temperature: s.cfg.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return SkillsResponse{}, err
	}

	var out SkillsResponse
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return SkillsResponse{}, fmt.Errorf("parse skills: %w", err)
	}
	if len(out.NormalizedSkills) == 0 {
		return SkillsResponse{}, ErrNoSkills
	}
	return out, nil
}

// Pathfinder generates academic and career guidance from the user's
// skill→mastery map.
func (s *Service) Pathfinder(ctx context.Context, userSkills map[string]int, gradeLevel string) (*PathfinderGuidance, error) {
	ctx = llm.WithPurpose(ctx, "pathfinder")

	req := llm.Request{
		System: pathfinderSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildPathfinderUserMessage(userSkills, gradeLevel, s.Now())},
		},
		Schema:      PathfinderSchema,
		MaxTokens:   s.cfg.GuidanceMaxTokens,
		Temperature: s.cfg.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("pathfinder guidance: %w", err)
	}

	var guidance PathfinderGuidance
	if err := json.Unmarshal(resp.Content, &guidance); err != nil {
		return nil, fmt.Errorf("parse pathfinder guidance: %w", err)
	}
	return &guidance, nil
}

// Tutor answers a conversational question. The response is free text,
// not schema-constrained.
func (s *Service) Tutor(ctx context.Context, input TutorInput) (string, error) {
	ctx = llm.WithPurpose(ctx, "tutor")

	req := llm.Request{
		System: tutorSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildTutorUserMessage(input, s.Now())},
		},
		MaxTokens:   s.cfg.GuidanceMaxTokens,
		Temperature: s.cfg.Temperature,
	}

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return "", fmt.Errorf("tutor response: %w", err)
	}

	// Without a schema the content may arrive as a JSON-encoded string
	// or as plain text, depending on the provider.
	var text string
	if err := json.Unmarshal(resp.Content, &text); err != nil {
		text = string(resp.Content)
	}
	return strings.TrimSpace(text), nil
}
