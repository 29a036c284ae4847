package discovery

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/tuklascope/tuklascope/internal/llm"
)

var testImage = Image{MediaType: "image/jpeg", Data: []byte("fake-jpeg-bytes")}

func pipelineResponses() []llm.MockResponse {
	return []llm.MockResponse{
		{Content: json.RawMessage(`{"object_label":"Mango leaf","category_hint":"Biology"}`)},
		{Content: json.RawMessage(`{"quick_facts":"Leaves are green.","stem_concepts":"Photosynthesis converts light to energy.","hands_on_project":"Trap a leaf under glass."}`)},
		{Content: json.RawMessage(`{"normalized_skills":[{"skill_name":"Photosynthesis","category":"Biology"},{"skill_name":"Plant Anatomy","category":"Biology"}]}`)},
	}
}

func TestDiscover_FullPipeline(t *testing.T) {
	mock := llm.NewMockProvider(pipelineResponses()...)
	svc := NewService(mock, DefaultConfig())

	result, err := svc.Discover(context.Background(), testImage, "Junior High School")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Identification.ObjectLabel != "Mango leaf" {
		t.Errorf("object label = %q", result.Identification.ObjectLabel)
	}
	if result.SparkContent.STEMConcepts == "" {
		t.Error("expected spark content")
	}
	if len(result.Skills.NormalizedSkills) != 2 {
		t.Fatalf("expected 2 skills, got %d", len(result.Skills.NormalizedSkills))
	}
	if result.Skills.NormalizedSkills[0].Name != "Photosynthesis" {
		t.Errorf("skill = %q", result.Skills.NormalizedSkills[0].Name)
	}
	if mock.CallCount() != 3 {
		t.Errorf("expected 3 LLM calls, got %d", mock.CallCount())
	}
}

func TestDiscover_SendsImageOnlyInFirstStage(t *testing.T) {
	mock := llm.NewMockProvider(pipelineResponses()...)
	svc := NewService(mock, DefaultConfig())

	if _, err := svc.Discover(context.Background(), testImage, "Elementary"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(mock.Calls[0].Messages[0].Images) != 1 {
		t.Fatal("identification call must carry the image")
	}
	if mock.Calls[0].Messages[0].Images[0].MediaType != "image/jpeg" {
		t.Errorf("media type = %q", mock.Calls[0].Messages[0].Images[0].MediaType)
	}
	for i, call := range mock.Calls[1:] {
		if len(call.Messages[0].Images) != 0 {
			t.Errorf("stage %d should not carry the image", i+2)
		}
	}
}

func TestDiscover_EmptyImage(t *testing.T) {
	svc := NewService(llm.NewMockProvider(), DefaultConfig())
	_, err := svc.Discover(context.Background(), Image{}, "Elementary")
	if !errors.Is(err, ErrEmptyImage) {
		t.Fatalf("err = %v, want ErrEmptyImage", err)
	}
}

func TestDiscover_IdentificationFailureAborts(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{}},
	)
	svc := NewService(mock, DefaultConfig())

	_, err := svc.Discover(context.Background(), testImage, "Elementary")
	if err == nil {
		t.Fatal("expected error")
	}
	if mock.CallCount() != 1 {
		t.Errorf("pipeline should stop after first failure, made %d calls", mock.CallCount())
	}
}

func TestDiscover_NoSkillsExtracted(t *testing.T) {
	responses := pipelineResponses()
	responses[2] = llm.MockResponse{Content: json.RawMessage(`{"normalized_skills":[]}`)}
	svc := NewService(llm.NewMockProvider(responses...), DefaultConfig())

	_, err := svc.Discover(context.Background(), testImage, "Elementary")
	if !errors.Is(err, ErrNoSkills) {
		t.Fatalf("err = %v, want ErrNoSkills", err)
	}
}

func TestPathfinder(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{
		"title": "Your Path in the Sciences",
		"summary": "Strong in biology.",
		"strongest_fields": [{"skill": "Photosynthesis", "score": 85}],
		"recommendations": [{"type": "strand", "name": "STEM Strand", "why": "Fits your biology skills."}]
	}`)})
	svc := NewService(mock, DefaultConfig())
	svc.Now = func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }

	guidance, err := svc.Pathfinder(context.Background(),
		map[string]int{"Photosynthesis": 85}, "Junior High School")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if guidance.Title == "" || len(guidance.Recommendations) != 1 {
		t.Errorf("unexpected guidance: %+v", guidance)
	}
	if guidance.StrongestFields[0].Score != 85 {
		t.Errorf("score = %d, want 85", guidance.StrongestFields[0].Score)
	}
}

func TestTutor_UnwrapsJSONString(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(`"Leaves look green because chlorophyll reflects green light."`)},
	)
	svc := NewService(mock, DefaultConfig())

	answer, err := svc.Tutor(context.Background(), TutorInput{
		Question:      "Why are leaves green?",
		GradeLevel:    "Elementary",
		ObjectContext: "Mango leaf",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer != "Leaves look green because chlorophyll reflects green light." {
		t.Errorf("answer = %q", answer)
	}
}

func TestTutor_PlainTextPassThrough(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage("Plain text answer.")},
	)
	svc := NewService(mock, DefaultConfig())

	answer, err := svc.Tutor(context.Background(), TutorInput{Question: "hi", GradeLevel: "Elementary"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer != "Plain text answer." {
		t.Errorf("answer = %q", answer)
	}
}
