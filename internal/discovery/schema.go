package discovery

import "github.com/tuklascope/tuklascope/internal/llm"

// IdentificationSchema defines the JSON schema for object identification.
var IdentificationSchema = &llm.Schema{
	Name:        "object-identification",
	Description: "The identified object and a hint for its STEM category",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"object_label": map[string]any{
				"type":        "string",
				"description": "The name of the identified object",
			},
			"category_hint": map[string]any{
				"type":        "string",
				"description": "A hint for the object's category",
			},
		},
		"required":             []any{"object_label", "category_hint"},
		"additionalProperties": false,
	},
}

// SparkSchema defines the JSON schema for spark content generation.
var SparkSchema = &llm.Schema{
	Name:        "spark-content",
	Description: "Learning content for an identified object: facts, concepts, and a project",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"quick_facts": map[string]any{
				"type":        "string",
				"description": "2-3 surprising facts about the object",
			},
			"stem_concepts": map[string]any{
				"type":        "string",
				"description": "The STEM concepts the object demonstrates, explained for the grade level",
			},
			"hands_on_project": map[string]any{
				"type":        "string",
				"description": "A small hands-on activity using common household materials",
			},
		},
		"required":             []any{"quick_facts", "stem_concepts", "hands_on_project"},
		"additionalProperties": false,
	},
}

// SkillsSchema defines the JSON schema for skill extraction.
var SkillsSchema = &llm.Schema{
	Name:        "normalized-skills",
	Description: "STEM skills extracted from learning content, normalized to canonical names",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"normalized_skills": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"skill_name": map[string]any{
							"type":        "string",
							"description": "The specific name of the STEM skill learned",
						},
						"category": map[string]any{
							"type":        "string",
							"description": "The broader STEM category for the skill",
						},
					},
					"required":             []any{"skill_name", "category"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"normalized_skills"},
		"additionalProperties": false,
	},
}

// PathfinderSchema defines the JSON schema for pathfinder guidance.
var PathfinderSchema = &llm.Schema{
	Name:        "pathfinder-guidance",
	Description: "Personalized academic and career guidance from acquired skills",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{
				"type":        "string",
				"description": "Short motivating title for the guidance",
			},
			"summary": map[string]any{
				"type":        "string",
				"description": "2-3 sentence summary of the learner's STEM profile",
			},
			"strongest_fields": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"skill": map[string]any{"type": "string"},
						"score": map[string]any{"type": "integer"},
					},
					"required":             []any{"skill", "score"},
					"additionalProperties": false,
				},
			},
			"recommendations": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"type": map[string]any{
							"type":        "string",
							"description": "Kind of recommendation, e.g. 'strand', 'course', 'career'",
						},
						"name": map[string]any{"type": "string"},
						"why":  map[string]any{"type": "string"},
						"whats_next": map[string]any{
							"type":        "string",
							"description": "Concrete next step the learner can take",
						},
						"inspiration": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"name":        map[string]any{"type": "string"},
								"description": map[string]any{"type": "string"},
							},
							"required": []any{"name", "description"},
						},
						"career_paths": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "string"},
						},
						"local_spotlight": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "string"},
						},
					},
					"required": []any{"type", "name", "why"},
				},
			},
		},
		"required":             []any{"title", "summary", "strongest_fields", "recommendations"},
		"additionalProperties": false,
	},
}
