package discovery

// Config holds discovery pipeline generation settings.
type Config struct {
	// IdentifyMaxTokens bounds the identification response.
	IdentifyMaxTokens int

	// SparkMaxTokens bounds the spark content response.
	SparkMaxTokens int

	// SkillsMaxTokens bounds the skill extraction response.
	SkillsMaxTokens int

	// GuidanceMaxTokens bounds pathfinder and tutor responses.
	GuidanceMaxTokens int

	Temperature float64
}

// DefaultConfig returns sensible defaults for the pipeline.
func DefaultConfig() Config {
	return Config{
		IdentifyMaxTokens: 256,
		SparkMaxTokens:    1024,
		SkillsMaxTokens:   512,
		GuidanceMaxTokens: 1536,
		Temperature:       0.4,
	}
}
