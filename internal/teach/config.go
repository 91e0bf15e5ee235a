package teach

// Config holds generation settings for the teaching tools.
type Config struct {
	ExplainMaxTokens int
	StoryMaxTokens   int
	Temperature      float64
}

// DefaultConfig returns sensible defaults for teaching content generation.
func DefaultConfig() Config {
	return Config{
		ExplainMaxTokens: 512,
		StoryMaxTokens:   1024,
		Temperature:      0.7,
	}
}
