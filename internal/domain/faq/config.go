package faq

// DefaultSimilarityThreshold is the cosine score a match must strictly exceed.
const DefaultSimilarityThreshold = 0.75

// DefaultMaxMessageLength caps the rune length of messages worth encoding.
const DefaultMaxMessageLength = 1000

// Config holds runtime knobs for the FAQ service.
type Config struct {
	SimilarityThreshold float64
	MaxMessageLength    int
	// IgnorePatterns lists substrings that mark a message as not worth answering.
	IgnorePatterns []string
}

func (c Config) withDefaults() Config {
	if c.MaxMessageLength <= 0 {
		c.MaxMessageLength = DefaultMaxMessageLength
	}
	return c
}
