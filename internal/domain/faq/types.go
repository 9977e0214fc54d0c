package faq

// Entry is a curated question/answer pair as persisted.
type Entry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Record pairs an entry with the embedding of its question.
type Record struct {
	Entry     Entry
	Embedding []float32
}

// Match is the outcome of a similarity search for one query vector.
type Match struct {
	Entry Entry
	Score float64
	Found bool
}

// Result is what Answer returns for a matched message.
type Result struct {
	Answer          string  `json:"answer"`
	MatchedQuestion string  `json:"matchedQuestion"`
	Sentence        string  `json:"sentence"`
	Score           float64 `json:"score"`
}
