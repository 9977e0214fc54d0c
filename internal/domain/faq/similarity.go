package faq

import "math"

// CosineSimilarity returns dot(a,b)/(|a||b|) in float64. Vectors of different
// length or with zero norm score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if math.IsNaN(sim) || math.IsInf(sim, 0) {
		return 0
	}
	return sim
}

// bestMatch scans records in order. The running maximum starts at 0 and only a
// strictly greater score replaces it, so the earliest record wins ties.
func bestMatch(records []*record, query []float32, threshold float64) Match {
	var (
		best     *record
		maxScore float64
	)
	for _, rec := range records {
		score := CosineSimilarity(query, rec.embedding)
		if score > maxScore {
			maxScore = score
			best = rec
		}
	}
	if best == nil || maxScore <= threshold {
		return Match{}
	}
	return Match{Entry: best.entry, Score: maxScore, Found: true}
}
