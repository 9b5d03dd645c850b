package badger

import (
	"math"
)

// CosineSimilarity computes the cosine similarity between two vectors,
// mapped into [0,1] as 1 - cosine_distance. A zero vector (the embedding
// provider's degraded output) has similarity 0 against everything, so it can
// never cross a duplicate threshold.
func CosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))

	// Clamp floating point drift into the similarity transform's range
	if sim > 1 {
		sim = 1
	}
	if sim < 0 {
		sim = 0
	}
	return sim
}
