package search

import (
	"hash/fnv"
	"math"
	"strings"
)

// DefaultDims is the embedding width used for material name search.
const DefaultDims = 64

// EmbedText turns free text into a fixed-width vector by feature-hashing
// character trigrams. Crude, but it ranks "plastic bottle" near "plastics"
// without calling out to a model, and the same function embeds both the
// indexed names and the queries.
func EmbedText(text string, dims int) []float32 {
	vec := make([]float32, dims)
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return vec
	}

	padded := "  " + s + "  "
	for i := 0; i+3 <= len(padded); i++ {
		h := fnv.New32a()
		h.Write([]byte(padded[i : i+3]))
		vec[h.Sum32()%uint32(dims)]++
	}

	var norm float64
	for _, f := range vec {
		norm += float64(f) * float64(f)
	}
	if norm > 0 {
		inv := float32(1 / math.Sqrt(norm))
		for i := range vec {
			vec[i] *= inv
		}
	}
	return vec
}
