package search

import (
	"math"
	"testing"
)

func TestEmbedTextNormalized(t *testing.T) {
	vec := EmbedText("plastic bottle", DefaultDims)
	if len(vec) != DefaultDims {
		t.Fatalf("expected %d dims, got %d", DefaultDims, len(vec))
	}

	var norm float64
	for _, f := range vec {
		norm += float64(f) * float64(f)
	}
	if math.Abs(norm-1) > 1e-5 {
		t.Errorf("expected unit vector, got norm %v", math.Sqrt(norm))
	}
}

func TestEmbedTextEmpty(t *testing.T) {
	for _, text := range []string{"", "   "} {
		vec := EmbedText(text, DefaultDims)
		for i, f := range vec {
			if f != 0 {
				t.Fatalf("expected zero vector for %q, got %v at %d", text, f, i)
			}
		}
	}
}

func TestEmbedTextDeterministic(t *testing.T) {
	a := EmbedText("Aluminium Can", DefaultDims)
	b := EmbedText("aluminium can", DefaultDims)
	if cosineSimilarity(a, b) < 0.999 {
		t.Error("expected case-insensitive embeddings to match")
	}
}

func TestEmbedTextRanksRelatedTextCloser(t *testing.T) {
	query := EmbedText("plastic bottle", DefaultDims)
	related := EmbedText("plastic bottles", DefaultDims)
	unrelated := EmbedText("copper wire scrap", DefaultDims)

	simRelated := cosineSimilarity(query, related)
	simUnrelated := cosineSimilarity(query, unrelated)
	if simRelated <= simUnrelated {
		t.Errorf("expected related text to score higher: related=%v unrelated=%v", simRelated, simUnrelated)
	}
}

func TestCosineSimilarity(t *testing.T) {
	a := []float32{1, 0, 0}
	b := []float32{0, 1, 0}
	if got := cosineSimilarity(a, a); math.Abs(got-1) > 1e-9 {
		t.Errorf("cosine of identical vectors = %v, want 1", got)
	}
	if got := cosineSimilarity(a, b); got != 0 {
		t.Errorf("cosine of orthogonal vectors = %v, want 0", got)
	}
	if got := cosineSimilarity(a, []float32{0, 0, 0}); got != 0 {
		t.Errorf("cosine against zero vector = %v, want 0", got)
	}
}

func TestVectorRoundTrip(t *testing.T) {
	vec := EmbedText("glass jar", 16)
	decoded := decodeVector(encodeVector(vec))
	if len(decoded) != len(vec) {
		t.Fatalf("expected %d dims, got %d", len(vec), len(decoded))
	}
	for i := range vec {
		if vec[i] != decoded[i] {
			t.Fatalf("component %d changed: %v != %v", i, vec[i], decoded[i])
		}
	}
}
