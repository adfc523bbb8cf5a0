package search

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	"github.com/redis/go-redis/v9"
)

const vectorKeyPrefix = "matvec:"

// Hit is one scored result from a similarity search.
type Hit struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

// VectorStore keeps material embeddings in redis hashes and answers top-k
// cosine-similarity queries by brute force. Catalog sizes here are small
// enough that a full scan beats maintaining an index.
type VectorStore struct {
	rdb *redis.Client
	ctx context.Context
	dim int
}

func NewVectorStore(rdb *redis.Client, ctx context.Context, dim int) *VectorStore {
	return &VectorStore{rdb: rdb, ctx: ctx, dim: dim}
}

func (s *VectorStore) Index(id string, vec []float32) error {
	if len(vec) != s.dim {
		return fmt.Errorf("search: vector has %d dims, want %d", len(vec), s.dim)
	}
	return s.rdb.HSet(s.ctx, vectorKeyPrefix+id, "v", encodeVector(vec)).Err()
}

func (s *VectorStore) Remove(id string) error {
	return s.rdb.Del(s.ctx, vectorKeyPrefix+id).Err()
}

// Search returns the k stored vectors most similar to the query.
func (s *VectorStore) Search(query []float32, k int) ([]Hit, error) {
	if len(query) != s.dim {
		return nil, fmt.Errorf("search: query has %d dims, want %d", len(query), s.dim)
	}
	if k <= 0 {
		k = 10
	}

	var hits []Hit
	iter := s.rdb.Scan(s.ctx, 0, vectorKeyPrefix+"*", 100).Iterator()
	for iter.Next(s.ctx) {
		key := iter.Val()
		raw, err := s.rdb.HGet(s.ctx, key, "v").Bytes()
		if err != nil {
			continue
		}
		vec := decodeVector(raw)
		if len(vec) != s.dim {
			continue
		}
		hits = append(hits, Hit{
			ID:    key[len(vectorKeyPrefix):],
			Score: cosineSimilarity(query, vec),
		})
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

func encodeVector(vec []float32) []byte {
	buf := make([]byte, 4*len(vec))
	for i, f := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func decodeVector(raw []byte) []float32 {
	vec := make([]float32, len(raw)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*4:]))
	}
	return vec
}

func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
