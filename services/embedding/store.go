package embedding

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	embeddingRepo "bayassist/database/repository/embedding"
	"bayassist/models"
)

// DefaultStoreService implements StoreService over the embedding repository.
// Similarity is cosine; ranking is deterministic for a fixed store state.
type DefaultStoreService struct {
	Repo            embeddingRepo.EmbeddingRepository
	ModelVersion    string
	DefaultTopK     int
	DefaultMinScore float64
}

// Upsert replaces any prior vector for (owner, language) with the given one.
func (s *DefaultStoreService) Upsert(ctx context.Context, ownerID string, kind models.OwnerKind, language string, vector []float32) error {
	if ownerID == "" || len(vector) == 0 {
		return fmt.Errorf("embedding upsert requires owner id and non-empty vector")
	}
	record := &models.EmbeddingRecord{
		OwnerID:      ownerID,
		OwnerKind:    kind,
		Language:     language,
		Vector:       vector,
		ModelVersion: s.ModelVersion,
		CreatedAt:    time.Now().UTC(),
	}
	return s.Repo.Replace(ctx, record)
}

// DeleteOwner removes every vector for the owner, across languages.
func (s *DefaultStoreService) DeleteOwner(ctx context.Context, ownerID string, kind models.OwnerKind) error {
	return s.Repo.DeleteForOwner(ctx, ownerID, kind)
}

// Search ranks owners by cosine similarity against the query vector. Owners
// with multiple language variants contribute their best-scoring variant.
// Results with score below MinScore are dropped; ordering is descending by
// score with ties broken by owner id ascending.
func (s *DefaultStoreService) Search(ctx context.Context, query []float32, params SearchParams) ([]models.SimilarityMatch, error) {
	topK := params.TopK
	if topK <= 0 {
		topK = s.DefaultTopK
	}
	minScore := params.MinScore
	if minScore <= 0 {
		minScore = s.DefaultMinScore
	}

	records, err := s.Repo.ListByKind(ctx, params.Scope)
	if err != nil {
		return nil, fmt.Errorf("failed to load embeddings: %w", err)
	}

	best := make(map[string]float64)
	for _, rec := range records {
		score, ok := Cosine(query, rec.Vector)
		if !ok {
			continue
		}
		if prev, seen := best[rec.OwnerID]; !seen || score > prev {
			best[rec.OwnerID] = score
		}
	}

	matches := make([]models.SimilarityMatch, 0, len(best))
	for ownerID, score := range best {
		if score < minScore {
			continue
		}
		matches = append(matches, models.SimilarityMatch{OwnerID: ownerID, Score: score})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].OwnerID < matches[j].OwnerID
	})

	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// Cosine computes cosine similarity between two vectors. Returns false when
// dimensions differ or either vector has zero magnitude.
func Cosine(a, b []float32) (float64, bool) {
	if len(a) == 0 || len(a) != len(b) {
		return 0, false
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0, false
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), true
}
