package embedding

import (
	"context"

	"bayassist/models"
)

// Embedder turns text into a fixed-length vector. Deterministic for a fixed
// input and model version.
type Embedder interface {
	Embed(ctx context.Context, text, language string) ([]float32, error)
	ModelVersion() string
}

// SearchParams tune one similarity search. Zero values fall back to the
// configured defaults; nothing here is a hardcoded constant.
type SearchParams struct {
	Scope    models.OwnerKind
	TopK     int
	MinScore float64
}

// StoreService persists vectors and answers nearest-neighbor queries.
type StoreService interface {
	Upsert(ctx context.Context, ownerID string, kind models.OwnerKind, language string, vector []float32) error
	DeleteOwner(ctx context.Context, ownerID string, kind models.OwnerKind) error
	Search(ctx context.Context, query []float32, params SearchParams) ([]models.SimilarityMatch, error)
}
