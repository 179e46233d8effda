package embeddingRepo

import (
	"context"

	"bayassist/models"
)

// EmbeddingRepository persists embedding vectors. One active record exists per
// (owner, language); replacement is always delete-then-insert so a vector can
// never drift from its source text.
type EmbeddingRepository interface {
	Replace(ctx context.Context, record *models.EmbeddingRecord) error
	DeleteForOwner(ctx context.Context, ownerID string, kind models.OwnerKind) error
	ListByKind(ctx context.Context, kind models.OwnerKind) ([]models.EmbeddingRecord, error)
}
