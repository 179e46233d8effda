package knowledgeRepo

import (
	"context"

	"bayassist/models"
)

// KnowledgeRepository persists curated Q&A entries.
type KnowledgeRepository interface {
	Create(ctx context.Context, entry *models.KnowledgeEntry) error
	Update(ctx context.Context, entry *models.KnowledgeEntry) error
	GetByID(ctx context.Context, id string) (*models.KnowledgeEntry, error)
	GetActiveByIDs(ctx context.Context, ids []string) ([]models.KnowledgeEntry, error)
	List(ctx context.Context, category string) ([]models.KnowledgeEntry, error)
	Delete(ctx context.Context, id string) error
	IncrementUsage(ctx context.Context, id string) error
}
