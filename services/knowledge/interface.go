package knowledge

import (
	"context"

	knowledgeRepo "bayassist/database/repository/knowledge"
	"bayassist/models"
	"bayassist/services/embedding"
)

// KnowledgeService manages curated Q&A entries and keeps their embeddings in
// sync with the current text. Regeneration is synchronous: a create or update
// is searchable the moment the call returns.
type KnowledgeService interface {
	Create(ctx context.Context, input models.KnowledgeEntryInput) (*models.KnowledgeEntry, error)
	Update(ctx context.Context, id string, input models.KnowledgeEntryInput) (*models.KnowledgeEntry, error)
	Get(ctx context.Context, id string) (*models.KnowledgeEntry, error)
	List(ctx context.Context, category string) ([]models.KnowledgeEntry, error)
	Delete(ctx context.Context, id string) error
}

// DefaultKnowledgeService implements KnowledgeService.
type DefaultKnowledgeService struct {
	Repo     knowledgeRepo.KnowledgeRepository
	Store    embedding.StoreService
	Embedder embedding.Embedder
}
