package suggestionRepo

import (
	"context"

	"bayassist/models"
)

// SuggestionRepository persists assist suggestions. Writes are append-only; a
// past suggestion is never rewritten. The only allowed transition is marking
// a suggestion as used by staff.
type SuggestionRepository interface {
	Insert(ctx context.Context, s *models.Suggestion) error
	GetByID(ctx context.Context, id string) (*models.Suggestion, error)
	ListByConversation(ctx context.Context, conversationID string) ([]models.Suggestion, error)
	MarkUsed(ctx context.Context, id string) error
}
