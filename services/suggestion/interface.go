package suggestion

import (
	"context"

	knowledgeRepo "bayassist/database/repository/knowledge"
	suggestionRepo "bayassist/database/repository/suggestion"
	"bayassist/models"
)

// RecorderService persists suggestions for staff review and audit. Writes are
// append-only; a past suggestion is never rewritten — corrections arrive as a
// new message and a new suggestion.
type RecorderService interface {
	Record(ctx context.Context, s *models.Suggestion) error
	ListByConversation(ctx context.Context, conversationID string) ([]models.Suggestion, error)
	// MarkUsed flags a suggestion as sent by staff and credits every knowledge
	// entry that supported it.
	MarkUsed(ctx context.Context, suggestionID string) error
}

// Notifier pushes a new-suggestion signal to the staff app. Best effort.
type Notifier interface {
	NotifyNewSuggestion(ctx context.Context, s *models.Suggestion)
}

// DefaultRecorderService implements RecorderService.
type DefaultRecorderService struct {
	Repo          suggestionRepo.SuggestionRepository
	KnowledgeRepo knowledgeRepo.KnowledgeRepository
	Notify        Notifier
}
