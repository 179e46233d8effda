package suggestion

import (
	"context"
	"fmt"

	"bayassist/models"
	"bayassist/utils"

	"go.uber.org/zap"
)

func (s *DefaultRecorderService) Record(ctx context.Context, sug *models.Suggestion) error {
	if sug.ID == "" || sug.ConversationID == "" {
		return fmt.Errorf("suggestion requires id and conversation id")
	}
	if err := s.Repo.Insert(ctx, sug); err != nil {
		return err
	}

	if s.Notify != nil {
		// Push failures never fail the assist request.
		s.Notify.NotifyNewSuggestion(ctx, sug)
	}
	return nil
}

func (s *DefaultRecorderService) ListByConversation(ctx context.Context, conversationID string) ([]models.Suggestion, error) {
	return s.Repo.ListByConversation(ctx, conversationID)
}

// MarkUsed flips the used flag and increments the usage counter of every
// supporting knowledge entry. Usage counters move only through this path.
func (s *DefaultRecorderService) MarkUsed(ctx context.Context, suggestionID string) error {
	logger := utils.GetLogger()

	sug, err := s.Repo.GetByID(ctx, suggestionID)
	if err != nil {
		return err
	}
	if sug.Used {
		// Already credited; marking twice must not double-count.
		return nil
	}

	if err := s.Repo.MarkUsed(ctx, suggestionID); err != nil {
		return err
	}
	for _, m := range sug.SupportingMatches {
		if err := s.KnowledgeRepo.IncrementUsage(ctx, m.Entry.ID); err != nil {
			logger.Warn("failed to credit knowledge entry",
				zap.String("entryId", m.Entry.ID), zap.Error(err))
		}
	}
	return nil
}
