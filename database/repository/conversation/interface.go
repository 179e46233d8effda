package conversationRepo

import (
	"context"

	"bayassist/models"
)

// ConversationRepository persists conversations and their messages. Messages
// are immutable; conversations only ever gain messages.
type ConversationRepository interface {
	GetConversation(ctx context.Context, id string) (*models.Conversation, error)
	UpsertConversation(ctx context.Context, conv *models.Conversation) error
	AppendMessage(ctx context.Context, msg *models.Message) error
	// GetRecentMessages returns up to limit messages for the conversation,
	// most recent first.
	GetRecentMessages(ctx context.Context, conversationID string, limit int) ([]models.Message, error)
}
