// File: services/suggestion/notify.go
package suggestion

import (
	"context"

	"bayassist/models"
	"bayassist/utils"

	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
)

// FCMNotifier pushes new-suggestion events to the staff topic via Firebase
// Cloud Messaging.
type FCMNotifier struct {
	Client *messaging.Client
	Topic  string
}

func (n *FCMNotifier) NotifyNewSuggestion(ctx context.Context, s *models.Suggestion) {
	logger := utils.GetLogger()
	if n.Client == nil {
		return
	}

	msg := &messaging.Message{
		Topic: n.Topic,
		Data: map[string]string{
			"type":           "suggestion",
			"suggestionId":   s.ID,
			"conversationId": s.ConversationID,
		},
		Notification: &messaging.Notification{
			Title: "New reply suggestion",
			Body:  "A draft reply is waiting for review.",
		},
	}
	if _, err := n.Client.Send(ctx, msg); err != nil {
		logger.Warn("staff push failed",
			zap.String("suggestionId", s.ID), zap.Error(err))
	}
}
