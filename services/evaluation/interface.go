package evaluation

import (
	"context"

	"bayassist/models"
	"bayassist/services/assist"
)

// ConversationalAction is the judge's label for staff turns that needed no
// backend action.
const ConversationalAction = "conversational"

// TestCase is one labeled historical conversation: the context before a
// customer message, the message itself, and what staff actually did next.
type TestCase struct {
	ID              string           `json:"id"`
	ConversationID  string           `json:"conversationId"`
	History         []models.Message `json:"history"`
	CustomerMessage string           `json:"customerMessage"`
	StaffFollowup   []models.Message `json:"staffFollowup"`
}

// Judge classifies the staff's actual behavior into the action vocabulary.
// Its output is an untrusted, noisy signal — it never gates production
// behavior, and its rationale is stored for human audit.
type Judge interface {
	ClassifyAction(ctx context.Context, vocabulary []string, transcript string) (action, rationale string, err error)
}

// Harness replays labeled conversations through the engine in dry-run mode and
// compares the suggested action against the judge's classification.
type Harness struct {
	Assist     assist.AssistService
	Judge      Judge
	Vocabulary []string
}
