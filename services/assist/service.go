// File: services/assist/service.go
package assist

import (
	"context"
	"time"

	"bayassist/models"
	"bayassist/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const conversationLockPrefix = "assist:lock:"

// Suggest runs the full pipeline for one inbound message: assemble context,
// drive the model exchange, and record the resulting suggestion. Every path
// resolves to a valid response; only invalid input is rejected to the caller.
func (s *DefaultAssistService) Suggest(ctx context.Context, req models.AssistRequest) (*models.AssistResponse, error) {
	logger := utils.GetLogger()

	if req.ConversationID == "" || req.CustomerMessage == "" {
		return nil, NewEngineError(ErrInputInvalid, "conversationId and customerMessage are required")
	}
	// Live runs persist exactly one suggestion per triggering message, keyed
	// by message id; without one the uniqueness guarantee cannot hold.
	if !req.DryRun && req.MessageID == "" {
		return nil, NewEngineError(ErrInputInvalid, "messageId is required unless dryRun is set")
	}

	// Suggestions within one conversation are created in inbound-message
	// order; a short redis lock serializes concurrent runs per conversation.
	unlock := s.acquireLock(ctx, req.ConversationID)
	defer unlock()

	var degraded string
	bundle, err := s.Assembler.Assemble(ctx, req)
	if err != nil {
		// Retrieval trouble degrades the run rather than failing it: the model
		// still gets history-free context and the customer still gets a draft.
		logger.Error("context assembly failed, continuing degraded",
			zap.String("conversationId", req.ConversationID), zap.Error(err))
		bundle = &models.ContextBundle{History: req.History}
		degraded = ErrModelUnavailable
	}

	chatReq := ChatRequest{
		SystemInstructions: BuildSystemInstructions(s.Orchestrator.Catalog, bundle),
		History:            bundle.History,
		UserMessage:        req.CustomerMessage,
		Catalog:            s.Orchestrator.Catalog,
	}

	outcome := s.Orchestrator.Run(ctx, chatReq, req.DryRun)
	if outcome.ErrorKind == "" && degraded != "" {
		outcome.ErrorKind = degraded
	}

	resp := &models.AssistResponse{
		SuggestedResponse:  outcome.ReplyText,
		FunctionCalled:     outcome.ChosenFunction,
		FunctionParameters: outcome.FunctionParameters,
		FunctionResult:     outcome.FunctionResult,
		ContextSummary:     SummarizeContext(bundle),
	}
	if outcome.ErrorKind != "" {
		resp.DebugInfo = map[string]any{"errorKind": outcome.ErrorKind}
	}

	// Dry runs (evaluation harness, staff preview) never persist anything.
	if req.DryRun {
		return resp, nil
	}

	sug := &models.Suggestion{
		ID:                  uuid.New().String(),
		ConversationID:      req.ConversationID,
		TriggeringMessageID: req.MessageID,
		ReplyText:           outcome.ReplyText,
		ChosenFunction:      outcome.ChosenFunction,
		FunctionParameters:  outcome.FunctionParameters,
		FunctionResult:      outcome.FunctionResult,
		SupportingMatches:   bundle.KnowledgeMatches,
		ModelExchangeLog:    outcome.ExchangeLog,
		CreatedAt:           time.Now().UTC(),
	}
	if err := s.Recorder.Record(ctx, sug); err != nil {
		// The suggestion still goes back to staff; only the audit copy is lost.
		logger.Error("failed to record suggestion",
			zap.String("conversationId", req.ConversationID), zap.Error(err))
	} else {
		resp.SuggestionID = sug.ID
	}

	return resp, nil
}

// acquireLock takes the per-conversation processing lock, waiting briefly for
// an in-flight run on the same conversation to finish. Best effort: a cache
// outage degrades ordering guarantees, not availability.
func (s *DefaultAssistService) acquireLock(ctx context.Context, conversationID string) func() {
	if s.Lock == nil {
		return func() {}
	}
	key := conversationLockPrefix + conversationID
	token := uuid.New().String()
	ttl := s.LockTTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	for i := 0; i < 20; i++ {
		ok, err := s.Lock.SetNX(ctx, key, token, ttl).Result()
		if err != nil {
			utils.GetLogger().Warn("conversation lock unavailable", zap.Error(err))
			return func() {}
		}
		if ok {
			return func() {
				// Release only our own token.
				val, err := s.Lock.Get(context.Background(), key).Result()
				if err == nil && val == token {
					_ = s.Lock.Del(context.Background(), key).Err()
				}
			}
		}
		select {
		case <-ctx.Done():
			return func() {}
		case <-time.After(250 * time.Millisecond):
		}
	}
	return func() {}
}
