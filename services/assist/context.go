// File: services/assist/context.go
package assist

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	conversationRepo "bayassist/database/repository/conversation"
	knowledgeRepo "bayassist/database/repository/knowledge"
	"bayassist/models"
	"bayassist/services/embedding"
	"bayassist/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const customerContextPrefix = "assist:customer:"

// ContextAssembler gathers everything the orchestrator needs for one inbound
// message: recent history, best-effort customer context, and the top-K similar
// knowledge entries. The assembler itself is stateless.
type ContextAssembler struct {
	ConvRepo      conversationRepo.ConversationRepository
	KnowledgeRepo knowledgeRepo.KnowledgeRepository
	Embedder      embedding.Embedder
	Store         embedding.StoreService
	BookingAPI    BookingAPI
	Cache         *redis.Client
	CacheTTL      time.Duration
	HistoryWindow int
}

// Assemble builds the context bundle for a triggering message. For fixed
// inputs and model version the knowledge matches are stable: descending score,
// ties by entry id ascending.
func (a *ContextAssembler) Assemble(ctx context.Context, req models.AssistRequest) (*models.ContextBundle, error) {
	logger := utils.GetLogger()
	bundle := &models.ContextBundle{}

	// History: caller-supplied window wins; otherwise a bounded most-recent-
	// first fetch from the store.
	if len(req.History) > 0 {
		bundle.History = req.History
	} else {
		history, err := a.ConvRepo.GetRecentMessages(ctx, req.ConversationID, a.HistoryWindow)
		if err != nil {
			logger.Warn("failed to fetch history, continuing without",
				zap.String("conversationId", req.ConversationID), zap.Error(err))
		} else {
			// The repo returns most recent first; the model needs the
			// transcript in chronological order.
			for i, j := 0, len(history)-1; i < j; i, j = i+1, j-1 {
				history[i], history[j] = history[j], history[i]
			}
			bundle.History = history
		}
	}

	bundle.Customer = a.customerContext(ctx, req.ConversationID)

	matches, err := a.knowledgeMatches(ctx, req)
	if err != nil {
		return nil, err
	}
	bundle.KnowledgeMatches = matches

	return bundle, nil
}

func (a *ContextAssembler) knowledgeMatches(ctx context.Context, req models.AssistRequest) ([]models.KnowledgeMatch, error) {
	vector, err := a.Embedder.Embed(ctx, req.CustomerMessage, req.Language)
	if err != nil {
		return nil, fmt.Errorf("failed to embed customer message: %w", err)
	}

	results, err := a.Store.Search(ctx, vector, embedding.SearchParams{
		Scope:    models.OwnerKnowledge,
		TopK:     req.TopK,
		MinScore: req.MinScore,
	})
	if err != nil {
		return nil, fmt.Errorf("knowledge search failed: %w", err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(results))
	scores := make(map[string]float64, len(results))
	for _, r := range results {
		ids = append(ids, r.OwnerID)
		scores[r.OwnerID] = r.Score
	}

	entries, err := a.KnowledgeRepo.GetActiveByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load matched entries: %w", err)
	}

	matches := make([]models.KnowledgeMatch, 0, len(entries))
	for _, e := range entries {
		matches = append(matches, models.KnowledgeMatch{Entry: e, Score: scores[e.ID]})
	}
	// Inactive entries may have dropped out of the fetch; re-impose the search
	// ordering on what remains.
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Entry.ID < matches[j].Entry.ID
	})
	return matches, nil
}

// customerContext is best effort: a missing customer, cold cache, or backend
// hiccup never fails the assist run.
func (a *ContextAssembler) customerContext(ctx context.Context, conversationID string) *models.CustomerContext {
	logger := utils.GetLogger()

	conv, err := a.ConvRepo.GetConversation(ctx, conversationID)
	if err != nil || conv.CustomerRef == "" {
		return nil
	}

	if a.Cache != nil {
		key := customerContextPrefix + conv.CustomerRef
		if data, err := a.Cache.Get(ctx, key).Result(); err == nil {
			var cc models.CustomerContext
			if err := json.Unmarshal([]byte(data), &cc); err == nil {
				return &cc
			}
		} else if err != redis.Nil {
			logger.Warn("customer context cache read failed", zap.Error(err))
		}
	}

	cc := &models.CustomerContext{CustomerRef: conv.CustomerRef}
	if a.BookingAPI != nil {
		bookings, err := a.BookingAPI.LookupBookings(ctx, conv.CustomerRef, "")
		if err != nil {
			logger.Warn("customer booking lookup failed, continuing without",
				zap.String("customerRef", conv.CustomerRef), zap.Error(err))
		} else if len(bookings) > 0 {
			cc.RecentBooking = &bookings[0]
			cc.DisplayName = bookings[0].CustomerName
			cc.Phone = bookings[0].Phone
		}
	}

	if a.Cache != nil {
		if b, err := json.Marshal(cc); err == nil {
			_ = a.Cache.Set(ctx, customerContextPrefix+conv.CustomerRef, b, a.CacheTTL).Err()
		}
	}
	return cc
}
