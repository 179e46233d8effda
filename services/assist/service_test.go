package assist

import (
	"context"
	"errors"
	"testing"

	"bayassist/models"
	"bayassist/services/embedding"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConvRepo struct {
	conversation *models.Conversation
	messages     []models.Message
}

func (f *fakeConvRepo) GetConversation(ctx context.Context, id string) (*models.Conversation, error) {
	if f.conversation == nil {
		return nil, errors.New("conversation not found")
	}
	return f.conversation, nil
}

func (f *fakeConvRepo) UpsertConversation(ctx context.Context, conv *models.Conversation) error {
	f.conversation = conv
	return nil
}

func (f *fakeConvRepo) AppendMessage(ctx context.Context, msg *models.Message) error {
	f.messages = append(f.messages, *msg)
	return nil
}

// GetRecentMessages honors the repository contract: up to limit messages,
// most recent first.
func (f *fakeConvRepo) GetRecentMessages(ctx context.Context, conversationID string, limit int) ([]models.Message, error) {
	window := f.messages
	if limit > 0 && len(window) > limit {
		window = window[len(window)-limit:]
	}
	out := make([]models.Message, 0, len(window))
	for i := len(window) - 1; i >= 0; i-- {
		out = append(out, window[i])
	}
	return out, nil
}

type fakeKnowledgeRepo struct {
	entries map[string]models.KnowledgeEntry
	usage   map[string]int
}

func (f *fakeKnowledgeRepo) Create(ctx context.Context, entry *models.KnowledgeEntry) error {
	f.entries[entry.ID] = *entry
	return nil
}

func (f *fakeKnowledgeRepo) Update(ctx context.Context, entry *models.KnowledgeEntry) error {
	f.entries[entry.ID] = *entry
	return nil
}

func (f *fakeKnowledgeRepo) GetByID(ctx context.Context, id string) (*models.KnowledgeEntry, error) {
	e, ok := f.entries[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return &e, nil
}

func (f *fakeKnowledgeRepo) GetActiveByIDs(ctx context.Context, ids []string) ([]models.KnowledgeEntry, error) {
	var out []models.KnowledgeEntry
	for _, id := range ids {
		if e, ok := f.entries[id]; ok && e.IsActive {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeKnowledgeRepo) List(ctx context.Context, category string) ([]models.KnowledgeEntry, error) {
	var out []models.KnowledgeEntry
	for _, e := range f.entries {
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeKnowledgeRepo) Delete(ctx context.Context, id string) error {
	delete(f.entries, id)
	return nil
}

func (f *fakeKnowledgeRepo) IncrementUsage(ctx context.Context, id string) error {
	if f.usage == nil {
		f.usage = map[string]int{}
	}
	f.usage[id]++
	return nil
}

type fixedEmbedder struct {
	vector []float32
	err    error
}

func (f *fixedEmbedder) Embed(ctx context.Context, text, language string) ([]float32, error) {
	return f.vector, f.err
}

func (f *fixedEmbedder) ModelVersion() string { return "fixed-001" }

type fixedStore struct {
	matches []models.SimilarityMatch
}

func (f *fixedStore) Upsert(ctx context.Context, ownerID string, kind models.OwnerKind, language string, vector []float32) error {
	return nil
}

func (f *fixedStore) DeleteOwner(ctx context.Context, ownerID string, kind models.OwnerKind) error {
	return nil
}

func (f *fixedStore) Search(ctx context.Context, query []float32, params embedding.SearchParams) ([]models.SimilarityMatch, error) {
	return f.matches, nil
}

type fakeRecorder struct {
	recorded []*models.Suggestion
	err      error
}

func (f *fakeRecorder) Record(ctx context.Context, s *models.Suggestion) error {
	if f.err != nil {
		return f.err
	}
	f.recorded = append(f.recorded, s)
	return nil
}

func (f *fakeRecorder) ListByConversation(ctx context.Context, conversationID string) ([]models.Suggestion, error) {
	return nil, nil
}

func (f *fakeRecorder) MarkUsed(ctx context.Context, suggestionID string) error {
	return nil
}

func newTestService(model ChatModel, api BookingAPI, recorder *fakeRecorder, kb *fakeKnowledgeRepo, matches []models.SimilarityMatch) *DefaultAssistService {
	assembler := &ContextAssembler{
		ConvRepo:      &fakeConvRepo{},
		KnowledgeRepo: kb,
		Embedder:      &fixedEmbedder{vector: []float32{1, 0}},
		Store:         &fixedStore{matches: matches},
		BookingAPI:    api,
		HistoryWindow: 10,
	}
	return &DefaultAssistService{
		Assembler:    assembler,
		Orchestrator: newTestOrchestrator(model, api),
		Recorder:     recorder,
	}
}

func TestSuggestRejectsInvalidInput(t *testing.T) {
	svc := newTestService(&scriptedModel{}, &fakeBookingAPI{}, &fakeRecorder{}, &fakeKnowledgeRepo{entries: map[string]models.KnowledgeEntry{}}, nil)

	_, err := svc.Suggest(context.Background(), models.AssistRequest{CustomerMessage: "hi"})
	require.Error(t, err)
	var engineErr *EngineError
	require.ErrorAs(t, err, &engineErr)
	assert.Equal(t, ErrInputInvalid, engineErr.Kind)

	_, err = svc.Suggest(context.Background(), models.AssistRequest{ConversationID: "conv-1"})
	assert.Error(t, err)
}

func TestSuggestLiveRunRequiresMessageID(t *testing.T) {
	kb := &fakeKnowledgeRepo{entries: map[string]models.KnowledgeEntry{}}
	recorder := &fakeRecorder{}
	model := &scriptedModel{script: []*Decision{reply("draft"), reply("draft")}}
	svc := newTestService(model, &fakeBookingAPI{}, recorder, kb, nil)

	// A live run without a message id cannot honor one-suggestion-per-message.
	_, err := svc.Suggest(context.Background(), models.AssistRequest{
		ConversationID:  "conv-1",
		CustomerMessage: "hello",
	})
	require.Error(t, err)
	var engineErr *EngineError
	require.ErrorAs(t, err, &engineErr)
	assert.Equal(t, ErrInputInvalid, engineErr.Kind)
	assert.Empty(t, recorder.recorded)

	// Dry runs persist nothing, so the id stays optional there.
	resp, err := svc.Suggest(context.Background(), models.AssistRequest{
		ConversationID:  "conv-1",
		CustomerMessage: "hello",
		DryRun:          true,
	})
	require.NoError(t, err)
	assert.Equal(t, "draft", resp.SuggestedResponse)
}

func TestSuggestRecordsSuggestionWithMatches(t *testing.T) {
	kb := &fakeKnowledgeRepo{entries: map[string]models.KnowledgeEntry{
		"kn-1": {ID: "kn-1", Category: "hours", Answer: "Open 10:00-23:00.", IsActive: true},
	}}
	recorder := &fakeRecorder{}
	model := &scriptedModel{script: []*Decision{reply("We're open 10:00-23:00 ka.")}}
	svc := newTestService(model, &fakeBookingAPI{}, recorder, kb,
		[]models.SimilarityMatch{{OwnerID: "kn-1", Score: 0.91}})

	resp, err := svc.Suggest(context.Background(), models.AssistRequest{
		ConversationID:  "conv-1",
		CustomerMessage: "เปิดกี่โมงคะ",
		MessageID:       "msg-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "We're open 10:00-23:00 ka.", resp.SuggestedResponse)
	assert.Empty(t, resp.FunctionCalled)
	assert.NotEmpty(t, resp.SuggestionID)

	require.Len(t, recorder.recorded, 1)
	sug := recorder.recorded[0]
	assert.Equal(t, "conv-1", sug.ConversationID)
	assert.Equal(t, "msg-1", sug.TriggeringMessageID)
	assert.False(t, sug.Used)
	require.Len(t, sug.SupportingMatches, 1)
	assert.Equal(t, "kn-1", sug.SupportingMatches[0].Entry.ID)
	assert.InDelta(t, 0.91, sug.SupportingMatches[0].Score, 1e-9)
	assert.NotEmpty(t, sug.ModelExchangeLog)
}

func TestSuggestDryRunPersistsNothing(t *testing.T) {
	kb := &fakeKnowledgeRepo{entries: map[string]models.KnowledgeEntry{}}
	recorder := &fakeRecorder{}
	api := &fakeBookingAPI{slots: []models.AvailabilitySlot{{Date: "2026-08-29", StartTime: "19:00", EndTime: "20:00"}}}
	model := &scriptedModel{script: []*Decision{
		call("create_booking", map[string]any{
			"date":  "2026-08-29",
			"start": "19:00",
			"end":   "20:00",
		}),
		reply("That slot is free, confirming would book 19:00-20:00."),
	}}
	svc := newTestService(model, api, recorder, kb, nil)

	resp, err := svc.Suggest(context.Background(), models.AssistRequest{
		ConversationID:  "conv-1",
		CustomerMessage: "Confirm 19.00 ka",
		DryRun:          true,
	})
	require.NoError(t, err)
	assert.Equal(t, "create_booking", resp.FunctionCalled)
	assert.Empty(t, resp.SuggestionID)
	assert.Empty(t, recorder.recorded, "dry run must not persist a suggestion")
	assert.Equal(t, 0, api.creates, "dry run must not commit a booking")
}

func TestSuggestRecorderFailureStillReturnsDraft(t *testing.T) {
	kb := &fakeKnowledgeRepo{entries: map[string]models.KnowledgeEntry{}}
	recorder := &fakeRecorder{err: errors.New("store down")}
	model := &scriptedModel{script: []*Decision{reply("draft reply")}}
	svc := newTestService(model, &fakeBookingAPI{}, recorder, kb, nil)

	resp, err := svc.Suggest(context.Background(), models.AssistRequest{
		ConversationID:  "conv-1",
		CustomerMessage: "hello",
		MessageID:       "msg-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "draft reply", resp.SuggestedResponse)
	assert.Empty(t, resp.SuggestionID)
}

func TestSuggestDegradesWhenEmbeddingFails(t *testing.T) {
	kb := &fakeKnowledgeRepo{entries: map[string]models.KnowledgeEntry{}}
	recorder := &fakeRecorder{}
	model := &scriptedModel{script: []*Decision{reply("draft without knowledge context")}}
	svc := newTestService(model, &fakeBookingAPI{}, recorder, kb, nil)
	svc.Assembler.Embedder = &fixedEmbedder{err: errors.New("embedding backend down")}

	resp, err := svc.Suggest(context.Background(), models.AssistRequest{
		ConversationID:  "conv-1",
		CustomerMessage: "hello",
		MessageID:       "msg-1",
		History:         []models.Message{{SenderType: models.SenderCustomer, Text: "hi"}},
	})
	require.NoError(t, err, "retrieval trouble must not fail the run")
	assert.Equal(t, "draft without knowledge context", resp.SuggestedResponse)
	require.NotNil(t, resp.DebugInfo)
	assert.Equal(t, ErrModelUnavailable, resp.DebugInfo["errorKind"])
}

func TestSuggestFetchedHistoryIsChronological(t *testing.T) {
	kb := &fakeKnowledgeRepo{entries: map[string]models.KnowledgeEntry{}}
	model := &scriptedModel{script: []*Decision{reply("Booked!")}}
	svc := newTestService(model, &fakeBookingAPI{}, &fakeRecorder{}, kb, nil)

	// Appended in chronological order; the repo hands them back newest first.
	conv := svc.Assembler.ConvRepo
	require.NoError(t, conv.AppendMessage(context.Background(), &models.Message{
		ID: "m1", ConversationID: "conv-1", SenderType: models.SenderCustomer, Text: "มีคิวว่างไหมคะ",
	}))
	require.NoError(t, conv.AppendMessage(context.Background(), &models.Message{
		ID: "m2", ConversationID: "conv-1", SenderType: models.SenderStaff, Text: "19:00 and 20:00 are free ka.",
	}))

	_, err := svc.Suggest(context.Background(), models.AssistRequest{
		ConversationID:  "conv-1",
		CustomerMessage: "Confirm 19.00 ka",
		MessageID:       "m3",
	})
	require.NoError(t, err)

	// The staff availability answer must precede the confirmation, or the
	// model reads the exchange backwards.
	require.Len(t, model.lastReq.History, 2)
	assert.Equal(t, "m1", model.lastReq.History[0].ID)
	assert.Equal(t, "m2", model.lastReq.History[1].ID)
}

func TestSuggestCallerHistoryWins(t *testing.T) {
	kb := &fakeKnowledgeRepo{entries: map[string]models.KnowledgeEntry{}}
	model := &scriptedModel{script: []*Decision{reply("ok")}}
	svc := newTestService(model, &fakeBookingAPI{}, &fakeRecorder{}, kb, nil)

	history := []models.Message{
		{SenderType: models.SenderStaff, Text: "We have 19:00 and 20:00 free."},
		{SenderType: models.SenderCustomer, Text: "19:00 please"},
	}
	_, err := svc.Suggest(context.Background(), models.AssistRequest{
		ConversationID:  "conv-1",
		CustomerMessage: "Confirm 19.00 ka",
		MessageID:       "msg-3",
		History:         history,
	})
	require.NoError(t, err)
	assert.Equal(t, history, model.lastReq.History)
}
