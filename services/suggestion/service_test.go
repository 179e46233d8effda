package suggestion

import (
	"context"
	"errors"
	"testing"
	"time"

	"bayassist/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memSuggestionRepo struct {
	suggestions map[string]models.Suggestion
	inserts     int
}

func newMemSuggestionRepo() *memSuggestionRepo {
	return &memSuggestionRepo{suggestions: make(map[string]models.Suggestion)}
}

func (m *memSuggestionRepo) Insert(ctx context.Context, s *models.Suggestion) error {
	if _, exists := m.suggestions[s.ID]; exists {
		return errors.New("duplicate suggestion id")
	}
	m.inserts++
	m.suggestions[s.ID] = *s
	return nil
}

func (m *memSuggestionRepo) GetByID(ctx context.Context, id string) (*models.Suggestion, error) {
	s, ok := m.suggestions[id]
	if !ok {
		return nil, errors.New("suggestion not found")
	}
	return &s, nil
}

func (m *memSuggestionRepo) ListByConversation(ctx context.Context, conversationID string) ([]models.Suggestion, error) {
	var out []models.Suggestion
	for _, s := range m.suggestions {
		if s.ConversationID == conversationID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memSuggestionRepo) MarkUsed(ctx context.Context, id string) error {
	s, ok := m.suggestions[id]
	if !ok {
		return errors.New("suggestion not found")
	}
	s.Used = true
	m.suggestions[id] = s
	return nil
}

type countingKnowledgeRepo struct {
	usage map[string]int
	err   error
}

func (c *countingKnowledgeRepo) Create(ctx context.Context, entry *models.KnowledgeEntry) error {
	return nil
}

func (c *countingKnowledgeRepo) Update(ctx context.Context, entry *models.KnowledgeEntry) error {
	return nil
}

func (c *countingKnowledgeRepo) GetByID(ctx context.Context, id string) (*models.KnowledgeEntry, error) {
	return nil, errors.New("not implemented")
}

func (c *countingKnowledgeRepo) GetActiveByIDs(ctx context.Context, ids []string) ([]models.KnowledgeEntry, error) {
	return nil, nil
}

func (c *countingKnowledgeRepo) List(ctx context.Context, category string) ([]models.KnowledgeEntry, error) {
	return nil, nil
}

func (c *countingKnowledgeRepo) Delete(ctx context.Context, id string) error {
	return nil
}

func (c *countingKnowledgeRepo) IncrementUsage(ctx context.Context, id string) error {
	if c.err != nil {
		return c.err
	}
	if c.usage == nil {
		c.usage = map[string]int{}
	}
	c.usage[id]++
	return nil
}

type capturingNotifier struct {
	notified []string
}

func (n *capturingNotifier) NotifyNewSuggestion(ctx context.Context, s *models.Suggestion) {
	n.notified = append(n.notified, s.ID)
}

func testSuggestion(id string) *models.Suggestion {
	return &models.Suggestion{
		ID:             id,
		ConversationID: "conv-1",
		ReplyText:      "draft",
		SupportingMatches: []models.KnowledgeMatch{
			{Entry: models.KnowledgeEntry{ID: "kn-1"}, Score: 0.9},
			{Entry: models.KnowledgeEntry{ID: "kn-2"}, Score: 0.8},
		},
		CreatedAt: time.Now().UTC(),
	}
}

func TestRecordInsertsAndNotifies(t *testing.T) {
	repo := newMemSuggestionRepo()
	notifier := &capturingNotifier{}
	svc := &DefaultRecorderService{Repo: repo, KnowledgeRepo: &countingKnowledgeRepo{}, Notify: notifier}

	require.NoError(t, svc.Record(context.Background(), testSuggestion("sug-1")))
	assert.Equal(t, 1, repo.inserts)
	assert.Equal(t, []string{"sug-1"}, notifier.notified)
}

func TestRecordValidatesIdentifiers(t *testing.T) {
	svc := &DefaultRecorderService{Repo: newMemSuggestionRepo(), KnowledgeRepo: &countingKnowledgeRepo{}}

	err := svc.Record(context.Background(), &models.Suggestion{ConversationID: "conv-1"})
	assert.Error(t, err)
	err = svc.Record(context.Background(), &models.Suggestion{ID: "sug-1"})
	assert.Error(t, err)
}

func TestRecordIsAppendOnly(t *testing.T) {
	repo := newMemSuggestionRepo()
	svc := &DefaultRecorderService{Repo: repo, KnowledgeRepo: &countingKnowledgeRepo{}}

	require.NoError(t, svc.Record(context.Background(), testSuggestion("sug-1")))
	// A second write with the same id is rejected, never overwritten.
	err := svc.Record(context.Background(), testSuggestion("sug-1"))
	assert.Error(t, err)
	assert.Equal(t, 1, repo.inserts)
}

func TestMarkUsedCreditsSupportingEntries(t *testing.T) {
	repo := newMemSuggestionRepo()
	kb := &countingKnowledgeRepo{}
	svc := &DefaultRecorderService{Repo: repo, KnowledgeRepo: kb}

	require.NoError(t, svc.Record(context.Background(), testSuggestion("sug-1")))
	require.NoError(t, svc.MarkUsed(context.Background(), "sug-1"))

	stored, err := repo.GetByID(context.Background(), "sug-1")
	require.NoError(t, err)
	assert.True(t, stored.Used)
	assert.Equal(t, 1, kb.usage["kn-1"])
	assert.Equal(t, 1, kb.usage["kn-2"])
}

func TestMarkUsedIsIdempotent(t *testing.T) {
	repo := newMemSuggestionRepo()
	kb := &countingKnowledgeRepo{}
	svc := &DefaultRecorderService{Repo: repo, KnowledgeRepo: kb}

	require.NoError(t, svc.Record(context.Background(), testSuggestion("sug-1")))
	require.NoError(t, svc.MarkUsed(context.Background(), "sug-1"))
	require.NoError(t, svc.MarkUsed(context.Background(), "sug-1"))

	// Double-marking never double-counts.
	assert.Equal(t, 1, kb.usage["kn-1"])
}

func TestMarkUsedUnknownSuggestionFails(t *testing.T) {
	svc := &DefaultRecorderService{Repo: newMemSuggestionRepo(), KnowledgeRepo: &countingKnowledgeRepo{}}
	assert.Error(t, svc.MarkUsed(context.Background(), "missing"))
}

func TestMarkUsedToleratesUsageCreditFailure(t *testing.T) {
	repo := newMemSuggestionRepo()
	kb := &countingKnowledgeRepo{err: errors.New("store down")}
	svc := &DefaultRecorderService{Repo: repo, KnowledgeRepo: kb}

	require.NoError(t, svc.Record(context.Background(), testSuggestion("sug-1")))
	// Credit failures are logged, not surfaced; the mark itself sticks.
	require.NoError(t, svc.MarkUsed(context.Background(), "sug-1"))
	stored, err := repo.GetByID(context.Background(), "sug-1")
	require.NoError(t, err)
	assert.True(t, stored.Used)
}
