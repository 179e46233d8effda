package knowledge

import (
	"context"
	"fmt"
	"time"

	"bayassist/models"
	"bayassist/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (s *DefaultKnowledgeService) Create(ctx context.Context, input models.KnowledgeEntryInput) (*models.KnowledgeEntry, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}
	entry := &models.KnowledgeEntry{
		ID:                  uuid.New().String(),
		Category:            input.Category,
		QuestionsByLanguage: input.QuestionsByLanguage,
		Answer:              input.Answer,
		MediaRefs:           input.MediaRefs,
		IsActive:            active,
		UpdatedAt:           time.Now().UTC(),
	}

	if err := s.Repo.Create(ctx, entry); err != nil {
		return nil, err
	}

	// Embeddings must exist before the call returns so the entry is immediately
	// searchable.
	if err := s.regenerateEmbeddings(ctx, entry); err != nil {
		return nil, fmt.Errorf("entry created but embedding generation failed: %w", err)
	}
	return entry, nil
}

func (s *DefaultKnowledgeService) Update(ctx context.Context, id string, input models.KnowledgeEntryInput) (*models.KnowledgeEntry, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	entry, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	entry.Category = input.Category
	entry.QuestionsByLanguage = input.QuestionsByLanguage
	entry.Answer = input.Answer
	entry.MediaRefs = input.MediaRefs
	if input.IsActive != nil {
		entry.IsActive = *input.IsActive
	}
	entry.UpdatedAt = time.Now().UTC()

	if err := s.Repo.Update(ctx, entry); err != nil {
		return nil, err
	}

	// Edited text invalidates every prior vector for this entry, including
	// vectors for language variants that were dropped or renamed.
	if err := s.Store.DeleteOwner(ctx, entry.ID, models.OwnerKnowledge); err != nil {
		return nil, fmt.Errorf("entry updated but stale embedding cleanup failed: %w", err)
	}
	if err := s.regenerateEmbeddings(ctx, entry); err != nil {
		return nil, fmt.Errorf("entry updated but embedding regeneration failed: %w", err)
	}
	return entry, nil
}

func (s *DefaultKnowledgeService) Get(ctx context.Context, id string) (*models.KnowledgeEntry, error) {
	return s.Repo.GetByID(ctx, id)
}

func (s *DefaultKnowledgeService) List(ctx context.Context, category string) ([]models.KnowledgeEntry, error) {
	return s.Repo.List(ctx, category)
}

// Delete removes the entry and all of its embedding records so no orphaned
// vectors remain.
func (s *DefaultKnowledgeService) Delete(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.Store.DeleteOwner(ctx, id, models.OwnerKnowledge); err != nil {
		return fmt.Errorf("entry deleted but embedding cleanup failed: %w", err)
	}
	return nil
}

// regenerateEmbeddings replaces the vector of every non-empty language variant.
func (s *DefaultKnowledgeService) regenerateEmbeddings(ctx context.Context, entry *models.KnowledgeEntry) error {
	logger := utils.GetLogger()
	for lang, question := range entry.QuestionsByLanguage {
		if question == "" {
			continue
		}
		vector, err := s.Embedder.Embed(ctx, question, lang)
		if err != nil {
			return fmt.Errorf("embedding failed for language %q: %w", lang, err)
		}
		if err := s.Store.Upsert(ctx, entry.ID, models.OwnerKnowledge, lang, vector); err != nil {
			return err
		}
		logger.Debug("regenerated knowledge embedding",
			zap.String("entryId", entry.ID),
			zap.String("language", lang))
	}
	return nil
}

func validateInput(input models.KnowledgeEntryInput) error {
	if input.Category == "" || input.Answer == "" {
		return fmt.Errorf("category and answer are required")
	}
	hasQuestion := false
	for _, q := range input.QuestionsByLanguage {
		if q != "" {
			hasQuestion = true
			break
		}
	}
	if !hasQuestion {
		return fmt.Errorf("at least one non-empty question variant is required")
	}
	return nil
}
