package models

import "time"

// KnowledgeEntry is a curated bilingual Q&A entry maintained by staff.
// Editing an entry must regenerate its embeddings so vectors never go stale.
type KnowledgeEntry struct {
	ID                  string            `bson:"id" json:"id"`
	Category            string            `bson:"category" json:"category"`
	QuestionsByLanguage map[string]string `bson:"questions_by_language" json:"questionsByLanguage"`
	Answer              string            `bson:"answer" json:"answer"`
	MediaRefs           []string          `bson:"media_refs" json:"mediaRefs"`
	IsActive            bool              `bson:"is_active" json:"isActive"`
	UsageCount          int               `bson:"usage_count" json:"usageCount"`
	UpdatedAt           time.Time         `bson:"updated_at" json:"updatedAt"`
}

// KnowledgeEntryInput is the create/update payload for a knowledge entry.
type KnowledgeEntryInput struct {
	Category            string            `json:"category" binding:"required"`
	QuestionsByLanguage map[string]string `json:"questionsByLanguage" binding:"required"`
	Answer              string            `json:"answer" binding:"required"`
	MediaRefs           []string          `json:"mediaRefs"`
	IsActive            *bool             `json:"isActive"`
}
