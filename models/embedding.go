package models

import "time"

// OwnerKind identifies what an embedding vector belongs to.
type OwnerKind string

const (
	OwnerKnowledge OwnerKind = "knowledge"
	OwnerMessage   OwnerKind = "message"
)

// EmbeddingRecord stores one active vector per (owner, language). Records are
// replaced by delete-then-insert on edit, never patched in place.
type EmbeddingRecord struct {
	OwnerID      string    `bson:"owner_id" json:"ownerId"`
	OwnerKind    OwnerKind `bson:"owner_kind" json:"ownerKind"`
	Language     string    `bson:"language" json:"language"`
	Vector       []float32 `bson:"vector" json:"vector"`
	ModelVersion string    `bson:"model_version" json:"modelVersion"`
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
}

// SimilarityMatch is one ranked nearest-neighbor result.
type SimilarityMatch struct {
	OwnerID string  `json:"ownerId"`
	Score   float64 `json:"score"`
}
