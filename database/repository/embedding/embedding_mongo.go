package embeddingRepo

import (
	"context"
	"fmt"
	"time"

	"bayassist/database"
	"bayassist/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoEmbeddingRepo implements EmbeddingRepository using MongoDB.
type MongoEmbeddingRepo struct {
	coll *mongo.Collection
}

// NewMongoEmbeddingRepo creates a new instance of EmbeddingRepository using MongoDB.
func NewMongoEmbeddingRepo() EmbeddingRepository {
	coll := database.MongoClient.Database(database.DatabaseName).Collection("embeddings")
	repo := &MongoEmbeddingRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func (r *MongoEmbeddingRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "owner_id", Value: 1}, {Key: "owner_kind", Value: 1}, {Key: "language", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "owner_kind", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// Replace removes any prior vector for the record's (owner, language) and
// inserts the new one. Never patches in place.
func (r *MongoEmbeddingRepo) Replace(ctx context.Context, record *models.EmbeddingRecord) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"owner_id":   record.OwnerID,
		"owner_kind": record.OwnerKind,
		"language":   record.Language,
	}
	if _, err := r.coll.DeleteMany(ctx, filter); err != nil {
		return fmt.Errorf("error deleting stale embedding for %s: %w", record.OwnerID, err)
	}
	if _, err := r.coll.InsertOne(ctx, record); err != nil {
		return fmt.Errorf("error inserting embedding for %s: %w", record.OwnerID, err)
	}
	return nil
}

// DeleteForOwner removes every embedding record for an owner, across languages.
func (r *MongoEmbeddingRepo) DeleteForOwner(ctx context.Context, ownerID string, kind models.OwnerKind) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"owner_id": ownerID, "owner_kind": kind}
	if _, err := r.coll.DeleteMany(ctx, filter); err != nil {
		return fmt.Errorf("error deleting embeddings for %s: %w", ownerID, err)
	}
	return nil
}

func (r *MongoEmbeddingRepo) ListByKind(ctx context.Context, kind models.OwnerKind) ([]models.EmbeddingRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"owner_kind": kind})
	if err != nil {
		return nil, fmt.Errorf("error listing embeddings: %w", err)
	}
	defer cursor.Close(ctx)

	var records []models.EmbeddingRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("error decoding embeddings: %w", err)
	}
	return records, nil
}
