package knowledgeRepo

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

// MongoKnowledgeRepo implements KnowledgeRepository using MongoDB.
type MongoKnowledgeRepo struct {
	coll *mongo.Collection
}

// NewMongoKnowledgeRepo creates a new instance of KnowledgeRepository using MongoDB.
func NewMongoKnowledgeRepo() KnowledgeRepository {
	coll := database.MongoClient.Database(database.DatabaseName).Collection("knowledge_entries")
	repo := &MongoKnowledgeRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

// ensureIndexes creates indexes for fields frequently used in queries.
func (r *MongoKnowledgeRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "is_active", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoKnowledgeRepo) Create(ctx context.Context, entry *models.KnowledgeEntry) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("error creating knowledge entry: %w", err)
	}
	return nil
}

func (r *MongoKnowledgeRepo) Update(ctx context.Context, entry *models.KnowledgeEntry) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": entry.ID}
	res, err := r.coll.ReplaceOne(ctx, filter, entry)
	if err != nil {
		return fmt.Errorf("error updating knowledge entry %s: %w", entry.ID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("knowledge entry %s not found", entry.ID)
	}
	return nil
}

func (r *MongoKnowledgeRepo) GetByID(ctx context.Context, id string) (*models.KnowledgeEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var entry models.KnowledgeEntry
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&entry); err != nil {
		return nil, fmt.Errorf("knowledge entry %s not found: %w", id, err)
	}
	return &entry, nil
}

// GetActiveByIDs fetches the active entries among ids, in no particular order.
func (r *MongoKnowledgeRepo) GetActiveByIDs(ctx context.Context, ids []string) ([]models.KnowledgeEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": bson.M{"$in": ids}, "is_active": true}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error fetching knowledge entries: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []models.KnowledgeEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("error decoding knowledge entries: %w", err)
	}
	return entries, nil
}

func (r *MongoKnowledgeRepo) List(ctx context.Context, category string) ([]models.KnowledgeEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "category", Value: 1}, {Key: "id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("error listing knowledge entries: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []models.KnowledgeEntry
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("error decoding knowledge entries: %w", err)
	}
	return entries, nil
}

func (r *MongoKnowledgeRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("error deleting knowledge entry %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("knowledge entry %s not found", id)
	}
	return nil
}

// IncrementUsage bumps the usage counter when staff marks a referencing suggestion as used.
func (r *MongoKnowledgeRepo) IncrementUsage(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$inc": bson.M{"usage_count": 1}}
	if _, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update); err != nil {
		return fmt.Errorf("error incrementing usage for %s: %w", id, err)
	}
	return nil
}
