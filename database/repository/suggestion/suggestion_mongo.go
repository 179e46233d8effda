package suggestionRepo

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

// MongoSuggestionRepo implements SuggestionRepository using MongoDB.
type MongoSuggestionRepo struct {
	coll *mongo.Collection
}

// NewMongoSuggestionRepo creates a new instance of SuggestionRepository using MongoDB.
func NewMongoSuggestionRepo() SuggestionRepository {
	coll := database.MongoClient.Database(database.DatabaseName).Collection("suggestions")
	repo := &MongoSuggestionRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func (r *MongoSuggestionRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "conversation_id", Value: 1}, {Key: "created_at", Value: 1}}},
		{
			Keys: bson.D{{Key: "triggering_message_id", Value: 1}},
			Options: options.Index().SetUnique(true).
				SetPartialFilterExpression(bson.M{"triggering_message_id": bson.M{"$gt": ""}}),
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoSuggestionRepo) Insert(ctx context.Context, s *models.Suggestion) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, s); err != nil {
		return fmt.Errorf("error inserting suggestion: %w", err)
	}
	return nil
}

func (r *MongoSuggestionRepo) GetByID(ctx context.Context, id string) (*models.Suggestion, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var s models.Suggestion
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&s); err != nil {
		return nil, fmt.Errorf("suggestion %s not found: %w", id, err)
	}
	return &s, nil
}

func (r *MongoSuggestionRepo) ListByConversation(ctx context.Context, conversationID string) ([]models.Suggestion, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"conversation_id": conversationID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error listing suggestions for %s: %w", conversationID, err)
	}
	defer cursor.Close(ctx)

	var suggestions []models.Suggestion
	if err := cursor.All(ctx, &suggestions); err != nil {
		return nil, fmt.Errorf("error decoding suggestions: %w", err)
	}
	return suggestions, nil
}

// MarkUsed flips the used flag. The suggestion body itself stays immutable.
func (r *MongoSuggestionRepo) MarkUsed(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"used": true}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("error marking suggestion %s used: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("suggestion %s not found", id)
	}
	return nil
}
