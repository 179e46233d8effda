package conversationRepo

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

// MongoConversationRepo implements ConversationRepository using MongoDB.
type MongoConversationRepo struct {
	convColl *mongo.Collection
	msgColl  *mongo.Collection
}

// NewMongoConversationRepo creates a new instance of ConversationRepository using MongoDB.
func NewMongoConversationRepo() ConversationRepository {
	db := database.MongoClient.Database(database.DatabaseName)
	repo := &MongoConversationRepo{
		convColl: db.Collection("conversations"),
		msgColl:  db.Collection("messages"),
	}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func (r *MongoConversationRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	convIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	if _, err := r.convColl.Indexes().CreateMany(ctx, convIndexes); err != nil {
		return fmt.Errorf("failed to create conversation indexes: %w", err)
	}

	msgIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "conversation_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}
	if _, err := r.msgColl.Indexes().CreateMany(ctx, msgIndexes); err != nil {
		return fmt.Errorf("failed to create message indexes: %w", err)
	}
	return nil
}

func (r *MongoConversationRepo) GetConversation(ctx context.Context, id string) (*models.Conversation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var conv models.Conversation
	if err := r.convColl.FindOne(ctx, bson.M{"id": id}).Decode(&conv); err != nil {
		return nil, fmt.Errorf("conversation %s not found: %w", id, err)
	}
	return &conv, nil
}

func (r *MongoConversationRepo) UpsertConversation(ctx context.Context, conv *models.Conversation) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": conv.ID}
	update := bson.M{"$set": conv}
	opts := options.Update().SetUpsert(true)
	if _, err := r.convColl.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("error upserting conversation %s: %w", conv.ID, err)
	}
	return nil
}

func (r *MongoConversationRepo) AppendMessage(ctx context.Context, msg *models.Message) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.msgColl.InsertOne(ctx, msg); err != nil {
		return fmt.Errorf("error appending message %s: %w", msg.ID, err)
	}

	update := bson.M{"$set": bson.M{"last_message_text": msg.Text}}
	if _, err := r.convColl.UpdateOne(ctx, bson.M{"id": msg.ConversationID}, update); err != nil {
		return fmt.Errorf("error updating conversation %s: %w", msg.ConversationID, err)
	}
	return nil
}

func (r *MongoConversationRepo) GetRecentMessages(ctx context.Context, conversationID string, limit int) ([]models.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))
	cursor, err := r.msgColl.Find(ctx, bson.M{"conversation_id": conversationID}, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching messages for %s: %w", conversationID, err)
	}
	defer cursor.Close(ctx)

	var messages []models.Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("error decoding messages: %w", err)
	}
	return messages, nil
}
