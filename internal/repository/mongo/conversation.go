package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/healprint/chat-service/internal/domain"
)

const conversationsCollection = "conversations"

// ConversationStore implements domain.ConversationStore on MongoDB
type ConversationStore struct {
	coll *mongo.Collection
}

// NewConversationStore creates a new conversation store
func NewConversationStore(client *Client) *ConversationStore {
	return &ConversationStore{coll: client.db.Collection(conversationsCollection)}
}

func (s *ConversationStore) Insert(ctx context.Context, conv *domain.Conversation) error {
	if _, err := s.coll.InsertOne(ctx, conv); err != nil {
		return fmt.Errorf("failed to insert conversation: %w", err)
	}
	return nil
}

func (s *ConversationStore) FindByID(ctx context.Context, conversationID string) (*domain.Conversation, error) {
	var conv domain.Conversation
	err := s.coll.FindOne(ctx, bson.M{"conversation_id": conversationID}).Decode(&conv)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find conversation: %w", err)
	}
	return &conv, nil
}

func (s *ConversationStore) FindByUser(ctx context.Context, userID string, limit int) ([]domain.ConversationSummary, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "updated_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := s.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query user conversations: %w", err)
	}
	defer cursor.Close(ctx)

	var summaries []domain.ConversationSummary
	for cursor.Next(ctx) {
		var conv domain.Conversation
		if err := cursor.Decode(&conv); err != nil {
			return nil, fmt.Errorf("failed to decode conversation: %w", err)
		}
		summaries = append(summaries, domain.ConversationSummary{
			ConversationID: conv.ConversationID,
			Title:          conv.Title,
			LastMessage:    conv.LastMessage,
			MessageCount:   len(conv.Messages),
			CreatedAt:      conv.CreatedAt,
			UpdatedAt:      conv.UpdatedAt,
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate conversations: %w", err)
	}
	return summaries, nil
}

func (s *ConversationStore) AppendMessage(ctx context.Context, conversationID string, msg domain.Message, preview string, delta *domain.AssessmentDelta) (bool, error) {
	set := bson.M{
		"updated_at":   time.Now().UTC(),
		"last_message": preview,
	}
	if delta != nil {
		if delta.Stage != nil {
			set["assessment_stage"] = *delta.Stage
		}
		if delta.NeedsDiagnosis != nil {
			set["needs_diagnosis"] = *delta.NeedsDiagnosis
		}
		// Per-key sets so evidence merges instead of replacing the map.
		for key, ev := range delta.Symptoms {
			set["symptoms_collected."+key] = ev
		}
	}

	result, err := s.coll.UpdateOne(ctx,
		bson.M{"conversation_id": conversationID},
		bson.M{
			"$push": bson.M{"messages": msg},
			"$set":  set,
		},
	)
	if err != nil {
		return false, fmt.Errorf("failed to append message: %w", err)
	}
	return result.ModifiedCount > 0, nil
}

func (s *ConversationStore) Delete(ctx context.Context, conversationID string) (bool, error) {
	result, err := s.coll.DeleteOne(ctx, bson.M{"conversation_id": conversationID})
	if err != nil {
		return false, fmt.Errorf("failed to delete conversation: %w", err)
	}
	return result.DeletedCount > 0, nil
}

func (s *ConversationStore) FindUserID(ctx context.Context, conversationID string) (string, error) {
	var doc struct {
		UserID string `bson:"user_id"`
	}
	err := s.coll.FindOne(ctx,
		bson.M{"conversation_id": conversationID},
		options.FindOne().SetProjection(bson.M{"user_id": 1}),
	).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up conversation owner: %w", err)
	}
	return doc.UserID, nil
}

func (s *ConversationStore) ListActiveIDs(ctx context.Context, userID string) ([]string, error) {
	cursor, err := s.coll.Find(ctx,
		bson.M{
			"user_id":          userID,
			"assessment_stage": bson.M{"$ne": domain.StageCompleted},
		},
		options.Find().SetProjection(bson.M{"conversation_id": 1}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query active conversations: %w", err)
	}
	defer cursor.Close(ctx)

	var ids []string
	for cursor.Next(ctx) {
		var doc struct {
			ConversationID string `bson:"conversation_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode conversation id: %w", err)
		}
		ids = append(ids, doc.ConversationID)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate active conversations: %w", err)
	}
	return ids, nil
}

func (s *ConversationStore) MarkCompleted(ctx context.Context, conversationID string) error {
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"conversation_id": conversationID},
		bson.M{"$set": bson.M{
			"assessment_stage": domain.StageCompleted,
			"needs_diagnosis":  false,
			"updated_at":       time.Now().UTC(),
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to complete conversation: %w", err)
	}
	return nil
}
