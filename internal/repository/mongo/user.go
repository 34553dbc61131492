package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/healprint/chat-service/internal/domain"
)

const usersCollection = "users"

// UserStore implements domain.UserStore on MongoDB
type UserStore struct {
	coll *mongo.Collection
}

// NewUserStore creates a new user store
func NewUserStore(client *Client) *UserStore {
	return &UserStore{coll: client.db.Collection(usersCollection)}
}

func (s *UserStore) Insert(ctx context.Context, user *domain.User) error {
	if _, err := s.coll.InsertOne(ctx, user); err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := s.coll.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

func (s *UserStore) EmailExists(ctx context.Context, email string) (bool, error) {
	count, err := s.coll.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return false, fmt.Errorf("failed to count users: %w", err)
	}
	return count > 0, nil
}
