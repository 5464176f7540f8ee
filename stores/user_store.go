package stores

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ajith2401/delivery-app-fresh/models"
)

type MongoUserStore struct {
	collection *mongo.Collection
}

func NewMongoUserStore(db *mongo.Database) *MongoUserStore {
	return &MongoUserStore{collection: db.Collection("users")}
}

func (s *MongoUserStore) FindOrCreateByPhone(ctx context.Context, phone string) (*models.User, error) {
	var user models.User
	err := s.collection.FindOne(ctx, bson.M{"phoneNumber": phone}).Decode(&user)
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	now := time.Now()
	user = models.User{
		PhoneNumber:       phone,
		Addresses:         []models.Address{},
		Cart:              models.Cart{Items: []models.CartItem{}},
		ConversationState: models.ConversationState{Stage: models.StageWelcome},
		LastInteractionAt: now,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	res, err := s.collection.InsertOne(ctx, user)
	if err != nil {
		return nil, err
	}
	user.ID = res.InsertedID.(primitive.ObjectID)
	return &user, nil
}

func (s *MongoUserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *MongoUserStore) Save(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()
	_, err := s.collection.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	return err
}
