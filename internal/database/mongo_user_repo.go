package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"participium/internal/auth"
	"participium/internal/database/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoUserRepository implements UserRepository for MongoDB.
type MongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new MongoDB user repository.
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{collection: db.Collection(usersCollection)}
}

func (r *MongoUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	if user.TelegramUsername != nil {
		norm := NormalizeTelegramUsername(*user.TelegramUsername)
		user.TelegramUsername = &norm
	}
	if _, err := r.collection.InsertOne(ctx, user); err != nil {
		return fmt.Errorf("failed to insert user %s: %w", user.ID, err)
	}
	return nil
}

func (r *MongoUserRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoUserRepository) GetUserByTelegramUsername(ctx context.Context, username string) (*models.User, error) {
	norm := NormalizeTelegramUsername(username)
	if norm == "" {
		return nil, ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"telegram_username": norm})
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	if err := r.collection.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

func (r *MongoUserRepository) ListStaff(ctx context.Context, department string, role auth.Role) ([]models.User, error) {
	cursor, err := r.collection.Find(ctx,
		bson.M{"department": department, "role": string(role)},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find staff for %s/%s: %w", department, role, err)
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode staff: %w", err)
	}
	return users, nil
}

func (r *MongoUserRepository) SetTelegramUsername(ctx context.Context, userID, username string) error {
	norm := NormalizeTelegramUsername(username)

	if _, err := r.collection.UpdateMany(ctx,
		bson.M{"telegram_username": norm, "_id": bson.M{"$ne": userID}},
		bson.M{"$unset": bson.M{"telegram_username": ""}},
	); err != nil {
		return fmt.Errorf("failed to unbind telegram username: %w", err)
	}

	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"telegram_username": norm}},
	)
	if err != nil {
		return fmt.Errorf("failed to set telegram username for user %s: %w", userID, err)
	}
	if result.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}
