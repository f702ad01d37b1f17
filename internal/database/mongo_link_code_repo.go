package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"participium/internal/database/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoLinkCodeRepository implements LinkCodeRepository for MongoDB.
type MongoLinkCodeRepository struct {
	collection *mongo.Collection
}

// NewMongoLinkCodeRepository creates a new MongoDB link code repository.
func NewMongoLinkCodeRepository(db *mongo.Database) *MongoLinkCodeRepository {
	return &MongoLinkCodeRepository{collection: db.Collection(linkCodesCollection)}
}

func (r *MongoLinkCodeRepository) SaveLinkCode(ctx context.Context, code models.LinkCode) error {
	if code.CreatedAt.IsZero() {
		code.CreatedAt = time.Now()
	}
	if _, err := r.collection.DeleteMany(ctx, bson.M{
		"pending": true,
		"$or": bson.A{
			bson.M{"user_id": code.UserID},
			bson.M{"expires_at": bson.M{"$lte": code.CreatedAt}},
		},
	}); err != nil {
		return fmt.Errorf("failed to drop previous link codes for user %s: %w", code.UserID, err)
	}
	code.Pending = true
	if _, err := r.collection.InsertOne(ctx, code); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateLinkCode
		}
		return fmt.Errorf("failed to insert link code: %w", err)
	}
	return nil
}

func (r *MongoLinkCodeRepository) RedeemLinkCode(ctx context.Context, code string, now time.Time) (string, error) {
	var doc models.LinkCode
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{
			"code":       code,
			"pending":    true,
			"expires_at": bson.M{"$gt": now},
		},
		bson.M{"$set": bson.M{"used_at": now, "pending": false}},
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", ErrLinkCodeInvalid
		}
		return "", fmt.Errorf("failed to redeem link code: %w", err)
	}
	return doc.UserID, nil
}
