package database

import (
	"context"
	"fmt"
	"time"

	"participium/internal/database/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoLogger records bot activity in MongoDB.
// It implements UserActionLogger and TelegramUserTracker.
type MongoLogger struct {
	db *mongo.Database
}

// NewMongoLogger creates and returns a new MongoLogger instance.
func NewMongoLogger(db *mongo.Database) *MongoLogger {
	return &MongoLogger{db: db}
}

// LogUserAction writes a user action log entry.
func (m *MongoLogger) LogUserAction(ctx context.Context, userID int64, action string, details map[string]any) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := m.db.Collection(userActionsCollection).InsertOne(ctx, models.UserAction{
		UserID:  userID,
		Action:  action,
		Details: details,
		Time:    time.Now(),
	})
	if err != nil {
		return fmt.Errorf("failed to insert user action log for user %d: %w", userID, err)
	}
	return nil
}

// UpdateTelegramUser upserts the activity record of a Telegram account.
func (m *MongoLogger) UpdateTelegramUser(ctx context.Context, userID int64, username, firstName, lastName, action string) error {
	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"username":    username,
			"first_name":  firstName,
			"last_name":   lastName,
			"last_seen":   now,
			"last_action": action,
		},
		"$inc": bson.M{
			"actions_count": 1,
		},
		"$setOnInsert": bson.M{
			"first_seen": now,
			"user_id":    userID,
		},
	}

	_, err := m.db.Collection(botUsersCollection).UpdateOne(
		ctx,
		bson.M{"user_id": userID},
		update,
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to update telegram user %d: %w", userID, err)
	}
	return nil
}
