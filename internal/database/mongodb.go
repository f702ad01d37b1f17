package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	reportsCollection     = "reports"
	usersCollection       = "users"
	linkCodesCollection   = "telegram_link_codes"
	userActionsCollection = "user_actions"
	botUsersCollection    = "telegram_users"
)

// ConnectDB establishes a connection to MongoDB and pings it.
// It returns the client and the named database.
func ConnectDB(ctx context.Context, uri, dbName string) (*mongo.Client, *mongo.Database, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)

	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	var result bson.M
	if err := client.Database("admin").RunCommand(connectCtx, bson.D{{Key: "ping", Value: 1}}).Decode(&result); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	log.Println("Successfully connected and pinged MongoDB!")

	return client, client.Database(dbName), nil
}

// EnsureIndexes creates the indexes the repositories rely on.
// Failures are collected and returned together; existing indexes are left alone.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	idxCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	specs := []struct {
		collection string
		model      mongo.IndexModel
	}{
		{reportsCollection, mongo.IndexModel{Keys: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}}},
		{reportsCollection, mongo.IndexModel{Keys: bson.D{{Key: "status", Value: 1}, {Key: "category", Value: 1}}}},
		{reportsCollection, mongo.IndexModel{Keys: bson.D{{Key: "assignee_id", Value: 1}, {Key: "status", Value: 1}}}},
		{usersCollection, mongo.IndexModel{Keys: bson.D{{Key: "department", Value: 1}, {Key: "role", Value: 1}}}},
		{usersCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "telegram_username", Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(true),
		}},
		{linkCodesCollection, mongo.IndexModel{
			Keys: bson.D{{Key: "code", Value: 1}},
			Options: options.Index().
				SetName("code_pending_unique").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"pending": true}),
		}},
		{linkCodesCollection, mongo.IndexModel{Keys: bson.D{{Key: "user_id", Value: 1}}}},
		{botUsersCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
	}

	var errs []string
	for _, s := range specs {
		if _, err := db.Collection(s.collection).Indexes().CreateOne(idxCtx, s.model); err != nil {
			errs = append(errs, s.collection+": "+err.Error())
		}
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
