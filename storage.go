package main

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"participium/internal/config"
	"participium/internal/database"
	"participium/internal/database/sqlite"
	"participium/internal/photos"

	"go.mongodb.org/mongo-driver/mongo"
)

// activityStore is the bot's activity log.
type activityStore interface {
	database.UserActionLogger
	database.TelegramUserTracker
}

// storage groups the repositories of the configured driver.
type storage struct {
	Reports   database.ReportRepository
	Users     database.UserRepository
	LinkCodes database.LinkCodeRepository
	Activity  activityStore

	close func()
}

// Close releases the underlying connection.
func (s *storage) Close() {
	if s.close != nil {
		s.close()
	}
}

func openStorage(ctx context.Context, cfg *config.Config) (*storage, error) {
	switch cfg.StorageDriver {
	case config.StorageSQLite:
		store, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.Printf("Using SQLite storage at %s", cfg.SQLitePath)
		return &storage{
			Reports:   store,
			Users:     store,
			LinkCodes: store,
			Activity:  store,
			close: func() {
				if err := store.Close(); err != nil {
					log.Printf("Error closing SQLite: %v", err)
				}
			},
		}, nil

	case config.StorageMongo:
		client, db, err := database.ConnectDB(ctx, cfg.MongoDBURI, cfg.MongoDBDatabase)
		if err != nil {
			return nil, err
		}
		if err := database.EnsureIndexes(ctx, db); err != nil {
			log.Printf("Warning: %v", err)
		}
		return &storage{
			Reports:   database.NewMongoReportRepository(db),
			Users:     database.NewMongoUserRepository(db),
			LinkCodes: database.NewMongoLinkCodeRepository(db),
			Activity:  database.NewMongoLogger(db),
			close:     func() { disconnect(client) },
		}, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}

func disconnect(client *mongo.Client) {
	if err := client.Disconnect(context.Background()); err != nil {
		log.Printf("Error disconnecting from MongoDB: %v", err)
		return
	}
	log.Println("Disconnected from MongoDB.")
}

func openPhotoStore(ctx context.Context, cfg *config.Config) (photos.Store, error) {
	if cfg.PhotoStorage == config.PhotoStorageMinio {
		store, err := photos.NewMinioStore(ctx, photos.MinioConfig{
			Endpoint:      cfg.MinioEndpoint,
			AccessKey:     cfg.MinioAccessKey,
			SecretKey:     cfg.MinioSecretKey,
			Bucket:        cfg.MinioBucket,
			Region:        cfg.MinioRegion,
			UseSSL:        cfg.MinioUseSSL,
			PublicBaseURL: cfg.MinioPublicBaseURL,
		})
		if err != nil {
			return nil, err
		}
		log.Printf("Storing photos in bucket %s at %s", cfg.MinioBucket, cfg.MinioEndpoint)
		return store, nil
	}
	store, err := photos.NewDiskStore(filepath.Join(cfg.UploadDir, "reports"), "/uploads/reports")
	if err != nil {
		return nil, err
	}
	return store, nil
}
