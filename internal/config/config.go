package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers.
const (
	StorageMongo  = "mongo"
	StorageSQLite = "sqlite"
)

// Photo storage backends.
const (
	PhotoStorageDisk  = "disk"
	PhotoStorageMinio = "minio"
)

// Config holds the application configuration.
type Config struct {
	AppEnv          string
	Debug           bool
	Version         string
	SentryDSN       string
	DefaultLanguage string

	BotEnabled bool
	BotToken   string

	HTTPAddr  string
	JWTSecret string
	JWTTTL    time.Duration

	StorageDriver   string
	MongoDBURI      string
	MongoDBDatabase string
	SQLitePath      string

	PhotoStorage       string
	UploadDir          string
	MinioEndpoint      string
	MinioAccessKey     string
	MinioSecretKey     string
	MinioBucket        string
	MinioRegion        string
	MinioUseSSL        bool
	MinioPublicBaseURL string

	AssignmentPolicy string

	GeocoderURL       string
	GeocoderUserAgent string
	GeocoderRate      int

	SessionTTL time.Duration
}

// LoadConfig loads configuration from environment variables.
// It attempts to load a .env file if present but prioritizes
// actual environment variables set in the system (e.g., by Docker).
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	var errs []string
	parseBool := func(key, def string) bool {
		v, err := strconv.ParseBool(getEnv(key, def))
		if err != nil {
			errs = append(errs, fmt.Sprintf("invalid %s: %v", key, err))
		}
		return v
	}
	parseDuration := func(key, def string) time.Duration {
		v, err := time.ParseDuration(getEnv(key, def))
		if err != nil {
			errs = append(errs, fmt.Sprintf("invalid %s: %v", key, err))
		}
		return v
	}
	parseInt := func(key, def string) int {
		v, err := strconv.Atoi(getEnv(key, def))
		if err != nil {
			errs = append(errs, fmt.Sprintf("invalid %s: %v", key, err))
		}
		return v
	}

	cfg := &Config{
		AppEnv:          getEnv("APP_ENV", "development"),
		Debug:           parseBool("DEBUG", "false"),
		Version:         getEnv("VERSION", "dev"),
		SentryDSN:       getEnv("SENTRY_DSN", ""),
		DefaultLanguage: getEnv("DEFAULT_LANGUAGE", "en"),

		BotEnabled: parseBool("BOT_ENABLED", "true"),
		BotToken:   getEnv("TELEGRAM_BOT_TOKEN", ""),

		HTTPAddr:  getEnv("HTTP_ADDR", ":8080"),
		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTTTL:    parseDuration("JWT_TTL", "24h"),

		StorageDriver:   strings.ToLower(getEnv("STORAGE_DRIVER", StorageMongo)),
		MongoDBURI:      getEnv("MONGODB_URI", ""),
		MongoDBDatabase: getEnv("MONGODB_DATABASE", ""),
		SQLitePath:      getEnv("SQLITE_PATH", "participium.db"),

		PhotoStorage:       strings.ToLower(getEnv("PHOTO_STORAGE", PhotoStorageDisk)),
		UploadDir:          getEnv("UPLOAD_DIR", "uploads"),
		MinioEndpoint:      getEnv("MINIO_ENDPOINT", ""),
		MinioAccessKey:     getEnv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey:     getEnv("MINIO_SECRET_KEY", ""),
		MinioBucket:        getEnv("MINIO_BUCKET", "participium"),
		MinioRegion:        getEnv("MINIO_REGION", ""),
		MinioUseSSL:        parseBool("MINIO_USE_SSL", "false"),
		MinioPublicBaseURL: getEnv("MINIO_PUBLIC_BASE_URL", ""),

		AssignmentPolicy: getEnv("ASSIGNMENT_POLICY", "least_loaded"),

		GeocoderURL:       getEnv("GEOCODER_URL", "https://nominatim.openstreetmap.org"),
		GeocoderUserAgent: getEnv("GEOCODER_USER_AGENT", "participium-bot/1.0"),
		GeocoderRate:      parseInt("GEOCODER_RATE", "1"),

		SessionTTL: parseDuration("SESSION_TTL", "30m"),
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%s", strings.Join(errs, "; "))
	}

	if cfg.BotEnabled && cfg.BotToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.SentryDSN == "" {
		log.Println("Warning: SENTRY_DSN is not set. Error tracking disabled.")
	}

	switch cfg.StorageDriver {
	case StorageMongo:
		if cfg.MongoDBURI == "" {
			return nil, fmt.Errorf("MONGODB_URI is required")
		}
		if cfg.MongoDBDatabase == "" {
			return nil, fmt.Errorf("MONGODB_DATABASE is required")
		}
	case StorageSQLite:
		if cfg.SQLitePath == "" {
			return nil, fmt.Errorf("SQLITE_PATH is required")
		}
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	switch cfg.PhotoStorage {
	case PhotoStorageDisk:
		if cfg.UploadDir == "" {
			return nil, fmt.Errorf("UPLOAD_DIR is required")
		}
	case PhotoStorageMinio:
		if cfg.MinioEndpoint == "" || cfg.MinioAccessKey == "" || cfg.MinioSecretKey == "" {
			return nil, fmt.Errorf("MINIO_ENDPOINT, MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required")
		}
	default:
		return nil, fmt.Errorf("unknown PHOTO_STORAGE %q", cfg.PhotoStorage)
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
