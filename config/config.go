package config

import (
	"context"
	"fmt"
	"os"

	"nutrilog/store"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	Env          string
	StoreBackend string // firestore | postgres | mongo | memory

	GCPProjectID string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBSSLMode  string

	MongoURI      string
	MongoDatabase string

	JWTSecret string

	S3Bucket      string
	S3Region      string
	CloudFrontURL string
}

// GetEnv returns the value of key or fallback when it is unset or empty.
func GetEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Load reads .env when present, then the process environment.
func Load() *Config {
	_ = godotenv.Load() // a missing .env is fine outside local dev

	return &Config{
		Port:         GetEnv("PORT", "8080"),
		Env:          GetEnv("ENV", "development"),
		StoreBackend: GetEnv("STORE_BACKEND", "firestore"),

		GCPProjectID: GetEnv("GCP_PROJECT_ID", os.Getenv("GOOGLE_CLOUD_PROJECT")),

		DBHost:     GetEnv("DB_HOST", "localhost"),
		DBUser:     GetEnv("DB_USER", "postgres"),
		DBPassword: GetEnv("DB_PASSWORD", ""),
		DBName:     GetEnv("DB_NAME", "nutrilog"),
		DBPort:     GetEnv("DB_PORT", "5432"),
		DBSSLMode:  GetEnv("DB_SSLMODE", "disable"),

		MongoURI:      GetEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: GetEnv("MONGO_DATABASE", "nutrilog"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		S3Bucket:      os.Getenv("S3_BUCKET"),
		S3Region:      GetEnv("S3_REGION", os.Getenv("AWS_REGION")),
		CloudFrontURL: os.Getenv("CLOUDFRONT_URL"),
	}
}

func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.DBHost, c.DBUser, c.DBPassword, c.DBName, c.DBPort, c.DBSSLMode)
}

// OpenStore connects the configured document store backend.
func OpenStore(ctx context.Context, c *Config) (store.Store, error) {
	var (
		s   store.Store
		err error
	)
	switch c.StoreBackend {
	case "firestore":
		if c.GCPProjectID == "" {
			return nil, fmt.Errorf("GCP_PROJECT_ID is required for the firestore backend")
		}
		s, err = store.NewFirestoreStore(ctx, c.GCPProjectID)
	case "postgres":
		s, err = store.NewPostgresStore(c.PostgresDSN())
	case "mongo":
		s, err = store.NewMongoStore(ctx, c.MongoURI, c.MongoDatabase)
	case "memory":
		s = store.NewMemoryStore()
	default:
		return nil, fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	if err != nil {
		return nil, err
	}
	return store.NewInstrumented(s, c.StoreBackend), nil
}
