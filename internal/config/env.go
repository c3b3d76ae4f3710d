package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config fields from environment variables, loading a .env
// file from the working directory first if one exists. A missing .env file is
// not an error; explicitly exported variables still apply.
//
// Recognized variables:
//
//	CLOUDTASKS_STORE            backend name (memory, firestore, mongo, postgres)
//	FIRESTORE_PROJECT_ID        Firestore project id
//	FIRESTORE_CREDENTIALS_FILE  service-account JSON key path
//	MONGO_URI                   MongoDB connection URI
//	MONGO_DATABASE              MongoDB database name
//	DATABASE_DSN                PostgreSQL DSN
//	STORE_TIMEOUT               per-call deadline, Go duration string ("10s")
func parseEnv(config *Config) {
	_ = godotenv.Load()

	setIfPresent := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setIfPresent("CLOUDTASKS_STORE", &config.Store)
	setIfPresent("FIRESTORE_PROJECT_ID", &config.FirestoreProjectID)
	setIfPresent("FIRESTORE_CREDENTIALS_FILE", &config.FirestoreCredentialsFile)
	setIfPresent("MONGO_URI", &config.MongoURI)
	setIfPresent("MONGO_DATABASE", &config.MongoDatabase)
	setIfPresent("DATABASE_DSN", &config.DatabaseDSN)

	if v := os.Getenv("STORE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.StoreTimeout = d
		}
	}
}
