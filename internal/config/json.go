package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/cloudtasks/internal/flagx"
	"github.com/dmitrijs2005/cloudtasks/internal/timex"
)

// JsonConfig is the intermediate DTO for reading a JSON configuration file.
// It uses timex.Duration for interval fields, which parses both string
// values such as "10s" and integer nanoseconds. After unmarshalling, its
// fields are copied into the runtime Config.
type JsonConfig struct {
	Store                    string         `json:"store"`
	FirestoreProjectID       string         `json:"firestore_project_id"`
	FirestoreCredentialsFile string         `json:"firestore_credentials_file"`
	MongoURI                 string         `json:"mongo_uri"`
	MongoDatabase            string         `json:"mongo_database"`
	DatabaseDSN              string         `json:"database_dsn"`
	StoreTimeout             timex.Duration `json:"store_timeout"`
}

// parseJson overlays configuration values from the JSON file named by the
// -c or -config flags. Without either flag, no file is loaded. A file that
// cannot be read or parsed panics: a broken explicit config should stop the
// program before the store initializes.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.Store != "" {
		config.Store = c.Store
	}
	if c.FirestoreProjectID != "" {
		config.FirestoreProjectID = c.FirestoreProjectID
	}
	if c.FirestoreCredentialsFile != "" {
		config.FirestoreCredentialsFile = c.FirestoreCredentialsFile
	}
	if c.MongoURI != "" {
		config.MongoURI = c.MongoURI
	}
	if c.MongoDatabase != "" {
		config.MongoDatabase = c.MongoDatabase
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.StoreTimeout.Duration != 0 {
		config.StoreTimeout = c.StoreTimeout.Duration
	}
}
