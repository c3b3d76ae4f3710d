package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/cloudtasks/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-s string   store backend: memory, firestore, mongo, postgres
//	-p string   Firestore project id
//	-f string   Firestore service-account JSON key path
//	-m string   MongoDB connection URI
//	-n string   MongoDB database name
//	-d string   PostgreSQL DSN
//	-t int      per-call store timeout, seconds
//
// os.Args is first filtered down to the flags handled here via
// flagx.FilterArgs, so the -c/-config flags consumed by the JSON overlay do
// not cause parse errors.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-s", "-p", "-f", "-m", "-n", "-d", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.Store, "s", config.Store, "document store backend")
	fs.StringVar(&config.FirestoreProjectID, "p", config.FirestoreProjectID, "Firestore project id")
	fs.StringVar(&config.FirestoreCredentialsFile, "f", config.FirestoreCredentialsFile, "Firestore service account file")
	fs.StringVar(&config.MongoURI, "m", config.MongoURI, "MongoDB URI")
	fs.StringVar(&config.MongoDatabase, "n", config.MongoDatabase, "MongoDB database name")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")

	storeTimeout := fs.Int("t", int(config.StoreTimeout.Seconds()), "store timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.StoreTimeout = time.Duration(*storeTimeout) * time.Second
}
