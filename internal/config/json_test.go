package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func withJSONFile(t *testing.T, content string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "conf.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	origArgs := os.Args
	os.Args = []string{"testbin", "-c", path}
	t.Cleanup(func() { os.Args = origArgs })
}

func TestParseJson_Overrides(t *testing.T) {
	withJSONFile(t, `{
		"store": "mongo",
		"mongo_uri": "mongodb://db:27017",
		"mongo_database": "todo",
		"store_timeout": "5s"
	}`)

	var c Config
	c.LoadDefaults()
	parseJson(&c)

	assert.Equal(t, StoreMongo, c.Store)
	assert.Equal(t, "mongodb://db:27017", c.MongoURI)
	assert.Equal(t, "todo", c.MongoDatabase)
	assert.Equal(t, 5*time.Second, c.StoreTimeout)
}

func TestParseJson_PartialFileKeepsDefaults(t *testing.T) {
	withJSONFile(t, `{"store": "memory"}`)

	var c Config
	c.LoadDefaults()
	parseJson(&c)

	assert.Equal(t, StoreMemory, c.Store)
	assert.Equal(t, "serviceAccountKey.json", c.FirestoreCredentialsFile)
	assert.Equal(t, 10*time.Second, c.StoreTimeout)
}

func TestParseJson_NoFlagNoOverride(t *testing.T) {
	origArgs := os.Args
	os.Args = []string{"testbin"}
	t.Cleanup(func() { os.Args = origArgs })

	var c Config
	c.LoadDefaults()
	parseJson(&c)

	assert.Equal(t, StoreFirestore, c.Store)
}

func TestParseJson_InvalidFilePanics(t *testing.T) {
	withJSONFile(t, `{not json`)

	var c Config
	c.LoadDefaults()
	assert.Panics(t, func() { parseJson(&c) })
}
