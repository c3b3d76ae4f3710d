package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseFlags_Overrides(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"testbin", "-s", StorePostgres, "-d", "postgres://db:5432/x", "-t", "5"}

	var c Config
	c.LoadDefaults()
	parseFlags(&c)

	assert.Equal(t, StorePostgres, c.Store)
	assert.Equal(t, "postgres://db:5432/x", c.DatabaseDSN)
	assert.Equal(t, 5*time.Second, c.StoreTimeout)
}

func TestParseFlags_UnrelatedFlagsIgnored(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"testbin", "-c", "conf.json", "-x", "1"}

	var c Config
	c.LoadDefaults()
	parseFlags(&c)

	assert.Equal(t, StoreFirestore, c.Store)
}
