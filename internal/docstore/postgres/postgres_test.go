package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/cloudtasks/internal/docstore"
)

func TestRunMigrations(t *testing.T) {
	orig := gooseUpContext
	defer func() { gooseUpContext = orig }()

	called := false
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		called = true
		assert.Equal(t, ".", dir)
		return nil
	}

	s := &Store{}
	require.NoError(t, s.runMigrations(context.Background()))
	assert.True(t, called)
}

func TestSplitSentinel(t *testing.T) {
	payload, tsField, err := splitSentinel(docstore.Fields{
		"title":      "Buy milk",
		"completed":  false,
		"created_at": docstore.ServerTimestamp,
	})
	require.NoError(t, err)
	require.True(t, tsField.Valid)
	assert.Equal(t, "created_at", tsField.String)

	var plain map[string]any
	require.NoError(t, json.Unmarshal(payload, &plain))
	assert.Equal(t, "Buy milk", plain["title"])
	assert.Equal(t, false, plain["completed"])
	assert.NotContains(t, plain, "created_at")
}

func TestSplitSentinel_NoTimestamp(t *testing.T) {
	_, tsField, err := splitSentinel(docstore.Fields{"title": "x"})
	require.NoError(t, err)
	assert.False(t, tsField.Valid)
}

func TestDecode_ResolvedTimestamp(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	fields, err := decode(
		[]byte(`{"title":"x","completed":true}`),
		sql.NullString{String: "created_at", Valid: true},
		sql.NullTime{Time: now, Valid: true},
	)
	require.NoError(t, err)
	assert.Equal(t, "x", fields["title"])
	assert.Equal(t, true, fields["completed"])

	ts, ok := fields["created_at"].(docstore.Timestamp)
	require.True(t, ok)
	assert.Equal(t, now, ts.Time())
}

func TestDecode_PendingTimestamp(t *testing.T) {
	fields, err := decode(
		[]byte(`{}`),
		sql.NullString{String: "created_at", Valid: true},
		sql.NullTime{},
	)
	require.NoError(t, err)

	ts, ok := fields["created_at"].(docstore.Timestamp)
	require.True(t, ok)
	assert.True(t, ts.IsPending())
}
