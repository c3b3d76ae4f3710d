package docstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimestamp_ZeroValueIsPending(t *testing.T) {
	var ts Timestamp
	assert.True(t, ts.IsPending())
	assert.True(t, ts.Time().IsZero())
}

func TestTimestamp_Resolved(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	ts := ResolvedAt(now)
	assert.False(t, ts.IsPending())
	assert.Equal(t, now, ts.Time())
}

func TestSplitPath(t *testing.T) {
	tests := []struct {
		path       string
		collection string
		id         string
	}{
		{"users/alice", "users", "alice"},
		{"users/alice/tasks/t1", "users/alice/tasks", "t1"},
		{"orphan", "", "orphan"},
	}
	for _, tt := range tests {
		col, id := SplitPath(tt.path)
		assert.Equal(t, tt.collection, col, tt.path)
		assert.Equal(t, tt.id, id, tt.path)
	}
}
