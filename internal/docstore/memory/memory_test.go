package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/cloudtasks/internal/common"
	"github.com/dmitrijs2005/cloudtasks/internal/docstore"
)

func TestStore_GetMissing(t *testing.T) {
	s := New()
	_, err := s.Get(context.Background(), "users/alice")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestStore_SetAndGet(t *testing.T) {
	s := New()
	ctx := context.Background()

	err := s.Set(ctx, "users/alice", docstore.Fields{
		"password_hash": "abc",
		"created_at":    docstore.ServerTimestamp,
	})
	require.NoError(t, err)

	fields, err := s.Get(ctx, "users/alice")
	require.NoError(t, err)
	assert.Equal(t, "abc", fields["password_hash"])

	ts, ok := fields["created_at"].(docstore.Timestamp)
	require.True(t, ok, "sentinel must resolve to a Timestamp")
	assert.False(t, ts.IsPending())
}

func TestStore_CreateOnlyIfAbsent(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, "users/alice", docstore.Fields{"password_hash": "a"}))

	err := s.Create(ctx, "users/alice", docstore.Fields{"password_hash": "b"})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)

	fields, err := s.Get(ctx, "users/alice")
	require.NoError(t, err)
	assert.Equal(t, "a", fields["password_hash"], "losing create must not overwrite")
}

func TestStore_UpdateMergesFields(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "users/alice/tasks/t1", docstore.Fields{
		"title":     "Buy milk",
		"completed": false,
	}))
	require.NoError(t, s.Update(ctx, "users/alice/tasks/t1", docstore.Fields{"completed": true}))

	fields, err := s.Get(ctx, "users/alice/tasks/t1")
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", fields["title"])
	assert.Equal(t, true, fields["completed"])
}

func TestStore_UpdateMissing(t *testing.T) {
	s := New()
	err := s.Update(context.Background(), "users/alice/tasks/nope", docstore.Fields{"completed": true})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestStore_DeleteIsIdempotent(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "users/alice/tasks/t1", docstore.Fields{"title": "x"}))
	require.NoError(t, s.Delete(ctx, "users/alice/tasks/t1"))
	require.NoError(t, s.Delete(ctx, "users/alice/tasks/t1"))

	_, err := s.Get(ctx, "users/alice/tasks/t1")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestStore_AddGeneratesUniqueIDs(t *testing.T) {
	s := New()
	ctx := context.Background()

	id1, err := s.Add(ctx, "users/alice/tasks", docstore.Fields{"title": "a"})
	require.NoError(t, err)
	id2, err := s.Add(ctx, "users/alice/tasks", docstore.Fields{"title": "b"})
	require.NoError(t, err)

	assert.NotEmpty(t, id1)
	assert.NotEqual(t, id1, id2)
}

func TestStore_ListChildren_OrderedByTimestamp(t *testing.T) {
	s := New()
	ctx := context.Background()

	var ids []string
	for _, title := range []string{"first", "second", "third"} {
		id, err := s.Add(ctx, "users/alice/tasks", docstore.Fields{
			"title":      title,
			"created_at": docstore.ServerTimestamp,
		})
		require.NoError(t, err)
		ids = append(ids, id)
	}

	docs, err := s.ListChildren(ctx, "users/alice/tasks", "created_at")
	require.NoError(t, err)
	require.Len(t, docs, 3)
	for i, doc := range docs {
		assert.Equal(t, ids[i], doc.ID)
	}

	prev := docs[0].Fields["created_at"].(docstore.Timestamp)
	for _, doc := range docs[1:] {
		cur := doc.Fields["created_at"].(docstore.Timestamp)
		assert.True(t, prev.Time().Before(cur.Time()) || prev.Time().Equal(cur.Time()))
		prev = cur
	}
}

func TestStore_ListChildren_ExcludesNestedDocuments(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "users/alice", docstore.Fields{"password_hash": "a"}))
	require.NoError(t, s.Set(ctx, "users/alice/tasks/t1", docstore.Fields{"title": "x"}))

	docs, err := s.ListChildren(ctx, "users", "created_at")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "alice", docs[0].ID)
}

func TestStore_ListChildren_Empty(t *testing.T) {
	s := New()
	docs, err := s.ListChildren(context.Background(), "users/bob/tasks", "created_at")
	require.NoError(t, err)
	assert.Empty(t, docs)
}
