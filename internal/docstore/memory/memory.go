// Package memory provides an in-process docstore.Store used by unit tests
// and by the "memory" backend setting. Server timestamps resolve immediately
// at write time from a strictly increasing clock, so listing order is stable
// even for writes landing within the same wall-clock tick.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/cloudtasks/internal/common"
	"github.com/dmitrijs2005/cloudtasks/internal/docstore"
)

type document struct {
	fields docstore.Fields
	seq    int
}

type Store struct {
	mu     sync.Mutex
	docs   map[string]*document
	seq    int
	lastTS time.Time
}

func New() *Store {
	return &Store{docs: make(map[string]*document)}
}

// nextTimestamp returns a strictly increasing server time.
func (s *Store) nextTimestamp() time.Time {
	now := time.Now().UTC()
	if !now.After(s.lastTS) {
		now = s.lastTS.Add(time.Microsecond)
	}
	s.lastTS = now
	return now
}

// resolve copies fields, replacing ServerTimestamp sentinels with the
// current server time.
func (s *Store) resolve(fields docstore.Fields) docstore.Fields {
	out := make(docstore.Fields, len(fields))
	for k, v := range fields {
		if v == docstore.ServerTimestamp {
			out[k] = docstore.ResolvedAt(s.nextTimestamp())
			continue
		}
		out[k] = v
	}
	return out
}

func copyFields(fields docstore.Fields) docstore.Fields {
	out := make(docstore.Fields, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}

func (s *Store) Get(_ context.Context, path string) (docstore.Fields, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[path]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return copyFields(doc.fields), nil
}

func (s *Store) Set(_ context.Context, path string, fields docstore.Fields) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	s.docs[path] = &document{fields: s.resolve(fields), seq: s.seq}
	return nil
}

func (s *Store) Create(_ context.Context, path string, fields docstore.Fields) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[path]; ok {
		return common.ErrorAlreadyExists
	}
	s.seq++
	s.docs[path] = &document{fields: s.resolve(fields), seq: s.seq}
	return nil
}

func (s *Store) Update(_ context.Context, path string, partial docstore.Fields) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.docs[path]
	if !ok {
		return common.ErrorNotFound
	}
	for k, v := range s.resolve(partial) {
		doc.fields[k] = v
	}
	return nil
}

func (s *Store) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.docs, path)
	return nil
}

func (s *Store) Add(_ context.Context, collection string, fields docstore.Fields) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	s.seq++
	s.docs[collection+"/"+id] = &document{fields: s.resolve(fields), seq: s.seq}
	return id, nil
}

func (s *Store) ListChildren(_ context.Context, collection string, orderBy string) ([]docstore.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prefix := collection + "/"

	type child struct {
		doc docstore.Document
		key any
		seq int
	}

	var children []child
	for path, doc := range s.docs {
		rest, ok := strings.CutPrefix(path, prefix)
		if !ok || strings.Contains(rest, "/") {
			continue
		}
		children = append(children, child{
			doc: docstore.Document{ID: rest, Fields: copyFields(doc.fields)},
			key: doc.fields[orderBy],
			seq: doc.seq,
		})
	}

	sort.Slice(children, func(i, j int) bool {
		if less, ok := lessKey(children[i].key, children[j].key); ok {
			return less
		}
		return children[i].seq < children[j].seq
	})

	out := make([]docstore.Document, 0, len(children))
	for _, c := range children {
		out = append(out, c.doc)
	}
	return out, nil
}

// lessKey compares two order-by values of the same kind; ok is false for
// equal or incomparable values, letting insertion order break the tie.
func lessKey(a, b any) (less, ok bool) {
	switch av := a.(type) {
	case docstore.Timestamp:
		bv, isTS := b.(docstore.Timestamp)
		if !isTS || av.Time().Equal(bv.Time()) {
			return false, false
		}
		return av.Time().Before(bv.Time()), true
	case string:
		bv, isStr := b.(string)
		if !isStr || av == bv {
			return false, false
		}
		return av < bv, true
	}
	return false, false
}

func (s *Store) Close() error {
	return nil
}
