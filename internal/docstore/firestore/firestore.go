// Package firestore implements docstore.Store on Google Cloud Firestore,
// authenticated with a service-account JSON key. Documents map one-to-one
// onto Firestore documents, ServerTimestamp onto Firestore's native sentinel,
// and Create onto the conditional document create, which makes registration
// exactly-once even across concurrent instances.
package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/cloudtasks/internal/common"
	"github.com/dmitrijs2005/cloudtasks/internal/docstore"
)

type Store struct {
	client *firestore.Client
}

// New connects to Firestore for the given project using the service-account
// credentials file. The caller owns the store and must Close it.
func New(ctx context.Context, projectID, credentialsFile string) (*Store, error) {
	client, err := firestore.NewClient(ctx, projectID, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("firestore client: %w", err)
	}
	return &Store{client: client}, nil
}

// encode translates contract field values into Firestore ones.
func encode(fields docstore.Fields) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		if v == docstore.ServerTimestamp {
			out[k] = firestore.ServerTimestamp
			continue
		}
		out[k] = v
	}
	return out
}

// decode translates Firestore values back into contract ones. A nil value
// for a server-timestamp field means the server has not resolved it yet.
func decode(data map[string]any) docstore.Fields {
	out := make(docstore.Fields, len(data))
	for k, v := range data {
		switch value := v.(type) {
		case time.Time:
			out[k] = docstore.ResolvedAt(value)
		case nil:
			out[k] = docstore.Timestamp{}
		default:
			out[k] = v
		}
	}
	return out
}

func (s *Store) Get(ctx context.Context, path string) (docstore.Fields, error) {
	snap, err := s.client.Doc(path).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("firestore get %s: %w", path, err)
	}
	return decode(snap.Data()), nil
}

func (s *Store) Set(ctx context.Context, path string, fields docstore.Fields) error {
	if _, err := s.client.Doc(path).Set(ctx, encode(fields)); err != nil {
		return fmt.Errorf("firestore set %s: %w", path, err)
	}
	return nil
}

func (s *Store) Create(ctx context.Context, path string, fields docstore.Fields) error {
	if _, err := s.client.Doc(path).Create(ctx, encode(fields)); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("firestore create %s: %w", path, err)
	}
	return nil
}

func (s *Store) Update(ctx context.Context, path string, partial docstore.Fields) error {
	updates := make([]firestore.Update, 0, len(partial))
	for k, v := range encode(partial) {
		updates = append(updates, firestore.Update{Path: k, Value: v})
	}
	if _, err := s.client.Doc(path).Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return common.ErrorNotFound
		}
		return fmt.Errorf("firestore update %s: %w", path, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, path string) error {
	// Firestore deletes are no-ops for missing documents.
	if _, err := s.client.Doc(path).Delete(ctx); err != nil {
		return fmt.Errorf("firestore delete %s: %w", path, err)
	}
	return nil
}

func (s *Store) Add(ctx context.Context, collection string, fields docstore.Fields) (string, error) {
	ref := s.client.Collection(collection).NewDoc()
	if _, err := ref.Create(ctx, encode(fields)); err != nil {
		return "", fmt.Errorf("firestore add to %s: %w", collection, err)
	}
	return ref.ID, nil
}

func (s *Store) ListChildren(ctx context.Context, collection string, orderBy string) ([]docstore.Document, error) {
	iter := s.client.Collection(collection).OrderBy(orderBy, firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var out []docstore.Document
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("firestore list %s: %w", collection, err)
		}
		out = append(out, docstore.Document{ID: snap.Ref.ID, Fields: decode(snap.Data())})
	}
	return out, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}
