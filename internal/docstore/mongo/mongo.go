// Package mongo implements docstore.Store on MongoDB. Every document lives in
// a single "documents" collection keyed by its full path, so the unique _id
// index gives Create its create-if-absent guarantee. Partial updates map to
// $set on the fields subdocument.
//
// MongoDB has no insert-time server clock, so ServerTimestamp sentinels
// resolve from the driver host's clock at write time.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/dmitrijs2005/cloudtasks/internal/common"
	"github.com/dmitrijs2005/cloudtasks/internal/docstore"
)

const collectionName = "documents"

type Store struct {
	client *mongo.Client
	col    *mongo.Collection
}

// New connects to MongoDB and pings the deployment so that a misconfigured
// URI fails at startup, not on the first operation.
func New(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return &Store{client: client, col: client.Database(database).Collection(collectionName)}, nil
}

// record is the persisted shape: full path as key, parent collection path
// for child listings, and the document fields as a subdocument.
type record struct {
	Path   string `bson:"_id"`
	Parent string `bson:"parent"`
	Fields bson.M `bson:"fields"`
}

func encode(fields docstore.Fields) bson.M {
	out := make(bson.M, len(fields))
	for k, v := range fields {
		if v == docstore.ServerTimestamp {
			out[k] = primitive.NewDateTimeFromTime(time.Now().UTC())
			continue
		}
		out[k] = v
	}
	return out
}

func decode(fields bson.M) docstore.Fields {
	out := make(docstore.Fields, len(fields))
	for k, v := range fields {
		switch value := v.(type) {
		case primitive.DateTime:
			out[k] = docstore.ResolvedAt(value.Time().UTC())
		default:
			out[k] = v
		}
	}
	return out
}

func newRecord(path string, fields docstore.Fields) record {
	parent, _ := docstore.SplitPath(path)
	return record{Path: path, Parent: parent, Fields: encode(fields)}
}

func (s *Store) Get(ctx context.Context, path string) (docstore.Fields, error) {
	var rec record
	err := s.col.FindOne(ctx, bson.M{"_id": path}).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("mongo get %s: %w", path, err)
	}
	return decode(rec.Fields), nil
}

func (s *Store) Set(ctx context.Context, path string, fields docstore.Fields) error {
	rec := newRecord(path, fields)
	opts := options.Replace().SetUpsert(true)
	if _, err := s.col.ReplaceOne(ctx, bson.M{"_id": path}, rec, opts); err != nil {
		return fmt.Errorf("mongo set %s: %w", path, err)
	}
	return nil
}

func (s *Store) Create(ctx context.Context, path string, fields docstore.Fields) error {
	if _, err := s.col.InsertOne(ctx, newRecord(path, fields)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("mongo create %s: %w", path, err)
	}
	return nil
}

func (s *Store) Update(ctx context.Context, path string, partial docstore.Fields) error {
	set := bson.M{}
	for k, v := range encode(partial) {
		set["fields."+k] = v
	}
	res, err := s.col.UpdateOne(ctx, bson.M{"_id": path}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("mongo update %s: %w", path, err)
	}
	if res.MatchedCount == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, path string) error {
	// DeletedCount 0 means the document was already gone; not an error.
	if _, err := s.col.DeleteOne(ctx, bson.M{"_id": path}); err != nil {
		return fmt.Errorf("mongo delete %s: %w", path, err)
	}
	return nil
}

func (s *Store) Add(ctx context.Context, collection string, fields docstore.Fields) (string, error) {
	id := primitive.NewObjectID().Hex()
	if err := s.Create(ctx, collection+"/"+id, fields); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) ListChildren(ctx context.Context, collection string, orderBy string) ([]docstore.Document, error) {
	opts := options.Find().SetSort(bson.D{{Key: "fields." + orderBy, Value: 1}})
	cursor, err := s.col.Find(ctx, bson.M{"parent": collection}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo list %s: %w", collection, err)
	}
	defer cursor.Close(ctx)

	var out []docstore.Document
	for cursor.Next(ctx) {
		var rec record
		if err := cursor.Decode(&rec); err != nil {
			return nil, fmt.Errorf("mongo decode in %s: %w", collection, err)
		}
		_, id := docstore.SplitPath(rec.Path)
		out = append(out, docstore.Document{ID: id, Fields: decode(rec.Fields)})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("mongo list %s: %w", collection, err)
	}
	return out, nil
}

func (s *Store) Close() error {
	return s.client.Disconnect(context.Background())
}
