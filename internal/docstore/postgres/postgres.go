// Package postgres implements docstore.Store on PostgreSQL. All documents
// live in one "documents" table: the full path is the primary key, the parent
// collection path backs child listings, and the fields are a jsonb value so
// partial updates become a jsonb merge.
//
// Server-assigned timestamps are kept in a dedicated timestamptz column set
// with the database's now(), since jsonb has no native time type. A document
// carries at most one server-assigned timestamp, surfaced on reads under the
// field name it was written with.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/cloudtasks/internal/common"
	"github.com/dmitrijs2005/cloudtasks/internal/docstore"
	"github.com/dmitrijs2005/cloudtasks/internal/docstore/postgres/migrations"
)

type Store struct {
	db *sql.DB
}

// gooseUpContext is a seam for testing RunMigrations without a database.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// New opens a connection pool for the DSN and brings the schema up to date.
func New(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	s := &Store{db: db}
	if err := s.runMigrations(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres migrations: %w", err)
	}
	return s, nil
}

func (s *Store) runMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, s.db, ".")
}

// splitSentinel separates the one allowed server-timestamp field from the
// payload and marshals the rest to jsonb.
func splitSentinel(fields docstore.Fields) (payload []byte, tsField sql.NullString, err error) {
	plain := make(map[string]any, len(fields))
	for k, v := range fields {
		if v == docstore.ServerTimestamp {
			tsField = sql.NullString{String: k, Valid: true}
			continue
		}
		plain[k] = v
	}
	payload, err = json.Marshal(plain)
	return payload, tsField, err
}

func decode(payload []byte, tsField sql.NullString, tsValue sql.NullTime) (docstore.Fields, error) {
	var plain map[string]any
	if err := json.Unmarshal(payload, &plain); err != nil {
		return nil, fmt.Errorf("decode fields: %w", err)
	}
	fields := make(docstore.Fields, len(plain)+1)
	for k, v := range plain {
		fields[k] = v
	}
	if tsField.Valid {
		if tsValue.Valid {
			fields[tsField.String] = docstore.ResolvedAt(tsValue.Time.UTC())
		} else {
			fields[tsField.String] = docstore.Timestamp{}
		}
	}
	return fields, nil
}

func (s *Store) Get(ctx context.Context, path string) (docstore.Fields, error) {
	query := `SELECT fields, ts_field, ts_value FROM documents WHERE path = $1`

	var payload []byte
	var tsField sql.NullString
	var tsValue sql.NullTime
	err := s.db.QueryRowContext(ctx, query, path).Scan(&payload, &tsField, &tsValue)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("postgres get %s: %w", path, err)
	}
	return decode(payload, tsField, tsValue)
}

func (s *Store) Set(ctx context.Context, path string, fields docstore.Fields) error {
	payload, tsField, err := splitSentinel(fields)
	if err != nil {
		return err
	}
	parent, _ := docstore.SplitPath(path)

	query := `
		INSERT INTO documents (path, parent, fields, ts_field, ts_value)
		VALUES ($1, $2, $3, $4, CASE WHEN $4::text IS NULL THEN NULL ELSE now() END)
		ON CONFLICT (path)
		DO UPDATE SET fields = EXCLUDED.fields, ts_field = EXCLUDED.ts_field, ts_value = EXCLUDED.ts_value
	`
	if _, err := s.db.ExecContext(ctx, query, path, parent, payload, tsField); err != nil {
		return fmt.Errorf("postgres set %s: %w", path, err)
	}
	return nil
}

func (s *Store) Create(ctx context.Context, path string, fields docstore.Fields) error {
	payload, tsField, err := splitSentinel(fields)
	if err != nil {
		return err
	}
	parent, _ := docstore.SplitPath(path)

	query := `
		INSERT INTO documents (path, parent, fields, ts_field, ts_value)
		VALUES ($1, $2, $3, $4, CASE WHEN $4::text IS NULL THEN NULL ELSE now() END)
		ON CONFLICT (path) DO NOTHING
	`
	res, err := s.db.ExecContext(ctx, query, path, parent, payload, tsField)
	if err != nil {
		return fmt.Errorf("postgres create %s: %w", path, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return common.ErrorAlreadyExists
	}
	return nil
}

func (s *Store) Update(ctx context.Context, path string, partial docstore.Fields) error {
	payload, tsField, err := splitSentinel(partial)
	if err != nil {
		return err
	}

	query := `
		UPDATE documents
		SET fields = fields || $2::jsonb,
		    ts_field = COALESCE($3, ts_field),
		    ts_value = CASE WHEN $3::text IS NULL THEN ts_value ELSE now() END
		WHERE path = $1
	`
	res, err := s.db.ExecContext(ctx, query, path, payload, tsField)
	if err != nil {
		return fmt.Errorf("postgres update %s: %w", path, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, path string) error {
	// A DELETE matching no rows is a successful no-op.
	if _, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE path = $1`, path); err != nil {
		return fmt.Errorf("postgres delete %s: %w", path, err)
	}
	return nil
}

func (s *Store) Add(ctx context.Context, collection string, fields docstore.Fields) (string, error) {
	id := uuid.NewString()
	if err := s.Create(ctx, collection+"/"+id, fields); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) ListChildren(ctx context.Context, collection string, orderBy string) ([]docstore.Document, error) {
	// The order key is the timestamp column when the document's server
	// timestamp carries the requested name, the jsonb text value otherwise;
	// seq preserves insertion order for ties.
	query := `
		SELECT path, fields, ts_field, ts_value FROM documents
		WHERE parent = $1
		ORDER BY
			CASE WHEN ts_field = $2
				THEN to_char(ts_value AT TIME ZONE 'utc', 'YYYY-MM-DD"T"HH24:MI:SS.US')
				ELSE fields->>$2
			END ASC NULLS LAST,
			seq ASC
	`
	rows, err := s.db.QueryContext(ctx, query, collection, orderBy)
	if err != nil {
		return nil, fmt.Errorf("postgres list %s: %w", collection, err)
	}
	defer rows.Close()

	var out []docstore.Document
	for rows.Next() {
		var path string
		var payload []byte
		var tsField sql.NullString
		var tsValue sql.NullTime
		if err := rows.Scan(&path, &payload, &tsField, &tsValue); err != nil {
			return nil, err
		}
		fields, err := decode(payload, tsField, tsValue)
		if err != nil {
			return nil, err
		}
		_, id := docstore.SplitPath(path)
		out = append(out, docstore.Document{ID: id, Fields: fields})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
