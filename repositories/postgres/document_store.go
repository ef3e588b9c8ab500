package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/lib/pq"
	"github.com/upb/pet-house-api/repositories"
	"go.uber.org/zap"
)

const uniqueViolation = "23505"

var fieldNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// DocumentStore implements repositories.DocumentStore on a single JSONB table.
// Each row holds one document of one collection keyed by (collection, id).
// Documents are bound as text parameters since lib/pq sends []byte as bytea.
type DocumentStore struct {
	db     *DB
	logger *zap.Logger
}

// NewDocumentStore creates a document store over an open connection pool
func NewDocumentStore(db *DB, logger *zap.Logger) *DocumentStore {
	return &DocumentStore{
		db:     db,
		logger: logger,
	}
}

var _ repositories.DocumentStore = (*DocumentStore)(nil)

// whereClause renders filter as SQL conditions. $1 is always the collection;
// filter values follow in sorted key order.
func whereClause(collection string, filter repositories.Filter) (string, []interface{}, error) {
	conds := []string{"collection = $1"}
	args := []interface{}{collection}

	for _, key := range filter.Keys() {
		args = append(args, filter[key])
		n := len(args)
		if key == repositories.IDField {
			conds = append(conds, fmt.Sprintf("id = $%d", n))
			continue
		}
		if !fieldNamePattern.MatchString(key) {
			return "", nil, fmt.Errorf("invalid filter field %q", key)
		}
		conds = append(conds, fmt.Sprintf("doc->>'%s' = $%d", key, n))
	}

	return strings.Join(conds, " AND "), args, nil
}

// Find decodes every matching document into out in insertion order
func (s *DocumentStore) Find(ctx context.Context, collection string, filter repositories.Filter, out interface{}) error {
	where, args, err := whereClause(collection, filter)
	if err != nil {
		return err
	}

	query := "SELECT doc FROM documents WHERE " + where + " ORDER BY created_at, id"
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", collection, err)
	}
	defer rows.Close()

	var docs [][]byte
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return fmt.Errorf("failed to scan %s document: %w", collection, err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating %s: %w", collection, err)
	}

	return repositories.DecodeDocuments(docs, out)
}

// FindOne decodes the first matching document into out
func (s *DocumentStore) FindOne(ctx context.Context, collection string, filter repositories.Filter, out interface{}) error {
	where, args, err := whereClause(collection, filter)
	if err != nil {
		return err
	}

	var doc []byte
	query := "SELECT doc FROM documents WHERE " + where + " LIMIT 1"
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return repositories.ErrNoDocuments
		}
		return fmt.Errorf("failed to get %s document: %w", collection, err)
	}

	if err := json.Unmarshal(doc, out); err != nil {
		return fmt.Errorf("failed to decode %s document: %w", collection, err)
	}
	return nil
}

// InsertOne stores doc under id
func (s *DocumentStore) InsertOne(ctx context.Context, collection string, id string, doc interface{}) error {
	data, err := repositories.EncodeDocument(id, doc)
	if err != nil {
		return err
	}

	query := `INSERT INTO documents (collection, id, doc) VALUES ($1, $2, $3)`
	if _, err := s.db.ExecContext(ctx, query, collection, id, string(data)); err != nil {
		if isUniqueViolation(err) {
			return repositories.ErrDuplicateKey
		}
		return fmt.Errorf("failed to insert %s document: %w", collection, err)
	}
	return nil
}

// ReplaceOne replaces the first matching document, keeping its id.
// With upsert set and no match, doc is inserted under id unless that id is taken.
func (s *DocumentStore) ReplaceOne(ctx context.Context, collection string, filter repositories.Filter, id string, doc interface{}, upsert bool) (repositories.UpdateResult, error) {
	var result repositories.UpdateResult

	where, args, err := whereClause(collection, filter)
	if err != nil {
		return result, err
	}
	data, err := repositories.EncodeDocument(id, doc)
	if err != nil {
		return result, err
	}

	args = append(args, string(data))
	query := fmt.Sprintf(`
		WITH target AS (SELECT id, doc FROM documents WHERE %s LIMIT 1)
		UPDATE documents d
		SET doc = $%d::jsonb || jsonb_build_object('_id', target.id)
		FROM target
		WHERE d.collection = $1 AND d.id = target.id
		RETURNING target.doc IS DISTINCT FROM d.doc`, where, len(args))

	result, err = s.applyUpdate(ctx, query, args)
	if err != nil {
		return result, fmt.Errorf("failed to replace %s document: %w", collection, err)
	}
	if result.MatchedCount > 0 || !upsert {
		return result, nil
	}

	insert := `INSERT INTO documents (collection, id, doc) VALUES ($1, $2, $3)
		ON CONFLICT (collection, id) DO NOTHING`
	res, err := s.db.ExecContext(ctx, insert, collection, id, string(data))
	if err != nil {
		return result, fmt.Errorf("failed to upsert %s document: %w", collection, err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return result, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if inserted == 0 {
		return result, repositories.ErrDuplicateKey
	}

	upserted := id
	result.UpsertedID = &upserted
	return result, nil
}

// SetFields merges fields into the first matching document
func (s *DocumentStore) SetFields(ctx context.Context, collection string, filter repositories.Filter, fields map[string]interface{}) (repositories.UpdateResult, error) {
	if _, ok := fields[repositories.IDField]; ok {
		return repositories.UpdateResult{}, fmt.Errorf("cannot set %s", repositories.IDField)
	}

	where, args, err := whereClause(collection, filter)
	if err != nil {
		return repositories.UpdateResult{}, err
	}
	patch, err := json.Marshal(fields)
	if err != nil {
		return repositories.UpdateResult{}, fmt.Errorf("failed to encode fields: %w", err)
	}

	args = append(args, string(patch))
	query := fmt.Sprintf(`
		WITH target AS (SELECT id, doc FROM documents WHERE %s LIMIT 1)
		UPDATE documents d
		SET doc = d.doc || $%d::jsonb
		FROM target
		WHERE d.collection = $1 AND d.id = target.id
		RETURNING target.doc IS DISTINCT FROM d.doc`, where, len(args))

	result, err := s.applyUpdate(ctx, query, args)
	if err != nil {
		return result, fmt.Errorf("failed to update %s document: %w", collection, err)
	}
	return result, nil
}

// applyUpdate runs a single-row UPDATE ... RETURNING <changed> statement
func (s *DocumentStore) applyUpdate(ctx context.Context, query string, args []interface{}) (repositories.UpdateResult, error) {
	var result repositories.UpdateResult

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return result, err
	}
	defer rows.Close()

	for rows.Next() {
		var changed bool
		if err := rows.Scan(&changed); err != nil {
			return result, err
		}
		result.MatchedCount++
		if changed {
			result.ModifiedCount++
		}
	}
	return result, rows.Err()
}

// DeleteOne removes the first matching document
func (s *DocumentStore) DeleteOne(ctx context.Context, collection string, filter repositories.Filter) (int64, error) {
	where, args, err := whereClause(collection, filter)
	if err != nil {
		return 0, err
	}

	query := "DELETE FROM documents WHERE collection = $1 AND id = (SELECT id FROM documents WHERE " + where + " LIMIT 1)"
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete %s document: %w", collection, err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return deleted, nil
}

// Ping checks the database connection
func (s *DocumentStore) Ping(ctx context.Context) error {
	return s.db.HealthCheck(ctx)
}

// Close closes the connection pool
func (s *DocumentStore) Close(ctx context.Context) error {
	return s.db.Close()
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
