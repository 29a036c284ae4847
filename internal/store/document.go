package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Document is the unit of persistence: a flat-to-nested JSON object
// addressed by (collection, key). Engine packages marshal their own
// typed state in and out of it.
type Document map[string]any

// ErrNotFound indicates the requested document does not exist.
var ErrNotFound = errors.New("document not found")

// PersistenceError wraps a failed store read or write. The engine
// propagates these unchanged; no retry is built in.
type PersistenceError struct {
	Op  string // "get", "set", "merge", "increment", "delete", "list"
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Get reads a document. Returns ErrNotFound when it does not exist.
func (s *Store) Get(ctx context.Context, collection, key string) (Document, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE collection = ? AND key = ?`,
		collection, key,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &PersistenceError{Op: "get", Err: err}
	}

	var doc Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, &PersistenceError{Op: "get", Err: fmt.Errorf("decode document: %w", err)}
	}
	return doc, nil
}

// Set writes a document, fully replacing any existing content.
func (s *Store) Set(ctx context.Context, collection, key string, doc Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return &PersistenceError{Op: "set", Err: fmt.Errorf("encode document: %w", err)}
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (collection, key, data, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (collection, key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		collection, key, string(raw), nowStamp(),
	)
	if err != nil {
		return &PersistenceError{Op: "set", Err: err}
	}

	s.hub.publish(collection, key, doc)
	return nil
}

// Merge shallow-merges fields into a document, creating it when absent.
// Unlisted fields are left untouched.
//
// The read-modify-write is transactional against this process only; a
// concurrent writer between read and write loses its update. Increment is
// the only primitive that is atomic under concurrent callers.
func (s *Store) Merge(ctx context.Context, collection, key string, fields Document) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &PersistenceError{Op: "merge", Err: err}
	}
	defer tx.Rollback()

	doc := Document{}
	var raw string
	err = tx.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE collection = ? AND key = ?`,
		collection, key,
	).Scan(&raw)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// Create on merge, matching merge-write semantics.
	case err != nil:
		return &PersistenceError{Op: "merge", Err: err}
	default:
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			return &PersistenceError{Op: "merge", Err: fmt.Errorf("decode document: %w", err)}
		}
	}

	for k, v := range fields {
		doc[k] = v
	}

	merged, err := json.Marshal(doc)
	if err != nil {
		return &PersistenceError{Op: "merge", Err: fmt.Errorf("encode document: %w", err)}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO documents (collection, key, data, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (collection, key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		collection, key, string(merged), nowStamp(),
	)
	if err != nil {
		return &PersistenceError{Op: "merge", Err: err}
	}

	if err := tx.Commit(); err != nil {
		return &PersistenceError{Op: "merge", Err: err}
	}

	s.hub.publish(collection, key, doc)
	return nil
}

// Increment atomically adds delta to a numeric field of an existing
// document. Returns ErrNotFound when the document does not exist.
func (s *Store) Increment(ctx context.Context, collection, key, field string, delta int64) error {
	path := "$." + field
	res, err := s.db.ExecContext(ctx,
		`UPDATE documents
		 SET data = json_set(data, ?, COALESCE(json_extract(data, ?), 0) + ?),
		     updated_at = ?
		 WHERE collection = ? AND key = ?`,
		path, path, delta, nowStamp(), collection, key,
	)
	if err != nil {
		return &PersistenceError{Op: "increment", Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return &PersistenceError{Op: "increment", Err: err}
	}
	if n == 0 {
		return ErrNotFound
	}

	if doc, err := s.Get(ctx, collection, key); err == nil {
		s.hub.publish(collection, key, doc)
	}
	return nil
}

// Delete removes a document. Deleting a missing document is not an error.
func (s *Store) Delete(ctx context.Context, collection, key string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = ? AND key = ?`,
		collection, key,
	)
	if err != nil {
		return &PersistenceError{Op: "delete", Err: err}
	}
	return nil
}

// KeyedDocument pairs a document with its key within a collection.
type KeyedDocument struct {
	Key string
	Doc Document
}

// List returns every document in a collection, keyed. Order is unspecified.
func (s *Store) List(ctx context.Context, collection string) ([]KeyedDocument, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, data FROM documents WHERE collection = ?`, collection)
	if err != nil {
		return nil, &PersistenceError{Op: "list", Err: err}
	}
	defer rows.Close()

	var out []KeyedDocument
	for rows.Next() {
		var key, raw string
		if err := rows.Scan(&key, &raw); err != nil {
			return nil, &PersistenceError{Op: "list", Err: err}
		}
		var doc Document
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			return nil, &PersistenceError{Op: "list", Err: fmt.Errorf("decode document %q: %w", key, err)}
		}
		out = append(out, KeyedDocument{Key: key, Doc: doc})
	}
	if err := rows.Err(); err != nil {
		return nil, &PersistenceError{Op: "list", Err: err}
	}
	return out, nil
}

func nowStamp() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
