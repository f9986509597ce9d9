package database

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	kvstore "github.com/trezcool/classtrack/storage/kv"
)

const (
	getDocumentQuery = `SELECT value FROM documents WHERE key = $1`
	putDocumentQuery = `
INSERT INTO documents (key, value, updated_at) VALUES ($1, $2, NOW())
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
	deleteDocumentsQuery = `DELETE FROM documents WHERE key = ANY($1)`
)

// DocumentStore is a kvstore.Store backed by the postgres `documents` table.
type DocumentStore struct {
	db *sqlx.DB
}

var _ kvstore.Store = (*DocumentStore)(nil)

func NewDocumentStore(db *sqlx.DB) *DocumentStore {
	return &DocumentStore{db: db}
}

func (s *DocumentStore) DB() *sqlx.DB { return s.db }

func (s *DocumentStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	if err := s.db.GetContext(ctx, &value, getDocumentQuery, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, kvstore.ErrKeyNotFound
		}
		return nil, errors.Wrapf(err, "getting %s", key)
	}
	return []byte(value), nil
}

func (s *DocumentStore) Put(ctx context.Context, key string, value []byte) error {
	if _, err := s.db.ExecContext(ctx, putDocumentQuery, key, string(value)); err != nil {
		return errors.Wrapf(err, "putting %s", key)
	}
	return nil
}

func (s *DocumentStore) PutMulti(ctx context.Context, pairs map[string][]byte) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	for k, v := range pairs {
		if _, err = tx.ExecContext(ctx, putDocumentQuery, k, string(v)); err != nil {
			return errors.Wrapf(err, "putting %s", k)
		}
	}
	return errors.Wrap(tx.Commit(), "committing transaction")
}

func (s *DocumentStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if _, err := s.db.ExecContext(ctx, deleteDocumentsQuery, pq.Array(keys)); err != nil {
		return errors.Wrap(err, "deleting documents")
	}
	return nil
}

func (s *DocumentStore) Close() error {
	return s.db.Close()
}
