// Package storage selects the key-value backend configured under `storage.engine`.
package storage

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/classtrack/core"
	"github.com/trezcool/classtrack/storage/database"
	kvstore "github.com/trezcool/classtrack/storage/kv"
)

const (
	EngineBolt     = "bolt"
	EngineMemory   = "memory"
	EnginePostgres = "postgres"

	boltLockTimeout = 5 * time.Second
)

// Open returns the configured store. The postgres backend is created and migrated on demand.
func Open(ctx context.Context, conf *core.Config) (kvstore.Store, error) {
	switch conf.Storage.Engine {
	case "", EngineBolt:
		return kvstore.OpenBolt(conf.Storage.Path, boltLockTimeout)
	case EngineMemory:
		return kvstore.NewMemoryStore(), nil
	case EnginePostgres:
		if err := database.CreateIfNotExist(ctx, conf); err != nil {
			return nil, err
		}
		db, err := database.Open(ctx, conf)
		if err != nil {
			return nil, err
		}
		if err = database.Migrate(db); err != nil {
			_ = db.Close()
			return nil, err
		}
		return database.NewDocumentStore(db), nil
	default:
		return nil, errors.Errorf("unknown storage engine %q", conf.Storage.Engine)
	}
}
