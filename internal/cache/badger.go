package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// BadgerConfig configures the embedded cache.
type BadgerConfig struct {
	// Path is ignored when InMemory is set.
	Path     string
	InMemory bool
	Logger   badger.Logger
}

type badgerCache struct {
	db *badger.DB
}

// NewBadger opens an embedded cache for single-node deployments and tests.
func NewBadger(cfg BadgerConfig) (SessionCache, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("path is required for persistent cache")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, fmt.Errorf("create cache directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithNumVersionsToKeep(1).WithLogger(cfg.Logger)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger cache: %w", err)
	}
	return &badgerCache{db: db}, nil
}

func (b *badgerCache) Get(ctx context.Context, sessionID string) (*Entry, error) {
	var entry Entry
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(Key(sessionID)))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &entry)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("badger get: %w", err)
	}
	return &entry, nil
}

func (b *badgerCache) Set(ctx context.Context, sessionID string, entry *Entry, ttl time.Duration) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	return b.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(Key(sessionID)), data)
		if ttl > 0 {
			e = e.WithTTL(ttl)
		}
		return txn.SetEntry(e)
	})
}

func (b *badgerCache) Delete(ctx context.Context, sessionID string) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(Key(sessionID)))
	})
}

func (b *badgerCache) Close() error {
	return b.db.Close()
}
