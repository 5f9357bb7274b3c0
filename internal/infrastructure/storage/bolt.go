package storage

import (
	"context"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

var sessionBucket = []byte("session")

// BoltStorage persists items in a single bbolt bucket.
// bbolt serializes write transactions, so no extra locking is needed.
type BoltStorage struct {
	db   *bbolt.DB
	path string
}

// NewBoltStorage opens or creates the database file at path
func NewBoltStorage(path string) (*BoltStorage, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(sessionBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create session bucket: %w", err)
	}

	return &BoltStorage{db: db, path: path}, nil
}

// Path returns the database file path
func (b *BoltStorage) Path() string {
	return b.path
}

func (b *BoltStorage) GetItem(_ context.Context, key string) (string, error) {
	var value string
	err := b.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(sessionBucket).Get([]byte(key))
		if v == nil {
			return ErrKeyNotFound
		}
		// v is only valid inside the transaction
		value = string(v)
		return nil
	})
	return value, err
}

func (b *BoltStorage) SetItem(_ context.Context, key, value string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(sessionBucket).Put([]byte(key), []byte(value))
	})
}

func (b *BoltStorage) RemoveItem(_ context.Context, key string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(sessionBucket).Delete([]byte(key))
	})
}

// Close releases the database file lock
func (b *BoltStorage) Close() error {
	return b.db.Close()
}
