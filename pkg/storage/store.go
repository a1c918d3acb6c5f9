// Package storage provides the durable key-value medium behind the map
// registry.
//
// # Overview
//
// A [Store] holds opaque byte values under string keys. The registry keeps
// all maps under a single key and rewrites it in full on every change, so
// the only guarantee a backend has to give is that [Store.Set] replaces a
// value atomically: a reader sees either the old or the new bytes, never a
// mix.
//
// # Backends
//
//   - [MemoryStore]: process memory, for tests and throwaway sessions
//   - [FileStore]: one file per key, written to a temp file then renamed
//   - [SQLiteStore]: a kv table in a SQLite database (modernc.org/sqlite)
//   - [RedisStore]: plain GET/SET/DEL against Redis
//   - [MongoStore]: one document per key, replaced with upsert
//
// [Open] selects a backend from a [Config] and wraps it with [Instrument]
// so storage hooks see every read and write.
//
// # Errors
//
// Backend failures are returned as pkg/errors values with code
// STORAGE_ERROR. A missing key is not an error: Get reports it with
// found == false.
package storage

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/matzehuels/mindmap/pkg/errors"
)

// Store is a durable key-value medium.
type Store interface {
	// Get returns the value stored under key. found is false when the key
	// does not exist.
	Get(ctx context.Context, key string) (data []byte, found bool, err error)

	// Set stores data under key, replacing any previous value atomically.
	Set(ctx context.Context, key string, data []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// Backend names accepted by [Open].
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Backends lists every backend name.
var Backends = []string{BackendMemory, BackendFile, BackendSQLite, BackendRedis, BackendMongo}

var (
	// ErrUnknownBackend is returned by [Open] for an unrecognised backend name.
	ErrUnknownBackend = stderrors.New("unknown storage backend")

	// ErrClosed is returned by operations on a closed store.
	ErrClosed = stderrors.New("store is closed")
)

// wrap turns a backend failure into a STORAGE_ERROR.
func wrap(backend, op, key string, err error) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(errors.ErrCodeStorage, err, "%s %s %q", backend, op, key)
}

func unknownBackend(name string) error {
	return errors.Wrap(errors.ErrCodeInvalidInput, fmt.Errorf("%w: %q", ErrUnknownBackend, name),
		"storage backend must be one of %v", Backends)
}
