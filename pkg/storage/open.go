package storage

import (
	"context"
	"strings"
)

// Config selects and configures a backend.
type Config struct {
	// Backend is one of [Backends]. Empty selects [BackendFile].
	Backend string

	// Path is the directory of a file store or the database file of a
	// SQLite store.
	Path string

	Redis RedisOptions
	Mongo MongoOptions
}

// Open creates the configured store, wrapped with [Instrument].
func Open(ctx context.Context, cfg Config) (Store, error) {
	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))
	if backend == "" {
		backend = BackendFile
	}

	var (
		s   Store
		err error
	)
	switch backend {
	case BackendMemory:
		s = NewMemoryStore()
	case BackendFile:
		s, err = NewFileStore(cfg.Path)
	case BackendSQLite:
		s, err = NewSQLiteStore(ctx, cfg.Path)
	case BackendRedis:
		s, err = NewRedisStore(ctx, cfg.Redis)
	case BackendMongo:
		s, err = NewMongoStore(ctx, cfg.Mongo)
	default:
		return nil, unknownBackend(cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	return Instrument(s, backend), nil
}
