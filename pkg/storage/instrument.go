package storage

import (
	"context"
	"time"

	"github.com/matzehuels/mindmap/pkg/observability"
)

// Instrumented reports every call of the wrapped store to the registered
// storage hooks.
type Instrumented struct {
	inner   Store
	backend string
}

// Instrument wraps s so reads and writes reach [observability.Storage].
func Instrument(s Store, backend string) *Instrumented {
	return &Instrumented{inner: s, backend: backend}
}

// Backend returns the backend name reported to hooks.
func (s *Instrumented) Backend() string { return s.backend }

// Unwrap returns the wrapped store.
func (s *Instrumented) Unwrap() Store { return s.inner }

func (s *Instrumented) Get(ctx context.Context, key string) ([]byte, bool, error) {
	start := time.Now()
	data, found, err := s.inner.Get(ctx, key)
	observability.Storage().OnRead(ctx, s.backend, key, found, len(data), time.Since(start), err)
	return data, found, err
}

func (s *Instrumented) Set(ctx context.Context, key string, data []byte) error {
	start := time.Now()
	err := s.inner.Set(ctx, key, data)
	observability.Storage().OnWrite(ctx, s.backend, key, len(data), time.Since(start), err)
	return err
}

func (s *Instrumented) Delete(ctx context.Context, key string) error {
	start := time.Now()
	err := s.inner.Delete(ctx, key)
	observability.Storage().OnWrite(ctx, s.backend, key, 0, time.Since(start), err)
	return err
}

func (s *Instrumented) Close() error { return s.inner.Close() }

var _ Store = (*Instrumented)(nil)
