// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers register hooks at startup to
// receive events about editor operations, layout passes and storage access.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, so library packages never
// import a concrete backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetEditorHooks(&myEditorHooks{})
//	    observability.SetStorageHooks(&myStorageHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	start := time.Now()
//	err := apply()
//	observability.Editor().OnOperation(ctx, "add_child", mapName, time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Editor Hooks
// =============================================================================

// EditorHooks receives events from editing sessions.
type EditorHooks interface {
	// OnOperation records one user-level operation (add_root, rename,
	// drag_commit, delete_map, ...) after it has been applied and saved.
	OnOperation(ctx context.Context, op, mapName string, duration time.Duration, err error)
}

// =============================================================================
// Layout Hooks
// =============================================================================

// LayoutHooks receives events from layout passes.
type LayoutHooks interface {
	// OnArrange records a full layout pass.
	OnArrange(ctx context.Context, mode string, nodeCount int, duration time.Duration)
}

// =============================================================================
// Storage Hooks
// =============================================================================

// StorageHooks receives events from the durable store.
type StorageHooks interface {
	// OnRead records a read. hit is false when the key was absent.
	OnRead(ctx context.Context, backend, key string, hit bool, size int, duration time.Duration, err error)

	// OnWrite records a full-value write or a delete (size 0).
	OnWrite(ctx context.Context, backend, key string, size int, duration time.Duration, err error)

	// OnCorrupt records stored data that could not be decoded and was
	// replaced by a default.
	OnCorrupt(ctx context.Context, key, mapName string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopEditorHooks is a no-op implementation of EditorHooks.
type NoopEditorHooks struct{}

func (NoopEditorHooks) OnOperation(context.Context, string, string, time.Duration, error) {}

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnArrange(context.Context, string, int, time.Duration) {}

// NoopStorageHooks is a no-op implementation of StorageHooks.
type NoopStorageHooks struct{}

func (NoopStorageHooks) OnRead(context.Context, string, string, bool, int, time.Duration, error) {}
func (NoopStorageHooks) OnWrite(context.Context, string, string, int, time.Duration, error)      {}
func (NoopStorageHooks) OnCorrupt(context.Context, string, string, error)                        {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	editorHooks  EditorHooks  = NoopEditorHooks{}
	layoutHooks  LayoutHooks  = NoopLayoutHooks{}
	storageHooks StorageHooks = NoopStorageHooks{}
	hooksMu      sync.RWMutex
)

// SetEditorHooks registers custom editor hooks.
// This should be called once at application startup.
func SetEditorHooks(h EditorHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		editorHooks = h
	}
}

// SetLayoutHooks registers custom layout hooks.
func SetLayoutHooks(h LayoutHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		layoutHooks = h
	}
}

// SetStorageHooks registers custom storage hooks.
// This should be called once at application startup before any store is opened.
func SetStorageHooks(h StorageHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storageHooks = h
	}
}

// Editor returns the registered editor hooks.
func Editor() EditorHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return editorHooks
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return layoutHooks
}

// Storage returns the registered storage hooks.
func Storage() StorageHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storageHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	editorHooks = NoopEditorHooks{}
	layoutHooks = NoopLayoutHooks{}
	storageHooks = NoopStorageHooks{}
}
