// Package pkg provides the core libraries of the mindmap editor.
//
// # Overview
//
// A mind map is a forest of short text nodes. Every node may carry a
// top-left position; connectors are drawn from the centre of a parent box
// to the centre of each child box. The pkg directory is organized into
// four areas:
//
//  1. Model - [mindmap] holds the tree store of one named map.
//  2. Geometry - [layout] places nodes, [edges] builds connectors and
//     [drag] moves a node under the pointer.
//  3. Persistence - [registry] keeps all named maps in one JSON document
//     inside a [storage] backend.
//  4. Orchestration - [session] ties the above together for every
//     frontend (CLI, terminal editor, HTTP API).
//
// # Architecture
//
// The data flow of one edit:
//
//	frontend (cli / tui / api)
//	         ↓
//	    [session] operation (add, rename, delete, drag, switch map)
//	         ↓
//	    [mindmap] mutation → [layout] arrange → [edges] rebuild
//	         ↓
//	    [registry] encode → [storage] write
//
// # Quick Start
//
//	store := storage.NewMemoryStore()
//	mgr := registry.New(store, registry.Options{})
//	s, _ := session.New(ctx, mgr, session.Options{Mode: layout.ModeFreeform})
//
//	root := s.Map().Roots()[0]
//	child, _ := s.AddChild(ctx, root.ID, "first idea")
//	_, _ = s.MoveNode(ctx, child.ID, 300, 120)
//
//	for _, c := range s.Connectors() {
//	    fmt.Println(c.ParentID, "→", c.ChildID, c.From, c.To)
//	}
//
// # Main Packages
//
// [mindmap] - The tree store. Ids come from a pluggable generator
// (sequential or uuid); deleting a node removes its whole subtree. [Restore]
// rebuilds a map from stored records and repairs broken links.
//
// [layout] - Two engines behind one interface: freeform (stored positions,
// new nodes placed next to their parent) and hierarchical (computed levels,
// nothing stored).
//
// [edges] - Connector geometry and incremental updates while dragging.
//
// [drag] - The press / move / release state machine with clamping into the
// container.
//
// [registry] - Named maps in the legacy single-document JSON format, with
// corruption recovery.
//
// [storage] - Key/value backends: memory, file, SQLite, Redis and MongoDB.
//
// [config] - TOML configuration for all of the above.
//
// [observability] - Hooks for editor operations, layout and storage I/O.
//
// [errors] - Coded errors shared by every layer.
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test -tags integration ./pkg/...  # Include Redis and MongoDB tests
//
// [mindmap]: https://pkg.go.dev/github.com/matzehuels/mindmap/pkg/mindmap
// [Restore]: https://pkg.go.dev/github.com/matzehuels/mindmap/pkg/mindmap#Restore
// [layout]: https://pkg.go.dev/github.com/matzehuels/mindmap/pkg/layout
// [edges]: https://pkg.go.dev/github.com/matzehuels/mindmap/pkg/edges
// [drag]: https://pkg.go.dev/github.com/matzehuels/mindmap/pkg/drag
// [registry]: https://pkg.go.dev/github.com/matzehuels/mindmap/pkg/registry
// [storage]: https://pkg.go.dev/github.com/matzehuels/mindmap/pkg/storage
// [session]: https://pkg.go.dev/github.com/matzehuels/mindmap/pkg/session
// [config]: https://pkg.go.dev/github.com/matzehuels/mindmap/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/mindmap/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/mindmap/pkg/errors
package pkg
