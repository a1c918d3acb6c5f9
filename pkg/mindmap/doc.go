// Package mindmap provides the node and tree model of a single mind map.
//
// A [Map] owns a set of [Node] values linked by parent ids. The parent owns
// the ordered list of its children ids and every child keeps a non-owning
// back-reference to its parent id. All structural changes go through the
// Map so that, after every operation:
//
//   - following ParentID links never cycles and ends at a root
//   - child.ParentID == p.ID if and only if p.Children contains child.ID
//   - ids are unique and never reused within the lifetime of the Map
//   - Children keeps insertion order, which is also left-to-right layout order
//
// # Creating Maps
//
//	m := mindmap.New("ideas")
//	root, _ := m.Create("Idea", "")
//	sub, _ := m.Create("Sub1", root.ID)
//
// The empty string stands for "no parent". The on-disk format uses the
// string "null" for this; see package registry.
//
// # Deleting
//
// [Map.DeleteSubtree] removes a node and every descendant in one step. It
// walks the in-memory tree with an explicit stack and never depends on any
// rendering state.
//
// # Identifiers
//
// Ids come from an [IDGenerator]. The default [Sequential] generator
// produces "node-0", "node-1", ... which matches maps written by earlier
// versions of the editor. [UUIDs] produces random UUIDs instead.
//
// # Concurrency
//
// A Map is not safe for concurrent use. The editor runs one handler at a
// time and owns the Map exclusively.
package mindmap
