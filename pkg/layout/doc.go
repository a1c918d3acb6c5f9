// Package layout computes the on-screen position of every node of a mind map.
//
// # Strategies
//
// Two strategies implement [Engine]:
//
//   - [Freeform] (default): positions are state stored on each node. They are
//     assigned once when a node is created and afterwards change only through
//     dragging. Arrange is a pass-through.
//
//   - [Hierarchical]: positions are derived from the tree shape and the node
//     sizes, recomputed in full on every call and never stored.
//
// Select one with [New]:
//
//	eng, err := layout.New(layout.ModeHierarchical, layout.Options{
//	    Container: layout.Container{Width: 1200, Height: 800},
//	}, layout.PixelSizer())
//	positions := eng.Arrange(m)
//
// # Placement
//
// In freeform mode a new root lands on a pseudo-random point inside the
// container, leaving room for its own size. A new child lands directly below
// its parent at parent.Y + parentHeight + ChildGap.
//
// # Hierarchical algorithm
//
// Levels are assigned breadth-first from each root (root = 0). Level L sits
// at y = BaseOffset + L*LevelSpacing. Every root is centred horizontally in
// its own equal-width slot of the container. The children of a parent form a
// block starting at parentCenter - total/2, where total is the sum over the
// children of (width + SiblingGap); each child's x is the running offset.
// The result is a pure function of tree shape and node sizes.
//
// # Sizes
//
// Rendered sizes belong to the presentation layer and are supplied through a
// [Sizer]. [TextSizer] measures labels by terminal cell width, so wide runes
// count double; [PixelSizer] and [CellSizer] are presets for a pixel canvas
// and a terminal canvas.
package layout
