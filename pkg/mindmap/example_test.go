package mindmap_test

import (
	"fmt"

	"github.com/matzehuels/mindmap/pkg/mindmap"
)

func ExampleMap_DeleteSubtree() {
	m := mindmap.New("ideas")
	root, _ := m.Create("Idea", "")
	sub1, _ := m.Create("Sub1", root.ID)
	_, _ = m.Create("Sub2", root.ID)

	m.DeleteSubtree(sub1.ID)

	for _, n := range m.Nodes() {
		fmt.Println(n.ID, n.Text, n.Children)
	}
	// Output:
	// node-0 Idea [node-2]
	// node-2 Sub2 []
}

func ExampleBootstrap() {
	m := mindmap.Bootstrap("My first map")
	roots := m.Roots()
	fmt.Println(len(roots), roots[0].Text)
	// Output: 1 main idea
}
