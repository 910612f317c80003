// Package forest links image records into parent/child trees.
//
// Nodes live in an arena indexed by position; a node's Parent is either the
// index of a locally present parent or NoParent. A record whose ParentID is
// not present is therefore a root, the same as a base image.
package forest

import (
	"github.com/onkernel/imagetree/lib/images"
)

// NoParent marks a node whose parent is not present in the forest.
const NoParent = -1

// Node is one image in the forest.
type Node struct {
	Record   images.Record
	Parent   int
	Children []int
}

// Forest is an immutable set of disjoint image trees.
type Forest struct {
	nodes  []Node
	index  map[string]int
	roots  []int
	marked map[string]struct{}
}

// Build links records into a forest. Roots and children keep the order of
// records. Repeated ids after the first are ignored.
func Build(records []images.Record) *Forest {
	f := &Forest{
		nodes:  make([]Node, 0, len(records)),
		index:  make(map[string]int, len(records)),
		marked: make(map[string]struct{}),
	}

	for _, rec := range records {
		if _, dup := f.index[rec.ID]; dup {
			continue
		}
		f.index[rec.ID] = len(f.nodes)
		f.nodes = append(f.nodes, Node{Record: rec, Parent: NoParent})
	}

	for i := range f.nodes {
		p, ok := f.index[f.nodes[i].Record.ParentID]
		if !ok || p == i {
			f.roots = append(f.roots, i)
			continue
		}
		f.nodes[i].Parent = p
		f.nodes[p].Children = append(f.nodes[p].Children, i)
	}

	f.breakCycles()
	return f
}

// breakCycles detaches one node of every parent cycle and makes it a root, so
// that all nodes are reachable and walks terminate.
func (f *Forest) breakCycles() {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make([]int, len(f.nodes))

	for i := range f.nodes {
		var chain []int
		n := i
		for n != NoParent && state[n] == unvisited {
			state[n] = visiting
			chain = append(chain, n)
			n = f.nodes[n].Parent
		}
		if n != NoParent && state[n] == visiting {
			f.detach(n)
		}
		for _, c := range chain {
			state[c] = done
		}
	}
}

func (f *Forest) detach(i int) {
	p := f.nodes[i].Parent
	children := f.nodes[p].Children
	for k, c := range children {
		if c == i {
			f.nodes[p].Children = append(children[:k:k], children[k+1:]...)
			break
		}
	}
	f.nodes[i].Parent = NoParent
	f.roots = append(f.roots, i)
}

// Len returns the number of nodes.
func (f *Forest) Len() int {
	return len(f.nodes)
}

// Roots returns the root indexes in record order.
func (f *Forest) Roots() []int {
	return f.roots
}

// Node returns the node at index i.
func (f *Forest) Node(i int) Node {
	return f.nodes[i]
}

// Record returns the record of node i.
func (f *Forest) Record(i int) images.Record {
	return f.nodes[i].Record
}

// Lookup returns the index of the node with the given id.
func (f *Forest) Lookup(id string) (int, bool) {
	i, ok := f.index[id]
	return i, ok
}

func (f *Forest) Parent(i int) int {
	return f.nodes[i].Parent
}

func (f *Forest) Children(i int) []int {
	return f.nodes[i].Children
}

func (f *Forest) IsRoot(i int) bool {
	return f.nodes[i].Parent == NoParent
}

func (f *Forest) IsLeaf(i int) bool {
	return len(f.nodes[i].Children) == 0
}

// Ancestors returns the ancestors of i from its root down to its parent.
func (f *Forest) Ancestors(i int) []int {
	var up []int
	for p := f.nodes[i].Parent; p != NoParent; p = f.nodes[p].Parent {
		up = append(up, p)
	}
	for l, r := 0, len(up)-1; l < r; l, r = l+1, r-1 {
		up[l], up[r] = up[r], up[l]
	}
	return up
}

// Descendants returns every node below i in depth-first pre-order.
func (f *Forest) Descendants(i int) []int {
	var out []int
	f.walk(f.nodes[i].Children, func(n int) { out = append(out, n) })
	return out
}

// walk visits nodes and their subtrees in pre-order.
func (f *Forest) walk(nodes []int, visit func(int)) {
	for _, n := range nodes {
		visit(n)
		f.walk(f.nodes[n].Children, visit)
	}
}

// Records returns all records in node order.
func (f *Forest) Records() []images.Record {
	out := make([]images.Record, len(f.nodes))
	for i, n := range f.nodes {
		out[i] = n.Record
	}
	return out
}

// Marked reports whether node i was matched by a name filter.
func (f *Forest) Marked(i int) bool {
	_, ok := f.marked[f.nodes[i].Record.ID]
	return ok
}

// MarkedCount returns the number of nodes matched by a name filter.
func (f *Forest) MarkedCount() int {
	return len(f.marked)
}

// MarkedNodes returns the indexes of matched nodes in node order.
func (f *Forest) MarkedNodes() []int {
	var out []int
	for i := range f.nodes {
		if f.Marked(i) {
			out = append(out, i)
		}
	}
	return out
}
