// Package outline holds the ordered, nested outline that users edit. The
// tree is the source of truth for document structure; the engine reconciles
// the entity store against it after every structural edit.
package outline

import (
	"errors"
	"fmt"
	"slices"

	"github.com/rogersnm/plotline/internal/id"
)

var (
	ErrNodeNotFound  = errors.New("node not found")
	ErrDuplicateNode = errors.New("node already in outline")
	ErrInvalidParent = errors.New("invalid parent")
	ErrCycle         = errors.New("cannot move a node below itself")
	ErrRootNode      = errors.New("root branches cannot be changed")
)

const noParent = -1

type node struct {
	id       id.ID
	parent   int
	children []int
}

// Tree is an arena of nodes addressed by index. Removed nodes stay in the
// arena but are unreachable.
type Tree struct {
	nodes []node
	index map[id.ID]int
	roots []int
}

// New returns a tree holding only the fixed root branches.
func New() *Tree {
	t := &Tree{index: make(map[id.ID]int)}
	for _, r := range id.Roots() {
		t.roots = append(t.roots, t.alloc(r, noParent))
	}
	return t
}

func (t *Tree) alloc(x id.ID, parent int) int {
	t.nodes = append(t.nodes, node{id: x, parent: parent})
	n := len(t.nodes) - 1
	t.index[x] = n
	return n
}

// Roots returns the root branches in traversal order.
func (t *Tree) Roots() []id.ID {
	out := make([]id.ID, len(t.roots))
	for i, n := range t.roots {
		out[i] = t.nodes[n].id
	}
	return out
}

func (t *Tree) Contains(x id.ID) bool {
	_, ok := t.index[x]
	return ok
}

// Len returns the number of non-root nodes.
func (t *Tree) Len() int {
	return len(t.index) - len(t.roots)
}

// Children returns the ordered children of x, or nil if x is unknown.
func (t *Tree) Children(x id.ID) []id.ID {
	n, ok := t.index[x]
	if !ok {
		return nil
	}
	out := make([]id.ID, len(t.nodes[n].children))
	for i, c := range t.nodes[n].children {
		out[i] = t.nodes[c].id
	}
	return out
}

// Parent returns the parent of x. Roots and unknown nodes have none.
func (t *Tree) Parent(x id.ID) (id.ID, bool) {
	n, ok := t.index[x]
	if !ok || t.nodes[n].parent == noParent {
		return id.ID{}, false
	}
	return t.nodes[t.nodes[n].parent].id, true
}

// Position returns the index of x among its siblings, or -1.
func (t *Tree) Position(x id.ID) int {
	n, ok := t.index[x]
	if !ok || t.nodes[n].parent == noParent {
		return -1
	}
	return slices.Index(t.nodes[t.nodes[n].parent].children, n)
}

// Branch returns the root branch that contains x.
func (t *Tree) Branch(x id.ID) (id.ID, bool) {
	n, ok := t.index[x]
	if !ok {
		return id.ID{}, false
	}
	for t.nodes[n].parent != noParent {
		n = t.nodes[n].parent
	}
	return t.nodes[n].id, true
}

// Insert adds x as a child of parent at index. A negative or oversized index
// appends.
func (t *Tree) Insert(parent id.ID, index int, x id.ID) error {
	if t.Contains(x) {
		return fmt.Errorf("inserting %s: %w", x, ErrDuplicateNode)
	}
	p, ok := t.index[parent]
	if !ok {
		return fmt.Errorf("inserting %s under %s: %w", x, parent, ErrNodeNotFound)
	}
	if !CanHold(parent, x) {
		return fmt.Errorf("inserting %s under %s: %w", x, parent, ErrInvalidParent)
	}
	n := t.alloc(x, p)
	t.attach(p, n, index)
	return nil
}

// Move re-parents x under newParent at newIndex. The index is taken against
// the sibling list after x has been detached.
func (t *Tree) Move(x, newParent id.ID, newIndex int) error {
	n, ok := t.index[x]
	if !ok {
		return fmt.Errorf("moving %s: %w", x, ErrNodeNotFound)
	}
	if x.Kind == id.Root {
		return fmt.Errorf("moving %s: %w", x, ErrRootNode)
	}
	p, ok := t.index[newParent]
	if !ok {
		return fmt.Errorf("moving %s under %s: %w", x, newParent, ErrNodeNotFound)
	}
	if !CanHold(newParent, x) {
		return fmt.Errorf("moving %s under %s: %w", x, newParent, ErrInvalidParent)
	}
	for cur := p; cur != noParent; cur = t.nodes[cur].parent {
		if cur == n {
			return fmt.Errorf("moving %s under %s: %w", x, newParent, ErrCycle)
		}
	}
	t.detach(n)
	t.nodes[n].parent = p
	t.attach(p, n, newIndex)
	return nil
}

// Delete removes x and its whole subtree. It returns the removed ids in
// pre-order.
func (t *Tree) Delete(x id.ID) ([]id.ID, error) {
	n, ok := t.index[x]
	if !ok {
		return nil, fmt.Errorf("deleting %s: %w", x, ErrNodeNotFound)
	}
	if x.Kind == id.Root {
		return nil, fmt.Errorf("deleting %s: %w", x, ErrRootNode)
	}
	removed := t.Subtree(x)
	t.detach(n)
	for _, r := range removed {
		delete(t.index, r)
	}
	return removed, nil
}

// Rekey gives node old the new id in place, keeping its position and
// children. Used to switch a chapter node between part and chapter level.
func (t *Tree) Rekey(old, newID id.ID) error {
	n, ok := t.index[old]
	if !ok {
		return fmt.Errorf("rekeying %s: %w", old, ErrNodeNotFound)
	}
	if old.Kind == id.Root {
		return fmt.Errorf("rekeying %s: %w", old, ErrRootNode)
	}
	if t.Contains(newID) {
		return fmt.Errorf("rekeying %s to %s: %w", old, newID, ErrDuplicateNode)
	}
	if p := t.nodes[n].parent; !CanHold(t.nodes[p].id, newID) {
		return fmt.Errorf("rekeying %s to %s: %w", old, newID, ErrInvalidParent)
	}
	for _, c := range t.nodes[n].children {
		if !CanHold(newID, t.nodes[c].id) {
			return fmt.Errorf("rekeying %s to %s: child %s: %w", old, newID, t.nodes[c].id, ErrInvalidParent)
		}
	}
	delete(t.index, old)
	t.nodes[n].id = newID
	t.index[newID] = n
	return nil
}

// Subtree returns x and all its descendants in pre-order.
func (t *Tree) Subtree(x id.ID) []id.ID {
	var out []id.ID
	t.Walk(x, func(v id.ID, _ int) bool {
		out = append(out, v)
		return true
	})
	return out
}

// Walk visits from and its descendants in pre-order. depth is 0 for from.
// Returning false from fn skips the children of the visited node.
func (t *Tree) Walk(from id.ID, fn func(x id.ID, depth int) bool) {
	start, ok := t.index[from]
	if !ok {
		return
	}
	type frame struct {
		n     int
		depth int
	}
	stack := []frame{{start, 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(t.nodes[f.n].id, f.depth) {
			continue
		}
		kids := t.nodes[f.n].children
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, frame{kids[i], f.depth + 1})
		}
	}
}

func (t *Tree) detach(n int) {
	p := t.nodes[n].parent
	if p == noParent {
		return
	}
	t.nodes[p].children = slices.DeleteFunc(t.nodes[p].children, func(c int) bool { return c == n })
	t.nodes[n].parent = noParent
}

func (t *Tree) attach(p, n, index int) {
	kids := t.nodes[p].children
	if index < 0 || index > len(kids) {
		index = len(kids)
	}
	t.nodes[p].children = slices.Insert(kids, index, n)
	t.nodes[n].parent = p
}

// CanHold reports whether a node of child's kind may sit directly under
// parent.
func CanHold(parent, child id.ID) bool {
	switch parent.Kind {
	case id.Root:
		switch parent {
		case id.Book, id.Research, id.Planning:
			return child.Kind == id.Part || child.Kind == id.Chapter
		case id.Characters:
			return child.Kind == id.Character
		case id.Locations:
			return child.Kind == id.Location
		case id.Items:
			return child.Kind == id.Item
		case id.Notes:
			return child.Kind == id.ProjectNote
		}
		return false
	case id.Part:
		return child.Kind == id.Chapter
	case id.Chapter:
		return child.Kind == id.Scene
	}
	return false
}
