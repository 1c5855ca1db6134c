// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package dag

import (
	"container/heap"
	"fmt"
	"slices"

	"github.com/js-arias/revdag/value"
)

// SetValue replaces the value of a constant
// or stochastic node.
// The previous value is saved
// (discarding any previously saved value)
// and all the descendants of the node are marked as dirty.
func (g *Graph) SetValue(id NodeID, v value.Value) error {
	n, err := g.node(id)
	if err != nil {
		return err
	}
	if n.kind == Deterministic {
		return fmt.Errorf("node %q: %w: deterministic node", g.label(id), ErrNotSettable)
	}
	if n.clamped {
		return fmt.Errorf("node %q: %w: clamped node", g.label(id), ErrNotSettable)
	}

	n.saved = n.value
	n.value = v
	n.touched = true
	g.markDirty(id)
	return nil
}

// MarkDirty marks all the descendants of a node as dirty.
func (g *Graph) markDirty(id NodeID) {
	for c := range g.descendants(id) {
		g.nodes[c].dirty = true
	}
	if g.nodes[id].kind == Deterministic {
		g.nodes[id].dirty = true
	}
}

// Descendants returns all the descendants of a node.
func (g *Graph) descendants(id NodeID) map[NodeID]bool {
	desc := make(map[NodeID]bool)
	stack := slices.Clone(g.nodes[id].children)
	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if desc[c] {
			continue
		}
		desc[c] = true
		stack = append(stack, g.nodes[c].children...)
	}
	return desc
}

// Update evaluates the dirty descendants of a node,
// in dependency order
// (a parent is always evaluated before its children,
// ties are broken by registration order).
// Dirty ancestors of the evaluated nodes
// are evaluated first.
//
// If the evaluation of a node fails,
// the evaluation stops,
// and the already evaluated nodes keep their saved values,
// so they can be restored.
func (g *Graph) Update(id NodeID) error {
	if _, err := g.node(id); err != nil {
		return err
	}

	set := g.descendants(id)
	if g.nodes[id].dirty {
		set[id] = true
	}
	for c := range set {
		if !g.nodes[c].dirty {
			delete(set, c)
		}
	}
	g.addDirtyAncestors(set)

	for _, c := range g.sorted(set) {
		n := g.nodes[c]
		if n.kind != Deterministic {
			n.dirty = false
			continue
		}
		v, err := n.fn.Eval(g.values(n.parents))
		if err != nil {
			return fmt.Errorf("node %q: %s: %w", g.label(c), n.fn.Name(), err)
		}
		n.saved = n.value
		n.value = v
		n.touched = true
		n.dirty = false
	}
	return nil
}

// AddDirtyAncestors adds to the set
// the dirty ancestors of the nodes in the set.
func (g *Graph) addDirtyAncestors(set map[NodeID]bool) {
	stack := make([]NodeID, 0, len(set))
	for id := range set {
		stack = append(stack, id)
	}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, p := range g.nodes[id].parents {
			if set[p] || !g.nodes[p].dirty {
				continue
			}
			set[p] = true
			stack = append(stack, p)
		}
	}
}

// Store commits the current value of a node
// and its descendants
// as the new saved values.
// Dirty descendants are evaluated before the commit.
func (g *Graph) Store(id NodeID) error {
	if err := g.Update(id); err != nil {
		return err
	}
	g.commit(id)
	for c := range g.descendants(id) {
		g.commit(c)
	}
	return nil
}

func (g *Graph) commit(id NodeID) {
	n := g.nodes[id]
	n.saved = n.value
	n.touched = false
	n.dirty = false
}

// Restore reverts the value of a node
// and its descendants
// to the saved values,
// and clears the dirty state of the descendants.
// A descendant with a parent
// that is still dirty
// is kept dirty.
func (g *Graph) Restore(id NodeID) error {
	if _, err := g.node(id); err != nil {
		return err
	}
	g.revert(id)
	desc := g.descendants(id)
	for c := range desc {
		g.revert(c)
	}
	for _, c := range g.sorted(desc) {
		n := g.nodes[c]
		for _, p := range n.parents {
			if g.nodes[p].dirty {
				n.dirty = true
				break
			}
		}
	}
	return nil
}

func (g *Graph) revert(id NodeID) {
	n := g.nodes[id]
	if n.touched {
		n.value = n.saved
	}
	n.touched = false
	n.dirty = false
}

// Affected returns the stochastic nodes
// whose probability changes
// when the value of the given node changes.
// If the node is stochastic it is included.
func (g *Graph) Affected(id NodeID) []NodeID {
	if !g.Contains(id) {
		return nil
	}

	seen := make(map[NodeID]bool)
	var aff []NodeID
	var walk func(id NodeID)
	walk = func(id NodeID) {
		if seen[id] {
			return
		}
		seen[id] = true
		n := g.nodes[id]
		if n.kind == Stochastic {
			aff = append(aff, id)
			return
		}
		for _, c := range n.children {
			walk(c)
		}
	}

	if g.nodes[id].kind == Stochastic {
		aff = append(aff, id)
		seen[id] = true
	}
	for _, c := range g.nodes[id].children {
		walk(c)
	}
	slices.Sort(aff)
	return aff
}

// Sorted returns all the nodes of the graph
// in dependency order,
// with ties broken by registration order.
func (g *Graph) Sorted() []NodeID {
	set := make(map[NodeID]bool, len(g.nodes))
	for _, n := range g.nodes {
		if n == nil {
			continue
		}
		set[n.id] = true
	}
	return g.sorted(set)
}

// Sorted returns the nodes of a set
// in dependency order
// using Kahn's algorithm.
// The ready queue is a min-heap by node ID.
func (g *Graph) sorted(set map[NodeID]bool) []NodeID {
	indeg := make(map[NodeID]int, len(set))
	ready := &idHeap{}
	for id := range set {
		var d int
		for _, p := range g.nodes[id].parents {
			if set[p] {
				d++
			}
		}
		indeg[id] = d
		if d == 0 {
			heap.Push(ready, id)
		}
	}

	order := make([]NodeID, 0, len(set))
	for ready.Len() > 0 {
		id := heap.Pop(ready).(NodeID)
		order = append(order, id)
		for _, c := range g.nodes[id].children {
			if !set[c] {
				continue
			}
			indeg[c]--
			if indeg[c] == 0 {
				heap.Push(ready, c)
			}
		}
	}
	return order
}

type idHeap []NodeID

func (h idHeap) Len() int           { return len(h) }
func (h idHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h idHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *idHeap) Push(x any)        { *h = append(*h, x.(NodeID)) }
func (h *idHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
