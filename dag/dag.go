// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package dag implements a directed acyclic graph
// of model nodes.
//
// Each node holds a value,
// and a saved value used to restore the node
// after a rejected proposal.
// Nodes are identified by a NodeID,
// which is an index into the graph
// (IDs are never reused in a graph).
// A node can be a constant,
// a stochastic node
// (a value drawn from a distribution
// whose parameters are the parent values),
// or a deterministic node
// (a function of the parent values).
//
// A graph is not safe for concurrent use.
package dag

import (
	"fmt"
	"math"
	"slices"

	"github.com/js-arias/revdag/value"
	"golang.org/x/exp/rand"
)

// NodeID is the identifier of a node in a graph.
type NodeID int

// None is an invalid node ID.
const None NodeID = -1

// Kind is the kind of a node.
type Kind int

// Valid node kinds.
const (
	Constant Kind = iota
	Stochastic
	Deterministic
)

func (k Kind) String() string {
	switch k {
	case Constant:
		return "constant"
	case Stochastic:
		return "stochastic"
	case Deterministic:
		return "deterministic"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// A Function is a deterministic function
// of the parent values of a node.
type Function interface {
	// Name of the function.
	Name() string

	// Eval returns the value of the function
	// for the given arguments.
	Eval(args []value.Value) (value.Value, error)
}

// A Distribution is a probability distribution
// of a stochastic node.
// The parameters of the distribution
// are the parent values of the node.
type Distribution interface {
	// Name of the distribution.
	Name() string

	// LogProb returns the log density of x.
	LogProb(x value.Value, params []value.Value) (float64, error)

	// Rand draws a value from the distribution.
	Rand(src rand.Source, params []value.Value) (value.Value, error)
}

type node struct {
	id   NodeID
	name string
	kind Kind

	value value.Value
	saved value.Value

	// touched is true if the value was changed
	// since the last store.
	touched bool

	// dirty is true if the node depends
	// on a changed node.
	dirty bool

	clamped bool

	parents  []NodeID
	children []NodeID // sorted by ID

	fn   Function
	dist Distribution
}

// A Graph is a directed acyclic graph of model nodes.
type Graph struct {
	nodes []*node
}

// New creates a new empty graph.
func New() *Graph {
	return &Graph{}
}

// Add adds a constant node with the given value.
// The name is a label,
// and can be empty.
func (g *Graph) Add(name string, v value.Value) NodeID {
	n := &node{
		id:    NodeID(len(g.nodes)),
		name:  name,
		kind:  Constant,
		value: v,
		saved: v,
	}
	g.nodes = append(g.nodes, n)
	return n.id
}

// AddStochastic adds a stochastic node
// with the given distribution and parents.
// If v is null,
// the initial value will be drawn from the distribution
// using src.
func (g *Graph) AddStochastic(name string, d Distribution, v value.Value, src rand.Source, parents ...NodeID) (NodeID, error) {
	for _, p := range parents {
		if !g.Contains(p) {
			return None, unknown(p)
		}
	}
	params := g.values(parents)

	if v.IsNull() {
		if src == nil {
			return None, fmt.Errorf("node %q: undefined value and random source", name)
		}
		var err error
		v, err = d.Rand(src, params)
		if err != nil {
			return None, fmt.Errorf("node %q: %s: %w", name, d.Name(), err)
		}
	}
	if err := checkLogProb(d, v, params); err != nil {
		return None, fmt.Errorf("node %q: %w", name, err)
	}

	id := g.Add(name, v)
	n := g.nodes[id]
	n.kind = Stochastic
	n.dist = d
	g.link(n, parents)
	return id, nil
}

// AddDeterministic adds a deterministic node
// with the given function and parents.
// The value of the node is calculated immediately.
func (g *Graph) AddDeterministic(name string, f Function, parents ...NodeID) (NodeID, error) {
	for _, p := range parents {
		if !g.Contains(p) {
			return None, unknown(p)
		}
	}
	v, err := f.Eval(g.values(parents))
	if err != nil {
		return None, fmt.Errorf("node %q: %s: %w", name, f.Name(), err)
	}

	id := g.Add(name, v)
	n := g.nodes[id]
	n.kind = Deterministic
	n.fn = f
	g.link(n, parents)
	return id, nil
}

func (g *Graph) link(n *node, parents []NodeID) {
	for _, p := range parents {
		if slices.Contains(n.parents, p) {
			continue
		}
		n.parents = append(n.parents, p)
		g.nodes[p].addChild(n.id)
	}
}

func (n *node) addChild(id NodeID) {
	i, ok := slices.BinarySearch(n.children, id)
	if ok {
		return
	}
	n.children = slices.Insert(n.children, i, id)
}

func (n *node) removeChild(id NodeID) {
	i, ok := slices.BinarySearch(n.children, id)
	if !ok {
		return
	}
	n.children = slices.Delete(n.children, i, i+1)
}

// AddDependency records that the value of child
// depends on the value of parent.
// It returns a CycleError
// if the dependency would create a cycle.
// The graph is not modified on error.
func (g *Graph) AddDependency(child, parent NodeID) error {
	c, err := g.node(child)
	if err != nil {
		return err
	}
	if _, err := g.node(parent); err != nil {
		return err
	}

	if path := g.path(child, parent); path != nil {
		names := make([]string, 0, len(path)+1)
		for _, id := range path {
			names = append(names, g.label(id))
		}
		names = append(names, g.label(child))
		return &CycleError{
			Child:  child,
			Parent: parent,
			Path:   names,
		}
	}
	if slices.Contains(c.parents, parent) {
		return nil
	}

	g.link(c, []NodeID{parent})
	g.markDirty(child)
	return nil
}

// Path returns a path of children links
// from the node from
// to the node to
// (both included).
// It returns nil if there is no path.
func (g *Graph) path(from, to NodeID) []NodeID {
	visited := make(map[NodeID]bool)
	var walk func(id NodeID) []NodeID
	walk = func(id NodeID) []NodeID {
		if id == to {
			return []NodeID{id}
		}
		if visited[id] {
			return nil
		}
		visited[id] = true
		for _, c := range g.nodes[id].children {
			if p := walk(c); p != nil {
				return append([]NodeID{id}, p...)
			}
		}
		return nil
	}
	return walk(from)
}

// Remove removes a node from the graph.
// Only nodes without children can be removed.
func (g *Graph) Remove(id NodeID) error {
	n, err := g.node(id)
	if err != nil {
		return err
	}
	if len(n.children) > 0 {
		return fmt.Errorf("node %q: %w", g.label(id), ErrHasChildren)
	}
	for _, p := range n.parents {
		g.nodes[p].removeChild(id)
	}
	g.nodes[id] = nil
	return nil
}

// Clear removes all the nodes of the graph.
func (g *Graph) Clear() {
	g.nodes = nil
}

// Contains returns true if the node is defined in the graph.
func (g *Graph) Contains(id NodeID) bool {
	if id < 0 || int(id) >= len(g.nodes) {
		return false
	}
	return g.nodes[id] != nil
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int {
	var l int
	for _, n := range g.nodes {
		if n != nil {
			l++
		}
	}
	return l
}

// Nodes returns the IDs of the nodes in the graph
// in registration order.
func (g *Graph) Nodes() []NodeID {
	ids := make([]NodeID, 0, len(g.nodes))
	for _, n := range g.nodes {
		if n == nil {
			continue
		}
		ids = append(ids, n.id)
	}
	return ids
}

// Name returns the name of a node.
func (g *Graph) Name(id NodeID) string {
	if !g.Contains(id) {
		return ""
	}
	return g.nodes[id].name
}

// Kind returns the kind of a node.
func (g *Graph) Kind(id NodeID) Kind {
	if !g.Contains(id) {
		return Constant
	}
	return g.nodes[id].kind
}

// Value returns the current value of a node.
func (g *Graph) Value(id NodeID) value.Value {
	if !g.Contains(id) {
		return value.Value{}
	}
	return g.nodes[id].value
}

// Saved returns the saved value of a node.
func (g *Graph) Saved(id NodeID) value.Value {
	if !g.Contains(id) {
		return value.Value{}
	}
	return g.nodes[id].saved
}

// Parents returns the parents of a node
// in the order they were added.
func (g *Graph) Parents(id NodeID) []NodeID {
	if !g.Contains(id) {
		return nil
	}
	return slices.Clone(g.nodes[id].parents)
}

// Children returns the children of a node.
func (g *Graph) Children(id NodeID) []NodeID {
	if !g.Contains(id) {
		return nil
	}
	return slices.Clone(g.nodes[id].children)
}

// IsDirty returns true if the node
// depends on a changed node
// that has not been updated.
func (g *Graph) IsDirty(id NodeID) bool {
	if !g.Contains(id) {
		return false
	}
	return g.nodes[id].dirty
}

// IsTouched returns true if the value of the node
// changed since the last store.
func (g *Graph) IsTouched(id NodeID) bool {
	if !g.Contains(id) {
		return false
	}
	return g.nodes[id].touched
}

// IsClamped returns true if the node is clamped
// to an observed value.
func (g *Graph) IsClamped(id NodeID) bool {
	if !g.Contains(id) {
		return false
	}
	return g.nodes[id].clamped
}

// Clamp fixes the value of a stochastic node
// to an observed value.
// Use a null value to unclamp the node.
func (g *Graph) Clamp(id NodeID, v value.Value) error {
	n, err := g.node(id)
	if err != nil {
		return err
	}
	if n.kind != Stochastic {
		return fmt.Errorf("node %q: %w: only stochastic nodes can be clamped", g.label(id), ErrNotSettable)
	}
	if v.IsNull() {
		n.clamped = false
		return nil
	}
	if err := checkLogProb(n.dist, v, g.values(n.parents)); err != nil {
		return fmt.Errorf("node %q: %w", g.label(id), err)
	}
	n.clamped = false
	if err := g.SetValue(id, v); err != nil {
		return err
	}
	n.clamped = true
	return g.Store(id)
}

// Function returns the function of a deterministic node.
func (g *Graph) Function(id NodeID) Function {
	if !g.Contains(id) {
		return nil
	}
	return g.nodes[id].fn
}

// Distribution returns the distribution of a stochastic node.
func (g *Graph) Distribution(id NodeID) Distribution {
	if !g.Contains(id) {
		return nil
	}
	return g.nodes[id].dist
}

// LnProb returns the log probability
// of the current value of a stochastic node.
// For other nodes it returns 0.
func (g *Graph) LnProb(id NodeID) (float64, error) {
	n, err := g.node(id)
	if err != nil {
		return 0, err
	}
	if n.kind != Stochastic {
		return 0, nil
	}
	lp, err := n.dist.LogProb(n.value, g.values(n.parents))
	if err != nil {
		return 0, fmt.Errorf("node %q: %s: %w", g.label(id), n.dist.Name(), err)
	}
	return lp, nil
}

// Redraw draws a new value for a stochastic node.
// The node is touched,
// so the previous value can be restored.
func (g *Graph) Redraw(id NodeID, src rand.Source) error {
	n, err := g.node(id)
	if err != nil {
		return err
	}
	if n.kind != Stochastic || n.clamped {
		return fmt.Errorf("node %q: %w", g.label(id), ErrNotSettable)
	}
	v, err := n.dist.Rand(src, g.values(n.parents))
	if err != nil {
		return fmt.Errorf("node %q: %s: %w", g.label(id), n.dist.Name(), err)
	}
	return g.SetValue(id, v)
}

func (g *Graph) node(id NodeID) (*node, error) {
	if !g.Contains(id) {
		return nil, unknown(id)
	}
	return g.nodes[id], nil
}

func (g *Graph) values(ids []NodeID) []value.Value {
	vs := make([]value.Value, len(ids))
	for i, id := range ids {
		vs[i] = g.nodes[id].value
	}
	return vs
}

// Label returns a printable name of the node.
func (g *Graph) label(id NodeID) string {
	if name := g.Name(id); name != "" {
		return name
	}
	return fmt.Sprintf("<%d>", id)
}

func checkLogProb(d Distribution, v value.Value, params []value.Value) error {
	lp, err := d.LogProb(v, params)
	if err != nil {
		return fmt.Errorf("%s: %w", d.Name(), err)
	}
	if math.IsNaN(lp) || math.IsInf(lp, -1) {
		return fmt.Errorf("%w: %s: value %v out of the distribution support", value.ErrInvalid, d.Name(), v)
	}
	return nil
}
