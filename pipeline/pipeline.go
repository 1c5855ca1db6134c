// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package pipeline implements an execution graph
// for analysis tools.
//
// The graph is a rooted tree of nodes,
// each one wrapping a tool.
// The children of a node are its inputs,
// so they are always executed before the node.
// The execution order is a post-order traversal
// of the tree
// (the down-pass sequence),
// in which the root is the last executed node.
//
// Contiguous siblings can be grouped in a loop,
// that is executed a fixed number of times
// before the down-pass continues.
// Loops can be nested
// (i.e., a loop inside the subtree of a node of another loop),
// but a node can only be part of a single loop.
package pipeline

import (
	"context"
	"slices"
)

// A Tool is an executable unit of an analysis.
type Tool interface {
	// Name of the tool.
	Name() string

	// Execute runs the tool.
	Execute(ctx context.Context) error
}

// NodeID is the identifier of a node in a graph.
type NodeID int

// None is an invalid node ID.
const None NodeID = -1

type node struct {
	id   NodeID
	tool Tool

	parent   NodeID
	children []NodeID

	// loop is the index of the loop of the node
	// or -1.
	loop int

	// number of times the node was executed
	// in the current pass.
	runs int
}

type loop struct {
	id     int
	nodes  []NodeID // in sibling order
	repeat int

	// first and last positions
	// in the down-pass sequence
	lo, hi int
}

// A Graph is an execution graph.
// A Graph is not safe for concurrent use.
type Graph struct {
	nodes []*node
	loops []*loop

	// down-pass sequence
	seq   []NodeID
	pos   []int // position of each node in the sequence
	start []int // position of the first node of each subtree
	valid bool
}

// New creates a new empty graph.
func New() *Graph {
	return &Graph{}
}

// AddNode adds a new node that wraps a tool.
// The tool can be nil
// (e.g., a node used to group other nodes).
// The new node has no parent and no children.
func (g *Graph) AddNode(t Tool) NodeID {
	n := &node{
		id:     NodeID(len(g.nodes)),
		tool:   t,
		parent: None,
		loop:   -1,
	}
	g.nodes = append(g.nodes, n)
	g.valid = false
	return n.id
}

// AddChild adds a child to a node.
// The child is added after any other child of the node.
// A node can only have a single parent.
func (g *Graph) AddChild(parent, child NodeID) error {
	if !g.contains(parent) {
		return structErr("add child", parent, "unknown node")
	}
	if !g.contains(child) {
		return structErr("add child", child, "unknown node")
	}
	if parent == child {
		return structErr("add child", child, "node can not be its own child")
	}
	c := g.nodes[child]
	if c.parent == parent {
		return nil
	}
	if c.parent != None {
		return structErr("add child", child, "node already has parent %d", c.parent)
	}
	for a := parent; a != None; a = g.nodes[a].parent {
		if a == child {
			return structErr("add child", child, "node is an ancestor of %d", parent)
		}
	}

	c.parent = parent
	p := g.nodes[parent]
	p.children = append(p.children, child)
	g.valid = false
	return nil
}

// AddLoop groups a set of contiguous siblings
// in a loop
// that will be executed repeat times.
// It returns the ID of the loop.
func (g *Graph) AddLoop(nodes []NodeID, repeat int) (int, error) {
	if repeat < 1 {
		return -1, structErr("add loop", None, "invalid repeat value %d", repeat)
	}
	if len(nodes) == 0 {
		return -1, structErr("add loop", None, "empty loop")
	}
	for _, id := range nodes {
		if !g.contains(id) {
			return -1, structErr("add loop", id, "unknown node")
		}
		if l := g.nodes[id].loop; l >= 0 {
			return -1, structErr("add loop", id, "node already in loop %d", l)
		}
	}

	parent := g.nodes[nodes[0]].parent
	if parent == None {
		return -1, structErr("add loop", nodes[0], "loop nodes must have a parent")
	}
	siblings := g.nodes[parent].children
	idx := make([]int, 0, len(nodes))
	for _, id := range nodes {
		if g.nodes[id].parent != parent {
			return -1, structErr("add loop", id, "loop nodes must be siblings")
		}
		idx = append(idx, slices.Index(siblings, id))
	}
	slices.Sort(idx)
	idx = slices.Compact(idx)
	if len(idx) != len(nodes) {
		return -1, structErr("add loop", None, "repeated nodes")
	}
	for i := 1; i < len(idx); i++ {
		if idx[i] != idx[i-1]+1 {
			return -1, structErr("add loop", siblings[idx[i]], "loop nodes must be contiguous")
		}
	}

	l := &loop{
		id:     len(g.loops),
		repeat: repeat,
	}
	for _, i := range idx {
		l.nodes = append(l.nodes, siblings[i])
		g.nodes[siblings[i]].loop = l.id
	}
	g.loops = append(g.loops, l)
	g.valid = false
	return l.id, nil
}

func (g *Graph) contains(id NodeID) bool {
	return id >= 0 && int(id) < len(g.nodes)
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Root returns the root of the graph.
// It returns None if the graph is empty
// or has more than one parentless node.
func (g *Graph) Root() NodeID {
	root := None
	for _, n := range g.nodes {
		if n.parent != None {
			continue
		}
		if root != None {
			return None
		}
		root = n.id
	}
	return root
}

// Children returns the children of a node.
func (g *Graph) Children(id NodeID) []NodeID {
	if !g.contains(id) {
		return nil
	}
	return slices.Clone(g.nodes[id].children)
}

// Parent returns the parent of a node.
func (g *Graph) Parent(id NodeID) NodeID {
	if !g.contains(id) {
		return None
	}
	return g.nodes[id].parent
}

// Tool returns the tool of a node.
func (g *Graph) Tool(id NodeID) Tool {
	if !g.contains(id) {
		return nil
	}
	return g.nodes[id].tool
}

// LoopID returns the loop of a node.
// It returns -1 if the node is not in a loop.
func (g *Graph) LoopID(id NodeID) int {
	if !g.contains(id) {
		return -1
	}
	return g.nodes[id].loop
}

// Repeat returns the number of times
// the loop of the node is executed.
// If the node is not in a loop,
// it returns 1.
func (g *Graph) Repeat(id NodeID) int {
	l := g.LoopID(id)
	if l < 0 {
		return 1
	}
	return g.loops[l].repeat
}

// Loop returns the nodes
// and the repeat value
// of a loop.
func (g *Graph) Loop(id int) ([]NodeID, int) {
	if id < 0 || id >= len(g.loops) {
		return nil, 0
	}
	l := g.loops[id]
	return slices.Clone(l.nodes), l.repeat
}

// Executed returns the number of times
// a node was executed in the last pass.
func (g *Graph) Executed(id NodeID) int {
	if !g.contains(id) {
		return 0
	}
	return g.nodes[id].runs
}

// FindNodeWithTool returns the node
// that wraps the given tool.
// Tools are compared by identity,
// so they should be pointers.
func (g *Graph) FindNodeWithTool(t Tool) (NodeID, bool) {
	if t == nil {
		return None, false
	}
	for _, n := range g.nodes {
		if n.tool == t {
			return n.id, true
		}
	}
	return None, false
}

func (g *Graph) toolName(id NodeID) string {
	t := g.nodes[id].tool
	if t == nil {
		return "group"
	}
	return t.Name()
}
