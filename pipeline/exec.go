// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package pipeline

import (
	"context"
	"slices"

	"github.com/js-arias/revdag/internal/ctxlog"
)

// InitDownPass calculates the down-pass sequence
// of the graph.
// It must be called after any change
// in the structure of the graph,
// and before its execution.
func (g *Graph) InitDownPass() error {
	g.valid = false
	g.seq = nil
	if len(g.nodes) == 0 {
		return structErr("down-pass", None, "empty graph")
	}
	root := g.Root()
	if root == None {
		return structErr("down-pass", None, "graph without a single root")
	}

	g.pos = make([]int, len(g.nodes))
	g.start = make([]int, len(g.nodes))
	seq := make([]NodeID, 0, len(g.nodes))

	// iterative post-order traversal
	type frame struct {
		id    NodeID
		child int
	}
	stack := []frame{{id: root}}
	g.start[root] = 0
	for len(stack) > 0 {
		f := &stack[len(stack)-1]
		n := g.nodes[f.id]
		if f.child < len(n.children) {
			c := n.children[f.child]
			f.child++
			g.start[c] = len(seq)
			stack = append(stack, frame{id: c})
			continue
		}
		g.pos[f.id] = len(seq)
		seq = append(seq, f.id)
		stack = stack[:len(stack)-1]
	}
	if len(seq) != len(g.nodes) {
		return structErr("down-pass", None, "%d nodes unreachable from root", len(g.nodes)-len(seq))
	}

	for _, l := range g.loops {
		l.lo = g.start[l.nodes[0]]
		l.hi = g.pos[l.nodes[len(l.nodes)-1]]
	}

	g.seq = seq
	g.valid = true
	return nil
}

// Sequence returns the down-pass sequence.
// It returns nil if the sequence is not initialized
// or the graph was modified after the sequence was calculated.
func (g *Graph) Sequence() []NodeID {
	if !g.valid {
		return nil
	}
	return slices.Clone(g.seq)
}

// Reset clears the execution state
// of all the nodes.
func (g *Graph) Reset() {
	for _, n := range g.nodes {
		n.runs = 0
	}
}

// Execute executes all the nodes of the graph
// following the down-pass sequence.
// Loops are executed as many times as indicated by its repeat value,
// before the execution continues with the next node.
//
// On the first failure the execution stops,
// and an ExecError with the failing node is returned.
// The context is checked before the execution of each node.
func (g *Graph) Execute(ctx context.Context) error {
	if !g.valid {
		return structErr("execute", None, "stale down-pass sequence")
	}
	g.Reset()

	logger := ctxlog.FromContext(ctx)
	logger.Info("pipeline started", "nodes", len(g.seq), "loops", len(g.loops))
	if err := g.run(ctx, 0, len(g.seq)-1, make(map[int]bool)); err != nil {
		logger.Error("pipeline failed", "error", err)
		return err
	}
	logger.Info("pipeline done")
	return nil
}

// ExecuteSubtree executes the subtree
// of the given node
// (the node and all its descendants).
// Loops inside the subtree are executed
// as in a full execution.
// If the node is part of a loop,
// the loop is not repeated.
func (g *Graph) ExecuteSubtree(ctx context.Context, id NodeID) error {
	if !g.contains(id) {
		return structErr("execute subtree", id, "unknown node")
	}
	if !g.valid {
		return structErr("execute subtree", id, "stale down-pass sequence")
	}

	lo, hi := g.start[id], g.pos[id]
	for _, i := range g.seq[lo : hi+1] {
		g.nodes[i].runs = 0
	}

	active := make(map[int]bool)
	if l := g.nodes[id].loop; l >= 0 {
		active[l] = true
	}
	ctxlog.FromContext(ctx).Info("subtree started", "node", id, "tool", g.toolName(id))
	return g.run(ctx, lo, hi, active)
}

// Run executes the nodes in the [lo, hi] range
// of the down-pass sequence.
// Active are the loops currently executed.
func (g *Graph) run(ctx context.Context, lo, hi int, active map[int]bool) error {
	for i := lo; i <= hi; {
		if l := g.loopAt(i, hi, active); l != nil {
			active[l.id] = true
			for r := 0; r < l.repeat; r++ {
				ctxlog.FromContext(ctx).Debug("loop iteration", "loop", l.id, "iteration", r+1, "repeat", l.repeat)
				if err := g.run(ctx, l.lo, l.hi, active); err != nil {
					return err
				}
			}
			delete(active, l.id)
			i = l.hi + 1
			continue
		}

		if err := g.exec(ctx, g.seq[i]); err != nil {
			return err
		}
		i++
	}
	return nil
}

// LoopAt returns the outermost inactive loop
// that starts at the given position
// and is inside the range.
func (g *Graph) loopAt(i, hi int, active map[int]bool) *loop {
	var out *loop
	for _, l := range g.loops {
		if l.lo != i || l.hi > hi || active[l.id] {
			continue
		}
		if out == nil || l.hi-l.lo > out.hi-out.lo {
			out = l
		}
	}
	return out
}

func (g *Graph) exec(ctx context.Context, id NodeID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	n := g.nodes[id]
	for _, c := range n.children {
		if g.nodes[c].runs == 0 {
			return structErr("execute", id, "input node %d not executed", c)
		}
	}

	ctxlog.FromContext(ctx).Debug("execute", "node", id, "tool", g.toolName(id))
	if n.tool != nil {
		if err := n.tool.Execute(ctx); err != nil {
			return &ExecError{
				Node: id,
				Tool: n.tool.Name(),
				Err:  err,
			}
		}
	}
	n.runs++
	return nil
}
