// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package pipeline_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/js-arias/revdag/pipeline"
)

var errFail = errors.New("tool failed")

type testTool struct {
	name string
	log  *[]string
	fail bool
}

func (t *testTool) Name() string { return t.name }

func (t *testTool) Execute(ctx context.Context) error {
	*t.log = append(*t.log, t.name)
	if t.fail {
		return errFail
	}
	return nil
}

// newTree builds a graph
// with a root R,
// and the given tools as children of R
// (in order).
func newTree(t testing.TB, log *[]string, names ...string) (*pipeline.Graph, map[string]pipeline.NodeID) {
	t.Helper()

	g := pipeline.New()
	ids := make(map[string]pipeline.NodeID)
	root := g.AddNode(&testTool{name: "R", log: log})
	ids["R"] = root
	for _, n := range names {
		id := g.AddNode(&testTool{name: n, log: log})
		ids[n] = id
		if err := g.AddChild(root, id); err != nil {
			t.Fatalf("add child %q: %v", n, err)
		}
	}
	return g, ids
}

func TestDownPassOrder(t *testing.T) {
	var log []string
	g, ids := newTree(t, &log, "A", "B")

	// C and D are inputs of A
	for _, n := range []string{"C", "D"} {
		id := g.AddNode(&testTool{name: n, log: &log})
		ids[n] = id
		if err := g.AddChild(ids["A"], id); err != nil {
			t.Fatalf("add child %q: %v", n, err)
		}
	}

	if err := g.InitDownPass(); err != nil {
		t.Fatalf("down-pass: unexpected error: %v", err)
	}
	seq := g.Sequence()
	pos := make(map[pipeline.NodeID]int)
	for i, id := range seq {
		pos[id] = i
	}
	for _, id := range seq {
		for _, c := range g.Children(id) {
			if pos[c] > pos[id] {
				t.Errorf("down-pass: input %d after node %d", c, id)
			}
		}
	}

	if err := g.Execute(context.Background()); err != nil {
		t.Fatalf("execute: unexpected error: %v", err)
	}
	want := []string{"C", "D", "A", "B", "R"}
	if !reflect.DeepEqual(log, want) {
		t.Errorf("execute: got %v, want %v", log, want)
	}
}

func TestStaleSequence(t *testing.T) {
	var log []string
	g, ids := newTree(t, &log, "A", "B", "C")

	if err := g.Execute(context.Background()); !errors.Is(err, pipeline.ErrStructure) {
		t.Errorf("uninitialized: got error %v, want %v", err, pipeline.ErrStructure)
	}

	if err := g.InitDownPass(); err != nil {
		t.Fatalf("down-pass: unexpected error: %v", err)
	}
	if _, err := g.AddLoop([]pipeline.NodeID{ids["A"], ids["B"]}, 2); err != nil {
		t.Fatalf("add loop: unexpected error: %v", err)
	}
	if err := g.Execute(context.Background()); !errors.Is(err, pipeline.ErrStructure) {
		t.Errorf("after add loop: got error %v, want %v", err, pipeline.ErrStructure)
	}
	if g.Sequence() != nil {
		t.Errorf("after add loop: expecting nil sequence")
	}

	if err := g.InitDownPass(); err != nil {
		t.Fatalf("down-pass: unexpected error: %v", err)
	}
	d := g.AddNode(&testTool{name: "D", log: &log})
	if err := g.AddChild(ids["C"], d); err != nil {
		t.Fatalf("add child: unexpected error: %v", err)
	}
	if err := g.Execute(context.Background()); !errors.Is(err, pipeline.ErrStructure) {
		t.Errorf("after add child: got error %v, want %v", err, pipeline.ErrStructure)
	}
	if len(log) != 0 {
		t.Errorf("stale execution: tools executed: %v", log)
	}
}

func TestLoop(t *testing.T) {
	var log []string
	g, ids := newTree(t, &log, "A", "B", "C")

	id, err := g.AddLoop([]pipeline.NodeID{ids["B"], ids["A"]}, 3)
	if err != nil {
		t.Fatalf("add loop: unexpected error: %v", err)
	}
	if err := g.InitDownPass(); err != nil {
		t.Fatalf("down-pass: unexpected error: %v", err)
	}
	if err := g.Execute(context.Background()); err != nil {
		t.Fatalf("execute: unexpected error: %v", err)
	}

	want := []string{"A", "B", "A", "B", "A", "B", "C", "R"}
	if !reflect.DeepEqual(log, want) {
		t.Errorf("execute: got %v, want %v", log, want)
	}
	if g.Executed(ids["A"]) != 3 || g.Executed(ids["C"]) != 1 {
		t.Errorf("execute: got runs A=%d C=%d, want 3 and 1", g.Executed(ids["A"]), g.Executed(ids["C"]))
	}
	nodes, repeat := g.Loop(id)
	if !reflect.DeepEqual(nodes, []pipeline.NodeID{ids["A"], ids["B"]}) || repeat != 3 {
		t.Errorf("loop: got %v x %d", nodes, repeat)
	}
	if g.Repeat(ids["B"]) != 3 || g.LoopID(ids["C"]) != -1 {
		t.Errorf("loop: unexpected node loop state")
	}
}

func TestNestedLoop(t *testing.T) {
	var log []string
	g, ids := newTree(t, &log, "A", "B")

	// X is the input of A
	x := g.AddNode(&testTool{name: "X", log: &log})
	if err := g.AddChild(ids["A"], x); err != nil {
		t.Fatalf("add child: %v", err)
	}
	if _, err := g.AddLoop([]pipeline.NodeID{ids["A"]}, 2); err != nil {
		t.Fatalf("add loop: %v", err)
	}
	if _, err := g.AddLoop([]pipeline.NodeID{x}, 2); err != nil {
		t.Fatalf("add loop: %v", err)
	}
	if _, err := g.AddLoop([]pipeline.NodeID{ids["A"], ids["B"]}, 2); !errors.Is(err, pipeline.ErrStructure) {
		t.Errorf("overlapping loop: got error %v, want %v", err, pipeline.ErrStructure)
	}

	if err := g.InitDownPass(); err != nil {
		t.Fatalf("down-pass: %v", err)
	}
	if err := g.Execute(context.Background()); err != nil {
		t.Fatalf("execute: %v", err)
	}
	want := []string{"X", "X", "A", "X", "X", "A", "B", "R"}
	if !reflect.DeepEqual(log, want) {
		t.Errorf("execute: got %v, want %v", log, want)
	}
}

func TestStructureErrors(t *testing.T) {
	var log []string
	g, ids := newTree(t, &log, "A", "B", "C")

	if err := g.AddChild(ids["B"], ids["A"]); !errors.Is(err, pipeline.ErrStructure) {
		t.Errorf("reparent: got error %v, want %v", err, pipeline.ErrStructure)
	}
	if err := g.AddChild(ids["A"], ids["R"]); !errors.Is(err, pipeline.ErrStructure) {
		t.Errorf("cycle: got error %v, want %v", err, pipeline.ErrStructure)
	}
	if err := g.AddChild(ids["R"], ids["A"]); err != nil {
		t.Errorf("same parent: unexpected error: %v", err)
	}
	if _, err := g.AddLoop([]pipeline.NodeID{ids["A"], ids["C"]}, 2); !errors.Is(err, pipeline.ErrStructure) {
		t.Errorf("non contiguous loop: got error %v, want %v", err, pipeline.ErrStructure)
	}
	if _, err := g.AddLoop([]pipeline.NodeID{ids["A"]}, 0); !errors.Is(err, pipeline.ErrStructure) {
		t.Errorf("zero repeat: got error %v, want %v", err, pipeline.ErrStructure)
	}
	if _, err := g.AddLoop([]pipeline.NodeID{ids["R"]}, 2); !errors.Is(err, pipeline.ErrStructure) {
		t.Errorf("root loop: got error %v, want %v", err, pipeline.ErrStructure)
	}

	g.AddNode(&testTool{name: "orphan", log: &log})
	if err := g.InitDownPass(); !errors.Is(err, pipeline.ErrStructure) {
		t.Errorf("two roots: got error %v, want %v", err, pipeline.ErrStructure)
	}
}

func TestFailFast(t *testing.T) {
	var log []string
	g := pipeline.New()
	root := g.AddNode(nil)
	var bad *testTool
	for _, n := range []string{"A", "B", "C"} {
		tl := &testTool{name: n, log: &log}
		if n == "B" {
			tl.fail = true
			bad = tl
		}
		g.AddChild(root, g.AddNode(tl))
	}
	if err := g.InitDownPass(); err != nil {
		t.Fatalf("down-pass: %v", err)
	}

	err := g.Execute(context.Background())
	var ee *pipeline.ExecError
	if !errors.As(err, &ee) {
		t.Fatalf("execute: got error %v, want an execution error", err)
	}
	id, _ := g.FindNodeWithTool(bad)
	if ee.Node != id || ee.Tool != "B" {
		t.Errorf("execute: got failing node %d [%s], want %d [B]", ee.Node, ee.Tool, id)
	}
	if !errors.Is(err, errFail) {
		t.Errorf("execute: got error %v, want %v", err, errFail)
	}
	if want := []string{"A", "B"}; !reflect.DeepEqual(log, want) {
		t.Errorf("execute: got %v, want %v", log, want)
	}

	// fix the tool and re-run
	bad.fail = false
	log = nil
	if err := g.Execute(context.Background()); err != nil {
		t.Fatalf("execute: unexpected error: %v", err)
	}
	if want := []string{"A", "B", "C"}; !reflect.DeepEqual(log, want) {
		t.Errorf("execute: got %v, want %v", log, want)
	}
}

func TestExecuteSubtree(t *testing.T) {
	var log []string
	g, ids := newTree(t, &log, "A", "B")
	x := &testTool{name: "X", log: &log}
	xID := g.AddNode(x)
	g.AddChild(ids["B"], xID)
	if err := g.InitDownPass(); err != nil {
		t.Fatalf("down-pass: %v", err)
	}

	id, ok := g.FindNodeWithTool(x)
	if !ok || id != xID {
		t.Fatalf("find: got %d (%v), want %d", id, ok, xID)
	}
	if _, ok := g.FindNodeWithTool(&testTool{name: "X"}); ok {
		t.Errorf("find: found tool by value")
	}

	if err := g.ExecuteSubtree(context.Background(), ids["B"]); err != nil {
		t.Fatalf("subtree: unexpected error: %v", err)
	}
	if want := []string{"X", "B"}; !reflect.DeepEqual(log, want) {
		t.Errorf("subtree: got %v, want %v", log, want)
	}
}

func TestCancel(t *testing.T) {
	var log []string
	g, _ := newTree(t, &log, "A", "B")
	if err := g.InitDownPass(); err != nil {
		t.Fatalf("down-pass: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := g.Execute(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("cancel: got error %v, want %v", err, context.Canceled)
	}
	if len(log) != 0 {
		t.Errorf("cancel: tools executed: %v", log)
	}
}
