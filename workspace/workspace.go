// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package workspace implements a registry
// that owns the nodes of a model graph
// and maps symbol names to them.
//
// A workspace is usually passed explicitly
// to the functions that use it.
// A single process-wide workspace is available with Global.
//
// The structure of the workspace
// (adding or removing nodes and binding symbols)
// can not be modified while an execution pass is running
// (see Pass).
package workspace

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/js-arias/revdag/dag"
	"github.com/js-arias/revdag/value"
)

// Errors returned by workspace operations.
var (
	ErrBusy      = errors.New("execution pass in progress")
	ErrUndefined = errors.New("undefined symbol")
)

// A Workspace owns a graph of nodes,
// and a symbol table that maps names to nodes.
type Workspace struct {
	mu sync.Mutex

	graph   *dag.Graph
	symbols map[string]dag.NodeID

	// number of running execution passes
	running int
}

// New creates a new empty workspace.
func New() *Workspace {
	return &Workspace{
		graph:   dag.New(),
		symbols: make(map[string]dag.NodeID),
	}
}

var (
	globalMu sync.Mutex
	global   *Workspace
)

// Global returns the process-wide workspace.
// It is created on the first call.
func Global() *Workspace {
	globalMu.Lock()
	defer globalMu.Unlock()

	if global == nil {
		global = New()
	}
	return global
}

// ResetGlobal cleans and releases the process-wide workspace.
// The next call to Global will create a new workspace.
func ResetGlobal() error {
	globalMu.Lock()
	defer globalMu.Unlock()

	if global == nil {
		return nil
	}
	if err := global.Clean(); err != nil {
		return err
	}
	global = nil
	return nil
}

// Graph returns the node graph of the workspace.
//
// Values of the graph nodes can be changed
// during an execution pass,
// but the graph structure should only be modified
// through the workspace.
func (w *Workspace) Graph() *dag.Graph {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.graph
}

// Lookup returns the node bound to a symbol.
func (w *Workspace) Lookup(name string) (dag.NodeID, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	id, ok := w.symbols[name]
	return id, ok
}

// MustLookup returns the node bound to a symbol
// or an ErrUndefined error.
func (w *Workspace) MustLookup(name string) (dag.NodeID, error) {
	id, ok := w.Lookup(name)
	if !ok {
		return dag.None, fmt.Errorf("%w: %q", ErrUndefined, name)
	}
	return id, nil
}

// Bind binds a symbol to a node.
// If the symbol was already bound,
// the old binding is replaced
// (the old node is kept in the graph,
// use Collect to release it).
func (w *Workspace) Bind(name string, id dag.NodeID) error {
	if name == "" {
		return errors.New("empty symbol name")
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running > 0 {
		return fmt.Errorf("bind %q: %w", name, ErrBusy)
	}
	if !w.graph.Contains(id) {
		return fmt.Errorf("bind %q: %w: %d", name, dag.ErrUnknownNode, id)
	}
	w.symbols[name] = id
	return nil
}

// Unbind removes a symbol.
func (w *Workspace) Unbind(name string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running > 0 {
		return fmt.Errorf("unbind %q: %w", name, ErrBusy)
	}
	if _, ok := w.symbols[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUndefined, name)
	}
	delete(w.symbols, name)
	return nil
}

// Create adds a new constant node
// and binds it to the given name.
// If the name is already bound
// it returns an ErrDuplicateName error.
// Anonymous nodes
// (i.e., with an empty name)
// are added without a binding.
func (w *Workspace) Create(name string, v value.Value) (dag.NodeID, error) {
	return w.Add(name, func(g *dag.Graph) (dag.NodeID, error) {
		return g.Add(name, v), nil
	})
}

// Add adds a node to the workspace graph
// using the function add,
// and binds the new node to the given name.
// If the name is already bound
// it returns an ErrDuplicateName error
// and add is not called.
func (w *Workspace) Add(name string, add func(g *dag.Graph) (dag.NodeID, error)) (dag.NodeID, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running > 0 {
		return dag.None, fmt.Errorf("create %q: %w", name, ErrBusy)
	}
	if name != "" {
		if _, ok := w.symbols[name]; ok {
			return dag.None, fmt.Errorf("%w: %q", dag.ErrDuplicateName, name)
		}
	}

	id, err := add(w.graph)
	if err != nil {
		return dag.None, err
	}
	if name != "" {
		w.symbols[name] = id
	}
	return id, nil
}

// Symbols returns the bound symbols
// sorted by name.
func (w *Workspace) Symbols() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	names := make([]string, 0, len(w.symbols))
	for n := range w.symbols {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Collect removes all the nodes
// that are not bound to a symbol
// and are not required by a bound node.
// It returns the removed nodes.
func (w *Workspace) Collect() ([]dag.NodeID, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running > 0 {
		return nil, fmt.Errorf("collect: %w", ErrBusy)
	}

	// mark every node required by a bound node
	keep := make(map[dag.NodeID]bool)
	var stack []dag.NodeID
	for _, id := range w.symbols {
		stack = append(stack, id)
	}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if keep[id] {
			continue
		}
		keep[id] = true
		stack = append(stack, w.graph.Parents(id)...)
	}

	// children are always removed before its parents
	order := w.graph.Sorted()
	var removed []dag.NodeID
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		if keep[id] {
			continue
		}
		if err := w.graph.Remove(id); err != nil {
			return removed, err
		}
		removed = append(removed, id)
	}
	slices.Sort(removed)
	return removed, nil
}

// Clean releases all the nodes and symbols
// of the workspace.
// It is an error to clean a workspace
// during an execution pass.
func (w *Workspace) Clean() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running > 0 {
		return fmt.Errorf("clean: %w", ErrBusy)
	}
	w.graph.Clear()
	w.graph = dag.New()
	w.symbols = make(map[string]dag.NodeID)
	return nil
}

// Pass runs fn as an execution pass.
// During the pass,
// structural changes of the workspace
// (Add, Bind, Clean, Collect, Create, Unbind)
// will fail with ErrBusy.
// Values of the nodes can be changed
// using the workspace graph.
func (w *Workspace) Pass(fn func(g *dag.Graph) error) error {
	w.mu.Lock()
	w.running++
	g := w.graph
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running--
		w.mu.Unlock()
	}()

	return fn(g)
}

// Running returns true if an execution pass is in progress.
func (w *Workspace) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running > 0
}
