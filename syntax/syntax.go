// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package syntax implements the elements of a model expression tree.
//
// Each expression,
// when built,
// adds the nodes required to calculate its value
// to a workspace,
// and returns the node that holds the value.
// Child expressions are always registered
// as parents of the node of the expression.
package syntax

import (
	"fmt"
	"strings"

	"github.com/js-arias/revdag/dag"
	"github.com/js-arias/revdag/dist"
	"github.com/js-arias/revdag/function"
	"github.com/js-arias/revdag/value"
	"github.com/js-arias/revdag/workspace"
	"golang.org/x/exp/rand"
)

// Env is the environment used to build expressions.
type Env struct {
	Workspace     *workspace.Workspace
	Functions     function.Table
	Distributions dist.Table

	// Source is the random source
	// used to draw the initial values
	// of stochastic nodes.
	Source rand.Source
}

// NewEnv returns a new environment
// using the given workspace,
// and the default functions and distributions.
func NewEnv(ws *workspace.Workspace, src rand.Source) *Env {
	return &Env{
		Workspace:     ws,
		Functions:     function.Default(),
		Distributions: dist.Default(),
		Source:        src,
	}
}

// Expr is an element of an expression tree.
type Expr interface {
	// Build adds the nodes of the expression
	// to the environment workspace.
	// Label is used as the name of the new node
	// (it is not bound to the workspace).
	Build(env *Env, label string) (dag.NodeID, error)

	String() string
}

// Constant is a literal value.
type Constant struct {
	Value value.Value
}

// Build adds a constant node.
func (c Constant) Build(env *Env, label string) (dag.NodeID, error) {
	if c.Value.IsNull() {
		return dag.None, fmt.Errorf("%w: undefined constant", value.ErrInvalid)
	}
	return env.Workspace.Add("", func(g *dag.Graph) (dag.NodeID, error) {
		return g.Add(label, c.Value), nil
	})
}

func (c Constant) String() string {
	return c.Value.String()
}

// Variable is a reference to a bound symbol.
type Variable struct {
	Name string
}

// Build returns the node bound to the variable.
// No node is added.
func (v Variable) Build(env *Env, label string) (dag.NodeID, error) {
	return env.Workspace.MustLookup(v.Name)
}

func (v Variable) String() string {
	return v.Name
}

// Call is a deterministic function call.
type Call struct {
	Func string
	Args []Expr
}

// Build adds a deterministic node.
func (c Call) Build(env *Env, label string) (dag.NodeID, error) {
	f, err := env.Functions.Lookup(c.Func)
	if err != nil {
		return dag.None, err
	}
	args, err := buildAll(env, c.Args)
	if err != nil {
		return dag.None, fmt.Errorf("function %q: %w", c.Func, err)
	}
	return env.Workspace.Add("", func(g *dag.Graph) (dag.NodeID, error) {
		return g.AddDeterministic(label, f, args...)
	})
}

func (c Call) String() string {
	return c.Func + "(" + joinExpr(c.Args) + ")"
}

// Draw is a random variable
// drawn from a distribution.
type Draw struct {
	Dist   string
	Params []Expr

	// Value is the initial value of the node.
	// If it is null,
	// the value is drawn from the distribution.
	Value value.Value

	// If Observed is true,
	// the node is clamped to Value.
	Observed bool
}

// Build adds a stochastic node.
func (d Draw) Build(env *Env, label string) (dag.NodeID, error) {
	dd, err := env.Distributions.Lookup(d.Dist)
	if err != nil {
		return dag.None, err
	}
	if d.Observed && d.Value.IsNull() {
		return dag.None, fmt.Errorf("distribution %q: observed node without value", d.Dist)
	}
	params, err := buildAll(env, d.Params)
	if err != nil {
		return dag.None, fmt.Errorf("distribution %q: %w", d.Dist, err)
	}
	return env.Workspace.Add("", func(g *dag.Graph) (dag.NodeID, error) {
		id, err := g.AddStochastic(label, dd, d.Value, env.Source, params...)
		if err != nil {
			return dag.None, err
		}
		if d.Observed {
			if err := g.Clamp(id, d.Value); err != nil {
				return dag.None, err
			}
		}
		return id, nil
	})
}

func (d Draw) String() string {
	return "~" + d.Dist + "(" + joinExpr(d.Params) + ")"
}

// Labeled is an expression with a human readable label.
// The child expression is a parent
// of the labeled node.
type Labeled struct {
	Label string
	Expr  Expr
}

var identity = function.Default()["identity"]

// Build adds a node named with the label
// whose value is the value of the child expression.
func (l Labeled) Build(env *Env, label string) (dag.NodeID, error) {
	if l.Expr == nil {
		return dag.None, fmt.Errorf("label %q: undefined expression", l.Label)
	}
	child, err := l.Expr.Build(env, "")
	if err != nil {
		return dag.None, fmt.Errorf("label %q: %w", l.Label, err)
	}
	name := l.Label
	if name == "" {
		name = label
	}
	return env.Workspace.Add("", func(g *dag.Graph) (dag.NodeID, error) {
		return g.AddDeterministic(name, identity, child)
	})
}

func (l Labeled) String() string {
	return fmt.Sprintf("%q: %s", l.Label, l.Expr)
}

// Assign is a top level statement
// that binds the value of an expression
// to a name.
type Assign struct {
	Name string
	Expr Expr
}

// Exec builds the expression
// and binds the resulting node to the name.
// If the name was already bound,
// the old binding is replaced.
func (a Assign) Exec(env *Env) (dag.NodeID, error) {
	if a.Name == "" {
		return dag.None, fmt.Errorf("assignment without name")
	}
	id, err := a.Expr.Build(env, a.Name)
	if err != nil {
		return dag.None, fmt.Errorf("assign %q: %w", a.Name, err)
	}
	if err := env.Workspace.Bind(a.Name, id); err != nil {
		return dag.None, err
	}
	return id, nil
}

func (a Assign) String() string {
	return a.Name + " <- " + a.Expr.String()
}

// Exec executes a sequence of assignments.
// It stops at the first error.
func (env *Env) Exec(stmts ...Assign) error {
	for _, s := range stmts {
		if _, err := s.Exec(env); err != nil {
			return err
		}
	}
	return nil
}

func buildAll(env *Env, exprs []Expr) ([]dag.NodeID, error) {
	ids := make([]dag.NodeID, 0, len(exprs))
	for i, e := range exprs {
		id, err := e.Build(env, "")
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func joinExpr(exprs []Expr) string {
	s := make([]string, len(exprs))
	for i, e := range exprs {
		s[i] = e.String()
	}
	return strings.Join(s, ", ")
}
