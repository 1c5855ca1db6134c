// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package syntax_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/js-arias/revdag/dag"
	"github.com/js-arias/revdag/syntax"
	"github.com/js-arias/revdag/value"
	"github.com/js-arias/revdag/workspace"
	"golang.org/x/exp/rand"
)

func mustReal(t testing.TB, x float64) value.Value {
	t.Helper()
	v, err := value.NewReal(x)
	if err != nil {
		t.Fatalf("real %v: %v", x, err)
	}
	return v
}

func TestAssign(t *testing.T) {
	ws := workspace.New()
	env := syntax.NewEnv(ws, rand.NewSource(1))

	err := env.Exec(
		syntax.Assign{Name: "a", Expr: syntax.Constant{Value: value.NewInteger(2)}},
		syntax.Assign{Name: "b", Expr: syntax.Call{
			Func: "add",
			Args: []syntax.Expr{
				syntax.Variable{Name: "a"},
				syntax.Constant{Value: value.NewInteger(3)},
			},
		}},
	)
	if err != nil {
		t.Fatalf("exec: unexpected error: %v", err)
	}

	a, _ := ws.Lookup("a")
	b, _ := ws.Lookup("b")
	g := ws.Graph()
	if got := g.Value(b); !got.Equal(value.NewInteger(5)) {
		t.Errorf("b: got %v, want %v", got, value.NewInteger(5))
	}
	if g.Name(b) != "b" {
		t.Errorf("b: got name %q, want %q", g.Name(b), "b")
	}

	// changes propagate through the graph
	g.SetValue(a, value.NewInteger(10))
	if err := g.Store(a); err != nil {
		t.Fatalf("store: unexpected error: %v", err)
	}
	if got := g.Value(b); !got.Equal(value.NewInteger(13)) {
		t.Errorf("b: got %v, want %v", got, value.NewInteger(13))
	}

	if _, err := (syntax.Variable{Name: "c"}).Build(env, ""); !errors.Is(err, workspace.ErrUndefined) {
		t.Errorf("undefined variable: got error %v, want %v", err, workspace.ErrUndefined)
	}
}

func TestRebind(t *testing.T) {
	ws := workspace.New()
	env := syntax.NewEnv(ws, nil)

	n1, err := syntax.Assign{Name: "x", Expr: syntax.Constant{Value: value.NewInteger(1)}}.Exec(env)
	if err != nil {
		t.Fatalf("assign: unexpected error: %v", err)
	}
	n2, err := syntax.Assign{Name: "x", Expr: syntax.Constant{Value: value.NewInteger(2)}}.Exec(env)
	if err != nil {
		t.Fatalf("assign: unexpected error: %v", err)
	}
	if id, _ := ws.Lookup("x"); id != n2 {
		t.Errorf("lookup: got %d, want %d", id, n2)
	}

	removed, _ := ws.Collect()
	if !reflect.DeepEqual(removed, []dag.NodeID{n1}) {
		t.Errorf("collect: got %v, want %v", removed, []dag.NodeID{n1})
	}
}

func TestLabeled(t *testing.T) {
	ws := workspace.New()
	env := syntax.NewEnv(ws, nil)

	id, err := syntax.Assign{
		Name: "y",
		Expr: syntax.Labeled{
			Label: "rate",
			Expr:  syntax.Constant{Value: mustReal(t, 0.5)},
		},
	}.Exec(env)
	if err != nil {
		t.Fatalf("assign: unexpected error: %v", err)
	}

	g := ws.Graph()
	if g.Name(id) != "rate" {
		t.Errorf("label: got %q, want %q", g.Name(id), "rate")
	}
	parents := g.Parents(id)
	if len(parents) != 1 {
		t.Fatalf("label: got %d parents, want 1", len(parents))
	}
	if got := g.Value(id); !got.Equal(g.Value(parents[0])) {
		t.Errorf("label: got value %v, want %v", got, g.Value(parents[0]))
	}
}

func TestDraw(t *testing.T) {
	ws := workspace.New()
	env := syntax.NewEnv(ws, rand.NewSource(1))

	err := env.Exec(
		syntax.Assign{Name: "mu", Expr: syntax.Draw{
			Dist:   "normal",
			Params: []syntax.Expr{syntax.Constant{Value: mustReal(t, 0)}, syntax.Constant{Value: mustReal(t, 1)}},
		}},
		syntax.Assign{Name: "x", Expr: syntax.Draw{
			Dist:     "normal",
			Params:   []syntax.Expr{syntax.Variable{Name: "mu"}, syntax.Constant{Value: mustReal(t, 1)}},
			Value:    mustReal(t, 0.3),
			Observed: true,
		}},
	)
	if err != nil {
		t.Fatalf("exec: unexpected error: %v", err)
	}

	g := ws.Graph()
	mu, _ := ws.Lookup("mu")
	x, _ := ws.Lookup("x")
	if g.Kind(mu) != dag.Stochastic || g.Value(mu).Kind() != value.Real {
		t.Errorf("mu: got %s node with %s value", g.Kind(mu), g.Value(mu).Kind())
	}
	if !g.IsClamped(x) {
		t.Errorf("x: expecting clamped node")
	}
	if got := g.Affected(mu); !reflect.DeepEqual(got, []dag.NodeID{mu, x}) {
		t.Errorf("affected: got %v, want %v", got, []dag.NodeID{mu, x})
	}

	bad := syntax.Assign{Name: "z", Expr: syntax.Draw{
		Dist:   "exponential",
		Params: []syntax.Expr{syntax.Constant{Value: mustReal(t, 1)}},
		Value:  mustReal(t, -1),
	}}
	if _, err := bad.Exec(env); !errors.Is(err, value.ErrInvalid) {
		t.Errorf("out of support: got error %v, want %v", err, value.ErrInvalid)
	}
	if _, ok := ws.Lookup("z"); ok {
		t.Errorf("out of support: symbol bound")
	}
}

func TestString(t *testing.T) {
	a := syntax.Assign{Name: "x", Expr: syntax.Draw{
		Dist:   "gamma",
		Params: []syntax.Expr{syntax.Variable{Name: "k"}, syntax.Constant{Value: value.NewInteger(1)}},
	}}
	if got, want := a.String(), "x <- ~gamma(k, 1)"; got != want {
		t.Errorf("string: got %q, want %q", got, want)
	}
}
