// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package function implements the deterministic functions
// that can be used in the nodes of a model graph.
package function

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/js-arias/revdag/dag"
	"github.com/js-arias/revdag/value"
	"gonum.org/v1/gonum/floats"
)

// ErrArgs is the error returned
// when a function is called
// with an invalid number or kind of arguments.
var ErrArgs = errors.New("invalid arguments")

// Func is a deterministic function.
type Func struct {
	name string

	// number of arguments,
	// if arity is -1 the function is variadic
	// (with at least one argument).
	arity int

	eval func(args []value.Value) (value.Value, error)
}

// Name returns the name of the function.
func (f Func) Name() string {
	return f.name
}

// Arity returns the number of arguments of the function.
// Variadic functions return -1.
func (f Func) Arity() int {
	return f.arity
}

// Eval evaluates the function.
func (f Func) Eval(args []value.Value) (value.Value, error) {
	if f.arity >= 0 && len(args) != f.arity {
		return value.Value{}, fmt.Errorf("%w: expecting %d arguments, got %d", ErrArgs, f.arity, len(args))
	}
	if f.arity < 0 && len(args) == 0 {
		return value.Value{}, fmt.Errorf("%w: expecting at least one argument", ErrArgs)
	}
	for i, a := range args {
		if a.IsNull() {
			return value.Value{}, fmt.Errorf("%w: argument %d: undefined value", ErrArgs, i)
		}
	}
	return f.eval(args)
}

// Table is a set of functions
// indexed by name.
type Table map[string]dag.Function

// Lookup returns a function by its name.
func (t Table) Lookup(name string) (dag.Function, error) {
	f, ok := t[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown function %q", name)
	}
	return f, nil
}

// Names returns the names of the functions in the table.
func (t Table) Names() []string {
	names := make([]string, 0, len(t))
	for n := range t {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Default returns a new table
// with all the defined functions.
func Default() Table {
	t := Table{}
	for _, f := range []Func{
		{name: "add", arity: 2, eval: binary(func(a, b float64) float64 { return a + b }, true)},
		{name: "sub", arity: 2, eval: binary(func(a, b float64) float64 { return a - b }, true)},
		{name: "mul", arity: 2, eval: binary(func(a, b float64) float64 { return a * b }, true)},
		{name: "div", arity: 2, eval: div},
		{name: "exp", arity: 1, eval: unary(math.Exp)},
		{name: "log", arity: 1, eval: unary(math.Log)},
		{name: "sum", arity: -1, eval: sum},
		{name: "mean", arity: -1, eval: mean},
		{name: "vector", arity: -1, eval: vector},
		{name: "normalize", arity: 1, eval: normalize},
		{name: "identity", arity: 1, eval: identity},
		{name: "discretegamma", arity: 2, eval: discreteGamma},
		{name: "discretelognormal", arity: 2, eval: discreteLogNormal},
	} {
		t[f.name] = f
	}
	return t
}

func identity(args []value.Value) (value.Value, error) {
	return args[0], nil
}

// Binary returns a function
// that applies op to two scalars,
// or element-wise to vectors
// (a scalar is broadcast over a vector).
// If keepInt is true,
// and both arguments are integers,
// the result is an integer.
func binary(op func(a, b float64) float64, keepInt bool) func(args []value.Value) (value.Value, error) {
	return func(args []value.Value) (value.Value, error) {
		a, b := args[0], args[1]
		if a.IsNumber() && b.IsNumber() {
			if keepInt && a.Kind() == value.Integer && b.Kind() == value.Integer {
				return value.NewInteger(int64(op(a.Float(), b.Float()))), nil
			}
			return value.NewReal(op(a.Float(), b.Float()))
		}

		x, err := a.Floats()
		if err != nil {
			return value.Value{}, err
		}
		y, err := b.Floats()
		if err != nil {
			return value.Value{}, err
		}
		if a.IsNumber() {
			x = broadcast(x[0], len(y))
		}
		if b.IsNumber() {
			y = broadcast(y[0], len(x))
		}
		if len(x) != len(y) {
			return value.Value{}, fmt.Errorf("%w: vectors of different length: %d, %d", ErrArgs, len(x), len(y))
		}
		r := make([]float64, len(x))
		for i := range r {
			r[i] = op(x[i], y[i])
		}
		return value.Reals(r...)
	}
}

func broadcast(x float64, n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = x
	}
	return v
}

func div(args []value.Value) (value.Value, error) {
	d, err := args[1].Floats()
	if err != nil {
		return value.Value{}, err
	}
	for _, x := range d {
		if x == 0 {
			return value.Value{}, fmt.Errorf("%w: division by zero", value.ErrInvalid)
		}
	}
	return binary(func(a, b float64) float64 { return a / b }, false)(args)
}

// Unary returns a function that applies op
// to a scalar,
// or to each element of a vector.
func unary(op func(x float64) float64) func(args []value.Value) (value.Value, error) {
	return func(args []value.Value) (value.Value, error) {
		a := args[0]
		if a.IsNumber() {
			return value.NewReal(op(a.Float()))
		}
		x, err := a.Floats()
		if err != nil {
			return value.Value{}, err
		}
		for i := range x {
			x[i] = op(x[i])
		}
		return value.Reals(x...)
	}
}

// Flatten returns the numbers
// of all the arguments.
func flatten(args []value.Value) ([]float64, error) {
	var xs []float64
	for i, a := range args {
		x, err := a.Floats()
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		xs = append(xs, x...)
	}
	return xs, nil
}

func sum(args []value.Value) (value.Value, error) {
	xs, err := flatten(args)
	if err != nil {
		return value.Value{}, err
	}
	allInt := true
	for _, a := range args {
		if !isIntegral(a) {
			allInt = false
			break
		}
	}
	if allInt {
		return value.NewInteger(int64(floats.Sum(xs))), nil
	}
	return value.NewReal(floats.Sum(xs))
}

func isIntegral(v value.Value) bool {
	switch v.Kind() {
	case value.Integer:
		return true
	case value.Vector:
		for i := 0; i < v.Len(); i++ {
			if !isIntegral(v.At(i)) {
				return false
			}
		}
		return true
	}
	return false
}

func mean(args []value.Value) (value.Value, error) {
	xs, err := flatten(args)
	if err != nil {
		return value.Value{}, err
	}
	if len(xs) == 0 {
		return value.Value{}, fmt.Errorf("%w: mean of an empty vector", ErrArgs)
	}
	return value.NewReal(floats.Sum(xs) / float64(len(xs)))
}

func vector(args []value.Value) (value.Value, error) {
	return value.NewVector(args...), nil
}

func normalize(args []value.Value) (value.Value, error) {
	w, err := args[0].Floats()
	if err != nil {
		return value.Value{}, err
	}
	return value.Normalize(w...)
}
