// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package value implements the immutable values
// held by the nodes of a model graph.
//
// A value is a tagged variant:
// a real number,
// an integer,
// a positive real,
// a vector of values,
// or a simplex
// (a vector of non-negative reals that sums to one).
// Values are validated when they are built,
// and never modified afterwards.
package value

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// ErrInvalid is the error returned
// when a value is out of the domain of its kind.
var ErrInvalid = errors.New("invalid value")

// SimplexTolerance is the maximum absolute difference
// between the sum of a simplex and one.
const SimplexTolerance = 1e-6

// Kind is the type of a value.
type Kind int

// Valid kinds.
const (
	Null Kind = iota
	Real
	Integer
	PositiveReal
	Vector
	Simplex
)

var kindNames = map[Kind]string{
	Null:         "null",
	Real:         "real",
	Integer:      "integer",
	PositiveReal: "positive",
	Vector:       "vector",
	Simplex:      "simplex",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// ParseKind returns the kind with the given name.
func ParseKind(name string) (Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for k, s := range kindNames {
		if s == name {
			return k, nil
		}
	}
	return Null, fmt.Errorf("unknown value kind %q", name)
}

// A Value is an immutable value.
// The zero Value is a null value.
type Value struct {
	kind  Kind
	x     float64
	n     int64
	elems []Value
	p     []float64
}

// NewReal returns a real value.
func NewReal(x float64) (Value, error) {
	if math.IsNaN(x) {
		return Value{}, fmt.Errorf("%w: real: not a number", ErrInvalid)
	}
	return Value{kind: Real, x: x}, nil
}

// NewInteger returns an integer value.
func NewInteger(n int64) Value {
	return Value{kind: Integer, n: n}
}

// NewPositiveReal returns a positive real value.
func NewPositiveReal(x float64) (Value, error) {
	if math.IsNaN(x) || math.IsInf(x, 0) || x <= 0 {
		return Value{}, fmt.Errorf("%w: positive real: %v", ErrInvalid, x)
	}
	return Value{kind: PositiveReal, x: x}, nil
}

// NewVector returns a vector with the given elements.
func NewVector(elems ...Value) Value {
	return Value{
		kind:  Vector,
		elems: append([]Value(nil), elems...),
	}
}

// Reals returns a vector of real values.
func Reals(xs ...float64) (Value, error) {
	elems := make([]Value, len(xs))
	for i, x := range xs {
		v, err := NewReal(x)
		if err != nil {
			return Value{}, fmt.Errorf("element %d: %w", i, err)
		}
		elems[i] = v
	}
	return Value{kind: Vector, elems: elems}, nil
}

// Integers returns a vector of integer values.
func Integers(ns ...int64) Value {
	elems := make([]Value, len(ns))
	for i, n := range ns {
		elems[i] = NewInteger(n)
	}
	return Value{kind: Vector, elems: elems}
}

// NewSimplex returns a simplex
// with the given probabilities.
func NewSimplex(p ...float64) (Value, error) {
	if len(p) == 0 {
		return Value{}, fmt.Errorf("%w: simplex: empty", ErrInvalid)
	}
	for i, x := range p {
		if math.IsNaN(x) || math.IsInf(x, 0) || x < 0 || x > 1 {
			return Value{}, fmt.Errorf("%w: simplex: element %d: %v", ErrInvalid, i, x)
		}
	}
	if s := floats.Sum(p); math.Abs(s-1) > SimplexTolerance {
		return Value{}, fmt.Errorf("%w: simplex: sum %.6f", ErrInvalid, s)
	}
	return Value{
		kind: Simplex,
		p:    append([]float64(nil), p...),
	}, nil
}

// Normalize returns a simplex
// from a set of non-negative weights.
func Normalize(w ...float64) (Value, error) {
	if len(w) == 0 {
		return Value{}, fmt.Errorf("%w: simplex: empty", ErrInvalid)
	}
	for i, x := range w {
		if math.IsNaN(x) || math.IsInf(x, 0) || x < 0 {
			return Value{}, fmt.Errorf("%w: weight %d: %v", ErrInvalid, i, x)
		}
	}
	s := floats.Sum(w)
	if s == 0 {
		return Value{}, fmt.Errorf("%w: simplex: weights sum to zero", ErrInvalid)
	}
	p := append([]float64(nil), w...)
	floats.Scale(1/s, p)
	return Value{kind: Simplex, p: p}, nil
}

// Kind returns the kind of the value.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull returns true if v is the null value.
func (v Value) IsNull() bool {
	return v.kind == Null
}

// IsNumber returns true if v is a scalar number.
func (v Value) IsNumber() bool {
	switch v.kind {
	case Real, Integer, PositiveReal:
		return true
	}
	return false
}

// Float returns the value of a scalar as a float.
// It returns NaN if the value is not a scalar.
func (v Value) Float() float64 {
	switch v.kind {
	case Real, PositiveReal:
		return v.x
	case Integer:
		return float64(v.n)
	}
	return math.NaN()
}

// Int returns the value of an integer.
// Reals are truncated.
func (v Value) Int() int64 {
	switch v.kind {
	case Integer:
		return v.n
	case Real, PositiveReal:
		return int64(v.x)
	}
	return 0
}

// Len returns the number of elements
// of a vector or a simplex.
// Scalars have length one
// and null values length zero.
func (v Value) Len() int {
	switch v.kind {
	case Null:
		return 0
	case Vector:
		return len(v.elems)
	case Simplex:
		return len(v.p)
	}
	return 1
}

// At returns the i-th element of a vector or a simplex.
// For a scalar, At(0) returns the value itself.
// It panics if i is out of range.
func (v Value) At(i int) Value {
	switch v.kind {
	case Vector:
		return v.elems[i]
	case Simplex:
		return Value{kind: Real, x: v.p[i]}
	}
	if v.kind == Null {
		panic(fmt.Sprintf("value: index %d out of range for a null value", i))
	}
	if i != 0 {
		panic(fmt.Sprintf("value: index %d out of range for a scalar", i))
	}
	return v
}

// Floats returns the elements of the value
// as a new slice of floats.
// It returns an error if any element is not a number.
func (v Value) Floats() ([]float64, error) {
	switch v.kind {
	case Null:
		return nil, nil
	case Simplex:
		return append([]float64(nil), v.p...), nil
	case Vector:
		xs := make([]float64, len(v.elems))
		for i, e := range v.elems {
			if !e.IsNumber() {
				return nil, fmt.Errorf("%w: element %d is a %s", ErrInvalid, i, e.kind)
			}
			xs[i] = e.Float()
		}
		return xs, nil
	}
	return []float64{v.Float()}, nil
}

// Equal returns true if both values are of the same kind
// and have the same content.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case Null:
		return true
	case Real, PositiveReal:
		return v.x == o.x
	case Integer:
		return v.n == o.n
	case Simplex:
		return floats.Equal(v.p, o.p)
	}
	if len(v.elems) != len(o.elems) {
		return false
	}
	for i, e := range v.elems {
		if !e.Equal(o.elems[i]) {
			return false
		}
	}
	return true
}

func (v Value) String() string {
	switch v.kind {
	case Null:
		return "NA"
	case Real, PositiveReal:
		return strconv.FormatFloat(v.x, 'g', 6, 64)
	case Integer:
		return strconv.FormatInt(v.n, 10)
	case Simplex:
		s := make([]string, len(v.p))
		for i, x := range v.p {
			s[i] = strconv.FormatFloat(x, 'g', 6, 64)
		}
		return "simplex(" + strings.Join(s, ",") + ")"
	}
	s := make([]string, len(v.elems))
	for i, e := range v.elems {
		s[i] = e.String()
	}
	return "[" + strings.Join(s, ",") + "]"
}
