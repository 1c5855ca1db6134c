// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package value_test

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/js-arias/revdag/value"
)

func TestScalars(t *testing.T) {
	r, err := value.NewReal(-1.5)
	if err != nil {
		t.Fatalf("real: unexpected error: %v", err)
	}
	if r.Kind() != value.Real {
		t.Errorf("real: got kind %s, want %s", r.Kind(), value.Real)
	}
	if r.Float() != -1.5 {
		t.Errorf("real: got %.6f, want %.6f", r.Float(), -1.5)
	}

	n := value.NewInteger(7)
	if n.Int() != 7 || n.Float() != 7 {
		t.Errorf("integer: got %d (%.6f), want 7", n.Int(), n.Float())
	}

	if _, err := value.NewReal(math.NaN()); !errors.Is(err, value.ErrInvalid) {
		t.Errorf("real NaN: got error %v, want %v", err, value.ErrInvalid)
	}
	for _, x := range []float64{0, -1, math.Inf(1), math.NaN()} {
		if _, err := value.NewPositiveReal(x); !errors.Is(err, value.ErrInvalid) {
			t.Errorf("positive %v: got error %v, want %v", x, err, value.ErrInvalid)
		}
	}

	var null value.Value
	if !null.IsNull() {
		t.Errorf("zero value: expecting null value")
	}
}

func TestSimplex(t *testing.T) {
	s, err := value.NewSimplex(0.2, 0.3, 0.5)
	if err != nil {
		t.Fatalf("simplex: unexpected error: %v", err)
	}
	if s.Len() != 3 {
		t.Errorf("simplex: got length %d, want %d", s.Len(), 3)
	}
	p, _ := s.Floats()
	if !reflect.DeepEqual(p, []float64{0.2, 0.3, 0.5}) {
		t.Errorf("simplex: got %v, want %v", p, []float64{0.2, 0.3, 0.5})
	}

	tests := map[string][]float64{
		"empty":     {},
		"sum":       {0.2, 0.2},
		"negative":  {-0.5, 1.5},
		"above one": {1.5, -0.5},
		"nan":       {math.NaN(), 1},
	}
	for name, p := range tests {
		if _, err := value.NewSimplex(p...); !errors.Is(err, value.ErrInvalid) {
			t.Errorf("simplex %s: got error %v, want %v", name, err, value.ErrInvalid)
		}
	}

	n, err := value.Normalize(1, 1, 2)
	if err != nil {
		t.Fatalf("normalize: unexpected error: %v", err)
	}
	want, _ := value.NewSimplex(0.25, 0.25, 0.5)
	if !n.Equal(want) {
		t.Errorf("normalize: got %v, want %v", n, want)
	}
	if _, err := value.Normalize(0, 0); !errors.Is(err, value.ErrInvalid) {
		t.Errorf("normalize zero weights: got error %v, want %v", err, value.ErrInvalid)
	}
}

func TestVector(t *testing.T) {
	src := []float64{1, 2, 3}
	v, err := value.Reals(src...)
	if err != nil {
		t.Fatalf("vector: unexpected error: %v", err)
	}
	src[0] = 10
	if v.At(0).Float() != 1 {
		t.Errorf("vector: values must not alias the source slice")
	}

	xs, err := v.Floats()
	if err != nil {
		t.Fatalf("vector: unexpected error: %v", err)
	}
	if !reflect.DeepEqual(xs, []float64{1, 2, 3}) {
		t.Errorf("vector: got %v, want %v", xs, []float64{1, 2, 3})
	}

	nested := value.NewVector(v, value.NewInteger(1))
	if _, err := nested.Floats(); !errors.Is(err, value.ErrInvalid) {
		t.Errorf("nested vector: got error %v, want %v", err, value.ErrInvalid)
	}

	if !value.Integers(1, 0, 1).Equal(value.Integers(1, 0, 1)) {
		t.Errorf("integers: expecting equal vectors")
	}
	if value.Integers(1, 0).Equal(value.Integers(1, 0, 1)) {
		t.Errorf("integers: expecting different vectors")
	}
	if got := value.Integers(1, 0, 1).String(); got != "[1,0,1]" {
		t.Errorf("string: got %q, want %q", got, "[1,0,1]")
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range []value.Kind{value.Real, value.Integer, value.PositiveReal, value.Vector, value.Simplex} {
		got, err := value.ParseKind(k.String())
		if err != nil {
			t.Errorf("kind %s: unexpected error: %v", k, err)
			continue
		}
		if got != k {
			t.Errorf("kind %s: got %s", k, got)
		}
	}
	if _, err := value.ParseKind("matrix"); err == nil {
		t.Errorf("kind matrix: expecting error")
	}
}

func TestAtOutOfRange(t *testing.T) {
	p, err := value.NewSimplex(1, 1)
	if err != nil {
		t.Fatalf("simplex: unexpected error: %v", err)
	}
	tests := map[string]struct {
		v value.Value
		i int
	}{
		"scalar":  {value.NewInteger(3), 1},
		"vector":  {value.NewVector(value.NewInteger(1)), 1},
		"simplex": {p, -1},
		"null":    {value.Value{}, 0},
	}
	for name, test := range tests {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("%s: At(%d): expecting panic", name, test.i)
				}
			}()
			test.v.At(test.i)
		}()
	}

	if got := value.NewInteger(3).At(0).Int(); got != 3 {
		t.Errorf("scalar: At(0): got %d, want %d", got, 3)
	}
}
