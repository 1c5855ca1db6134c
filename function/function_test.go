// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package function_test

import (
	"errors"
	"math"
	"testing"

	"github.com/js-arias/revdag/function"
	"github.com/js-arias/revdag/value"
)

func mustReal(t testing.TB, x float64) value.Value {
	t.Helper()
	v, err := value.NewReal(x)
	if err != nil {
		t.Fatalf("real %v: %v", x, err)
	}
	return v
}

func mustReals(t testing.TB, xs ...float64) value.Value {
	t.Helper()
	v, err := value.Reals(xs...)
	if err != nil {
		t.Fatalf("reals %v: %v", xs, err)
	}
	return v
}

func TestEval(t *testing.T) {
	tab := function.Default()

	tests := map[string]struct {
		fn   string
		args []value.Value
		want value.Value
	}{
		"add integers": {
			fn:   "add",
			args: []value.Value{value.NewInteger(2), value.NewInteger(3)},
			want: value.NewInteger(5),
		},
		"add reals": {
			fn:   "add",
			args: []value.Value{mustReal(t, 2.5), value.NewInteger(3)},
			want: mustReal(t, 5.5),
		},
		"mul broadcast": {
			fn:   "mul",
			args: []value.Value{mustReal(t, 2), mustReals(t, 1, 2, 3)},
			want: mustReals(t, 2, 4, 6),
		},
		"sub vectors": {
			fn:   "sub",
			args: []value.Value{mustReals(t, 3, 2), mustReals(t, 1, 1)},
			want: mustReals(t, 2, 1),
		},
		"div": {
			fn:   "div",
			args: []value.Value{value.NewInteger(1), value.NewInteger(4)},
			want: mustReal(t, 0.25),
		},
		"exp": {
			fn:   "exp",
			args: []value.Value{mustReal(t, 0)},
			want: mustReal(t, 1),
		},
		"sum integers": {
			fn:   "sum",
			args: []value.Value{value.Integers(1, 2, 3), value.NewInteger(4)},
			want: value.NewInteger(10),
		},
		"mean": {
			fn:   "mean",
			args: []value.Value{mustReals(t, 1, 2, 3, 6)},
			want: mustReal(t, 3),
		},
		"vector": {
			fn:   "vector",
			args: []value.Value{value.NewInteger(1), value.NewInteger(2)},
			want: value.Integers(1, 2),
		},
	}

	for name, test := range tests {
		f, err := tab.Lookup(test.fn)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		got, err := f.Eval(test.args)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", name, err)
			continue
		}
		if !got.Equal(test.want) {
			t.Errorf("%s: got %v, want %v", name, got, test.want)
		}
	}
}

func TestEvalErrors(t *testing.T) {
	tab := function.Default()

	tests := map[string]struct {
		fn   string
		args []value.Value
		err  error
	}{
		"arity": {
			fn:   "add",
			args: []value.Value{value.NewInteger(1)},
			err:  function.ErrArgs,
		},
		"division by zero": {
			fn:   "div",
			args: []value.Value{value.NewInteger(1), value.NewInteger(0)},
			err:  value.ErrInvalid,
		},
		"log of negative": {
			fn:   "log",
			args: []value.Value{mustReal(t, -1)},
			err:  value.ErrInvalid,
		},
		"different length": {
			fn:   "add",
			args: []value.Value{mustReals(t, 1, 2), mustReals(t, 1, 2, 3)},
			err:  function.ErrArgs,
		},
		"undefined": {
			fn:   "identity",
			args: []value.Value{{}},
			err:  function.ErrArgs,
		},
	}

	for name, test := range tests {
		f, _ := tab.Lookup(test.fn)
		if _, err := f.Eval(test.args); !errors.Is(err, test.err) {
			t.Errorf("%s: got error %v, want %v", name, err, test.err)
		}
	}

	if _, err := tab.Lookup("unknown"); err == nil {
		t.Errorf("lookup: expecting error for unknown function")
	}
}

func TestNormalize(t *testing.T) {
	f, _ := function.Default().Lookup("normalize")
	got, err := f.Eval([]value.Value{value.Integers(1, 1, 2)})
	if err != nil {
		t.Fatalf("normalize: unexpected error: %v", err)
	}
	want, _ := value.NewSimplex(0.25, 0.25, 0.5)
	if !got.Equal(want) {
		t.Errorf("normalize: got %v, want %v", got, want)
	}
}

func TestDiscreteGamma(t *testing.T) {
	c, err := function.DiscreteGamma(1, 4)
	if err != nil {
		t.Fatalf("discrete gamma: unexpected error: %v", err)
	}
	if len(c) != 4 {
		t.Fatalf("discrete gamma: got %d categories, want %d", len(c), 4)
	}
	// alpha = beta = 1 is an exponential with rate 1
	for i, x := range c {
		p := (float64(i) + 0.5) / 4
		want := -math.Log(1 - p)
		if math.Abs(x-want) > 1e-6 {
			t.Errorf("category %d: got %.6f, want %.6f", i, x, want)
		}
		if i > 0 && x <= c[i-1] {
			t.Errorf("category %d: values not increasing", i)
		}
	}

	if _, err := function.DiscreteGamma(0, 4); !errors.Is(err, value.ErrInvalid) {
		t.Errorf("discrete gamma: got error %v, want %v", err, value.ErrInvalid)
	}
}

func TestDiscreteLogNormal(t *testing.T) {
	c, err := function.DiscreteLogNormal(0.5, 3)
	if err != nil {
		t.Fatalf("discrete log normal: unexpected error: %v", err)
	}
	// the middle category is the median
	if math.Abs(c[1]-1) > 1e-6 {
		t.Errorf("median category: got %.6f, want %.6f", c[1], 1.0)
	}
}
