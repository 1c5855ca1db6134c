// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package dist_test

import (
	"errors"
	"math"
	"testing"

	"github.com/js-arias/revdag/dist"
	"github.com/js-arias/revdag/value"
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

func TestLogProb(t *testing.T) {
	tab := dist.Default()

	tests := map[string]struct {
		dist   string
		x      value.Value
		params []value.Value
		want   float64
	}{
		"normal": {
			dist:   "normal",
			x:      mustReal(t, 0),
			params: []value.Value{mustReal(t, 0), mustReal(t, 1)},
			want:   -0.5 * math.Log(2*math.Pi),
		},
		"exponential": {
			dist:   "exponential",
			x:      mustReal(t, 2),
			params: []value.Value{mustReal(t, 0.5)},
			want:   math.Log(0.5) - 1,
		},
		"exponential outside support": {
			dist:   "exponential",
			x:      mustReal(t, -1),
			params: []value.Value{mustReal(t, 0.5)},
			want:   math.Inf(-1),
		},
		"poisson": {
			dist:   "poisson",
			x:      value.NewInteger(2),
			params: []value.Value{mustReal(t, 1)},
			want:   -1 - math.Log(2),
		},
		"uniform": {
			dist:   "uniform",
			x:      mustReal(t, 0.5),
			params: []value.Value{mustReal(t, 0), mustReal(t, 4)},
			want:   math.Log(0.25),
		},
	}

	for name, test := range tests {
		d, err := tab.Lookup(test.dist)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		got, err := d.LogProb(test.x, test.params)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", name, err)
			continue
		}
		if math.IsInf(test.want, -1) {
			if !math.IsInf(got, -1) {
				t.Errorf("%s: got %v, want -Inf", name, got)
			}
			continue
		}
		if math.Abs(got-test.want) > 1e-9 {
			t.Errorf("%s: got %.9f, want %.9f", name, got, test.want)
		}
	}
}

func TestParams(t *testing.T) {
	tab := dist.Default()

	d, _ := tab.Lookup("normal")
	if _, err := d.LogProb(mustReal(t, 0), []value.Value{mustReal(t, 0), mustReal(t, -1)}); !errors.Is(err, dist.ErrParam) {
		t.Errorf("negative sd: got error %v, want %v", err, dist.ErrParam)
	}
	if _, err := d.LogProb(mustReal(t, 0), []value.Value{mustReal(t, 0)}); !errors.Is(err, dist.ErrParam) {
		t.Errorf("missing parameter: got error %v, want %v", err, dist.ErrParam)
	}
	if _, err := d.LogProb(value.Integers(1, 2), []value.Value{mustReal(t, 0), mustReal(t, 1)}); !errors.Is(err, value.ErrInvalid) {
		t.Errorf("vector value: got error %v, want %v", err, value.ErrInvalid)
	}
}

func TestRand(t *testing.T) {
	tab := dist.Default()
	src := rand.NewSource(1)

	for _, name := range tab.Names() {
		d, _ := tab.Lookup(name)
		var params []value.Value
		switch name {
		case "dirichlet":
			alpha, _ := value.Reals(1, 2, 3)
			params = []value.Value{alpha}
		case "uniform":
			params = []value.Value{mustReal(t, 0), mustReal(t, 1)}
		default:
			for range d.Params() {
				params = append(params, mustReal(t, 2))
			}
		}

		for i := 0; i < 100; i++ {
			v, err := d.Rand(src, params)
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", name, err)
			}
			if v.Kind() != d.Kind() {
				t.Fatalf("%s: got kind %s, want %s", name, v.Kind(), d.Kind())
			}
			lp, err := d.LogProb(v, params)
			if err != nil {
				t.Fatalf("%s: log prob: unexpected error: %v", name, err)
			}
			if math.IsNaN(lp) || math.IsInf(lp, -1) {
				t.Fatalf("%s: value %v outside support", name, v)
			}
		}
	}
}

func TestDirichlet(t *testing.T) {
	d, _ := dist.Default().Lookup("dirichlet")
	alpha, _ := value.Reals(1, 1, 1)
	x, _ := value.NewSimplex(0.2, 0.3, 0.5)

	// flat dirichlet density is Gamma(3) = 2
	lp, err := d.LogProb(x, []value.Value{alpha})
	if err != nil {
		t.Fatalf("dirichlet: unexpected error: %v", err)
	}
	if math.Abs(lp-math.Log(2)) > 1e-9 {
		t.Errorf("dirichlet: got %.9f, want %.9f", lp, math.Log(2))
	}

	small, _ := value.NewSimplex(0.5, 0.5)
	if _, err := d.LogProb(small, []value.Value{alpha}); !errors.Is(err, value.ErrInvalid) {
		t.Errorf("dirichlet size: got error %v, want %v", err, value.ErrInvalid)
	}
}
