// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package dist implements the probability distributions
// that can be used in the stochastic nodes of a model graph.
//
// The parameters of a distribution
// are given as the values of the parent nodes,
// in the order given by Params.
package dist

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/js-arias/revdag/dag"
	"github.com/js-arias/revdag/value"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/distuv"
)

// ErrParam is the error returned
// when a distribution parameter is invalid.
var ErrParam = errors.New("invalid distribution parameter")

// Univariate is a distribution over scalar values.
type Univariate struct {
	name   string
	params []string

	// kind of the values
	// (Real, PositiveReal, or Integer).
	kind value.Kind

	build func(p []float64, src rand.Source) (univariate, error)
}

type univariate interface {
	LogProb(x float64) float64
	Rand() float64
}

// Name returns the name of the distribution.
func (u Univariate) Name() string {
	return u.name
}

// Params returns the names of the distribution parameters.
func (u Univariate) Params() []string {
	return slices.Clone(u.params)
}

// Kind returns the kind of the values
// of the distribution.
func (u Univariate) Kind() value.Kind {
	return u.kind
}

// LogProb returns the log density of x.
func (u Univariate) LogProb(x value.Value, params []value.Value) (float64, error) {
	d, err := u.dist(params, nil)
	if err != nil {
		return 0, err
	}
	if !x.IsNumber() {
		return 0, fmt.Errorf("%w: %s: expecting a number, got %s", value.ErrInvalid, u.name, x.Kind())
	}
	if u.kind == value.Integer && x.Kind() != value.Integer {
		return math.Inf(-1), nil
	}
	if u.kind == value.PositiveReal && x.Float() <= 0 {
		return math.Inf(-1), nil
	}
	return d.LogProb(x.Float()), nil
}

// Rand draws a value from the distribution.
func (u Univariate) Rand(src rand.Source, params []value.Value) (value.Value, error) {
	d, err := u.dist(params, src)
	if err != nil {
		return value.Value{}, err
	}
	x := d.Rand()
	switch u.kind {
	case value.Integer:
		return value.NewInteger(int64(x)), nil
	case value.PositiveReal:
		return value.NewPositiveReal(x)
	}
	return value.NewReal(x)
}

func (u Univariate) dist(params []value.Value, src rand.Source) (univariate, error) {
	p, err := scalars(u.name, u.params, params)
	if err != nil {
		return nil, err
	}
	return u.build(p, src)
}

func scalars(name string, names []string, params []value.Value) ([]float64, error) {
	if len(params) != len(names) {
		return nil, fmt.Errorf("%w: %s: expecting %d parameters (%s), got %d", ErrParam, name, len(names), strings.Join(names, ", "), len(params))
	}
	p := make([]float64, len(params))
	for i, v := range params {
		if !v.IsNumber() {
			return nil, fmt.Errorf("%w: %s: parameter %q: expecting a number", ErrParam, name, names[i])
		}
		p[i] = v.Float()
	}
	return p, nil
}

func positive(name, param string, x float64) error {
	if !(x > 0) || math.IsInf(x, 0) {
		return fmt.Errorf("%w: %s: parameter %q: %v", ErrParam, name, param, x)
	}
	return nil
}

// Dirichlet is a Dirichlet distribution
// over simplex values.
// Its only parameter is a vector of concentrations.
type Dirichlet struct{}

// Name returns the name of the distribution.
func (Dirichlet) Name() string {
	return "dirichlet"
}

// Params returns the names of the distribution parameters.
func (Dirichlet) Params() []string {
	return []string{"alpha"}
}

// Kind returns the kind of the values
// of the distribution.
func (Dirichlet) Kind() value.Kind {
	return value.Simplex
}

// LogProb returns the log density of x.
func (d Dirichlet) LogProb(x value.Value, params []value.Value) (float64, error) {
	dd, err := d.dist(params, nil)
	if err != nil {
		return 0, err
	}
	if x.Kind() != value.Simplex {
		return 0, fmt.Errorf("%w: dirichlet: expecting a simplex, got %s", value.ErrInvalid, x.Kind())
	}
	if x.Len() != dd.Dim() {
		return 0, fmt.Errorf("%w: dirichlet: simplex of size %d, want %d", value.ErrInvalid, x.Len(), dd.Dim())
	}
	p, _ := x.Floats()
	return dd.LogProb(p), nil
}

// Rand draws a value from the distribution.
func (d Dirichlet) Rand(src rand.Source, params []value.Value) (value.Value, error) {
	dd, err := d.dist(params, src)
	if err != nil {
		return value.Value{}, err
	}
	return value.Normalize(dd.Rand(nil)...)
}

func (Dirichlet) dist(params []value.Value, src rand.Source) (*distmv.Dirichlet, error) {
	if len(params) != 1 {
		return nil, fmt.Errorf("%w: dirichlet: expecting 1 parameter (alpha), got %d", ErrParam, len(params))
	}
	alpha, err := params[0].Floats()
	if err != nil {
		return nil, fmt.Errorf("%w: dirichlet: parameter \"alpha\": %v", ErrParam, err)
	}
	if len(alpha) < 2 {
		return nil, fmt.Errorf("%w: dirichlet: parameter \"alpha\": expecting at least 2 elements", ErrParam)
	}
	for _, a := range alpha {
		if err := positive("dirichlet", "alpha", a); err != nil {
			return nil, err
		}
	}
	return distmv.NewDirichlet(alpha, src), nil
}

// Distribution is a distribution
// with documented parameters.
type Distribution interface {
	dag.Distribution

	// Params returns the names of the parameters.
	Params() []string

	// Kind returns the kind of the values.
	Kind() value.Kind
}

// Table is a set of distributions
// indexed by name.
type Table map[string]Distribution

// Lookup returns a distribution by its name.
func (t Table) Lookup(name string) (Distribution, error) {
	d, ok := t[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown distribution %q", name)
	}
	return d, nil
}

// Names returns the names of the distributions in the table.
func (t Table) Names() []string {
	names := make([]string, 0, len(t))
	for n := range t {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Default returns a new table
// with all the defined distributions.
func Default() Table {
	t := Table{
		"dirichlet": Dirichlet{},
	}
	for _, u := range []Univariate{
		{
			name:   "normal",
			params: []string{"mean", "sd"},
			kind:   value.Real,
			build: func(p []float64, src rand.Source) (univariate, error) {
				if err := positive("normal", "sd", p[1]); err != nil {
					return nil, err
				}
				return distuv.Normal{Mu: p[0], Sigma: p[1], Src: src}, nil
			},
		},
		{
			name:   "lognormal",
			params: []string{"mu", "sigma"},
			kind:   value.PositiveReal,
			build: func(p []float64, src rand.Source) (univariate, error) {
				if err := positive("lognormal", "sigma", p[1]); err != nil {
					return nil, err
				}
				return distuv.LogNormal{Mu: p[0], Sigma: p[1], Src: src}, nil
			},
		},
		{
			name:   "exponential",
			params: []string{"rate"},
			kind:   value.PositiveReal,
			build: func(p []float64, src rand.Source) (univariate, error) {
				if err := positive("exponential", "rate", p[0]); err != nil {
					return nil, err
				}
				return distuv.Exponential{Rate: p[0], Src: src}, nil
			},
		},
		{
			name:   "gamma",
			params: []string{"shape", "rate"},
			kind:   value.PositiveReal,
			build: func(p []float64, src rand.Source) (univariate, error) {
				if err := positive("gamma", "shape", p[0]); err != nil {
					return nil, err
				}
				if err := positive("gamma", "rate", p[1]); err != nil {
					return nil, err
				}
				return distuv.Gamma{Alpha: p[0], Beta: p[1], Src: src}, nil
			},
		},
		{
			name:   "beta",
			params: []string{"alpha", "beta"},
			kind:   value.Real,
			build: func(p []float64, src rand.Source) (univariate, error) {
				if err := positive("beta", "alpha", p[0]); err != nil {
					return nil, err
				}
				if err := positive("beta", "beta", p[1]); err != nil {
					return nil, err
				}
				return distuv.Beta{Alpha: p[0], Beta: p[1], Src: src}, nil
			},
		},
		{
			name:   "uniform",
			params: []string{"min", "max"},
			kind:   value.Real,
			build: func(p []float64, src rand.Source) (univariate, error) {
				if !(p[0] < p[1]) || math.IsInf(p[0], 0) || math.IsInf(p[1], 0) {
					return nil, fmt.Errorf("%w: uniform: invalid interval [%v, %v]", ErrParam, p[0], p[1])
				}
				return distuv.Uniform{Min: p[0], Max: p[1], Src: src}, nil
			},
		},
		{
			name:   "poisson",
			params: []string{"lambda"},
			kind:   value.Integer,
			build: func(p []float64, src rand.Source) (univariate, error) {
				if err := positive("poisson", "lambda", p[0]); err != nil {
					return nil, err
				}
				return distuv.Poisson{Lambda: p[0], Src: src}, nil
			},
		},
	} {
		t[u.name] = u
	}
	return t
}
