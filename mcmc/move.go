// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package mcmc

import (
	"fmt"
	"math"
	"strings"

	"github.com/js-arias/revdag/dag"
	"github.com/js-arias/revdag/value"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distmv"
)

// A Move is a proposal
// for a new value of a node.
type Move interface {
	// Name returns the name of the move.
	Name() string

	// Node returns the target of the move.
	Node() dag.NodeID

	// Weight returns the relative frequency
	// of the move.
	Weight() float64

	// Propose sets a new value for the target node,
	// and returns the log of the Hastings ratio.
	// If the proposed value is outside the domain
	// of the node,
	// the node is not changed
	// and it returns -Inf.
	Propose(g *dag.Graph, r *rand.Rand) (float64, error)

	// Tune adjusts the tuning parameter of the move
	// using the acceptance rate
	// since the last tuning.
	Tune(rate float64)
}

// TargetRate is the optimal acceptance rate
// used to tune the moves.
const TargetRate = 0.44

// Slide is a move that adds a uniform value
// centered on zero
// to a number,
// or to an element of a vector.
type Slide struct {
	name   string
	id     dag.NodeID
	delta  float64
	weight float64
}

// NewSlide returns a new slide move
// for a node
// with the given window size.
func NewSlide(name string, id dag.NodeID, delta, weight float64) *Slide {
	return &Slide{
		name:   name,
		id:     id,
		delta:  delta,
		weight: weight,
	}
}

// Name returns the name of the move.
func (s *Slide) Name() string { return "slide(" + s.name + ")" }

// Node returns the target of the move.
func (s *Slide) Node() dag.NodeID { return s.id }

// Weight returns the relative frequency of the move.
func (s *Slide) Weight() float64 { return s.weight }

// Delta returns the window size of the move.
func (s *Slide) Delta() float64 { return s.delta }

// Propose proposes a new value.
func (s *Slide) Propose(g *dag.Graph, r *rand.Rand) (float64, error) {
	return perturb(g, s.id, r, func(x float64) (float64, float64) {
		return x + s.delta*(r.Float64()-0.5), 0
	})
}

// Tune adjusts the window size.
func (s *Slide) Tune(rate float64) {
	s.delta = tune(s.delta, rate)
}

// Scale is a move that multiplies a positive number
// (or an element of a vector)
// by a random factor.
type Scale struct {
	name   string
	id     dag.NodeID
	lambda float64
	weight float64
}

// NewScale returns a new scale move
// for a node
// with the given tuning parameter.
func NewScale(name string, id dag.NodeID, lambda, weight float64) *Scale {
	return &Scale{
		name:   name,
		id:     id,
		lambda: lambda,
		weight: weight,
	}
}

// Name returns the name of the move.
func (s *Scale) Name() string { return "scale(" + s.name + ")" }

// Node returns the target of the move.
func (s *Scale) Node() dag.NodeID { return s.id }

// Weight returns the relative frequency of the move.
func (s *Scale) Weight() float64 { return s.weight }

// Lambda returns the tuning parameter of the move.
func (s *Scale) Lambda() float64 { return s.lambda }

// Propose proposes a new value.
func (s *Scale) Propose(g *dag.Graph, r *rand.Rand) (float64, error) {
	return perturb(g, s.id, r, func(x float64) (float64, float64) {
		if x <= 0 {
			return math.NaN(), 0
		}
		u := s.lambda * (r.Float64() - 0.5)
		return x * math.Exp(u), u
	})
}

// Tune adjusts the tuning parameter.
func (s *Scale) Tune(rate float64) {
	s.lambda = tune(s.lambda, rate)
}

// SimplexMove is a move that proposes a new simplex
// from a Dirichlet distribution
// centered on the current value.
type SimplexMove struct {
	name   string
	id     dag.NodeID
	conc   float64
	weight float64
}

// NewSimplexMove returns a new simplex move
// for a node
// with the given concentration.
func NewSimplexMove(name string, id dag.NodeID, conc, weight float64) *SimplexMove {
	return &SimplexMove{
		name:   name,
		id:     id,
		conc:   conc,
		weight: weight,
	}
}

// Name returns the name of the move.
func (s *SimplexMove) Name() string { return "simplex(" + s.name + ")" }

// Node returns the target of the move.
func (s *SimplexMove) Node() dag.NodeID { return s.id }

// Weight returns the relative frequency of the move.
func (s *SimplexMove) Weight() float64 { return s.weight }

// Concentration returns the concentration of the proposal.
func (s *SimplexMove) Concentration() float64 { return s.conc }

// Propose proposes a new value.
func (s *SimplexMove) Propose(g *dag.Graph, r *rand.Rand) (float64, error) {
	v := g.Value(s.id)
	if v.Kind() != value.Simplex {
		return 0, fmt.Errorf("move %s: expecting a simplex, got %s", s.Name(), v.Kind())
	}
	p, _ := v.Floats()

	alpha := make([]float64, len(p))
	for i, x := range p {
		alpha[i] = s.conc * x
		if alpha[i] <= 0 {
			return math.Inf(-1), nil
		}
	}
	np := distmv.NewDirichlet(alpha, r).Rand(nil)
	nv, err := value.Normalize(np...)
	if err != nil {
		return math.Inf(-1), nil
	}
	np, _ = nv.Floats()

	rev := make([]float64, len(np))
	for i, x := range np {
		rev[i] = s.conc * x
		if rev[i] <= 0 {
			return math.Inf(-1), nil
		}
	}
	fwd := distmv.NewDirichlet(alpha, nil).LogProb(np)
	back := distmv.NewDirichlet(rev, nil).LogProb(p)
	if math.IsNaN(fwd) || math.IsInf(fwd, 0) || math.IsNaN(back) {
		return math.Inf(-1), nil
	}

	if err := g.SetValue(s.id, nv); err != nil {
		return 0, err
	}
	return back - fwd, nil
}

// Tune adjusts the concentration.
// Unlike the window size of other moves,
// a high concentration means a small step.
func (s *SimplexMove) Tune(rate float64) {
	s.conc = 1 / tune(1/s.conc, rate)
}

// Perturb applies a perturbation to a number
// or to a random element of a vector.
// The perturbation returns the new value
// and the log Hastings ratio.
func perturb(g *dag.Graph, id dag.NodeID, r *rand.Rand, op func(x float64) (float64, float64)) (float64, error) {
	v := g.Value(id)
	if v.IsNumber() {
		x, h := op(v.Float())
		nv, err := sameKind(v.Kind(), x)
		if err != nil {
			return math.Inf(-1), nil
		}
		if err := g.SetValue(id, nv); err != nil {
			return 0, err
		}
		return h, nil
	}

	if v.Kind() != value.Vector || v.Len() == 0 {
		return 0, fmt.Errorf("node %q: invalid value kind %s", g.Name(id), v.Kind())
	}
	i := r.Intn(v.Len())
	e := v.At(i)
	if !e.IsNumber() {
		return 0, fmt.Errorf("node %q: element %d: invalid value kind %s", g.Name(id), i, e.Kind())
	}
	x, h := op(e.Float())
	ne, err := sameKind(e.Kind(), x)
	if err != nil {
		return math.Inf(-1), nil
	}
	elems := make([]value.Value, v.Len())
	for j := range elems {
		elems[j] = v.At(j)
	}
	elems[i] = ne
	if err := g.SetValue(id, value.NewVector(elems...)); err != nil {
		return 0, err
	}
	return h, nil
}

func sameKind(k value.Kind, x float64) (value.Value, error) {
	switch k {
	case value.PositiveReal:
		return value.NewPositiveReal(x)
	case value.Integer:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return value.Value{}, value.ErrInvalid
		}
		return value.NewInteger(int64(math.Round(x))), nil
	}
	if math.IsInf(x, 0) {
		return value.Value{}, value.ErrInvalid
	}
	return value.NewReal(x)
}

// Tune returns a new tuning parameter
// using the acceptance rate.
func tune(x, rate float64) float64 {
	if rate > TargetRate {
		return x * (1 + (rate-TargetRate)/(1-TargetRate))
	}
	return x / (2 - rate/TargetRate)
}

// NewMove returns a new move
// of the given type.
// Valid types are "slide", "scale",
// and "simplex".
// If the tuning parameter is 0,
// a default value is used.
func NewMove(kind, name string, id dag.NodeID, param, weight float64) (Move, error) {
	if weight <= 0 {
		weight = 1
	}
	switch strings.ToLower(kind) {
	case "slide":
		if param <= 0 {
			param = 1
		}
		return NewSlide(name, id, param, weight), nil
	case "scale":
		if param <= 0 {
			param = 1
		}
		return NewScale(name, id, param, weight), nil
	case "simplex":
		if param <= 0 {
			param = 100
		}
		return NewSimplexMove(name, id, param, weight), nil
	}
	return nil, fmt.Errorf("unknown move %q", kind)
}
