// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package mcmc implements a Metropolis-Hastings
// Markov chain Monte Carlo sampler
// over the nodes of a workspace.
//
// Each proposal changes the value of a single node,
// the dependent nodes are updated,
// and the proposal is accepted
// (storing the new values)
// or rejected
// (restoring the saved values).
package mcmc

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/js-arias/revdag/dag"
	"github.com/js-arias/revdag/internal/ctxlog"
	"github.com/js-arias/revdag/value"
	"github.com/js-arias/revdag/workspace"
	"golang.org/x/exp/rand"
)

// A Recorder records the samples of a chain.
type Recorder interface {
	// Record records a sample.
	Record(gen int, lnProb float64, values []float64) error
}

// Param contains the parameters of a chain.
type Param struct {
	// Number of generations.
	Generations int

	// Number of generations discarded
	// at the start of the chain.
	Burnin int

	// Sampling frequency
	// (in generations).
	Sample int

	// Seed for the random number generator.
	Seed uint64

	// Tuning interval during burnin
	// (in generations).
	// If 0,
	// moves are not tuned.
	Tune int
}

// MoveStats are the acceptance statistics
// of a move.
type MoveStats struct {
	Name     string
	Tried    int
	Accepted int
}

// Rate returns the acceptance rate.
func (s MoveStats) Rate() float64 {
	if s.Tried == 0 {
		return 0
	}
	return float64(s.Accepted) / float64(s.Tried)
}

type monitor struct {
	name string
	id   dag.NodeID
	size int
}

// A Chain is a Markov chain.
type Chain struct {
	ws    *workspace.Workspace
	moves []Move
	p     Param
	r     *rand.Rand

	total    float64 // sum of move weights
	stats    []MoveStats
	tuneStat []MoveStats

	monitors []monitor
}

// New creates a new chain
// over a workspace
// with the given moves.
func New(ws *workspace.Workspace, moves []Move, p Param) (*Chain, error) {
	if len(moves) == 0 {
		return nil, fmt.Errorf("chain without moves")
	}
	if p.Generations < 1 {
		return nil, fmt.Errorf("invalid number of generations: %d", p.Generations)
	}
	if p.Sample < 1 {
		p.Sample = 1
	}
	if p.Burnin < 0 || p.Burnin >= p.Generations {
		return nil, fmt.Errorf("invalid burnin: %d", p.Burnin)
	}

	c := &Chain{
		ws:       ws,
		moves:    moves,
		p:        p,
		r:        rand.New(rand.NewSource(p.Seed)),
		stats:    make([]MoveStats, len(moves)),
		tuneStat: make([]MoveStats, len(moves)),
	}
	g := ws.Graph()
	for i, m := range moves {
		if !g.Contains(m.Node()) {
			return nil, fmt.Errorf("move %s: %w", m.Name(), dag.ErrUnknownNode)
		}
		if g.Kind(m.Node()) == dag.Deterministic || g.IsClamped(m.Node()) {
			return nil, fmt.Errorf("move %s: %w", m.Name(), dag.ErrNotSettable)
		}
		c.total += m.Weight()
		c.stats[i].Name = m.Name()
	}
	return c, nil
}

// Monitor sets the symbols recorded in each sample.
// Only symbols with numeric values
// (numbers, vectors of numbers, or simplexes)
// can be monitored.
func (c *Chain) Monitor(names ...string) error {
	g := c.ws.Graph()
	c.monitors = c.monitors[:0]
	for _, n := range names {
		id, err := c.ws.MustLookup(n)
		if err != nil {
			return err
		}
		v := g.Value(id)
		if _, err := v.Floats(); err != nil || v.IsNull() {
			return fmt.Errorf("monitor %q: invalid value %v", n, v)
		}
		c.monitors = append(c.monitors, monitor{
			name: n,
			id:   id,
			size: v.Len(),
		})
	}
	return nil
}

// Columns returns the names of the monitored values.
// Vectors are expanded using the element index,
// for example "pi[0]".
func (c *Chain) Columns() []string {
	var cols []string
	for _, m := range c.monitors {
		if m.size == 1 && c.ws.Graph().Value(m.id).IsNumber() {
			cols = append(cols, m.name)
			continue
		}
		for i := 0; i < m.size; i++ {
			cols = append(cols, m.name+"["+strconv.Itoa(i)+"]")
		}
	}
	return cols
}

// Stats returns the acceptance statistics
// of the moves.
func (c *Chain) Stats() []MoveStats {
	return append([]MoveStats(nil), c.stats...)
}

// Run runs the chain,
// sending the samples to the recorder.
// The chain runs as an execution pass of the workspace,
// so the workspace structure can not be modified
// during the run.
//
// The context is checked before each generation,
// if the context is canceled
// the chain stops
// and returns the context error.
func (c *Chain) Run(ctx context.Context, rec Recorder) error {
	return c.ws.Pass(func(g *dag.Graph) error {
		return c.run(ctx, g, rec)
	})
}

func (c *Chain) run(ctx context.Context, g *dag.Graph, rec Recorder) error {
	logger := ctxlog.FromContext(ctx)
	logger.Info("chain started", "generations", c.p.Generations, "burnin", c.p.Burnin, "moves", len(c.moves))

	lp, err := LnPosterior(g)
	if err != nil {
		return fmt.Errorf("initial state: %w", err)
	}
	if math.IsInf(lp, -1) || math.IsNaN(lp) {
		return fmt.Errorf("initial state: %w: posterior probability %v", value.ErrInvalid, lp)
	}

	steps := int(math.Round(c.total))
	if steps < 1 {
		steps = 1
	}
	report := c.p.Generations / 10
	if report < 1 {
		report = 1
	}

	for gen := 1; gen <= c.p.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			logger.Info("chain canceled", "generation", gen)
			return err
		}

		for s := 0; s < steps; s++ {
			i := c.pick()
			delta, err := c.step(g, c.moves[i])
			if err != nil {
				return fmt.Errorf("generation %d: %w", gen, err)
			}
			c.stats[i].Tried++
			c.tuneStat[i].Tried++
			if !math.IsInf(delta, -1) {
				c.stats[i].Accepted++
				c.tuneStat[i].Accepted++
				lp += delta
			}
		}

		if c.p.Tune > 0 && gen <= c.p.Burnin && gen%c.p.Tune == 0 {
			c.tune()
		}
		if gen > c.p.Burnin && (gen-c.p.Burnin)%c.p.Sample == 0 {
			if err := rec.Record(gen, lp, c.values(g)); err != nil {
				return fmt.Errorf("generation %d: %w", gen, err)
			}
		}
		if gen%report == 0 {
			logger.Info("chain", "generation", gen, "lnProb", lp)
		}
	}

	for _, s := range c.stats {
		logger.Debug("move", "name", s.Name, "tried", s.Tried, "accepted", s.Accepted, "rate", s.Rate())
	}
	logger.Info("chain done", "lnProb", lp)
	return nil
}

// Pick returns a random move
// proportional to its weight.
func (c *Chain) pick() int {
	u := c.r.Float64() * c.total
	for i, m := range c.moves {
		u -= m.Weight()
		if u < 0 {
			return i
		}
	}
	return len(c.moves) - 1
}

// Step performs a single proposal.
// If accepted,
// it returns the change in the log posterior,
// otherwise it returns -Inf.
func (c *Chain) step(g *dag.Graph, m Move) (float64, error) {
	id := m.Node()
	aff := g.Affected(id)
	old, err := sumLnProb(g, aff)
	if err != nil {
		return 0, err
	}

	h, err := m.Propose(g, c.r)
	if err != nil {
		return 0, err
	}
	if math.IsInf(h, -1) {
		return h, g.Restore(id)
	}

	if err := g.Update(id); err != nil {
		// a failing deterministic function
		// rejects the proposal
		return math.Inf(-1), g.Restore(id)
	}
	nw, err := sumLnProb(g, aff)
	if err != nil || math.IsNaN(nw) || math.IsInf(nw, -1) {
		return math.Inf(-1), g.Restore(id)
	}

	ratio := nw - old + h
	if ratio >= 0 || math.Log(c.r.Float64()) < ratio {
		return nw - old, g.Store(id)
	}
	return math.Inf(-1), g.Restore(id)
}

func (c *Chain) tune() {
	for i, m := range c.moves {
		if c.tuneStat[i].Tried == 0 {
			continue
		}
		m.Tune(c.tuneStat[i].Rate())
		c.tuneStat[i] = MoveStats{Name: c.tuneStat[i].Name}
	}
}

func (c *Chain) values(g *dag.Graph) []float64 {
	var vals []float64
	for _, m := range c.monitors {
		x, _ := g.Value(m.id).Floats()
		vals = append(vals, x...)
	}
	return vals
}

// LnPosterior returns the sum of the log probabilities
// of all the stochastic nodes of a graph.
func LnPosterior(g *dag.Graph) (float64, error) {
	var ids []dag.NodeID
	for _, id := range g.Nodes() {
		if g.Kind(id) == dag.Stochastic {
			ids = append(ids, id)
		}
	}
	return sumLnProb(g, ids)
}

func sumLnProb(g *dag.Graph, ids []dag.NodeID) (float64, error) {
	var sum float64
	for _, id := range ids {
		lp, err := g.LnProb(id)
		if err != nil {
			return 0, err
		}
		sum += lp
	}
	return sum, nil
}
