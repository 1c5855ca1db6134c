// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package nodes implements a command to print
// the nodes of a model.
package nodes

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/js-arias/command"
	"github.com/js-arias/revdag/dag"
	"github.com/js-arias/revdag/project"
	"github.com/js-arias/revdag/syntax"
	"github.com/js-arias/revdag/workspace"
	"golang.org/x/exp/rand"
)

var Command = &command.Command{
	Usage: "nodes [--seed <value>] [--moves] <project-file>",
	Short: "print the nodes of a model",
	Long: `
Command nodes reads the model of a revdag project and prints the nodes of the
model graph in dependency order (every node is printed after its parents).

The argument of the command is the name of the project file.

For each node, the output includes the node name (unnamed nodes are printed as
#<id>), its kind, its function or distribution, its current value, and the
names of its parents. Stochastic nodes also include its log probability.

The initial values of stochastic nodes without a value in the model file are
drawn at random. Use the flag --seed to set the seed of the random source, by
default is 1.

If the flag --moves is set, the moves defined in the model are also printed.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var seed uint64
var printMoves bool

func setFlags(c *command.Command) {
	c.Flags().Uint64Var(&seed, "seed", 1, "")
	c.Flags().BoolVar(&printMoves, "moves", false, "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}

	p, err := project.Read(args[0])
	if err != nil {
		return err
	}

	env := syntax.NewEnv(workspace.New(), rand.NewSource(seed))
	m, err := p.Model(context.Background(), env)
	if err != nil {
		return err
	}

	g := env.Workspace.Graph()
	w := tabwriter.NewWriter(c.Stdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "node\tkind\tdefinition\tvalue\tlnProb\tparents\n")
	for _, id := range g.Sorted() {
		var def, lp string
		switch g.Kind(id) {
		case dag.Deterministic:
			def = g.Function(id).Name()
		case dag.Stochastic:
			def = g.Distribution(id).Name()
			x, err := g.LnProb(id)
			if err != nil {
				return fmt.Errorf("node %s: %v", nodeName(g, id), err)
			}
			lp = strconv.FormatFloat(x, 'f', 6, 64)
		}
		kind := g.Kind(id).String()
		if g.IsClamped(id) {
			kind = "observed"
		}

		parents := make([]string, 0, len(g.Parents(id)))
		for _, pID := range g.Parents(id) {
			parents = append(parents, nodeName(g, pID))
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", nodeName(g, id), kind, def, g.Value(id), lp, strings.Join(parents, ","))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if !printMoves {
		return nil
	}
	fmt.Fprintf(c.Stdout(), "\n")
	w = tabwriter.NewWriter(c.Stdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "move\tweight\n")
	for _, mv := range m.Moves {
		fmt.Fprintf(w, "%s\t%.3f\n", mv.Name(), mv.Weight())
	}
	return w.Flush()
}

func nodeName(g *dag.Graph, id dag.NodeID) string {
	if name := g.Name(id); name != "" {
		return name
	}
	return "#" + strconv.Itoa(int(id))
}
