// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package info implements a command to print
// the basic information of a project.
package info

import (
	"context"
	"fmt"
	"io"
	"math"

	"github.com/js-arias/command"
	"github.com/js-arias/revdag/popdata"
	"github.com/js-arias/revdag/project"
	"github.com/js-arias/revdag/syntax"
	"github.com/js-arias/revdag/tools"
	"github.com/js-arias/revdag/workspace"
	"golang.org/x/exp/rand"
)

var Command = &command.Command{
	Usage: "info <project-file>",
	Short: "print information about a project",
	Long: `
Command info reads a revdag project and prints the information of the
different project elements into the standard output.

The argument of the command is the name of the project file.
	`,
	Run: run,
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}

	p, err := project.Read(args[0])
	if err != nil {
		return err
	}

	w := c.Stdout()
	for _, set := range p.Sets() {
		fmt.Fprintf(w, "%s:\n", set)
		fmt.Fprintf(w, "\tfile: %s\n", p.Path(set))
		if err := printInfo(w, p, set); err != nil {
			return err
		}
		fmt.Fprintf(w, "\n")
	}
	return nil
}

func printInfo(w io.Writer, p *project.Project, set project.Dataset) error {
	switch set {
	case project.SNP:
		m, err := p.SNP(1)
		if err != nil {
			return err
		}
		printMatrix(w, m)
	case project.Microsat:
		m, err := p.Microsat(1)
		if err != nil {
			return err
		}
		printMatrix(w, m)
		fmt.Fprintf(w, "\tmissing data: %v\n", m.HasMissing())
	case project.Dates:
		dates, err := p.Dates()
		if err != nil {
			return err
		}
		printDates(w, dates)
	case project.Model:
		env := syntax.NewEnv(workspace.New(), rand.NewSource(1))
		m, err := p.Model(context.Background(), env)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "\tnodes: %d\n", env.Workspace.Graph().Len())
		fmt.Fprintf(w, "\tsymbols: %d\n", len(m.Symbols))
		fmt.Fprintf(w, "\tmoves: %d\n", len(m.Moves))
		fmt.Fprintf(w, "\tmonitors: %d\n", len(m.Monitors))
	case project.Pipeline:
		s := tools.New(syntax.NewEnv(workspace.New(), rand.NewSource(1)), "", io.Discard)
		g, err := p.Pipeline(context.Background(), s.Registry())
		if err != nil {
			return err
		}
		// the root node is not a tool
		fmt.Fprintf(w, "\ttools: %d\n", g.Len()-1)
	case project.Trees:
		tc, err := p.Trees()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "\ttrees: %d\n", len(tc.Names()))
		terms := make(map[string]bool)
		for _, tn := range tc.Names() {
			for _, tax := range tc.Tree(tn).Terms() {
				terms[tax] = true
			}
		}
		fmt.Fprintf(w, "\tterminals: %d\n", len(terms))
	case project.MCMC:
		mp, err := p.MCMCParam()
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "\tgenerations: %d\n", mp.Generations())
		fmt.Fprintf(w, "\tburnin: %d\n", mp.Burnin())
		fmt.Fprintf(w, "\tsample: %d\n", mp.Sample())
		fmt.Fprintf(w, "\tseed: %d\n", mp.Seed())
	}
	return nil
}

func printMatrix(w io.Writer, m *popdata.Matrix) {
	fmt.Fprintf(w, "\ttaxa: %d\n", len(m.Taxa()))
	fmt.Fprintf(w, "\tsites: %d\n", m.Sites())
	if out := m.Outgroup(); len(out) > 0 {
		fmt.Fprintf(w, "\toutgroup: %d\n", len(out))
	}
}

func printDates(w io.Writer, dates []popdata.TaxonDate) {
	min := math.MaxFloat64
	max := -math.MaxFloat64
	for _, d := range dates {
		min = math.Min(min, d.Date)
		max = math.Max(max, d.Date)
	}
	fmt.Fprintf(w, "\ttaxa: %d\n", len(dates))
	if len(dates) > 0 {
		fmt.Fprintf(w, "\tdate range: %.3f-%.3f\n", min, max)
	}
}
