// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package runcmd implements a command to run
// an MCMC chain over the model of a project.
package runcmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/js-arias/command"
	"github.com/js-arias/revdag/internal/ctxlog"
	"github.com/js-arias/revdag/mcmc"
	"github.com/js-arias/revdag/project"
	"github.com/js-arias/revdag/syntax"
	"github.com/js-arias/revdag/trace"
	"github.com/js-arias/revdag/workspace"
	"golang.org/x/exp/rand"
)

var Command = &command.Command{
	Usage: `run [-o|--output <file>]
	[--generations <value>] [--seed <value>]
	[-v|--verbose]
	<project-file>`,
	Short: "run an MCMC chain",
	Long: `
Command run reads the model of a revdag project and samples the posterior
distribution of the model with a Metropolis-Hastings MCMC chain, using the
moves defined in the model file.

The argument of the command is the name of the project file.

The parameters of the chain are read from the MCMC parameter file of the
project. If the project does not define a parameter file, the default values
are used (10000 generations, a burnin of 1000 generations, a sample every 10
generations, and tuning the moves every 100 generations). The flags
--generations and --seed override the number of generations and the seed of
the random source. If the number of generations is smaller than the burnin,
the burnin is set to a tenth of the generations.

The samples are written to a trace file, by default 'trace.tab'. Use the flag
--output, or -o, to set a different file name.

The chain can be interrupted with Ctrl-C; the samples taken before the
interruption are kept in the trace file.

Use the flag --verbose, or -v, to print debug messages.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var output string
var generations int
var seed uint64
var verbose bool

func setFlags(c *command.Command) {
	c.Flags().StringVar(&output, "output", "trace.tab", "")
	c.Flags().StringVar(&output, "o", "trace.tab", "")
	c.Flags().IntVar(&generations, "generations", 0, "")
	c.Flags().Uint64Var(&seed, "seed", 0, "")
	c.Flags().BoolVar(&verbose, "verbose", false, "")
	c.Flags().BoolVar(&verbose, "v", false, "")
}

func run(c *command.Command, args []string) (err error) {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	logger := ctxlog.New(c.Stderr(), verbose)
	ctx = ctxlog.WithLogger(ctx, logger)

	p, err := project.Read(args[0])
	if err != nil {
		return err
	}
	mp, err := p.MCMCParam()
	if err != nil {
		return err
	}
	if generations > 0 {
		if err := mp.SetGenerations(generations); err != nil {
			return c.UsageError(err.Error())
		}
		if mp.Burnin() >= generations {
			mp.SetBurnin(generations / 10)
		}
	}
	if seed > 0 {
		mp.SetSeed(seed)
	}
	param := mp.Param()

	env := syntax.NewEnv(workspace.New(), rand.NewSource(param.Seed))
	m, err := p.Model(ctx, env)
	if err != nil {
		return err
	}
	if len(m.Moves) == 0 {
		return fmt.Errorf("model %q: no moves defined", p.Path(project.Model))
	}

	ch, err := mcmc.New(env.Workspace, m.Moves, param)
	if err != nil {
		return err
	}
	if err := ch.Monitor(m.Monitors...); err != nil {
		return err
	}

	f, err := os.Create(output)
	if err != nil {
		return err
	}
	defer func() {
		e := f.Close()
		if e != nil && err == nil {
			err = e
		}
	}()

	fmt.Fprintf(f, "# mcmc trace of project %q\n", args[0])
	fmt.Fprintf(f, "# seed: %d\n", param.Seed)
	fmt.Fprintf(f, "# date: %s\n", time.Now().Format(time.RFC3339))
	w, err := trace.NewWriter(f, ch.Columns())
	if err != nil {
		return fmt.Errorf("on file %q: %v", output, err)
	}

	start := time.Now()
	runErr := ch.Run(ctx, w)
	if err := w.Flush(); err != nil {
		return fmt.Errorf("on file %q: %v", output, err)
	}
	if runErr != nil {
		return runErr
	}

	for _, st := range ch.Stats() {
		logger.Info("move", "name", st.Name, "tried", st.Tried, "rate", st.Rate())
	}
	logger.Info("chain done", "file", output, "elapsed", time.Since(start).Round(time.Millisecond))
	return nil
}
