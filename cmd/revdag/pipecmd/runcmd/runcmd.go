// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package runcmd implements a command to execute
// the pipeline of a project.
package runcmd

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/js-arias/command"
	"github.com/js-arias/revdag/internal/ctxlog"
	"github.com/js-arias/revdag/project"
	"github.com/js-arias/revdag/syntax"
	"github.com/js-arias/revdag/tools"
	"github.com/js-arias/revdag/workspace"
	"golang.org/x/exp/rand"
)

var Command = &command.Command{
	Usage: "run [--seed <value>] [-v|--verbose] <project-file>",
	Short: "execute a pipeline",
	Long: `
Command run reads the pipeline file of a revdag project and executes its
tools. All the tools share a single workspace, so the nodes defined by a tool
can be used by the tools executed after it. See 'revdag help pipelines'.

The argument of the command is the name of the project file.

File names in the pipeline are relative to the directory of the pipeline
file.

The flag --seed sets the seed used to draw the initial values of the
stochastic nodes, by default is 1.

The execution stops at the first failing tool, or when it is interrupted with
Ctrl-C.

Use the flag --verbose, or -v, to print debug messages.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var seed uint64
var verbose bool

func setFlags(c *command.Command) {
	c.Flags().Uint64Var(&seed, "seed", 1, "")
	c.Flags().BoolVar(&verbose, "verbose", false, "")
	c.Flags().BoolVar(&verbose, "v", false, "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = ctxlog.WithLogger(ctx, ctxlog.New(c.Stderr(), verbose))

	p, err := project.Read(args[0])
	if err != nil {
		return err
	}

	env := syntax.NewEnv(workspace.New(), rand.NewSource(seed))
	s := tools.New(env, filepath.Dir(p.Path(project.Pipeline)), c.Stdout())
	g, err := p.Pipeline(ctx, s.Registry())
	if err != nil {
		return err
	}
	return g.Execute(ctx)
}
