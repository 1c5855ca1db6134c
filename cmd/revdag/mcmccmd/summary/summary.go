// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package summary implements a command to summarize
// the samples of an MCMC trace file.
package summary

import (
	"fmt"
	"strings"

	"github.com/js-arias/command"
	"github.com/js-arias/revdag/tools"
	"github.com/js-arias/revdag/trace"
)

var Command = &command.Command{
	Usage: `summary [--burnin <value>]
	[--plot <prefix>] [--hist <bins>]
	<trace-file>`,
	Short: "summarize an MCMC trace",
	Long: `
Command summary reads an MCMC trace file and prints, for the log posterior and
each sampled parameter, the mean, the standard deviation, the 95% credible
interval, and the effective sample size (ESS).

The argument of the command is the name of the trace file.

The flag --burnin sets the fraction of the samples discarded from the start of
the trace. By default is 0.1.

If the flag --plot is set with a prefix, a trace plot of each parameter is
written as a PNG image, named with the prefix and the name of the parameter. If
the flag --hist is also defined, it writes a histogram of each parameter with
the indicated number of bins.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var burnin float64
var plotPrefix string
var bins int

func setFlags(c *command.Command) {
	c.Flags().Float64Var(&burnin, "burnin", 0.1, "")
	c.Flags().StringVar(&plotPrefix, "plot", "", "")
	c.Flags().IntVar(&bins, "hist", 0, "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting trace file")
	}
	if burnin < 0 || burnin >= 1 {
		return c.UsageError("flag --burnin must be in the interval [0, 1)")
	}

	tr, err := trace.Read(args[0])
	if err != nil {
		return err
	}
	tr = tr.Burnin(burnin)
	if tr.Len() == 0 {
		return fmt.Errorf("on file %q: no samples after burnin", args[0])
	}

	fmt.Fprintf(c.Stdout(), "# trace %q: %d samples\n", args[0], tr.Len())
	if err := tools.WriteSummary(c.Stdout(), tr.Summarize()); err != nil {
		return err
	}

	if plotPrefix == "" {
		return nil
	}
	for _, col := range append([]string{"lnProb"}, tr.Columns()...) {
		name := plotPrefix + "-" + fileCol(col)
		if err := tr.Plot(col, name+".png"); err != nil {
			return err
		}
		if bins > 0 {
			if err := tr.Histogram(col, name+"-hist.png", bins); err != nil {
				return err
			}
		}
	}
	return nil
}

func fileCol(col string) string {
	return strings.NewReplacer("[", "-", "]", "").Replace(col)
}
