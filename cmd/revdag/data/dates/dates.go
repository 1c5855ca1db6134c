// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package dates implements a command to print
// the sampling dates of the taxa in a project.
package dates

import (
	"cmp"
	"fmt"
	"slices"
	"text/tabwriter"

	"github.com/js-arias/command"
	"github.com/js-arias/revdag/popdata"
	"github.com/js-arias/revdag/project"
)

var Command = &command.Command{
	Usage: "dates [--relative] <project-file>",
	Short: "print taxon dates",
	Long: `
Command dates reads the taxon dates of a revdag project and prints them into
the standard output, sorted from the most recent sample.

The argument of the command is the name of the project file.

If the flag --relative is set, the dates are printed as the time elapsed since
the most recent sample.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var relative bool

func setFlags(c *command.Command) {
	c.Flags().BoolVar(&relative, "relative", false, "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}

	p, err := project.Read(args[0])
	if err != nil {
		return err
	}
	dates, err := p.Dates()
	if err != nil {
		return err
	}
	if len(dates) == 0 {
		return nil
	}

	slices.SortStableFunc(dates, func(a, b popdata.TaxonDate) int {
		return cmp.Compare(b.Date, a.Date)
	})
	last := dates[0].Date

	w := tabwriter.NewWriter(c.Stdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "taxon\tdate\n")
	for _, d := range dates {
		x := d.Date
		if relative {
			x = last - x
		}
		fmt.Fprintf(w, "%s\t%.6f\n", d.Taxon, x)
	}
	return w.Flush()
}
