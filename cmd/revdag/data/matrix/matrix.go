// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package matrix implements a command to print
// the taxa of a population data matrix.
package matrix

import (
	"fmt"
	"text/tabwriter"

	"github.com/js-arias/command"
	"github.com/js-arias/revdag/popdata"
	"github.com/js-arias/revdag/project"
)

var Command = &command.Command{
	Usage: "matrix [--microsat] [--thin <value>] <project-file>",
	Short: "print the taxa of a data matrix",
	Long: `
Command matrix reads the population data matrix of a revdag project, and
prints the taxa of the matrix, with the number of sites, the number of missing
observations, and whether the taxon is part of the outgroup.

The argument of the command is the name of the project file.

By default, the SNP data of the project is used. Use the flag --microsat to
read the microsatellite data.

The flag --thin keeps the first site and every n-th site after it. By default
all sites are used.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var microsat bool
var thinBy int

func setFlags(c *command.Command) {
	c.Flags().BoolVar(&microsat, "microsat", false, "")
	c.Flags().IntVar(&thinBy, "thin", 1, "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}
	if thinBy < 1 {
		return c.UsageError("flag --thin must be a positive integer")
	}

	p, err := project.Read(args[0])
	if err != nil {
		return err
	}

	var m *popdata.Matrix
	if microsat {
		m, err = p.Microsat(thinBy)
	} else {
		m, err = p.SNP(thinBy)
	}
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(c.Stdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "taxon\tsites\tmissing\toutgroup\n")
	for _, tax := range m.Taxa() {
		var missing int
		for _, x := range m.Row(tax) {
			if x == popdata.Missing {
				missing++
			}
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%v\n", tax, m.Sites(), missing, m.IsOutgroup(tax))
	}
	return w.Flush()
}
