// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package dates implements a command to write
// the ages of the terminals of a tree
// as a taxon dates file.
package dates

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/js-arias/command"
	"github.com/js-arias/revdag/popdata"
	"github.com/js-arias/revdag/project"
)

var Command = &command.Command{
	Usage: "dates [--tree <name>] [-o|--output <file>] <project-file>",
	Short: "write terminal ages as taxon dates",
	Long: `
Command dates reads the trees of a revdag project and writes the ages of the
terminals of a tree as a taxon dates file. Ages are in million years.

The argument of the command is the name of the project file.

By default the first tree of the project is used. Use the flag --tree to
select a different tree.

By default the dates are written into the standard output. Use the flag
--output, or -o, to write the dates into a file. If the file is written, it
is also added as the taxon dates of the project.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var treeName string
var output string

func setFlags(c *command.Command) {
	c.Flags().StringVar(&treeName, "tree", "", "")
	c.Flags().StringVar(&output, "output", "", "")
	c.Flags().StringVar(&output, "o", "", "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}

	p, err := project.Read(args[0])
	if err != nil {
		return err
	}
	tc, err := p.Trees()
	if err != nil {
		return err
	}

	names := tc.Names()
	if treeName == "" && len(names) > 0 {
		treeName = names[0]
	}
	if !slices.Contains(names, treeName) {
		return fmt.Errorf("tree %q not found in project %q", treeName, args[0])
	}
	dates := popdata.DatesFromTree(tc.Tree(treeName))

	if output == "" {
		return writeDates(c.Stdout(), treeName, dates)
	}
	if err := writeFile(output, treeName, dates); err != nil {
		return err
	}
	p.Add(project.Dates, output)
	return p.Write()
}

func writeFile(name, tree string, dates []popdata.TaxonDate) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		e := f.Close()
		if e != nil && err == nil {
			err = e
		}
	}()

	if err := writeDates(f, tree, dates); err != nil {
		return fmt.Errorf("while writing to %q: %v", name, err)
	}
	return nil
}

func writeDates(w io.Writer, tree string, dates []popdata.TaxonDate) error {
	fmt.Fprintf(w, "# terminal ages of tree %q, in million years\n", tree)
	fmt.Fprintf(w, "taxon\tdate\n")
	for _, d := range dates {
		if _, err := fmt.Fprintf(w, "%s\t%.6f\n", d.Taxon, d.Date); err != nil {
			return err
		}
	}
	return nil
}
