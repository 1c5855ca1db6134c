// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package add implements a command to add
// a dataset file to a revdag project.
package add

import (
	"errors"
	"fmt"
	"os"

	"github.com/js-arias/command"
	"github.com/js-arias/revdag/project"
)

var Command = &command.Command{
	Usage: "add <project-file> <dataset> <file>",
	Short: "add a dataset file to a project",
	Long: `
Command add sets the file used for a dataset in a revdag project. The file is
not read, so it can be created or edited after it is added to the project.

The first argument of the command is the name of the project file. If no
project file exists, a new project will be created.

The second argument is the dataset keyword. Valid datasets are:

	snp       SNP data
	microsat  microsatellite data
	dates     taxon dates
	model     model file
	pipeline  pipeline file
	trees     time calibrated trees
	mcmc      MCMC parameters

The third argument is the path of the file. If the path is an empty string
(""), the dataset is removed from the project.
	`,
	Run: run,
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}
	if len(args) < 2 {
		return c.UsageError("expecting dataset")
	}
	if len(args) < 3 {
		return c.UsageError("expecting file")
	}

	set, err := project.ParseDataset(args[1])
	if err != nil {
		return c.UsageError(err.Error())
	}

	p, err := openProject(args[0])
	if err != nil {
		return err
	}
	prev := p.Add(set, args[2])
	if prev != "" && prev != args[2] {
		fmt.Fprintf(c.Stderr(), "dataset %q: replacing file %q\n", set, prev)
	}
	if err := p.Write(); err != nil {
		return err
	}
	return nil
}

func openProject(name string) (*project.Project, error) {
	p, err := project.Read(name)
	if errors.Is(err, os.ErrNotExist) {
		p := project.New()
		p.SetName(name)
		return p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("unable to open project %q: %v", name, err)
	}
	return p, nil
}
