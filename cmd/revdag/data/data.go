// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package data is a metapackage for commands
// that dealt with population data.
package data

import (
	"github.com/js-arias/command"
	"github.com/js-arias/revdag/cmd/revdag/data/dates"
	"github.com/js-arias/revdag/cmd/revdag/data/matrix"
)

var Command = &command.Command{
	Usage: "data <command> [<argument>...]",
	Short: "commands for population data",
}

func init() {
	Command.Add(dates.Command)
	Command.Add(matrix.Command)
}
