// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package tree is a metapackage for commands
// that dealt with time calibrated trees.
package tree

import (
	"github.com/js-arias/command"
	"github.com/js-arias/revdag/cmd/revdag/tree/dates"
)

var Command = &command.Command{
	Usage: "tree <command> [<argument>...]",
	Short: "commands for time calibrated trees",
}

func init() {
	Command.Add(dates.Command)
}
