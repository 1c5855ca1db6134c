// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package prj is a metapackage for commands
// that dealt with project files.
package prj

import (
	"github.com/js-arias/command"
	"github.com/js-arias/revdag/cmd/revdag/prj/add"
	"github.com/js-arias/revdag/cmd/revdag/prj/info"
)

var Command = &command.Command{
	Usage: "prj <command> [<argument>...]",
	Short: "commands for project files",
}

func init() {
	Command.Add(add.Command)
	Command.Add(info.Command)
}
