// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package pipecmd is a metapackage for commands
// that dealt with pipeline files.
package pipecmd

import (
	"github.com/js-arias/command"
	"github.com/js-arias/revdag/cmd/revdag/pipecmd/runcmd"
)

var Command = &command.Command{
	Usage: "pipeline <command> [<argument>...]",
	Short: "commands for pipeline files",
}

func init() {
	Command.Add(runcmd.Command)
}
