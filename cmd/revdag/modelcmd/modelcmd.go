// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package modelcmd is a metapackage for commands
// that dealt with model files.
package modelcmd

import (
	"github.com/js-arias/command"
	"github.com/js-arias/revdag/cmd/revdag/modelcmd/nodes"
)

var Command = &command.Command{
	Usage: "model <command> [<argument>...]",
	Short: "commands for model files",
}

func init() {
	Command.Add(nodes.Command)
}
