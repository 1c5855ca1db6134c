// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package mcmccmd is a metapackage for commands
// that run and summarize MCMC chains.
package mcmccmd

import (
	"github.com/js-arias/command"
	"github.com/js-arias/revdag/cmd/revdag/mcmccmd/runcmd"
	"github.com/js-arias/revdag/cmd/revdag/mcmccmd/summary"
)

var Command = &command.Command{
	Usage: "mcmc <command> [<argument>...]",
	Short: "commands for MCMC sampling",
}

func init() {
	Command.Add(runcmd.Command)
	Command.Add(summary.Command)
}
