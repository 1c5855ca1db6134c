// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Revdag is a tool for Bayesian inference
// on probabilistic graphical models
// of population data.
package main

import (
	"github.com/js-arias/command"
	"github.com/js-arias/revdag/cmd/revdag/data"
	"github.com/js-arias/revdag/cmd/revdag/mcmccmd"
	"github.com/js-arias/revdag/cmd/revdag/modelcmd"
	"github.com/js-arias/revdag/cmd/revdag/pipecmd"
	"github.com/js-arias/revdag/cmd/revdag/prj"
	"github.com/js-arias/revdag/cmd/revdag/tree"
)

var app = &command.Command{
	Usage: "revdag <command> [<argument>...]",
	Short: "a tool for Bayesian inference on graphical models",
}

func init() {
	app.Add(prj.Command)
	app.Add(data.Command)
	app.Add(modelcmd.Command)
	app.Add(mcmccmd.Command)
	app.Add(pipecmd.Command)
	app.Add(tree.Command)
}

func main() {
	app.Main()
}
