// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package main

import "github.com/js-arias/command"

func init() {
	app.Add(dataFilesGuide)
	app.Add(modelsGuide)
	app.Add(pipelinesGuide)
	app.Add(projectsGuide)
}

var projectsGuide = &command.Command{
	Usage: "projects",
	Short: "about project files",
	Long: `
Revdag requires several files to read and analyze population data. To reduce
the burden of keeping track of many files, a single project file is used to
hold the reference of all files required in the analysis. This guide explains
the structure of the file, but most of the time, the best and most secure way
to edit or view this file is by using revdag commands.

A project file is a tab-delimited file with the following fields:

	- dataset  for the kind of file
	- path     for the path of the file

Here is an example file:

	# revdag project files
	dataset	path
	snp	snp.tab
	dates	dates.tab
	model	model.hcl
	mcmc	mcmc-param.tab

The valid file types are:

- SNP data. Defined by the dataset keyword "snp". This file contains the
  allele counts of biallelic markers for each taxon. See 'revdag help
  data-files'.
- Microsatellite data. Defined by the dataset keyword "microsat". This file
  contains the repeat counts of microsatellite markers for each taxon. See
  'revdag help data-files'.
- Taxon dates. Defined by the dataset keyword "dates". This file contains the
  sampling date of each taxon. See 'revdag help data-files'.
- Model. Defined by the dataset keyword "model". This file contains the
  definition of the graphical model. See 'revdag help models'.
- Pipeline. Defined by the dataset keyword "pipeline". This file contains the
  definition of an analysis pipeline. See 'revdag help pipelines'.
- Time-calibrated trees. Defined by the dataset keyword "trees". This file
  contains one or more trees in the form of a tab-delimited file.
- MCMC parameters. Defined by the dataset keyword "mcmc". This file contains
  the parameters of the MCMC sampler, as a tab-delimited file with the fields
  "parameter" and "value". Valid parameters are "generations", "burnin",
  "sample", "seed", and "tune".

To add a file to a project use the command 'revdag prj add'.
	`,
}

var dataFilesGuide = &command.Command{
	Usage: "data-files",
	Short: "about population data files",
	Long: `
Population data files are text tables with a row for each taxon. The fields
can be delimited by tabs, commas, or blank spaces (the delimiter is detected
from the first data row). Lines starting with '#' are ignored, as well as
empty lines. An optional header row can be given, if the first field of the
row is "taxon".

The first field of each row is the name of the taxon. If the name ends with an
asterisk ('*') the taxon is marked as part of the outgroup. Taxon names are
case sensitive.

In SNP files, the other fields are the allele counts of each site, as
non-negative integers. In microsatellite files, the other fields are the
repeat counts of each locus; a missing observation is indicated by '?', '-',
or "NA". All rows must have the same number of fields.

Here is an example of a SNP file:

	# snp data
	taxon	s0	s1	s2	s3
	Martian	1	0	1	1
	Jovian*	0	2	1	0

SNP and microsatellite data can be thinned, keeping the first site and every
n-th site after it.

Taxon dates files have two fields, the taxon and its sampling date. The date
is either a number (a decimal year, or an age), or a calendar date in the
format YYYY-MM-DD that is converted to a decimal year. Here is an example:

	taxon	date
	Martian	2012.5
	Jovian	2009-07-02
	`,
}

var modelsGuide = &command.Command{
	Usage: "models",
	Short: "about model files",
	Long: `
A model file defines a probabilistic graphical model. It is an HCL file with a
sequence of blocks; each block defines a named node of the model, or an MCMC
move. Blocks are evaluated in order, so a block can only use the names defined
before it.

Here is an example file:

	data "dates" {
		format = "dates"
		file   = "dates.tab"
	}
	constant "n" {
		value = 4
	}
	stochastic "alpha" {
		distribution = "exponential"
		params       = [1]
	}
	deterministic "rates" {
		function = "discretegamma"
		args     = [alpha, n]
	}
	stochastic "x" {
		distribution = "normal"
		params       = [mu, exp(alpha)]
		value        = 1.5
		observed     = true
	}
	move "alpha" {
		type   = "scale"
		weight = 2
	}

Constant blocks require a "value" attribute. Stochastic blocks require a
"distribution" and its parameters ("params"); if an initial "value" is given,
and "observed" is true, the node is clamped to the value. Deterministic blocks
require a "function" and its arguments ("args"); a "label" attribute sets the
name of a labeled node. Constant and stochastic blocks accept a "kind"
attribute to convert the value into "real", "integer", "positive", "vector",
or "simplex".

Valid distributions are "normal", "lognormal", "exponential", "gamma",
"beta", "uniform", "poisson", and "dirichlet". Valid functions are "add",
"sub", "mul", "div", "exp", "log", "sum", "mean", "vector", "normalize",
"identity", "discretegamma", and "discretelognormal".

Data blocks read a data file into a constant node. The "format" is one of
"snp", "microsat", "dates", or "tree". Optional attributes are "thin" (for
SNP and microsatellite data), "delimiter" (for dates), and "tree" (the tree
used to take the terminal ages).

Move blocks are labeled with the target node. The "type" of the move is one
of "slide", "scale", or "simplex"; "size" is the tuning parameter, and
"weight" the relative frequency of the move.

The optional top level attribute "monitor" is the list of names recorded by
the sampler.
	`,
}

var pipelinesGuide = &command.Command{
	Usage: "pipelines",
	Short: "about pipeline files",
	Long: `
A pipeline file defines a sequence of tools executed over a shared
workspace. It is an HCL file with "tool" and "loop" blocks.

A tool block has two labels: the kind of the tool, and a unique name. Blocks
nested in a tool block are the inputs of the tool, and they are executed
before the tool. A loop block has a name, a "repeat" attribute, and a set of
tool or loop blocks executed as a group, the given number of times.

Here is an example file:

	tool "model" "normal" {
		file = "model.hcl"
	}
	loop "chains" {
		repeat = 2
		tool "mcmc" "run" {
			trace       = "trace.tab"
			generations = 100000
		}
	}
	tool "summary" "sum" {
		burnin = 0.1
		plot   = "trace"
	}

Valid tool kinds are:

	data     reads a data file into a node (same attributes as the data
	         block of a model file).
	model    reads a model file ("file").
	mcmc     runs an MCMC chain and writes a trace file ("trace"). The
	         parameters are read from a file ("params") or set with the
	         attributes "generations", "burnin", "sample", "seed", and
	         "tune". Repeated runs add the run number to the trace file name.
	summary  summarizes a trace file ("trace", by default the last one), with
	         optional "burnin" (fraction of discarded samples) and "plot" (a
	         prefix for trace plots).
	print    prints the value of workspace symbols ("symbols").

The execution stops at the first failing tool.
	`,
}
