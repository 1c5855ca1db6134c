// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package tools implements the tools
// that can be used in a pipeline file.
//
// All the tools of a session
// share the same workspace.
// Valid tool kinds are:
//
//   - data, reads a data file into a constant node,
//     named by the tool name.
//     It accepts the attributes of a model data block.
//   - model, reads a model file
//     (attribute "file").
//   - mcmc, runs an MCMC chain over the moves
//     of the models already read,
//     and writes the samples into a trace file
//     (attribute "trace").
//     The chain parameters can be read from a parameter file
//     (attribute "params")
//     or set with the attributes "generations", "burnin",
//     "sample", "seed", and "tune".
//     The optional "monitor" attribute
//     sets the names recorded in the trace.
//     If the tool is repeated,
//     each run writes a new trace file
//     with the run number added to the file name,
//     and the seed is incremented.
//   - summary, summarizes a trace
//     (attribute "trace",
//     by default the last trace written in the session),
//     the optional "burnin" attribute
//     is the fraction of samples discarded,
//     and the optional "plot" attribute
//     is a prefix for trace plots of each column.
//   - print, prints the value of the workspace symbols
//     (attribute "symbols",
//     by default all symbols).
package tools

import (
	"io"
	"path/filepath"
	"slices"

	"github.com/js-arias/revdag/mcmc"
	"github.com/js-arias/revdag/model"
	"github.com/js-arias/revdag/pipeline"
	"github.com/js-arias/revdag/syntax"
)

// A Session is a set of tools
// sharing a workspace.
type Session struct {
	env *syntax.Env
	dir string
	out io.Writer

	models    map[string]*model.Model
	order     []string
	lastTrace string
}

// New creates a new session
// using the given environment.
// Relative file paths are resolved from dir,
// and the output of the tools is written to out.
func New(env *syntax.Env, dir string, out io.Writer) *Session {
	return &Session{
		env:    env,
		dir:    dir,
		out:    out,
		models: make(map[string]*model.Model),
	}
}

// Registry returns the tool registry of the session.
func (s *Session) Registry() pipeline.Registry {
	return pipeline.Registry{
		"data":    s.newData,
		"model":   s.newModel,
		"mcmc":    s.newMCMC,
		"summary": s.newSummary,
		"print":   s.newPrint,
	}
}

// Path returns a path relative to the session directory.
func (s *Session) path(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(s.dir, name)
}

// SetModel stores a model read by a tool.
func (s *Session) setModel(tool string, m *model.Model) {
	if _, ok := s.models[tool]; !ok {
		s.order = append(s.order, tool)
	}
	s.models[tool] = m
}

// Moves returns the moves of all the models
// in the order in which they were read.
func (s *Session) Moves() []mcmc.Move {
	var moves []mcmc.Move
	for _, tn := range s.order {
		moves = append(moves, s.models[tn].Moves...)
	}
	return moves
}

// Monitors returns the monitored names of all the models.
func (s *Session) Monitors() []string {
	var names []string
	for _, tn := range s.order {
		for _, n := range s.models[tn].Monitors {
			if slices.Contains(names, n) {
				continue
			}
			names = append(names, n)
		}
	}
	return names
}
