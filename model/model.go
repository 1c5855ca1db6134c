// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package model reads model files
// and builds the model nodes in a workspace.
//
// A model file is an HCL file
// with a sequence of blocks.
// Each block defines a named node of the model,
// or a move used by the MCMC sampler.
// Blocks are evaluated in the order of the file,
// so a block can only reference names defined before it
// (in the same file, or already bound in the workspace).
//
// Valid blocks are:
//
//	constant "n" {
//		value = 4
//		kind  = "integer"
//	}
//	stochastic "alpha" {
//		distribution = "exponential"
//		params       = [1]
//	}
//	deterministic "rates" {
//		function = "discretegamma"
//		args     = [alpha, n]
//	}
//	data "snp" {
//		format = "snp"
//		file   = "snp.tab"
//		thin   = 2
//	}
//	move "alpha" {
//		type   = "scale"
//		size   = 0.5
//		weight = 2
//	}
//
// A stochastic block can have an initial value
// (the "value" attribute),
// and if "observed" is true,
// the node is clamped to that value.
// The optional "kind" attribute of constant and stochastic blocks
// converts the value
// to one of "real", "integer", "positive", "vector", or "simplex".
//
// The "params" and "args" lists accept numbers,
// names of nodes,
// function calls
// (for example "exp(mu)"),
// and lists
// (for example "[a, b, 1]").
//
// A deterministic block with a "label" attribute
// creates a labeled node,
// named by the label,
// whose value is the value of the function.
//
// Data blocks read a data file
// into a constant node.
// Valid formats are "snp" and "microsat"
// (the value is a vector of taxon rows),
// "dates"
// (the value is a vector of taxon dates,
// the optional "delimiter" attribute sets the field delimiter),
// and "tree"
// (the value is a vector of terminal ages in million years,
// the optional "tree" attribute selects a tree of the file).
// Relative file paths are resolved from the directory of the model file.
//
// Move blocks are labeled with the name of the target node.
// Valid move types are "slide", "scale", and "simplex".
//
// An optional top level "monitor" attribute
// lists the names recorded by the sampler.
// By default,
// all non observed stochastic nodes and deterministic nodes
// are recorded.
package model

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/js-arias/revdag/internal/ctxlog"
	"github.com/js-arias/revdag/mcmc"
	"github.com/js-arias/revdag/syntax"
	"github.com/zclconf/go-cty/cty"
	ctyconvert "github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// A Model is a set of nodes
// defined in a model file.
type Model struct {
	// Symbols are the names defined by the model
	// in the order of the file.
	Symbols []string

	// Moves are the MCMC moves of the model.
	Moves []mcmc.Move

	// Monitors are the names recorded by the sampler.
	Monitors []string

	// Taxa stores the taxon names
	// of each data node,
	// in the order of its value.
	Taxa map[string][]string
}

var fileSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "monitor"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "constant", LabelNames: []string{"name"}},
		{Type: "stochastic", LabelNames: []string{"name"}},
		{Type: "deterministic", LabelNames: []string{"name"}},
		{Type: "data", LabelNames: []string{"name"}},
		{Type: "move", LabelNames: []string{"target"}},
	},
}

// Load reads a model file
// and builds its nodes
// in the workspace of the environment.
func Load(ctx context.Context, name string, env *syntax.Env) (*Model, error) {
	src, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("model: %w", err)
	}
	m, err := Parse(src, name, env)
	if err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Debug("model loaded", "file", name, "symbols", len(m.Symbols), "moves", len(m.Moves))
	return m, nil
}

// Parse reads a model from a source
// and builds its nodes
// in the workspace of the environment.
// The name is used for error messages
// and to resolve the paths of data files.
func Parse(src []byte, name string, env *syntax.Env) (*Model, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCL(src, name)
	if diags.HasErrors() {
		return nil, fmt.Errorf("on file %q: %w", name, diags)
	}

	d := &decoder{
		env:   env,
		dir:   filepath.Dir(name),
		names: make(map[string]bool),
		m: &Model{
			Taxa: make(map[string][]string),
		},
	}
	if err := d.decode(f.Body); err != nil {
		return nil, fmt.Errorf("on file %q: %w", name, err)
	}
	return d.m, nil
}

type decoder struct {
	env   *syntax.Env
	dir   string
	names map[string]bool
	m     *Model

	monitors []string
	moves    []*hcl.Block
}

func (d *decoder) decode(body hcl.Body) error {
	content, diags := body.Content(fileSchema)
	if diags.HasErrors() {
		return diags
	}

	for _, b := range content.Blocks {
		var err error
		switch b.Type {
		case "constant":
			err = d.constant(b)
		case "stochastic":
			err = d.stochastic(b)
		case "deterministic":
			err = d.deterministic(b)
		case "data":
			err = d.data(b)
		case "move":
			// moves are built after all nodes are defined
			d.moves = append(d.moves, b)
		}
		if err != nil {
			return err
		}
	}

	for _, b := range d.moves {
		if err := d.move(b); err != nil {
			return err
		}
	}

	d.m.Monitors = d.monitors
	if attr, ok := content.Attributes["monitor"]; ok {
		v, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return diags
		}
		lv, err := ctyconvert.Convert(v, cty.List(cty.String))
		if err != nil {
			return fmt.Errorf("%s: monitor: %w", attr.Range, err)
		}
		var names []string
		if err := gocty.FromCtyValue(lv, &names); err != nil {
			return fmt.Errorf("%s: monitor: %w", attr.Range, err)
		}
		for _, n := range names {
			if _, err := d.env.Workspace.MustLookup(n); err != nil {
				return fmt.Errorf("%s: monitor: %w", attr.Range, err)
			}
		}
		d.m.Monitors = names
	}
	return nil
}

// Define checks that a name is not repeated
// in the model file.
func (d *decoder) define(b *hcl.Block) (string, error) {
	name := b.Labels[0]
	if !hclIdent(name) {
		return "", fmt.Errorf("%s: %s %q: invalid name", b.DefRange, b.Type, name)
	}
	if d.names[name] {
		return "", fmt.Errorf("%s: %s %q: repeated name", b.DefRange, b.Type, name)
	}
	d.names[name] = true
	return name, nil
}

// Exec executes an assignment
// and adds the name to the model symbols.
func (d *decoder) exec(b *hcl.Block, a syntax.Assign) error {
	if _, err := a.Exec(d.env); err != nil {
		return fmt.Errorf("%s: %s %q: %w", b.DefRange, b.Type, a.Name, err)
	}
	d.m.Symbols = append(d.m.Symbols, a.Name)
	return nil
}

// HCLIdent returns true if a name
// can be used as a variable in an HCL expression.
func hclIdent(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case i > 0 && (r == '-' || (r >= '0' && r <= '9')):
		default:
			return false
		}
	}
	return true
}
