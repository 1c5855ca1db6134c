// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package pipeline

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/js-arias/revdag/internal/ctxlog"
	"github.com/zclconf/go-cty/cty/gocty"
)

// A Factory builds a tool
// from the body of a tool block.
type Factory func(name string, body hcl.Body) (Tool, error)

// A Registry is a set of tool factories
// indexed by the tool kind.
type Registry map[string]Factory

var blockSchema = []hcl.BlockHeaderSchema{
	{Type: "tool", LabelNames: []string{"kind", "name"}},
	{Type: "loop", LabelNames: []string{"name"}},
}

var fileSchema = &hcl.BodySchema{
	Blocks: blockSchema,
}

var loopSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "repeat", Required: true},
	},
	Blocks: blockSchema,
}

// Load reads a pipeline file.
//
// A pipeline file is an HCL file
// with "tool" and "loop" blocks.
// A tool block has two labels,
// the kind of the tool
// (that must be defined in the registry),
// and a unique name.
// The content of a tool block is defined by its kind.
// A loop block has a name,
// a "repeat" attribute,
// and a set of tool or loop blocks.
// Blocks nested inside a tool block
// are the inputs of the tool.
//
// The top level blocks are the inputs
// of the root of the graph,
// and are executed in the order of the file.
//
// Here is an example file:
//
//	tool "data" "snp" {
//		format = "snp"
//		file   = "snp.tab"
//	}
//	tool "model" "model" {
//		file = "model.hcl"
//	}
//	loop "chains" {
//		repeat = 2
//		tool "mcmc" "run" {
//			trace = "trace.tab"
//		}
//	}
func Load(ctx context.Context, name string, reg Registry) (*Graph, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCLFile(name)
	if diags.HasErrors() {
		return nil, fmt.Errorf("on file %q: %w", name, diags)
	}
	g, err := decode(f.Body, reg)
	if err != nil {
		return nil, fmt.Errorf("on file %q: %w", name, err)
	}
	ctxlog.FromContext(ctx).Debug("pipeline loaded", "file", name, "nodes", g.Len(), "loops", len(g.loops))
	return g, nil
}

// Parse reads a pipeline from a source.
// See Load for the format.
func Parse(src []byte, name string, reg Registry) (*Graph, error) {
	parser := hclparse.NewParser()
	f, diags := parser.ParseHCL(src, name)
	if diags.HasErrors() {
		return nil, fmt.Errorf("on file %q: %w", name, diags)
	}
	g, err := decode(f.Body, reg)
	if err != nil {
		return nil, fmt.Errorf("on file %q: %w", name, err)
	}
	return g, nil
}

type decoder struct {
	g     *Graph
	reg   Registry
	names map[string]bool
}

func decode(body hcl.Body, reg Registry) (*Graph, error) {
	content, diags := body.Content(fileSchema)
	if diags.HasErrors() {
		return nil, diags
	}

	d := &decoder{
		g:     New(),
		reg:   reg,
		names: make(map[string]bool),
	}
	root := d.g.AddNode(nil)
	if err := d.blocks(root, content.Blocks); err != nil {
		return nil, err
	}
	if err := d.g.InitDownPass(); err != nil {
		return nil, err
	}
	return d.g, nil
}

func (d *decoder) blocks(parent NodeID, blocks hcl.Blocks) error {
	for _, b := range blocks {
		var id NodeID
		var err error
		switch b.Type {
		case "tool":
			id, err = d.tool(b)
		case "loop":
			id, err = d.loop(b)
		}
		if err != nil {
			return err
		}
		if err := d.g.AddChild(parent, id); err != nil {
			return err
		}
		if b.Type == "loop" {
			if err := d.repeat(id, b); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *decoder) tool(b *hcl.Block) (NodeID, error) {
	kind, name := b.Labels[0], b.Labels[1]
	if d.names[name] {
		return None, fmt.Errorf("%s: tool %q: repeated name", b.DefRange, name)
	}
	d.names[name] = true

	f, ok := d.reg[kind]
	if !ok {
		return None, fmt.Errorf("%s: tool %q: unknown kind %q", b.DefRange, name, kind)
	}

	inputs, remain, diags := b.Body.PartialContent(fileSchema)
	if diags.HasErrors() {
		return None, diags
	}
	t, err := f(name, remain)
	if err != nil {
		return None, fmt.Errorf("%s: tool %q: %w", b.DefRange, name, err)
	}

	id := d.g.AddNode(t)
	if err := d.blocks(id, inputs.Blocks); err != nil {
		return None, err
	}
	return id, nil
}

func (d *decoder) loop(b *hcl.Block) (NodeID, error) {
	name := b.Labels[0]
	if d.names[name] {
		return None, fmt.Errorf("%s: loop %q: repeated name", b.DefRange, name)
	}
	d.names[name] = true

	content, diags := b.Body.Content(loopSchema)
	if diags.HasErrors() {
		return None, diags
	}
	id := d.g.AddNode(nil)
	if err := d.blocks(id, content.Blocks); err != nil {
		return None, err
	}
	return id, nil
}

// Repeat sets a loop node
// with the repeat value of its block.
func (d *decoder) repeat(id NodeID, b *hcl.Block) error {
	content, _ := b.Body.Content(loopSchema)
	attr := content.Attributes["repeat"]
	v, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return diags
	}
	var repeat int
	if err := gocty.FromCtyValue(v, &repeat); err != nil {
		return fmt.Errorf("%s: loop %q: repeat: %w", attr.Range, b.Labels[0], err)
	}
	if _, err := d.g.AddLoop([]NodeID{id}, repeat); err != nil {
		return fmt.Errorf("%s: loop %q: %w", attr.Range, b.Labels[0], err)
	}
	return nil
}
