// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/js-arias/revdag/dag"
	"github.com/js-arias/revdag/internal/ctxlog"
	"github.com/js-arias/revdag/model"
	"github.com/js-arias/revdag/pipeline"
)

type dataTool struct {
	s    *Session
	name string
	def  model.Data
}

func (s *Session) newData(name string, body hcl.Body) (pipeline.Tool, error) {
	def, err := model.DecodeData(body)
	if err != nil {
		return nil, err
	}
	return &dataTool{s: s, name: name, def: def}, nil
}

func (t *dataTool) Name() string { return "data:" + t.name }

func (t *dataTool) Execute(ctx context.Context) error {
	v, taxa, err := t.def.Read(t.s.dir)
	if err != nil {
		return err
	}
	ws := t.s.env.Workspace
	id, err := ws.Add("", func(g *dag.Graph) (dag.NodeID, error) {
		return g.Add(t.name, v), nil
	})
	if err != nil {
		return err
	}
	if err := ws.Bind(t.name, id); err != nil {
		return err
	}
	t.s.setModel(t.Name(), &model.Model{
		Symbols: []string{t.name},
		Taxa:    map[string][]string{t.name: taxa},
	})
	ctxlog.FromContext(ctx).Info("data read", "name", t.name, "file", t.def.File, "taxa", len(taxa))
	return nil
}

type modelConfig struct {
	File string `hcl:"file"`
}

type modelTool struct {
	s    *Session
	name string
	file string
}

func (s *Session) newModel(name string, body hcl.Body) (pipeline.Tool, error) {
	var cfg modelConfig
	if diags := gohcl.DecodeBody(body, nil, &cfg); diags.HasErrors() {
		return nil, diags
	}
	return &modelTool{s: s, name: name, file: cfg.File}, nil
}

func (t *modelTool) Name() string { return "model:" + t.name }

func (t *modelTool) Execute(ctx context.Context) error {
	m, err := model.Load(ctx, t.s.path(t.file), t.s.env)
	if err != nil {
		return err
	}
	t.s.setModel(t.Name(), m)
	ctxlog.FromContext(ctx).Info("model read", "name", t.name, "symbols", len(m.Symbols), "moves", len(m.Moves))
	return nil
}

type printConfig struct {
	Symbols []string `hcl:"symbols,optional"`
}

type printTool struct {
	s       *Session
	name    string
	symbols []string
}

func (s *Session) newPrint(name string, body hcl.Body) (pipeline.Tool, error) {
	var cfg printConfig
	if diags := gohcl.DecodeBody(body, nil, &cfg); diags.HasErrors() {
		return nil, diags
	}
	return &printTool{s: s, name: name, symbols: cfg.Symbols}, nil
}

func (t *printTool) Name() string { return "print:" + t.name }

func (t *printTool) Execute(ctx context.Context) error {
	ws := t.s.env.Workspace
	names := t.symbols
	if len(names) == 0 {
		names = ws.Symbols()
	}
	g := ws.Graph()
	for _, n := range names {
		id, err := ws.MustLookup(n)
		if err != nil {
			return err
		}
		kind := g.Kind(id).String()
		if g.Kind(id) == dag.Stochastic && g.IsClamped(id) {
			kind = "observed"
		}
		fmt.Fprintf(t.s.out, "%s\t%s\t%s\n", n, kind, strings.TrimSpace(g.Value(id).String()))
	}
	return nil
}
