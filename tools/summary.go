// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package tools

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/js-arias/revdag/internal/ctxlog"
	"github.com/js-arias/revdag/pipeline"
	"github.com/js-arias/revdag/trace"
)

type summaryConfig struct {
	Trace  string  `hcl:"trace,optional"`
	Burnin float64 `hcl:"burnin,optional"`
	Plot   string  `hcl:"plot,optional"`
}

type summaryTool struct {
	s    *Session
	name string
	cfg  summaryConfig
}

func (s *Session) newSummary(name string, body hcl.Body) (pipeline.Tool, error) {
	var cfg summaryConfig
	if diags := gohcl.DecodeBody(body, nil, &cfg); diags.HasErrors() {
		return nil, diags
	}
	if cfg.Burnin < 0 || cfg.Burnin >= 1 {
		return nil, fmt.Errorf("invalid burnin fraction: %.3f", cfg.Burnin)
	}
	return &summaryTool{s: s, name: name, cfg: cfg}, nil
}

func (t *summaryTool) Name() string { return "summary:" + t.name }

func (t *summaryTool) Execute(ctx context.Context) error {
	name := t.s.path(t.cfg.Trace)
	if name == "" {
		name = t.s.lastTrace
	}
	if name == "" {
		return fmt.Errorf("undefined trace file")
	}

	tr, err := trace.Read(name)
	if err != nil {
		return err
	}
	tr = tr.Burnin(t.cfg.Burnin)
	fmt.Fprintf(t.s.out, "# trace %q: %d samples\n", name, tr.Len())
	if err := WriteSummary(t.s.out, tr.Summarize()); err != nil {
		return err
	}

	if t.cfg.Plot == "" {
		return nil
	}
	prefix := t.s.path(t.cfg.Plot)
	for _, c := range append([]string{"lnProb"}, tr.Columns()...) {
		if err := tr.Plot(c, plotName(prefix, c)); err != nil {
			return err
		}
	}
	ctxlog.FromContext(ctx).Info("trace plots written", "prefix", prefix)
	return nil
}

// WriteSummary writes a summary table.
func WriteSummary(w io.Writer, sum []trace.Summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "parameter\tmean\tsd\t2.5%%\t97.5%%\tESS\n")
	for _, s := range sum {
		fmt.Fprintf(tw, "%s\t%.6f\t%.6f\t%.6f\t%.6f\t%.1f\n", s.Name, s.Mean, s.SD, s.Lower, s.Upper, s.ESS)
	}
	return tw.Flush()
}

func plotName(prefix, col string) string {
	col = strings.NewReplacer("[", "-", "]", "").Replace(col)
	return prefix + "-" + col + ".png"
}
