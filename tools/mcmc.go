// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/js-arias/revdag/internal/ctxlog"
	"github.com/js-arias/revdag/mcmc"
	"github.com/js-arias/revdag/mcmcparam"
	"github.com/js-arias/revdag/pipeline"
	"github.com/js-arias/revdag/trace"
)

type mcmcConfig struct {
	Trace       string   `hcl:"trace"`
	Params      string   `hcl:"params,optional"`
	Generations int      `hcl:"generations,optional"`
	Burnin      *int     `hcl:"burnin,optional"`
	Sample      int      `hcl:"sample,optional"`
	Seed        *uint64  `hcl:"seed,optional"`
	Tune        *int     `hcl:"tune,optional"`
	Monitor     []string `hcl:"monitor,optional"`
}

type mcmcTool struct {
	s    *Session
	name string
	cfg  mcmcConfig
	runs int
}

func (s *Session) newMCMC(name string, body hcl.Body) (pipeline.Tool, error) {
	var cfg mcmcConfig
	if diags := gohcl.DecodeBody(body, nil, &cfg); diags.HasErrors() {
		return nil, diags
	}
	return &mcmcTool{s: s, name: name, cfg: cfg}, nil
}

func (t *mcmcTool) Name() string { return "mcmc:" + t.name }

// Param returns the chain parameters.
func (t *mcmcTool) param() (mcmc.Param, error) {
	mp := mcmcparam.New("")
	if t.cfg.Params != "" {
		var err error
		mp, err = mcmcparam.Read(t.s.path(t.cfg.Params))
		if err != nil {
			return mcmc.Param{}, err
		}
	}
	if t.cfg.Generations != 0 {
		if err := mp.SetGenerations(t.cfg.Generations); err != nil {
			return mcmc.Param{}, err
		}
	}
	burnin := mp.Burnin()
	if t.cfg.Generations != 0 && t.cfg.Params == "" {
		burnin = t.cfg.Generations / 10
	}
	if t.cfg.Burnin != nil {
		burnin = *t.cfg.Burnin
	}
	if err := mp.SetBurnin(burnin); err != nil {
		return mcmc.Param{}, err
	}
	if t.cfg.Sample != 0 {
		if err := mp.SetSample(t.cfg.Sample); err != nil {
			return mcmc.Param{}, err
		}
	}
	if t.cfg.Seed != nil {
		mp.SetSeed(*t.cfg.Seed)
	}
	if t.cfg.Tune != nil {
		if err := mp.SetTune(*t.cfg.Tune); err != nil {
			return mcmc.Param{}, err
		}
	}
	return mp.Param(), nil
}

func (t *mcmcTool) Execute(ctx context.Context) (err error) {
	p, err := t.param()
	if err != nil {
		return err
	}
	t.runs++
	p.Seed += uint64(t.runs - 1)

	c, err := mcmc.New(t.s.env.Workspace, t.s.Moves(), p)
	if err != nil {
		return err
	}
	monitors := t.cfg.Monitor
	if len(monitors) == 0 {
		monitors = t.s.Monitors()
	}
	if err := c.Monitor(monitors...); err != nil {
		return err
	}

	name := runName(t.s.path(t.cfg.Trace), t.runs)
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		e := f.Close()
		if e != nil && err == nil {
			err = e
		}
	}()

	fmt.Fprintf(f, "# mcmc trace: %s\n", t.name)
	fmt.Fprintf(f, "# seed: %d\n", p.Seed)
	w, err := trace.NewWriter(f, c.Columns())
	if err != nil {
		return fmt.Errorf("on file %q: %v", name, err)
	}
	runErr := c.Run(ctx, w)
	if err := w.Flush(); err != nil {
		return fmt.Errorf("on file %q: %v", name, err)
	}
	if runErr != nil {
		return runErr
	}

	t.s.lastTrace = name
	logger := ctxlog.FromContext(ctx)
	for _, st := range c.Stats() {
		logger.Info("move", "name", st.Name, "rate", st.Rate())
	}
	logger.Info("trace written", "file", name, "run", t.runs)
	return nil
}

// RunName returns the name of the trace file
// for a given run.
func runName(name string, run int) string {
	if run <= 1 {
		return name
	}
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + "-" + strconv.Itoa(run) + ext
}
