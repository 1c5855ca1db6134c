// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package project

import (
	"context"
	"fmt"
	"os"

	"github.com/js-arias/revdag/mcmcparam"
	"github.com/js-arias/revdag/model"
	"github.com/js-arias/revdag/pipeline"
	"github.com/js-arias/revdag/popdata"
	"github.com/js-arias/revdag/syntax"
	"github.com/js-arias/timetree"
)

// SNP reads a SNP data file
// as defined in a project.
func (p *Project) SNP(thinBy int) (*popdata.Matrix, error) {
	name := p.Path(SNP)
	if name == "" {
		return nil, fmt.Errorf("SNP data not defined in project %q", p.name)
	}
	return popdata.ReadSNP(name, thinBy)
}

// Microsat reads a microsatellite data file
// as defined in a project.
func (p *Project) Microsat(thinBy int) (*popdata.Matrix, error) {
	name := p.Path(Microsat)
	if name == "" {
		return nil, fmt.Errorf("microsatellite data not defined in project %q", p.name)
	}
	return popdata.ReadMicrosat(name, thinBy)
}

// Dates reads a taxon dates file
// as defined in a project.
// The delimiter of the file is detected automatically.
func (p *Project) Dates() ([]popdata.TaxonDate, error) {
	name := p.Path(Dates)
	if name == "" {
		return nil, fmt.Errorf("taxon dates not defined in project %q", p.name)
	}
	return popdata.ReadTaxonDates(name, 0)
}

// Model reads a model file
// as defined in a project,
// and builds the model in the workspace of the environment.
func (p *Project) Model(ctx context.Context, env *syntax.Env) (*model.Model, error) {
	name := p.Path(Model)
	if name == "" {
		return nil, fmt.Errorf("model not defined in project %q", p.name)
	}
	return model.Load(ctx, name, env)
}

// Pipeline reads a pipeline file
// as defined in a project.
func (p *Project) Pipeline(ctx context.Context, reg pipeline.Registry) (*pipeline.Graph, error) {
	name := p.Path(Pipeline)
	if name == "" {
		return nil, fmt.Errorf("pipeline not defined in project %q", p.name)
	}
	return pipeline.Load(ctx, name, reg)
}

// MCMCParam reads the MCMC parameters
// as defined in a project.
// If no parameter file is defined,
// it returns the default parameters.
func (p *Project) MCMCParam() (*mcmcparam.MP, error) {
	name := p.Path(MCMC)
	if name == "" {
		return mcmcparam.New(""), nil
	}
	return mcmcparam.Read(name)
}

// Trees reads a tree file
// as defined in a project.
func (p *Project) Trees() (*timetree.Collection, error) {
	name := p.Path(Trees)
	if name == "" {
		return nil, fmt.Errorf("trees not defined in project %q", p.name)
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c, err := timetree.ReadTSV(f)
	if err != nil {
		return nil, fmt.Errorf("while reading file %q: %v", name, err)
	}
	return c, nil
}
