// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package project implements reading and writing
// of revdag project files.
//
// A revdag project is a tab-delimited file (TSV)
// with the paths of the data, model, and parameter files
// used in an analysis.
package project

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"
)

// Dataset is a keyword to identify
// the type of a dataset file in a project.
type Dataset string

// Valid dataset types.
const (
	// File for biallelic SNP allele counts.
	SNP Dataset = "snp"

	// File for microsatellite repeat counts.
	Microsat Dataset = "microsat"

	// File for the sampling dates of the taxa.
	Dates Dataset = "dates"

	// File for the model definition.
	Model Dataset = "model"

	// File for the pipeline definition.
	Pipeline Dataset = "pipeline"

	// File for time calibrated trees.
	Trees Dataset = "trees"

	// File for the MCMC parameters.
	MCMC Dataset = "mcmc"
)

// Datasets is the list of valid datasets.
var Datasets = []Dataset{SNP, Microsat, Dates, Model, Pipeline, Trees, MCMC}

// ParseDataset returns a dataset keyword
// from a string.
func ParseDataset(s string) (Dataset, error) {
	d := Dataset(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(Datasets, d) {
		return "", fmt.Errorf("unknown dataset %q", s)
	}
	return d, nil
}

// A Project is the set of files
// used by a revdag analysis,
// indexed by dataset.
type Project struct {
	name  string
	paths map[Dataset]string
}

// New creates a new empty project.
func New() *Project {
	return &Project{paths: make(map[Dataset]string)}
}

// Read reads a project file.
// See ReadTSV for the format of the file.
func Read(name string) (*Project, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	p, err := ReadTSV(f)
	if err != nil {
		return nil, fmt.Errorf("on file %q: %v", name, err)
	}
	p.name = name
	return p, nil
}

// ReadTSV reads a project from a TSV stream.
//
// The TSV must contain the following fields:
//
//   - dataset, for the kind of file
//   - path, for the path of the file
//
// A dataset can be defined only once.
// Lines starting with '#' are ignored.
//
// Here is an example file:
//
//	# revdag project files
//	dataset	path
//	snp	snp.tab
//	dates	dates.tab
//	model	model.hcl
//	mcmc	mcmc-param.tab
func ReadTSV(r io.Reader) (*Project, error) {
	tsv := csv.NewReader(r)
	tsv.Comma = '\t'
	tsv.Comment = '#'

	head, err := tsv.Read()
	if err != nil {
		return nil, fmt.Errorf("header: %v", err)
	}
	setCol, pathCol := -1, -1
	for i, h := range head {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "dataset":
			setCol = i
		case "path":
			pathCol = i
		}
	}
	if setCol < 0 {
		return nil, errors.New(`expecting field "dataset"`)
	}
	if pathCol < 0 {
		return nil, errors.New(`expecting field "path"`)
	}

	p := New()
	for {
		row, err := tsv.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		ln, _ := tsv.FieldPos(0)
		if err != nil {
			return nil, fmt.Errorf("on row %d: %v", ln, err)
		}

		set, err := ParseDataset(row[setCol])
		if err != nil {
			return nil, fmt.Errorf("on row %d, field %q: %v", ln, "dataset", err)
		}
		if _, dup := p.paths[set]; dup {
			return nil, fmt.Errorf("on row %d: dataset %q already defined", ln, set)
		}
		path := strings.TrimSpace(row[pathCol])
		if path == "" {
			return nil, fmt.Errorf("on row %d, field %q: empty path", ln, "path")
		}
		p.paths[set] = path
	}
	return p, nil
}

// Add sets the path of a dataset
// and returns the previous path.
// An empty path removes the dataset
// from the project.
func (p *Project) Add(set Dataset, path string) string {
	prev := p.paths[set]
	if path == "" {
		delete(p.paths, set)
		return prev
	}
	p.paths[set] = path
	return prev
}

// Path returns the path of the given dataset.
func (p *Project) Path(set Dataset) string {
	return p.paths[set]
}

// Sets returns the datasets defined on a project.
func (p *Project) Sets() []Dataset {
	sets := make([]Dataset, 0, len(p.paths))
	for s := range p.paths {
		sets = append(sets, s)
	}
	slices.Sort(sets)
	return sets
}

// Name returns the project file name.
func (p *Project) Name() string {
	return p.name
}

// SetName sets the project file name.
func (p *Project) SetName(name string) {
	p.name = name
}

// TSV writes the project datasets
// as a TSV stream.
func (p *Project) TSV(w io.Writer) error {
	tsv := csv.NewWriter(w)
	tsv.Comma = '\t'
	tsv.UseCRLF = true

	if err := tsv.Write([]string{"dataset", "path"}); err != nil {
		return fmt.Errorf("while writing header: %v", err)
	}
	for _, s := range p.Sets() {
		if err := tsv.Write([]string{string(s), p.paths[s]}); err != nil {
			return err
		}
	}
	tsv.Flush()
	return tsv.Error()
}

// Write writes a project
// into the project file.
func (p *Project) Write() (err error) {
	if p.name == "" {
		return errors.New("undefined project file name")
	}
	f, err := os.Create(p.name)
	if err != nil {
		return err
	}
	defer func() {
		e := f.Close()
		if e != nil && err == nil {
			err = e
		}
	}()

	bw := bufio.NewWriter(f)
	fmt.Fprintf(bw, "# revdag project files\n")
	fmt.Fprintf(bw, "# data save on: %s\n", time.Now().Format(time.RFC3339))
	if err := p.TSV(bw); err != nil {
		return fmt.Errorf("on file %q: %v", p.name, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("on file %q: while writing data: %v", p.name, err)
	}
	return nil
}
