// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package project_test

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"testing"

	"github.com/js-arias/revdag/project"
)

type setPath struct {
	set  project.Dataset
	path string
}

func TestProject(t *testing.T) {
	p := project.New()

	sets := []setPath{
		{project.SNP, "snp.tab"},
		{project.Microsat, "microsat.tab"},
		{project.Dates, "dates.tab"},
		{project.Model, "model.hcl"},
		{project.Pipeline, "pipeline.hcl"},
		{project.Trees, "trees.tab"},
		{project.MCMC, "mcmc-param.tab"},
	}

	for _, s := range sets {
		p.Add(s.set, s.path)
	}
	testProject(t, p, sets)

	var buf bytes.Buffer
	if err := p.TSV(&buf); err != nil {
		t.Fatalf("tsv: unexpected error: %v", err)
	}
	sp, err := project.ReadTSV(&buf)
	if err != nil {
		t.Fatalf("tsv: unexpected error: %v", err)
	}
	testProject(t, sp, sets)

	name := filepath.Join(t.TempDir(), "project.tab")
	p.SetName(name)
	if err := p.Write(); err != nil {
		t.Fatalf("error when writing data: %v", err)
	}

	np, err := project.Read(name)
	if err != nil {
		t.Fatalf("error when reading data: %v", err)
	}
	if np.Name() != name {
		t.Errorf("name: got %q, want %q", np.Name(), name)
	}
	testProject(t, np, sets)

	if prev := np.Add(project.Model, ""); prev != "model.hcl" {
		t.Errorf("remove: got previous path %q, want %q", prev, "model.hcl")
	}
	if np.Path(project.Model) != "" {
		t.Errorf("remove: dataset %q still defined", project.Model)
	}
}

func testProject(t testing.TB, p *project.Project, sets []setPath) {
	t.Helper()

	for _, s := range sets {
		if path := p.Path(s.set); path != s.path {
			t.Errorf("set %s: got path %q, want %q", s.set, path, s.path)
		}
	}
	datasets := make([]project.Dataset, 0, len(sets))
	for _, v := range sets {
		datasets = append(datasets, v.set)
	}
	slices.Sort(datasets)

	if ls := p.Sets(); !reflect.DeepEqual(ls, datasets) {
		t.Errorf("sets: got %v, want %v", ls, datasets)
	}
}

func TestReadErrors(t *testing.T) {
	tests := map[string]string{
		"unknown dataset":   "dataset\tpath\nlandscape\tlandscape.tab\n",
		"repeated dataset":  "dataset\tpath\nsnp\ta.tab\nsnp\tb.tab\n",
		"missing path":      "dataset\tfile\nsnp\tsnp.tab\n",
		"missing dataset":   "set\tpath\nsnp\tsnp.tab\n",
		"empty path":        "dataset\tpath\nsnp\t \n",
		"empty file":        "",
		"wrong field count": "dataset\tpath\nsnp\n",
	}
	for name, data := range tests {
		if _, err := project.ReadTSV(strings.NewReader(data)); err == nil {
			t.Errorf("%s: expecting error", name)
		}
	}

	p := project.New()
	if err := p.Write(); err == nil {
		t.Errorf("write: expecting error for undefined file name")
	}
}

func TestParseDataset(t *testing.T) {
	for _, set := range project.Datasets {
		got, err := project.ParseDataset(" " + strings.ToUpper(string(set)))
		if err != nil {
			t.Errorf("dataset %q: unexpected error: %v", set, err)
			continue
		}
		if got != set {
			t.Errorf("dataset %q: got %q", set, got)
		}
	}
}

func TestDataReaders(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"snp.tab":   "taxon\ts0\ts1\nMartian\t1\t0\nJovian\t0\t2\n",
		"dates.tab": "Martian\t2012.5\nJovian\t2009.25\n",
		"trees.tab": "tree\tnode\tparent\tage\ttaxon\nt\t0\t-1\t10000000\nt\t1\t0\t0\tMartian\nt\t2\t0\t2000000\tJovian\n",
	}
	p := project.New()
	for name, data := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
			t.Fatalf("unable to write file: %v", err)
		}
	}
	p.Add(project.SNP, filepath.Join(dir, "snp.tab"))
	p.Add(project.Dates, filepath.Join(dir, "dates.tab"))
	p.Add(project.Trees, filepath.Join(dir, "trees.tab"))

	m, err := p.SNP(1)
	if err != nil {
		t.Fatalf("snp: %v", err)
	}
	if m.Sites() != 2 || len(m.Taxa()) != 2 {
		t.Errorf("snp: got %d taxa, %d sites", len(m.Taxa()), m.Sites())
	}

	dates, err := p.Dates()
	if err != nil {
		t.Fatalf("dates: %v", err)
	}
	if len(dates) != 2 || dates[1].Date != 2009.25 {
		t.Errorf("dates: got %v", dates)
	}

	tc, err := p.Trees()
	if err != nil {
		t.Fatalf("trees: %v", err)
	}
	if names := tc.Names(); len(names) != 1 || names[0] != "t" {
		t.Errorf("trees: got %v", names)
	}

	if _, err := p.Microsat(1); err == nil {
		t.Errorf("microsat: expecting error for undefined dataset")
	}
	mp, err := p.MCMCParam()
	if err != nil {
		t.Fatalf("mcmc param: %v", err)
	}
	if mp.Generations() != mcmcDefault {
		t.Errorf("mcmc param: got %d generations, want %d", mp.Generations(), mcmcDefault)
	}
}

const mcmcDefault = 10_000
