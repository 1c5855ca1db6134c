// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/js-arias/revdag/popdata"
	"github.com/js-arias/revdag/syntax"
	"github.com/js-arias/revdag/value"
	"github.com/js-arias/timetree"
)

// Data is the definition of a data file.
type Data struct {
	// Format of the file,
	// either "snp", "microsat", "dates", or "tree".
	Format string `hcl:"format"`

	// File name.
	File string `hcl:"file"`

	// Thinning of the sites
	// of a SNP or microsatellite file.
	Thin int `hcl:"thin,optional"`

	// Field delimiter of a dates file.
	Delimiter string `hcl:"delimiter,optional"`

	// Tree name of a tree file.
	Tree string `hcl:"tree,optional"`
}

// DecodeData decodes a data definition
// from an HCL body.
func DecodeData(body hcl.Body) (Data, error) {
	var d Data
	if diags := gohcl.DecodeBody(body, nil, &d); diags.HasErrors() {
		return Data{}, diags
	}
	return d, nil
}

// Read reads a data file.
// Relative file paths are resolved from dir.
// It returns the data as a value,
// and the taxon names
// in the order of the value.
func (d Data) Read(dir string) (value.Value, []string, error) {
	file := d.File
	if !filepath.IsAbs(file) {
		file = filepath.Join(dir, file)
	}
	thin := d.Thin
	if thin < 1 {
		thin = 1
	}

	switch strings.ToLower(d.Format) {
	case "snp", "microsat":
		read := popdata.ReadSNP
		if strings.ToLower(d.Format) == "microsat" {
			read = popdata.ReadMicrosat
		}
		m, err := read(file, thin)
		if err != nil {
			return value.Value{}, nil, err
		}
		return m.Values(), m.Taxa(), nil
	case "dates":
		var r rune
		if d.Delimiter != "" {
			r, _ = utf8.DecodeRuneInString(d.Delimiter)
		}
		dates, err := popdata.ReadTaxonDates(file, r)
		if err != nil {
			return value.Value{}, nil, err
		}
		return datesValue(dates)
	case "tree":
		t, err := readTree(file, d.Tree)
		if err != nil {
			return value.Value{}, nil, err
		}
		return datesValue(popdata.DatesFromTree(t))
	}
	return value.Value{}, nil, fmt.Errorf("unknown format %q", d.Format)
}

func (d *decoder) data(b *hcl.Block) error {
	name, err := d.define(b)
	if err != nil {
		return err
	}
	dt, err := DecodeData(b.Body)
	if err != nil {
		return err
	}
	v, taxa, err := dt.Read(d.dir)
	if err != nil {
		return fmt.Errorf("%s: data %q: %w", b.DefRange, name, err)
	}

	if err := d.exec(b, syntax.Assign{
		Name: name,
		Expr: syntax.Constant{Value: v},
	}); err != nil {
		return err
	}
	d.m.Taxa[name] = taxa
	return nil
}

func datesValue(dates []popdata.TaxonDate) (value.Value, []string, error) {
	xs := make([]float64, len(dates))
	taxa := make([]string, len(dates))
	for i, d := range dates {
		xs[i] = d.Date
		taxa[i] = d.Taxon
	}
	v, err := value.Reals(xs...)
	if err != nil {
		return value.Value{}, nil, err
	}
	return v, taxa, nil
}

// ReadTree reads a tree from a file.
// If name is empty,
// the first tree of the file is used.
func readTree(file, name string) (*timetree.Tree, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c, err := timetree.ReadTSV(f)
	if err != nil {
		return nil, fmt.Errorf("when reading %q: %v", file, err)
	}
	if name == "" {
		names := c.Names()
		if len(names) == 0 {
			return nil, fmt.Errorf("when reading %q: no trees", file)
		}
		name = names[0]
	}
	t := c.Tree(name)
	if t == nil {
		return nil, fmt.Errorf("when reading %q: tree %q not found", file, name)
	}
	return t, nil
}
