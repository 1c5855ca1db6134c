// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package trace implements reading and writing
// of MCMC traces.
//
// A trace is a TSV file
// with a row for each sample of the chain.
// The first two fields are the generation
// ("gen")
// and the log posterior probability
// ("lnProb"),
// the remaining fields are the sampled values.
// Here is an example file:
//
//	# mcmc trace
//	gen	lnProb	mu	pi[0]	pi[1]
//	10	-12.503100	1.203000	0.400000	0.600000
//	20	-11.930020	1.008741	0.430112	0.569888
package trace

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

var header = []string{
	"gen",
	"lnProb",
}

// A Writer writes the samples of a chain
// into a TSV file.
type Writer struct {
	tsv  *csv.Writer
	cols int
}

// NewWriter returns a new writer
// for the given value columns.
// The header is written immediately.
func NewWriter(w io.Writer, cols []string) (*Writer, error) {
	tsv := csv.NewWriter(w)
	tsv.Comma = '\t'
	tsv.UseCRLF = true

	head := append(append([]string{}, header...), cols...)
	if err := tsv.Write(head); err != nil {
		return nil, fmt.Errorf("while writing header: %v", err)
	}
	return &Writer{
		tsv:  tsv,
		cols: len(cols),
	}, nil
}

// Record writes a sample.
func (w *Writer) Record(gen int, lnProb float64, values []float64) error {
	if len(values) != w.cols {
		return fmt.Errorf("generation %d: got %d values, want %d", gen, len(values), w.cols)
	}
	row := make([]string, 0, len(values)+2)
	row = append(row, strconv.Itoa(gen), strconv.FormatFloat(lnProb, 'f', 6, 64))
	for _, v := range values {
		row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
	}
	if err := w.tsv.Write(row); err != nil {
		return fmt.Errorf("generation %d: %v", gen, err)
	}
	return nil
}

// Flush writes any buffered data.
func (w *Writer) Flush() error {
	w.tsv.Flush()
	return w.tsv.Error()
}

// A Trace is a set of samples
// read from a trace file.
type Trace struct {
	cols   []string
	gens   []int
	lnProb []float64
	values [][]float64 // by column
}

// Read reads a trace from a TSV file.
func Read(name string) (*Trace, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := ReadTSV(f)
	if err != nil {
		return nil, fmt.Errorf("on file %q: %v", name, err)
	}
	return t, nil
}

// ReadTSV reads a trace from a TSV stream.
func ReadTSV(r io.Reader) (*Trace, error) {
	tsv := csv.NewReader(r)
	tsv.Comma = '\t'
	tsv.Comment = '#'

	head, err := tsv.Read()
	if err != nil {
		return nil, fmt.Errorf("header: %v", err)
	}
	if len(head) < len(header) {
		return nil, fmt.Errorf("header: expecting at least %d fields", len(header))
	}
	for i, h := range header {
		if strings.ToLower(head[i]) != strings.ToLower(h) {
			return nil, fmt.Errorf("header: expecting field %q, got %q", h, head[i])
		}
	}

	t := &Trace{
		cols:   append([]string{}, head[2:]...),
		values: make([][]float64, len(head)-2),
	}
	for {
		row, err := tsv.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		ln, _ := tsv.FieldPos(0)
		if err != nil {
			return nil, fmt.Errorf("on row %d: %v", ln, err)
		}

		f := "gen"
		gen, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, fmt.Errorf("on row %d: field %q: %v", ln, f, err)
		}
		f = "lnProb"
		lp, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, fmt.Errorf("on row %d: field %q: %v", ln, f, err)
		}
		for i, c := range t.cols {
			v, err := strconv.ParseFloat(row[i+2], 64)
			if err != nil {
				return nil, fmt.Errorf("on row %d: field %q: %v", ln, c, err)
			}
			t.values[i] = append(t.values[i], v)
		}
		t.gens = append(t.gens, gen)
		t.lnProb = append(t.lnProb, lp)
	}
	return t, nil
}

// Columns returns the names of the value columns.
func (t *Trace) Columns() []string {
	return append([]string{}, t.cols...)
}

// Len returns the number of samples.
func (t *Trace) Len() int {
	return len(t.gens)
}

// Gens returns the generation of each sample.
func (t *Trace) Gens() []int {
	return append([]int{}, t.gens...)
}

// LnProb returns the log posterior probability
// of each sample.
func (t *Trace) LnProb() []float64 {
	return append([]float64{}, t.lnProb...)
}

// Column returns the samples of a column.
// The lnProb column is also valid.
func (t *Trace) Column(name string) ([]float64, bool) {
	if strings.ToLower(name) == "lnprob" {
		return t.LnProb(), true
	}
	for i, c := range t.cols {
		if c == name {
			return append([]float64{}, t.values[i]...), true
		}
	}
	return nil, false
}

// Burnin returns a new trace
// without the first fraction of samples.
func (t *Trace) Burnin(frac float64) *Trace {
	if frac <= 0 {
		return t
	}
	if frac > 1 {
		frac = 1
	}
	n := int(float64(len(t.gens)) * frac)
	nt := &Trace{
		cols:   t.cols,
		gens:   t.gens[n:],
		lnProb: t.lnProb[n:],
		values: make([][]float64, len(t.values)),
	}
	for i, v := range t.values {
		nt.values[i] = v[n:]
	}
	return nt
}
