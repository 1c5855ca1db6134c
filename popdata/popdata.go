// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package popdata implements readers
// for population genetic data.
//
// Data files are delimited text files
// (tab, comma, or blank space delimited)
// in which each record is a taxon
// (the first field)
// followed by the observations of the taxon.
// Lines starting with '#' are ignored,
// and an optional header
// with "taxon" as the first field
// can be used.
//
// A taxon name ending with '*'
// is an outgroup taxon
// (the asterisk is not part of the name).
// Taxon names are case sensitive;
// leading and trailing spaces are removed,
// and inner runs of spaces
// are replaced by a single space.
package popdata

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/js-arias/revdag/value"
)

// ErrFormat is the error returned
// when a data file is malformed.
var ErrFormat = errors.New("invalid data format")

// A FormatError is a malformed record
// in a data file.
type FormatError struct {
	File string
	Line int
	Msg  string
}

func (e *FormatError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("on row %d: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("on file %q: on row %d: %s", e.File, e.Line, e.Msg)
}

// Unwrap returns ErrFormat.
func (e *FormatError) Unwrap() error {
	return ErrFormat
}

// Missing is the value used
// for missing observations.
const Missing = -1

// A Matrix is a table of integer observations
// for a set of taxa.
// A Matrix is immutable.
type Matrix struct {
	taxa     []string
	outgroup map[string]bool
	rows     map[string][]int
	sites    int
}

// Taxa returns the taxa of the matrix
// in the order of the data file.
func (m *Matrix) Taxa() []string {
	return slices.Clone(m.taxa)
}

// Sites returns the number of sites
// (observations per taxon).
func (m *Matrix) Sites() int {
	return m.sites
}

// Row returns the observations of a taxon.
// Missing observations are set as Missing.
func (m *Matrix) Row(taxon string) []int {
	return slices.Clone(m.rows[canon(taxon)])
}

// IsOutgroup returns true if the taxon
// is marked as an outgroup.
func (m *Matrix) IsOutgroup(taxon string) bool {
	return m.outgroup[canon(taxon)]
}

// Outgroup returns the outgroup taxa.
func (m *Matrix) Outgroup() []string {
	var out []string
	for _, tx := range m.taxa {
		if m.outgroup[tx] {
			out = append(out, tx)
		}
	}
	return out
}

// HasMissing returns true if the matrix
// has missing observations.
func (m *Matrix) HasMissing() bool {
	for _, r := range m.rows {
		if slices.Contains(r, Missing) {
			return true
		}
	}
	return false
}

// Value returns the observations of a taxon
// as a vector of integers.
// Missing observations are null values.
func (m *Matrix) Value(taxon string) value.Value {
	r, ok := m.rows[canon(taxon)]
	if !ok {
		return value.Value{}
	}
	elems := make([]value.Value, len(r))
	for i, x := range r {
		if x == Missing {
			continue
		}
		elems[i] = value.NewInteger(int64(x))
	}
	return value.NewVector(elems...)
}

// Values returns the matrix
// as a vector of taxon rows.
func (m *Matrix) Values() value.Value {
	rows := make([]value.Value, len(m.taxa))
	for i, tx := range m.taxa {
		rows[i] = m.Value(tx)
	}
	return value.NewVector(rows...)
}

// Canon returns a taxon name
// in its canonical form.
func canon(name string) string {
	return strings.Join(strings.Fields(name), " ")
}
