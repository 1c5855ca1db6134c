// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package popdata

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Blank is the delimiter
// for fields separated by blank spaces.
const Blank = ' '

// A recordReader reads the records
// of a delimited file.
type recordReader struct {
	sc    *bufio.Scanner
	line  int
	delim rune
}

func newRecordReader(r io.Reader, delim rune) *recordReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	return &recordReader{
		sc:    sc,
		delim: delim,
	}
}

// Read returns the fields of the next record.
// Blank and comment lines are skipped.
// If the delimiter is undefined
// it is detected from the first record.
func (rr *recordReader) read() ([]string, error) {
	for rr.sc.Scan() {
		rr.line++
		ln := strings.TrimSpace(rr.sc.Text())
		if ln == "" || strings.HasPrefix(ln, "#") {
			continue
		}

		if rr.delim == 0 {
			rr.delim = detect(ln)
		}
		if rr.delim == Blank {
			return strings.Fields(ln), nil
		}
		fields := strings.Split(ln, string(rr.delim))
		for i, f := range fields {
			fields[i] = strings.TrimSpace(f)
		}
		return fields, nil
	}
	if err := rr.sc.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

func (rr *recordReader) formatErr(format string, a ...any) error {
	return &FormatError{
		Line: rr.line,
		Msg:  fmt.Sprintf(format, a...),
	}
}

func detect(ln string) rune {
	if strings.ContainsRune(ln, '\t') {
		return '\t'
	}
	if strings.ContainsRune(ln, ',') {
		return ','
	}
	return Blank
}

func isHeader(fields []string) bool {
	return strings.ToLower(fields[0]) == "taxon"
}

// A cellParser returns the value of an observation.
type cellParser func(cell string) (int, error)

// ReadMatrix reads a matrix of observations,
// keeping one of each thinBy sites.
func readMatrix(r io.Reader, thinBy int, parse cellParser) (*Matrix, error) {
	if thinBy < 1 {
		return nil, fmt.Errorf("invalid thinning value: %d", thinBy)
	}

	rr := newRecordReader(r, 0)
	m := &Matrix{
		outgroup: make(map[string]bool),
		rows:     make(map[string][]int),
		sites:    -1,
	}
	first := true
	for {
		fields, err := rr.read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if first {
			first = false
			if isHeader(fields) {
				continue
			}
		}

		name := fields[0]
		out := false
		if strings.HasSuffix(name, "*") {
			out = true
			name = strings.TrimSuffix(name, "*")
		}
		tx := canon(name)
		if tx == "" {
			return nil, rr.formatErr("empty taxon name")
		}
		if _, dup := m.rows[tx]; dup {
			return nil, rr.formatErr("taxon %q: repeated taxon", tx)
		}

		obs := fields[1:]
		if m.sites < 0 {
			m.sites = len(obs)
			if m.sites == 0 {
				return nil, rr.formatErr("taxon %q: no observations", tx)
			}
		}
		if len(obs) != m.sites {
			return nil, rr.formatErr("taxon %q: got %d sites, want %d", tx, len(obs), m.sites)
		}

		row := make([]int, 0, (len(obs)+thinBy-1)/thinBy)
		for i := 0; i < len(obs); i += thinBy {
			x, err := parse(obs[i])
			if err != nil {
				return nil, rr.formatErr("taxon %q: site %d: %v", tx, i, err)
			}
			row = append(row, x)
		}

		m.taxa = append(m.taxa, tx)
		m.rows[tx] = row
		m.outgroup[tx] = out
	}

	if len(m.taxa) == 0 {
		return nil, rr.formatErr("no data")
	}
	m.sites = (m.sites + thinBy - 1) / thinBy
	return m, nil
}

func parseCount(cell string) (int, error) {
	x, err := strconv.Atoi(cell)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q", cell)
	}
	if x < 0 {
		return 0, fmt.Errorf("invalid count %d", x)
	}
	return x, nil
}

// ReadFile opens a file and reads it
// with the given function.
// Format errors are annotated
// with the file name.
func readFile[T any](name string, read func(r io.Reader) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(name)
	if err != nil {
		return zero, fmt.Errorf("popdata: %w", err)
	}
	defer f.Close()

	v, err := read(f)
	if err != nil {
		var fe *FormatError
		if errors.As(err, &fe) {
			fe.File = name
			return zero, fe
		}
		return zero, fmt.Errorf("on file %q: %w", name, err)
	}
	return v, nil
}
