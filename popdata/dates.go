// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package popdata

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/js-arias/timetree"
)

// TaxonDate is the sampling date of a taxon.
type TaxonDate struct {
	Taxon string

	// Date is the date in the units of the data file.
	// Calendar dates are stored as decimal years.
	Date float64
}

// ReadTaxonDates reads a file of taxon dates.
// Each record is a taxon and its date,
// separated by the given delimiter.
// If the delimiter is 0,
// it is detected from the first record
// (use Blank for fields separated by blank spaces).
//
// Dates can be decimal numbers
// or calendar dates
// in the form YYYY-MM-DD.
//
// Here is an example file:
//
//	taxon	date
//	Martian	2012.5
//	Jovian	2009-07-02
func ReadTaxonDates(name string, delim rune) ([]TaxonDate, error) {
	return readFile(name, func(r io.Reader) ([]TaxonDate, error) {
		return ParseTaxonDates(r, delim)
	})
}

// ParseTaxonDates reads taxon dates from a reader.
func ParseTaxonDates(r io.Reader, delim rune) ([]TaxonDate, error) {
	rr := newRecordReader(r, delim)

	var dates []TaxonDate
	seen := make(map[string]bool)
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

		if len(fields) != 2 {
			return nil, rr.formatErr("got %d fields, want 2", len(fields))
		}
		tx := canon(fields[0])
		if tx == "" {
			return nil, rr.formatErr("empty taxon name")
		}
		if seen[tx] {
			return nil, rr.formatErr("taxon %q: repeated taxon", tx)
		}
		d, err := parseDate(fields[1])
		if err != nil {
			return nil, rr.formatErr("taxon %q: %v", tx, err)
		}
		seen[tx] = true
		dates = append(dates, TaxonDate{Taxon: tx, Date: d})
	}
	if len(dates) == 0 {
		return nil, rr.formatErr("no data")
	}
	return dates, nil
}

func parseDate(s string) (float64, error) {
	if d, err := strconv.ParseFloat(s, 64); err == nil {
		if math.IsNaN(d) || math.IsInf(d, 0) {
			return 0, fmt.Errorf("invalid date %q", s)
		}
		return d, nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return 0, fmt.Errorf("invalid date %q", s)
	}
	return DecimalYear(t), nil
}

// DecimalYear returns a calendar date
// as a decimal year.
func DecimalYear(t time.Time) float64 {
	y := t.Year()
	start := time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(y+1, time.January, 1, 0, 0, 0, 0, time.UTC)
	days := end.Sub(start).Hours() / 24
	return float64(y) + float64(t.YearDay()-1)/days
}

// number of years
// in a million years
const millionYears = 1_000_000

// DatesFromTree returns the ages
// of the terminals of a time calibrated tree,
// in million years.
func DatesFromTree(t *timetree.Tree) []TaxonDate {
	terms := t.Terms()
	dates := make([]TaxonDate, 0, len(terms))
	for _, term := range terms {
		id, ok := t.TaxNode(term)
		if !ok {
			continue
		}
		dates = append(dates, TaxonDate{
			Taxon: canon(term),
			Date:  float64(t.Age(id)) / millionYears,
		})
	}
	return dates
}
