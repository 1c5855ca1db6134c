// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package popdata_test

import (
	"errors"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/js-arias/revdag/popdata"
	"github.com/js-arias/revdag/value"
	"github.com/js-arias/timetree"
)

func TestSNPThinning(t *testing.T) {
	tests := map[string]struct {
		data   string
		thinBy int
		want   map[string][]int
		sites  int
	}{
		"tab": {
			data: `# allele counts
taxon	s0	s1	s2	s3	s4
Martian	1	0	1	1	0
Jovian	0	2	1	0	1
`,
			thinBy: 2,
			want: map[string][]int{
				"Martian": {1, 1, 0},
				"Jovian":  {0, 1, 1},
			},
			sites: 3,
		},
		"blank": {
			data: `
Martian 1 0 1 1 0
Jovian   0 2 1 0 1
`,
			thinBy: 1,
			want: map[string][]int{
				"Martian": {1, 0, 1, 1, 0},
				"Jovian":  {0, 2, 1, 0, 1},
			},
			sites: 5,
		},
		"comma": {
			data: `Martian,1,0,1,1,0
Jovian,0,2,1,0,1
`,
			thinBy: 3,
			want: map[string][]int{
				"Martian": {1, 1},
				"Jovian":  {0, 0},
			},
			sites: 2,
		},
	}

	for name, test := range tests {
		m, err := popdata.ParseSNP(strings.NewReader(test.data), test.thinBy)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", name, err)
			continue
		}
		if m.Sites() != test.sites {
			t.Errorf("%s: got %d sites, want %d", name, m.Sites(), test.sites)
		}
		if got, want := m.Taxa(), []string{"Martian", "Jovian"}; !reflect.DeepEqual(got, want) {
			t.Errorf("%s: taxa: got %v, want %v", name, got, want)
		}
		for tx, w := range test.want {
			if got := m.Row(tx); !reflect.DeepEqual(got, w) {
				t.Errorf("%s: taxon %q: got %v, want %v", name, tx, got, w)
			}
		}
	}
}

func TestTaxonNames(t *testing.T) {
	data := "HIV-1A\t1\t0\nhiv-1a\t0\t1\n  Sample   7 *\t2\t2\n"
	m, err := popdata.ParseSNP(strings.NewReader(data), 1)
	if err != nil {
		t.Fatalf("snp: unexpected error: %v", err)
	}
	if got, want := m.Taxa(), []string{"HIV-1A", "hiv-1a", "Sample 7"}; !reflect.DeepEqual(got, want) {
		t.Errorf("taxa: got %v, want %v", got, want)
	}
	if got := m.Row("hiv-1a"); !reflect.DeepEqual(got, []int{0, 1}) {
		t.Errorf("taxon %q: got %v", "hiv-1a", got)
	}
	if got := m.Row("Sample  7"); !reflect.DeepEqual(got, []int{2, 2}) {
		t.Errorf("taxon %q: got %v", "Sample  7", got)
	}
	if !m.IsOutgroup("Sample 7") {
		t.Errorf("taxon %q: expecting outgroup", "Sample 7")
	}
}

func TestSNPErrors(t *testing.T) {
	tests := map[string]struct {
		data string
		line int
	}{
		"inconsistent width": {
			data: "A\t1\t0\t1\nB\t1\t0\n",
			line: 2,
		},
		"invalid count": {
			data: "A\t1\t0\t1\nB\t1\tx\t0\n",
			line: 2,
		},
		"negative count": {
			data: "A\t1\t-1\t1\n",
			line: 1,
		},
		"repeated taxon": {
			data: "# comment\nA\t1\t0\nA\t1\t0\n",
			line: 3,
		},
		"empty": {
			data: "# only comments\n",
			line: 1,
		},
	}

	for name, test := range tests {
		_, err := popdata.ParseSNP(strings.NewReader(test.data), 1)
		if !errors.Is(err, popdata.ErrFormat) {
			t.Errorf("%s: got error %v, want %v", name, err, popdata.ErrFormat)
			continue
		}
		var fe *popdata.FormatError
		if !errors.As(err, &fe) {
			t.Fatalf("%s: expecting a format error", name)
		}
		if fe.Line != test.line {
			t.Errorf("%s: got line %d, want %d", name, fe.Line, test.line)
		}
	}

	if _, err := popdata.ParseSNP(strings.NewReader("A\t1\n"), 0); err == nil {
		t.Errorf("thinning 0: expecting error")
	}
}

func TestReadSNPFile(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "snp.tab")
	if err := os.WriteFile(name, []byte("A\t1\t0\nB\t1\n"), 0o644); err != nil {
		t.Fatalf("unable to write file: %v", err)
	}

	_, err := popdata.ReadSNP(name, 1)
	var fe *popdata.FormatError
	if !errors.As(err, &fe) {
		t.Fatalf("read: got error %v, want a format error", err)
	}
	if fe.File != name {
		t.Errorf("read: got file %q, want %q", fe.File, name)
	}

	if _, err := popdata.ReadSNP(filepath.Join(dir, "none.tab"), 1); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("read: got error %v, want %v", err, fs.ErrNotExist)
	}
}

func TestMicrosat(t *testing.T) {
	data := `taxon	loc0	loc1	loc2	loc3
Martian*	12	?	9	10
Jovian	14	11	NA	-
`
	m, err := popdata.ParseMicrosat(strings.NewReader(data), 1)
	if err != nil {
		t.Fatalf("microsat: unexpected error: %v", err)
	}

	want := []int{14, 11, popdata.Missing, popdata.Missing}
	if got := m.Row("Jovian"); !reflect.DeepEqual(got, want) {
		t.Errorf("microsat: got %v, want %v", got, want)
	}
	if !m.HasMissing() {
		t.Errorf("microsat: expecting missing data")
	}
	if !m.IsOutgroup("Martian") || m.IsOutgroup("Jovian") {
		t.Errorf("microsat: outgroup: got %v", m.Outgroup())
	}

	v := m.Value("Martian")
	if v.Len() != 4 {
		t.Fatalf("value: got %d elements, want %d", v.Len(), 4)
	}
	if !v.At(1).IsNull() {
		t.Errorf("value: missing site: got %v, want null", v.At(1))
	}
	if !v.At(0).Equal(value.NewInteger(12)) {
		t.Errorf("value: got %v, want %v", v.At(0), 12)
	}
	if got := m.Values().Len(); got != 2 {
		t.Errorf("values: got %d rows, want %d", got, 2)
	}
}

func TestTaxonDates(t *testing.T) {
	data := `taxon	date
Martian	2012.5
Jovian	2009-07-02
`
	dates, err := popdata.ParseTaxonDates(strings.NewReader(data), '\t')
	if err != nil {
		t.Fatalf("dates: unexpected error: %v", err)
	}
	if len(dates) != 2 {
		t.Fatalf("dates: got %d records, want %d", len(dates), 2)
	}
	if dates[0].Taxon != "Martian" || dates[0].Date != 2012.5 {
		t.Errorf("dates: got %v", dates[0])
	}
	want := popdata.DecimalYear(time.Date(2009, time.July, 2, 0, 0, 0, 0, time.UTC))
	if dates[1].Date != want {
		t.Errorf("dates: got %.6f, want %.6f", dates[1].Date, want)
	}

	if _, err := popdata.ParseTaxonDates(strings.NewReader("Martian\t2012-13-40\n"), '\t'); !errors.Is(err, popdata.ErrFormat) {
		t.Errorf("invalid date: got error %v, want %v", err, popdata.ErrFormat)
	}
	if _, err := popdata.ParseTaxonDates(strings.NewReader("Martian 2012\n"), '\t'); !errors.Is(err, popdata.ErrFormat) {
		t.Errorf("wrong delimiter: got error %v, want %v", err, popdata.ErrFormat)
	}
	for _, d := range []string{"NaN", "Inf", "+Inf", "-Inf"} {
		data := "taxon\tdate\nMartian\t" + d + "\n"
		if _, err := popdata.ParseTaxonDates(strings.NewReader(data), '\t'); !errors.Is(err, popdata.ErrFormat) {
			t.Errorf("date %q: got error %v, want %v", d, err, popdata.ErrFormat)
		}
	}
}

func TestDecimalYear(t *testing.T) {
	if got := popdata.DecimalYear(time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)); got != 2000 {
		t.Errorf("decimal year: got %.6f, want %.6f", got, 2000.0)
	}
	// 2001 is not a leap year
	got := popdata.DecimalYear(time.Date(2001, time.July, 2, 0, 0, 0, 0, time.UTC))
	if want := 2001 + 182.0/365; math.Abs(got-want) > 1e-9 {
		t.Errorf("decimal year: got %.6f, want %.6f", got, want)
	}
}

func TestDatesFromTree(t *testing.T) {
	data := `# time calibrated phylogenetic tree
tree	node	parent	age	taxon
dinosaurs	0	-1	235000000
dinosaurs	1	0	230000000	Eoraptor lunensis
dinosaurs	2	0	170000000
dinosaurs	3	2	145000000	Ceratosaurus nasicornis
dinosaurs	4	2	71000000	Carnotaurus sastrei
`
	c, err := timetree.ReadTSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("tree: unexpected error: %v", err)
	}
	dates := popdata.DatesFromTree(c.Tree("dinosaurs"))

	want := map[string]float64{
		"Eoraptor lunensis":       230,
		"Ceratosaurus nasicornis": 145,
		"Carnotaurus sastrei":     71,
	}
	if len(dates) != len(want) {
		t.Fatalf("dates: got %d terminals, want %d", len(dates), len(want))
	}
	for _, d := range dates {
		if w, ok := want[d.Taxon]; !ok || d.Date != w {
			t.Errorf("dates: taxon %q: got %.3f, want %.3f", d.Taxon, d.Date, w)
		}
	}
}
