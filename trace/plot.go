// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package trace

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Plot writes a plot of the values of a column
// by generation.
// The format of the image is defined
// by the extension of the file name
// (for example ".png" or ".svg").
func (t *Trace) Plot(col, name string) error {
	x, ok := t.Column(col)
	if !ok {
		return fmt.Errorf("column %q not found", col)
	}
	if len(x) == 0 {
		return fmt.Errorf("column %q: empty trace", col)
	}

	p := plot.New()
	p.Title.Text = col
	p.X.Label.Text = "generation"
	p.Y.Label.Text = col

	pts := make(plotter.XYs, len(x))
	for i, v := range x {
		pts[i].X = float64(t.gens[i])
		pts[i].Y = v
	}
	ln, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("column %q: %v", col, err)
	}
	ln.LineStyle.Width = vg.Points(0.5)
	p.Add(ln)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, name); err != nil {
		return err
	}
	return nil
}

// Histogram writes a histogram of the values
// of a column.
func (t *Trace) Histogram(col, name string, bins int) error {
	x, ok := t.Column(col)
	if !ok {
		return fmt.Errorf("column %q not found", col)
	}
	if len(x) == 0 {
		return fmt.Errorf("column %q: empty trace", col)
	}
	if bins < 1 {
		bins = 20
	}

	p := plot.New()
	p.Title.Text = col
	p.X.Label.Text = col

	h, err := plotter.NewHist(plotter.Values(x), bins)
	if err != nil {
		return fmt.Errorf("column %q: %v", col, err)
	}
	h.Normalize(1)
	p.Add(h)

	if err := p.Save(5*vg.Inch, 3*vg.Inch, name); err != nil {
		return err
	}
	return nil
}
