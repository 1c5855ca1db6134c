// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package trace

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// Summary is the summary of a column
// of a trace.
type Summary struct {
	Name string
	Mean float64
	SD   float64

	// 95% credibility interval
	Lower float64
	Upper float64

	// Effective sample size
	ESS float64
}

// Summarize returns the summary of each column of a trace,
// including the lnProb column.
func (t *Trace) Summarize() []Summary {
	sum := make([]Summary, 0, len(t.cols)+1)
	sum = append(sum, summarize("lnProb", t.lnProb))
	for i, c := range t.cols {
		sum = append(sum, summarize(c, t.values[i]))
	}
	return sum
}

func summarize(name string, x []float64) Summary {
	s := Summary{Name: name}
	if len(x) == 0 {
		return s
	}
	s.Mean, s.SD = stat.MeanStdDev(x, nil)
	if len(x) == 1 {
		s.SD = 0
	}

	sorted := slices.Clone(x)
	slices.Sort(sorted)
	s.Lower = stat.Quantile(0.025, stat.Empirical, sorted, nil)
	s.Upper = stat.Quantile(0.975, stat.Empirical, sorted, nil)
	s.ESS = ESS(x)
	return s
}

// ESS returns the effective sample size
// of a sequence of samples,
// using the sum of the autocorrelations
// until the first non positive autocorrelation.
func ESS(x []float64) float64 {
	n := len(x)
	if n < 3 {
		return float64(n)
	}
	if stat.Variance(x, nil) == 0 {
		return float64(n)
	}

	var sum float64
	for lag := 1; lag < n/2; lag++ {
		r := stat.Correlation(x[:n-lag], x[lag:], nil)
		if math.IsNaN(r) || r <= 0 {
			break
		}
		sum += r
	}
	ess := float64(n) / (1 + 2*sum)
	if ess > float64(n) {
		return float64(n)
	}
	return ess
}
