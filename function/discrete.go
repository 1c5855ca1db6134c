// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package function

import (
	"fmt"
	"math"

	"github.com/js-arias/revdag/value"
	"gonum.org/v1/gonum/stat/distuv"
)

// DiscreteGamma returns the values
// of a gamma distribution with mean 1
// (i.e., alpha = beta)
// discretized in n categories
// of equal probability.
func DiscreteGamma(alpha float64, n int) ([]float64, error) {
	if !(alpha > 0) || math.IsInf(alpha, 0) {
		return nil, fmt.Errorf("%w: gamma shape: %v", value.ErrInvalid, alpha)
	}
	if n < 1 {
		return nil, fmt.Errorf("%w: invalid number of categories: %d", ErrArgs, n)
	}
	return getCats(distuv.Gamma{
		Alpha: alpha,
		Beta:  alpha,
	}, n), nil
}

// DiscreteLogNormal returns the values
// of a log normal distribution
// with location 0
// discretized in n categories
// of equal probability.
func DiscreteLogNormal(sigma float64, n int) ([]float64, error) {
	if !(sigma > 0) || math.IsInf(sigma, 0) {
		return nil, fmt.Errorf("%w: log normal sigma: %v", value.ErrInvalid, sigma)
	}
	if n < 1 {
		return nil, fmt.Errorf("%w: invalid number of categories: %d", ErrArgs, n)
	}
	return getCats(distuv.LogNormal{
		Mu:    0,
		Sigma: sigma,
	}, n), nil
}

// Quantiler is a interfaces for distributions
// with a Quantile function
// (the inverse of the CDF function).
type quantiler interface {
	Quantile(p float64) float64
}

// GetCats returns the value at the middle
// of each category.
func getCats(q quantiler, n int) []float64 {
	cats := make([]float64, n)
	for i := range cats {
		p := (float64(i) + 0.5) / float64(n)
		cats[i] = q.Quantile(p)
	}
	return cats
}

func discreteGamma(args []value.Value) (value.Value, error) {
	if !args[0].IsNumber() || args[1].Kind() != value.Integer {
		return value.Value{}, fmt.Errorf("%w: expecting (shape, categories)", ErrArgs)
	}
	c, err := DiscreteGamma(args[0].Float(), int(args[1].Int()))
	if err != nil {
		return value.Value{}, err
	}
	return value.Reals(c...)
}

func discreteLogNormal(args []value.Value) (value.Value, error) {
	if !args[0].IsNumber() || args[1].Kind() != value.Integer {
		return value.Value{}, fmt.Errorf("%w: expecting (sigma, categories)", ErrArgs)
	}
	c, err := DiscreteLogNormal(args[0].Float(), int(args[1].Int()))
	if err != nil {
		return value.Value{}, err
	}
	return value.Reals(c...)
}
