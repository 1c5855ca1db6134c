// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package mcmcparam implements reading and writing
// of the parameters of an MCMC chain.
package mcmcparam

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/js-arias/revdag/mcmc"
)

// Param is a keyword to identify
// the type of parameter in an MCMC parameter file.
type Param string

// Valid parameters
const (
	// Generations is the number of generations
	// of the chain.
	Generations Param = "generations"

	// Burnin is the number of generations
	// discarded at the start of the chain.
	Burnin Param = "burnin"

	// Sample is the sampling frequency.
	Sample Param = "sample"

	// Seed is the seed
	// of the random number generator.
	Seed Param = "seed"

	// Tune is the tuning interval
	// of the moves during burnin.
	Tune Param = "tune"
)

// MP represents a collection of MCMC parameters.
type MP struct {
	name string // file name

	gens   int
	burnin int
	sample int
	seed   uint64
	tune   int
}

// New creates a new parameter collection
// with default values.
func New(name string) *MP {
	return &MP{
		name:   name,
		gens:   10_000,
		burnin: 1_000,
		sample: 10,
		seed:   1,
		tune:   100,
	}
}

var header = []string{
	"parameter",
	"value",
}

// Read reads an MCMC parameter file from a TSV file.
//
// The TSV must contains the following fields:
//
//   - parameter, the name of the parameter
//   - value, the value of the parameter
//
// Parameters not defined in the file
// keep their default values.
// Here is an example file:
//
//	# mcmc parameters
//	parameter	value
//	generations	100000
//	burnin	10000
//	sample	100
//	seed	42
//	tune	100
func Read(name string) (*MP, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tsv := csv.NewReader(f)
	tsv.Comma = '\t'
	tsv.Comment = '#'

	head, err := tsv.Read()
	if err != nil {
		return nil, fmt.Errorf("on file %q: header: %v", name, err)
	}
	fields := make(map[string]int, len(head))
	for i, h := range head {
		h = strings.ToLower(h)
		fields[h] = i
	}
	for _, h := range header {
		if _, ok := fields[h]; !ok {
			return nil, fmt.Errorf("on file %q: expecting field %q", name, h)
		}
	}

	mp := New(name)
	for {
		row, err := tsv.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		ln, _ := tsv.FieldPos(0)
		if err != nil {
			return nil, fmt.Errorf("on file %q: on row %d: %v", name, ln, err)
		}

		f := "parameter"
		p := Param(strings.ToLower(row[fields[f]]))

		f = "value"
		val := strings.TrimSpace(row[fields[f]])
		if p == Seed {
			s, err := strconv.ParseUint(val, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("on file %q: on row %d, field %q: %v", name, ln, f, err)
			}
			mp.seed = s
			continue
		}

		var set func(int) error
		switch p {
		case Generations:
			set = mp.SetGenerations
		case Burnin:
			set = mp.SetBurnin
		case Sample:
			set = mp.SetSample
		case Tune:
			set = mp.SetTune
		default:
			return nil, fmt.Errorf("on file %q: on row %d: unknown parameter %q", name, ln, p)
		}
		v, err := strconv.Atoi(val)
		if err != nil {
			return nil, fmt.Errorf("on file %q: on row %d, field %q: %v", name, ln, f, err)
		}
		if err := set(v); err != nil {
			return nil, fmt.Errorf("on file %q: on row %d, field %q: %v", name, ln, f, err)
		}
	}
	if mp.burnin >= mp.gens {
		return nil, fmt.Errorf("on file %q: burnin %d greater than generations %d", name, mp.burnin, mp.gens)
	}
	return mp, nil
}

// Name returns the file name of the parameter collection.
func (mp *MP) Name() string {
	return mp.name
}

// Generations returns the number of generations.
func (mp *MP) Generations() int {
	return mp.gens
}

// Burnin returns the number of burnin generations.
func (mp *MP) Burnin() int {
	return mp.burnin
}

// Sample returns the sampling frequency.
func (mp *MP) Sample() int {
	return mp.sample
}

// Seed returns the seed of the random number generator.
func (mp *MP) Seed() uint64 {
	return mp.seed
}

// Tune returns the tuning interval.
func (mp *MP) Tune() int {
	return mp.tune
}

// Param returns the parameters of an MCMC chain.
func (mp *MP) Param() mcmc.Param {
	return mcmc.Param{
		Generations: mp.gens,
		Burnin:      mp.burnin,
		Sample:      mp.sample,
		Seed:        mp.seed,
		Tune:        mp.tune,
	}
}

// SetName sets the name of a parameter collection.
func (mp *MP) SetName(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	mp.name = name
}

// SetGenerations sets the number of generations.
func (mp *MP) SetGenerations(n int) error {
	if n < 1 {
		return fmt.Errorf("invalid number of generations: %d", n)
	}
	mp.gens = n
	return nil
}

// SetBurnin sets the number of burnin generations.
func (mp *MP) SetBurnin(n int) error {
	if n < 0 {
		return fmt.Errorf("invalid burnin: %d", n)
	}
	mp.burnin = n
	return nil
}

// SetSample sets the sampling frequency.
func (mp *MP) SetSample(n int) error {
	if n < 1 {
		return fmt.Errorf("invalid sampling frequency: %d", n)
	}
	mp.sample = n
	return nil
}

// SetSeed sets the seed of the random number generator.
func (mp *MP) SetSeed(s uint64) {
	mp.seed = s
}

// SetTune sets the tuning interval.
// If 0,
// the moves are not tuned.
func (mp *MP) SetTune(n int) error {
	if n < 0 {
		return fmt.Errorf("invalid tuning interval: %d", n)
	}
	mp.tune = n
	return nil
}

// Write writes a parameter collection into a file.
func (mp *MP) Write() (err error) {
	f, err := os.Create(mp.name)
	if err != nil {
		return err
	}
	defer func() {
		e := f.Close()
		if e != nil && err == nil {
			err = e
		}
	}()

	bw := bufio.NewWriter(f)
	fmt.Fprintf(bw, "# revdag mcmc parameters\n")
	fmt.Fprintf(bw, "# data save on: %s\n", time.Now().Format(time.RFC3339))
	tsv := csv.NewWriter(bw)
	tsv.Comma = '\t'
	tsv.UseCRLF = true

	if err := tsv.Write(header); err != nil {
		return fmt.Errorf("on file %q: while writing header: %v", mp.name, err)
	}

	rows := [][]string{
		{string(Generations), strconv.Itoa(mp.gens)},
		{string(Burnin), strconv.Itoa(mp.burnin)},
		{string(Sample), strconv.Itoa(mp.sample)},
		{string(Seed), strconv.FormatUint(mp.seed, 10)},
		{string(Tune), strconv.Itoa(mp.tune)},
	}
	for _, row := range rows {
		if err := tsv.Write(row); err != nil {
			return fmt.Errorf("on file %q: %v", mp.name, err)
		}
	}

	tsv.Flush()
	if err := tsv.Error(); err != nil {
		return fmt.Errorf("on file %q: while writing data: %v", mp.name, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("on file %q: while writing data: %v", mp.name, err)
	}
	return nil
}
