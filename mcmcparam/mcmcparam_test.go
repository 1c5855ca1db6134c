// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package mcmcparam_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/js-arias/revdag/mcmc"
	"github.com/js-arias/revdag/mcmcparam"
)

func TestMCMCParam(t *testing.T) {
	name := "tmp-mcmc-parameters-for-test.tab"
	mp := mcmcparam.New(name)
	testMP(t, mp, nil)

	mp.SetGenerations(50_000)
	mp.SetBurnin(5_000)
	mp.SetSample(50)
	mp.SetSeed(42)
	mp.SetTune(0)

	defer os.Remove(name)
	if err := mp.Write(); err != nil {
		t.Fatalf("error when writing data: %v", err)
	}

	np, err := mcmcparam.Read(name)
	if err != nil {
		t.Fatalf("error when reading data: %v", err)
	}
	testMP(t, np, mp)

	want := mcmc.Param{Generations: 50_000, Burnin: 5_000, Sample: 50, Seed: 42}
	if np.Param() != want {
		t.Errorf("param: got %+v, want %+v", np.Param(), want)
	}
}

func testMP(t testing.TB, mp, want *mcmcparam.MP) {
	t.Helper()

	if want == nil {
		want = mcmcparam.New(mp.Name())
	}

	if mp.Name() != want.Name() {
		t.Errorf("name: got %q, want %q", mp.Name(), want.Name())
	}
	if mp.Generations() != want.Generations() {
		t.Errorf("generations: got %d, want %d", mp.Generations(), want.Generations())
	}
	if mp.Burnin() != want.Burnin() {
		t.Errorf("burnin: got %d, want %d", mp.Burnin(), want.Burnin())
	}
	if mp.Sample() != want.Sample() {
		t.Errorf("sample: got %d, want %d", mp.Sample(), want.Sample())
	}
	if mp.Seed() != want.Seed() {
		t.Errorf("seed: got %d, want %d", mp.Seed(), want.Seed())
	}
	if mp.Tune() != want.Tune() {
		t.Errorf("tune: got %d, want %d", mp.Tune(), want.Tune())
	}
}

func TestReadErrors(t *testing.T) {
	tests := map[string]string{
		"no header":         "generations\t100\n",
		"unknown parameter": "parameter\tvalue\nchains\t4\n",
		"invalid value":     "parameter\tvalue\ngenerations\tmany\n",
		"invalid seed":      "parameter\tvalue\nseed\t-1\n",
		"zero sample":       "parameter\tvalue\nsample\t0\n",
		"large burnin":      "parameter\tvalue\ngenerations\t100\nburnin\t100\n",
	}

	dir := t.TempDir()
	for name, data := range tests {
		f := filepath.Join(dir, "param.tab")
		if err := os.WriteFile(f, []byte(data), 0o644); err != nil {
			t.Fatalf("unable to write file: %v", err)
		}
		if _, err := mcmcparam.Read(f); err == nil {
			t.Errorf("%s: expecting error", name)
		}
	}

	if _, err := mcmcparam.Read(filepath.Join(dir, "none.tab")); !os.IsNotExist(err) {
		t.Errorf("missing file: got error %v, want not exist", err)
	}
}
