// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package popdata

import "io"

// ReadSNP reads a SNP data file.
// Each observation is a non-negative allele count.
// Only one of each thinBy sites is kept,
// starting with the first site.
//
// Here is an example file:
//
//	# allele counts
//	taxon	s0	s1	s2	s3	s4
//	Martian	1	0	1	1	0
//	Jovian	0	2	1	0	1
//	Venusian*	1	1	0	0	2
func ReadSNP(name string, thinBy int) (*Matrix, error) {
	return readFile(name, func(r io.Reader) (*Matrix, error) {
		return ParseSNP(r, thinBy)
	})
}

// ParseSNP reads SNP data from a reader.
func ParseSNP(r io.Reader, thinBy int) (*Matrix, error) {
	return readMatrix(r, thinBy, parseCount)
}
