// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package popdata

import (
	"io"
	"strings"
)

// ReadMicrosat reads a microsatellite data file.
// Each observation is a non-negative repeat count,
// missing observations are indicated with '?', '-' or "NA".
// Only one of each thinBy sites is kept,
// starting with the first site.
//
// Here is an example file:
//
//	taxon	loc0	loc1	loc2
//	Martian	12	?	9
//	Jovian	14	11	NA
func ReadMicrosat(name string, thinBy int) (*Matrix, error) {
	return readFile(name, func(r io.Reader) (*Matrix, error) {
		return ParseMicrosat(r, thinBy)
	})
}

// ParseMicrosat reads microsatellite data from a reader.
func ParseMicrosat(r io.Reader, thinBy int) (*Matrix, error) {
	return readMatrix(r, thinBy, parseRepeats)
}

func parseRepeats(cell string) (int, error) {
	switch strings.ToLower(cell) {
	case "?", "-", "na":
		return Missing, nil
	}
	return parseCount(cell)
}
