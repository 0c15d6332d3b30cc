/*
 *  format.go
 *  pairsqc
 *
 *  Created by Haibao Tang on 10/17/26
 *  Copyright © 2026 Haibao Tang. All rights reserved.
 */

package pairsqc

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// OrientationNames are common across input formats, in the order of
// Format.Orientations
var OrientationNames = [NumOrientations]string{"Inner", "Outer", "Right", "Left"}

// Format describes where the loci and strands are in a pair record. All
// column indices are 0-based.
type Format struct {
	Name         string                  // Long name, e.g. pairs
	Code         string                  // Short selector, e.g. P
	Chr1, Chr2   int                     // Chromosome columns, used to build block keys
	Pos1, Pos2   int                     // Position columns
	Strand1      int                     // Strand column of the first locus
	Strand2      int                     // Strand column of the second locus
	Orientations [NumOrientations]string // Canonical codes for Inner, Outer, Right, Left
}

// The three known input formats
var (
	PairsFormat = Format{
		Name: "pairs", Code: "P",
		Chr1: 1, Pos1: 2, Chr2: 3, Pos2: 4, Strand1: 5, Strand2: 6,
		Orientations: [NumOrientations]string{"+-", "-+", "++", "--"},
	}
	MergedNodupsFormat = Format{
		Name: "merged_nodups", Code: "M",
		Chr1: 1, Pos1: 2, Chr2: 5, Pos2: 6, Strand1: 0, Strand2: 4,
		Orientations: [NumOrientations]string{"016", "160", "00", "1616"},
	}
	OldMergedNodupsFormat = Format{
		Name: "old_merged_nodups", Code: "OM",
		Chr1: 2, Pos1: 3, Chr2: 6, Pos2: 7, Strand1: 1, Strand2: 5,
		Orientations: [NumOrientations]string{"016", "160", "00", "1616"},
	}
)

// Formats is the catalogue of supported input formats
var Formats = []Format{PairsFormat, MergedNodupsFormat, OldMergedNodupsFormat}

// LookupFormat finds the format by its short code (P, M, OM) or long name
func LookupFormat(selector string) (Format, error) {
	for _, f := range Formats {
		if strings.EqualFold(selector, f.Code) || strings.EqualFold(selector, f.Name) {
			return f, nil
		}
	}
	return Format{}, errors.Wrapf(ErrUnknownFormat, "input type `%s` (choose from P, M, OM)", selector)
}

// String outputs the string representation of Format
func (r Format) String() string {
	return fmt.Sprintf("%s\t%s\tchr=%d,%d\tpos=%d,%d\tstrand=%d,%d\t%s",
		r.Code, r.Name, r.Chr1, r.Chr2, r.Pos1, r.Pos2, r.Strand1, r.Strand2,
		strings.Join(r.Orientations[:], ","))
}

// NumColumns is the minimum number of fields a record must have
func (r Format) NumColumns() int {
	n := 0
	for _, c := range []int{r.Chr1, r.Chr2, r.Pos1, r.Pos2, r.Strand1, r.Strand2} {
		if c+1 > n {
			n = c + 1
		}
	}
	return n
}

// OrientationIndex returns the position of the code in the canonical set, or
// -1 for codes outside of it (e.g. '4' in merged_nodups)
func (r Format) OrientationIndex(orientation string) int {
	for i, o := range r.Orientations {
		if o == orientation {
			return i
		}
	}
	return -1
}

// Key returns the chr1|chr2 block key of a record
func (r Format) Key(fields []string) (string, error) {
	if len(fields) <= r.Chr1 || len(fields) <= r.Chr2 {
		return "", errors.Wrapf(ErrMalformedInput, "expect chromosome columns %d and %d, got %d fields",
			r.Chr1+1, r.Chr2+1, len(fields))
	}
	return fields[r.Chr1] + Separator + fields[r.Chr2], nil
}

// Classify returns the distance and orientation of a pair record. Distance is
// always reported as a magnitude; when pos2 <= pos1 the strands are swapped so
// the orientation does not depend on which locus is listed first.
func (r Format) Classify(fields []string) (int, string, error) {
	if len(fields) < r.NumColumns() {
		return 0, "", errors.Wrapf(ErrMalformedInput, "expect at least %d fields, got %d",
			r.NumColumns(), len(fields))
	}
	pos1, err := strconv.Atoi(fields[r.Pos1])
	if err != nil {
		return 0, "", errors.Wrapf(ErrMalformedInput, "position `%s` is not an integer", fields[r.Pos1])
	}
	pos2, err := strconv.Atoi(fields[r.Pos2])
	if err != nil {
		return 0, "", errors.Wrapf(ErrMalformedInput, "position `%s` is not an integer", fields[r.Pos2])
	}

	distance := pos2 - pos1
	if distance > 0 {
		return distance, fields[r.Strand1] + fields[r.Strand2], nil
	}
	return -distance, fields[r.Strand2] + fields[r.Strand1], nil
}

// SplitKey splits a block key chr1|chr2 into the two chromosomes
func SplitKey(key string) (string, string, error) {
	words := strings.Split(key, Separator)
	if len(words) != 2 {
		return "", "", errors.Wrapf(ErrMalformedInput, "block key `%s` is not chr1%schr2", key, Separator)
	}
	return words[0], words[1], nil
}
