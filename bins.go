/*
 *  bins.go
 *  pairsqc
 *
 *  Created by Haibao Tang on 10/17/26
 *  Copyright © 2026 Haibao Tang. All rights reserved.
 */

package pairsqc

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
)

// DistanceBin converts between distance, log distance, bin number and bin size.
// Bin b covers [b*w, (b+1)*w) at the log10 scale, w being LogBinSize.
type DistanceBin struct {
	MinLogDistance float64
	MaxLogDistance float64
	LogBinSize     float64
	MaxBinNumber   int
}

// NewDistanceBin allocates bins 0..MaxBinNumber
func NewDistanceBin(minLogDistance, maxLogDistance, logBinSize float64) *DistanceBin {
	return &DistanceBin{
		MinLogDistance: minLogDistance,
		MaxLogDistance: maxLogDistance,
		LogBinSize:     logBinSize,
		MaxBinNumber:   int(math.Floor((maxLogDistance - logBinSize/2) / logBinSize)),
	}
}

// NumBins is the number of allocated bins
func (r *DistanceBin) NumBins() int {
	return r.MaxBinNumber + 1
}

// BinNumber maps a distance to its bin, the distance must be positive
func (r *DistanceBin) BinNumber(distance int) (int, error) {
	if distance <= 0 {
		return -1, errors.Wrapf(ErrUndefinedStatistic, "log10 of distance %d", distance)
	}
	return int(math.Floor(log10Distance(distance) / r.LogBinSize)), nil
}

// log10Distance is math.Log10 snapped to whole numbers at exact powers of 10,
// e.g. 1000 => 3 rather than 2.9999999999999996
func log10Distance(distance int) float64 {
	lg := math.Log10(float64(distance))
	if k := math.Round(lg); math.Pow(10, k) == float64(distance) {
		return k
	}
	return lg
}

// BinMid returns midpoint of a bin at log scale
func (r *DistanceBin) BinMid(binNumber int) float64 {
	return float64(binNumber)*r.LogBinSize + r.LogBinSize/2
}

// BinSize returns the linear width of a bin
func (r *DistanceBin) BinSize(binNumber int) float64 {
	mid := r.BinMid(binNumber)
	return math.Pow(10, mid+r.LogBinSize/2) - math.Pow(10, mid-r.LogBinSize/2)
}

// BinRange returns the rounded linear bounds of a bin
func (r *DistanceBin) BinRange(binNumber int) (int64, int64) {
	mid := r.BinMid(binNumber)
	minval := int64(Round(math.Pow(10, mid-r.LogBinSize/2)))
	maxval := int64(Round(math.Pow(10, mid+r.LogBinSize/2)))
	return minval, maxval
}

// BinRangeString prints the bin bounds as e.g. 1,000~1,259
func (r *DistanceBin) BinRangeString(binNumber int) string {
	minval, maxval := r.BinRange(binNumber)
	return fmt.Sprintf("%s~%s", humanize.Comma(minval), humanize.Comma(maxval))
}

// InRange checks if the bin midpoint is within the reported range
func (r *DistanceBin) InRange(binNumber int) bool {
	mid := r.BinMid(binNumber)
	return mid >= r.MinLogDistance && mid <= r.MaxLogDistance
}
