/*
 *  histogram.go
 *  pairsqc
 *
 *  Created by Haibao Tang on 10/17/26
 *  Copyright © 2026 Haibao Tang. All rights reserved.
 */

package pairsqc

import (
	"github.com/pkg/errors"
)

// Histogram is a log10-scale binned histogram of read separation distance,
// stratified by the 4 read orientations and optionally by chromosome
type Histogram struct {
	Bins    *DistanceBin
	Stats   []*SeparationStat // One per allocated bin
	Format  *Format
	Genome  *GenomeSize
	PerChr  bool
	derived bool
}

// NewHistogram allocates a SeparationStat for every bin
func NewHistogram(bins *DistanceBin, format *Format, gs *GenomeSize, perChr bool, pseudocount float64) *Histogram {
	r := &Histogram{
		Bins:   bins,
		Stats:  make([]*SeparationStat, bins.NumBins()),
		Format: format,
		Genome: gs,
		PerChr: perChr,
	}
	for i := range r.Stats {
		r.Stats[i] = NewSeparationStat(format, gs, perChr, pseudocount)
	}
	return r
}

// add bins a classified read. Zero distances and distances beyond the last
// bin are dropped.
func (r *Histogram) add(distance, oriIdx, chrIdx int) bool {
	if oriIdx < 0 || distance <= 0 {
		return false
	}
	binNumber, err := r.Bins.BinNumber(distance)
	if err != nil || binNumber > r.Bins.MaxBinNumber {
		return false
	}
	return r.Stats[binNumber].add(oriIdx, chrIdx)
}

// Increment bins a read by its distance, orientation code and chromosome
func (r *Histogram) Increment(distance int, orientation, chr string) bool {
	chrIdx := -1
	if r.PerChr {
		chrIdx = r.Genome.Index(chr)
	}
	return r.add(distance, r.Format.OrientationIndex(orientation), chrIdx)
}

// Merge adds the raw counts of another histogram of the same shape
func (r *Histogram) Merge(o *Histogram) error {
	if len(r.Stats) != len(o.Stats) {
		return errors.Wrapf(ErrInternalConsistency, "cannot merge %d bins into %d bins",
			len(o.Stats), len(r.Stats))
	}
	for i, ss := range r.Stats {
		if err := ss.Merge(o.Stats[i]); err != nil {
			return errors.Wrapf(err, "bin %d", i)
		}
	}
	return nil
}

// Derive calculates totals, log10 counts, proportions and contact probability
// for every allocated bin, including those not reported. Bins where the
// probability is undefined are returned in undefined.
func (r *Histogram) Derive() (undefined []error, err error) {
	for binNumber, ss := range r.Stats {
		binMid := r.Bins.BinMid(binNumber)
		binSize := r.Bins.BinSize(binNumber)
		u, err := ss.Derive(binMid, binSize)
		if err != nil {
			return nil, errors.Wrapf(err, "bin %d", binNumber)
		}
		if u != nil && r.Bins.InRange(binNumber) {
			undefined = append(undefined, errors.Wrapf(u, "bin %d", binNumber))
		}
	}
	r.derived = true
	return undefined, nil
}

// Derived tells if Derive has completed
func (r *Histogram) Derived() bool {
	return r.derived
}

// SumCount is the number of reads binned across all allocated bins
func (r *Histogram) SumCount() int64 {
	total := int64(0)
	for _, ss := range r.Stats {
		total += sumInt64(ss.CountPerOri[:])
	}
	return total
}
