/*
 *  separation.go
 *  pairsqc
 *
 *  Created by Haibao Tang on 10/17/26
 *  Copyright © 2026 Haibao Tang. All rights reserved.
 */

package pairsqc

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
)

// SeparationStat holds the statistics of one separation distance bin. Counts
// are mutated during the scan, the remaining fields are only valid after
// Derive.
type SeparationStat struct {
	format      *Format
	gs          *GenomeSize
	perChr      bool
	pseudocount float64
	derived     bool

	// per-orientation
	CountPerOri      [NumOrientations]int64
	Log10CountPerOri [NumOrientations]float64
	PCountPerOri     [NumOrientations]float64

	// per-chromosome, indexed as gs.Names, nil if not tracked
	CountPerChr            []int64
	AllPossibleCountPerChr []float64
	ProbPerChr             []float64
	Log10ProbPerChr        []float64

	// total
	SumCount            int64
	Log10SumCount       float64
	AllPossibleSumCount float64
	Prob                float64
	Log10Prob           float64
	ProbDefined         bool
}

// NewSeparationStat makes an empty bin. Chromosome counts are kept only when
// perChr is set.
func NewSeparationStat(format *Format, gs *GenomeSize, perChr bool, pseudocount float64) *SeparationStat {
	r := &SeparationStat{
		format:      format,
		gs:          gs,
		perChr:      perChr,
		pseudocount: pseudocount,
	}
	if perChr {
		n := gs.NChr
		r.CountPerChr = make([]int64, n)
		r.AllPossibleCountPerChr = make([]float64, n)
		r.ProbPerChr = make([]float64, n)
		r.Log10ProbPerChr = make([]float64, n)
	}
	return r
}

// Derived tells if the derived fields can be read
func (r *SeparationStat) Derived() bool {
	return r.derived
}

// Increment counts a read by orientation code and chromosome name. Reads with
// a non-canonical orientation or, when chromosomes are tracked, on a
// chromosome not in the genome are skipped.
func (r *SeparationStat) Increment(orientation, chr string) bool {
	chrIdx := -1
	if r.perChr {
		chrIdx = r.gs.Index(chr)
	}
	return r.add(r.format.OrientationIndex(orientation), chrIdx)
}

// add increments both count_per_ori and count_per_chr together, so that we
// don't count the read on a weird chromosome for orientation and vice versa
func (r *SeparationStat) add(oriIdx, chrIdx int) bool {
	if oriIdx < 0 || oriIdx >= NumOrientations {
		return false
	}
	if r.perChr {
		if chrIdx < 0 || chrIdx >= len(r.CountPerChr) {
			return false
		}
		r.CountPerChr[chrIdx]++
	}
	r.CountPerOri[oriIdx]++
	return true
}

// Merge adds raw counts from another bin of the same shape
func (r *SeparationStat) Merge(o *SeparationStat) error {
	if r.derived || o.derived {
		return errors.Wrap(ErrInternalConsistency, "cannot merge derived bins")
	}
	if r.perChr != o.perChr || len(r.CountPerChr) != len(o.CountPerChr) {
		return errors.Wrap(ErrInternalConsistency, "cannot merge bins of different shapes")
	}
	for i := range r.CountPerOri {
		r.CountPerOri[i] += o.CountPerOri[i]
	}
	for i := range r.CountPerChr {
		r.CountPerChr[i] += o.CountPerChr[i]
	}
	return nil
}

// DeriveCounts calculates the total, which must agree between orientations
// and chromosomes
func (r *SeparationStat) DeriveCounts() error {
	r.SumCount = sumInt64(r.CountPerOri[:])
	if r.perChr {
		if chrSum := sumInt64(r.CountPerChr); chrSum != r.SumCount {
			return errors.Wrapf(ErrInternalConsistency,
				"orientation total %d != chromosome total %d", r.SumCount, chrSum)
		}
	}
	return nil
}

// DeriveLogs calculates log10 counts with pseudocounts added
func (r *SeparationStat) DeriveLogs() {
	for i, c := range r.CountPerOri {
		r.Log10CountPerOri[i] = math.Log10(float64(c) + r.pseudocount)
	}
	r.Log10SumCount = math.Log10(float64(r.SumCount) + r.pseudocount*NumOrientations)
}

// DeriveProportions calculates the proportion of each orientation, smoothed
// by the pseudocount so they only sum to 1 as the pseudocount goes to 0
func (r *SeparationStat) DeriveProportions() {
	sc := float64(r.SumCount) + r.pseudocount*NumOrientations
	for i, c := range r.CountPerOri {
		r.PCountPerOri[i] = (float64(c) + r.pseudocount) / sc
	}
}

// DeriveContactProbability calculates contact probability for a bin with log10
// midpoint s and linear width binSize. Chromosomes shorter than the
// separation get 0 possible pairs and 0 probability. An error is returned if
// no pair is possible at all.
func (r *SeparationStat) DeriveContactProbability(s, binSize float64) error {
	separation := math.Pow(10, s)
	if r.perChr {
		for i, chr := range r.gs.Names {
			allPossible := float64(r.gs.Sizes[chr]) - separation - 1
			if allPossible <= 0 { // the chromosome is smaller than s
				r.AllPossibleCountPerChr[i] = 0
				r.ProbPerChr[i] = 0
				r.Log10ProbPerChr[i] = 0
				continue
			}
			r.AllPossibleCountPerChr[i] = allPossible
			r.ProbPerChr[i] = float64(r.CountPerChr[i]) / allPossible / binSize
			r.Log10ProbPerChr[i] = math.Log10(r.ProbPerChr[i] + r.pseudocount)
		}
		r.AllPossibleSumCount = floats.Sum(r.AllPossibleCountPerChr)
	} else {
		r.AllPossibleSumCount = float64(r.gs.TotalLen) - float64(r.gs.NChr)*(separation+1)
	}

	r.ProbDefined = r.AllPossibleSumCount > 0
	if !r.ProbDefined {
		r.AllPossibleSumCount = 0
		r.Prob, r.Log10Prob = 0, 0
		return errors.Wrapf(ErrUndefinedStatistic,
			"contact probability at log10 distance %.3f exceeds every chromosome", s)
	}
	r.Prob = float64(r.SumCount) / r.AllPossibleSumCount / binSize
	r.Log10Prob = math.Log10(r.Prob + r.pseudocount)
	return nil
}

// ChrProbDefined tells if the chromosome at index i can contain a pair at this
// separation, i.e. whether Log10ProbPerChr[i] is meaningful
func (r *SeparationStat) ChrProbDefined(i int) bool {
	return r.perChr && r.AllPossibleCountPerChr[i] > 0
}

// Derive runs all derivations in order. The returned undefined error is set if
// only the probability could not be computed; err is fatal.
func (r *SeparationStat) Derive(s, binSize float64) (undefined error, err error) {
	if err = r.DeriveCounts(); err != nil {
		return nil, err
	}
	r.DeriveLogs()
	r.DeriveProportions()
	undefined = r.DeriveContactProbability(s, binSize)
	r.derived = true
	return undefined, nil
}
