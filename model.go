/*
 * Filename: /Users/bao/code/pairsqc/model.go
 * Path: /Users/bao/code/pairsqc
 * Created Date: Saturday, October 17th 2026, 2:47:29 pm
 * Author: bao
 *
 * Copyright (c) 2026 Haibao Tang
 */

package pairsqc

import (
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"github.com/sajari/regression"
)

// minDecayBins is the fewest bins a decay fit is attempted on
const minDecayBins = 3

// DecayModel is a power-law model P(s) = 10^Intercept * s ^ Slope of contact
// probability against separation, fitted at the log10 scale
type DecayModel struct {
	Slope     float64
	Intercept float64
	R2        float64
	Pearson   float64
	N         int
	Xs, Ys    []float64 // log10 distance and log10 probability of the bins used
}

// FitDecay fits log10prob ~ log10 distance over the reported bins inside
// [minLogDistance, maxLogDistance]. Empty bins and bins with undefined
// probability are left out since their log10prob is only the pseudocount.
func FitDecay(h *Histogram, minLogDistance, maxLogDistance float64) (*DecayModel, error) {
	if !h.Derived() {
		return nil, errors.Wrap(ErrInternalConsistency, "decay fit before derivation")
	}
	m := &DecayModel{}
	for binNumber, ss := range h.Stats {
		mid := h.Bins.BinMid(binNumber)
		if !h.Bins.InRange(binNumber) || mid < minLogDistance || mid > maxLogDistance {
			continue
		}
		if !ss.ProbDefined || ss.SumCount == 0 {
			continue
		}
		m.Xs = append(m.Xs, mid)
		m.Ys = append(m.Ys, ss.Log10Prob)
	}
	m.N = len(m.Xs)
	if m.N < minDecayBins {
		return nil, errors.Wrapf(ErrUndefinedStatistic,
			"decay fit needs %d non-empty bins in [%.3f, %.3f], got %d",
			minDecayBins, minLogDistance, maxLogDistance, m.N)
	}

	r := new(regression.Regression)
	r.SetObserved("log10prob")
	r.SetVar(0, "log10distance")
	for i, x := range m.Xs {
		r.Train(regression.DataPoint(m.Ys[i], []float64{x}))
	}
	if err := r.Run(); err != nil {
		return nil, errors.Wrapf(ErrUndefinedStatistic, "decay fit: %v", err)
	}
	m.Intercept = r.Coeff(0)
	m.Slope = r.Coeff(1)
	m.R2 = r.R2

	pearson, err := stats.Correlation(m.Xs, m.Ys)
	if err != nil {
		return nil, errors.Wrapf(ErrUndefinedStatistic, "decay correlation: %v", err)
	}
	m.Pearson = pearson

	log.Noticef("Power law log10 P(s) = %.4f + %.4f * log10 s (R2 = %.4f, %d bins)",
		m.Intercept, m.Slope, m.R2, m.N)
	return m, nil
}

// Predict returns the fitted log10 contact probability at a log10 distance
func (r *DecayModel) Predict(logDistance float64) float64 {
	return r.Intercept + r.Slope*logDistance
}
