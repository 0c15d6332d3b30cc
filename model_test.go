/*
 *  model_test.go
 *  pairsqc
 *
 *  Created by Haibao Tang on 10/17/26
 *  Copyright © 2026 Haibao Tang. All rights reserved.
 */

package pairsqc_test

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanghaibao/pairsqc"
)

// flatHistogram puts the same number of reads in every bin from 4.05 to
// 6.05, on a chromosome long enough that all possible pairs are ~constant
func flatHistogram(t *testing.T, perBin int) *pairsqc.Histogram {
	gs := pairsqc.NewGenomeSize(map[string]int{"chr1": 100000000000})
	bins := pairsqc.NewDistanceBin(1.0, 8.4, 0.1)
	h := pairsqc.NewHistogram(bins, &pairsqc.PairsFormat, gs, true, pairsqc.DefaultPseudocount)
	for binNumber := 40; binNumber <= 60; binNumber++ {
		distance := int(math.Pow(10, bins.BinMid(binNumber)))
		for i := 0; i < perBin; i++ {
			require.True(t, h.Increment(distance, "+-", "chr1"))
		}
	}
	_, err := h.Derive()
	require.NoError(t, err)
	return h
}

func TestFitDecay(t *testing.T) {
	h := flatHistogram(t, 1000)
	m, err := pairsqc.FitDecay(h, 4.0, 6.0)
	require.NoError(t, err)

	assert.Equal(t, 20, m.N)
	assert.InDelta(t, -1.0, m.Slope, 1e-3)
	assert.InDelta(t, -8+0.63682, m.Intercept, 1e-3)
	assert.InDelta(t, 1.0, m.R2, 1e-6)
	assert.InDelta(t, -1.0, m.Pearson, 1e-6)
	assert.InDelta(t, m.Intercept-5, m.Predict(5), 1e-3)
}

func TestFitDecayUndefined(t *testing.T) {
	h := flatHistogram(t, 1)
	_, err := pairsqc.FitDecay(h, 4.0, 4.2)
	assert.True(t, pairsqc.IsUndefined(err))

	gs := testGenome()
	bins := pairsqc.NewDistanceBin(1.0, 8.4, 0.1)
	empty := pairsqc.NewHistogram(bins, &pairsqc.PairsFormat, gs, false, pairsqc.DefaultPseudocount)
	_, err = pairsqc.FitDecay(empty, 4.0, 6.0)
	assert.Equal(t, pairsqc.ErrInternalConsistency, errors.Cause(err))
}
