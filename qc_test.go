/*
 *  qc_test.go
 *  pairsqc
 *
 *  Created by Haibao Tang on 10/17/26
 *  Copyright © 2026 Haibao Tang. All rights reserved.
 */

package pairsqc_test

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanghaibao/pairsqc"
)

// pairsRecord makes a pairs format record
func pairsRecord(chr1 string, pos1 int, chr2 string, pos2 int, strand1, strand2 string) []string {
	return []string{"read", chr1, strconv.Itoa(pos1), chr2, strconv.Itoa(pos2), strand1, strand2}
}

func newProvider(records ...[]string) *pairsqc.MemoryProvider {
	provider := pairsqc.NewMemoryProvider()
	for _, rec := range records {
		key, _ := pairsqc.PairsFormat.Key(rec)
		provider.Append(key, rec)
	}
	return provider
}

func TestComputeCisOnly(t *testing.T) {
	provider := newProvider(
		pairsRecord("chr1", 100, "chr1", 150, "+", "-"),
		pairsRecord("chr1", 1000, "chr1", 31000, "+", "-"),
	)
	res, err := pairsqc.Compute(context.Background(), provider, testGenome(), pairsqc.DefaultConfig())
	require.NoError(t, err)

	cts := res.CisTrans
	assert.Equal(t, int64(1), cts.Cis)
	assert.Equal(t, int64(1), cts.CisShort)
	assert.Equal(t, int64(0), cts.Trans)
	assert.Equal(t, int64(2), cts.Total)

	_, err = cts.Ratio()
	assert.True(t, pairsqc.IsUndefined(err))
	require.NotEmpty(t, res.Undefined)
	assert.True(t, pairsqc.IsUndefined(res.Undefined[0]))

	h := res.Histogram
	assert.Equal(t, int64(1), h.Stats[16].CountPerOri[0])
	assert.Equal(t, int64(1), h.Stats[44].CountPerOri[0])
	assert.Equal(t, []int64{1, 0}, h.Stats[44].CountPerChr)
	assert.Equal(t, int64(2), h.SumCount())
}

func TestComputeTransOnly(t *testing.T) {
	provider := newProvider(pairsRecord("chr1", 100, "chr2", 150, "+", "-"))
	res, err := pairsqc.Compute(context.Background(), provider, testGenome(), pairsqc.DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, pairsqc.CisTransStat{Trans: 1, Total: 1}, *res.CisTrans)
	ratio, err := res.CisTrans.Ratio()
	require.NoError(t, err)
	assert.Equal(t, 0.0, ratio)
	assert.Equal(t, int64(0), res.Histogram.SumCount())
}

func TestComputeOrientationFilter(t *testing.T) {
	records := [][]string{
		pairsRecord("chr1", 100, "chr1", 150, "+", "-"),
		pairsRecord("chr1", 100, "chr1", 30150, "+", "*"),
		pairsRecord("chr1", 100, "chr2", 150, "+", "-"),
	}
	tests := []struct {
		filter bool
		cis    int64
	}{
		{false, 1},
		{true, 0},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("filter=%v", tt.filter), func(t *testing.T) {
			cfg := pairsqc.DefaultConfig()
			cfg.CisOrientationFilter = tt.filter
			res, err := pairsqc.Compute(context.Background(), newProvider(records...), testGenome(), cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.cis, res.CisTrans.Cis)
			assert.Equal(t, int64(1), res.CisTrans.CisShort)
			assert.Equal(t, int64(1), res.Histogram.SumCount())
		})
	}
}

func TestComputeNoShortCis(t *testing.T) {
	cfg := pairsqc.DefaultConfig()
	cfg.ReportCisShort = false
	provider := newProvider(
		pairsRecord("chr1", 100, "chr1", 150, "+", "-"),
		pairsRecord("chr1", 100, "chr1", 100, "+", "-"),
	)
	res, err := pairsqc.Compute(context.Background(), provider, testGenome(), cfg)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.CisTrans.Cis)
	assert.Equal(t, int64(0), res.CisTrans.CisShort)
	// Zero distance is counted as cis but never binned
	assert.Equal(t, int64(1), res.Histogram.SumCount())
}

func TestComputeMalformed(t *testing.T) {
	provider := newProvider(pairsRecord("chr1", 100, "chr1", 150, "+", "-"))
	provider.Append("chr1|chr1", []string{"read", "chr1", "x", "chr1", "150", "+", "-"})
	_, err := pairsqc.Compute(context.Background(), provider, testGenome(), pairsqc.DefaultConfig())
	assert.Equal(t, pairsqc.ErrMalformedInput, errors.Cause(err))
}

func TestComputeThreads(t *testing.T) {
	gs := pairsqc.NewGenomeSize(map[string]int{
		"chr1": 5000000, "chr2": 3000000, "chr3": 2000000, "chr4": 800000,
	})
	strands := []string{"+", "-"}
	rng := rand.New(rand.NewSource(42))
	var records [][]string
	for i := 0; i < 5000; i++ {
		chr1 := gs.Names[rng.Intn(gs.NChr)]
		chr2 := chr1
		if rng.Intn(5) == 0 {
			chr2 = gs.Names[rng.Intn(gs.NChr)]
		}
		pos1 := rng.Intn(gs.Sizes[chr1]) + 1
		pos2 := rng.Intn(gs.Sizes[chr2]) + 1
		records = append(records, pairsRecord(chr1, pos1, chr2, pos2,
			strands[rng.Intn(2)], strands[rng.Intn(2)]))
	}

	compute := func(threads int) *pairsqc.Result {
		cfg := pairsqc.DefaultConfig()
		cfg.Threads = threads
		res, err := pairsqc.Compute(context.Background(), newProvider(records...), gs, cfg)
		require.NoError(t, err)
		return res
	}
	single := compute(1)
	multi := compute(4)

	assert.Equal(t, *single.CisTrans, *multi.CisTrans)
	assert.Equal(t, int64(5000), single.CisTrans.Total)
	for i, ss := range single.Histogram.Stats {
		other := multi.Histogram.Stats[i]
		assert.Equal(t, ss.CountPerOri, other.CountPerOri, "bin %d", i)
		assert.Equal(t, ss.CountPerChr, other.CountPerChr, "bin %d", i)
		assert.Equal(t, ss.SumCount, other.SumCount, "bin %d", i)
		assert.InDelta(t, ss.Log10Prob, other.Log10Prob, 1e-12, "bin %d", i)
	}
}

func TestComputeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	provider := newProvider(pairsRecord("chr1", 100, "chr1", 150, "+", "-"))
	_, err := pairsqc.Compute(ctx, provider, testGenome(), pairsqc.DefaultConfig())
	assert.Equal(t, context.Canceled, err)
}

func TestQCRun(t *testing.T) {
	dir := t.TempDir()
	chromsizes := filepath.Join(dir, "genome.chrom.sizes")
	require.NoError(t, os.WriteFile(chromsizes, []byte("chr1\t1000000\nchr2\t500000\n"), 0644))

	var b strings.Builder
	b.WriteString("## pairs format v1.0\n")
	for i := 0; i < 200; i++ {
		pos := 1000 + i*37
		fmt.Fprintf(&b, "r%d\tchr1\t%d\tchr1\t%d\t+\t-\n", i, pos, pos+50+i*i*13)
	}
	b.WriteString("r200\tchr1\t500\tchr2\t600\t+\t+\n")
	pairsFile := filepath.Join(dir, "sample.pairs")
	require.NoError(t, os.WriteFile(pairsFile, []byte(b.String()), 0644))

	qc := pairsqc.QC{
		PairsFile:      pairsFile,
		ChromSizesFile: chromsizes,
		OutPrefix:      filepath.Join(dir, "sample"),
		Config:         pairsqc.DefaultConfig(),
	}
	require.NoError(t, qc.Run())
	assert.Equal(t, filepath.Join(dir, "sample_report"), qc.OutDir)

	for _, name := range []string{
		pairsqc.CisTransOutFile, pairsqc.PlotTableOutFile, pairsqc.DecayOutFile,
		pairsqc.PerChrTsvColFile, pairsqc.OrientTsvColFile, pairsqc.ReportIndexFile,
	} {
		assert.FileExists(t, filepath.Join(qc.OutDir, name))
	}

	cisTrans, err := os.ReadFile(filepath.Join(qc.OutDir, pairsqc.CisTransOutFile))
	require.NoError(t, err)
	assert.Contains(t, string(cisTrans), "Total reads\t201\n")
	assert.Contains(t, string(cisTrans), "Trans reads\t1\n")

	table, err := os.ReadFile(filepath.Join(qc.OutDir, pairsqc.PlotTableOutFile))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(table)), "\n")
	assert.Len(t, lines, 75) // header + bins 10..83
}

func TestQCRunBadInputType(t *testing.T) {
	qc := pairsqc.QC{PairsFile: "missing.pairs", ChromSizesFile: "missing.sizes"}
	qc.Config = pairsqc.DefaultConfig()
	qc.Config.InputType = "X"
	assert.Equal(t, pairsqc.ErrUnknownFormat, errors.Cause(qc.Run()))
}
