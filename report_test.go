/*
 *  report_test.go
 *  pairsqc
 *
 *  Created by Haibao Tang on 10/17/26
 *  Copyright © 2026 Haibao Tang. All rights reserved.
 */

package pairsqc_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanghaibao/pairsqc"
)

func computeResult(t *testing.T, cfg pairsqc.Config, records ...[]string) *pairsqc.Result {
	res, err := pairsqc.Compute(context.Background(), newProvider(records...), testGenome(), cfg)
	require.NoError(t, err)
	return res
}

func TestWriteCisTrans(t *testing.T) {
	res := computeResult(t, pairsqc.DefaultConfig(),
		pairsRecord("chr1", 100, "chr1", 150, "+", "-"),
		pairsRecord("chr1", 1000, "chr1", 31000, "+", "-"),
	)
	var b bytes.Buffer
	require.NoError(t, pairsqc.NewReporter(res).WriteCisTrans(&b))
	expected := "Total reads\t2\n" +
		"Short cis reads (<20kb)\t1\n" +
		"Cis reads (>20kb)\t1\n" +
		"Trans reads\t0\n" +
		"Cis/Trans ratio\tNA\n"
	assert.Equal(t, expected, b.String())

	cfg := pairsqc.DefaultConfig()
	cfg.ReportCisShort = false
	res = computeResult(t, cfg,
		pairsRecord("chr1", 100, "chr1", 150, "+", "-"),
		pairsRecord("chr1", 100, "chr2", 150, "+", "-"),
	)
	b.Reset()
	require.NoError(t, pairsqc.NewReporter(res).WriteCisTrans(&b))
	assert.Contains(t, b.String(), "Cis reads\t1\n")
	assert.Contains(t, b.String(), "Cis/Trans ratio\t50.000\n")
	assert.NotContains(t, b.String(), "Short cis")
}

func TestHistogramColumns(t *testing.T) {
	tests := []struct {
		name        string
		perChr      bool
		reportRange bool
		numColumns  int
	}{
		{"per chromosome with range", true, true, 2 + 4 + 1 + 4 + 1 + 4 + 3 + 4*2},
		{"per chromosome", true, false, 1 + 4 + 1 + 4 + 1 + 4 + 3 + 4*2},
		{"genome wide", false, false, 1 + 4 + 1 + 4 + 1 + 4 + 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := pairsqc.DefaultConfig()
			cfg.PerChromosome = tt.perChr
			cfg.ReportRange = tt.reportRange
			res := computeResult(t, cfg, pairsRecord("chr1", 100, "chr1", 150, "+", "-"))
			reporter := pairsqc.NewReporter(res)
			header := reporter.HistogramHeader()
			assert.Len(t, header, tt.numColumns)
			for binNumber := 10; binNumber < res.Histogram.Bins.NumBins(); binNumber++ {
				assert.Len(t, reporter.HistogramRow(binNumber), tt.numColumns)
			}
		})
	}
}

func TestHistogramRow(t *testing.T) {
	res := computeResult(t, pairsqc.DefaultConfig(),
		pairsRecord("chr1", 100, "chr1", 150, "+", "-"),
		pairsRecord("chr2", 100, "chr2", 145, "-", "-"),
	)
	reporter := pairsqc.NewReporter(res)
	header := reporter.HistogramHeader()
	column := func(row []string, name string) string {
		for i, h := range header {
			if h == name {
				return row[i]
			}
		}
		t.Fatalf("no column %s", name)
		return ""
	}

	row := reporter.HistogramRow(16)
	assert.Equal(t, "1.650", column(row, "distance"))
	assert.Equal(t, "40~50", column(row, "distance_range(bp)"))
	assert.Equal(t, "1", column(row, "count.Inner"))
	assert.Equal(t, "1", column(row, "count.Left"))
	assert.Equal(t, "2", column(row, "sum"))
	assert.Equal(t, "0.301", column(row, "log10sum"))
	assert.Equal(t, "-100.000", column(row, "log10count.Outer"))
	assert.Equal(t, "0.500", column(row, "proportion.Inner"))
	assert.Equal(t, "1", column(row, "count_per_chr.chr2"))

	// 10^6.05 is longer than both chromosomes
	row = reporter.HistogramRow(60)
	assert.Equal(t, "NA", column(row, "prob"))
	assert.Equal(t, "NA", column(row, "log10prob"))
	assert.Equal(t, "NA", column(row, "log10prob_per_chr.chr1"))
	assert.Equal(t, "0.000E+00", column(row, "allpossible_count_per_chr.chr1"))
}

func TestWriteHistogram(t *testing.T) {
	res := computeResult(t, pairsqc.DefaultConfig(), pairsRecord("chr1", 100, "chr1", 150, "+", "-"))
	var b bytes.Buffer
	require.NoError(t, pairsqc.NewReporter(res).WriteHistogram(&b))
	lines := strings.Split(strings.TrimSpace(b.String()), "\n")
	require.Len(t, lines, 75)
	assert.True(t, strings.HasPrefix(lines[0], "distance\tdistance_range(bp)\tcount.Inner\t"))
	assert.True(t, strings.HasPrefix(lines[1], "1.050\t"))
	assert.True(t, strings.HasPrefix(lines[74], "8.350\t"))
}

func TestWriteDecayUndefined(t *testing.T) {
	res := computeResult(t, pairsqc.DefaultConfig(), pairsRecord("chr1", 100, "chr1", 150, "+", "-"))
	require.Nil(t, res.Decay)
	var b bytes.Buffer
	require.NoError(t, pairsqc.NewReporter(res).WriteDecay(&b))
	assert.Contains(t, b.String(), "Bins used\t0\n")
	assert.Contains(t, b.String(), "Slope\tNA\n")
}
