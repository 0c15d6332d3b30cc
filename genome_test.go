/*
 *  genome_test.go
 *  pairsqc
 *
 *  Created by Haibao Tang on 10/17/26
 *  Copyright © 2026 Haibao Tang. All rights reserved.
 */

package pairsqc_test

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanghaibao/pairsqc"
)

func TestLoadGenomeSize(t *testing.T) {
	gs, err := pairsqc.LoadGenomeSize(strings.NewReader("chr2\t500000\n\nchr1\t1000000\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"chr1", "chr2"}, gs.Names)
	assert.Equal(t, int64(1500000), gs.TotalLen)
	assert.Equal(t, 2, gs.NChr)
	assert.Equal(t, 1000000, gs.Sizes["chr1"])
	assert.Equal(t, 1, gs.Index("chr2"))
	assert.Equal(t, -1, gs.Index("chrM"))
}

func TestLoadGenomeSizeMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"one field", "chr1\n"},
		{"three fields", "chr1\t100\textra\n"},
		{"not an integer", "chr1\tabc\n"},
		{"zero length", "chr1\t0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := pairsqc.LoadGenomeSize(strings.NewReader(tt.input))
			assert.Equal(t, pairsqc.ErrMalformedInput, errors.Cause(err))
		})
	}
}

func TestLoadGenomeSizeDuplicates(t *testing.T) {
	gs, err := pairsqc.LoadGenomeSize(strings.NewReader("chr1\t100\nchr1\t200\n"))
	require.NoError(t, err)
	assert.Equal(t, 200, gs.Sizes["chr1"])
	assert.Equal(t, int64(300), gs.TotalLen)
	assert.Equal(t, 1, gs.NChr)
}

func TestReadGenomeSizeFileGzipped(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "genome.chrom.sizes.gz")
	fh, err := os.Create(filename)
	require.NoError(t, err)
	gw := gzip.NewWriter(fh)
	_, err = gw.Write([]byte("chr1\t1000000\nchr2\t500000\n"))
	require.NoError(t, err)
	require.NoError(t, gw.Close())
	require.NoError(t, fh.Close())

	gs, err := pairsqc.ReadGenomeSizeFile(filename)
	require.NoError(t, err)
	assert.Equal(t, int64(1500000), gs.TotalLen)
}

func TestReadFastaSizes(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "genome.fa")
	fasta := ">chr1\nACGTACGTAC\nGTAC\n>chr2\nAAAAA\n"
	require.NoError(t, os.WriteFile(filename, []byte(fasta), 0644))

	gs, err := pairsqc.ReadFastaSizes(filename)
	require.NoError(t, err)
	assert.Equal(t, 14, gs.Sizes["chr1"])
	assert.Equal(t, 5, gs.Sizes["chr2"])
	assert.Equal(t, int64(19), gs.TotalLen)
}
