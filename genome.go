/*
 *  genome.go
 *  pairsqc
 *
 *  Created by Haibao Tang on 10/17/26
 *  Copyright © 2026 Haibao Tang. All rights reserved.
 */

package pairsqc

import (
	"bufio"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/shenwei356/bio/seqio/fai"
	"github.com/shenwei356/xopen"
)

// GenomeSize holds the chromosome sizes. A repeated chromosome name overwrites
// the earlier length but TotalLen still counts both, so callers should make
// sure the names are unique.
type GenomeSize struct {
	Sizes    map[string]int // Chromosome name => length in bp
	Names    []string       // Sorted chromosome names
	TotalLen int64          // Sum of all lengths read
	NChr     int            // Number of distinct chromosomes
	chrToIdx map[string]int // Name => index into Names
}

// NewGenomeSize builds the table from a name => length map
func NewGenomeSize(sizes map[string]int) *GenomeSize {
	r := &GenomeSize{Sizes: map[string]int{}}
	for name, size := range sizes {
		r.Sizes[name] = size
		r.TotalLen += int64(size)
	}
	r.index()
	return r
}

// index sorts the chromosome names and fixes their positions
func (r *GenomeSize) index() {
	r.Names = make([]string, 0, len(r.Sizes))
	for name := range r.Sizes {
		r.Names = append(r.Names, name)
	}
	sort.Strings(r.Names)
	r.chrToIdx = make(map[string]int, len(r.Names))
	for i, name := range r.Names {
		r.chrToIdx[name] = i
	}
	r.NChr = len(r.Names)
}

// Index returns the position of the chromosome in Names, or -1 if unknown
func (r *GenomeSize) Index(chr string) int {
	if i, ok := r.chrToIdx[chr]; ok {
		return i
	}
	return -1
}

// LoadGenomeSize parses tab-separated `chromosome length` lines
func LoadGenomeSize(reader io.Reader) (*GenomeSize, error) {
	r := &GenomeSize{Sizes: map[string]int{}}
	scanner := bufio.NewScanner(reader)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		row := strings.TrimSpace(scanner.Text())
		if row == "" {
			continue
		}
		words := strings.Split(row, "\t")
		if len(words) != 2 {
			return nil, errors.Wrapf(ErrMalformedInput,
				"chromsize line %d: expect 2 tab-separated fields, got %d", lineNo, len(words))
		}
		size, err := strconv.Atoi(words[1])
		if err != nil || size <= 0 {
			return nil, errors.Wrapf(ErrMalformedInput,
				"chromsize line %d: length `%s` is not a positive integer", lineNo, words[1])
		}
		r.Sizes[words[0]] = size
		r.TotalLen += int64(size)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "read chromsize")
	}
	r.index()
	return r, nil
}

// ReadGenomeSizeFile parses a chromsize file, plain or gzipped
func ReadGenomeSizeFile(filename string) (*GenomeSize, error) {
	log.Noticef("Parse chromsize file `%s`", filename)
	fh, err := xopen.Ropen(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "open chromsize file `%s`", filename)
	}
	defer fh.Close()

	gs, err := LoadGenomeSize(fh)
	if err != nil {
		return nil, errors.Wrapf(err, "parse `%s`", filename)
	}
	log.Noticef("Imported %d chromosomes (total: %s bp)", gs.NChr, humanize.Comma(gs.TotalLen))
	return gs, nil
}

// IsNewerFile checks if file a is newer than file b
func IsNewerFile(a, b string) bool {
	af, aerr := os.Stat(a)
	bf, berr := os.Stat(b)
	if os.IsNotExist(aerr) || os.IsNotExist(berr) {
		return false
	}
	am := af.ModTime()
	bm := bf.ModTime()
	return am.Sub(bm) > 0
}

// ReadFastaSizes builds the chromosome sizes from the FASTA index
func ReadFastaSizes(fastafile string) (*GenomeSize, error) {
	log.Noticef("Parse FASTA file `%s`", fastafile)
	faifile := fastafile + ".fai"
	// Check if the .fai file is outdated
	if !IsNewerFile(faifile, fastafile) {
		os.Remove(faifile)
	}

	faidx, err := fai.New(fastafile)
	if err != nil {
		return nil, errors.Wrapf(err, "index FASTA file `%s`", fastafile)
	}
	defer faidx.Close()

	sizes := make(map[string]int, len(faidx.Index))
	for name, rec := range faidx.Index {
		sizes[name] = rec.Length
	}
	gs := NewGenomeSize(sizes)
	log.Noticef("Imported %d chromosomes (total: %s bp)", gs.NChr, humanize.Comma(gs.TotalLen))
	return gs, nil
}
