/*
 *  provider.go
 *  pairsqc
 *
 *  Created by Haibao Tang on 10/17/26
 *  Copyright © 2026 Haibao Tang. All rights reserved.
 */

package pairsqc

import (
	"io"
	"strings"

	"github.com/jgbaldwinbrown/fasttsv"
	"github.com/pkg/errors"
	"github.com/shenwei356/xopen"
)

// RecordIterator walks the records of one chr1|chr2 block
type RecordIterator interface {
	Next() bool
	Fields() []string
	Err() error
	Close() error
}

// PairProvider serves pair records grouped by chr1|chr2 block keys. Query
// may be called from multiple goroutines.
type PairProvider interface {
	Keys() []string
	Query(key string) (RecordIterator, error)
	Close() error
}

// MemoryProvider keeps all records in memory, grouped by block key in the
// order the keys first appear
type MemoryProvider struct {
	keys   []string
	blocks map[string][][]string
}

// NewMemoryProvider makes an empty provider
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{blocks: map[string][][]string{}}
}

// Append adds a record to the block
func (r *MemoryProvider) Append(key string, fields []string) {
	if _, ok := r.blocks[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.blocks[key] = append(r.blocks[key], fields)
}

// Keys lists the block keys
func (r *MemoryProvider) Keys() []string {
	return r.keys
}

// Query returns the records of a block, empty if the key is absent
func (r *MemoryProvider) Query(key string) (RecordIterator, error) {
	return &sliceIterator{records: r.blocks[key], i: -1}, nil
}

// Close is a no-op
func (r *MemoryProvider) Close() error {
	return nil
}

// NumRecords counts all records held
func (r *MemoryProvider) NumRecords() int {
	n := 0
	for _, block := range r.blocks {
		n += len(block)
	}
	return n
}

// sliceIterator iterates over in-memory records
type sliceIterator struct {
	records [][]string
	i       int
}

func (r *sliceIterator) Next() bool {
	r.i++
	return r.i < len(r.records)
}

func (r *sliceIterator) Fields() []string {
	return r.records[r.i]
}

func (r *sliceIterator) Err() error {
	return nil
}

func (r *sliceIterator) Close() error {
	return nil
}

// isHeader checks for comment lines, e.g. `## pairs format v1.0`
func isHeader(fields []string) bool {
	return len(fields) == 0 || fields[0] == "" || strings.HasPrefix(fields[0], "#")
}

// copyFields detaches the field slice from the reused scanner line buffer
func copyFields(line []string) []string {
	return append([]string(nil), line...)
}

// ReadPairs groups all records from a tab-separated stream by block key
func ReadPairs(reader io.Reader, f Format) (*MemoryProvider, error) {
	r := NewMemoryProvider()
	s := fasttsv.NewScanner(reader)
	lineNo := 0
	for s.Scan() {
		lineNo++
		line := s.Line()
		if isHeader(line) {
			continue
		}
		key, err := f.Key(line)
		if err != nil {
			return nil, errors.Wrapf(err, "pairs line %d", lineNo)
		}
		r.Append(key, copyFields(line))
	}
	if err := s.InScanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "pairs line %d", lineNo)
	}
	return r, nil
}

// ReadPairsFile loads a plain or gzipped pairs file into memory
func ReadPairsFile(filename string, f Format) (*MemoryProvider, error) {
	log.Noticef("Parse pairs file `%s` into memory", filename)
	fh, err := xopen.Ropen(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "open pairs file `%s`", filename)
	}
	defer fh.Close()

	r, err := ReadPairs(fh, f)
	if err != nil {
		return nil, errors.Wrapf(err, "parse `%s`", filename)
	}
	log.Noticef("Imported %d records in %d blocks", r.NumRecords(), len(r.keys))
	return r, nil
}

// OpenPairProvider picks the BGZF block index for bgzipped files and the
// in-memory provider otherwise
func OpenPairProvider(filename string, f Format) (PairProvider, error) {
	isBgzf, err := IsBgzf(filename)
	if err != nil {
		return nil, err
	}
	if isBgzf {
		return OpenPairix(filename, f)
	}
	return ReadPairsFile(filename, f)
}
