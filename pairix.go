/*
 *  pairix.go
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
	"strings"

	"github.com/biogo/hts/bgzf"
	"github.com/biogo/hts/bgzf/index"
	"github.com/pkg/errors"
)

// maxLineSize caps the length of a single pairs line
const maxLineSize = 16 * 1024 * 1024

// PairixProvider is a block index over a bgzipped pairs file. Every
// contiguous run of records sharing a chr1|chr2 key becomes one chunk of
// BGZF virtual offsets, so a block is read back by seeking instead of
// scanning the whole file.
type PairixProvider struct {
	Filename string
	format   Format
	keys     []string
	chunks   map[string][]bgzf.Chunk
}

// IsBgzf checks the gzip header for the BGZF `BC` extra subfield
func IsBgzf(filename string) (bool, error) {
	if filename == "-" {
		return false, nil
	}
	fh, err := os.Open(filename)
	if err != nil {
		return false, errors.Wrapf(err, "open `%s`", filename)
	}
	defer fh.Close()

	var header [16]byte
	if _, err := io.ReadFull(fh, header[:]); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return false, nil
		}
		return false, errors.Wrapf(err, "read `%s`", filename)
	}
	return header[0] == 0x1f && header[1] == 0x8b && header[3]&0x04 != 0 &&
		header[12] == 'B' && header[13] == 'C', nil
}

// OpenPairix scans the bgzipped file once and records the chunks of each key
func OpenPairix(filename string, f Format) (*PairixProvider, error) {
	log.Noticef("Index bgzipped pairs file `%s`", filename)
	fh, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "open pairs file `%s`", filename)
	}
	defer fh.Close()

	br, err := bgzf.NewReader(fh, 1)
	if err != nil {
		return nil, errors.Wrapf(err, "read bgzf `%s`", filename)
	}
	defer br.Close()

	r := &PairixProvider{
		Filename: filename,
		format:   f,
		chunks:   map[string][]bgzf.Chunk{},
	}

	var line []byte
	var begin bgzf.Offset
	lastKey := ""
	lineNo := 0
	flush := func(end bgzf.Offset) error {
		lineNo++
		fields := strings.Split(strings.TrimRight(string(line), "\r"), "\t")
		line = line[:0]
		if isHeader(fields) {
			return nil
		}
		key, err := f.Key(fields)
		if err != nil {
			return errors.Wrapf(err, "pairs line %d", lineNo)
		}
		r.extend(key, key == lastKey, begin, end)
		lastKey = key
		return nil
	}

	for {
		b, err := br.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "read bgzf `%s`", filename)
		}
		if len(line) == 0 && b != '\n' {
			begin = br.LastChunk().Begin
		}
		if b != '\n' {
			line = append(line, b)
			if len(line) > maxLineSize {
				return nil, errors.Wrapf(ErrMalformedInput, "pairs line %d is too long", lineNo+1)
			}
			continue
		}
		if len(line) == 0 {
			lineNo++
			continue
		}
		if err := flush(br.LastChunk().End); err != nil {
			return nil, err
		}
	}
	// Last line without a trailing newline
	if len(line) > 0 {
		if err := flush(br.LastChunk().End); err != nil {
			return nil, err
		}
	}

	log.Noticef("Indexed %d blocks in `%s`", len(r.keys), filename)
	return r, nil
}

// extend grows the current chunk of the key or starts a new one
func (r *PairixProvider) extend(key string, contiguous bool, begin, end bgzf.Offset) {
	chunks, ok := r.chunks[key]
	if !ok {
		r.keys = append(r.keys, key)
	}
	if contiguous && len(chunks) > 0 {
		chunks[len(chunks)-1].End = end
		return
	}
	r.chunks[key] = append(chunks, bgzf.Chunk{Begin: begin, End: end})
}

// Keys lists the block keys in file order
func (r *PairixProvider) Keys() []string {
	return r.keys
}

// Chunks returns the virtual offset ranges of a block
func (r *PairixProvider) Chunks(key string) []bgzf.Chunk {
	return r.chunks[key]
}

// Query opens an independent reader limited to the chunks of the key
func (r *PairixProvider) Query(key string) (RecordIterator, error) {
	chunks := r.chunks[key]
	if len(chunks) == 0 {
		return &sliceIterator{i: -1}, nil
	}
	fh, err := os.Open(r.Filename)
	if err != nil {
		return nil, errors.Wrapf(err, "open pairs file `%s`", r.Filename)
	}
	br, err := bgzf.NewReader(fh, 1)
	if err != nil {
		fh.Close()
		return nil, errors.Wrapf(err, "read bgzf `%s`", r.Filename)
	}
	cr, err := index.NewChunkReader(br, chunks)
	if err != nil {
		br.Close()
		fh.Close()
		return nil, errors.Wrapf(err, "query block `%s`", key)
	}
	scanner := bufio.NewScanner(cr)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	return &pairixIterator{fh: fh, cr: cr, scanner: scanner, key: key}, nil
}

// Close is a no-op, every query owns its file handle
func (r *PairixProvider) Close() error {
	return nil
}

// pairixIterator reads the lines of one block
type pairixIterator struct {
	fh      *os.File
	cr      *index.ChunkReader
	scanner *bufio.Scanner
	key     string
	fields  []string
}

func (r *pairixIterator) Next() bool {
	for r.scanner.Scan() {
		fields := strings.Split(strings.TrimRight(r.scanner.Text(), "\r"), "\t")
		if isHeader(fields) {
			continue
		}
		r.fields = fields
		return true
	}
	return false
}

func (r *pairixIterator) Fields() []string {
	return r.fields
}

func (r *pairixIterator) Err() error {
	if err := r.scanner.Err(); err != nil {
		return errors.Wrapf(err, "read block `%s`", r.key)
	}
	return nil
}

func (r *pairixIterator) Close() error {
	err := r.cr.Close()
	if e := r.fh.Close(); err == nil {
		err = e
	}
	return err
}
