/*
 *  qc.go
 *  pairsqc
 *
 *  Created by Haibao Tang on 10/17/26
 *  Copyright © 2026 Haibao Tang. All rights reserved.
 */

package pairsqc

import (
	"context"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// QC computes the cis/trans ratio and the distance histogram of a pairs file
// and writes the report directory
type QC struct {
	PairsFile      string // Pairs file, bgzipped or plain
	ChromSizesFile string // Chromosome sizes, used unless FastaFile is set
	FastaFile      string // FASTA file to take chromosome sizes from
	OutPrefix      string // Report goes to <OutPrefix>_report, or report if empty
	Config         Config
	// Output
	OutDir string
	Result *Result
}

// Result holds the state of one run after derivation
type Result struct {
	Config    Config
	Format    Format
	Genome    *GenomeSize
	CisTrans  *CisTransStat
	Histogram *Histogram
	Decay     *DecayModel
	Undefined []error // Statistics that could not be computed, reported as NA
}

// tally is the set of accumulators owned by one worker
type tally struct {
	cfg       Config
	format    *Format
	genome    *GenomeSize
	threshold int
	cts       CisTransStat
	hist      *Histogram
	nRecords  int64
}

func newTally(cfg Config, f *Format, gs *GenomeSize, bins *DistanceBin) *tally {
	return &tally{
		cfg:       cfg,
		format:    f,
		genome:    gs,
		threshold: cfg.shortThreshold(),
		hist:      NewHistogram(bins, f, gs, cfg.PerChromosome, cfg.Pseudocount),
	}
}

// scanBlock classifies every record of one chr1|chr2 block once and updates
// both the cis/trans counters and the histogram
func (r *tally) scanBlock(ctx context.Context, provider PairProvider, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	chr1, chr2, err := SplitKey(key)
	if err != nil {
		return err
	}
	it, err := provider.Query(key)
	if err != nil {
		return err
	}
	defer it.Close()

	if chr1 != chr2 {
		for it.Next() {
			r.nRecords++
			r.cts.Record(chr1, chr2, 0, r.threshold)
		}
		return it.Err()
	}

	chrIdx := -1
	if r.cfg.PerChromosome {
		chrIdx = r.genome.Index(chr1)
	}
	for it.Next() {
		r.nRecords++
		distance, orientation, err := r.format.Classify(it.Fields())
		if err != nil {
			return errors.Wrapf(err, "block `%s`", key)
		}
		oriIdx := r.format.OrientationIndex(orientation)
		if oriIdx >= 0 || !r.cfg.CisOrientationFilter {
			r.cts.Record(chr1, chr2, distance, r.threshold)
		}
		r.hist.add(distance, oriIdx, chrIdx)
	}
	return it.Err()
}

// merge folds another worker's raw counts into this one
func (r *tally) merge(o *tally) error {
	r.cts.Merge(&o.cts)
	r.nRecords += o.nRecords
	return r.hist.Merge(o.hist)
}

// Compute scans all blocks of the provider, then derives the statistics. With
// more than one thread, every worker owns its accumulators and they are merged
// before any derivation.
func Compute(ctx context.Context, provider PairProvider, gs *GenomeSize, cfg Config) (*Result, error) {
	f, err := cfg.Validate()
	if err != nil {
		return nil, err
	}
	bins := NewDistanceBin(cfg.MinLogDistance, cfg.MaxLogDistance, cfg.LogBinSize)
	keys := provider.Keys()

	var tallies []*tally
	if cfg.Threads == 1 {
		t := newTally(cfg, &f, gs, bins)
		tallies = append(tallies, t)
		for _, key := range keys {
			if err := t.scanBlock(ctx, provider, key); err != nil {
				return nil, err
			}
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		keyCh := make(chan string)
		g.Go(func() error {
			defer close(keyCh)
			for _, key := range keys {
				select {
				case keyCh <- key:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})
		for i := 0; i < cfg.Threads; i++ {
			t := newTally(cfg, &f, gs, bins)
			tallies = append(tallies, t)
			g.Go(func() error {
				for key := range keyCh {
					if err := t.scanBlock(gctx, provider, key); err != nil {
						return err
					}
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	t := tallies[0]
	for _, o := range tallies[1:] {
		if err := t.merge(o); err != nil {
			return nil, err
		}
	}
	t.cts.CalculateTotal()
	log.Noticef("Scanned %d records in %d blocks, binned %s",
		t.nRecords, len(keys), Percentage(t.hist.SumCount(), t.nRecords))

	res := &Result{
		Config:    cfg,
		Format:    f,
		Genome:    gs,
		CisTrans:  &t.cts,
		Histogram: t.hist,
	}
	if _, err := t.cts.Ratio(); err != nil {
		res.Undefined = append(res.Undefined, err)
	}
	undefined, err := t.hist.Derive()
	if err != nil {
		return nil, err
	}
	res.Undefined = append(res.Undefined, undefined...)

	decay, err := FitDecay(t.hist, cfg.DecayMinLogDistance, cfg.DecayMaxLogDistance)
	if err != nil {
		if !IsUndefined(err) {
			return nil, err
		}
		res.Undefined = append(res.Undefined, err)
	}
	res.Decay = decay
	return res, nil
}

// outDir is <prefix>_report, or report without a prefix
func (r *QC) outDir() string {
	if r.OutPrefix == "" {
		return DefaultReportDir
	}
	return r.OutPrefix + ReportDirSuffix
}

// loadGenome reads chromosome sizes from the FASTA index or the chromsize file
func (r *QC) loadGenome() (*GenomeSize, error) {
	if r.FastaFile != "" {
		return ReadFastaSizes(r.FastaFile)
	}
	if r.ChromSizesFile == "" {
		return nil, errors.New("either a chromsize file or a FASTA file is required")
	}
	return ReadGenomeSizeFile(r.ChromSizesFile)
}

// Run parses the inputs, computes all statistics, then writes the report. No
// output is written if parsing fails.
func (r *QC) Run() error {
	f, err := r.Config.Validate()
	if err != nil {
		return err
	}
	gs, err := r.loadGenome()
	if err != nil {
		return err
	}
	provider, err := OpenPairProvider(r.PairsFile, f)
	if err != nil {
		return err
	}
	defer provider.Close()

	res, err := Compute(context.Background(), provider, gs, r.Config)
	if err != nil {
		return errors.Wrapf(err, "process `%s`", r.PairsFile)
	}
	r.Result = res

	r.OutDir = r.outDir()
	if err := os.MkdirAll(r.OutDir, 0755); err != nil {
		return errors.Wrapf(err, "create report directory `%s`", r.OutDir)
	}
	reporter := NewReporter(res)
	if err := reporter.WriteAll(r.OutDir); err != nil {
		return err
	}
	plotter := Plotter{Result: res}
	if err := plotter.Run(r.OutDir); err != nil {
		return err
	}

	for _, u := range res.Undefined {
		log.Warningf("%v", u)
	}
	log.Notice("Success")
	return nil
}
