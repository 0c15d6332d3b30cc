/*
 *  report.go
 *  pairsqc
 *
 *  Created by Haibao Tang on 10/17/26
 *  Copyright © 2026 Haibao Tang. All rights reserved.
 */

package pairsqc

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/shenwei356/xopen"
)

// Reporter renders the derived statistics into the output tables
type Reporter struct {
	*Result
}

// NewReporter wraps a finished run
func NewReporter(res *Result) *Reporter {
	return &Reporter{Result: res}
}

// WriteCisTrans writes the cis/trans summary, one `label\tvalue` per line
func (r *Reporter) WriteCisTrans(w io.Writer) error {
	cts := r.CisTrans
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "Total reads\t%s\n", humanize.Comma(cts.Total))
	if r.Config.ReportCisShort {
		short := HumanDistance(r.Config.ShortCisThreshold)
		fmt.Fprintf(bw, "Short cis reads (<%s)\t%s\n", short, humanize.Comma(cts.CisShort))
		fmt.Fprintf(bw, "Cis reads (>%s)\t%s\n", short, humanize.Comma(cts.Cis))
	} else {
		fmt.Fprintf(bw, "Cis reads\t%s\n", humanize.Comma(cts.Cis))
	}
	fmt.Fprintf(bw, "Trans reads\t%s\n", humanize.Comma(cts.Trans))
	ratio, err := cts.Ratio()
	fmt.Fprintf(bw, "Cis/Trans ratio\t%s\n", formatFloat(ratio, err == nil))
	return bw.Flush()
}

// HistogramHeader lists the column names of the histogram table
func (r *Reporter) HistogramHeader() []string {
	header := []string{"distance"}
	if r.Config.ReportRange {
		header = append(header, "distance_range(bp)")
	}
	perOri := func(prefix string) {
		for _, name := range OrientationNames {
			header = append(header, prefix+"."+name)
		}
	}
	perOri("count")
	header = append(header, "sum")
	perOri("log10count")
	header = append(header, "log10sum")
	perOri("proportion")
	header = append(header, "allpossible_sumcount", "prob", "log10prob")
	if r.Histogram.PerChr {
		for _, prefix := range []string{"count_per_chr", "allpossible_count_per_chr",
			"prob_per_chr", "log10prob_per_chr"} {
			for _, chr := range r.Genome.Names {
				header = append(header, prefix+"."+chr)
			}
		}
	}
	return header
}

// HistogramRow formats one bin, columns ordered as HistogramHeader
func (r *Reporter) HistogramRow(binNumber int) []string {
	bins := r.Histogram.Bins
	ss := r.Histogram.Stats[binNumber]
	row := []string{fmt.Sprintf("%.3f", bins.BinMid(binNumber))}
	if r.Config.ReportRange {
		row = append(row, bins.BinRangeString(binNumber))
	}
	for _, c := range ss.CountPerOri {
		row = append(row, fmt.Sprintf("%d", c))
	}
	row = append(row, fmt.Sprintf("%d", ss.SumCount))
	for _, c := range ss.Log10CountPerOri {
		row = append(row, formatFloat(c, true))
	}
	row = append(row, formatFloat(ss.Log10SumCount, true))
	for _, p := range ss.PCountPerOri {
		row = append(row, formatFloat(p, true))
	}
	row = append(row,
		formatSci(ss.AllPossibleSumCount, ss.ProbDefined),
		formatSci(ss.Prob, ss.ProbDefined),
		formatFloat(ss.Log10Prob, ss.ProbDefined))
	if r.Histogram.PerChr {
		for _, c := range ss.CountPerChr {
			row = append(row, fmt.Sprintf("%d", c))
		}
		for _, c := range ss.AllPossibleCountPerChr {
			row = append(row, formatSci(c, true))
		}
		for _, p := range ss.ProbPerChr {
			row = append(row, formatSci(p, true))
		}
		for i, p := range ss.Log10ProbPerChr {
			row = append(row, formatFloat(p, ss.ChrProbDefined(i)))
		}
	}
	return row
}

// WriteHistogram writes the header and one row per reported bin
func (r *Reporter) WriteHistogram(w io.Writer) error {
	if !r.Histogram.Derived() {
		return errors.Wrap(ErrInternalConsistency, "histogram written before derivation")
	}
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, strings.Join(r.HistogramHeader(), "\t"))
	for binNumber := range r.Histogram.Stats {
		if !r.Histogram.Bins.InRange(binNumber) {
			continue
		}
		fmt.Fprintln(bw, strings.Join(r.HistogramRow(binNumber), "\t"))
	}
	return bw.Flush()
}

// WriteDecay writes the contact decay fit summary
func (r *Reporter) WriteDecay(w io.Writer) error {
	bw := bufio.NewWriter(w)
	m := r.Decay
	ok := m != nil
	if !ok {
		m = &DecayModel{}
	}
	fmt.Fprintf(bw, "Fit range (log10 bp)\t%.3f~%.3f\n",
		r.Config.DecayMinLogDistance, r.Config.DecayMaxLogDistance)
	fmt.Fprintf(bw, "Bins used\t%d\n", m.N)
	fmt.Fprintf(bw, "Slope\t%s\n", formatFloat(m.Slope, ok))
	fmt.Fprintf(bw, "Intercept\t%s\n", formatFloat(m.Intercept, ok))
	fmt.Fprintf(bw, "R2\t%s\n", formatFloat(m.R2, ok))
	fmt.Fprintf(bw, "Pearson r\t%s\n", formatFloat(m.Pearson, ok))
	return bw.Flush()
}

// writeFile creates the file and hands it to the writer function
func writeFile(filename string, write func(io.Writer) error) error {
	fw, err := xopen.Wopen(filename)
	if err != nil {
		return errors.Wrapf(err, "create `%s`", filename)
	}
	if err := write(fw); err != nil {
		fw.Close()
		return errors.Wrapf(err, "write `%s`", filename)
	}
	if err := fw.Close(); err != nil {
		return errors.Wrapf(err, "close `%s`", filename)
	}
	log.Noticef("Report written to `%s`", filename)
	return nil
}

// WriteAll writes the cis/trans summary, the histogram and the decay fit
func (r *Reporter) WriteAll(outdir string) error {
	if err := writeFile(filepath.Join(outdir, CisTransOutFile), r.WriteCisTrans); err != nil {
		return err
	}
	if err := writeFile(filepath.Join(outdir, PlotTableOutFile), r.WriteHistogram); err != nil {
		return err
	}
	return writeFile(filepath.Join(outdir, DecayOutFile), r.WriteDecay)
}
