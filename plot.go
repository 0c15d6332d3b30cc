/*
 * Filename: /Users/bao/code/pairsqc/plot.go
 * Path: /Users/bao/code/pairsqc
 * Created Date: Saturday, October 17th 2026, 4:33:37 pm
 * Author: bao
 *
 * Copyright (c) 2026 Haibao Tang
 */

package pairsqc

import (
	"bufio"
	"fmt"
	"html/template"
	"io"
	"math"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/gobuffalo/packr"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
)

// Palette cycles through line colors of the interactive plots
var Palette = []string{
	"#e41a1c", "#377eb8", "#4daf4a", "#984ea3", "#ff7f00",
	"#a65628", "#f781bf", "#1b9e77", "#d95f02", "#7570b3",
}

// TsvCol is one line of an interactive multi-line plot, naming the x and y
// columns of the histogram table
type TsvCol struct {
	ColumnX  string
	ColumnY  string
	Color    string
	OffColor string
	Name     string
}

// PlotPanel describes one plot on the report page
type PlotPanel struct {
	ID       string
	TsvCol   string
	XLabel   string
	YLabel   string
	XMin     float64
	XMax     float64
	YMin     float64
	YMax     float64
	Subtitle string
}

// Plotter writes plot descriptors and the report page for the histogram
type Plotter struct {
	Result *Result
}

// Run writes the tsvcol files and index.html into outdir
func (r *Plotter) Run(outdir string) error {
	if err := writeFile(filepath.Join(outdir, PerChrTsvColFile), func(w io.Writer) error {
		return writeTsvCols(w, r.ProbColumns())
	}); err != nil {
		return err
	}
	if err := writeFile(filepath.Join(outdir, OrientTsvColFile), func(w io.Writer) error {
		return writeTsvCols(w, r.OrientationColumns())
	}); err != nil {
		return err
	}
	return writeFile(filepath.Join(outdir, ReportIndexFile), r.WriteHTML)
}

// ProbColumns has one line per chromosome, or the genome-wide line when
// chromosomes are not tracked
func (r *Plotter) ProbColumns() []TsvCol {
	h := r.Result.Histogram
	if !h.PerChr {
		return []TsvCol{{"distance", "log10prob", Palette[0], DefaultOffColor, "genome"}}
	}
	cols := make([]TsvCol, 0, len(h.Genome.Names))
	for i, chr := range h.Genome.Names {
		cols = append(cols, TsvCol{
			ColumnX:  "distance",
			ColumnY:  "log10prob_per_chr." + chr,
			Color:    Palette[i%len(Palette)],
			OffColor: DefaultOffColor,
			Name:     chr,
		})
	}
	return cols
}

// OrientationColumns has one line per read orientation
func (r *Plotter) OrientationColumns() []TsvCol {
	cols := make([]TsvCol, 0, NumOrientations)
	for i, name := range OrientationNames {
		cols = append(cols, TsvCol{
			ColumnX:  "distance",
			ColumnY:  "log10count." + name,
			Color:    Palette[i%len(Palette)],
			OffColor: DefaultOffColor,
			Name:     name,
		})
	}
	return cols
}

// writeTsvCols writes the plot descriptor table
func writeTsvCols(w io.Writer, cols []TsvCol) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "columnx\tcolumny\tcolor\toffcolor\tname")
	for _, c := range cols {
		fmt.Fprintf(bw, "%s\t%s\t%s\t%s\t%s\n", c.ColumnX, c.ColumnY, c.Color, c.OffColor, c.Name)
	}
	return bw.Flush()
}

// ProbRange returns the y range spanning all defined, non-empty log10
// probabilities of the reported bins
func (r *Plotter) ProbRange() (float64, float64, error) {
	h := r.Result.Histogram
	var values stats.Float64Data
	for binNumber, ss := range h.Stats {
		if !h.Bins.InRange(binNumber) || !ss.Derived() {
			continue
		}
		if h.PerChr {
			for i, p := range ss.Log10ProbPerChr {
				if ss.ChrProbDefined(i) && ss.CountPerChr[i] > 0 {
					values = append(values, p)
				}
			}
		} else if ss.ProbDefined && ss.SumCount > 0 {
			values = append(values, ss.Log10Prob)
		}
	}
	ymin, err := stats.Min(values)
	if err != nil {
		return 0, 0, errors.Wrapf(ErrUndefinedStatistic, "plot range: %v", err)
	}
	ymax, _ := stats.Max(values)
	return ymin, ymax, nil
}

// CountRange returns the y range of the log10 counts, ignoring empty bins
func (r *Plotter) CountRange() (float64, float64, error) {
	h := r.Result.Histogram
	var values stats.Float64Data
	for binNumber, ss := range h.Stats {
		if !h.Bins.InRange(binNumber) || !ss.Derived() {
			continue
		}
		for i, c := range ss.CountPerOri {
			if c > 0 {
				values = append(values, ss.Log10CountPerOri[i])
			}
		}
	}
	ymin, err := stats.Min(values)
	if err != nil {
		return 0, 0, errors.Wrapf(ErrUndefinedStatistic, "plot range: %v", err)
	}
	ymax, _ := stats.Max(values)
	return ymin, ymax, nil
}

// Panels lays out the plots on the report page
func (r *Plotter) Panels() []PlotPanel {
	cfg := r.Result.Config
	var panels []PlotPanel
	if ymin, ymax, err := r.ProbRange(); err == nil {
		panels = append(panels, PlotPanel{
			ID: "contact_frequency_vs_genomic_separation", TsvCol: PerChrTsvColFile,
			XLabel: "log10 genomic separation", YLabel: "log10 contact frequency",
			XMin: cfg.MinLogDistance, XMax: cfg.MaxLogDistance,
			YMin: math.Floor(ymin), YMax: math.Ceil(ymax),
		})
	}
	if ymin, ymax, err := r.CountRange(); err == nil {
		panels = append(panels, PlotPanel{
			ID: "read_count_vs_genomic_separation", TsvCol: OrientTsvColFile,
			XLabel: "log10 genomic separation", YLabel: "log10 read count",
			XMin: cfg.MinLogDistance, XMax: cfg.MaxLogDistance,
			YMin: math.Floor(ymin), YMax: math.Ceil(ymax),
		})
	}
	if m := r.Result.Decay; m != nil && len(panels) > 0 {
		panels[0].Subtitle = fmt.Sprintf("slope %.3f (R2 %.3f) over %d bins", m.Slope, m.R2, m.N)
	}
	return panels
}

// WriteHTML renders the report page from the bundled template
func (r *Plotter) WriteHTML(w io.Writer) error {
	box := packr.NewBox("./templates")
	s, err := box.FindString(ReportIndexFile)
	if err != nil {
		return errors.Wrap(err, "find report template")
	}
	tmpl, err := template.New(ReportIndexFile).Parse(s)
	if err != nil {
		return errors.Wrap(err, "parse report template")
	}
	cts := r.Result.CisTrans
	ratio, rerr := cts.Ratio()
	return tmpl.Execute(w, map[string]interface{}{
		"Version":   Version,
		"Format":    r.Result.Format.Name,
		"Total":     humanize.Comma(cts.Total),
		"CisShort":  humanize.Comma(cts.CisShort),
		"Cis":       humanize.Comma(cts.Cis),
		"Trans":     humanize.Comma(cts.Trans),
		"Ratio":     formatFloat(ratio, rerr == nil),
		"PlotTable": PlotTableOutFile,
		"Height":    DefaultHTMLHeight,
		"Panels":    r.Panels(),
	})
}
