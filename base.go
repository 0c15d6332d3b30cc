/**
 * Filename: /Users/bao/code/pairsqc/base.go
 * Path: /Users/bao/code/pairsqc
 * Created Date: Saturday, October 17th 2026, 9:12:40 am
 * Author: bao
 *
 * Copyright (c) 2026 Haibao Tang
 */

package pairsqc

import (
	"fmt"
	"math"
	"os"

	logging "github.com/op/go-logging"
)

const (
	// Version is the current version of pairsqc
	Version = "0.2.1"
	// Separator joins the two chromosomes of a block key, as in pairix
	Separator = "|"
	// NumOrientations is the size of the canonical orientation set
	NumOrientations = 4
	// DefaultShortCisThreshold is the distance (bp) at or below which cis pairs are short
	DefaultShortCisThreshold = 20000
	// DefaultLogBinSize is the distance bin size at the log10 scale
	DefaultLogBinSize = 0.1
	// DefaultMinLogDistance is the smallest log10 distance reported
	DefaultMinLogDistance = 1.0
	// DefaultMaxLogDistance is the largest log10 distance allocated and reported
	DefaultMaxLogDistance = 8.4
	// DefaultPseudocount avoids log10(0) and 0/0
	DefaultPseudocount = 1e-100
	// DefaultDecayMinLogDistance is where the contact decay fit starts (10kb)
	DefaultDecayMinLogDistance = 4.0
	// DefaultDecayMaxLogDistance is where the contact decay fit stops (1Mb)
	DefaultDecayMaxLogDistance = 6.0
	// NA marks an undefined value in the output tables
	NA = "NA"
)

// Output file names inside the report directory
const (
	CisTransOutFile   = "cis_to_trans.out"
	PlotTableOutFile  = "plot_table.out"
	DecayOutFile      = "decay.out"
	PerChrTsvColFile  = "tsvcol.per_chr.tsv"
	OrientTsvColFile  = "tsvcol.orientation.tsv"
	ReportIndexFile   = "index.html"
	DefaultReportDir  = "report"
	ReportDirSuffix   = "_report"
	DefaultOffColor   = "#999999"
	DefaultHTMLHeight = 300
)

var log = logging.MustGetLogger("pairsqc")
var format = logging.MustStringFormatter(
	`%{color}%{time:15:04:05} %{shortfunc} | %{level:.6s} %{color:reset} %{message}`,
)

// Backend is the default stderr output
var Backend = logging.NewLogBackend(os.Stderr, "", 0)

// BackendFormatter contains the fancy debug formatter
var BackendFormatter = logging.NewBackendFormatter(Backend, format)

// Round makes a round number
func Round(input float64) float64 {
	if input < 0 {
		return math.Ceil(input - 0.5)
	}
	return math.Floor(input + 0.5)
}

// Percentage prints a human readable message of the percentage
func Percentage(a, b int64) string {
	if b == 0 {
		return fmt.Sprintf("%d of %d", a, b)
	}
	return fmt.Sprintf("%d of %d (%.1f %%)", a, b, float64(a)*100./float64(b))
}

// HumanDistance converts a distance in bp to a short label, e.g. 20000 => 20kb
func HumanDistance(bp int) string {
	switch {
	case bp >= 1000000 && bp%1000000 == 0:
		return fmt.Sprintf("%dMb", bp/1000000)
	case bp >= 1000 && bp%1000 == 0:
		return fmt.Sprintf("%dkb", bp/1000)
	}
	return fmt.Sprintf("%dbp", bp)
}

// sumInt64 gets the sum for an int64 slice
func sumInt64(a []int64) int64 {
	ans := int64(0)
	for _, x := range a {
		ans += x
	}
	return ans
}

// formatFloat prints a fixed 3-decimal float or NA
func formatFloat(x float64, ok bool) string {
	if !ok {
		return NA
	}
	return fmt.Sprintf("%.3f", x)
}

// formatSci prints a 3-digit scientific float or NA
func formatSci(x float64, ok bool) string {
	if !ok {
		return NA
	}
	return fmt.Sprintf("%.3E", x)
}
