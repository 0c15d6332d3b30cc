/*
 *  config.go
 *  pairsqc
 *
 *  Created by Haibao Tang on 10/17/26
 *  Copyright © 2026 Haibao Tang. All rights reserved.
 */

package pairsqc

import (
	"github.com/pkg/errors"
)

// Config holds the run parameters. It is not modified once a run starts.
type Config struct {
	InputType            string  // Format selector: P, M or OM
	ShortCisThreshold    int     // Cis reads at or below this distance (bp) are short
	LogBinSize           float64 // Distance bin size at the log10 scale
	MinLogDistance       float64 // Smallest log10 distance reported
	MaxLogDistance       float64 // Largest log10 distance allocated and reported
	Pseudocount          float64 // Added before log10 and proportions
	PerChromosome        bool    // Track counts and probabilities per chromosome
	ReportCisShort       bool    // Split cis into short and long by ShortCisThreshold
	CisOrientationFilter bool    // Only canonical orientations count toward cis totals
	ReportRange          bool    // Print the linear distance range of each bin
	Threads              int     // Number of workers scanning blocks
	DecayMinLogDistance  float64 // Start of the contact decay fit
	DecayMaxLogDistance  float64 // End of the contact decay fit
}

// DefaultConfig returns the standard 4DN pairs QC parameters
func DefaultConfig() Config {
	return Config{
		InputType:           PairsFormat.Code,
		ShortCisThreshold:   DefaultShortCisThreshold,
		LogBinSize:          DefaultLogBinSize,
		MinLogDistance:      DefaultMinLogDistance,
		MaxLogDistance:      DefaultMaxLogDistance,
		Pseudocount:         DefaultPseudocount,
		PerChromosome:       true,
		ReportCisShort:      true,
		ReportRange:         true,
		Threads:             1,
		DecayMinLogDistance: DefaultDecayMinLogDistance,
		DecayMaxLogDistance: DefaultDecayMaxLogDistance,
	}
}

// Validate checks the parameters and resolves the input format
func (r Config) Validate() (Format, error) {
	f, err := LookupFormat(r.InputType)
	if err != nil {
		return f, err
	}
	switch {
	case r.LogBinSize <= 0:
		return f, errors.Errorf("log bin size must be positive, got %g", r.LogBinSize)
	case r.MinLogDistance > r.MaxLogDistance:
		return f, errors.Errorf("min log distance %g is larger than max log distance %g",
			r.MinLogDistance, r.MaxLogDistance)
	case r.MaxLogDistance < r.LogBinSize/2:
		return f, errors.Errorf("max log distance %g leaves no bin", r.MaxLogDistance)
	case r.ShortCisThreshold < 0:
		return f, errors.Errorf("short cis threshold must not be negative, got %d", r.ShortCisThreshold)
	case r.Pseudocount <= 0:
		return f, errors.Errorf("pseudocount must be positive, got %g", r.Pseudocount)
	case r.Threads < 1:
		return f, errors.Errorf("threads must be at least 1, got %d", r.Threads)
	case r.DecayMinLogDistance >= r.DecayMaxLogDistance:
		return f, errors.Errorf("decay fit range [%g, %g] is empty",
			r.DecayMinLogDistance, r.DecayMaxLogDistance)
	}
	return f, nil
}

// shortThreshold is the effective threshold, everything is long cis when
// short cis reads are not reported
func (r Config) shortThreshold() int {
	if !r.ReportCisShort {
		return -1
	}
	return r.ShortCisThreshold
}
