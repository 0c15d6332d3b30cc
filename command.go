/*
 *  command.go
 *  pairsqc
 *
 *  Created by Haibao Tang on 10/17/26
 *  Copyright © 2026 Haibao Tang. All rights reserved.
 */

package pairsqc

import (
	"fmt"
	"strings"

	logging "github.com/op/go-logging"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag names, also the keys of the optional config file
const (
	flagPairs                = "pairs"
	flagChrSize              = "chrsize"
	flagFasta                = "fasta"
	flagInputType            = "input_type"
	flagOutputPrefix         = "output_prefix"
	flagShortCisThreshold    = "short_cis_threshold"
	flagLogBinSize           = "log_binsize"
	flagMinLogDistance       = "min_logdistance"
	flagMaxLogDistance       = "max_logdistance"
	flagPseudocount          = "pseudocount"
	flagPerChr               = "per_chr"
	flagReportCisShort       = "report_cis_short"
	flagCisOrientationFilter = "cis_orientation_filter"
	flagRange                = "range"
	flagThreads              = "threads"
	flagDecayMin             = "decay_min_logdistance"
	flagDecayMax             = "decay_max_logdistance"
	flagConfig               = "config"
	flagQuiet                = "quiet"
)

// banner prints the separate steps
func banner(message string) {
	message = "* " + message + " *"
	log.Noticef(strings.Repeat("*", len(message)))
	log.Noticef(message)
	log.Noticef(strings.Repeat("*", len(message)))
}

// NewRootCommand builds the command tree
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "pairsqc",
		Short:         "QC for Hi-C pairs: cis/trans ratio and contact probability by distance",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCommand(), newFormatsCommand())
	return root
}

// newRunCommand computes the report for one pairs file
func newRunCommand() *cobra.Command {
	defaults := DefaultConfig()
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Compute cis/trans ratio and distance histogram of a pairs file",
		Long: `
	pairsqc run -p sample.pairs.gz -c hg38.chrom.sizes -t P -O sample

Run function:
Given a pairs file and the chromosome sizes, count cis (short and long) and
trans reads, then bin cis reads by log10 separation distance and orientation.
Each bin gets log10 counts, orientation proportions and the contact probability,
i.e. the count normalized by all possible pairs at that separation and by the
bin width. Bgzipped pairs files are read block by block (chr1|chr2), other
files are loaded in memory. Outputs go to <output_prefix>_report/.
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			v := viper.New()
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				return err
			}
			if configFile := v.GetString(flagConfig); configFile != "" {
				v.SetConfigFile(configFile)
				if err := v.ReadInConfig(); err != nil {
					return errors.Wrapf(err, "read config `%s`", configFile)
				}
			}
			if v.GetBool(flagQuiet) {
				logging.SetLevel(logging.WARNING, "pairsqc")
			}
			qc, err := qcFromViper(v)
			if err != nil {
				return err
			}
			banner(fmt.Sprintf("pairsqc %s on `%s`", Version, qc.PairsFile))
			return qc.Run()
		},
	}

	flags := cmd.Flags()
	flags.StringP(flagPairs, "p", "", "input pairs file")
	flags.StringP(flagChrSize, "c", "", "input chromsize file")
	flags.StringP(flagFasta, "f", "", "take chromosome sizes from this FASTA file instead")
	flags.StringP(flagInputType, "t", defaults.InputType,
		"input file type (P:pairs, M:merged_nodups, OM:old_merged_nodups)")
	flags.StringP(flagOutputPrefix, "O", "",
		"prefix of output directory (output directory name will be <output_prefix>_report)")
	flags.Int(flagShortCisThreshold, defaults.ShortCisThreshold, "cis reads at or below this distance are short")
	flags.Float64(flagLogBinSize, defaults.LogBinSize, "distance bin size in log10 scale")
	flags.Float64(flagMinLogDistance, defaults.MinLogDistance, "smallest log10 distance reported")
	flags.Float64(flagMaxLogDistance, defaults.MaxLogDistance, "largest log10 distance reported")
	flags.Float64(flagPseudocount, defaults.Pseudocount, "pseudocount added before log10 and proportions")
	flags.Bool(flagPerChr, defaults.PerChromosome, "report counts and contact probability per chromosome")
	flags.Bool(flagReportCisShort, defaults.ReportCisShort, "split cis reads into short and long")
	flags.Bool(flagCisOrientationFilter, defaults.CisOrientationFilter,
		"count only canonical orientations toward cis totals")
	flags.Bool(flagRange, defaults.ReportRange, "print the distance range (bp) of each bin")
	flags.IntP(flagThreads, "j", defaults.Threads, "number of workers scanning chr1|chr2 blocks")
	flags.Float64(flagDecayMin, defaults.DecayMinLogDistance, "start of the contact decay fit (log10 bp)")
	flags.Float64(flagDecayMax, defaults.DecayMaxLogDistance, "end of the contact decay fit (log10 bp)")
	flags.String(flagConfig, "", "YAML/JSON/TOML file with any of the options above")
	flags.BoolP(flagQuiet, "q", false, "only log warnings and errors")
	return cmd
}

// qcFromViper resolves flags and config file values into a QC runner
func qcFromViper(v *viper.Viper) (*QC, error) {
	qc := &QC{
		PairsFile:      v.GetString(flagPairs),
		ChromSizesFile: v.GetString(flagChrSize),
		FastaFile:      v.GetString(flagFasta),
		OutPrefix:      v.GetString(flagOutputPrefix),
		Config: Config{
			InputType:            v.GetString(flagInputType),
			ShortCisThreshold:    v.GetInt(flagShortCisThreshold),
			LogBinSize:           v.GetFloat64(flagLogBinSize),
			MinLogDistance:       v.GetFloat64(flagMinLogDistance),
			MaxLogDistance:       v.GetFloat64(flagMaxLogDistance),
			Pseudocount:          v.GetFloat64(flagPseudocount),
			PerChromosome:        v.GetBool(flagPerChr),
			ReportCisShort:       v.GetBool(flagReportCisShort),
			CisOrientationFilter: v.GetBool(flagCisOrientationFilter),
			ReportRange:          v.GetBool(flagRange),
			Threads:              v.GetInt(flagThreads),
			DecayMinLogDistance:  v.GetFloat64(flagDecayMin),
			DecayMaxLogDistance:  v.GetFloat64(flagDecayMax),
		},
	}
	if qc.PairsFile == "" {
		return nil, errors.New("must specify the pairs file (-p)")
	}
	if qc.ChromSizesFile == "" && qc.FastaFile == "" {
		return nil, errors.New("must specify the chromsize file (-c) or a FASTA file (-f)")
	}
	if _, err := qc.Config.Validate(); err != nil {
		return nil, err
	}
	return qc, nil
}

// newFormatsCommand lists the supported input formats
func newFormatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List supported input formats and their columns",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "#code\tname\tchromosome columns\tposition columns\tstrand columns\t%s\n",
				strings.Join(OrientationNames[:], ","))
			for _, f := range Formats {
				fmt.Fprintln(out, f)
			}
			return nil
		},
	}
}

// Execute runs the command line
func Execute() error {
	return NewRootCommand().Execute()
}
