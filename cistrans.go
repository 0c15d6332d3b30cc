/*
 *  cistrans.go
 *  pairsqc
 *
 *  Created by Haibao Tang on 10/17/26
 *  Copyright © 2026 Haibao Tang. All rights reserved.
 */

package pairsqc

import (
	"github.com/pkg/errors"
)

// CisTransStat contains summary statistics including cis-trans ratio
type CisTransStat struct {
	Cis      int64 // same chromosome, distance above the short threshold
	CisShort int64 // same chromosome, distance at or below the short threshold
	Trans    int64 // different chromosomes
	Total    int64 // set by CalculateTotal
}

// Record tallies one pair
func (r *CisTransStat) Record(chr1, chr2 string, distance, shortThreshold int) {
	if chr1 != chr2 {
		r.Trans++
		return
	}
	if distance > shortThreshold {
		r.Cis++
	} else {
		r.CisShort++
	}
}

// CalculateTotal sums up all the counters
func (r *CisTransStat) CalculateTotal() {
	r.Total = r.Cis + r.CisShort + r.Trans
}

// Ratio is the percentage of cis among cis and trans reads. It is undefined
// without trans reads.
func (r *CisTransStat) Ratio() (float64, error) {
	if r.Trans == 0 {
		return 0, errors.Wrapf(ErrUndefinedStatistic, "cis/trans ratio with %d cis and 0 trans reads", r.Cis)
	}
	return float64(r.Cis) / float64(r.Cis+r.Trans) * 100, nil
}

// Merge adds the counters of another run partition
func (r *CisTransStat) Merge(o *CisTransStat) {
	r.Cis += o.Cis
	r.CisShort += o.CisShort
	r.Trans += o.Trans
	r.CalculateTotal()
}
