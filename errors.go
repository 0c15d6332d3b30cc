/*
 *  errors.go
 *  pairsqc
 *
 *  Created by Haibao Tang on 10/17/26
 *  Copyright © 2026 Haibao Tang. All rights reserved.
 */

package pairsqc

import (
	"github.com/pkg/errors"
)

// Error kinds, use errors.Cause (or errors.Is) to tell them apart
var (
	// ErrMalformedInput is an unparsable chromosome size line or a non-integer field
	ErrMalformedInput = errors.New("malformed input")
	// ErrUnknownFormat is an unrecognized input format selector
	ErrUnknownFormat = errors.New("unknown format")
	// ErrInternalConsistency means the classifier and the accumulators disagree
	ErrInternalConsistency = errors.New("internal consistency failure")
	// ErrUndefinedStatistic is a ratio or probability with a zero denominator
	ErrUndefinedStatistic = errors.New("undefined statistic")
)

// IsUndefined reports whether err marks a statistic that could not be computed
func IsUndefined(err error) bool {
	return errors.Cause(err) == ErrUndefinedStatistic
}
