/*
 *  base_test.go
 *  pairsqc
 *
 *  Created by Haibao Tang on 10/17/26
 *  Copyright © 2026 Haibao Tang. All rights reserved.
 */

package pairsqc_test

import (
	"testing"

	"github.com/tanghaibao/pairsqc"
)

func TestHumanDistance(t *testing.T) {
	tests := map[int]string{
		20000:   "20kb",
		1000000: "1Mb",
		1500:    "1500bp",
		500:     "500bp",
	}
	for bp, want := range tests {
		if got := pairsqc.HumanDistance(bp); got != want {
			t.Fatalf("HumanDistance(%d) = %s, expected %s", bp, got, want)
		}
	}
}
