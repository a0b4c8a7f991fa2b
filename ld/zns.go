// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package ld

import (
	"github.com/grailbio/msstats/haplotype"
)

// Aggregate consumes src and returns the mean r^2 over the pairs that were not
// skipped.  ok is false when every pair was skipped or src was empty.
func Aggregate(src PairSource) (zns float64, ok bool) {
	var (
		sum    float64
		nPairs int
	)
	for src.Scan() {
		st := src.Stat()
		if st.Skipped {
			continue
		}
		sum += st.RSquared
		nPairs++
	}
	if nPairs == 0 {
		return 0, false
	}
	return sum / float64(nPairs), true
}

// ZnS returns Kelly's (1997) ZnS for m: the mean r^2 over all site pairs
// passing the minor-allele-count filter.  ok is false when m has at most one
// site or when no pair passes the filter.
func ZnS(m *haplotype.Matrix, minCount int) (float64, bool) {
	if m.NumSites() <= 1 {
		return 0, false
	}
	return Aggregate(NewPairScanner(m, minCount))
}
