// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package recomb computes scalar lower bounds on the number of historical
// recombination events in a sample of haplotypes.
package recomb

import (
	"github.com/grailbio/msstats/haplotype"
)

// Hamming returns the number of sites at which a and b differ.  a and b must
// have the same length.
func Hamming(a, b []byte) int {
	d := 0
	for i := range a {
		if a[i] != b[i] {
			d++
		}
	}
	return d
}

// MinPairwiseDistance returns the smallest Hamming distance between any two
// individuals of m.  ok is false when m has no segregating sites; a result of
// 0 with ok == true means at least two individuals are identical.
//
// When m has fewer than two individuals the result is m.NumSites().
func MinPairwiseDistance(m *haplotype.Matrix) (d int, ok bool) {
	nSites := m.NumSites()
	if nSites == 0 {
		return 0, false
	}
	d = nSites
	n := m.Size()
	for i := 0; i < n; i++ {
		ri := m.Row(i)
		for j := i + 1; j < n; j++ {
			if dist := Hamming(ri, m.Row(j)); dist < d {
				d = dist
			}
		}
	}
	return d, true
}

// HasAncestral reports whether some individual of m carries the ancestral
// allele at each of the first segsites sites, i.e. its haplotype equals the
// all-zero haplotype of length segsites.
func HasAncestral(m *haplotype.Matrix, segsites int) bool {
	if segsites != m.NumSites() {
		return false
	}
	for i := 0; i < m.Size(); i++ {
		ancestral := true
		for _, a := range m.Row(i) {
			if a != 0 {
				ancestral = false
				break
			}
		}
		if ancestral {
			return true
		}
	}
	return false
}

// MyersGriffiths returns the haplotype bound of Myers and Griffiths (2003),
// eq. 4, for a sample m with segsites segregating sites and nhaps distinct
// haplotypes.  With n = m.Size():
//
//   n > S, all-zero haplotype present:  H - S - 1
//   n > S, otherwise:                   H - S
//   n <= S:                             0
//
// The result may be negative; it is returned unclamped.
func MyersGriffiths(m *haplotype.Matrix, segsites, nhaps int) int {
	if m.Size() <= segsites {
		return 0
	}
	if HasAncestral(m, segsites) {
		return nhaps - segsites - 1
	}
	return nhaps - segsites
}
