// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package diversity

import (
	"math"

	"github.com/grailbio/msstats/haplotype"
	"gonum.org/v1/gonum/stat"
)

// Stats holds the diversity summaries of one sample.  All values are
// computed by New; the accessors are cheap.
type Stats struct {
	n, s int

	thetaW, thetaPi    float64
	rmin               int
	rminOK             bool
	nHaps              int
	hapDiv             float64
	wallsB, wallsQ     float64
	hudsonsC           float64
	pairwiseDiffsMean  float64
	pairwiseDiffsVar   float64
	polymorphicColumns []int
}

// New computes the summaries of m.
func New(m *haplotype.Matrix) *Stats {
	st := &Stats{n: m.Size()}
	for j := 0; j < m.NumSites(); j++ {
		if c := m.DerivedCount(j); c > 0 && c < st.n {
			st.polymorphicColumns = append(st.polymorphicColumns, j)
		}
	}
	st.s = len(st.polymorphicColumns)
	st.thetaW = thetaW(st.n, st.s)
	st.thetaPi = thetaPi(m, st.polymorphicColumns)
	st.rmin, st.rminOK = hudsonKaplan(m, st.polymorphicColumns)
	hapCounts := haplotypeCounts(m)
	st.nHaps = len(hapCounts)
	st.hapDiv = haplotypeDiversity(st.n, hapCounts)
	st.wallsB, st.wallsQ = walls(m, st.polymorphicColumns)
	st.pairwiseDiffsMean, st.pairwiseDiffsVar = pairwiseDifferences(m, st.polymorphicColumns)
	st.hudsonsC = hudsonsC(st.pairwiseDiffsMean, st.pairwiseDiffsVar)
	return st
}

// SegregatingSites returns S, the number of polymorphic sites.
func (st *Stats) SegregatingSites() int { return st.s }

// ThetaW returns Watterson's estimator S / a1, a1 = sum_{i=1}^{n-1} 1/i.
func (st *Stats) ThetaW() float64 { return st.thetaW }

// ThetaPi returns Tajima's estimator, the mean number of pairwise
// differences.
func (st *Stats) ThetaPi() float64 { return st.thetaPi }

// MinRec returns Hudson and Kaplan's (1985) Rm.  ok is false when the sample
// has fewer than two segregating sites.
func (st *Stats) MinRec() (int, bool) { return st.rmin, st.rminOK }

// NumHaplotypes returns the number of distinct haplotypes.
func (st *Stats) NumHaplotypes() int { return st.nHaps }

// HaplotypeDiversity returns Depaulis and Veuille's haplotype diversity,
// n/(n-1) * (1 - sum p_i^2).
func (st *Stats) HaplotypeDiversity() float64 { return st.hapDiv }

// WallsB returns Wall's (1999) B, the fraction of adjacent segregating-site
// pairs that are congruent.
func (st *Stats) WallsB() float64 { return st.wallsB }

// WallsQ returns Wall's (1999) Q: congruent adjacent pairs plus the number of
// distinct partitions they induce, over S.
func (st *Stats) WallsQ() float64 { return st.wallsQ }

// HudsonsC returns Hudson's (1987) moment estimator of the population
// recombination rate over the sampled region.  It is +Inf when the variance of
// pairwise differences is at or below its infinite-recombination expectation,
// and NaN when the sample carries no pairwise differences.
func (st *Stats) HudsonsC() float64 { return st.hudsonsC }

func thetaW(n, s int) float64 {
	if n < 2 {
		return math.NaN()
	}
	var a1 float64
	for i := 1; i < n; i++ {
		a1 += 1 / float64(i)
	}
	return float64(s) / a1
}

func thetaPi(m *haplotype.Matrix, cols []int) float64 {
	n := m.Size()
	if n < 2 {
		return math.NaN()
	}
	var pi float64
	denom := float64(n) * float64(n-1)
	for _, j := range cols {
		c := m.DerivedCount(j)
		pi += 2 * float64(c) * float64(n-c) / denom
	}
	return pi
}

// incompatible runs the four-gamete test on sites a and b.
func incompatible(m *haplotype.Matrix, a, b int) bool {
	var seen [4]bool
	nSeen := 0
	for i := 0; i < m.Size(); i++ {
		g := m.At(i, a)<<1 | m.At(i, b)
		if !seen[g] {
			seen[g] = true
			if nSeen++; nSeen == 4 {
				return true
			}
		}
	}
	return false
}

// hudsonKaplan scans sites left to right, closing an interval at the first
// site incompatible with any site at or after the previous interval's right
// end.  The number of closed intervals is the maximum number of disjoint
// incompatibility intervals.
func hudsonKaplan(m *haplotype.Matrix, cols []int) (int, bool) {
	if len(cols) < 2 {
		return 0, false
	}
	rm, x := 0, 0
	for a := 1; a < len(cols); a++ {
		for b := x; b < a; b++ {
			if incompatible(m, cols[b], cols[a]) {
				rm++
				x = a
				break
			}
		}
	}
	return rm, true
}

func haplotypeDiversity(n int, counts []int) float64 {
	if n < 2 {
		return math.NaN()
	}
	var homozygosity float64
	for _, c := range counts {
		p := float64(c) / float64(n)
		homozygosity += p * p
	}
	return float64(n) / float64(n-1) * (1 - homozygosity)
}

// walls computes B and Q together since both need the congruent pairs.
func walls(m *haplotype.Matrix, cols []int) (b, q float64) {
	s := len(cols)
	if s < 2 {
		return math.NaN(), math.NaN()
	}
	n := m.Size()
	partitions := newKeySet(partitionHash)
	prev := make([]byte, n)
	cur := make([]byte, n)
	canonicalColumn(m, cols[0], prev)
	congruent := 0
	for k := 1; k < s; k++ {
		canonicalColumn(m, cols[k], cur)
		if string(prev) == string(cur) {
			congruent++
			partitions.add(cur)
		}
		prev, cur = cur, prev
	}
	b = float64(congruent) / float64(s-1)
	q = float64(congruent+partitions.len()) / float64(s)
	return b, q
}

// canonicalColumn writes column j of m into dst, complemented if needed so
// that the first individual carries 0.  Two biallelic sites are congruent iff
// their canonical columns are equal.
func canonicalColumn(m *haplotype.Matrix, j int, dst []byte) {
	flip := m.At(0, j)
	for i := range dst {
		dst[i] = m.At(i, j) ^ flip
	}
}

func pairwiseDifferences(m *haplotype.Matrix, cols []int) (mean, variance float64) {
	n := m.Size()
	if n < 2 {
		return math.NaN(), math.NaN()
	}
	diffs := make([]float64, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := 0
			for _, c := range cols {
				if m.At(i, c) != m.At(j, c) {
					d++
				}
			}
			diffs = append(diffs, float64(d))
		}
	}
	if len(diffs) < 2 {
		return diffs[0], math.NaN()
	}
	return stat.MeanVariance(diffs, nil)
}

// hudsonsC inverts Var(k) = pi + f(C) pi^2, f(C) = (C+18)/(C^2+13C+18), for
// C >= 0.
func hudsonsC(pi, variance float64) float64 {
	if math.IsNaN(pi) || math.IsNaN(variance) || pi <= 0 {
		return math.NaN()
	}
	r := (variance - pi) / (pi * pi)
	switch {
	case r >= 1:
		return 0
	case r <= 0:
		return math.Inf(1)
	}
	// r C^2 + (13r - 1) C + 18(r - 1) = 0 has exactly one positive root for
	// 0 < r < 1.
	bq := 13*r - 1
	disc := bq*bq - 72*r*(r-1)
	return (-bq + math.Sqrt(disc)) / (2 * r)
}
