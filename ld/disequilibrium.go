// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package ld

import (
	"math"

	"github.com/grailbio/msstats/haplotype"
)

// PairStat holds the linkage-disequilibrium statistics of one pair of sites.
type PairStat struct {
	// Site1 < Site2 are column indices.
	Site1, Site2 int
	// Pos1 and Pos2 are the site positions, or the column indices when the
	// matrix carries no positions.
	Pos1, Pos2 float64
	RSquared   float64
	D          float64
	DPrime     float64
	// Skipped is set when a site of the pair fails the minor-allele-count
	// filter.  The other statistics are then zero.
	Skipped bool
}

// NumValues is the length of the slice returned by PairStat.Values.
const NumValues = 6

// Values returns the statistics as [pos1, pos2, r^2, D, D', skipped], with
// skipped encoded as 0 or 1.
func (p PairStat) Values() []float64 {
	skipped := 0.0
	if p.Skipped {
		skipped = 1
	}
	return []float64{p.Pos1, p.Pos2, p.RSquared, p.D, p.DPrime, skipped}
}

// PairSource yields PairStats.  It is implemented by PairScanner.
type PairSource interface {
	Scan() bool
	Stat() PairStat
}

// PairScanner walks all pairs of sites (i, j), i < j, of a matrix in
// lexicographic order starting at (0, 1), computing their disequilibrium.
// A PairScanner can be consumed only once.
type PairScanner struct {
	m        *haplotype.Matrix
	minCount int
	derived  []int
	i, j     int
	stat     PairStat
}

// NewPairScanner creates a scanner over the site pairs of m.  A pair is
// marked skipped when the minor allele at either site occurs fewer than
// minCount times, or when either site is monomorphic in m.
func NewPairScanner(m *haplotype.Matrix, minCount int) *PairScanner {
	derived := make([]int, m.NumSites())
	for j := range derived {
		derived[j] = m.DerivedCount(j)
	}
	return &PairScanner{m: m, minCount: minCount, derived: derived, i: 0, j: 0}
}

// Scan advances to the next pair, returning false once all pairs have been
// visited.
func (s *PairScanner) Scan() bool {
	nSites := s.m.NumSites()
	s.j++
	if s.j >= nSites {
		s.i++
		s.j = s.i + 1
	}
	if s.j >= nSites {
		s.i, s.j = nSites, nSites
		return false
	}
	s.stat = s.compute(s.i, s.j)
	return true
}

// Stat returns the statistics of the current pair.
func (s *PairScanner) Stat() PairStat { return s.stat }

func (s *PairScanner) minor(j int) int {
	c := s.derived[j]
	if n := s.m.Size() - c; n < c {
		return n
	}
	return c
}

func (s *PairScanner) compute(a, b int) PairStat {
	st := PairStat{Site1: a, Site2: b, Pos1: float64(a), Pos2: float64(b)}
	if pos := s.m.Positions(); pos != nil {
		st.Pos1, st.Pos2 = pos[a], pos[b]
	}
	ma, mb := s.minor(a), s.minor(b)
	if ma == 0 || mb == 0 || ma < s.minCount || mb < s.minCount {
		st.Skipped = true
		return st
	}
	n := float64(s.m.Size())
	n11 := 0
	for i := 0; i < s.m.Size(); i++ {
		if s.m.At(i, a) == 1 && s.m.At(i, b) == 1 {
			n11++
		}
	}
	p1 := float64(s.derived[a]) / n
	p2 := float64(s.derived[b]) / n
	d := float64(n11)/n - p1*p2
	st.D = d
	st.RSquared = d * d / (p1 * (1 - p1) * p2 * (1 - p2))
	var dmax float64
	if d < 0 {
		dmax = math.Min(p1*p2, (1-p1)*(1-p2))
	} else {
		dmax = math.Min(p1*(1-p2), (1-p1)*p2)
	}
	if dmax > 0 {
		st.DPrime = d / dmax
	}
	return st
}
