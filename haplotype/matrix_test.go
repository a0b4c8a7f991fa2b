// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package haplotype_test

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/grailbio/msstats/haplotype"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

func TestParse(t *testing.T) {
	m, err := haplotype.Parse("0101", "1100", "0000")
	assert.NoError(t, err)
	expect.EQ(t, m.Size(), 3)
	expect.EQ(t, m.NumSites(), 4)
	expect.EQ(t, m.At(0, 1), byte(1))
	expect.EQ(t, m.At(1, 3), byte(0))
	expect.EQ(t, m.Row(1), []byte{1, 1, 0, 0})
	expect.EQ(t, m.DerivedCount(1), 2)
	expect.EQ(t, m.String(), "0101\n1100\n0000\n")

	_, err = haplotype.Parse("01", "0")
	expect.NotNil(t, err)
	_, err = haplotype.Parse("01", "2a")
	expect.NotNil(t, err)
}

func TestNewPositions(t *testing.T) {
	_, err := haplotype.New([][]byte{{0, 1}}, []float64{0.1})
	expect.NotNil(t, err)
	_, err = haplotype.New([][]byte{{0, 2}}, nil)
	expect.NotNil(t, err)
	m, err := haplotype.New([][]byte{{0, 1}, {1, 1}}, []float64{0.1, 0.2})
	assert.NoError(t, err)
	expect.EQ(t, m.Positions(), []float64{0.1, 0.2})
}

func TestRemoveInvariantColumns(t *testing.T) {
	rows := [][]byte{
		{0, 1, 1, 0, 1},
		{0, 0, 1, 1, 1},
		{0, 1, 1, 0, 1},
	}
	m, err := haplotype.New(rows, []float64{0.1, 0.2, 0.3, 0.4, 0.5})
	assert.NoError(t, err)
	m.RemoveInvariantColumns()
	expect.EQ(t, m.NumSites(), 2)
	expect.EQ(t, m.Size(), 3)
	expect.EQ(t, m.String(), "10\n01\n10\n")
	expect.EQ(t, m.Positions(), []float64{0.2, 0.4})
	// The source rows must not be aliased.
	expect.EQ(t, rows[0], []byte{0, 1, 1, 0, 1})
}

func TestRemoveInvariantColumnsEmpty(t *testing.T) {
	m := haplotype.MustParse("", "", "")
	m.RemoveInvariantColumns()
	expect.EQ(t, m.NumSites(), 0)
	expect.EQ(t, m.Size(), 3)

	m = haplotype.MustParse("0110", "0110")
	m.RemoveInvariantColumns()
	expect.EQ(t, m.NumSites(), 0)
	expect.EQ(t, m.Size(), 2)
}

func randomMatrix(r *rand.Rand, n, s int) *haplotype.Matrix {
	rows := make([][]byte, n)
	for i := range rows {
		rows[i] = make([]byte, s)
		for j := range rows[i] {
			// Bias towards the ancestral allele so that some columns are invariant.
			if r.Intn(4) == 0 {
				rows[i][j] = 1
			}
		}
	}
	m, err := haplotype.New(rows, nil)
	if err != nil {
		panic(err)
	}
	return m
}

func TestRemoveInvariantColumnsIdempotent(t *testing.T) {
	r := rand.New(rand.NewSource(0))
	for iter := 0; iter < 200; iter++ {
		m := randomMatrix(r, r.Intn(8)+1, r.Intn(20))
		m.RemoveInvariantColumns()
		once := m.Clone()
		m.RemoveInvariantColumns()
		expect.True(t, m.Equal(once), "iter %d:\n%v\nvs\n%v", iter, m, once)
		for j := 0; j < m.NumSites(); j++ {
			c := m.DerivedCount(j)
			expect.True(t, c > 0 && c < m.Size())
		}
	}
}

func rowMultiset(m *haplotype.Matrix) []string {
	var rows []string
	for i := 0; i < m.Size(); i++ {
		rows = append(rows, string(m.Row(i)))
	}
	sort.Strings(rows)
	return rows
}

// isSubMultiset reports whether every element of sub occurs in super at least
// as often.  Both arguments must be sorted.
func isSubMultiset(sub, super []string) bool {
	j := 0
	for _, s := range sub {
		for j < len(super) && super[j] < s {
			j++
		}
		if j == len(super) || super[j] != s {
			return false
		}
		j++
	}
	return true
}

func TestSample(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for iter := 0; iter < 200; iter++ {
		n := r.Intn(10) + 1
		m := randomMatrix(r, n, r.Intn(15))
		orig := m.Clone()
		k := r.Intn(n) + 1
		s, err := haplotype.Sample(m, k, r)
		assert.NoError(t, err)
		expect.EQ(t, s.Size(), k)
		expect.EQ(t, s.NumSites(), m.NumSites())
		expect.True(t, isSubMultiset(rowMultiset(s), rowMultiset(m)))
		expect.True(t, m.Equal(orig), "source modified")
	}
}

func TestSampleFullIsPermutation(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	m := randomMatrix(r, 12, 30)
	s, err := haplotype.Sample(m, m.Size(), r)
	assert.NoError(t, err)
	expect.EQ(t, rowMultiset(s), rowMultiset(m))
}

func TestSampleInvalid(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	m := haplotype.MustParse("01", "10")
	_, err := haplotype.Sample(m, 0, r)
	expect.NotNil(t, err)
	_, err = haplotype.Sample(m, 3, r)
	expect.NotNil(t, err)
}

func TestSampleIsUniform(t *testing.T) {
	// Each of the four individuals should lead the sample about a quarter of
	// the time.
	r := rand.New(rand.NewSource(4))
	m := haplotype.MustParse("00", "01", "10", "11")
	const nIter = 20000
	counts := map[string]int{}
	for i := 0; i < nIter; i++ {
		s, err := haplotype.Sample(m, 1, r)
		assert.NoError(t, err)
		counts[string(s.Row(0))]++
	}
	expect.EQ(t, len(counts), 4)
	for row, c := range counts {
		expect.True(t, c > nIter/4-nIter/20 && c < nIter/4+nIter/20, "row %v: %d", []byte(row), c)
	}
}

func TestSubsample(t *testing.T) {
	r := rand.New(rand.NewSource(5))
	m := haplotype.MustParse("0011", "0101", "0110")
	for iter := 0; iter < 50; iter++ {
		s, err := haplotype.Subsample(m, 2, r)
		assert.NoError(t, err)
		expect.EQ(t, s.Size(), 2)
		// Any two of the three rows differ at exactly two sites.
		expect.EQ(t, s.NumSites(), 2)
	}
	expect.EQ(t, m.NumSites(), 4)
}
