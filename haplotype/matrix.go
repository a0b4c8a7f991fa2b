// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package haplotype

import (
	"fmt"
	"strings"

	"github.com/grailbio/base/errors"
)

// Matrix is a binary haplotype matrix: one row per sampled individual, one
// column per segregating site.  Alleles are stored as 0 (ancestral) and 1
// (derived).
type Matrix struct {
	nRow, nCol int
	// data is a row-major nRow*nCol array.
	data []byte
	// positions holds the relative position of each column, if known.  It is
	// either nil or has length nCol.
	positions []float64
}

// New builds a matrix from equal-length rows of 0/1 allele values.  The rows
// are copied.
func New(rows [][]byte, positions []float64) (*Matrix, error) {
	nCol := 0
	if len(rows) > 0 {
		nCol = len(rows[0])
	}
	if positions != nil && len(positions) != nCol {
		return nil, errors.E(errors.Invalid, fmt.Sprintf("haplotype: %d positions for %d sites", len(positions), nCol))
	}
	m := &Matrix{
		nRow: len(rows),
		nCol: nCol,
		data: make([]byte, len(rows)*nCol),
	}
	for i, row := range rows {
		if len(row) != nCol {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("haplotype: row %d has %d sites, want %d", i, len(row), nCol))
		}
		for j, a := range row {
			if a > 1 {
				return nil, errors.E(errors.Invalid, fmt.Sprintf("haplotype: row %d site %d: allele %d", i, j, a))
			}
		}
		copy(m.data[i*nCol:], row)
	}
	if positions != nil {
		m.positions = append([]float64(nil), positions...)
	}
	return m, nil
}

// Parse builds a matrix from ms-style strings of '0' and '1' characters.
func Parse(rows ...string) (*Matrix, error) {
	b := make([][]byte, len(rows))
	for i, r := range rows {
		b[i] = make([]byte, len(r))
		for j := 0; j < len(r); j++ {
			switch r[j] {
			case '0':
			case '1':
				b[i][j] = 1
			default:
				return nil, errors.E(errors.Invalid, fmt.Sprintf("haplotype: row %d: invalid allele %q", i, r[j]))
			}
		}
	}
	return New(b, nil)
}

// MustParse is like Parse, but panics on error.
func MustParse(rows ...string) *Matrix {
	m, err := Parse(rows...)
	if err != nil {
		panic(err)
	}
	return m
}

// Size returns the number of individuals (rows).
func (m *Matrix) Size() int { return m.nRow }

// NumSites returns the number of sites (columns).
func (m *Matrix) NumSites() int { return m.nCol }

// Row returns the alleles of individual i.  The slice aliases the matrix and
// must not be modified.
func (m *Matrix) Row(i int) []byte {
	return m.data[i*m.nCol : (i+1)*m.nCol : (i+1)*m.nCol]
}

// At returns the allele of individual i at site j.
func (m *Matrix) At(i, j int) byte {
	return m.data[i*m.nCol+j]
}

// Positions returns the site positions, or nil if they are unknown.
func (m *Matrix) Positions() []float64 { return m.positions }

// DerivedCount returns the number of individuals carrying the derived allele
// at site j.
func (m *Matrix) DerivedCount(j int) int {
	c := 0
	for i := 0; i < m.nRow; i++ {
		c += int(m.data[i*m.nCol+j])
	}
	return c
}

// invariant reports whether every row holds the same allele at site j.
func (m *Matrix) invariant(j int) bool {
	c := m.DerivedCount(j)
	return c == 0 || c == m.nRow
}

// RemoveInvariantColumns drops, in place, every column in which all rows carry
// the same allele.  The remaining columns (and their positions) keep their
// relative order.
func (m *Matrix) RemoveInvariantColumns() {
	keep := make([]int, 0, m.nCol)
	for j := 0; j < m.nCol; j++ {
		if !m.invariant(j) {
			keep = append(keep, j)
		}
	}
	if len(keep) == m.nCol {
		return
	}
	// Compaction can run in place: the destination offset never passes the
	// source offset.
	newCol := len(keep)
	for i := 0; i < m.nRow; i++ {
		src := m.data[i*m.nCol:]
		dst := m.data[i*newCol:]
		for k, j := range keep {
			dst[k] = src[j]
		}
	}
	m.data = m.data[:m.nRow*newCol]
	if m.positions != nil {
		for k, j := range keep {
			m.positions[k] = m.positions[j]
		}
		m.positions = m.positions[:newCol]
	}
	m.nCol = newCol
}

// Clone returns a deep copy of m.
func (m *Matrix) Clone() *Matrix {
	c := &Matrix{
		nRow: m.nRow,
		nCol: m.nCol,
		data: append([]byte(nil), m.data...),
	}
	if m.positions != nil {
		c.positions = append([]float64(nil), m.positions...)
	}
	return c
}

// Equal reports whether m and o hold the same alleles in the same order.
// Positions are not compared.
func (m *Matrix) Equal(o *Matrix) bool {
	if m.nRow != o.nRow || m.nCol != o.nCol {
		return false
	}
	return string(m.data) == string(o.data)
}

// String returns the matrix as ms-style lines of '0' and '1'.
func (m *Matrix) String() string {
	var sb strings.Builder
	for i := 0; i < m.nRow; i++ {
		for _, a := range m.Row(i) {
			sb.WriteByte('0' + a)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
