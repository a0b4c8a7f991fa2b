// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package haplotype

import (
	"fmt"
	"math/rand"

	"github.com/grailbio/base/errors"
)

// Sample draws k individuals from m without replacement.  The returned matrix
// holds the first k rows of a uniformly random permutation of m's rows and all
// of m's sites; m itself is not modified.
func Sample(m *Matrix, k int, rng *rand.Rand) (*Matrix, error) {
	if k < 1 || k > m.nRow {
		return nil, errors.E(errors.Invalid, fmt.Sprintf("haplotype: cannot sample %d of %d individuals", k, m.nRow))
	}
	perm := rng.Perm(m.nRow)
	s := &Matrix{
		nRow: k,
		nCol: m.nCol,
		data: make([]byte, k*m.nCol),
	}
	for i, src := range perm[:k] {
		copy(s.data[i*m.nCol:], m.Row(src))
	}
	if m.positions != nil {
		s.positions = append([]float64(nil), m.positions...)
	}
	return s, nil
}

// Subsample is Sample followed by RemoveInvariantColumns on the result, so
// only sites still segregating among the chosen individuals remain.
func Subsample(m *Matrix, k int, rng *rand.Rand) (*Matrix, error) {
	s, err := Sample(m, k, rng)
	if err != nil {
		return nil, err
	}
	s.RemoveInvariantColumns()
	return s, nil
}
