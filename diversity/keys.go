// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package diversity

import (
	"blainsmith.com/go/seahash"
	farm "github.com/dgryski/go-farm"
	gunsafe "github.com/grailbio/base/unsafe"
	"github.com/grailbio/msstats/haplotype"
)

// keySet is a set of byte strings bucketed by a 64-bit hash.  Keys within a
// bucket are compared exactly, so hash collisions never merge distinct keys.
// Each key is numbered in order of first insertion.
type keySet struct {
	hash    func([]byte) uint64
	buckets map[uint64][]keyEntry
	n       int
}

type keyEntry struct {
	key   string
	index int
}

func newKeySet(hash func([]byte) uint64) *keySet {
	return &keySet{hash: hash, buckets: map[uint64][]keyEntry{}}
}

// add inserts a copy of key unless it is already present.  It returns the
// key's index and whether it was new.
func (s *keySet) add(key []byte) (index int, added bool) {
	h := s.hash(key)
	bucket := s.buckets[h]
	for _, e := range bucket {
		if e.key == gunsafe.BytesToString(key) {
			return e.index, false
		}
	}
	s.buckets[h] = append(bucket, keyEntry{key: string(key), index: s.n})
	s.n++
	return s.n - 1, true
}

func (s *keySet) len() int { return s.n }

func haplotypeHash(row []byte) uint64 { return farm.Hash64(row) }

func partitionHash(col []byte) uint64 { return seahash.Sum64(col) }

// haplotypeCounts returns the multiplicity of each distinct row of m, in
// order of first appearance.
func haplotypeCounts(m *haplotype.Matrix) []int {
	rows := newKeySet(haplotypeHash)
	var counts []int
	for i := 0; i < m.Size(); i++ {
		index, added := rows.add(m.Row(i))
		if added {
			counts = append(counts, 0)
		}
		counts[index]++
	}
	return counts
}
