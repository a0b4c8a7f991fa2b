// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package pipeline

import (
	"encoding/binary"
	"math/rand"

	"github.com/biogo/store/llrb"
	"github.com/minio/highwayhash"
)

// seqSummary is a Summary tagged with its position in the output.
type seqSummary struct {
	seq int
	Summary
}

// Compare implements llrb.Comparable.
func (s seqSummary) Compare(c llrb.Comparable) int {
	return s.seq - c.(seqSummary).seq
}

// reorderBuffer holds rows that finished out of order until all of their
// predecessors have been emitted.
type reorderBuffer struct {
	pending llrb.Tree
	next    int
}

// add stores s and calls emit, in order, for every row that is now ready.
func (b *reorderBuffer) add(s seqSummary, emit func(Summary) error) error {
	b.pending.Insert(s)
	for b.pending.Len() > 0 {
		min := b.pending.Min().(seqSummary)
		if min.seq != b.next {
			break
		}
		b.pending.DeleteMin()
		b.next++
		if err := emit(min.Summary); err != nil {
			return err
		}
	}
	return nil
}

// seedKey expands the run seed into a HighwayHash key.
func seedKey(seed int64) [highwayhash.Size]byte {
	var key [highwayhash.Size]byte
	for i := 0; i < len(key); i += 8 {
		binary.LittleEndian.PutUint64(key[i:], uint64(seed)+uint64(i))
	}
	return key
}

// roundRand returns the random generator of one (replicate, round).  It
// depends only on the key and the indices, not on scheduling.
func roundRand(key *[highwayhash.Size]byte, replicate, round int) *rand.Rand {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], uint64(replicate))
	binary.LittleEndian.PutUint64(buf[8:], uint64(round))
	return rand.New(rand.NewSource(int64(highwayhash.Sum64(buf[:], key[:]))))
}
