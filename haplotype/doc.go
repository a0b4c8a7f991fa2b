// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

/*
Package haplotype holds the in-memory representation of one simulated
replicate: a binary matrix of individuals by segregating sites.

Matrices are small (hundreds of individuals, at most a few thousand sites) and
are owned by exactly one goroutine at a time.  Resampling never shares storage
with its source, so every permutation round can mutate its own copy freely.
*/
package haplotype
