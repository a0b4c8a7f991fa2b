// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

/*
Package diversity computes the classic single-sample summaries of a binary
haplotype matrix: Watterson's and Tajima's theta, Hudson and Kaplan's Rm,
haplotype count and diversity, Wall's B and Q, and Hudson's C.

Only sites polymorphic within the sample are counted, so a matrix need not
have had its invariant columns removed.  Statistics that are undefined for the
sample (fewer than two individuals, fewer than two sites for Wall's
statistics, no pairwise differences for C) are NaN.
*/
package diversity
