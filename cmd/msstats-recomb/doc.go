// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

/*
msstats-recomb reads ms simulator output and reports, for every replicate,
diversity and recombination summary statistics: S, the minimum pairwise
distance, Watterson's and Tajima's theta, Hudson and Kaplan's Rm, the Myers
and Griffiths haplotype bound, haplotype count and diversity, Wall's B and Q,
Hudson's C and Kelly's ZnS.

With -q, each replicate is subsampled to the given number of sequences before
the statistics are computed, and sites no longer segregating in the subsample
are dropped.  With -p, this is repeated for the given number of independent
permutations, one output row each.

Sample usage:

  ms 50 1000 -t 10 -r 20 5000 | msstats-recomb -q 20 -p 10 > stats.tsv
  msstats-recomb -q 20 -seed 7 -parallelism 8 -out stats.tsv.gz sims.ms.gz
*/
package main
