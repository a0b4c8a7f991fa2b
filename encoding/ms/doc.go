// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

/*
Package ms reads the text output of Hudson's ms coalescent simulator (and of
the many simulators that emulate it: msHOT, mspms, scrm, ...).

A stream starts with the simulator command line, which names the per-replicate
sample size and the replicate count, followed by a random-seed line.  Each
replicate block starts with "//":

  //
  segsites: 3
  positions: 0.1012 0.3500 0.9001
  010
  110
  000
  001

With "segsites: 0" the positions line and the haplotype lines are omitted.
*/
package ms
