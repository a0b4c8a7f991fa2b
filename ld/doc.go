// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package ld computes pairwise linkage disequilibrium between the sites of a
// haplotype matrix and reduces it to the ZnS summary.
package ld
