// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package pipeline

import (
	"github.com/grailbio/msstats/diversity"
	"github.com/grailbio/msstats/haplotype"
)

// Diversity is the set of single-sample summaries reported for every round.
// It is implemented by *diversity.Stats.
type Diversity interface {
	SegregatingSites() int
	ThetaW() float64
	ThetaPi() float64
	MinRec() (int, bool)
	NumHaplotypes() int
	HaplotypeDiversity() float64
	WallsB() float64
	WallsQ() float64
	HudsonsC() float64
}

// DiversityFunc computes the Diversity of a subsample.
type DiversityFunc func(m *haplotype.Matrix) Diversity

// Opts controls Run.
type Opts struct {
	// SubsampleSize is the number of individuals drawn in every round.  0
	// means the full sample size declared by the input header.
	SubsampleSize int
	// Permutations is the number of rounds per replicate.
	Permutations int
	// MinCount is the minor-allele-count filter applied to ZnS site pairs.
	MinCount int
	// Parallelism is the number of rounds computed concurrently.  Output order
	// does not depend on it.
	Parallelism int
	// Seed seeds the per-round random generators.  0 picks a seed from the
	// clock.
	Seed int64
	// Diversity computes the diversity summaries.  nil means diversity.New.
	Diversity DiversityFunc
}

// DefaultOpts sets the default values of Opts.
var DefaultOpts = Opts{
	SubsampleSize: 0,
	Permutations:  1,
	MinCount:      1,
	Parallelism:   1,
}

func defaultDiversity(m *haplotype.Matrix) Diversity { return diversity.New(m) }
