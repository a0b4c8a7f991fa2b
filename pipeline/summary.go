// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package pipeline

import (
	"math"
	"strconv"

	"github.com/grailbio/base/tsv"
	"github.com/grailbio/msstats/haplotype"
	"github.com/grailbio/msstats/ld"
	"github.com/grailbio/msstats/recomb"
)

// Columns lists the output header, in order.
var Columns = []string{
	"S", "min_d", "thetaW", "ThetaPi", "Rmin", "rmmg",
	"nhaps", "hapdiv", "wallsb", "wallsq", "hudsonsc", "zns",
}

// Summary is one output row: the statistics of one permutation round of one
// replicate.  Fields with an OK companion are undefined when it is false.
type Summary struct {
	// Replicate and Round are 0-based.
	Replicate, Round int

	S        int
	MinD     int
	MinDOK   bool
	ThetaW   float64
	ThetaPi  float64
	Rmin     int
	RminOK   bool
	RmMG     int
	NHaps    int
	HapDiv   float64
	WallsB   float64
	WallsQ   float64
	HudsonsC float64
	ZnS      float64
	ZnSOK    bool
}

// Summarize computes the statistics of subsample m.  m must already have had
// its invariant columns removed.
func Summarize(m *haplotype.Matrix, div DiversityFunc, minCount int) Summary {
	d := div(m)
	s := Summary{
		S:        d.SegregatingSites(),
		ThetaW:   d.ThetaW(),
		ThetaPi:  d.ThetaPi(),
		NHaps:    d.NumHaplotypes(),
		HapDiv:   d.HaplotypeDiversity(),
		WallsB:   d.WallsB(),
		WallsQ:   d.WallsQ(),
		HudsonsC: d.HudsonsC(),
	}
	s.MinD, s.MinDOK = recomb.MinPairwiseDistance(m)
	s.Rmin, s.RminOK = d.MinRec()
	s.RmMG = recomb.MyersGriffiths(m, s.S, s.NHaps)
	s.ZnS, s.ZnSOK = ld.ZnS(m, minCount)
	return s
}

// formatFloat renders v the way a C++ ostream does by default: six
// significant digits, "nan" and "inf" for non-finite values.
func formatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	return strconv.FormatFloat(v, 'g', 6, 64)
}

func writeHeader(w *tsv.Writer) error {
	for _, c := range Columns {
		w.WriteString(c)
	}
	return w.EndLine()
}

func writeSummary(w *tsv.Writer, s Summary) error {
	w.WriteInt64(int64(s.S))
	if s.MinDOK {
		w.WriteInt64(int64(s.MinD))
	} else {
		w.WriteString("nan")
	}
	w.WriteString(formatFloat(s.ThetaW))
	w.WriteString(formatFloat(s.ThetaPi))
	if s.RminOK {
		w.WriteInt64(int64(s.Rmin))
	} else {
		w.WriteString("NAN")
	}
	w.WriteInt64(int64(s.RmMG))
	w.WriteInt64(int64(s.NHaps))
	w.WriteString(formatFloat(s.HapDiv))
	w.WriteString(formatFloat(s.WallsB))
	w.WriteString(formatFloat(s.WallsQ))
	w.WriteString(formatFloat(s.HudsonsC))
	if s.ZnSOK {
		w.WriteString(formatFloat(s.ZnS))
	} else {
		w.WriteString("nan")
	}
	return w.EndLine()
}
