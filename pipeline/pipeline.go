// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/msstats/encoding/ms"
	"github.com/grailbio/msstats/haplotype"
	pkgerrors "github.com/pkg/errors"
)

// Source yields replicates.  It is implemented by *ms.Scanner.
type Source interface {
	Header() ms.Header
	Scan() bool
	Replicate() *haplotype.Matrix
	Err() error
}

type job struct {
	seq       int
	replicate int
	round     int
	m         *haplotype.Matrix
}

// Validate checks opts against the stream header and fills in defaults.
func Validate(h ms.Header, opts Opts) (Opts, error) {
	if opts.SubsampleSize < 0 {
		return opts, errors.E(errors.Invalid, fmt.Sprintf("subsample size %d is negative", opts.SubsampleSize))
	}
	if opts.SubsampleSize == 0 {
		opts.SubsampleSize = h.NSam
	}
	if opts.SubsampleSize > h.NSam {
		return opts, errors.E(errors.Invalid, fmt.Sprintf(
			"requested subsample size %d greater than number of simulated sequences %d", opts.SubsampleSize, h.NSam))
	}
	if opts.Permutations < 1 {
		return opts, errors.E(errors.Invalid, fmt.Sprintf("permutation count %d must be positive", opts.Permutations))
	}
	if opts.MinCount < 1 {
		opts.MinCount = 1
	}
	if opts.Parallelism < 1 {
		opts.Parallelism = 1
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	if opts.Diversity == nil {
		opts.Diversity = defaultDiversity
	}
	return opts, nil
}

// readError classifies an error from the replicate source.  Malformed input
// is errors.Invalid; anything else (I/O, decompression) keeps its own kind.
func readError(err error) error {
	switch pkgerrors.Cause(err) {
	case ms.ErrInvalid, ms.ErrShort:
		return errors.E(errors.Invalid, err)
	}
	return errors.E(err)
}

// Run reads every replicate from src and writes one TSV row per permutation
// round to out, preceded by a header line.  Options are validated before
// anything is written.  Rows appear in replicate order, then round order,
// whatever opts.Parallelism is.
func Run(ctx context.Context, src Source, out io.Writer, opts Opts) error {
	h := src.Header()
	opts, err := Validate(h, opts)
	if err != nil {
		return err
	}
	log.Debug.Printf("pipeline: %q, %d replicates of %d, subsample %d, %d permutations, seed %d",
		h.Command, h.Replicates, h.NSam, opts.SubsampleSize, opts.Permutations, opts.Seed)

	w := tsv.NewWriter(out)
	if err := writeHeader(w); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	var (
		once    errors.Once
		jobs    = make(chan job, 2*opts.Parallelism)
		results = make(chan seqSummary, 2*opts.Parallelism)
		key     = seedKey(opts.Seed)
		nRep    int
		// readErr is set before jobs is closed.  Jobs already queued are still
		// completed so that every replicate read in full is reported.
		readErr error
	)
	setErr := func(err error) {
		once.Set(err)
		cancel()
	}

	go func() {
		defer close(jobs)
		seq := 0
		for src.Scan() {
			m := src.Replicate()
			log.Debug.Printf("pipeline: replicate %d: %d sites", nRep, m.NumSites())
			for round := 0; round < opts.Permutations; round++ {
				select {
				case jobs <- job{seq: seq, replicate: nRep, round: round, m: m}:
				case <-ctx.Done():
					return
				}
				seq++
			}
			nRep++
		}
		readErr = src.Err()
	}()

	go func() {
		defer close(results)
		err := traverse.Each(opts.Parallelism, func(int) error {
			for j := range jobs {
				if ctx.Err() != nil {
					continue
				}
				rng := roundRand(&key, j.replicate, j.round)
				sub, err := haplotype.Subsample(j.m, opts.SubsampleSize, rng)
				if err != nil {
					err = errors.E(err, fmt.Sprintf("replicate %d round %d", j.replicate, j.round))
					setErr(err)
					return err
				}
				s := Summarize(sub, opts.Diversity, opts.MinCount)
				s.Replicate, s.Round = j.replicate, j.round
				results <- seqSummary{seq: j.seq, Summary: s}
			}
			return nil
		})
		if err != nil {
			setErr(err)
		}
	}()

	var buf reorderBuffer
	emit := func(s Summary) error { return writeSummary(w, s) }
	for r := range results {
		if once.Err() != nil {
			continue
		}
		if err := buf.add(r, emit); err != nil {
			setErr(err)
		}
	}
	if err := once.Err(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if readErr != nil {
		return readError(readErr)
	}
	log.Printf("pipeline: wrote %d rows for %d replicates", buf.next, nRep)
	if h.Replicates != nRep {
		log.Error.Printf("pipeline: header announced %d replicates, read %d", h.Replicates, nRep)
	}
	return nil
}
