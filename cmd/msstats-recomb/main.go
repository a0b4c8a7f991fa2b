// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/file/s3file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/msstats/encoding/ms"
	"github.com/grailbio/msstats/pipeline"
)

const usage = "usage: msstats-recomb [-q sequences_in_subsample -p number_of_permutations -h] [input]\n"

type cmdFlags struct {
	opts pipeline.Opts
	out  string
	in   string
}

// parseFlags parses args (without the program name).  Usage and parse errors
// are reported on stderr.
func parseFlags(args []string, stderr io.Writer) (cmdFlags, error) {
	f := cmdFlags{opts: pipeline.DefaultOpts}
	fs := flag.NewFlagSet("msstats-recomb", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	fs.IntVar(&f.opts.SubsampleSize, "q", f.opts.SubsampleSize, "Number of sequences drawn in every permutation; 0 means the whole sample")
	fs.IntVar(&f.opts.Permutations, "p", f.opts.Permutations, "Number of permutations per replicate")
	fs.Int64Var(&f.opts.Seed, "seed", f.opts.Seed, "Random seed; 0 picks one from the clock")
	fs.IntVar(&f.opts.Parallelism, "parallelism", f.opts.Parallelism, "Number of permutations computed concurrently")
	fs.IntVar(&f.opts.MinCount, "mincount", f.opts.MinCount, "Minor-allele count below which a site pair is left out of ZnS")
	fs.StringVar(&f.out, "out", ms.StdioPath, "Output path; '.gz' and '.sz' suffixes compress")
	if err := fs.Parse(args); err != nil {
		return f, err
	}
	switch fs.NArg() {
	case 0:
		f.in = ms.StdioPath
	case 1:
		f.in = fs.Arg(0)
	default:
		err := errors.E(errors.Invalid, fmt.Sprintf("too many positional arguments: %v", fs.Args()))
		fmt.Fprintln(stderr, "error:", err)
		return f, err
	}
	if f.opts.SubsampleSize < 0 || f.opts.Permutations < 1 {
		err := errors.E(errors.Invalid, fmt.Sprintf("-q must be >= 0 and -p >= 1, got %d and %d", f.opts.SubsampleSize, f.opts.Permutations))
		fmt.Fprintln(stderr, "error:", err)
		return f, err
	}
	return f, nil
}

func run(ctx context.Context, f cmdFlags) (err error) {
	in, err := ms.Open(ctx, f.in)
	if err != nil {
		return err
	}
	defer func() {
		if e := in.Close(); e != nil && err == nil {
			err = e
		}
	}()
	sc, err := ms.NewScanner(in)
	if err != nil {
		return err
	}
	// Reject the configuration before creating the output, so that a bad -q
	// leaves nothing behind.
	if _, err = pipeline.Validate(sc.Header(), f.opts); err != nil {
		return err
	}
	out, err := ms.Create(ctx, f.out)
	if err != nil {
		return err
	}
	if err = pipeline.Run(ctx, sc, out, f.opts); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func main() {
	f, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		os.Exit(1)
	}
	file.RegisterImplementation("s3", func() file.Implementation {
		return s3file.NewImplementation(s3file.NewDefaultProvider(session.Options{}), s3file.Options{})
	})
	if err := run(vcontext.Background(), f); err != nil {
		log.Error.Printf("error: %v", err)
		os.Exit(1)
	}
	log.Debug.Printf("exiting")
}
