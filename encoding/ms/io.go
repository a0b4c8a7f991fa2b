// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package ms

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/golang/snappy"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/klauspost/compress/gzip"
)

// StdioPath names the standard input (for Open) or output (for Create).
const StdioPath = "-"

type reader struct {
	io.Reader
	close func() error
}

func (r *reader) Close() error { return r.close() }

// Open opens an ms stream for reading.  The path may be StdioPath, a local
// file, or any path understood by grailbio/base/file (e.g. s3://...).  Files
// ending in ".gz" are gunzipped and files ending in ".sz" are read as snappy
// framed streams.
func Open(ctx context.Context, path string) (io.ReadCloser, error) {
	if path == StdioPath {
		return &reader{Reader: os.Stdin, close: func() error { return nil }}, nil
	}
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "open", path)
	}
	closeFile := func() error { return in.Close(ctx) }
	switch {
	case strings.HasSuffix(path, ".gz"):
		gz, err := gzip.NewReader(in.Reader(ctx))
		if err != nil {
			_ = closeFile()
			return nil, errors.E(err, "open", path)
		}
		return &reader{Reader: gz, close: closeAll(gz.Close, closeFile)}, nil
	case strings.HasSuffix(path, ".sz"):
		return &reader{Reader: snappy.NewReader(in.Reader(ctx)), close: closeFile}, nil
	}
	return &reader{Reader: in.Reader(ctx), close: closeFile}, nil
}

// closeAll returns a function that calls every closer in order, stacked
// readers and writers first, and returns the first error.
func closeAll(closers ...func() error) func() error {
	return func() error {
		var err error
		for _, c := range closers {
			if e := c(); e != nil && err == nil {
				err = e
			}
		}
		return err
	}
}

type writer struct {
	io.Writer
	close func() error
}

func (w *writer) Close() error { return w.close() }

// Create opens path for writing, compressing by suffix the same way Open
// decompresses.  Closing the writer flushes the compressor and commits the
// file.
func Create(ctx context.Context, path string) (io.WriteCloser, error) {
	if path == StdioPath {
		return &writer{Writer: os.Stdout, close: func() error { return nil }}, nil
	}
	out, err := file.Create(ctx, path)
	if err != nil {
		return nil, errors.E(err, "create", path)
	}
	closeFile := func() error { return out.Close(ctx) }
	w := out.Writer(ctx)
	switch {
	case strings.HasSuffix(path, ".gz"):
		gz := gzip.NewWriter(w)
		return &writer{Writer: gz, close: closeAll(gz.Close, closeFile)}, nil
	case strings.HasSuffix(path, ".sz"):
		sz := snappy.NewBufferedWriter(w)
		return &writer{Writer: sz, close: closeAll(sz.Close, closeFile)}, nil
	}
	return &writer{Writer: w, close: closeFile}, nil
}
