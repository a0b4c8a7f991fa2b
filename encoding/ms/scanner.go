// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package ms

import (
	"bufio"
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/msstats/haplotype"
	"github.com/pkg/errors"
)

var (
	// ErrInvalid is returned when a malformed ms stream is encountered.
	ErrInvalid = errors.New("invalid ms output")
	// ErrShort is returned when a replicate block is truncated.
	ErrShort = errors.New("truncated ms replicate")
)

const (
	// Haplotype lines hold one character per segregating site, so they can be
	// much longer than bufio.Scanner's default limit.
	initialLineBuf = 64 << 10
	maxLineLen     = 256 << 20
)

// Header describes the first lines of an ms stream.
type Header struct {
	// Command is the simulator command line, e.g. "ms 20 1000 -t 5 -r 10 1000".
	Command string
	// NSam is the number of sampled chromosomes in every replicate.
	NSam int
	// Replicates is the number of replicates the simulator was asked for.
	Replicates int
	// Seeds is the random-seed line, if the stream carried one.
	Seeds string
}

// Scanner reads replicates from an ms stream.  The Scan method parses the next
// replicate block, returning a boolean indicating whether the scan succeeded.
// Scanners are not threadsafe.
//
// Lines emitted by ms options that do not affect the haplotypes (-T trees,
// -L times, prob: lines) are skipped.
type Scanner struct {
	b       *bufio.Scanner
	header  Header
	line    int
	pending []byte // a line read ahead of the current block, if any
	rep     *haplotype.Matrix
	nRep    int
	err     error
}

var errEOF = errors.New("eof")

// NewScanner constructs a Scanner and parses the stream header.
func NewScanner(r io.Reader) (*Scanner, error) {
	s := &Scanner{b: bufio.NewScanner(r)}
	s.b.Buffer(make([]byte, initialLineBuf), maxLineLen)
	if err := s.parseHeader(); err != nil {
		return nil, err
	}
	return s, nil
}

// ParseHeader reads just the header of an ms stream.
func ParseHeader(r io.Reader) (Header, error) {
	s, err := NewScanner(r)
	if err != nil {
		return Header{}, err
	}
	return s.header, nil
}

// Header returns the stream header.
func (s *Scanner) Header() Header { return s.header }

func (s *Scanner) next() ([]byte, bool) {
	if s.pending != nil {
		l := s.pending
		s.pending = nil
		return l, true
	}
	if !s.b.Scan() {
		return nil, false
	}
	s.line++
	return bytes.TrimRight(s.b.Bytes(), " \t\r"), true
}

func (s *Scanner) invalidf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalid, "line %d: "+format, append([]interface{}{s.line}, args...)...)
}

func (s *Scanner) parseHeader() error {
	var cmd []byte
	for {
		l, ok := s.next()
		if !ok {
			if err := s.b.Err(); err != nil {
				return errors.Wrap(err, "reading ms header")
			}
			return errors.Wrap(ErrInvalid, "empty ms stream")
		}
		if len(l) > 0 {
			cmd = l
			break
		}
	}
	fields := strings.Fields(string(cmd))
	if len(fields) < 3 {
		return s.invalidf("header %q: want '<program> <nsam> <howmany> ...'", cmd)
	}
	nsam, err := strconv.Atoi(fields[1])
	if err != nil || nsam < 1 {
		return s.invalidf("header %q: bad sample size %q", cmd, fields[1])
	}
	howmany, err := strconv.Atoi(fields[2])
	if err != nil || howmany < 0 {
		return s.invalidf("header %q: bad replicate count %q", cmd, fields[2])
	}
	s.header = Header{
		Command:    string(cmd),
		NSam:       nsam,
		Replicates: howmany,
	}
	// The seed line follows the command line unless the stream goes straight
	// to the first block.
	if l, ok := s.next(); ok {
		if isBlockStart(l) {
			s.pending = append([]byte(nil), l...)
		} else {
			s.header.Seeds = string(l)
		}
	}
	return nil
}

func isBlockStart(l []byte) bool {
	return bytes.HasPrefix(l, []byte("//"))
}

// Scan parses the next replicate.  Once Scan returns false, it never returns
// true again.  Upon completion, the user should check the Err method to
// determine whether scanning stopped because of an error or because the end of
// the stream was reached.
func (s *Scanner) Scan() bool {
	if s.err != nil {
		return false
	}
	// Only blank lines may separate replicates.  Anything else is a block
	// that lost its "//" or carries extra haplotypes.
	for {
		l, ok := s.next()
		if !ok {
			if s.err = s.b.Err(); s.err == nil {
				s.err = errEOF
			}
			return false
		}
		if isBlockStart(l) {
			break
		}
		if len(l) > 0 {
			s.err = errors.WithMessagef(s.invalidf("unexpected line %q between replicates", l), "after replicate %d", s.nRep)
			return false
		}
	}
	s.nRep++
	rep, err := s.parseBlock()
	if err != nil {
		s.err = errors.WithMessagef(err, "replicate %d", s.nRep)
		return false
	}
	s.rep = rep
	return true
}

// Replicate returns the matrix parsed by the last successful Scan.  The
// matrix is owned by the caller.
func (s *Scanner) Replicate() *haplotype.Matrix { return s.rep }

// Err returns the scanning error, if any.
func (s *Scanner) Err() error {
	if s.err == errEOF {
		return nil
	}
	return s.err
}

// skippable reports whether l is a per-replicate annotation that precedes
// "segsites:".
func skippable(l []byte) bool {
	return len(l) == 0 ||
		l[0] == '(' || l[0] == '[' ||
		bytes.HasPrefix(l, []byte("time:")) ||
		bytes.HasPrefix(l, []byte("prob:"))
}

func (s *Scanner) mustNext() ([]byte, error) {
	l, ok := s.next()
	if !ok {
		if err := s.b.Err(); err != nil {
			return nil, err
		}
		return nil, errors.Wrapf(ErrShort, "line %d: unexpected end of stream", s.line)
	}
	return l, nil
}

func (s *Scanner) parseBlock() (*haplotype.Matrix, error) {
	var l []byte
	for {
		var err error
		if l, err = s.mustNext(); err != nil {
			return nil, err
		}
		if !skippable(l) {
			break
		}
	}
	const segsitesPrefix = "segsites:"
	if !bytes.HasPrefix(l, []byte(segsitesPrefix)) {
		return nil, s.invalidf("want %q, got %q", segsitesPrefix, l)
	}
	nSites, err := strconv.Atoi(strings.TrimSpace(string(l[len(segsitesPrefix):])))
	if err != nil || nSites < 0 {
		return nil, s.invalidf("bad segregating-site count %q", l)
	}
	nsam := s.header.NSam
	rows := make([][]byte, nsam)
	if nSites == 0 {
		for i := range rows {
			rows[i] = []byte{}
		}
		return haplotype.New(rows, nil)
	}

	for {
		if l, err = s.mustNext(); err != nil {
			return nil, err
		}
		if len(l) > 0 {
			break
		}
	}
	const positionsPrefix = "positions:"
	if !bytes.HasPrefix(l, []byte(positionsPrefix)) {
		return nil, s.invalidf("want %q, got %q", positionsPrefix, l)
	}
	posFields := strings.Fields(string(l[len(positionsPrefix):]))
	if len(posFields) != nSites {
		return nil, s.invalidf("%d positions for %d segregating sites", len(posFields), nSites)
	}
	positions := make([]float64, nSites)
	for i, f := range posFields {
		if positions[i], err = strconv.ParseFloat(f, 64); err != nil {
			return nil, s.invalidf("bad position %q", f)
		}
	}

	buf := make([]byte, nsam*nSites)
	for i := range rows {
		var ok bool
		if l, ok = s.next(); !ok {
			if err := s.b.Err(); err != nil {
				return nil, err
			}
			return nil, errors.Wrapf(ErrShort, "line %d: %d of %d haplotypes", s.line, i, nsam)
		}
		if isBlockStart(l) {
			s.pending = append([]byte(nil), l...)
			return nil, errors.Wrapf(ErrShort, "line %d: %d of %d haplotypes", s.line, i, nsam)
		}
		if len(l) != nSites {
			return nil, s.invalidf("haplotype %d has %d sites, want %d", i, len(l), nSites)
		}
		row := buf[i*nSites : (i+1)*nSites]
		for j, c := range l {
			switch c {
			case '0':
				row[j] = 0
			case '1':
				row[j] = 1
			default:
				return nil, s.invalidf("haplotype %d: invalid allele %q", i, c)
			}
		}
		rows[i] = row
	}
	return haplotype.New(rows, positions)
}
