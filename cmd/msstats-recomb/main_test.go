// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"flag"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

const input = `ms 3 2 -t 1.0
1 2 3

//
segsites: 2
positions: 0.1 0.9
00
01
10

//
segsites: 1
positions: 0.5
1
0
0
`

func TestFlags(t *testing.T) {
	var stderr bytes.Buffer
	f, err := parseFlags([]string{"-q", "2", "-p", "3", "in.ms"}, &stderr)
	assert.NoError(t, err)
	expect.EQ(t, f.opts.SubsampleSize, 2)
	expect.EQ(t, f.opts.Permutations, 3)
	expect.EQ(t, f.in, "in.ms")
	expect.EQ(t, f.out, "-")

	f, err = parseFlags(nil, &stderr)
	assert.NoError(t, err)
	expect.EQ(t, f.opts.SubsampleSize, 0)
	expect.EQ(t, f.opts.Permutations, 1)
	expect.EQ(t, f.in, "-")
}

func TestBadFlags(t *testing.T) {
	for _, args := range [][]string{
		{"-q"},
		{"-x"},
		{"-p", "0"},
		{"-q", "-1"},
		{"a", "b"},
	} {
		var stderr bytes.Buffer
		_, err := parseFlags(args, &stderr)
		expect.True(t, err != nil, "%v", args)
		expect.True(t, stderr.Len() > 0, "%v", args)
	}
}

func TestHelp(t *testing.T) {
	var stderr bytes.Buffer
	_, err := parseFlags([]string{"-h"}, &stderr)
	expect.EQ(t, err, flag.ErrHelp)
	expect.True(t, strings.HasPrefix(stderr.String(), "usage: msstats-recomb"))
}

func TestRun(t *testing.T) {
	dir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	in := filepath.Join(dir, "in.ms")
	assert.NoError(t, ioutil.WriteFile(in, []byte(input), 0600))

	var stderr bytes.Buffer
	f, err := parseFlags([]string{"-out", filepath.Join(dir, "out.tsv"), in}, &stderr)
	assert.NoError(t, err)
	assert.NoError(t, run(vcontext.Background(), f))
	data, err := ioutil.ReadFile(f.out)
	assert.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	expect.EQ(t, len(lines), 3)
	expect.EQ(t, lines[0], "S\tmin_d\tthetaW\tThetaPi\tRmin\trmmg\tnhaps\thapdiv\twallsb\twallsq\thudsonsc\tzns")
	expect.True(t, strings.HasPrefix(lines[1], "2\t1\t"), lines[1])
	expect.True(t, strings.HasPrefix(lines[2], "1\t"), lines[2])
}

func TestRunRejectsLargeSubsample(t *testing.T) {
	dir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	in := filepath.Join(dir, "in.ms")
	assert.NoError(t, ioutil.WriteFile(in, []byte(input), 0600))

	var stderr bytes.Buffer
	f, err := parseFlags([]string{"-q", "4", "-out", filepath.Join(dir, "out.tsv"), in}, &stderr)
	assert.NoError(t, err)
	err = run(vcontext.Background(), f)
	expect.True(t, errors.Is(errors.Invalid, err))
	// Nothing is written for a configuration error.
	_, err = ioutil.ReadFile(f.out)
	expect.True(t, err != nil)
}
