// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package ms_test

import (
	"io"
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/msstats/encoding/ms"
	"github.com/grailbio/testutil"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

const twoReplicates = `ms 3 2 -t 1
1 2 3

//
segsites: 2
positions: 0.25 0.75
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

func TestCompressedRoundTrip(t *testing.T) {
	ctx := vcontext.Background()
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()

	for _, name := range []string{"plain.ms", "gzipped.ms.gz", "snappy.ms.sz"} {
		path := filepath.Join(tempDir, name)
		w, err := ms.Create(ctx, path)
		assert.NoError(t, err)
		_, err = io.WriteString(w, twoReplicates)
		assert.NoError(t, err)
		assert.NoError(t, w.Close())

		r, err := ms.Open(ctx, path)
		assert.NoError(t, err)
		sc, err := ms.NewScanner(r)
		assert.NoError(t, err)
		expect.EQ(t, sc.Header().NSam, 3)
		expect.EQ(t, sc.Header().Replicates, 2)
		var n int
		for sc.Scan() {
			n++
		}
		expect.NoError(t, sc.Err())
		expect.EQ(t, n, 2, name)
		assert.NoError(t, r.Close())
	}

	// Compressed files must not be readable as plain text.
	raw, err := ioutil.ReadFile(filepath.Join(tempDir, "gzipped.ms.gz"))
	assert.NoError(t, err)
	expect.False(t, string(raw) == twoReplicates)
}

func TestOpenMissing(t *testing.T) {
	ctx := vcontext.Background()
	tempDir, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()
	_, err := ms.Open(ctx, filepath.Join(tempDir, "missing.ms"))
	expect.NotNil(t, err)
}
