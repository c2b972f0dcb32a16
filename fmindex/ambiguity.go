// Copyright ©2024 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fmindex

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// AmbigRun is a stretch of ambiguous bases (spec.md §3: "offset, length,
// ambChar").
type AmbigRun struct {
	Offset int64
	Length int64
	Char   byte
}

// AmbiguityMap is the ordered table of ambiguity runs for a reference.
// Lookup and Overlaps report whether a position or span falls inside a
// run; the SMEM finder and the seed chainer do not consult them.
type AmbiguityMap struct {
	Runs []AmbigRun
}

// ReadAmbiguityMap parses a <prefix>.amb file: header line
// "l_pac n_seqs n_holes", then one line per hole: "offset length ambChar".
func ReadAmbiguityMap(r io.Reader) (*AmbiguityMap, error) {
	sc := bufio.NewScanner(r)
	if !sc.Scan() {
		return nil, fmt.Errorf("%w: empty .amb file", ErrIndexCorrupted)
	}
	hdr := strings.Fields(sc.Text())
	if len(hdr) < 3 {
		return nil, fmt.Errorf("%w: malformed .amb header", ErrIndexCorrupted)
	}
	nHoles, err := strconv.Atoi(hdr[2])
	if err != nil || nHoles < 0 {
		return nil, fmt.Errorf("%w: malformed .amb hole count", ErrIndexCorrupted)
	}

	m := &AmbiguityMap{Runs: make([]AmbigRun, 0, nHoles)}
	for i := 0; i < nHoles; i++ {
		if !sc.Scan() {
			return nil, fmt.Errorf("%w: truncated .amb holes", ErrIndexCorrupted)
		}
		f := strings.Fields(sc.Text())
		if len(f) < 3 {
			return nil, fmt.Errorf("%w: malformed .amb hole line", ErrIndexCorrupted)
		}
		off, err := strconv.ParseInt(f[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrIndexCorrupted, err)
		}
		ln, err := strconv.ParseInt(f[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrIndexCorrupted, err)
		}
		if len(f[2]) != 1 {
			return nil, fmt.Errorf("%w: malformed .amb ambiguity char", ErrIndexCorrupted)
		}
		m.Runs = append(m.Runs, AmbigRun{Offset: off, Length: ln, Char: f[2][0]})
	}
	return m, sc.Err()
}

// Lookup reports whether position pos in concatenated reference space
// falls inside an ambiguity run.
func (m *AmbiguityMap) Lookup(pos int64) (AmbigRun, bool) {
	i := sort.Search(len(m.Runs), func(i int) bool {
		return m.Runs[i].Offset+m.Runs[i].Length > pos
	})
	if i == len(m.Runs) || pos < m.Runs[i].Offset {
		return AmbigRun{}, false
	}
	return m.Runs[i], true
}

// Overlaps reports whether the half-open span [lo, hi) intersects any
// ambiguity run.
func (m *AmbiguityMap) Overlaps(lo, hi int64) bool {
	i := sort.Search(len(m.Runs), func(i int) bool {
		return m.Runs[i].Offset+m.Runs[i].Length > lo
	})
	return i < len(m.Runs) && m.Runs[i].Offset < hi
}
