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

// Sequence describes one reference sequence in the concatenated genome,
// generalizing fai.Record (name/length/offset) with the extra fields
// spec.md §3's Annotations model requires: an ambiguous-base count and an
// ALT flag.
type Sequence struct {
	Offset      int64
	Length      int64
	Name        string
	Description string
	NAmbiguous  int
	IsAlt       bool
}

// Annotation is the ordered sequence table for a reference.
type Annotation struct {
	Seqs []Sequence
}

// ReadAnnotation parses a <prefix>.ann file: header line
// "l_pac n_seqs seed", then two lines per sequence ("gi name [anno]" and
// "offset length nAmb"), per spec.md §6.
func ReadAnnotation(r io.Reader) (*Annotation, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1<<20)

	if !sc.Scan() {
		return nil, fmt.Errorf("%w: empty .ann file", ErrIndexCorrupted)
	}
	hdr := strings.Fields(sc.Text())
	if len(hdr) < 2 {
		return nil, fmt.Errorf("%w: malformed .ann header", ErrIndexCorrupted)
	}
	nSeqs, err := strconv.Atoi(hdr[1])
	if err != nil || nSeqs < 0 {
		return nil, fmt.Errorf("%w: malformed .ann sequence count", ErrIndexCorrupted)
	}

	ann := &Annotation{Seqs: make([]Sequence, 0, nSeqs)}
	for i := 0; i < nSeqs; i++ {
		if !sc.Scan() {
			return nil, fmt.Errorf("%w: truncated .ann name line", ErrIndexCorrupted)
		}
		nameFields := strings.Fields(sc.Text())
		if len(nameFields) < 2 {
			return nil, fmt.Errorf("%w: malformed .ann name line", ErrIndexCorrupted)
		}
		seq := Sequence{Name: nameFields[1]}
		if len(nameFields) > 2 {
			seq.Description = strings.Join(nameFields[2:], " ")
		}

		if !sc.Scan() {
			return nil, fmt.Errorf("%w: truncated .ann offset line", ErrIndexCorrupted)
		}
		offFields := strings.Fields(sc.Text())
		if len(offFields) < 3 {
			return nil, fmt.Errorf("%w: malformed .ann offset line", ErrIndexCorrupted)
		}
		seq.Offset, err = strconv.ParseInt(offFields[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrIndexCorrupted, err)
		}
		seq.Length, err = strconv.ParseInt(offFields[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrIndexCorrupted, err)
		}
		seq.NAmbiguous, err = strconv.Atoi(offFields[2])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrIndexCorrupted, err)
		}
		ann.Seqs = append(ann.Seqs, seq)
	}
	return ann, sc.Err()
}

// Decode maps a position in concatenated reference space to a sequence ID
// and local (0-based) position within it, by binary search on offsets, per
// spec.md §3.
func (a *Annotation) Decode(pos int64) (seqID int, localPos int64, ok bool) {
	i := sort.Search(len(a.Seqs), func(i int) bool {
		return a.Seqs[i].Offset+a.Seqs[i].Length > pos
	})
	if i == len(a.Seqs) || pos < a.Seqs[i].Offset {
		return -1, 0, false
	}
	return i, pos - a.Seqs[i].Offset, true
}
