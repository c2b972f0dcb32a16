// Copyright ©2024 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package seeding implements the SMEM (super-maximal exact match) finder
// described in spec.md §4.2: for each query position it enumerates all
// left-maximal exact matches whose SA-interval size clears a minimum
// threshold, via bidirectional backward search over an fmindex.Index.
package seeding

import (
	"sort"

	"github.com/biogo/bwamem2/fmindex"
)

// SMEM is a super-maximal exact match: an SA interval together with the
// query span it matched, per spec.md §3.
type SMEM struct {
	Interval     fmindex.Interval
	QBegin, QEnd int
}

// Len returns the query length of the match.
func (s SMEM) Len() int { return s.QEnd - s.QBegin }

// candidate is a retained interval during the forward/backward sweep,
// tracking the query span it covers so far.
type candidate struct {
	iv           fmindex.Interval
	qBegin, qEnd int
}

// Finder enumerates SMEMs for reads against a fixed index.
type Finder struct {
	Index       *fmindex.Index
	MinSeedLen  int
	MinIntv     int64 // default 1
	MaxOcc      int
}

// NewFinder returns a Finder with MinIntv defaulted to 1 if unset.
func NewFinder(idx *fmindex.Index, minSeedLen int) *Finder {
	return &Finder{Index: idx, MinSeedLen: minSeedLen, MinIntv: 1}
}

// FindAll enumerates SMEMs for every start position in bases (2-bit
// encoded, 4 = ambiguous), following the forward/backward sweep in
// spec.md §4.2. The returned slice is sorted by query-begin ascending,
// length descending.
func (f *Finder) FindAll(bases []byte) []SMEM {
	var out []SMEM
	minIntv := f.MinIntv
	if minIntv < 1 {
		minIntv = 1
	}
	for start := 0; start < len(bases); {
		if bases[start] > 3 {
			start++
			continue
		}
		mems, next := f.smemAt(bases, start, minIntv)
		out = append(out, mems...)
		if next <= start {
			next = start + 1
		}
		start = next
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].QBegin != out[j].QBegin {
			return out[i].QBegin < out[j].QBegin
		}
		return out[i].Len() > out[j].Len()
	})
	return out
}

// smemAt runs the forward-then-backward sweep rooted at position x,
// returning the SMEMs found and the position at which the next forward
// sweep should begin.
func (f *Finder) smemAt(bases []byte, x int, minIntv int64) ([]SMEM, int) {
	iv := f.Index.InitInterval(bases[x])
	var stack []candidate
	if !iv.Empty() {
		stack = append(stack, candidate{iv: iv, qBegin: x, qEnd: x + 1})
	}

	next := x + 1
	cur := iv
	curBegin := x
	curEnd := x + 1
	lastPushedEnd := x + 1
	for i := x + 1; i < len(bases) && !cur.Empty(); i++ {
		c := bases[i]
		if c > 3 {
			next = i + 1
			break
		}
		ext := f.Index.ExtendForward(cur, c)
		if ext.S < minIntv {
			next = i
			break
		}
		if ext.S != cur.S {
			// The pre-extension interval [curBegin, i) is itself
			// locally-maximal (extending to i shrinks the SA interval),
			// so it must be retained for the backward phase too, per
			// spec.md §4.2's "append the previous interval".
			stack = append(stack, candidate{iv: cur, qBegin: curBegin, qEnd: i})
			lastPushedEnd = i
		}
		cur = ext
		curEnd = i + 1
		next = i + 1
	}

	// Push the final, longest successfully-extended interval when the
	// loop ends without a trailing shrink already covering it — end of
	// read, an ambiguous base, or the minIntv floor all leave `cur` as
	// the longest surviving match without it ever reaching the stack,
	// exactly the case canonical SMEM search (e.g. bwa-mem2's
	// bwt_smem1) handles with a final push after the forward loop.
	if !cur.Empty() && curEnd > lastPushedEnd {
		stack = append(stack, candidate{iv: cur, qBegin: curBegin, qEnd: curEnd})
	}

	// Backward phase: reverse so the longest match is tried first.
	for i, j := 0, len(stack)-1; i < j; i, j = i+1, j-1 {
		stack[i], stack[j] = stack[j], stack[i]
	}

	var mems []SMEM
	lastSize := int64(-1)
	var kept []candidate
	pos := curBegin
	for pos >= 0 {
		var survivors []candidate
		emitted := false
		for _, cand := range stack {
			if pos > 0 {
				c := bases[pos-1]
				if c <= 3 {
					ext := f.Index.ExtendBackward(cand.iv, c)
					if ext.S >= minIntv {
						if ext.S != lastSize {
							survivors = append(survivors, candidate{iv: ext, qBegin: pos - 1, qEnd: cand.qEnd})
						}
						continue
					}
				}
			}
			if !emitted && cand.qEnd-pos >= f.MinSeedLen {
				mems = append(mems, SMEM{Interval: cand.iv, QBegin: pos, QEnd: cand.qEnd})
				lastSize = cand.iv.S
				emitted = true
			}
		}
		stack = survivors
		kept = survivors
		if len(stack) == 0 {
			break
		}
		pos--
	}
	_ = kept

	return mems, next
}
