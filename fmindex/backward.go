// Copyright ©2024 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fmindex

// Interval is a bidirectional FM-index interval: k is the forward SA
// interval start, l is the reverse-complement SA interval start, and s is
// the (shared) interval size, per spec.md §4.1.
type Interval struct {
	K, L, S int64
}

// Empty reports whether the interval contains no occurrences.
func (iv Interval) Empty() bool { return iv.S <= 0 }

// InitInterval returns the bidirectional interval for a single base c,
// i.e. the interval before any extension.
func (idx *Index) InitInterval(c byte) Interval {
	if c > 3 {
		return Interval{}
	}
	return Interval{
		K: idx.C[c],
		L: idx.C[3-c],
		S: idx.C[c+1] - idx.C[c],
	}
}

// ladderOrder is the fixed base order (T, G, C, A) spec.md §4.1 requires
// when computing the l ladder.
var ladderOrder = [4]byte{3, 2, 1, 0}

// ExtendBackward extends iv leftward by base c, per spec.md §4.1. Extending
// by N (c == 4) yields the empty interval.
func (idx *Index) ExtendBackward(iv Interval, c byte) Interval {
	if c > 3 || iv.Empty() {
		return Interval{}
	}

	var occLo, occHi [4]int64
	for b := byte(0); b < 4; b++ {
		occLo[b] = idx.occ(b, iv.K)
		occHi[b] = idx.occ(b, iv.K+iv.S)
	}

	adjust := int64(0)
	if idx.sentinelBetween(iv.K, iv.K+iv.S) {
		adjust = 1
	}

	newK := idx.C[c] + occLo[c]
	newS := occHi[c] - occLo[c]

	var l [4]int64
	prev := iv.L + adjust
	for i, b := range ladderOrder {
		if i == 0 {
			l[b] = prev
		} else {
			prevBase := ladderOrder[i-1]
			l[b] = l[prevBase] + occHi[prevBase] - occLo[prevBase]
		}
	}

	return Interval{K: newK, L: l[c], S: newS}
}

// ExtendForward extends iv rightward by base c. Forward extension is
// backward extension with k and l swapped and the base complemented, then
// swapped back, per spec.md §4.1.
func (idx *Index) ExtendForward(iv Interval, c byte) Interval {
	if c > 3 || iv.Empty() {
		return Interval{}
	}
	swapped := Interval{K: iv.L, L: iv.K, S: iv.S}
	out := idx.ExtendBackward(swapped, 3-c)
	return Interval{K: out.L, L: out.K, S: out.S}
}
