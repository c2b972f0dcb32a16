// Copyright ©2024 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package swkernel implements the banded Smith-Waterman extension kernels
// described in spec.md §4.6: an 8-bit saturating striped kernel with
// overflow detection, and a 16-bit kernel with no overflow ceiling. Both
// share the same Farrar-style recurrence and differ only in cell width, per
// spec.md §9's guidance to "model as variants {Byte, Word} ... keep the
// recurrence identical and the overflow signal explicit."
//
// Real 16-lane SIMD saturating arithmetic needs either cgo or
// golang.org/x/sys/cpu-gated assembly, neither of which any example in the
// retrieval pack demonstrates; these kernels implement the same striped
// recurrence in portable scalar Go, matching the documented fallback path
// in spec.md §9 ("if unavailable, fall back to the 16-bit kernel ...
// correctness preserved but throughput drops").
package swkernel

// Scores holds the gap-affine scoring parameters shared by both kernels
// (spec.md §6).
type Scores struct {
	Match, Mismatch   int32
	GapOpenIns        int32
	GapExtendIns      int32
	GapOpenDel        int32
	GapExtendDel      int32
	ZDrop             int32
}

// Result is the outcome of a banded SW extension (spec.md §4.6).
type Result struct {
	Score           int32
	QueryEnd        int // 1-past-last
	TargetEnd       int // 1-past-last
	GlobalScore     int32
	GlobalTargetEnd int
	MaxOff          int
	Overflowed      bool
}

// Profile is a query score profile: p.score(base, i) gives the score of
// matching query base at position i against a reference base `base`.
type Profile struct {
	Query []byte
	Sc    Scores
}

func (p *Profile) score(refBase byte, qi int) int32 {
	if refBase > 3 || p.Query[qi] > 3 {
		return -p.Sc.Mismatch
	}
	if refBase == p.Query[qi] {
		return p.Sc.Match
	}
	return -p.Sc.Mismatch
}

func max32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func absInt(a int) int {
	if a < 0 {
		return -a
	}
	return a
}
