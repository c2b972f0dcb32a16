// Copyright ©2024 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package galign

import (
	"bytes"
	"fmt"

	"github.com/biogo/bwamem2/swkernel"
)

// GlobalConfig carries the scoring the banded global DP needs.
type GlobalConfig struct {
	Sc           swkernel.Scores
	MaxBandwidth int
}

// dpCell is one traceback cell: the chosen op and whether it came from the
// match, insertion or deletion lane.
type dpCell struct {
	score int32
	from  CigarOpType
}

// Align builds a CIGAR covering target[0:re-rb) against query[0:qe-qb)
// using banded global DP with traceback, doubling the band and retrying
// on bandwidth overflow, per spec.md §4.7.
func Align(target, query []byte, band int, cfg GlobalConfig, trueScore int32) (Cigar, int32, int) {
	cap_ := cfg.MaxBandwidth
	if cap_ <= 0 {
		cap_ = band * 8
	}
	var cigar Cigar
	var score int32
	var leadingRefConsumed int
	for {
		cigar, score, leadingRefConsumed = bandedGlobal(target, query, band, cfg.Sc)
		if score >= trueScore || band >= cap_ {
			break
		}
		band *= 2
	}
	return cigar, score, leadingRefConsumed
}

func bandedGlobal(target, query []byte, band int, sc swkernel.Scores) (Cigar, int32, int) {
	n, m := len(target), len(query)
	if n == 0 && m == 0 {
		return nil, 0, 0
	}

	rows := n + 1
	cols := m + 1
	grid := make([][]dpCell, rows)
	const negInf = int32(-1 << 28)
	for i := range grid {
		grid[i] = make([]dpCell, cols)
		for j := range grid[i] {
			grid[i][j] = dpCell{score: negInf}
		}
	}
	grid[0][0] = dpCell{score: 0}
	for j := 1; j <= m && j <= band; j++ {
		grid[0][j] = dpCell{score: grid[0][j-1].score - gapCost(sc, true, j == 1), from: OpInsertion}
	}
	for i := 1; i <= n && i <= band; i++ {
		grid[i][0] = dpCell{score: grid[i-1][0].score - gapCost(sc, false, i == 1), from: OpDeletion}
	}

	for i := 1; i <= n; i++ {
		lo := maxInt(1, i-band)
		hi := minInt(m, i+band)
		for j := lo; j <= hi; j++ {
			var sVal int32
			if target[i-1] > 3 || query[j-1] > 3 {
				sVal = -sc.Mismatch
			} else if target[i-1] == query[j-1] {
				sVal = sc.Match
			} else {
				sVal = -sc.Mismatch
			}
			diag := grid[i-1][j-1].score + sVal
			best := dpCell{score: diag, from: OpMatch}

			if j > lo || j == 1 {
				del := grid[i-1][j].score - gapCost(sc, false, grid[i-1][j].from != OpDeletion)
				if del > best.score {
					best = dpCell{score: del, from: OpDeletion}
				}
			}
			if j-1 >= 0 {
				ins := grid[i][j-1].score - gapCost(sc, true, grid[i][j-1].from != OpInsertion)
				if ins > best.score {
					best = dpCell{score: ins, from: OpInsertion}
				}
			}
			grid[i][j] = best
		}
	}

	cigar, leadingRefConsumed := traceback(grid, n, m)
	return cigar, grid[n][m].score, leadingRefConsumed
}

func gapCost(sc swkernel.Scores, insertion, isOpen bool) int32 {
	if insertion {
		if isOpen {
			return sc.GapOpenIns + sc.GapExtendIns
		}
		return sc.GapExtendIns
	}
	if isOpen {
		return sc.GapOpenDel + sc.GapExtendDel
	}
	return sc.GapExtendDel
}

func traceback(grid [][]dpCell, n, m int) (Cigar, int) {
	var rev Cigar
	i, j := n, m
	leadingRefConsumed := 0
	for i > 0 || j > 0 {
		if i == 0 {
			rev = rev.Append(OpInsertion, 1)
			j--
			continue
		}
		if j == 0 {
			rev = rev.Append(OpDeletion, 1)
			i--
			continue
		}
		switch grid[i][j].from {
		case OpMatch:
			rev = rev.Append(OpMatch, 1)
			i--
			j--
		case OpDeletion:
			rev = rev.Append(OpDeletion, 1)
			i--
		case OpInsertion:
			rev = rev.Append(OpInsertion, 1)
			j--
		}
	}
	rev.Reverse()
	// If the alignment opens with deletions (reference trimmed into the
	// clip), record how many reference bases were consumed so the caller
	// can correct the emitted position, per spec.md §4.7.
	for _, op := range rev {
		if op.Type() != OpDeletion {
			break
		}
		leadingRefConsumed += op.Len()
	}
	return rev, leadingRefConsumed
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// WithClips prepends/appends soft-clip operations for the unaligned read
// prefix/suffix, swapping clip ends on the reverse strand, per spec.md
// §4.7.
func WithClips(c Cigar, qb, qe, readLen int, reverse bool) Cigar {
	lead, trail := qb, readLen-qe
	if reverse {
		lead, trail = readLen-qe, qb
	}
	out := make(Cigar, 0, len(c)+2)
	if lead > 0 {
		out = out.Append(OpSoftClip, lead)
	}
	out = append(out, c...)
	if trail > 0 {
		out = out.Append(OpSoftClip, trail)
	}
	return out
}

// NM computes the edit distance: mismatches plus inserted plus deleted
// bases, given the aligned target/query slices and the cigar covering
// them (spec.md §4.7).
func NM(target, query []byte, c Cigar) int {
	nm := 0
	ti, qi := 0, 0
	for _, op := range c {
		switch op.Type() {
		case OpMatch:
			for k := 0; k < op.Len(); k++ {
				if target[ti+k] != query[qi+k] || target[ti+k] > 3 {
					nm++
				}
			}
			ti += op.Len()
			qi += op.Len()
		case OpInsertion:
			nm += op.Len()
			qi += op.Len()
		case OpDeletion:
			nm += op.Len()
			ti += op.Len()
		}
	}
	return nm
}

var baseLetters = [...]byte{'A', 'C', 'G', 'T', 'N'}

// MD walks the aligned portion and produces the MD tag string, per
// spec.md §4.7.
func MD(target, query []byte, c Cigar) string {
	var buf bytes.Buffer
	ti, qi := 0, 0
	run := 0
	for _, op := range c {
		switch op.Type() {
		case OpMatch:
			for k := 0; k < op.Len(); k++ {
				tb, qb := target[ti+k], query[qi+k]
				if tb < 5 && qb < 5 && tb == qb {
					run++
				} else {
					fmt.Fprintf(&buf, "%d", run)
					run = 0
					idx := tb
					if idx > 4 {
						idx = 4
					}
					buf.WriteByte(baseLetters[idx])
				}
			}
			ti += op.Len()
			qi += op.Len()
		case OpInsertion:
			qi += op.Len()
		case OpDeletion:
			fmt.Fprintf(&buf, "%d", run)
			run = 0
			buf.WriteByte('^')
			for k := 0; k < op.Len(); k++ {
				idx := target[ti+k]
				if idx > 4 {
					idx = 4
				}
				buf.WriteByte(baseLetters[idx])
			}
			ti += op.Len()
		}
	}
	fmt.Fprintf(&buf, "%d", run)
	return buf.String()
}
