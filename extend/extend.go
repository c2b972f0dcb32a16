// Copyright ©2024 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package extend implements the extension aligner described in spec.md
// §4.5: for each surviving chain, every uncovered seed is extended left
// and right with banded Smith-Waterman to assemble a candidate region.
package extend

import (
	"github.com/biogo/bwamem2/chaining"
	"github.com/biogo/bwamem2/fmindex"
	"github.com/biogo/bwamem2/galign"
	"github.com/biogo/bwamem2/swkernel"
)

// Config carries the scoring and band parameters the extension aligner
// needs (spec.md §6).
type Config struct {
	Sc         swkernel.Scores
	Bandwidth  int
	PenClip5   int32
	PenClip3   int32
	MinSeedLen int
}

// span is a half-open query interval already covered by a produced
// region, used to skip redundant seed extension (spec.md §4.5).
type span struct{ lo, hi int }

func covers(spans []span, lo, hi int) (int, bool) {
	for i, s := range spans {
		if lo >= s.lo && hi <= s.hi {
			return i, true
		}
	}
	return -1, false
}

// Extend runs the extension aligner over chain against a 2-bit-encoded
// read, using idx to fetch reference bases for the DP target, per
// spec.md §4.5.
func Extend(idx *fmindex.Index, read []byte, chain chaining.Chain, cfg Config, reverse bool) []galign.AlnReg {
	var regions []galign.AlnReg
	var covered []span

	for _, seed := range chain.Seeds {
		if ci, ok := covers(covered, seed.QueryBegin, seed.QueryEnd()); ok {
			r := &regions[ci]
			if int32(seed.ScoreEstimate) > r.Sub {
				r.Sub = int32(seed.ScoreEstimate)
				r.SubN++
			}
			continue
		}

		h0 := int32(seed.ScoreEstimate)

		// Left extension: read[0:qb) reversed against reference
		// ending at seed.RefBegin, reversed.
		leftQLen := seed.QueryBegin
		leftTLen := minInt(leftQLen+cfg.Bandwidth, seed.RefBegin)
		leftQuery := reverseBytes(read[:leftQLen])
		leftTarget := make([]byte, leftTLen)
		for k := 0; k < leftTLen; k++ {
			leftTarget[k] = idx.Base(int64(seed.RefBegin - 1 - k))
		}
		leftRes := swkernel.ExtendWord(leftTarget, leftQuery, h0, cfg.Bandwidth, cfg.Sc)
		leftQ, leftT, h0mid := pickEndpoint(leftRes, h0, cfg.PenClip5, leftQLen)

		// Right extension: read[qe:) against reference starting at
		// seed.RefEnd().
		rightQLen := len(read) - seed.QueryEnd()
		rightTLen := minInt(rightQLen+cfg.Bandwidth, int(idx.GenomeLen)-seed.RefEnd())
		rightQuery := read[seed.QueryEnd():]
		rightTarget := make([]byte, maxInt(0, rightTLen))
		for k := range rightTarget {
			rightTarget[k] = idx.Base(int64(seed.RefEnd() + k))
		}
		rightRes := swkernel.ExtendWord(rightTarget, rightQuery, h0mid, cfg.Bandwidth, cfg.Sc)
		rightQ, rightT, finalScore := pickEndpoint(rightRes, h0mid, cfg.PenClip3, rightQLen)

		r := galign.AlnReg{
			QBegin: seed.QueryBegin - leftQ,
			QEnd:   seed.QueryEnd() + rightQ,
			RBegin: seed.RefBegin - leftT,
			REnd:   seed.RefEnd() + rightT,
			RefID:  chain.RefID,
			Strand: boolToStrand(reverse),
			Score:  finalScore,
			TrueScore: finalScore,
			IsAlt:  chain.IsAlt,
			Bandwidth: cfg.Bandwidth,
		}
		regions = append(regions, r)
		covered = append(covered, span{lo: r.QBegin, hi: r.QEnd})
	}

	threshold := int32(cfg.MinSeedLen) * cfg.Sc.Match
	for i := range regions {
		if regions[i].Sub < threshold {
			regions[i].Sub = 0
		}
	}
	return regions
}

// pickEndpoint implements the clip-vs-extend decision from spec.md §4.5:
// clip to the best local endpoint unless the global (to read boundary)
// score survives within penClip of the local best.
func pickEndpoint(res swkernel.Result, h0 int32, penClip int32, fullLen int) (qLen, tLen int, score int32) {
	if res.GlobalScore <= 0 || res.GlobalScore <= res.Score-penClip {
		return res.QueryEnd, res.TargetEnd, res.Score
	}
	return fullLen, res.GlobalTargetEnd, res.GlobalScore
}

func reverseBytes(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}

func boolToStrand(reverse bool) int8 {
	if reverse {
		return 1
	}
	return 0
}

func minInt(a, b int) int {
	if a < b {
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
