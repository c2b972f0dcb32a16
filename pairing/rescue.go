// Copyright ©2024 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pairing resolves paired-end reads against each other: mate
// rescue when only one mate produced a confident region, and final pair
// selection by joint score, described in spec.md §4.12.
package pairing

import (
	"github.com/biogo/bwamem2/fmindex"
	"github.com/biogo/bwamem2/galign"
	"github.com/biogo/bwamem2/insertsize"
	"github.com/biogo/bwamem2/swkernel"
)

// RescueConfig carries the scoring and window parameters mate rescue
// needs (spec.md §4.12).
type RescueConfig struct {
	Sc         swkernel.Scores
	MinScore   int32
	PenUnpaired int32
}

// Rescue attempts to find a mate alignment for anchor by Smith-Waterman
// scanning the insert-size window implied by stats around anchor's
// position, per spec.md §4.12. mate is the other mate's full read
// sequence (2-bit encoded), already reverse-complemented if needed so
// it is expressed on the same strand convention as the window scan.
func Rescue(idx *fmindex.Index, anchor galign.AlnReg, mate []byte, stats insertsize.Stats, cfg RescueConfig) (galign.AlnReg, bool) {
	if stats.Count == 0 {
		return galign.AlnReg{}, false
	}

	var winLo, winHi int64
	switch stats.Orientation {
	case insertsize.FR, insertsize.FF:
		if anchor.Strand == 0 {
			winLo = int64(anchor.RBegin) + int64(stats.Low)
			winHi = int64(anchor.RBegin) + int64(stats.High)
		} else {
			winLo = int64(anchor.REnd) - int64(stats.High)
			winHi = int64(anchor.REnd) - int64(stats.Low)
		}
	default:
		winLo = int64(anchor.RBegin) - int64(stats.High)
		winHi = int64(anchor.REnd) + int64(stats.High)
	}
	if winLo < 0 {
		winLo = 0
	}
	if winHi > idx.GenomeLen {
		winHi = idx.GenomeLen
	}
	if winHi <= winLo {
		return galign.AlnReg{}, false
	}

	target := make([]byte, winHi-winLo)
	idx.Bases(winLo, target)

	res := swkernel.ExtendWord(target, mate, 0, len(target), cfg.Sc)
	if res.GlobalScore < cfg.MinScore {
		return galign.AlnReg{}, false
	}

	rescued := galign.AlnReg{
		QBegin:    0,
		QEnd:      res.QueryEnd,
		RBegin:    int(winLo),
		REnd:      int(winLo) + res.TargetEnd,
		RefID:     anchor.RefID,
		Strand:    ExpectedMateStrand(anchor, stats),
		Score:     res.GlobalScore,
		TrueScore: res.GlobalScore,
		IsAlt:     anchor.IsAlt,
	}
	return rescued, true
}

// ExpectedMateStrand reports the strand the anchor's mate should sit on
// under the given orientation, per spec.md §4.12's window derivation.
func ExpectedMateStrand(anchor galign.AlnReg, stats insertsize.Stats) int8 {
	return oppositeStrandFor(anchor, stats)
}

func oppositeStrandFor(anchor galign.AlnReg, stats insertsize.Stats) int8 {
	switch stats.Orientation {
	case insertsize.FR:
		if anchor.Strand == 0 {
			return 1
		}
		return 0
	case insertsize.FF:
		return anchor.Strand
	default:
		if anchor.Strand == 0 {
			return 1
		}
		return 0
	}
}
