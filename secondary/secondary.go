// Copyright ©2024 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package secondary implements the ALT-aware primary/secondary/
// supplementary classification described in spec.md §4.9.
package secondary

import (
	"sort"

	"github.com/biogo/bwamem2/galign"
)

// MaxSecondary is the sentinel Secondary value Mark gives an ALT region
// shadowed in ALT mode's all-regions pass: callers must filter this out
// before treating Secondary as a concrete index.
const MaxSecondary = int(^uint(0) >> 1)

// stableHash returns a deterministic tie-break hash for a
// read-index-derived key, per spec.md §8: a fixed 64-bit integer mix of
// the read index and the region ordinal, the same on every run.
func stableHash(readIndex int, ordinal int) uint64 {
	key := uint64(readIndex)<<32 ^ uint64(ordinal)
	key += ^(key << 32)
	key ^= key >> 22
	key += ^(key << 13)
	key ^= key >> 8
	key += key << 3
	key ^= key >> 15
	key += ^(key << 27)
	key ^= key >> 31
	return key
}

// Config carries the scoring the marker needs for the subN bump, per
// spec.md §4.9.
type Config struct {
	MatchScore, MismatchPenalty       int32
	GapOpenIns, GapExtendIns          int32
	GapOpenDel, GapExtendDel          int32
	MaskLevel                         float64
	UseAlt                            bool
}

func (c Config) tmp() int32 {
	t := c.MatchScore + c.MismatchPenalty
	if v := c.GapOpenIns + c.GapExtendIns; v > t {
		t = v
	}
	if v := c.GapOpenDel + c.GapExtendDel; v > t {
		t = v
	}
	return t
}

// Mark classifies regions in place, setting Secondary, Sub and SubN per
// spec.md §4.9. readIndex seeds the tie-break hash.
func Mark(regions []galign.AlnReg, cfg Config, readIndex int) []galign.AlnReg {
	for i := range regions {
		regions[i].Hash = stableHash(readIndex, i)
		regions[i].Secondary = -1
	}

	if !cfg.UseAlt {
		nonAltPass(regions, cfg, byScoreHash)
		return regions
	}

	// ALT mode: first pass over all regions records secondaryAll and
	// altSc for primaries shadowed by an ALT competitor (spec.md §4.9).
	allOrder := make([]int, len(regions))
	for i := range allOrder {
		allOrder[i] = i
	}
	sort.Slice(allOrder, func(i, j int) bool {
		return orderLess(regions, allOrder[i], allOrder[j], true)
	})
	secondaryAll := make([]int, len(regions))
	for i := range secondaryAll {
		secondaryAll[i] = -1
	}
	markPass(regions, allOrder, cfg, secondaryAll, true)

	// Second pass: restrict to primaries (secondaryAll == -1) and
	// re-run to produce the final Secondary pointers.
	var primaries []int
	for _, idx := range allOrder {
		if secondaryAll[idx] < 0 {
			primaries = append(primaries, idx)
		}
	}
	sort.Slice(primaries, func(i, j int) bool {
		return orderLess(regions, primaries[i], primaries[j], false)
	})
	finalSecondary := make([]int, len(regions))
	for i := range finalSecondary {
		finalSecondary[i] = -1
	}
	markPass(regions, primaries, cfg, finalSecondary, false)

	for i := range regions {
		switch {
		case secondaryAll[i] >= 0 && regions[i].IsAlt:
			// ALT hit shadowed in the all-regions pass: never
			// emitted as secondary-of-primary (spec.md §9).
			regions[i].Secondary = MaxSecondary
		case secondaryAll[i] >= 0:
			// Non-ALT hit shadowed in the all-regions pass keeps its
			// concrete pointer, which names a non-ALT region since
			// non-ALT regions are ranked first in that pass.
			regions[i].Secondary = secondaryAll[i]
		default:
			regions[i].Secondary = finalSecondary[i]
		}
	}
	return regions
}

func byScoreHash(regions []galign.AlnReg, i, j int) bool {
	if regions[i].Score != regions[j].Score {
		return regions[i].Score > regions[j].Score
	}
	return regions[i].Hash < regions[j].Hash
}

// orderLess ranks region i ahead of region j for primary-selection
// purposes. In the all-regions pass (preferNonAlt), a non-ALT region
// always outranks an ALT region regardless of raw score: a non-ALT hit
// must never lose primary status to a higher-scoring ALT competitor
// (spec.md §8 scenario 6). Otherwise ties break by score, then hash.
func orderLess(regions []galign.AlnReg, i, j int, preferNonAlt bool) bool {
	if preferNonAlt && regions[i].IsAlt != regions[j].IsAlt {
		return !regions[i].IsAlt
	}
	if regions[i].Score != regions[j].Score {
		return regions[i].Score > regions[j].Score
	}
	return regions[i].Hash < regions[j].Hash
}

func nonAltPass(regions []galign.AlnReg, cfg Config, less func([]galign.AlnReg, int, int) bool) {
	order := make([]int, len(regions))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool { return less(regions, order[i], order[j]) })
	sec := make([]int, len(regions))
	for i := range sec {
		sec[i] = -1
	}
	markPass(regions, order, cfg, sec, false)
	for i := range regions {
		regions[i].Secondary = sec[i]
	}
}

// markPass walks order (best-first) and marks later entries as secondary
// of an earlier overlapping entry by mask-level overlap, per spec.md §4.9.
// recordAltSc is set only for the first (all-regions) pass of ALT mode,
// where an ALT competitor's score is captured on the shadowed primary.
func markPass(regions []galign.AlnReg, order []int, cfg Config, sec []int, recordAltSc bool) {
	var primaries []int
	tmp := cfg.tmp()
	for _, idx := range order {
		r := &regions[idx]
		isSecondaryOf := -1
		for _, pIdx := range primaries {
			p := &regions[pIdx]
			minLen := r.QEnd - r.QBegin
			if pl := p.QEnd - p.QBegin; pl < minLen {
				minLen = pl
			}
			ov := overlapLen(r.QBegin, r.QEnd, p.QBegin, p.QEnd)
			if minLen > 0 && float64(ov)/float64(minLen) > cfg.MaskLevel {
				if isSecondaryOf < 0 {
					isSecondaryOf = pIdx
					if p.Sub == 0 {
						p.Sub = r.Score
					}
					if recordAltSc && !p.IsAlt && r.IsAlt {
						p.AltSc = r.Score
					}
				}
			}
			if p.Score-r.Score <= tmp {
				// spec.md §4.9: the subN bump skips the
				// (non-ALT primary, ALT secondary) case.
				skipBump := cfg.UseAlt && !p.IsAlt && r.IsAlt
				if !skipBump {
					p.SubN++
				}
			}
		}
		if isSecondaryOf >= 0 {
			sec[idx] = isSecondaryOf
		} else {
			primaries = append(primaries, idx)
		}
	}
}

func overlapLen(aLo, aHi, bLo, bHi int) int {
	lo := aLo
	if bLo > lo {
		lo = bLo
	}
	hi := aHi
	if bHi < hi {
		hi = bHi
	}
	if hi < lo {
		return 0
	}
	return hi - lo
}
