// Copyright ©2024 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package galign

import "sort"

// AlnReg is a candidate alignment region, per spec.md §3.
type AlnReg struct {
	QBegin, QEnd int
	RBegin, REnd int
	RefID        int
	Strand       int8

	Score, TrueScore int32
	Sub, CSub        int32
	SubN             int
	Bandwidth        int
	SeedCov          int

	// Secondary indexes a better-ranked region, or is -1; an ALT region
	// shadowed in ALT-mode marking holds secondary.MaxSecondary instead.
	Secondary int

	IsAlt bool
	AltSc int32
	Hash  uint64

	Cigar Cigar
	NM    int
	MD    string
}

// MergeConfig carries the scoring needed to evaluate a candidate merge
// across a gap (spec.md §4.8).
type MergeConfig struct {
	GapOpenPenalty, GapExtendPenalty int32
}

// Dedup sorts regions by score descending then rb ascending, drops
// subsumed regions, merges colinear adjacents and removes exact
// duplicates, per spec.md §4.8.
func Dedup(regions []AlnReg, merge MergeConfig, globalScore func(a, b AlnReg) (int32, bool)) []AlnReg {
	sort.SliceStable(regions, func(i, j int) bool {
		if regions[i].Score != regions[j].Score {
			return regions[i].Score > regions[j].Score
		}
		return regions[i].RBegin < regions[j].RBegin
	})

	var kept []AlnReg
	for _, r := range regions {
		subsumed := false
		for _, k := range kept {
			if overlapFrac(r.QBegin, r.QEnd, k.QBegin, k.QEnd) >= 0.95 &&
				overlapFrac(r.RBegin, r.REnd, k.RBegin, k.REnd) >= 0.95 {
				subsumed = true
				break
			}
		}
		if subsumed {
			continue
		}
		kept = append(kept, r)
	}

	merged := true
	for merged {
		merged = false
		for i := 0; i < len(kept) && !merged; i++ {
			for j := i + 1; j < len(kept); j++ {
				a, b := kept[i], kept[j]
				if a.RefID != b.RefID || a.Strand != b.Strand {
					continue
				}
				if !colinearAdjacent(a, b) {
					continue
				}
				gapScore, ok := globalScore(a, b)
				if !ok {
					continue
				}
				gapPenalty := merge.GapOpenPenalty + merge.GapExtendPenalty
				if gapScore > a.Score+b.Score-gapPenalty {
					m := mergeRegions(a, b)
					next := make([]AlnReg, 0, len(kept)-1)
					for k, r := range kept {
						if k == i {
							next = append(next, m)
						} else if k == j {
							continue
						} else {
							next = append(next, r)
						}
					}
					kept = next
					merged = true
					break
				}
			}
		}
	}

	kept = dedupExact(kept)

	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Score > kept[j].Score })
	return kept
}

func overlapFrac(aLo, aHi, bLo, bHi int) float64 {
	lo := aLo
	if bLo > lo {
		lo = bLo
	}
	hi := aHi
	if bHi < hi {
		hi = bHi
	}
	if hi <= lo {
		return 0
	}
	overlap := float64(hi - lo)
	minLen := float64(aHi - aLo)
	if bHi-bLo < aHi-aLo {
		minLen = float64(bHi - bLo)
	}
	if minLen <= 0 {
		return 0
	}
	return overlap / minLen
}

func colinearAdjacent(a, b AlnReg) bool {
	if b.QBegin < a.QEnd || b.RBegin < a.REnd {
		return false
	}
	qGap := b.QBegin - a.QEnd
	rGap := b.RBegin - a.REnd
	return qGap >= 0 && rGap >= 0 && qGap < 2*(a.REnd-a.RBegin+b.REnd-b.RBegin)
}

func mergeRegions(a, b AlnReg) AlnReg {
	m := a
	if b.QBegin < m.QBegin {
		m.QBegin = b.QBegin
	}
	if b.QEnd > m.QEnd {
		m.QEnd = b.QEnd
	}
	if b.RBegin < m.RBegin {
		m.RBegin = b.RBegin
	}
	if b.REnd > m.REnd {
		m.REnd = b.REnd
	}
	m.Score = a.Score + b.Score
	m.TrueScore = m.Score
	m.SeedCov = a.SeedCov + b.SeedCov
	m.Cigar = nil
	return m
}

func dedupExact(regions []AlnReg) []AlnReg {
	out := regions[:0]
	seen := make(map[[3]int64]bool, len(regions))
	for _, r := range regions {
		key := [3]int64{int64(r.RBegin), int64(r.QBegin), int64(r.Score)}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out
}
