// Copyright ©2024 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chaining

import "sort"

// FilterConfig carries the scoring-level thresholds the chain filter needs
// (spec.md §4.4, driven from the orchestrator's align.Config).
type FilterConfig struct {
	MinChainWeight int
	MinSeedLen     int
	MaskLevel      float64
	MaxChainGap    int
	ChainDropRatio float64
}

// Filter drops weak chains and overlap-suppressed chains, per spec.md
// §4.4. It returns a new slice of the kept chains (Kept != 0): those kept
// by the weight-descending pass in that order, followed by the recovered
// Kept == 1 chains. The input slice is not modified.
func Filter(chains []Chain, cfg FilterConfig) []Chain {
	threshold := cfg.MinChainWeight
	if cfg.MinSeedLen > threshold {
		threshold = cfg.MinSeedLen
	}

	survivors := make([]Chain, 0, len(chains))
	for _, c := range chains {
		if c.Weight >= threshold {
			survivors = append(survivors, c)
		}
	}
	sort.SliceStable(survivors, func(i, j int) bool { return survivors[i].Weight > survivors[j].Weight })

	kept := make([]Chain, 0, len(survivors))
	for i := range survivors {
		c := &survivors[i]
		if len(kept) == 0 {
			c.Kept = 3
			kept = append(kept, *c)
			continue
		}

		suppressed := false
		for k := range kept {
			other := &kept[k]
			qlo, qhi := chainQuerySpan(*c)
			olo, ohi := chainQuerySpan(*other)
			overlap := intersectLen(qlo, qhi, olo, ohi)
			lenI, lenJ := qhi-qlo, ohi-olo
			minLen := lenI
			if lenJ < minLen {
				minLen = lenJ
			}
			largeOverlap := float64(overlap) >= float64(minLen)*cfg.MaskLevel && minLen < cfg.MaxChainGap
			if !largeOverlap {
				continue
			}
			if other.IsAlt && !c.IsAlt {
				// An ALT kept chain must never suppress a
				// non-ALT candidate (spec.md §4.4).
				continue
			}
			ratioOK := float64(c.Weight) < float64(other.Weight)*cfg.ChainDropRatio
			gapOK := other.Weight-c.Weight >= 2*cfg.MinSeedLen
			if ratioOK && gapOK {
				if other.FirstShadowed < 0 {
					other.FirstShadowed = i
				}
				suppressed = true
				break
			}
			c.Kept = 2 // large-overlapping but not suppressed
		}
		if suppressed {
			c.Kept = 0
			continue
		}
		if c.Kept == 0 {
			c.Kept = 3
		}
		kept = append(kept, *c)
	}

	// Recover one shadowed chain per kept chain so MAPQ's sub-optimal
	// score has something to compare against (spec.md §4.4, §9).
	for i := range kept {
		fs := kept[i].FirstShadowed
		if fs >= 0 && fs < len(survivors) && survivors[fs].Kept == 0 {
			survivors[fs].Kept = 1
			kept = append(kept, survivors[fs])
		}
	}

	out := make([]Chain, 0, len(kept))
	for _, c := range kept {
		if c.Kept != 0 {
			out = append(out, c)
		}
	}
	return out
}

func chainQuerySpan(c Chain) (int, int) {
	lo, hi := c.first().QueryBegin, c.last().QueryEnd()
	for _, s := range c.Seeds {
		if s.QueryBegin < lo {
			lo = s.QueryBegin
		}
		if s.QueryEnd() > hi {
			hi = s.QueryEnd()
		}
	}
	return lo, hi
}

func intersectLen(aLo, aHi, bLo, bHi int) int {
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
