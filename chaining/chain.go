// Copyright ©2024 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package chaining consumes SMEMs into collinear-seed chains and filters
// weak or overlap-dominated ones, per spec.md §4.3–§4.4. The collinear
// clustering loop is grounded on the approximate-diagonal grouping used by
// muscato's confirm stage for grouping candidate matches under a gap
// bound, generalized here to a reference/query dual bound.
package chaining

import (
	"sort"

	"github.com/biogo/bwamem2/fmindex"
	"github.com/biogo/bwamem2/seeding"
)

// Seed is a single ungapped match resolved to genome coordinates
// (spec.md §3). Strand is 0 for a forward-strand hit and 1 for a hit found
// via the reverse-complement half of the concatenated BWT (spec.md §3:
// "the BWT is built over the forward genome plus its reverse complement").
type Seed struct {
	RefBegin, QueryBegin, Length int
	ScoreEstimate                int
	Strand                       int8
}

func (s Seed) QueryEnd() int { return s.QueryBegin + s.Length }
func (s Seed) RefEnd() int   { return s.RefBegin + s.Length }

// Chain is a sorted cluster of collinear seeds, per spec.md §3.
type Chain struct {
	Seeds []Seed
	Weight int

	RefID int
	IsAlt bool

	// Kept is the chain-filter disposition: 0=drop, 1=recovered,
	// 2=overlapping-kept, 3=clean-kept (spec.md §3).
	Kept int8

	// FirstShadowed indexes, into Filter's internal list of chains that
	// passed the weight threshold (sorted by weight descending), the
	// first chain this kept chain suppressed, or -1 if none.
	FirstShadowed int
}

func (c *Chain) first() Seed { return c.Seeds[0] }
func (c *Chain) last() Seed  { return c.Seeds[len(c.Seeds)-1] }

// Chainer groups resolved seeds into chains under a gap-bounded
// collinearity model.
type Chainer struct {
	MaxChainGap int
}

// SeedsFromSMEMs resolves up to maxOccurrences SA occurrences per SMEM
// into genome-coordinate seeds, per spec.md §4.3.
func SeedsFromSMEMs(idx *fmindex.Index, mems []seeding.SMEM, maxOccurrences int) []Seed {
	var out []Seed
	for _, m := range mems {
		n := int(m.Interval.S)
		if maxOccurrences > 0 && n > maxOccurrences {
			n = maxOccurrences
		}
		for i := 0; i < n; i++ {
			p := idx.ResolveSAPublic(m.Interval.K + int64(i))
			seed, ok := decodeSeedPos(idx, p, m)
			if !ok {
				continue
			}
			out = append(out, seed)
		}
	}
	return out
}

// decodeSeedPos maps a raw BWT-coordinate SA value to a forward-genome
// seed, reflecting reverse-complement-half occurrences back onto the
// forward strand per spec.md §3's doubled coordinate space.
func decodeSeedPos(idx *fmindex.Index, p int64, m seeding.SMEM) (Seed, bool) {
	length := m.Len()
	switch {
	case p >= 0 && p < idx.GenomeLen:
		return Seed{RefBegin: int(p), QueryBegin: m.QBegin, Length: length, ScoreEstimate: length, Strand: 0}, true
	case p >= idx.GenomeLen && p < 2*idx.GenomeLen:
		rcPos := p - idx.GenomeLen
		refBegin := idx.GenomeLen - rcPos - int64(length)
		if refBegin < 0 {
			return Seed{}, false
		}
		return Seed{RefBegin: int(refBegin), QueryBegin: m.QBegin, Length: length, ScoreEstimate: length, Strand: 1}, true
	default:
		return Seed{}, false
	}
}

// Build groups seeds into chains: a seed joins the first existing chain,
// in creation order, for which both the reference gap and the query gap
// to the chain's end are within MaxChainGap, with the gaps mutually
// bounded so a large indel in only one coordinate does not join a chain
// (spec.md §4.3).
func (ch *Chainer) Build(idx *fmindex.Index, seeds []Seed) []Chain {
	sort.Slice(seeds, func(i, j int) bool {
		if seeds[i].RefBegin != seeds[j].RefBegin {
			return seeds[i].RefBegin < seeds[j].RefBegin
		}
		return seeds[i].QueryBegin < seeds[j].QueryBegin
	})

	var chains []Chain
	for _, s := range seeds {
		joined := false
		for i := range chains {
			c := &chains[i]
			last := c.last()
			refGap := s.RefBegin - last.RefEnd()
			qGap := s.QueryBegin - last.QueryEnd()
			if refGap < 0 || qGap < 0 {
				continue
			}
			if refGap > ch.MaxChainGap || qGap > ch.MaxChainGap {
				continue
			}
			small, large := refGap, qGap
			if qGap < refGap {
				small, large = qGap, refGap
			}
			if large > 0 && large > small*2+ch.MaxChainGap/4 {
				continue
			}
			c.Seeds = append(c.Seeds, s)
			joined = true
			break
		}
		if !joined {
			seqID, _, ok := idx.Seqs.Decode(int64(s.RefBegin))
			nc := Chain{Seeds: []Seed{s}, FirstShadowed: -1}
			if ok {
				nc.RefID = seqID
				nc.IsAlt = idx.Seqs.Seqs[seqID].IsAlt
			}
			chains = append(chains, nc)
		}
	}

	for i := range chains {
		chains[i].Weight = weight(chains[i].Seeds)
	}
	return chains
}

// weight computes chain weight as min(non-overlapping query coverage,
// non-overlapping reference coverage), capped at 2^30-1 (spec.md §4.3).
func weight(seeds []Seed) int {
	qCov := coverage(seeds, func(s Seed) (int, int) { return s.QueryBegin, s.QueryEnd() })
	rCov := coverage(seeds, func(s Seed) (int, int) { return s.RefBegin, s.RefEnd() })
	w := qCov
	if rCov < w {
		w = rCov
	}
	const cap_ = 1<<30 - 1
	if w > cap_ {
		w = cap_
	}
	return w
}

func coverage(seeds []Seed, span func(Seed) (int, int)) int {
	sorted := make([]Seed, len(seeds))
	copy(sorted, seeds)
	sort.Slice(sorted, func(i, j int) bool {
		a0, _ := span(sorted[i])
		b0, _ := span(sorted[j])
		return a0 < b0
	})
	total := 0
	maxEnd := -1 << 62
	for _, s := range sorted {
		b, e := span(s)
		if b < maxEnd {
			b = maxEnd
		}
		if e > b {
			total += e - b
		}
		if e > maxEnd {
			maxEnd = e
		}
	}
	return total
}
