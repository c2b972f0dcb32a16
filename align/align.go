// Copyright ©2024 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package align

import (
	"sort"

	"github.com/biogo/bwamem2/chaining"
	"github.com/biogo/bwamem2/extend"
	"github.com/biogo/bwamem2/fmindex"
	"github.com/biogo/bwamem2/galign"
	"github.com/biogo/bwamem2/mapq"
	"github.com/biogo/bwamem2/samout"
	"github.com/biogo/bwamem2/secondary"
	"github.com/biogo/bwamem2/seeding"
)

// Read is a single sequencing read in 2-bit-encoded form (A=0 C=1 G=2
// T=3, 4=ambiguous), paired with its name and Phred-scaled quality
// string for output, per spec.md §3.
type Read struct {
	Name string
	Bases []byte
	Qual  string
}

// Aligner runs the single-end per-read pipeline of spec.md §4.2–§4.10
// against a fixed index, per spec.md §4.13.
type Aligner struct {
	Index  *fmindex.Index
	Config Config

	finder  *seeding.Finder
	chainer chaining.Chainer
}

// NewAligner builds an Aligner wired from cfg's scoring parameters.
func NewAligner(idx *fmindex.Index, cfg Config) *Aligner {
	f := seeding.NewFinder(idx, cfg.MinSeedLen)
	f.MaxOcc = cfg.MaxOccurrences
	return &Aligner{
		Index:  idx,
		Config: cfg,
		finder: f,
		chainer: chaining.Chainer{MaxChainGap: cfg.BandWidth},
	}
}

// Result is the full per-read pipeline output: every surviving region,
// readIndex-stable for secondary marking, per spec.md §4.13.
type Result struct {
	Regions []galign.AlnReg
	ReadLen int
}

// AlignRead runs the complete single-end pipeline for one read:
// seeding, chaining, chain filtering, extension, dedup/patch, CIGAR
// generation and secondary marking, per spec.md §4.2–§4.9. MAPQ is not
// computed here; Emit computes it when it builds the records.
func (a *Aligner) AlignRead(read Read, readIndex int) Result {
	if len(read.Bases) == 0 {
		return Result{ReadLen: 0}
	}

	mems := a.finder.FindAll(read.Bases)
	if a.Config.ReseedLength > 0 {
		longEnough := false
		for _, m := range mems {
			if m.Len() >= a.Config.ReseedLength {
				longEnough = true
				break
			}
		}
		if longEnough {
			mems = append(mems, a.finder.Reseed(read.Bases, 2)...)
		}
	}

	seeds := chaining.SeedsFromSMEMs(a.Index, mems, a.Config.MaxOccurrences)
	chains := a.chainer.Build(a.Index, seeds)
	kept := chaining.Filter(chains, chaining.FilterConfig{
		MinChainWeight: a.Config.MinSeedLen,
		MinSeedLen:     a.Config.MinSeedLen,
		MaskLevel:      a.Config.MaskLevel,
		MaxChainGap:    a.Config.BandWidth,
		ChainDropRatio: a.Config.ChainDropRatio,
	})

	extCfg := extend.Config{
		Sc:         a.Config.Scores(),
		Bandwidth:  a.Config.BandWidth,
		PenClip5:   a.Config.PenClip5,
		PenClip3:   a.Config.PenClip3,
		MinSeedLen: a.Config.MinSeedLen,
	}

	// A chain the filter recovered (Kept==1) exists only to feed MAPQ's
	// sub-optimal score (spec.md §4.4, §9): extend it like any other
	// chain but hold its regions aside instead of letting them compete
	// for primary/secondary status.
	var regions, informational []galign.AlnReg
	for _, c := range kept {
		reverse := c.Seeds[0].Strand == 1
		readBases := read.Bases
		if reverse {
			readBases = complementReverse(read.Bases)
		}
		ext := extend.Extend(a.Index, readBases, c, extCfg, reverse)
		if c.Kept == 1 {
			informational = append(informational, ext...)
			continue
		}
		regions = append(regions, ext...)
	}

	merge := galign.MergeConfig{
		GapOpenPenalty:   a.Config.GapOpenPenalty,
		GapExtendPenalty: a.Config.GapExtendPenalty,
	}
	gcfg := galign.GlobalConfig{Sc: a.Config.Scores(), MaxBandwidth: a.Config.BandWidth * 8}
	regions = galign.Dedup(regions, merge, func(x, y galign.AlnReg) (int32, bool) {
		return a.gapScore(read, x, y, gcfg)
	})

	for _, inf := range informational {
		for i := range regions {
			r := &regions[i]
			if inf.RefID != r.RefID || overlapLen(inf.QBegin, inf.QEnd, r.QBegin, r.QEnd) == 0 {
				continue
			}
			if inf.Score > r.CSub {
				r.CSub = inf.Score
			}
		}
	}

	filtered := regions[:0]
	for _, r := range regions {
		if r.Score >= a.Config.MinOutputScore {
			filtered = append(filtered, r)
		}
	}
	regions = filtered

	a.fillCigars(read, regions)

	regions = secondary.Mark(regions, secondary.Config{
		MatchScore:      a.Config.MatchScore,
		MismatchPenalty: a.Config.MismatchPenalty,
		GapOpenIns:      a.Config.GapOpenPenalty,
		GapExtendIns:    a.Config.GapExtendPenalty,
		GapOpenDel:      a.Config.GapOpenPenaltyDeletion,
		GapExtendDel:    a.Config.GapExtendPenaltyDeletion,
		MaskLevel:       a.Config.MaskLevel,
		UseAlt:          !a.Config.NoAlt(),
	}, readIndex)

	return Result{Regions: regions, ReadLen: len(read.Bases)}
}

// gapScore runs the banded global aligner across the gap between two
// colinear-adjacent regions, returning the score Dedup should compare
// against the sum of the two regions' scores minus the gap penalty, per
// spec.md §4.8. Returns ok=false if the gap is empty on both sides.
func (a *Aligner) gapScore(read Read, x, y galign.AlnReg, gcfg galign.GlobalConfig) (int32, bool) {
	if y.RBegin < x.REnd || y.QBegin < x.QEnd {
		return 0, false
	}
	target := make([]byte, y.RBegin-x.REnd)
	a.Index.Bases(int64(x.REnd), target)

	query := read.Bases
	if x.Strand == 1 {
		query = complementReverse(read.Bases)
	}
	q := query[x.QEnd:y.QBegin]
	if len(target) == 0 && len(q) == 0 {
		return 0, false
	}

	_, score, _ := galign.Align(target, q, a.Config.BandWidth, gcfg, 0)
	return score, true
}

// fillCigars runs the banded global aligner over each region's
// established boundaries to produce its CIGAR, NM and MD, per
// spec.md §4.7. Extension only fixes endpoints; the base-level
// alignment is generated here.
func (a *Aligner) fillCigars(read Read, regions []galign.AlnReg) {
	gcfg := galign.GlobalConfig{Sc: a.Config.Scores(), MaxBandwidth: a.Config.BandWidth * 8}
	for i := range regions {
		r := &regions[i]
		target := make([]byte, r.REnd-r.RBegin)
		a.Index.Bases(int64(r.RBegin), target)

		query := read.Bases
		if r.Strand == 1 {
			query = complementReverse(read.Bases)
		}
		q := query[r.QBegin:r.QEnd]

		cigar, score, leadingRefConsumed := galign.Align(target, q, a.Config.BandWidth, gcfg, r.TrueScore)
		r.RBegin += leadingRefConsumed
		cigar = galign.WithClips(cigar, r.QBegin, r.QEnd, len(read.Bases), r.Strand == 1)
		r.Cigar = cigar
		r.NM = galign.NM(target, q, cigar)
		r.MD = galign.MD(target, q, cigar)
		_ = score
	}
}

// Emit builds the SAM records for a read's pipeline result: primary
// first, then supplementaries ordered (score desc, hash asc), then any
// emitted secondaries; SA lists the other non-secondary segments, XA on
// the primary lists qualifying secondaries, pa is primary/altSc, per
// spec.md §4.13.
func (a *Aligner) Emit(read Read, res Result, refName func(int) string, flagBase samout.Flags) []samout.Record {
	if len(res.Regions) == 0 {
		return []samout.Record{samout.Unmapped(read.Name, basesToSeq(read.Bases), read.Qual, flagBase)}
	}

	var nonSecondary, secondaryIdx []int
	for i, r := range res.Regions {
		if r.Secondary >= 0 && r.Secondary < len(res.Regions) {
			secondaryIdx = append(secondaryIdx, i)
		} else {
			nonSecondary = append(nonSecondary, i)
		}
	}
	if len(nonSecondary) == 0 {
		return []samout.Record{samout.Unmapped(read.Name, basesToSeq(read.Bases), read.Qual, flagBase)}
	}
	// nonSecondary[0] is already the highest-scoring entry (Dedup sorts
	// score descending); keep it first and order the rest (score desc,
	// hash asc) per spec.md §5's canonical segment ordering.
	sort.SliceStable(nonSecondary[1:], func(i, j int) bool {
		x, y := res.Regions[nonSecondary[1+i]], res.Regions[nonSecondary[1+j]]
		if x.Score != y.Score {
			return x.Score > y.Score
		}
		return x.Hash < y.Hash
	})
	sort.SliceStable(secondaryIdx, func(i, j int) bool {
		x, y := res.Regions[secondaryIdx[i]], res.Regions[secondaryIdx[j]]
		if x.Score != y.Score {
			return x.Score > y.Score
		}
		return x.Hash < y.Hash
	})

	primary := res.Regions[nonSecondary[0]]
	primaryMapQ := a.regionMapQ(primary)

	var qualifying []int
	hasAlt := false
	for _, idx := range secondaryIdx {
		if 2*res.Regions[idx].Score >= primary.Score {
			qualifying = append(qualifying, idx)
			if res.Regions[idx].IsAlt {
				hasAlt = true
			}
		}
	}
	maxXA := a.Config.MaxXAHits
	if hasAlt && a.Config.MaxXAHitsAlt > maxXA {
		maxXA = a.Config.MaxXAHitsAlt
	}
	if maxXA > 0 && len(qualifying) > maxXA {
		qualifying = qualifying[:maxXA]
	}

	var xa []samout.XAEntry
	if !a.Config.NoMulti() {
		for _, idx := range qualifying {
			r := res.Regions[idx]
			xa = append(xa, samout.XAEntry{
				RefName: refName(r.RefID),
				Pos:     int64(r.RBegin),
				Reverse: r.Strand == 1,
				Cigar:   r.Cigar.String(),
				NM:      r.NM,
			})
		}
	}

	var saAll []samout.SAEntry
	for _, idx := range nonSecondary {
		r := res.Regions[idx]
		saAll = append(saAll, samout.SAEntry{
			RefName: refName(r.RefID),
			Pos:     int64(r.RBegin),
			Reverse: r.Strand == 1,
			Cigar:   r.Cigar.String(),
			MapQ:    a.regionMapQ(r),
			NM:      r.NM,
		})
	}

	var out []samout.Record
	for pos, idx := range nonSecondary {
		r := res.Regions[idx]
		flag := flagBase
		if pos > 0 {
			flag |= samout.Supplementary
		}

		mapQ := a.regionMapQ(r)
		if pos > 0 && !r.IsAlt && !a.Config.KeepSuppMapQ() && mapQ > primaryMapQ {
			mapQ = primaryMapQ
		}

		var pa float64
		if r.AltSc > 0 {
			pa = float64(r.Score) / float64(r.AltSc)
		}

		var sa []samout.SAEntry
		if len(nonSecondary) > 1 {
			for j, e := range saAll {
				if j != pos {
					sa = append(sa, e)
				}
			}
		}
		var xaTag []samout.XAEntry
		if pos == 0 {
			xaTag = xa
		}

		rec := a.buildRecord(read, r, refName(r.RefID), flag, mapQ, pa, sa, xaTag)
		out = append(out, rec)
	}

	if !a.Config.NoMulti() && a.Config.OutputAll() {
		for _, idx := range qualifying {
			r := res.Regions[idx]
			mapQ := a.regionMapQ(r)
			var pa float64
			if r.AltSc > 0 {
				pa = float64(r.Score) / float64(r.AltSc)
			}
			rec := a.buildRecord(read, r, refName(r.RefID), flagBase|samout.Secondary, mapQ, pa, nil, nil)
			out = append(out, rec)
		}
	}
	return out
}

func (a *Aligner) regionMapQ(r galign.AlnReg) int {
	return mapq.Compute(mapq.Params{
		MatchScore:      a.Config.MatchScore,
		MismatchPenalty: a.Config.MismatchPenalty,
		MinSeedLen:      a.Config.MinSeedLen,
	}, r.QBegin, r.QEnd, r.RBegin, r.REnd, r.Score, r.Sub, r.CSub, r.SubN, 0)
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

func (a *Aligner) buildRecord(read Read, r galign.AlnReg, name string, flag samout.Flags, mapQ int, pa float64, sa []samout.SAEntry, xa []samout.XAEntry) samout.Record {
	seq, qual := read.Bases, read.Qual
	if r.Strand == 1 {
		seq, qual = complementReverse(read.Bases), reverseString(read.Qual)
	}
	rec := samout.FromRegion(read.Name, r, name, basesToSeq(seq), qual, flag)
	rec.MapQ = mapQ
	return rec.WithTags(r.NM, r.MD, r.Score, r.Sub, sa, xa, pa, "")
}

func basesToSeq(bases []byte) string {
	const letters = "ACGTN"
	b := make([]byte, len(bases))
	for i, v := range bases {
		if int(v) >= len(letters) {
			v = 4
		}
		b[i] = letters[v]
	}
	return string(b)
}

func reverseString(s string) string {
	b := []byte(s)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}

func complementReverse(bases []byte) []byte {
	out := make([]byte, len(bases))
	for i, v := range bases {
		var c byte
		if v < 4 {
			c = 3 - v
		} else {
			c = 4
		}
		out[len(bases)-1-i] = c
	}
	return out
}
