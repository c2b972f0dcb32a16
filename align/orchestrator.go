// Copyright ©2024 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package align

import (
	"container/heap"
	"log"
	"sync"

	"github.com/biogo/bwamem2/fmindex"
	"github.com/biogo/bwamem2/galign"
	"github.com/biogo/bwamem2/insertsize"
	"github.com/biogo/bwamem2/pairing"
	"github.com/biogo/bwamem2/samout"
	"github.com/biogo/bwamem2/secondary"
)

// Pair is one paired-end input: mate1/mate2 reads sharing a template
// name, per spec.md §4.11–§4.13.
type Pair struct {
	Mate1, Mate2 Read
}

// PairResult is the emitted SAM record set for one pair's dispatch,
// carrying its sequence number for ordered re-emission, per spec.md §5.
type PairResult struct {
	Seq     int
	Records []samout.Record
}

// Orchestrator runs a bounded worker pool over a batch of pairs,
// estimating the insert-size distribution over the batch's first-pass
// regions (spec.md §4.11) before resolving each pair (spec.md §4.12),
// then re-serializes results in dispatch order — generalizing the
// teacher's single-goroutine sequential bam.Iterator contract to an
// out-of-order worker pool with an ordered re-emission heap, per
// spec.md §5.
type Orchestrator struct {
	Index  *fmindex.Index
	Config Config
	RefName func(int) string
	Logger  *log.Logger
}

type dispatch struct {
	seq  int
	pair Pair
}

type firstPass struct {
	seq        int
	pair       Pair
	r1, r2     Result
}

// Run aligns every pair in batch using cfg.NumThreads workers, estimates
// insert size from the batch's concordant first-pass pairs, resolves
// each pair against that distribution, and returns results ordered by
// input sequence.
func (o *Orchestrator) Run(batch []Pair) []PairResult {
	n := o.Config.NumThreads
	if n < 1 {
		n = 1
	}

	jobs := make(chan dispatch, len(batch))
	firstPassOut := make(chan firstPass, len(batch))

	var wg sync.WaitGroup
	aligner := NewAligner(o.Index, o.Config)
	for w := 0; w < n; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for d := range jobs {
				r1 := aligner.AlignRead(d.pair.Mate1, d.seq*2)
				r2 := aligner.AlignRead(d.pair.Mate2, d.seq*2+1)
				firstPassOut <- firstPass{seq: d.seq, pair: d.pair, r1: r1, r2: r2}
			}
		}()
	}
	for i, p := range batch {
		jobs <- dispatch{seq: i, pair: p}
	}
	close(jobs)
	go func() { wg.Wait(); close(firstPassOut) }()

	passes := make([]firstPass, len(batch))
	for fp := range firstPassOut {
		passes[fp.seq] = fp
	}

	stats := o.estimateInsertSize(aligner, passes)

	results := make([]PairResult, len(passes))
	var wg2 sync.WaitGroup
	resultCh := make(chan PairResult, len(passes))
	sem := make(chan struct{}, n)
	for _, fp := range passes {
		wg2.Add(1)
		sem <- struct{}{}
		go func(fp firstPass) {
			defer wg2.Done()
			defer func() { <-sem }()
			resultCh <- o.resolvePair(aligner, fp, stats)
		}(fp)
	}
	go func() { wg2.Wait(); close(resultCh) }()
	for r := range resultCh {
		results[r.Seq] = r
	}
	return results
}

// estimateInsertSize feeds the batch's first-pass pairs into the
// insert-size estimator, per spec.md §4.11: only pairs "where both ends
// have a primary hit with MAPQ ≥ 20" contribute samples, and a
// per-orientation bucket needs "≥10 samples" to be estimated.
func (o *Orchestrator) estimateInsertSize(aligner *Aligner, passes []firstPass) map[insertsize.Orientation]insertsize.Stats {
	if o.Config.NoPairing() {
		return nil
	}
	const minMapQ = 20
	const minSamples = 10
	obs := make(map[insertsize.Orientation][]int)
	for _, fp := range passes {
		if len(fp.r1.Regions) == 0 || len(fp.r2.Regions) == 0 {
			continue
		}
		r1, r2 := fp.r1.Regions[0], fp.r2.Regions[0]
		if r1.RefID != r2.RefID {
			continue
		}
		if aligner.regionMapQ(r1) < minMapQ || aligner.regionMapQ(r2) < minMapQ {
			continue
		}
		orient := insertsize.Classify(r1.RBegin, r1.Strand == 1, r2.RBegin, r2.Strand == 1)
		sz := regionSpan(r1, r2)
		obs[orient] = append(obs[orient], sz)
	}
	return insertsize.Estimate(obs, minSamples)
}

func regionSpan(r1, r2 galign.AlnReg) int {
	lo, hi := r1.RBegin, r1.REnd
	if r2.RBegin < lo {
		lo = r2.RBegin
	}
	if r2.REnd > hi {
		hi = r2.REnd
	}
	return hi - lo
}

// rescueMates attempts Smith-Waterman mate rescue (spec.md §4.12) for
// whichever mate lacks any region, anchored on the other mate's surviving
// regions (bounded by cfg.MaxMatesw), under the dominant insert-size
// orientation. Rescued regions are appended and the secondary marker is
// re-run so MAPQ/secondary bookkeeping stays consistent.
func (o *Orchestrator) rescueMates(aligner *Aligner, fp firstPass, stats map[insertsize.Orientation]insertsize.Stats) (Result, Result) {
	dom, ok := insertsize.Dominant(stats)
	if !ok {
		return fp.r1, fp.r2
	}

	rescueCfg := pairing.RescueConfig{
		Sc:          o.Config.Scores(),
		MinScore:    int32(o.Config.MinSeedLen) * o.Config.MatchScore,
		PenUnpaired: o.Config.UnpairedPenalty,
	}

	r1, r2 := fp.r1, fp.r2
	if len(r2.Regions) == 0 && len(r1.Regions) > 0 {
		r2 = o.rescueOneSide(aligner, r1.Regions, fp.pair.Mate2, r2, dom, rescueCfg, fp.seq*2+1)
	}
	if len(r1.Regions) == 0 && len(r2.Regions) > 0 {
		r1 = o.rescueOneSide(aligner, r2.Regions, fp.pair.Mate1, r1, dom, rescueCfg, fp.seq*2)
	}
	return r1, r2
}

func (o *Orchestrator) rescueOneSide(aligner *Aligner, anchors []galign.AlnReg, mate Read, side Result, dom insertsize.Stats, cfg pairing.RescueConfig, readIndex int) Result {
	n := len(anchors)
	if o.Config.MaxMatesw > 0 && n > o.Config.MaxMatesw {
		n = o.Config.MaxMatesw
	}
	for i := 0; i < n; i++ {
		anchor := anchors[i]
		mateBases := mate.Bases
		if pairing.ExpectedMateStrand(anchor, dom) == 1 {
			mateBases = complementReverse(mate.Bases)
		}
		rescued, ok := pairing.Rescue(o.Index, anchor, mateBases, dom, cfg)
		if !ok {
			continue
		}
		side.Regions = append(side.Regions, rescued)
	}
	if len(side.Regions) == 0 {
		return side
	}
	side.ReadLen = len(mate.Bases)
	aligner.fillCigars(mate, side.Regions)
	side.Regions = secondary.Mark(side.Regions, secondary.Config{
		MatchScore:      o.Config.MatchScore,
		MismatchPenalty: o.Config.MismatchPenalty,
		GapOpenIns:      o.Config.GapOpenPenalty,
		GapExtendIns:    o.Config.GapExtendPenalty,
		GapOpenDel:      o.Config.GapOpenPenaltyDeletion,
		GapExtendDel:    o.Config.GapExtendPenaltyDeletion,
		MaskLevel:       o.Config.MaskLevel,
		UseAlt:          !o.Config.NoAlt(),
	}, readIndex)
	return side
}

func (o *Orchestrator) resolvePair(aligner *Aligner, fp firstPass, stats map[insertsize.Orientation]insertsize.Stats) PairResult {
	var recs []samout.Record

	if !o.Config.NoPairing() && !o.Config.NoRescue() {
		fp.r1, fp.r2 = o.rescueMates(aligner, fp, stats)
	}

	if o.Config.NoPairing() || len(fp.r1.Regions) == 0 || len(fp.r2.Regions) == 0 {
		recs = append(recs, aligner.Emit(fp.pair.Mate1, fp.r1, o.RefName, samout.Paired|samout.Read1)...)
		recs = append(recs, aligner.Emit(fp.pair.Mate2, fp.r2, o.RefName, samout.Paired|samout.Read2)...)
		return PairResult{Seq: fp.seq, Records: recs}
	}

	cand, isProper, pairScore, secondBest, ok := pairing.Resolve(fp.r1.Regions, fp.r2.Regions, stats, o.Config.UnpairedPenalty)
	if !ok {
		if o.Logger != nil {
			o.Logger.Printf("align: pair resolve failure for %s/%s", fp.pair.Mate1.Name, fp.pair.Mate2.Name)
		}
		recs = append(recs, aligner.Emit(fp.pair.Mate1, fp.r1, o.RefName, samout.Paired|samout.Read1)...)
		recs = append(recs, aligner.Emit(fp.pair.Mate2, fp.r2, o.RefName, samout.Paired|samout.Read2)...)
		return PairResult{Seq: fp.seq, Records: recs}
	}

	flag1 := samout.Paired | samout.Read1
	flag2 := samout.Paired | samout.Read2
	if isProper {
		flag1 |= samout.ProperPair
		flag2 |= samout.ProperPair
	}

	r1 := Result{Regions: []galign.AlnReg{cand.R1}, ReadLen: fp.r1.ReadLen}
	r2 := Result{Regions: []galign.AlnReg{cand.R2}, ReadLen: fp.r2.ReadLen}
	rec1 := aligner.Emit(fp.pair.Mate1, r1, o.RefName, flag1)
	rec2 := aligner.Emit(fp.pair.Mate2, r2, o.RefName, flag2)

	// TLEN: span from the leftmost 5' reference end to the rightmost
	// alignment end, signed positive for the leftmost-aligned read and
	// negative for its mate, per spec.md §4.12 Record assembly.
	tlen1, tlen2 := templateLen(cand.R1, cand.R2)
	if len(rec1) > 0 {
		rec1[0].TLen = tlen1
	}
	if len(rec2) > 0 {
		rec2[0].TLen = tlen2
	}

	// Boost a proper pair's MAPQ from the joint pair-score margin when
	// the single-end MAPQ was low, per spec.md §4.12 Record assembly.
	if isProper {
		if len(rec1) > 0 {
			rec1[0].MapQ = pairing.BoostMapQ(rec1[0].MapQ, pairScore, secondBest)
		}
		if len(rec2) > 0 {
			rec2[0].MapQ = pairing.BoostMapQ(rec2[0].MapQ, pairScore, secondBest)
		}
	}

	recs = append(recs, rec1...)
	recs = append(recs, rec2...)
	return PairResult{Seq: fp.seq, Records: recs}
}

// templateLen computes each mate's signed TLEN per spec.md §4.12 Record
// assembly: the unsigned span covers the leftmost 5' reference
// coordinate to the rightmost alignment end across both mates; the
// leftmost-aligned mate (by RBegin, ties favor mate1) gets the positive
// sign, the other gets the negative.
func templateLen(r1, r2 galign.AlnReg) (t1, t2 int) {
	lo := r1.RBegin
	if r2.RBegin < lo {
		lo = r2.RBegin
	}
	hi := r1.REnd
	if r2.REnd > hi {
		hi = r2.REnd
	}
	span := hi - lo
	if r1.RBegin <= r2.RBegin {
		return span, -span
	}
	return -span, span
}

// orderedHeap re-serializes PairResult values by Seq, used when results
// must be written to an output stream strictly in dispatch order
// without buffering the full batch, per spec.md §5.
type orderedHeap []PairResult

func (h orderedHeap) Len() int            { return len(h) }
func (h orderedHeap) Less(i, j int) bool  { return h[i].Seq < h[j].Seq }
func (h orderedHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *orderedHeap) Push(x interface{}) { *h = append(*h, x.(PairResult)) }
func (h *orderedHeap) Pop() interface{} {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}

// Reorder drains an unordered channel of PairResult into strict Seq
// order, emitting each result as soon as it is the next expected
// sequence number, per spec.md §5's ordered re-emission requirement.
func Reorder(in <-chan PairResult, next int, emit func(PairResult)) {
	h := &orderedHeap{}
	heap.Init(h)
	for r := range in {
		heap.Push(h, r)
		for h.Len() > 0 && (*h)[0].Seq == next {
			emit(heap.Pop(h).(PairResult))
			next++
		}
	}
	for h.Len() > 0 {
		emit(heap.Pop(h).(PairResult))
	}
}
