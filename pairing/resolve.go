// Copyright ©2024 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pairing

import (
	"math"

	"github.com/biogo/bwamem2/galign"
	"github.com/biogo/bwamem2/insertsize"
)

// PairCandidate is one (mate1 region, mate2 region) combination under
// consideration, per spec.md §4.12.
type PairCandidate struct {
	R1, R2      galign.AlnReg
	InsertSize  int
	Orientation insertsize.Orientation
}

// PairScore is the joint score assigned to a candidate pairing: the sum
// of both mates' scores plus a log-normal bonus for an insert size
// consistent with the primary orientation's estimated distribution, or
// penUnpaired subtracted when the candidate's orientation is discordant
// with the primary one, per spec.md §4.12 ("orientation-consistency
// bonus (penalty = unpairedPenalty if the orientation differs from the
// primary orientation)").
func PairScore(c PairCandidate, stats map[insertsize.Orientation]insertsize.Stats, primary insertsize.Orientation, hasPrimary bool, penUnpaired int32) float64 {
	base := float64(c.R1.Score + c.R2.Score)
	if hasPrimary && c.Orientation != primary {
		return base - float64(penUnpaired)
	}
	st, ok := stats[c.Orientation]
	if !ok || st.StdDev <= 0 {
		return base
	}
	z := (float64(c.InsertSize) - st.Mean) / st.StdDev
	bonus := -0.5*z*z - math.Log(st.StdDev*math.Sqrt(2*math.Pi))
	return base + bonus
}

// isProperPair reports whether a candidate pairing passes the
// "proper pair" test of spec.md §4.12/GLOSSARY: its orientation matches
// the batch's primary orientation, that orientation's estimate did not
// fail (spec.md §4.11), and its insert size falls within the
// orientation's proper-pair bounds.
func isProperPair(c PairCandidate, stats map[insertsize.Orientation]insertsize.Stats, primary insertsize.Orientation, hasPrimary bool) bool {
	if !hasPrimary || c.Orientation != primary {
		return false
	}
	st, ok := stats[c.Orientation]
	if !ok || st.Failed {
		return false
	}
	return c.InsertSize >= st.Low && c.InsertSize <= st.High
}

// Resolve picks the best-scoring pairing among all candidate
// combinations of mate1Regions x mate2Regions, reporting whether that
// pairing is a proper pair (primary orientation, insert size inside the
// estimator's window) and the best and second-best joint pair scores,
// per spec.md §4.12: "Return (idx1, idx2, isProperPair, pairScore,
// secondBestPairScore)."
func Resolve(mate1Regions, mate2Regions []galign.AlnReg, stats map[insertsize.Orientation]insertsize.Stats, penUnpaired int32) (best PairCandidate, isProper bool, pairScore, secondBestPairScore float64, found bool) {
	primary, hasPrimary := insertsize.Dominant(stats)

	bestScore := math.Inf(-1)
	secondScore := math.Inf(-1)
	bestProper := false

	for _, r1 := range mate1Regions {
		for _, r2 := range mate2Regions {
			if r1.RefID != r2.RefID {
				continue
			}
			orient := classify(r1, r2)
			insertSz := insertSize(r1, r2)
			cand := PairCandidate{R1: r1, R2: r2, InsertSize: insertSz, Orientation: orient}
			score := PairScore(cand, stats, primary.Orientation, hasPrimary, penUnpaired)
			proper := isProperPair(cand, stats, primary.Orientation, hasPrimary)

			switch {
			case score > bestScore:
				secondScore = bestScore
				best, bestScore, bestProper, found = cand, score, proper, true
			case score > secondScore:
				secondScore = score
			}
		}
	}
	if !found {
		return PairCandidate{}, false, 0, 0, false
	}
	if math.IsInf(secondScore, -1) {
		// No competing candidate: nothing to boost MAPQ against.
		secondScore = bestScore
	}
	return best, bestProper, bestScore, secondScore, true
}

func classify(r1, r2 galign.AlnReg) insertsize.Orientation {
	return insertsize.Classify(r1.RBegin, r1.Strand == 1, r2.RBegin, r2.Strand == 1)
}

func insertSize(r1, r2 galign.AlnReg) int {
	lo := r1.RBegin
	hi := r1.REnd
	if r2.RBegin < lo {
		lo = r2.RBegin
	}
	if r2.REnd > hi {
		hi = r2.REnd
	}
	return hi - lo
}

// BoostMapQ raises a proper pair's per-mate MAPQ using the joint
// pair-score margin, per spec.md §4.12's "Boost MAPQ of a proper pair
// based on (pairScore − secondBestPairScore) when the primary-only MAPQ
// is low." Reuses the 6.02 Phred-scaling coefficient spec.md §4.10 uses
// for single-end MAPQ, clamped to the same [0, 60] range; never lowers
// an already-confident MAPQ.
func BoostMapQ(mapQ int, pairScore, secondBestPairScore float64) int {
	diff := pairScore - secondBestPairScore
	if diff <= 0 {
		return mapQ
	}
	boosted := int(6.02*diff + 0.499)
	if boosted > 60 {
		boosted = 60
	}
	if boosted > mapQ {
		return boosted
	}
	return mapQ
}
