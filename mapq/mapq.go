// Copyright ©2024 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mapq computes the Phred-scaled mapping quality described in
// spec.md §4.10. The mapQCoefFac=3 constant is preserved as the literal
// integer 3 (a C `(int)log(50)` truncation, per spec.md §9) for bit-exact
// agreement with reference implementations.
package mapq

import "math"

const mapQCoefFac = 3

// Params carries the scoring constants needed alongside a region's score.
type Params struct {
	MatchScore      int32
	MismatchPenalty int32
	MinSeedLen      int
}

// Compute returns the MAPQ for a region with score S and sub-optimal
// score sub (spec.md §4.10). csub is the chain-filter sub-optimal
// candidate; subN is the count of near-equal competitors; fracRep is the
// fraction of the read covered by repeats (0 if unknown).
func Compute(p Params, qb, qe, rb, re int, score, sub, csub int32, subN int, fracRep float64) int {
	if sub == 0 {
		sub = int32(p.MinSeedLen) * p.MatchScore
	}
	if csub > sub {
		sub = csub
	}
	if sub >= score {
		return 0
	}

	l := qe - qb
	if re-rb > l {
		l = re - rb
	}
	a := float64(p.MatchScore)
	b := float64(p.MismatchPenalty)
	identity := 1 - (float64(l)*a-float64(score))/((a+b)*float64(l))

	var tmp float64
	if l < 50 {
		tmp = 1
	} else {
		tmp = mapQCoefFac / math.Log(float64(l))
	}
	tmp *= identity * identity

	mapqF := 6.02 * float64(score-sub) / a * tmp * tmp
	m := int(mapqF + 0.499)
	m -= int(4.343*math.Log(float64(subN+1)) + 0.5)

	if m > 60 {
		m = 60
	}
	if m < 0 {
		m = 0
	}
	m = int(float64(m) * (1 - fracRep))
	return m
}
