// Copyright ©2024 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mapq

import "testing"

func TestComputeUniqueHit(t *testing.T) {
	p := Params{MatchScore: 1, MismatchPenalty: 4, MinSeedLen: 19}
	m := Compute(p, 0, 100, 0, 100, 100, 0, 0, 0, 0)
	if m != 60 {
		t.Fatalf("expected a perfect unique hit to cap at 60, got %d", m)
	}
}

func TestComputeZeroWhenSubBeatsScore(t *testing.T) {
	p := Params{MatchScore: 1, MismatchPenalty: 4, MinSeedLen: 19}
	m := Compute(p, 0, 100, 0, 100, 50, 50, 0, 0, 0)
	if m != 0 {
		t.Fatalf("expected MAPQ 0 when sub >= score, got %d", m)
	}
}

func TestComputeDecreasesWithSubN(t *testing.T) {
	p := Params{MatchScore: 1, MismatchPenalty: 4, MinSeedLen: 19}
	low := Compute(p, 0, 100, 0, 100, 100, 90, 0, 0, 0)
	high := Compute(p, 0, 100, 0, 100, 100, 90, 0, 5, 0)
	if high >= low {
		t.Fatalf("expected more near-equal competitors (subN) to lower MAPQ: low=%d high=%d", low, high)
	}
}

func TestComputeFracRepScalesDown(t *testing.T) {
	p := Params{MatchScore: 1, MismatchPenalty: 4, MinSeedLen: 19}
	full := Compute(p, 0, 100, 0, 100, 100, 0, 0, 0, 0)
	repeat := Compute(p, 0, 100, 0, 100, 100, 0, 0, 0, 0.5)
	if repeat >= full {
		t.Fatalf("expected fracRep to scale MAPQ down: full=%d repeat=%d", full, repeat)
	}
	if repeat != int(float64(full)*0.5) {
		t.Fatalf("expected repeat MAPQ = full*(1-fracRep), got full=%d repeat=%d", full, repeat)
	}
}

func TestComputeNeverNegative(t *testing.T) {
	p := Params{MatchScore: 1, MismatchPenalty: 4, MinSeedLen: 19}
	m := Compute(p, 0, 20, 0, 20, 21, 0, 0, 1000, 0)
	if m < 0 {
		t.Fatalf("MAPQ must never be negative, got %d", m)
	}
}
