// Copyright ©2024 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package secondary

import (
	"testing"

	"github.com/biogo/bwamem2/galign"
)

func TestMarkNonAltSimple(t *testing.T) {
	regions := []galign.AlnReg{
		{QBegin: 0, QEnd: 100, Score: 100},
		{QBegin: 0, QEnd: 100, Score: 80},
	}
	cfg := Config{MatchScore: 1, MismatchPenalty: 4, MaskLevel: 0.5}
	Mark(regions, cfg, 0)

	if regions[0].Secondary != -1 {
		t.Fatalf("expected best region to remain primary, got Secondary=%d", regions[0].Secondary)
	}
	if regions[1].Secondary != 0 {
		t.Fatalf("expected overlapping region to be secondary of 0, got %d", regions[1].Secondary)
	}
	if regions[0].Sub != 80 {
		t.Fatalf("expected primary.Sub=80, got %d", regions[0].Sub)
	}
}

func TestMarkDisjointBothPrimary(t *testing.T) {
	regions := []galign.AlnReg{
		{QBegin: 0, QEnd: 50, Score: 50},
		{QBegin: 60, QEnd: 110, Score: 50},
	}
	cfg := Config{MatchScore: 1, MismatchPenalty: 4, MaskLevel: 0.5}
	Mark(regions, cfg, 0)

	for i, r := range regions {
		if r.Secondary != -1 {
			t.Fatalf("region %d: expected disjoint regions to both be primary, got Secondary=%d", i, r.Secondary)
		}
	}
}

func TestMarkIdempotent(t *testing.T) {
	regions := []galign.AlnReg{
		{QBegin: 0, QEnd: 100, Score: 100},
		{QBegin: 0, QEnd: 100, Score: 80},
		{QBegin: 0, QEnd: 100, Score: 60},
	}
	cfg := Config{MatchScore: 1, MismatchPenalty: 4, MaskLevel: 0.5}
	Mark(regions, cfg, 3)
	first := make([]int, len(regions))
	for i, r := range regions {
		first[i] = r.Secondary
	}
	Mark(regions, cfg, 3)
	for i, r := range regions {
		if r.Secondary != first[i] {
			t.Fatalf("region %d: secondary marking not idempotent: %d != %d", i, r.Secondary, first[i])
		}
	}
}

func TestMarkAltScenario(t *testing.T) {
	regions := []galign.AlnReg{
		{QBegin: 0, QEnd: 100, Score: 80, IsAlt: false},
		{QBegin: 0, QEnd: 100, Score: 120, IsAlt: true},
	}
	cfg := Config{MatchScore: 1, MismatchPenalty: 4, MaskLevel: 0.5, UseAlt: true}
	Mark(regions, cfg, 0)

	if regions[0].Secondary != -1 {
		t.Fatalf("expected non-ALT region to remain primary under ALT-aware marking, got Secondary=%d", regions[0].Secondary)
	}
	if regions[0].AltSc != 120 {
		t.Fatalf("expected non-ALT primary.AltSc=120, got %d", regions[0].AltSc)
	}
}
