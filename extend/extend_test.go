// Copyright ©2024 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package extend

import (
	"testing"

	"github.com/biogo/bwamem2/chaining"
	"github.com/biogo/bwamem2/fmindex"
	"github.com/biogo/bwamem2/swkernel"
)

func defaultScores() swkernel.Scores {
	return swkernel.Scores{
		Match:        1,
		Mismatch:     4,
		GapOpenIns:   6,
		GapExtendIns: 1,
		GapOpenDel:   6,
		GapExtendDel: 1,
		ZDrop:        100,
	}
}

// TestExtendFullLengthSeedYieldsPerfectRegion exercises spec.md §4.5: a
// seed already spanning the whole read against an exact-matching reference
// extends to a single region with no clipping.
func TestExtendFullLengthSeedYieldsPerfectRegion(t *testing.T) {
	genome := []byte{0, 1, 2, 3, 0, 1, 2, 3, 0, 1, 2, 3, 0, 1, 2, 3}
	idx := fmindex.BuildForTesting(genome)
	read := []byte{0, 1, 2, 3, 0, 1, 2, 3}
	chain := chaining.Chain{
		Seeds: []chaining.Seed{{RefBegin: 0, QueryBegin: 0, Length: 8, ScoreEstimate: 8}},
		RefID: 0,
	}
	cfg := Config{Sc: defaultScores(), Bandwidth: 10, PenClip5: 5, PenClip3: 5, MinSeedLen: 8}
	regions := Extend(idx, read, chain, cfg, false)
	if len(regions) != 1 {
		t.Fatalf("expected exactly one region, got %d", len(regions))
	}
	r := regions[0]
	if r.QBegin != 0 || r.QEnd != 8 {
		t.Errorf("expected full-length query span [0,8), got [%d,%d)", r.QBegin, r.QEnd)
	}
	if r.Score != 8 {
		t.Errorf("expected score 8 for an 8bp perfect match, got %d", r.Score)
	}
	if r.Strand != 0 {
		t.Errorf("expected forward strand, got %d", r.Strand)
	}
}

// TestExtendExtendsPastSeedBoundaries exercises spec.md §4.5: a seed
// covering only part of the read extends left and right into the
// remaining matching bases.
func TestExtendExtendsPastSeedBoundaries(t *testing.T) {
	genome := []byte{0, 1, 2, 3, 0, 1, 2, 3, 0, 1, 2, 3}
	idx := fmindex.BuildForTesting(genome)
	read := []byte{0, 1, 2, 3, 0, 1, 2, 3, 0, 1, 2, 3}
	// Seed covers only the middle 4bp [4,8); left/right extension should
	// recover the flanking matches.
	chain := chaining.Chain{
		Seeds: []chaining.Seed{{RefBegin: 4, QueryBegin: 4, Length: 4, ScoreEstimate: 4}},
		RefID: 0,
	}
	cfg := Config{Sc: defaultScores(), Bandwidth: 10, PenClip5: 5, PenClip3: 5, MinSeedLen: 4}
	regions := Extend(idx, read, chain, cfg, false)
	if len(regions) != 1 {
		t.Fatalf("expected exactly one region, got %d", len(regions))
	}
	r := regions[0]
	if r.QBegin != 0 || r.QEnd != 12 {
		t.Errorf("expected the region to extend to the full read [0,12), got [%d,%d)", r.QBegin, r.QEnd)
	}
}

// TestExtendCoveredSeedUpdatesSub exercises spec.md §4.5: a second seed
// whose query span is already covered by a produced region only updates
// that region's Sub/SubN bookkeeping instead of producing a new region.
func TestExtendCoveredSeedUpdatesSub(t *testing.T) {
	genome := []byte{0, 1, 2, 3, 0, 1, 2, 3, 0, 1, 2, 3}
	idx := fmindex.BuildForTesting(genome)
	read := []byte{0, 1, 2, 3, 0, 1, 2, 3}
	chain := chaining.Chain{
		Seeds: []chaining.Seed{
			{RefBegin: 0, QueryBegin: 0, Length: 8, ScoreEstimate: 8},
			{RefBegin: 0, QueryBegin: 2, Length: 4, ScoreEstimate: 4},
		},
		RefID: 0,
	}
	cfg := Config{Sc: defaultScores(), Bandwidth: 10, PenClip5: 5, PenClip3: 5, MinSeedLen: 4}
	regions := Extend(idx, read, chain, cfg, false)
	if len(regions) != 1 {
		t.Fatalf("expected the covered second seed to not create a new region, got %d regions", len(regions))
	}
	if regions[0].Sub != 4 || regions[0].SubN != 1 {
		t.Errorf("expected the covered seed to set Sub=4 and SubN=1, got Sub=%d SubN=%d", regions[0].Sub, regions[0].SubN)
	}
}

func TestExtendSetsReverseStrand(t *testing.T) {
	genome := []byte{0, 1, 2, 3, 0, 1, 2, 3}
	idx := fmindex.BuildForTesting(genome)
	read := []byte{0, 1, 2, 3}
	chain := chaining.Chain{
		Seeds: []chaining.Seed{{RefBegin: 0, QueryBegin: 0, Length: 4, ScoreEstimate: 4}},
		RefID: 0,
	}
	cfg := Config{Sc: defaultScores(), Bandwidth: 10, PenClip5: 5, PenClip3: 5, MinSeedLen: 4}
	regions := Extend(idx, read, chain, cfg, true)
	if len(regions) != 1 {
		t.Fatalf("expected exactly one region, got %d", len(regions))
	}
	if regions[0].Strand != 1 {
		t.Errorf("expected reverse strand, got %d", regions[0].Strand)
	}
}
