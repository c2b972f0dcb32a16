// Copyright ©2024 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chaining

import "testing"

func TestFilterDropsBelowMinWeight(t *testing.T) {
	chains := []Chain{
		{Seeds: []Seed{{RefBegin: 0, QueryBegin: 0, Length: 10}}, Weight: 10, FirstShadowed: -1},
		{Seeds: []Seed{{RefBegin: 1000, QueryBegin: 0, Length: 5}}, Weight: 5, FirstShadowed: -1},
	}
	out := Filter(chains, FilterConfig{MinChainWeight: 10, MinSeedLen: 10, MaskLevel: 0.5, MaxChainGap: 100, ChainDropRatio: 0.5})
	if len(out) != 1 {
		t.Fatalf("expected the weight-5 chain to be dropped, got %d chains", len(out))
	}
	if out[0].Weight != 10 {
		t.Fatalf("expected the surviving chain to have weight 10, got %d", out[0].Weight)
	}
	if out[0].Kept != 3 {
		t.Fatalf("expected a clean top chain to be Kept=3, got %d", out[0].Kept)
	}
}

// TestFilterSuppressesOverlappingWeakerChain exercises spec.md §4.4: a
// chain whose query span is mostly covered by a much heavier chain is
// suppressed, but recovered (Kept=1) so MAPQ has a sub-optimal score to
// compare against (spec.md §9).
func TestFilterSuppressesOverlappingWeakerChain(t *testing.T) {
	chains := []Chain{
		{Seeds: []Seed{{RefBegin: 0, QueryBegin: 0, Length: 40}}, Weight: 40, FirstShadowed: -1},
		{Seeds: []Seed{{RefBegin: 2000, QueryBegin: 0, Length: 40}}, Weight: 20, FirstShadowed: -1},
	}
	out := Filter(chains, FilterConfig{MinChainWeight: 10, MinSeedLen: 10, MaskLevel: 0.5, MaxChainGap: 100, ChainDropRatio: 0.8})
	if len(out) != 2 {
		t.Fatalf("expected the suppressed chain to be recovered as informational, got %d chains", len(out))
	}
	var sawKept3, sawKept1 bool
	for _, c := range out {
		switch c.Kept {
		case 3:
			sawKept3 = true
		case 1:
			sawKept1 = true
		}
	}
	if !sawKept3 || !sawKept1 {
		t.Fatalf("expected one Kept=3 chain and one recovered Kept=1 chain, got %+v", out)
	}
}

// TestFilterAltNeverSuppressesNonAlt exercises spec.md §4.4: an ALT chain
// must never suppress a non-ALT candidate, even with a large overlap and a
// much higher weight.
func TestFilterAltNeverSuppressesNonAlt(t *testing.T) {
	chains := []Chain{
		{Seeds: []Seed{{RefBegin: 0, QueryBegin: 0, Length: 40}}, Weight: 40, IsAlt: true, FirstShadowed: -1},
		{Seeds: []Seed{{RefBegin: 2000, QueryBegin: 0, Length: 40}}, Weight: 20, FirstShadowed: -1},
	}
	out := Filter(chains, FilterConfig{MinChainWeight: 10, MinSeedLen: 10, MaskLevel: 0.5, MaxChainGap: 100, ChainDropRatio: 0.8})
	if len(out) != 2 {
		t.Fatalf("expected both chains to survive since an ALT chain cannot suppress a non-ALT one, got %d", len(out))
	}
	for _, c := range out {
		if !c.IsAlt && c.Kept == 0 {
			t.Fatalf("non-ALT chain must not be dropped by an ALT chain, got %+v", c)
		}
	}
}

func TestFilterNoChainsReturnsEmpty(t *testing.T) {
	out := Filter(nil, FilterConfig{MinChainWeight: 1})
	if len(out) != 0 {
		t.Fatalf("expected no chains from an empty input, got %d", len(out))
	}
}
