// Copyright ©2024 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package insertsize

import (
	"math"
	"math/rand"
	"testing"
)

func TestClassifyFR(t *testing.T) {
	if o := Classify(100, false, 350, true); o != FR {
		t.Fatalf("expected FR, got %v", o)
	}
	if o := Classify(350, true, 100, false); o != FR {
		t.Fatalf("expected FR (mates swapped), got %v", o)
	}
}

func TestClassifyFFRR(t *testing.T) {
	if o := Classify(100, false, 350, false); o != FF {
		t.Fatalf("expected FF, got %v", o)
	}
	if o := Classify(100, true, 350, true); o != RR {
		t.Fatalf("expected RR, got %v", o)
	}
}

func TestEstimateScenario5(t *testing.T) {
	// spec.md §8 scenario 5: FR orientation, true insert 300, 100
	// high-quality pairs -> mean in [290, 310], stddev < 20.
	rng := rand.New(rand.NewSource(1))
	var sizes []int
	for i := 0; i < 100; i++ {
		sizes = append(sizes, 300+int(rng.NormFloat64()*10))
	}
	stats := Estimate(map[Orientation][]int{FR: sizes}, 20)
	st, ok := stats[FR]
	if !ok {
		t.Fatal("expected FR stats to be produced")
	}
	if st.Mean < 290 || st.Mean > 310 {
		t.Fatalf("mean %v out of expected range", st.Mean)
	}
	if st.StdDev >= 20 {
		t.Fatalf("stddev %v too large", st.StdDev)
	}
}

func TestEstimateIdempotentWithinWindow(t *testing.T) {
	sizes := make([]int, 0, 200)
	for i := 0; i < 200; i++ {
		sizes = append(sizes, 300+(i%21)-10)
	}
	first := estimateOne(FR, sizes)

	var within []int
	for _, s := range sizes {
		if float64(s) >= float64(first.Mean-4*first.StdDev) && float64(s) <= float64(first.Mean+4*first.StdDev) {
			within = append(within, s)
		}
	}
	second := estimateOne(FR, within)
	if math.Abs(first.Mean-second.Mean) > 1 {
		t.Fatalf("mean drifted: %v vs %v", first.Mean, second.Mean)
	}
}

func TestEstimateBelowMinSamplesDropped(t *testing.T) {
	stats := Estimate(map[Orientation][]int{FR: {300, 301, 302}}, 20)
	if _, ok := stats[FR]; ok {
		t.Fatal("expected bucket below minSamples to be dropped")
	}
}
