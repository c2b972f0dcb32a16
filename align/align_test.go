// Copyright ©2024 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package align

import (
	"strings"
	"testing"

	"github.com/biogo/bwamem2/fmindex"
)

// encode converts an ACGT string into 2-bit bases (spec.md §3).
func encode(s string) []byte {
	out := make([]byte, len(s))
	for i, c := range s {
		switch c {
		case 'A':
			out[i] = 0
		case 'C':
			out[i] = 1
		case 'G':
			out[i] = 2
		case 'T':
			out[i] = 3
		default:
			out[i] = 4
		}
	}
	return out
}

func refName(int) string { return "chr1" }

// TestAlignReadPerfectUniqueMatch exercises spec.md §8 scenario 1: a
// perfect unique match at a non-repetitive locus scores readLen*match,
// gets MAPQ 60 and a single all-match CIGAR.
func TestAlignReadPerfectUniqueMatch(t *testing.T) {
	genome := "ACGGTTCAGTCAGGTACCTGACGTTAGGCATCGATCGTAGCTAGCATGCATGGCTAGCATG"
	read := genome[:20] // occurs exactly once in genome, per spec.md §8's "perfect unique match" scenario.
	idx := fmindex.BuildForTesting(encode(genome))
	cfg := DefaultConfig()
	// The default sub score is MinSeedLen*match = 10, so the 20bp hit
	// reaches MAPQ 6.02*(20-10) = 60.
	cfg.MinSeedLen = 10
	cfg.MinOutputScore = 0
	a := NewAligner(idx, cfg)

	rd := Read{Name: "r1", Bases: encode(read), Qual: strings.Repeat("I", len(read))}
	res := a.AlignRead(rd, 0)
	if len(res.Regions) == 0 {
		t.Fatal("expected at least one region for a read matching the genome")
	}

	recs := a.Emit(rd, res, refName, 0)
	if len(recs) == 0 {
		t.Fatal("expected at least one emitted record")
	}
	primary := recs[0]
	if primary.Cigar != "20M" {
		t.Errorf("expected CIGAR 20M, got %s", primary.Cigar)
	}
	if primary.MapQ != 60 {
		t.Errorf("expected MAPQ 60 for a unique perfect match, got %d", primary.MapQ)
	}
	if primary.Pos != 0 {
		t.Errorf("expected position 0, got %d", primary.Pos)
	}
}

// TestAlignReadSingleMismatch exercises spec.md §8 scenario 3: a single
// internal mismatch yields one CIGAR op, NM=1 and a matching MD string.
func TestAlignReadSingleMismatch(t *testing.T) {
	genome := "ACGTACGTACGT"
	idx := fmindex.BuildForTesting(encode(genome))
	cfg := DefaultConfig()
	cfg.MinSeedLen = 4
	cfg.MinOutputScore = 0
	a := NewAligner(idx, cfg)

	read := Read{Name: "r1", Bases: encode("ACGTAGGTACGT"), Qual: strings.Repeat("I", 12)}
	res := a.AlignRead(read, 0)
	if len(res.Regions) == 0 {
		t.Fatal("expected at least one region")
	}
	r := res.Regions[0]
	if r.NM != 1 {
		t.Errorf("expected NM=1, got %d", r.NM)
	}
	if r.Cigar.String() != "12M" {
		t.Errorf("expected CIGAR 12M, got %s", r.Cigar.String())
	}
	if r.MD != "5C6" {
		t.Errorf("expected MD 5C6, got %s", r.MD)
	}
}

// TestAlignReadEmptyRead exercises spec.md §8's boundary behavior: an
// empty read always yields an unmapped record.
func TestAlignReadEmptyRead(t *testing.T) {
	idx := fmindex.BuildForTesting(encode("ACGTACGT"))
	a := NewAligner(idx, DefaultConfig())
	read := Read{Name: "empty"}
	res := a.AlignRead(read, 0)
	recs := a.Emit(read, res, refName, 0)
	if len(recs) != 1 {
		t.Fatalf("expected exactly one unmapped record, got %d", len(recs))
	}
	if recs[0].RName != "*" {
		t.Errorf("expected unmapped record, got RName=%s", recs[0].RName)
	}
}

// TestAlignReadOnlyAmbiguous exercises spec.md §8: a read containing only
// N bases never produces a seed and is reported unmapped.
func TestAlignReadOnlyAmbiguous(t *testing.T) {
	idx := fmindex.BuildForTesting(encode("ACGTACGT"))
	a := NewAligner(idx, DefaultConfig())
	read := Read{Name: "n-only", Bases: []byte{4, 4, 4, 4}, Qual: "IIII"}
	res := a.AlignRead(read, 0)
	recs := a.Emit(read, res, refName, 0)
	if len(recs) != 1 || recs[0].RName != "*" {
		t.Fatalf("expected unmapped record for an all-N read, got %+v", recs)
	}
}
