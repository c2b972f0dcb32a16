// Copyright ©2024 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fmindex

import (
	"strings"
	"testing"
)

// toyIndex builds the 5-row FM-index described by spec.md §3 for the
// 2bp genome "AC" (A=0, C=1): forward genome "AC" + reverse complement
// "GT" + a sentinel, giving the concatenated text "ACGT$" and suffix
// array [4,0,1,2,3] (hand-derived).
func toyIndex() *Index {
	idx := &Index{
		RefSeqLen: 5,
		GenomeLen: 2,
		C:         [5]int64{1, 2, 3, 4, 5},
	}
	block := checkpointBlock{}
	block.bits[3] = 1 << 0 // row0 = 'T'
	block.bits[0] = 1 << 2 // row2 = 'A'
	block.bits[1] = 1 << 3 // row3 = 'C'
	block.bits[2] = 1 << 4 // row4 = 'G'
	idx.cp = checkpoints{blocks: []checkpointBlock{block}, sentinel: 1}
	idx.sa = compressedSA{hi: []int8{0}, lo: []uint32{4}}
	idx.pacOwned = []byte{0x10} // 'A'=00, 'C'=01 packed into the high nibble
	return idx
}

func TestOccCountsBases(t *testing.T) {
	idx := toyIndex()
	if n := idx.occ(0, 3); n != 1 {
		t.Fatalf("expected occ('A', 3)=1, got %d", n)
	}
	if n := idx.occ(3, 1); n != 1 {
		t.Fatalf("expected occ('T', 1)=1, got %d", n)
	}
	if n := idx.occ(1, 2); n != 0 {
		t.Fatalf("expected occ('C', 2)=0, got %d", n)
	}
}

func TestInitIntervalSingleBase(t *testing.T) {
	idx := toyIndex()
	iv := idx.InitInterval(0) // 'A'
	if iv.K != 1 || iv.S != 1 {
		t.Fatalf("expected K=1 S=1 for a unique base, got K=%d S=%d", iv.K, iv.S)
	}
}

func TestExtendBackwardFindsPresentSubstring(t *testing.T) {
	idx := toyIndex()
	iv := idx.InitInterval(1) // 'C'
	iv = idx.ExtendBackward(iv, 0) // prepend 'A' -> "AC"
	if iv.Empty() {
		t.Fatal("expected \"AC\" to be found in the toy text")
	}
	if iv.S != 1 {
		t.Fatalf("expected exactly one occurrence of \"AC\", got S=%d", iv.S)
	}
	if iv.K != 1 {
		t.Fatalf("expected K=1 (the row starting with \"ACGT$\"), got K=%d", iv.K)
	}
}

func TestExtendBackwardRejectsAbsentSubstring(t *testing.T) {
	idx := toyIndex()
	iv := idx.InitInterval(3) // 'T'
	iv = idx.ExtendBackward(iv, 3) // prepend 'T' -> "TT", absent
	if !iv.Empty() {
		t.Fatalf("expected \"TT\" to be absent, got S=%d", iv.S)
	}
}

func TestExtendBackwardOnEmptyIntervalStaysEmpty(t *testing.T) {
	idx := toyIndex()
	empty := Interval{}
	if got := idx.ExtendBackward(empty, 0); !got.Empty() {
		t.Fatalf("expected extending an empty interval to stay empty, got %v", got)
	}
}

func TestResolveSASampledRow(t *testing.T) {
	idx := toyIndex()
	if p := idx.resolveSA(0); p != 4 {
		t.Fatalf("expected the sampled row 0 to resolve directly to SA[0]=4, got %d", p)
	}
}

func TestResolveSAWalksToSentinel(t *testing.T) {
	idx := toyIndex()
	if p := idx.resolveSA(2); p != 1 {
		t.Fatalf("expected LF-mapping from row 2 to resolve to SA[2]=1, got %d", p)
	}
}

func TestBaseReadsPackedGenome(t *testing.T) {
	idx := toyIndex()
	if b := idx.Base(0); b != 0 {
		t.Fatalf("expected Base(0)='A'(0), got %d", b)
	}
	if b := idx.Base(1); b != 1 {
		t.Fatalf("expected Base(1)='C'(1), got %d", b)
	}
	if b := idx.Base(2); b != 4 {
		t.Fatalf("expected Base(2) out of GenomeLen range to return 4, got %d", b)
	}
}

func TestReadAnnotationRoundTrip(t *testing.T) {
	data := "100 2 0\n0 chr1 description here\n0 50 1\n0 chr2\n50 50 0\n"
	ann, err := ReadAnnotation(strings.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ann.Seqs) != 2 {
		t.Fatalf("expected 2 sequences, got %d", len(ann.Seqs))
	}
	if ann.Seqs[0].Name != "chr1" || ann.Seqs[0].Description != "description here" {
		t.Fatalf("unexpected chr1 fields: %+v", ann.Seqs[0])
	}
	if ann.Seqs[1].Offset != 50 || ann.Seqs[1].Length != 50 {
		t.Fatalf("unexpected chr2 offset/length: %+v", ann.Seqs[1])
	}
}

func TestAnnotationDecode(t *testing.T) {
	ann := &Annotation{Seqs: []Sequence{
		{Offset: 0, Length: 50, Name: "chr1"},
		{Offset: 50, Length: 50, Name: "chr2"},
	}}
	seqID, local, ok := ann.Decode(75)
	if !ok || seqID != 1 || local != 25 {
		t.Fatalf("expected (1, 25, true), got (%d, %d, %v)", seqID, local, ok)
	}
	if _, _, ok := ann.Decode(1000); ok {
		t.Fatal("expected an out-of-range position to fail to decode")
	}
}

func TestReadAmbiguityMapAndLookup(t *testing.T) {
	data := "100 1 2\n10 5 N\n80 3 N\n"
	amb, err := ReadAmbiguityMap(strings.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := amb.Lookup(12); !ok {
		t.Fatal("expected position 12 to fall inside the first ambiguity run")
	}
	if _, ok := amb.Lookup(20); ok {
		t.Fatal("expected position 20 to be outside any ambiguity run")
	}
	if !amb.Overlaps(78, 82) {
		t.Fatal("expected [78,82) to overlap the second run [80,83)")
	}
	if amb.Overlaps(0, 5) {
		t.Fatal("expected [0,5) to not overlap any run")
	}
}

func TestBuildForTestingMatchesHandDerivedToyIndex(t *testing.T) {
	idx := BuildForTesting([]byte{0, 1}) // genome "AC"
	want := toyIndex()
	if idx.C != want.C {
		t.Fatalf("C array mismatch: got %v, want %v", idx.C, want.C)
	}
	if idx.cp.sentinel != want.cp.sentinel {
		t.Fatalf("sentinel row mismatch: got %d, want %d", idx.cp.sentinel, want.cp.sentinel)
	}
	if idx.cp.blocks[0] != want.cp.blocks[0] {
		t.Fatalf("checkpoint block mismatch: got %+v, want %+v", idx.cp.blocks[0], want.cp.blocks[0])
	}
}

func TestBuildForTestingBackwardSearchRoundTrip(t *testing.T) {
	// genome "ACGTACGT": confirm backward search for "ACGT" finds at least
	// the two forward occurrences the genome contains (the doubled text
	// holds four, since "ACGT" is its own reverse complement).
	idx := BuildForTesting([]byte{0, 1, 2, 3, 0, 1, 2, 3})
	iv := idx.InitInterval(3) // 'T', the query's last base
	iv = idx.ExtendBackward(iv, 2) // G
	iv = idx.ExtendBackward(iv, 1) // C
	iv = idx.ExtendBackward(iv, 0) // A
	if iv.Empty() {
		t.Fatal("expected \"ACGT\" to be found")
	}
	if iv.S < 2 {
		t.Fatalf("expected at least 2 occurrences of \"ACGT\" in the doubled genome, got S=%d", iv.S)
	}
}

func TestApplyAltFileMarksNamedSequences(t *testing.T) {
	ann := &Annotation{Seqs: []Sequence{{Name: "chr1"}, {Name: "chr1_alt1"}}}
	err := ApplyAltFile(strings.NewReader("@header line\nchr1_alt1\tsome\tfields\n"), ann)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ann.Seqs[0].IsAlt {
		t.Fatal("did not expect chr1 to be marked ALT")
	}
	if !ann.Seqs[1].IsAlt {
		t.Fatal("expected chr1_alt1 to be marked ALT")
	}
}
