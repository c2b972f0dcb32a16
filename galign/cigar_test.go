// Copyright ©2024 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package galign

import "testing"

func TestCigarOpPackUnpack(t *testing.T) {
	op := NewCigarOp(OpMatch, 8)
	if op.Type() != OpMatch || op.Len() != 8 {
		t.Fatalf("expected Type=M Len=8, got Type=%v Len=%d", op.Type(), op.Len())
	}
	if op.String() != "8M" {
		t.Fatalf("expected \"8M\", got %q", op.String())
	}
}

func TestCigarStringAndLengths(t *testing.T) {
	c := Cigar{NewCigarOp(OpSoftClip, 2), NewCigarOp(OpMatch, 8), NewCigarOp(OpDeletion, 1), NewCigarOp(OpMatch, 4)}
	if got := c.String(); got != "2S8M1D4M" {
		t.Fatalf("unexpected CIGAR string: %q", got)
	}
	ref, query := c.Lengths()
	if ref != 13 {
		t.Fatalf("expected ref-consuming length 13, got %d", ref)
	}
	if query != 14 {
		t.Fatalf("expected query-consuming length 14, got %d", query)
	}
}

func TestCigarEmptyStringIsStar(t *testing.T) {
	var c Cigar
	if c.String() != "*" {
		t.Fatalf("expected \"*\" for an empty CIGAR, got %q", c.String())
	}
}

func TestCigarAppendMerges(t *testing.T) {
	var c Cigar
	c = c.Append(OpMatch, 3)
	c = c.Append(OpMatch, 5)
	if len(c) != 1 || c[0].Len() != 8 {
		t.Fatalf("expected adjacent same-type ops to merge into one 8M, got %v", c)
	}
	c = c.Append(OpInsertion, 2)
	if len(c) != 2 {
		t.Fatalf("expected a distinct op type to append separately, got %v", c)
	}
}

func TestCigarAppendSkipsZeroLength(t *testing.T) {
	var c Cigar
	c = c.Append(OpMatch, 0)
	if len(c) != 0 {
		t.Fatalf("expected a zero-length append to be a no-op, got %v", c)
	}
}

func TestCigarReverse(t *testing.T) {
	c := Cigar{NewCigarOp(OpMatch, 1), NewCigarOp(OpDeletion, 2), NewCigarOp(OpMatch, 3)}
	c.Reverse()
	if c.String() != "3M2D1M" {
		t.Fatalf("unexpected reversed CIGAR: %q", c.String())
	}
}
