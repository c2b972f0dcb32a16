// Copyright ©2024 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package seeding

import (
	"testing"

	"github.com/biogo/bwamem2/fmindex"
)

func TestFindAllFindsFullReadMatch(t *testing.T) {
	idx := fmindex.BuildForTesting([]byte{0, 1, 2, 3, 0, 1, 2, 3, 0, 1, 2, 3})
	f := NewFinder(idx, 4)
	read := []byte{0, 1, 2, 3}
	mems := f.FindAll(read)
	if len(mems) == 0 {
		t.Fatal("expected at least one SMEM for a read that matches the genome exactly")
	}
	found := false
	for _, m := range mems {
		if m.QBegin == 0 && m.QEnd == 4 {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an SMEM spanning the full read [0,4), got %+v", mems)
	}
}

func TestFindAllSkipsAmbiguousBases(t *testing.T) {
	idx := fmindex.BuildForTesting([]byte{0, 1, 2, 3, 0, 1, 2, 3})
	f := NewFinder(idx, 2)
	read := []byte{0, 1, 4, 2, 3} // N in the middle
	mems := f.FindAll(read)
	for _, m := range mems {
		if m.QBegin <= 2 && m.QEnd > 2 {
			t.Fatalf("expected no SMEM to span the ambiguous base at position 2, got %+v", m)
		}
	}
}

func TestFindAllEmptyRead(t *testing.T) {
	idx := fmindex.BuildForTesting([]byte{0, 1, 2, 3})
	f := NewFinder(idx, 2)
	if mems := f.FindAll(nil); len(mems) != 0 {
		t.Fatalf("expected no SMEMs for an empty read, got %v", mems)
	}
}

func TestSMEMLen(t *testing.T) {
	m := SMEM{QBegin: 3, QEnd: 10}
	if m.Len() != 7 {
		t.Fatalf("expected length 7, got %d", m.Len())
	}
}

func TestNewFinderDefaultsMinIntv(t *testing.T) {
	idx := fmindex.BuildForTesting([]byte{0, 1, 2, 3})
	f := NewFinder(idx, 2)
	if f.MinIntv != 1 {
		t.Fatalf("expected MinIntv to default to 1, got %d", f.MinIntv)
	}
}
