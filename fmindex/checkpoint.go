// Copyright ©2024 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fmindex

import (
	"encoding/binary"
	"fmt"
	"io"
	"math/bits"
)

// checkpointBlock is one 64-base checkpoint in the BWT, laid out exactly as
// described in spec.md §3: cumulative counts of A, C, G, T before the block,
// followed by one one-hot bitstring per base marking which positions in the
// block hold that base.
type checkpointBlock struct {
	count [4]int64
	bits  [4]uint64
}

// checkpoints is the full ordered array of BWT checkpoints, one per 64-base
// block, plus the sentinel's position recorded once.
type checkpoints struct {
	blocks   []checkpointBlock
	sentinel int64
}

func readCheckpoints(ra io.ReaderAt, offset int64, n int) (checkpoints, error) {
	buf := make([]byte, n*checkptSize)
	if _, err := ra.ReadAt(buf, offset); err != nil {
		return checkpoints{}, fmt.Errorf("%w: checkpoint array: %v", ErrIndexCorrupted, err)
	}
	blocks := make([]checkpointBlock, n)
	for i := range blocks {
		b := buf[i*checkptSize:]
		for c := 0; c < 4; c++ {
			blocks[i].count[c] = int64(binary.LittleEndian.Uint64(b[8*c:]))
		}
		for c := 0; c < 4; c++ {
			blocks[i].bits[c] = binary.LittleEndian.Uint64(b[32+8*c:])
		}
	}
	return checkpoints{blocks: blocks}, nil
}

// oneHotMask returns a mask selecting bit positions [0, r) within a 64-bit
// checkpoint word, used to count occurrences strictly before an
// intra-block offset r (0 <= r <= 64).
func oneHotMask(r int) uint64 {
	if r >= 64 {
		return ^uint64(0)
	}
	if r <= 0 {
		return 0
	}
	return (uint64(1) << uint(r)) - 1
}

// occ returns the number of occurrences of base c in the BWT in positions
// [0, p), i.e. the rank query described in spec.md §4.1.
func (idx *Index) occ(c byte, p int64) int64 {
	if p <= 0 {
		return 0
	}
	if p > idx.RefSeqLen {
		p = idx.RefSeqLen
	}
	block := p / 64
	within := int(p % 64)
	cp := idx.cp.blocks[block]
	n := cp.count[c] + int64(bits.OnesCount64(cp.bits[c]&oneHotMask(within)))
	// The sentinel occupies one BWT position that never belongs to any
	// of A,C,G,T's one-hot bitstrings; spec.md §3 calls this "an
	// off-by-one correction ... whenever an interval crosses the
	// sentinel index, one occurrence is shifted from T's ladder." The
	// sentinel itself is excluded from all four counts by construction
	// (its bit is set in none of the four bitstrings), so no extra
	// adjustment is needed here; the caller applies the ladder-level
	// correction when building the l array (see backward.go).
	return n
}

// sentinelBetween reports whether the sentinel position lies in [lo, hi).
func (idx *Index) sentinelBetween(lo, hi int64) bool {
	return idx.cp.sentinel >= lo && idx.cp.sentinel < hi
}
