// Copyright ©2024 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fmindex

import (
	"encoding/binary"
	"fmt"
	"io"
)

// compressedSA holds the suffix array samples taken every 8 positions, as
// described in spec.md §3: each sample is packed as an 8-bit high byte and
// a 32-bit low word rather than a full 64-bit integer.
type compressedSA struct {
	hi []int8
	lo []uint32
}

// sampleRate is the SA sampling interval (spec.md §3: "sampled every 8
// positions").
const sampleRate = 8

func (sa compressedSA) sampled(i int64) int64 {
	return int64(sa.hi[i])<<32 | int64(sa.lo[i])
}

// readCompressedSA reads the SA high-byte and low-word arrays and the
// trailing sentinel position, which sits in the final 8 bytes of the file
// (spec.md §6).
func readCompressedSA(ra io.ReaderAt, offset int64, n int, refSeqLen int64) (compressedSA, int64, error) {
	hiBuf := make([]byte, n)
	if _, err := ra.ReadAt(hiBuf, offset); err != nil {
		return compressedSA{}, 0, fmt.Errorf("%w: SA high bytes: %v", ErrIndexCorrupted, err)
	}
	hi := make([]int8, n)
	for i, b := range hiBuf {
		hi[i] = int8(b)
	}

	loOff := offset + int64(n)
	loBuf := make([]byte, n*4)
	if _, err := ra.ReadAt(loBuf, loOff); err != nil {
		return compressedSA{}, 0, fmt.Errorf("%w: SA low words: %v", ErrIndexCorrupted, err)
	}
	lo := make([]uint32, n)
	for i := range lo {
		lo[i] = binary.LittleEndian.Uint32(loBuf[4*i:])
	}

	sentinelBuf := make([]byte, 8)
	sentinelOff := loOff + int64(n)*4
	if _, err := ra.ReadAt(sentinelBuf, sentinelOff); err != nil {
		return compressedSA{}, 0, fmt.Errorf("%w: sentinel position: %v", ErrIndexCorrupted, err)
	}
	sentinel := int64(binary.LittleEndian.Uint64(sentinelBuf))
	if sentinel < 0 || sentinel > refSeqLen {
		return compressedSA{}, 0, fmt.Errorf("%w: sentinel position %d out of range", ErrIndexCorrupted, sentinel)
	}

	return compressedSA{hi: hi, lo: lo}, sentinel, nil
}

// resolveSA resolves the suffix-array value at BWT position p by walking
// LF-mapping until a sampled position is reached, as described in
// spec.md §3.
func (idx *Index) resolveSA(p int64) int64 {
	var steps int64
	for p%sampleRate != 0 {
		c := idx.bwtBase(p)
		if c == 4 {
			// The sentinel row: LF-mapping from the sentinel lands
			// at SA position 0 by construction.
			return steps
		}
		p = idx.C[c] + idx.occ(c, p)
		steps++
	}
	return idx.sa.sampled(p/sampleRate) + steps
}

// bwtBase returns the BWT base at row p, derived from the checkpoint
// bitstrings rather than stored separately.
func (idx *Index) bwtBase(p int64) byte {
	if p == idx.cp.sentinel {
		return 4
	}
	block := idx.cp.blocks[p/64]
	bitIdx := uint(p % 64)
	for c := byte(0); c < 4; c++ {
		if block.bits[c]&(uint64(1)<<bitIdx) != 0 {
			return c
		}
	}
	return 4
}
