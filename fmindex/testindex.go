// Copyright ©2024 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fmindex

import "sort"

// BuildForTesting constructs a fully in-memory Index for a small 2-bit
// encoded genome (values 0-3; no ambiguous bases) by brute-force suffix
// array construction. It is O(n^2 log n) and exists only so package
// tests elsewhere in this module can exercise real backward search,
// LF-mapping and checkpoint rank queries without a built on-disk index;
// production indices are always produced externally and loaded via
// Load/LoadXZ.
func BuildForTesting(genome []byte) *Index {
	n := len(genome)
	rc := make([]byte, n)
	for i, b := range genome {
		rc[n-1-i] = 3 - b
	}
	text := make([]int16, 2*n+1)
	for i, b := range genome {
		text[i] = int16(b)
	}
	for i, b := range rc {
		text[n+i] = int16(b)
	}
	text[2*n] = -1 // sentinel, sorts before every base

	refSeqLen := int64(len(text))
	sa := make([]int, len(text))
	for i := range sa {
		sa[i] = i
	}
	less := func(i, j int) bool {
		a, b := sa[i], sa[j]
		for a < len(text) && b < len(text) {
			if text[a] != text[b] {
				return text[a] < text[b]
			}
			a++
			b++
		}
		return a == len(text)
	}
	sort.Slice(sa, less)

	bwt := make([]int16, len(text))
	sentinelRow := -1
	for i, s := range sa {
		if s == 0 {
			bwt[i] = -1
			sentinelRow = i
		} else {
			bwt[i] = text[s-1]
		}
	}

	var cCount [4]int64
	for _, b := range genome {
		cCount[b]++
	}
	for _, b := range rc {
		cCount[b]++
	}
	var C [5]int64
	running := int64(1)
	for c := 0; c < 5; c++ {
		C[c] = running
		if c < 4 {
			running += cCount[c]
		}
	}

	nBlocks := len(text)/64 + 1
	blocks := make([]checkpointBlock, nBlocks)
	var cum [4]int64
	for i := 0; i < len(text); i++ {
		block := i / 64
		within := uint(i % 64)
		if within == 0 {
			blocks[block].count = cum
		}
		if bwt[i] >= 0 {
			blocks[block].bits[bwt[i]] |= 1 << within
			cum[bwt[i]]++
		}
	}

	nSamples := len(text)/sampleRate + 1
	hi := make([]int8, nSamples)
	lo := make([]uint32, nSamples)
	for i := 0; i < len(text); i += sampleRate {
		hi[i/sampleRate] = int8(sa[i] >> 32)
		lo[i/sampleRate] = uint32(sa[i])
	}

	idx := &Index{
		RefSeqLen: refSeqLen,
		GenomeLen: int64(n),
		C:         C,
		cp:        checkpoints{blocks: blocks, sentinel: int64(sentinelRow)},
		sa:        compressedSA{hi: hi, lo: lo},
	}

	packed := make([]byte, (n+3)/4)
	for i, b := range genome {
		packed[i/4] |= b << uint(6-2*(i%4))
	}
	idx.pacOwned = packed
	idx.Seqs = &Annotation{Seqs: []Sequence{{Offset: 0, Length: int64(n), Name: "chr1"}}}
	idx.Ambiguous = &AmbiguityMap{}
	return idx
}
