// Copyright ©2024 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fmindex

// Base returns the 2-bit base (or 4 for an out-of-range/ambiguous
// position) at forward-genome position p, generalizing fai.File.SeqRange's
// mmap-backed byte slicing from 1-byte-per-base FASTA text to 4-bases-
// per-byte packing (highest 2 bits hold the first base of each byte, per
// spec.md §6).
func (idx *Index) Base(p int64) byte {
	if p < 0 || p >= idx.GenomeLen {
		return 4
	}
	byteIdx := p / 4
	shift := uint(6 - 2*(p%4))
	var buf [1]byte
	idx.readPac(buf[:], byteIdx)
	return (buf[0] >> shift) & 3
}

// Bases fills dst with the 2-bit bases for forward-genome positions
// [start, start+len(dst)). Positions outside [0, GenomeLen) are filled
// with 4.
func (idx *Index) Bases(start int64, dst []byte) {
	for i := range dst {
		dst[i] = idx.Base(start + int64(i))
	}
}

// ReflectPos reflects a position for reverse-strand coordinate handling,
// per spec.md §4.11: pos -> 2*GenomeLen - 1 - pos.
func (idx *Index) ReflectPos(pos int64) int64 {
	return 2*idx.GenomeLen - 1 - pos
}

func (idx *Index) readPac(dst []byte, byteOffset int64) {
	if idx.pacOwned != nil {
		if byteOffset >= 0 && byteOffset < int64(len(idx.pacOwned)) {
			copy(dst, idx.pacOwned[byteOffset:])
			return
		}
		return
	}
	if idx.pac != nil {
		idx.pac.ReadAt(dst, byteOffset)
	}
}
