// Copyright ©2024 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fmindex implements the compressed FM-index memory layout used by
// the aligner: a checkpointed BWT over the forward genome plus its reverse
// complement and a sentinel, a compressed suffix array sampled every 8
// positions, the 2-bit packed forward genome, and the reference annotation
// tables (sequence offsets, ambiguity runs, ALT marks).
//
// The index is built once (construction from FASTA is out of scope) and
// held read-only for the lifetime of the process; all methods on Index are
// safe for concurrent use by multiple goroutines.
package fmindex

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/ulikunitz/xz"
	"golang.org/x/exp/mmap"
)

// Index is a read-only, concurrency-safe handle onto a built FM-index and
// its companion reference data.
type Index struct {
	// RefSeqLen is the length of the BWT string: 2*genomeLen + 1.
	RefSeqLen int64

	// GenomeLen is the length of the forward genome alone.
	GenomeLen int64

	// C holds the cumulative base counts, pre-incremented by 1 as
	// described in spec.md §3 ("Cumulative counts C[c] ... +1 by
	// convention"). Index 4 is the sentinel slot.
	C [5]int64

	cp checkpoints
	sa compressedSA

	Seqs       *Annotation
	Ambiguous  *AmbiguityMap
	pac        *mmap.ReaderAt
	pacOwned   []byte // set when loaded from an xz artifact instead of mmap
	bwtBacking io.Closer
}

// indexHeader mirrors the fixed byte layout of <prefix>.bwt.2bit.64
// described in spec.md §6.
const (
	offRefSeqLen = 0
	offC         = 8
	offCheckpts  = 48
	checkptSize  = 64 // 4 int64 counts + 4 uint64 bitstrings
)

// Load memory-maps prefix+".bwt.2bit.64" and prefix+".pac", and parses
// prefix+".ann", prefix+".amb" and, if present, prefix+".alt".
func Load(prefix string) (*Index, error) {
	bwtPath := prefix + ".bwt.2bit.64"
	r, err := mmap.Open(bwtPath)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrIndexNotFound, bwtPath, err)
	}
	idx, err := loadFromReaderAt(r, r)
	if err != nil {
		r.Close()
		return nil, err
	}
	if err := idx.loadCompanionFiles(prefix); err != nil {
		return nil, err
	}
	return idx, nil
}

// LoadXZ loads an xz-compressed distribution artifact
// (prefix+".bwt.2bit.64.xz") by decompressing it fully into memory. This
// trades the mmap path's lazy paging for a smaller file to ship over a
// network; once decompressed, lookups behave identically to the mmap path.
func LoadXZ(prefix string) (*Index, error) {
	path := prefix + ".bwt.2bit.64.xz"
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrIndexNotFound, path, err)
	}
	defer f.Close()
	zr, err := xz.NewReader(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("fmindex: xz: %w", err)
	}
	buf, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("fmindex: xz decode: %w", err)
	}
	idx, err := loadFromReaderAt(bytesReaderAt(buf), nil)
	if err != nil {
		return nil, err
	}
	idx.pacOwned = nil
	if err := idx.loadCompanionFiles(prefix); err != nil {
		return nil, err
	}
	return idx, nil
}

// bytesReaderAt adapts a byte slice to io.ReaderAt without copying.
type bytesReaderAt []byte

func (b bytesReaderAt) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || off >= int64(len(b)) {
		return 0, io.EOF
	}
	n := copy(p, b[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func loadFromReaderAt(ra io.ReaderAt, closer io.Closer) (*Index, error) {
	var hdr [offCheckpts]byte
	if _, err := ra.ReadAt(hdr[:], 0); err != nil {
		return nil, fmt.Errorf("%w: header read: %v", ErrIndexCorrupted, err)
	}
	refSeqLen := int64(binary.LittleEndian.Uint64(hdr[offRefSeqLen:]))
	if refSeqLen <= 0 {
		return nil, fmt.Errorf("%w: non-positive refSeqLen %d", ErrIndexCorrupted, refSeqLen)
	}

	idx := &Index{RefSeqLen: refSeqLen, bwtBacking: closer}
	for i := 0; i < 5; i++ {
		idx.C[i] = int64(binary.LittleEndian.Uint64(hdr[offC+8*i:])) + 1
	}
	idx.GenomeLen = (refSeqLen - 1) / 2

	nCp := int(refSeqLen/64) + 1
	cp, err := readCheckpoints(ra, offCheckpts, nCp)
	if err != nil {
		return nil, err
	}
	idx.cp = cp

	saOff := int64(offCheckpts) + int64(nCp)*checkptSize
	nSamples := int(refSeqLen/8) + 1
	sa, sentinel, err := readCompressedSA(ra, saOff, nSamples, idx.RefSeqLen)
	if err != nil {
		return nil, err
	}
	idx.sa = sa
	idx.cp.sentinel = sentinel

	return idx, nil
}

func (idx *Index) loadCompanionFiles(prefix string) error {
	pacPath := prefix + ".pac"
	if idx.pacOwned == nil && idx.bwtBacking != nil {
		pr, err := mmap.Open(pacPath)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrIndexNotFound, err)
		}
		idx.pac = pr
	} else {
		b, err := os.ReadFile(pacPath)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrIndexNotFound, err)
		}
		idx.pacOwned = b
	}

	annPath := prefix + ".ann"
	annFile, err := os.Open(annPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIndexNotFound, err)
	}
	defer annFile.Close()
	seqs, err := ReadAnnotation(annFile)
	if err != nil {
		return err
	}
	idx.Seqs = seqs

	ambPath := prefix + ".amb"
	ambFile, err := os.Open(ambPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrIndexNotFound, err)
	}
	defer ambFile.Close()
	amb, err := ReadAmbiguityMap(ambFile)
	if err != nil {
		return err
	}
	idx.Ambiguous = amb

	altPath := prefix + ".alt"
	if altFile, err := os.Open(altPath); err == nil {
		defer altFile.Close()
		if err := ApplyAltFile(altFile, idx.Seqs); err != nil {
			return err
		}
	}

	return nil
}

// Close releases the mmap handles held by idx. It is a no-op for an index
// loaded via LoadXZ.
func (idx *Index) Close() error {
	var err error
	if idx.bwtBacking != nil {
		err = idx.bwtBacking.Close()
	}
	if idx.pac != nil {
		if e := idx.pac.Close(); err == nil {
			err = e
		}
	}
	return err
}
