// Copyright ©2024 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package arena provides per-read scratch allocation pools, generalizing
// internal/pool's size-stratified []byte pool to the typed byte/seed/
// region slices the aligner pipeline recycles between reads, per
// spec.md §3's Lifecycle note.
package arena

import (
	"math/bits"
	"sync"

	"github.com/biogo/bwamem2/chaining"
	"github.com/biogo/bwamem2/galign"
)

var bytePool [63]sync.Pool

func init() {
	for i := range bytePool {
		l := 1 << uint(i)
		bytePool[i].New = func() interface{} {
			return make([]byte, l)
		}
	}
}

func poolFor(size uint) int {
	if size == 0 {
		return 0
	}
	return bits.Len(size - 1)
}

// GetBytes returns a []byte with len size and cap less than 2*size.
func GetBytes(size int) []byte {
	if size == 0 {
		return nil
	}
	b := bytePool[poolFor(uint(size))].Get().([]byte)
	return b[:size]
}

// PutBytes returns buf to the appropriate size-stratified pool.
func PutBytes(buf []byte) {
	if buf == nil {
		return
	}
	bytePool[poolFor(uint(cap(buf)))].Put(buf[:0])
}

var seedPool sync.Pool

// GetSeeds returns a zero-length []chaining.Seed with the requested
// capacity, reusing a prior read's backing array where possible.
func GetSeeds(capacity int) []chaining.Seed {
	v := seedPool.Get()
	if v == nil {
		return make([]chaining.Seed, 0, capacity)
	}
	s := v.([]chaining.Seed)
	if cap(s) < capacity {
		return make([]chaining.Seed, 0, capacity)
	}
	return s[:0]
}

// PutSeeds returns s to the seed pool for reuse by a subsequent read.
func PutSeeds(s []chaining.Seed) {
	seedPool.Put(s[:0])
}

var regionPool sync.Pool

// GetRegions returns a zero-length []galign.AlnReg with the requested
// capacity, reusing a prior read's backing array where possible.
func GetRegions(capacity int) []galign.AlnReg {
	v := regionPool.Get()
	if v == nil {
		return make([]galign.AlnReg, 0, capacity)
	}
	r := v.([]galign.AlnReg)
	if cap(r) < capacity {
		return make([]galign.AlnReg, 0, capacity)
	}
	return r[:0]
}

// PutRegions returns r to the region pool for reuse by a subsequent
// read.
func PutRegions(r []galign.AlnReg) {
	regionPool.Put(r[:0])
}

// Read is the per-read scratch bundle checked out once per read and
// returned when the read's SAM record(s) have been emitted, per
// spec.md §3.
type Read struct {
	Seeds   []chaining.Seed
	Regions []galign.AlnReg
}

var readPool sync.Pool

// Checkout returns a Read scratch bundle for a read whose encoded length
// is readLen, sized to typical seed/region counts for that length.
func Checkout(readLen int) *Read {
	if v := readPool.Get(); v != nil {
		r := v.(*Read)
		r.Seeds = GetSeeds(readLen)
		r.Regions = GetRegions(8)
		return r
	}
	return &Read{
		Seeds:   GetSeeds(readLen),
		Regions: GetRegions(8),
	}
}

// Release returns a Read scratch bundle's backing slices to their pools
// and the bundle itself to the free list.
func Release(r *Read) {
	PutSeeds(r.Seeds)
	PutRegions(r.Regions)
	r.Seeds = nil
	r.Regions = nil
	readPool.Put(r)
}
