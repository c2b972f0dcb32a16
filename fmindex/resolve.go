// Copyright ©2024 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fmindex

// ResolveSAPublic resolves the suffix-array value at BWT row p, i.e. the
// genome position (in the doubled forward+reverse-complement coordinate
// space) where the suffix starting at row p begins. Exported for use by
// the seed chainer when materializing SMEM occurrences into seeds
// (spec.md §4.3).
func (idx *Index) ResolveSAPublic(p int64) int64 {
	return idx.resolveSA(p)
}
