// Copyright ©2024 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package seeding

// ForwardSeeds implements the optional forward-only seeding strategy from
// spec.md §4.2: extend rightward from every position until the interval
// falls below maxIntv, emitting one seed at that point if it is long
// enough. This harvests extra seeds for reads that need them beyond the
// SMEM set (e.g. reads with poor SMEM coverage in repetitive regions).
func (f *Finder) ForwardSeeds(bases []byte, maxIntv int64) []SMEM {
	var out []SMEM
	for start := 0; start < len(bases); start++ {
		if bases[start] > 3 {
			continue
		}
		iv := f.Index.InitInterval(bases[start])
		end := start + 1
		for end < len(bases) && !iv.Empty() {
			c := bases[end]
			if c > 3 {
				break
			}
			ext := f.Index.ExtendForward(iv, c)
			if ext.S < maxIntv {
				break
			}
			iv = ext
			end++
		}
		if end-start >= f.MinSeedLen && !iv.Empty() {
			out = append(out, SMEM{Interval: iv, QBegin: start, QEnd: end})
		}
	}
	return out
}

// Reseed reruns SMEM search with a higher minIntv to harvest shorter,
// more specific seeds in repetitive regions, per spec.md §4.2.
func (f *Finder) Reseed(bases []byte, minIntv int64) []SMEM {
	saved := f.MinIntv
	f.MinIntv = minIntv
	defer func() { f.MinIntv = saved }()
	return f.FindAll(bases)
}
