// Copyright ©2024 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package swkernel

// ExtendWord runs the 16-bit signed banded SW extension described in
// spec.md §4.6. It shares ExtendByte's recurrence exactly, minus the bias
// offset and the overflow ceiling: scores are tracked directly in signed
// arithmetic, so it never overflows for realistic read-length alignments.
func ExtendWord(target, query []byte, h0 int32, band int, sc Scores) Result {
	n, m := len(target), len(query)
	if n == 0 || m == 0 {
		return Result{Score: h0}
	}

	h := make([]int32, m+1)
	e := make([]int32, m+1)
	hPrev := make([]int32, m+1)

	h[0] = h0
	for j := 1; j <= m; j++ {
		h[j] = negInf
		e[j] = negInf
	}

	best := h0
	bestI, bestJ := 0, 0
	globalScore := int32(negInf)
	globalTargetEnd := 0
	maxOff := 0

	for i := 1; i <= n; i++ {
		copy(hPrev, h)
		lo := maxInt(0, i-band)
		hi := m
		if i+band < hi {
			hi = i + band
		}

		f := int32(negInf)
		h[lo] = negInf
		if lo == 0 && i == 1 {
			h[lo] = h0
		} else if lo > 0 {
			// The band's lower-left boundary cell takes its true
			// diagonal predecessor, as in ExtendByte.
			sVal := -sc.Mismatch
			if target[i-1] <= 3 && query[lo-1] <= 3 && target[i-1] == query[lo-1] {
				sVal = sc.Match
			}
			h[lo] = max32(hPrev[lo-1]+sVal, 0)
			if h[lo] > best {
				best = h[lo]
				bestI, bestJ = i, lo
				maxOff = maxInt(maxOff, absInt(i-lo))
			}
		}
		rowMax := h[lo]

		for j := lo + 1; j <= hi; j++ {
			var sVal int32
			if target[i-1] > 3 || query[j-1] > 3 {
				sVal = -sc.Mismatch
			} else if target[i-1] == query[j-1] {
				sVal = sc.Match
			} else {
				sVal = -sc.Mismatch
			}
			hNew := hPrev[j-1] + sVal

			eNew := hPrev[j] - sc.GapOpenDel
			if e[j]-sc.GapExtendDel > eNew {
				eNew = e[j] - sc.GapExtendDel
			}

			fNew := h[j-1] - sc.GapOpenIns
			if f-sc.GapExtendIns > fNew {
				fNew = f - sc.GapExtendIns
			}

			cell := hNew
			if eNew > cell {
				cell = eNew
			}
			if fNew > cell {
				cell = fNew
			}
			if cell < 0 {
				cell = 0
			}

			h[j] = cell
			e[j] = eNew
			f = fNew

			if cell > rowMax {
				rowMax = cell
			}
			if cell > best {
				best = cell
				bestI, bestJ = i, j
				off := absInt(i - j)
				if off > maxOff {
					maxOff = off
				}
			}
		}

		if m <= hi && h[m] > globalScore {
			globalScore = h[m]
			globalTargetEnd = i
		}

		if best > 0 && rowMax < best-sc.ZDrop && i-bestI > band {
			break
		}
	}

	if globalScore < 0 {
		globalScore = 0
	}
	return Result{
		Score:           best,
		QueryEnd:        bestJ,
		TargetEnd:       bestI,
		GlobalScore:     globalScore,
		GlobalTargetEnd: globalTargetEnd,
		MaxOff:          maxOff,
	}
}

const negInf = int32(-1 << 20)
