// Copyright ©2024 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package swkernel

// ExtendByte runs the 8-bit saturating banded SW extension described in
// spec.md §4.6. target and query are 2-bit encoded bases (4 = ambiguous);
// h0 is the seed's starting score. On any cell exceeding 250 the kernel
// aborts and reports Overflowed so the caller can retry with ExtendWord.
func ExtendByte(target, query []byte, h0 int32, band int, sc Scores) Result {
	bias := sc.Mismatch

	n, m := len(target), len(query)
	if n == 0 || m == 0 {
		return Result{Score: h0}
	}

	const overflowCeiling = 250

	// H, E, F rows biased into [0, 255]; H[j] is the score ending at
	// query position j of the current target row.
	h := make([]int32, m+1)
	e := make([]int32, m+1)
	hPrev := make([]int32, m+1)

	h[0] = clampByte(h0 + bias)
	for j := 1; j <= m; j++ {
		h[j] = 0
		e[j] = 0
	}

	best := h0
	bestI, bestJ := 0, 0
	globalScore := int32(-1)
	globalTargetEnd := 0
	maxOff := 0
	rowMax := int32(0)

	for i := 1; i <= n; i++ {
		copy(hPrev, h)
		lo := maxInt(0, i-band)
		hi := m
		if i+band < hi {
			hi = i + band
		}

		f := int32(0)
		// The band's lower-left boundary cell is a real cell in the
		// recurrence, not a wall: it takes target[i-1] consumed against
		// either the seed anchor (lo==0) or its true diagonal
		// predecessor hPrev[lo-1] (lo>0), per spec.md §4.6's
		// H_new = max(H_diag + profile, bias) − bias.
		if lo == 0 {
			h[lo] = biasedInit(h0, bias, i == 1)
		} else {
			var sVal int32
			if target[i-1] > 3 || query[lo-1] > 3 {
				sVal = -sc.Mismatch
			} else if target[i-1] == query[lo-1] {
				sVal = sc.Match
			} else {
				sVal = -sc.Mismatch
			}
			hNew := hPrev[lo-1] + sVal
			if hNew < bias {
				hNew = bias
			}
			if hNew > overflowCeiling {
				return Result{Overflowed: true}
			}
			h[lo] = hNew
		}
		rowMax = h[lo]
		if h[lo]-bias > best {
			best = h[lo] - bias
			bestI, bestJ = i, lo
			off := absInt(i - lo)
			if off > maxOff {
				maxOff = off
			}
		}

		for j := lo + 1; j <= hi; j++ {
			diagVal := hPrev[j-1]
			var sVal int32
			if target[i-1] > 3 || query[j-1] > 3 {
				sVal = -sc.Mismatch
			} else if target[i-1] == query[j-1] {
				sVal = sc.Match
			} else {
				sVal = -sc.Mismatch
			}
			hNew := diagVal + sVal
			if hNew < bias {
				hNew = bias
			}
			if hNew > overflowCeiling {
				return Result{Overflowed: true}
			}

			eNew := hPrev[j] - sc.GapOpenDel
			if e[j]-sc.GapExtendDel > eNew {
				eNew = e[j] - sc.GapExtendDel
			}
			if eNew < 0 {
				eNew = 0
			}

			fNew := h[j-1] - sc.GapOpenIns
			if f-sc.GapExtendIns > fNew {
				fNew = f - sc.GapExtendIns
			}
			if fNew < 0 {
				fNew = 0
			}

			cell := hNew
			if eNew > cell {
				cell = eNew
			}
			if fNew > cell {
				cell = fNew
			}
			if cell > overflowCeiling {
				return Result{Overflowed: true}
			}

			h[j] = cell
			e[j] = eNew
			f = fNew

			if cell > rowMax {
				rowMax = cell
			}
			unbiased := cell - bias
			if unbiased > best {
				best = unbiased
				bestI, bestJ = i, j
				off := absInt(i - j)
				if off > maxOff {
					maxOff = off
				}
			}
		}

		if m <= hi {
			unbiased := h[m] - bias
			if unbiased > globalScore {
				globalScore = unbiased
				globalTargetEnd = i
			}
		}

		if best > 0 && rowMax-bias < best-sc.ZDrop && i-bestI > band {
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

func clampByte(v int32) int32 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

func biasedInit(h0, bias int32, firstRow bool) int32 {
	if !firstRow {
		return 0
	}
	return clampByte(h0 + bias)
}
