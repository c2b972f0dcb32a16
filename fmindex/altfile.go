// Copyright ©2024 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fmindex

import (
	"bufio"
	"io"
	"strings"
)

// ApplyAltFile marks sequences named in an optional <prefix>.alt file as
// isAlt. Lines beginning with '@' are headers and are skipped; for every
// other line, the first tab-delimited field names a sequence (spec.md §6).
func ApplyAltFile(r io.Reader, ann *Annotation) error {
	byName := make(map[string]int, len(ann.Seqs))
	for i, s := range ann.Seqs {
		byName[s.Name] = i
	}

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := sc.Text()
		if line == "" || strings.HasPrefix(line, "@") {
			continue
		}
		name := line
		if i := strings.IndexByte(line, '\t'); i >= 0 {
			name = line[:i]
		}
		if idx, ok := byName[name]; ok {
			ann.Seqs[idx].IsAlt = true
		}
	}
	return sc.Err()
}
