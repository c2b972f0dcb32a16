// Copyright ©2024 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package samout

import (
	"strings"
	"testing"

	"gopkg.in/check.v1"

	"github.com/biogo/bwamem2/galign"
)

func Test(t *testing.T) { check.TestingT(t) }

type S struct{}

var _ = check.Suite(&S{})

func (s *S) TestFlagsString(c *check.C) {
	f := Paired | Read1 | Reverse
	c.Check(f.String(), check.Equals, "p---r-1-----")
}

func (s *S) TestFlagsStringMasksUnpaired(c *check.C) {
	f := Reverse
	c.Check(f.String(), check.Equals, "----r-------")
}

func (s *S) TestAuxRoundTrip(c *check.C) {
	a := NewIntAux(NewTag("AS"), 42)
	c.Check(a.String(), check.Equals, "AS:i:42")

	z := NewStringAux(NewTag("MD"), "8")
	c.Check(z.String(), check.Equals, "MD:Z:8")
}

func (s *S) TestFromRegionScenario1(c *check.C) {
	// spec.md §8 scenario 1: perfect 8bp hit at position 0.
	cig := galign.Cigar{galign.NewCigarOp(galign.OpMatch, 8)}
	r := galign.AlnReg{RBegin: 0, REnd: 8, QBegin: 0, QEnd: 8, Score: 8, Cigar: cig}
	rec := FromRegion("read1", r, "chr1", "ACGTACGT", "IIIIIIII", 0)
	rec = rec.WithTags(0, "8", 8, 0, nil, nil, 0, "")
	line := rec.String()
	c.Check(strings.HasPrefix(line, "read1\t0\tchr1\t1\t0\t8M\t*\t0\t0\tACGTACGT\tIIIIIIII"), check.Equals, true)
	c.Check(strings.Contains(line, "NM:i:0"), check.Equals, true)
	c.Check(strings.Contains(line, "MD:Z:8"), check.Equals, true)
	c.Check(strings.Contains(line, "AS:i:8"), check.Equals, true)
}

func (s *S) TestUnmapped(c *check.C) {
	rec := Unmapped("readX", "ACGT", "IIII", 0)
	c.Check(rec.Flag&Unmapped, check.Not(check.Equals), Flags(0))
	c.Check(rec.RName, check.Equals, "*")
	c.Check(rec.Pos, check.Equals, int64(-1))
	c.Check(strings.HasPrefix(rec.String(), "readX\t4\t*\t0\t0\t*\t*\t0\t0\tACGT\tIIII"), check.Equals, true)
}
