// Copyright ©2024 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package samout

import (
	"fmt"
	"strconv"
)

// Tag is a two-letter auxiliary tag label, per spec.md §6.
type Tag [2]byte

// NewTag returns a Tag from a string. It panics if len(tag) != 2.
func NewTag(tag string) Tag {
	var t Tag
	if copy(t[:], tag) != 2 {
		panic("samout: illegal tag length")
	}
	return t
}

func (t Tag) String() string { return string(t[:]) }

// Aux is a single auxiliary field rendered in SAM text form: TAG:TYPE:VALUE.
// Only the int, string and float kinds spec.md §6 requires (AS, XS, NM
// are ints; pa is a float; MD, SA, XA, RG are strings) are supported, trimmed down from
// the full BAM binary-Aux kind set.
type Aux struct {
	tag   Tag
	kind  byte
	ival  int64
	fval  float64
	sval  string
}

// NewIntAux builds an integer-valued Aux field ('i').
func NewIntAux(tag Tag, v int64) Aux { return Aux{tag: tag, kind: 'i', ival: v} }

// NewFloatAux builds a float-valued Aux field ('f').
func NewFloatAux(tag Tag, v float64) Aux { return Aux{tag: tag, kind: 'f', fval: v} }

// NewStringAux builds a string-valued Aux field ('Z').
func NewStringAux(tag Tag, v string) Aux { return Aux{tag: tag, kind: 'Z', sval: v} }

func (a Aux) String() string {
	switch a.kind {
	case 'i':
		return fmt.Sprintf("%s:i:%s", a.tag, strconv.FormatInt(a.ival, 10))
	case 'f':
		return fmt.Sprintf("%s:f:%s", a.tag, strconv.FormatFloat(a.fval, 'g', -1, 64))
	default:
		return fmt.Sprintf("%s:Z:%s", a.tag, a.sval)
	}
}

var (
	nmTag = NewTag("NM")
	mdTag = NewTag("MD")
	asTag = NewTag("AS")
	xsTag = NewTag("XS")
	saTag = NewTag("SA")
	xaTag = NewTag("XA")
	paTag = NewTag("pa")
	rgTag = NewTag("RG")
)
