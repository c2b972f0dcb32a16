// Copyright ©2024 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package samout

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/biogo/bwamem2/galign"
)

// XAEntry is one secondary hit folded into an XA tag, per spec.md §6:
// "rname,pos,CIGAR,NM;" repeated per qualifying secondary.
type XAEntry struct {
	RefName string
	Pos     int64
	Reverse bool
	Cigar   string
	NM      int
}

func (e XAEntry) String() string {
	strand := byte('+')
	if e.Reverse {
		strand = '-'
	}
	return fmt.Sprintf("%s,%c%d,%s,%d;", e.RefName, strand, e.Pos+1, e.Cigar, e.NM)
}

// SAEntry is one other non-secondary segment listed in an SA tag, per
// spec.md §4.13.
type SAEntry struct {
	RefName string
	Pos     int64
	Reverse bool
	Cigar   string
	MapQ    int
	NM      int
}

func (e SAEntry) String() string {
	strand := byte('+')
	if e.Reverse {
		strand = '-'
	}
	return fmt.Sprintf("%s,%d,%c,%s,%d,%d;", e.RefName, e.Pos+1, strand, e.Cigar, e.MapQ, e.NM)
}

// Record is one emitted SAM alignment line, assembled from an AlnReg plus
// read metadata, per spec.md §6.
type Record struct {
	QName string
	Flag  Flags
	RName string
	Pos   int64 // 0-based; rendered 1-based
	MapQ  int
	Cigar string
	RNext string
	PNext int64
	TLen  int
	Seq   string
	Qual  string

	Aux []Aux
}

// FromRegion builds the fixed SAM fields from a region and its sequence
// data, leaving Aux empty for the caller to populate via WithTags, per
// spec.md §6.
func FromRegion(qname string, r galign.AlnReg, refName, seq, qual string, flag Flags) Record {
	cig := r.Cigar.String()
	if r.Strand == 1 {
		flag |= Reverse
	}
	return Record{
		QName: qname,
		Flag:  flag,
		RName: refName,
		Pos:   int64(r.RBegin),
		MapQ:  0,
		Cigar: cig,
		RNext: "*",
		PNext: -1,
		TLen:  0,
		Seq:   seq,
		Qual:  qual,
	}
}

// WithTags appends the standard aux tag set spec.md §6 names: NM, MD, AS,
// XS, SA, XA, pa, RG. NM and AS are always written; the others only when
// the caller supplies a non-empty/positive value.
func (rec Record) WithTags(nm int, md string, as, xs int32, sa []SAEntry, xa []XAEntry, pa float64, rg string) Record {
	rec.Aux = append(rec.Aux, NewIntAux(nmTag, int64(nm)))
	if md != "" {
		rec.Aux = append(rec.Aux, NewStringAux(mdTag, md))
	}
	rec.Aux = append(rec.Aux, NewIntAux(asTag, int64(as)))
	if xs > 0 {
		rec.Aux = append(rec.Aux, NewIntAux(xsTag, int64(xs)))
	}
	if len(sa) > 0 {
		var buf bytes.Buffer
		for _, e := range sa {
			buf.WriteString(e.String())
		}
		rec.Aux = append(rec.Aux, NewStringAux(saTag, buf.String()))
	}
	if len(xa) > 0 {
		var buf bytes.Buffer
		for _, e := range xa {
			buf.WriteString(e.String())
		}
		rec.Aux = append(rec.Aux, NewStringAux(xaTag, buf.String()))
	}
	if pa > 0 {
		rec.Aux = append(rec.Aux, NewFloatAux(paTag, pa))
	}
	if rg != "" {
		rec.Aux = append(rec.Aux, NewStringAux(rgTag, rg))
	}
	return rec
}

// String renders the record as a tab-delimited SAM text line.
func (rec Record) String() string {
	fields := []string{
		rec.QName,
		strconv.Itoa(int(rec.Flag)),
		rec.RName,
		strconv.FormatInt(rec.Pos+1, 10),
		strconv.Itoa(rec.MapQ),
		rec.Cigar,
		rec.RNext,
		strconv.FormatInt(rec.PNext+1, 10),
		strconv.Itoa(rec.TLen),
		rec.Seq,
		rec.Qual,
	}
	for _, a := range rec.Aux {
		fields = append(fields, a.String())
	}
	return strings.Join(fields, "\t")
}

// Unmapped builds the minimal unmapped SAM record for a read that failed
// to produce any region, per spec.md §4.13's "no confident region" path.
func Unmapped(qname, seq, qual string, flag Flags) Record {
	return Record{
		QName: qname,
		Flag:  flag | Unmapped,
		RName: "*",
		Pos:   -1,
		MapQ:  0,
		Cigar: "*",
		RNext: "*",
		PNext: -1,
		TLen:  0,
		Seq:   seq,
		Qual:  qual,
	}
}
