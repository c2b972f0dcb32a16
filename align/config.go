// Copyright ©2024 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package align orchestrates the per-read pipeline described in spec.md
// §4.13: SMEM finding, chaining, extension, dedup, secondary marking,
// MAPQ, and paired-end resolution, tying together fmindex, seeding,
// chaining, swkernel, extend, galign, mapq, secondary, insertsize,
// pairing and samout.
package align

import "github.com/biogo/bwamem2/swkernel"

// Flag bits for Config.Flags, per spec.md §6.
const (
	FlagNoMulti       = 0x10
	FlagSoftClip      = 0x200
	FlagPrimary5      = 0x400
	FlagKeepSuppMapQ  = 0x800
	FlagNoRescue      = 0x1000
	FlagNoPairing     = 0x2000
	FlagNoAlt         = 0x4000
	FlagOutputAll     = 0x8000
)

// Config is the flat scoring/behavior option struct spec.md §6 names, in
// the teacher's plain struct-of-options style (no functional options,
// matching bam.WriterOptions).
type Config struct {
	MatchScore      int32
	MismatchPenalty int32

	GapOpenPenalty   int32
	GapExtendPenalty int32

	GapOpenPenaltyDeletion   int32
	GapExtendPenaltyDeletion int32

	BandWidth int
	ZDrop     int32

	MinSeedLen     int
	MaxOccurrences int

	ChainDropRatio float64
	MaskLevel      float64

	MinOutputScore int32

	PenClip5 int32
	PenClip3 int32

	UnpairedPenalty int32
	MaxMatesw       int

	MaxXAHits    int
	MaxXAHitsAlt int

	ReseedLength int

	Flags uint32

	NumThreads int
}

// DefaultConfig returns BWA-MEM2's published default parameters, per
// spec.md §6 and §9.
func DefaultConfig() Config {
	return Config{
		MatchScore:      1,
		MismatchPenalty: 4,

		GapOpenPenalty:   6,
		GapExtendPenalty: 1,

		GapOpenPenaltyDeletion:   6,
		GapExtendPenaltyDeletion: 1,

		BandWidth: 100,
		ZDrop:     100,

		MinSeedLen:     19,
		MaxOccurrences: 500,

		ChainDropRatio: 0.5,
		MaskLevel:      0.5,

		MinOutputScore: 30,

		PenClip5: 5,
		PenClip3: 5,

		UnpairedPenalty: 17,
		MaxMatesw:       50,

		MaxXAHits:    5,
		MaxXAHitsAlt: 200,

		ReseedLength: 28,

		Flags: 0,

		NumThreads: 1,
	}
}

// Scores converts the match/mismatch/gap fields into the swkernel.Scores
// value the DP kernels expect.
func (c Config) Scores() swkernel.Scores {
	return swkernel.Scores{
		Match:        c.MatchScore,
		Mismatch:     c.MismatchPenalty,
		GapOpenIns:   c.GapOpenPenalty,
		GapExtendIns: c.GapExtendPenalty,
		GapOpenDel:   c.GapOpenPenaltyDeletion,
		GapExtendDel: c.GapExtendPenaltyDeletion,
		ZDrop:        c.ZDrop,
	}
}

func (c Config) hasFlag(f uint32) bool { return c.Flags&f != 0 }

func (c Config) NoMulti() bool      { return c.hasFlag(FlagNoMulti) }
func (c Config) SoftClip() bool     { return c.hasFlag(FlagSoftClip) }
func (c Config) Primary5() bool     { return c.hasFlag(FlagPrimary5) }
func (c Config) KeepSuppMapQ() bool { return c.hasFlag(FlagKeepSuppMapQ) }
func (c Config) NoRescue() bool     { return c.hasFlag(FlagNoRescue) }
func (c Config) NoPairing() bool    { return c.hasFlag(FlagNoPairing) }
func (c Config) NoAlt() bool        { return c.hasFlag(FlagNoAlt) }
func (c Config) OutputAll() bool    { return c.hasFlag(FlagOutputAll) }
