// Copyright ©2024 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package align

import (
	"errors"
	"fmt"
)

// Kind categorizes a pipeline error per spec.md §7's error taxonomy,
// following the teacher's plain-sentinel pattern (fai.ErrNonUnique,
// csi.ErrNoReference) rather than a typed-exception hierarchy.
type Kind int

const (
	// KindIndexNotFound: required index file missing. Fatal; abort
	// before read processing.
	KindIndexNotFound Kind = iota
	// KindIndexCorrupted: header field fails sanity check. Fatal.
	KindIndexCorrupted
	// KindInputFormat: unparseable FASTQ/SAM record. Skip record; log.
	KindInputFormat
	// KindBandTooNarrow: global DP completed with score < trueScore.
	// Handled internally by doubling the band and retrying.
	KindBandTooNarrow
	// KindNoAlignment: no region meets MinOutputScore. Emit unmapped
	// record; continue.
	KindNoAlignment
	// KindPairResolveFailure: no concordant pair found. Emit each mate
	// independently; continue.
	KindPairResolveFailure
)

func (k Kind) String() string {
	switch k {
	case KindIndexNotFound:
		return "index not found"
	case KindIndexCorrupted:
		return "index corrupted"
	case KindInputFormat:
		return "input format"
	case KindBandTooNarrow:
		return "band too narrow"
	case KindNoAlignment:
		return "no alignment"
	case KindPairResolveFailure:
		return "pair resolve failure"
	default:
		return "unknown"
	}
}

// Error wraps an underlying cause with its Kind, matching the teacher's
// wrapped-sentinel idiom (fmt.Errorf("...: %w", err)) so callers can
// errors.Is against the Kind-specific sentinel below.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("align: %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("align: %s", e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Sentinel errors, one per Kind except KindBandTooNarrow (which has no
// sentinel), for errors.Is matching against a bare Kind without
// inspecting the wrapped cause.
var (
	ErrIndexNotFound      = &Error{Kind: KindIndexNotFound}
	ErrIndexCorrupted     = &Error{Kind: KindIndexCorrupted}
	ErrInputFormat        = &Error{Kind: KindInputFormat}
	ErrNoAlignment        = &Error{Kind: KindNoAlignment}
	ErrPairResolveFailure = &Error{Kind: KindPairResolveFailure}
)

// Is implements errors.Is comparison by Kind alone, ignoring the wrapped
// cause, so errors.Is(Wrap(KindIndexNotFound, causeA), ErrIndexNotFound)
// is true.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Wrap attaches kind to cause, producing an *Error for spec.md §7's
// taxonomy.
func Wrap(kind Kind, cause error) error {
	if cause == nil {
		return &Error{Kind: kind}
	}
	return &Error{Kind: kind, Err: cause}
}

// IsFatal reports whether an error's Kind requires aborting the run
// before read processing, per spec.md §7.
func IsFatal(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == KindIndexNotFound || e.Kind == KindIndexCorrupted
}
