// Copyright ©2024 The bíogo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fmindex

import "errors"

// ErrIndexNotFound is returned when a required index file is missing.
// It is fatal: the caller should abort before processing any reads
// (spec.md §7).
var ErrIndexNotFound = errors.New("fmindex: required index file not found")

// ErrIndexCorrupted is returned when a header field fails a sanity check,
// such as a negative or zero refSeqLen, or a size mismatch between a
// file's declared and actual length. It is fatal (spec.md §7).
var ErrIndexCorrupted = errors.New("fmindex: index file corrupted")
