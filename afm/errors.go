// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package afm

import "errors"

var (
	// ErrStructural marks a missing or unreadable document. It aborts the run.
	ErrStructural = errors.New("structural error")

	// ErrPatternMismatch marks a line that carries a row label but no usable row.
	ErrPatternMismatch = errors.New("pattern mismatch")

	// ErrAmbiguousPartition marks a concatenated digit run that fits no known width pattern.
	ErrAmbiguousPartition = errors.New("ambiguous partition")

	// ErrCardinalityShortfall marks a row with fewer values than any layout accepts.
	ErrCardinalityShortfall = errors.New("cardinality shortfall")

	// ErrDuplicateRecord marks a second record for a key that is already in the table.
	ErrDuplicateRecord = errors.New("duplicate record")

	// ErrUnknownSpec is returned when a layout names a table spec that is not registered.
	ErrUnknownSpec = errors.New("unknown table spec")
)

// SkipReason classifies a recovered, locally skipped row.
type SkipReason string

const (
	SkipPatternMismatch      SkipReason = "pattern_mismatch"
	SkipAmbiguousPartition   SkipReason = "ambiguous_partition"
	SkipCardinalityShortfall SkipReason = "cardinality_shortfall"
	SkipDuplicateTemperature SkipReason = "duplicate_temperature"
	SkipCollision            SkipReason = "collision"
)

// Err maps a skip reason back onto the error taxonomy.
func (r SkipReason) Err() error {
	switch r {
	case SkipPatternMismatch:
		return ErrPatternMismatch
	case SkipAmbiguousPartition:
		return ErrAmbiguousPartition
	case SkipCardinalityShortfall:
		return ErrCardinalityShortfall
	case SkipDuplicateTemperature, SkipCollision:
		return ErrDuplicateRecord
	}
	return nil
}
