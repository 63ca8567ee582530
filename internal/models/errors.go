package models

import "errors"

// Errors classifying analysis failures. Wrap with fmt.Errorf("...: %w")
// to attach call or segment context.
var (
	// ErrMalformedInput - a raw segment has end < start or is missing
	// required text/timestamps. The whole transcript is rejected; a
	// transcript is never partially normalized.
	ErrMalformedInput = errors.New("malformed transcript input")

	// ErrInconsistentScale - clarity/score values on mismatched scales
	// within one call. Fatal; the record must not be persisted.
	ErrInconsistentScale = errors.New("inconsistent clarity scale")

	// ErrUnknownScale - the declared clarity scale is not one of the
	// supported ranges.
	ErrUnknownScale = errors.New("unknown clarity scale")

	// ErrSegmentIndexOutOfRange - a manual correction referenced a
	// segment index outside the normalized sequence.
	ErrSegmentIndexOutOfRange = errors.New("segment index out of range")
)
