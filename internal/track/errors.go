package track

import "errors"

var (
	// ErrInvalidWindowRange means a segment's file-time bounds produce an empty
	// or inverted sample window.
	ErrInvalidWindowRange = errors.New("invalid window range")

	// ErrIndexOutOfRange means a computed sample index falls outside the
	// segment's RMS values.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrRateMismatch means a segment's RMS values were produced at a different
	// rate than the one used for layout.
	ErrRateMismatch = errors.New("rms rate mismatch")

	// ErrInvalidParams means the track-wide rendering parameters are unusable.
	ErrInvalidParams = errors.New("invalid track parameters")

	// ErrInvalidSegment means segment construction was rejected.
	ErrInvalidSegment = errors.New("invalid segment")
)
