// Package align places segments on the playback timeline by matching their
// RMS envelopes against a reference segment.
package align

import (
	"fmt"

	"github.com/shidetake/trackview/internal/track"
)

// Placement is where a segment should start on the playback timeline
type Placement struct {
	PlaybackStart float64
	Offset        *OffsetResult
}

// Place finds the playback start for a segment that plays fileStart onwards
// of a source whose full RMS envelope is rms, so that its audio lines up with
// the reference segment's source.
func Place(reference track.Segment, rms []float64, fileStart, framesPerSecond float64) (*Placement, error) {
	offset, err := DetectOffset(reference.RMSValues(), rms, framesPerSecond)
	if err != nil {
		return nil, fmt.Errorf("failed to correlate with reference %s: %w", reference.ID(), err)
	}

	// Reference file time T plays at reference start + (T - reference file start)
	start := reference.PlaybackStartTime() + offset.OffsetSeconds + fileStart - reference.FileStartTime()
	if start < 0 {
		return nil, fmt.Errorf("aligned start %.3fs precedes the timeline origin", start)
	}

	return &Placement{
		PlaybackStart: start,
		Offset:        offset,
	}, nil
}

// ValidateConfidence reports a warning when a placement looks unreliable
func ValidateConfidence(name string, p *Placement, minConfidence float64) (string, bool) {
	if p.Offset.Confidence >= minConfidence {
		return "", true
	}
	return fmt.Sprintf("%s: low confidence score %.2f (threshold: %.2f)",
		name, p.Offset.Confidence, minConfidence), false
}

// FormatOffsetSeconds formats seconds with an explicit sign
func FormatOffsetSeconds(seconds float64) string {
	sign := ""
	if seconds > 0 {
		sign = "+"
	} else if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}
	return fmt.Sprintf("%s%.3fs", sign, seconds)
}
