package track

import (
	"fmt"
	"math"
)

// SegmentLayout is the visible part of one segment positioned in pixel space
type SegmentLayout struct {
	SegmentID   string
	Window      Window
	Amplitudes  []float64
	PixelWidth  float64
	PixelOffset float64
}

// ComputeVisibleWindow maps a segment's file range onto an inclusive window of
// its RMS values. Times are converted to indices with floor; the end index is
// clamped to the last available sample.
func ComputeVisibleWindow(seg Segment, rmsFramesPerSecond float64) (Window, error) {
	if !positive(rmsFramesPerSecond) {
		return Window{}, fmt.Errorf("%w: rms frames per second must be positive, got %v", ErrInvalidParams, rmsFramesPerSecond)
	}

	if rr, ok := seg.(RateReporter); ok {
		if rate := rr.RMSFramesPerSecond(); rate > 0 && !sameRate(rate, rmsFramesPerSecond) {
			return Window{}, fmt.Errorf("%w: segment sampled at %v frames/s, track uses %v", ErrRateMismatch, rate, rmsFramesPerSecond)
		}
	}

	fileStart := seg.FileStartTime()
	fileEnd := seg.FileEndTime()
	if !finite(fileStart) || !finite(fileEnd) {
		return Window{}, fmt.Errorf("%w: file times must be finite", ErrInvalidWindowRange)
	}

	n := len(seg.RMSValues())

	// Stay in float space until both indices are known to fit in [-1, n].
	startFrame := math.Floor(fileStart * rmsFramesPerSecond)
	endFrame := math.Min(float64(n), math.Floor(fileEnd*rmsFramesPerSecond)) - 1

	if endFrame < startFrame {
		return Window{}, fmt.Errorf("%w: file range %.3fs-%.3fs covers no samples of %d", ErrInvalidWindowRange, fileStart, fileEnd, n)
	}
	if startFrame < 0 || startFrame >= float64(n) {
		return Window{}, fmt.Errorf("%w: file start %.3fs maps outside %d samples", ErrIndexOutOfRange, fileStart, n)
	}

	w := Window{Start: int(startFrame), End: int(endFrame)}
	if err := w.Validate(n); err != nil {
		return Window{}, err
	}
	return w, nil
}

// PixelOffset returns the horizontal position of a playback time
func PixelOffset(playbackStart, rmsFramesPerSecond, pixelsPerRMS float64) float64 {
	return playbackStart * rmsFramesPerSecond * pixelsPerRMS
}

// LayoutSegment computes the visible amplitudes of a segment and where they
// are drawn
func LayoutSegment(seg Segment, p Params) (SegmentLayout, error) {
	if !positive(p.PixelsPerRMS) {
		return SegmentLayout{}, fmt.Errorf("%w: pixels per rms must be positive, got %v", ErrInvalidParams, p.PixelsPerRMS)
	}

	w, err := ComputeVisibleWindow(seg, p.RMSFramesPerSecond)
	if err != nil {
		return SegmentLayout{}, err
	}

	amps, err := w.Slice(seg.RMSValues())
	if err != nil {
		return SegmentLayout{}, err
	}

	return SegmentLayout{
		SegmentID:   seg.ID(),
		Window:      w,
		Amplitudes:  amps,
		PixelWidth:  p.PixelsPerRMS * float64(w.Len()),
		PixelOffset: PixelOffset(seg.PlaybackStartTime(), p.RMSFramesPerSecond, p.PixelsPerRMS),
	}, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func positive(v float64) bool {
	return finite(v) && v > 0
}

func sameRate(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9*math.Max(math.Abs(a), math.Abs(b))
}
