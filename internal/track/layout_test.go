package track

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSegment bypasses NewSegment validation to reach the layout guards
type stubSegment struct {
	playbackStart, fileStart, fileEnd float64
	rms                               []float64
}

func (s stubSegment) ID() string                 { return "stub" }
func (s stubSegment) PlaybackStartTime() float64 { return s.playbackStart }
func (s stubSegment) PlaybackEndTime() float64 {
	return PlaybackEnd(s.playbackStart, s.fileStart, s.fileEnd)
}
func (s stubSegment) FileStartTime() float64 { return s.fileStart }
func (s stubSegment) FileEndTime() float64   { return s.fileEnd }
func (s stubSegment) RMSValues() []float64   { return s.rms }

func ramp(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i) / float64(n)
	}
	return out
}

func mustSegment(t *testing.T, rms []float64, playbackStart float64, opts ...SegmentOption) *MemorySegment {
	t.Helper()
	seg, err := NewSegment(rms, playbackStart, opts...)
	require.NoError(t, err)
	return seg
}

func TestFullRangeWindowCoversAllSamples(t *testing.T) {
	rms := ramp(500)
	seg := mustSegment(t, rms, 5, WithFileRange(0, 10))

	layout, err := LayoutSegment(seg, DefaultParams())
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(Window{Start: 0, End: 499}, layout.Window)
	assert.Equal(rms, layout.Amplitudes)
	assert.Equal(500.0, layout.PixelWidth)
	assert.Equal(250.0, layout.PixelOffset)
	assert.Equal(seg.ID(), layout.SegmentID)
}

func TestComputeVisibleWindow(t *testing.T) {
	tests := []struct {
		name      string
		fileStart float64
		fileEnd   float64
		want      Window
	}{
		{"first second", 0, 1, Window{0, 49}},
		{"middle", 1, 2, Window{50, 99}},
		{"end equals length", 9, 10, Window{450, 499}},
		{"fractional end rounds down to length", 9, 10.019, Window{450, 499}},
		{"end past data is clamped", 9, 20, Window{450, 499}},
		{"single sample", 0.021, 0.041, Window{1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seg := stubSegment{fileStart: tt.fileStart, fileEnd: tt.fileEnd, rms: ramp(500)}
			got, err := ComputeVisibleWindow(seg, 50)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputeVisibleWindowErrors(t *testing.T) {
	tests := []struct {
		name string
		seg  Segment
		fps  float64
		want error
	}{
		{"zero duration", stubSegment{fileStart: 2, fileEnd: 2, rms: ramp(500)}, 50, ErrInvalidWindowRange},
		{"zero duration at origin", stubSegment{fileStart: 0, fileEnd: 0, rms: ramp(500)}, 50, ErrInvalidWindowRange},
		{"end before first sample", stubSegment{fileStart: 0, fileEnd: 0.01, rms: ramp(500)}, 50, ErrInvalidWindowRange},
		{"start beyond data", stubSegment{fileStart: 11, fileEnd: 12, rms: ramp(500)}, 50, ErrInvalidWindowRange},
		{"inverted range", stubSegment{fileStart: 3, fileEnd: 1, rms: ramp(500)}, 50, ErrInvalidWindowRange},
		{"empty rms", stubSegment{fileStart: 0, fileEnd: 1}, 50, ErrInvalidWindowRange},
		{"negative start", stubSegment{fileStart: -1, fileEnd: 2, rms: ramp(500)}, 50, ErrIndexOutOfRange},
		{"nan end", stubSegment{fileStart: 0, fileEnd: math.NaN(), rms: ramp(500)}, 50, ErrInvalidWindowRange},
		{"infinite end", stubSegment{fileStart: 0, fileEnd: math.Inf(1), rms: ramp(500)}, 50, ErrInvalidWindowRange},
		{"zero rate", stubSegment{fileStart: 0, fileEnd: 1, rms: ramp(500)}, 0, ErrInvalidParams},
		{"negative rate", stubSegment{fileStart: 0, fileEnd: 1, rms: ramp(500)}, -50, ErrInvalidParams},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeVisibleWindow(tt.seg, tt.fps)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestHugeFileEndDoesNotOverflow(t *testing.T) {
	seg := stubSegment{fileStart: 0, fileEnd: 1e300, rms: ramp(10)}
	w, err := ComputeVisibleWindow(seg, 50)
	require.NoError(t, err)
	assert.Equal(t, Window{0, 9}, w)
}

func TestRateMismatchIsRejected(t *testing.T) {
	seg := mustSegment(t, ramp(100), 0, WithSampleRate(100))

	_, err := ComputeVisibleWindow(seg, 50)
	assert.ErrorIs(t, err, ErrRateMismatch)

	w, err := ComputeVisibleWindow(seg, 100)
	require.NoError(t, err)
	assert.Equal(t, Window{0, 99}, w)
}

func TestTimesWithinOneFrameShareWindow(t *testing.T) {
	a := stubSegment{fileStart: 0.021, fileEnd: 2.001, rms: ramp(500)}
	b := stubSegment{fileStart: 0.039, fileEnd: 2.019, rms: ramp(500)}

	wa, err := ComputeVisibleWindow(a, 50)
	require.NoError(t, err)
	wb, err := ComputeVisibleWindow(b, 50)
	require.NoError(t, err)

	assert.Equal(t, wa, wb)
}

func TestPixelWidthMatchesWindowLength(t *testing.T) {
	p := DefaultParams()
	p.PixelsPerRMS = 2.5

	for _, r := range [][2]float64{{0, 10}, {0.5, 3.3}, {4, 4.05}, {9.98, 10}} {
		seg := mustSegment(t, ramp(500), 0, WithFileRange(r[0], r[1]))
		layout, err := LayoutSegment(seg, p)
		require.NoError(t, err)

		assert.Equal(t, p.PixelsPerRMS*float64(layout.Window.Len()), layout.PixelWidth)
		assert.Greater(t, layout.PixelWidth, 0.0)
		assert.Len(t, layout.Amplitudes, layout.Window.Len())
	}
}

func TestPixelOffsetMonotonic(t *testing.T) {
	p := DefaultParams()
	prev := -1.0
	for i := 0; i <= 100; i++ {
		seg := mustSegment(t, ramp(50), float64(i)*0.37, WithFileRange(0, 1))
		layout, err := LayoutSegment(seg, p)
		require.NoError(t, err)
		if layout.PixelOffset < prev {
			t.Errorf("offset decreased at start %.2fs: %v < %v", seg.PlaybackStartTime(), layout.PixelOffset, prev)
		}
		prev = layout.PixelOffset
	}
}

func TestLayoutSegmentRejectsBadZoom(t *testing.T) {
	seg := mustSegment(t, ramp(50), 0, WithFileRange(0, 1))
	p := DefaultParams()
	p.PixelsPerRMS = 0

	_, err := LayoutSegment(seg, p)
	assert.ErrorIs(t, err, ErrInvalidParams)
}
