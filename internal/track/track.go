package track

import (
	"fmt"
	"image/color"
)

const (
	DefaultRMSFramesPerSecond = 50.0
	DefaultPixelsPerRMS       = 1.0
)

var (
	// DefaultBackgroundColor is gray at 10% opacity
	DefaultBackgroundColor = color.NRGBA{R: 128, G: 128, B: 128, A: 26}
	DefaultFillColor       = color.NRGBA{A: 255}
)

// Params holds the track-wide rendering parameters
type Params struct {
	RMSFramesPerSecond float64 // Rate used for all time-to-index math
	PixelsPerRMS       float64 // Horizontal zoom: pixels per RMS sample
	BackgroundColor    color.NRGBA
	FillColor          color.NRGBA
}

// DefaultParams returns the documented defaults
func DefaultParams() Params {
	return Params{
		RMSFramesPerSecond: DefaultRMSFramesPerSecond,
		PixelsPerRMS:       DefaultPixelsPerRMS,
		BackgroundColor:    DefaultBackgroundColor,
		FillColor:          DefaultFillColor,
	}
}

// Option configures a Track
type Option func(*Params)

func WithRMSFramesPerSecond(fps float64) Option {
	return func(p *Params) { p.RMSFramesPerSecond = fps }
}

func WithPixelsPerRMS(px float64) Option {
	return func(p *Params) { p.PixelsPerRMS = px }
}

func WithBackgroundColor(c color.NRGBA) Option {
	return func(p *Params) { p.BackgroundColor = c }
}

func WithFillColor(c color.NRGBA) Option {
	return func(p *Params) { p.FillColor = c }
}

// Track is an ordered composition of segments. It keeps no derived state;
// every Composite call recomputes the layout.
type Track struct {
	segments []Segment
	params   Params
}

// New creates a track over the given segments
func New(segments []Segment, opts ...Option) *Track {
	p := DefaultParams()
	for _, opt := range opts {
		opt(&p)
	}

	segs := make([]Segment, len(segments))
	copy(segs, segments)

	return &Track{segments: segs, params: p}
}

// Params returns the track's rendering parameters
func (t *Track) Params() Params {
	return t.params
}

// Segments returns the segments in paint order
func (t *Track) Segments() []Segment {
	out := make([]Segment, len(t.segments))
	copy(out, t.segments)
	return out
}

// Composite lays out every segment of the track
func (t *Track) Composite() (*CompositedTrack, error) {
	return Composite(t.segments, t.params)
}

func (p Params) String() string {
	return fmt.Sprintf("%.0f rms/s, %.2f px/rms", p.RMSFramesPerSecond, p.PixelsPerRMS)
}
