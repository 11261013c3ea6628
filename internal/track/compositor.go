package track

import (
	"fmt"
	"image/color"
)

// Shape is one positioned waveform in a composited track
type Shape struct {
	SegmentID   string
	Amplitudes  []float64
	PixelWidth  float64
	PixelOffset float64
	Fill        color.NRGBA
}

// CompositedTrack is the ordered list of shapes drawn over a shared
// background. Later shapes are painted on top of earlier ones.
type CompositedTrack struct {
	Background color.NRGBA
	Shapes     []Shape
}

// Composite lays out every segment in order. A single failing segment aborts
// the whole composite.
func Composite(segments []Segment, p Params) (*CompositedTrack, error) {
	shapes := make([]Shape, 0, len(segments))

	for i, seg := range segments {
		layout, err := LayoutSegment(seg, p)
		if err != nil {
			return nil, fmt.Errorf("failed to lay out segment %d (%s): %w", i, seg.ID(), err)
		}

		shapes = append(shapes, Shape{
			SegmentID:   layout.SegmentID,
			Amplitudes:  layout.Amplitudes,
			PixelWidth:  layout.PixelWidth,
			PixelOffset: layout.PixelOffset,
			Fill:        p.FillColor,
		})
	}

	return &CompositedTrack{
		Background: p.BackgroundColor,
		Shapes:     shapes,
	}, nil
}

// Extent returns the right edge of the rightmost shape in pixels
func (c *CompositedTrack) Extent() float64 {
	extent := 0.0
	for _, s := range c.Shapes {
		if right := s.PixelOffset + s.PixelWidth; right > extent {
			extent = right
		}
	}
	return extent
}
