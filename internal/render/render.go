// Package render paints composited tracks onto raster images.
package render

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"math"
	"os"

	"golang.org/x/image/vector"

	"github.com/shidetake/trackview/internal/shape"
	"github.com/shidetake/trackview/internal/track"
)

// Paint draws the track background, then every shape in order so later
// shapes end up on top. Each shape's frame is backed by the track background
// before its waveform is filled.
func Paint(ct *track.CompositedTrack, height int) (*image.NRGBA, error) {
	if height <= 0 {
		return nil, fmt.Errorf("image height must be positive, got %d", height)
	}

	width := int(math.Ceil(ct.Extent()))
	if width < 1 {
		width = 1
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(ct.Background), image.Point{}, draw.Src)

	z := vector.NewRasterizer(width, height)
	for _, s := range ct.Shapes {
		frame := image.Rect(
			int(math.Floor(s.PixelOffset)), 0,
			int(math.Ceil(s.PixelOffset+s.PixelWidth)), height,
		).Intersect(img.Bounds())
		draw.Draw(img, frame, image.NewUniform(ct.Background), image.Point{}, draw.Over)

		path := shape.Waveform(s.Amplitudes, s.PixelWidth, float64(height)).Translate(s.PixelOffset, 0)
		if len(path) == 0 {
			continue
		}

		z.Reset(width, height)
		z.DrawOp = draw.Over
		z.MoveTo(float32(path[0].X), float32(path[0].Y))
		for _, pt := range path[1:] {
			z.LineTo(float32(pt.X), float32(pt.Y))
		}
		z.ClosePath()
		z.Draw(img, img.Bounds(), image.NewUniform(s.Fill), image.Point{})
	}

	return img, nil
}

// WritePNG paints the track and encodes it as PNG
func WritePNG(w io.Writer, ct *track.CompositedTrack, height int) error {
	img, err := Paint(ct, height)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}

// WritePNGFile paints the track into a PNG file at path
func WritePNGFile(path string, ct *track.CompositedTrack, height int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create image file %s: %w", path, err)
	}
	defer f.Close()

	if err := WritePNG(f, ct, height); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}
