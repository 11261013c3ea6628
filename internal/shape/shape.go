// Package shape turns amplitude sequences into filled waveform outlines.
package shape

import "math"

// Point is a position in pixel space, Y growing downwards
type Point struct {
	X, Y float64
}

// Path is a closed polygon. The last point connects back to the first.
type Path []Point

// Width returns the horizontal extent of the path
func (p Path) Width() float64 {
	if len(p) == 0 {
		return 0
	}
	minX, maxX := p[0].X, p[0].X
	for _, pt := range p[1:] {
		if pt.X < minX {
			minX = pt.X
		}
		if pt.X > maxX {
			maxX = pt.X
		}
	}
	return maxX - minX
}

// Translate returns a copy of the path moved by dx, dy
func (p Path) Translate(dx, dy float64) Path {
	out := make(Path, len(p))
	for i, pt := range p {
		out[i] = Point{X: pt.X + dx, Y: pt.Y + dy}
	}
	return out
}

// Waveform builds a mirrored outline of amps spanning [0, width] horizontally
// and centered in [0, height] vertically. Every amplitude owns an equal-width
// column; values are clamped to [0, 1] and reach height/2 at 1.
func Waveform(amps []float64, width, height float64) Path {
	n := len(amps)
	if n == 0 || width <= 0 {
		return nil
	}

	mid := height / 2
	step := width / float64(n)
	path := make(Path, 0, 4*n)

	// Top edge left to right
	for i, a := range amps {
		y := mid - clamp(a)*mid
		path = append(path,
			Point{X: float64(i) * step, Y: y},
			Point{X: columnEnd(i, n, step, width), Y: y},
		)
	}

	// Bottom edge right to left
	for i := n - 1; i >= 0; i-- {
		y := mid + clamp(amps[i])*mid
		path = append(path,
			Point{X: columnEnd(i, n, step, width), Y: y},
			Point{X: float64(i) * step, Y: y},
		)
	}

	return path
}

// columnEnd pins the last column to width so rounding never shortens the path
func columnEnd(i, n int, step, width float64) float64 {
	if i == n-1 {
		return width
	}
	return float64(i+1) * step
}

func clamp(a float64) float64 {
	if a < 0 || math.IsNaN(a) {
		return 0
	}
	if a > 1 {
		return 1
	}
	return a
}
