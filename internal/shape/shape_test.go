package shape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaveformSpansWidth(t *testing.T) {
	for _, n := range []int{1, 3, 7, 500} {
		amps := make([]float64, n)
		for i := range amps {
			amps[i] = 0.5
		}
		p := Waveform(amps, 123.4, 100)
		assert.Equal(t, 123.4, p.Width(), "n=%d", n)
		assert.Len(t, p, 4*n)
		assert.Equal(t, 0.0, p[0].X)
	}
}

func TestWaveformMirrorsAmplitudes(t *testing.T) {
	p := Waveform([]float64{1, 0.5}, 4, 100)
	require.Len(t, p, 8)

	assert.Equal(t, Path{
		{0, 0}, {2, 0},
		{2, 25}, {4, 25},
		{4, 75}, {2, 75},
		{2, 100}, {0, 100},
	}, p)
}

func TestWaveformSingleSampleIsBlock(t *testing.T) {
	p := Waveform([]float64{0.5}, 10, 20)
	assert.Equal(t, Path{{0, 5}, {10, 5}, {10, 15}, {0, 15}}, p)
}

func TestWaveformClampsAmplitudes(t *testing.T) {
	p := Waveform([]float64{-1, 2}, 2, 10)
	assert.Equal(t, 5.0, p[0].Y)
	assert.Equal(t, 0.0, p[2].Y)
}

func TestWaveformIsDeterministic(t *testing.T) {
	amps := []float64{0.1, 0.9, 0.3}
	assert.Equal(t, Waveform(amps, 30, 40), Waveform(amps, 30, 40))
}

func TestWaveformEmpty(t *testing.T) {
	assert.Nil(t, Waveform(nil, 10, 10))
	assert.Nil(t, Waveform([]float64{1}, 0, 10))
}

func TestTranslate(t *testing.T) {
	p := Path{{0, 0}, {1, 2}}
	moved := p.Translate(10, 1)
	assert.Equal(t, Path{{10, 1}, {11, 3}}, moved)
	assert.Equal(t, Path{{0, 0}, {1, 2}}, p)
}
