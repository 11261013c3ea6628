package align

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// OffsetResult contains the detected lag of an envelope inside a reference
type OffsetResult struct {
	OffsetFrames  int     // Reference frame where the envelope's first frame lines up
	OffsetSeconds float64 // Offset in seconds
	Confidence    float64 // Normalized correlation peak, roughly 0.0 to 1.0
}

// DetectOffset finds where envelope best lines up inside reference using
// FFT cross-correlation of the normalized RMS envelopes. Only non-negative
// lags are considered.
func DetectOffset(reference, envelope []float64, framesPerSecond float64) (*OffsetResult, error) {
	if len(reference) == 0 {
		return nil, fmt.Errorf("reference envelope is empty")
	}
	if len(envelope) == 0 {
		return nil, fmt.Errorf("envelope is empty")
	}
	if !(framesPerSecond > 0) {
		return nil, fmt.Errorf("rms frames per second must be positive, got %v", framesPerSecond)
	}

	// Normalize both envelopes so loudness differences don't bias the peak
	refNorm := normalize(reference)
	envNorm := normalize(envelope)

	// Compute cross-correlation using FFT
	correlation := crossCorrelateFFT(refNorm, envNorm)

	// Find peak; result[k] means the envelope starts k frames into the reference
	peakIdx, peakValue := findMaxPeak(correlation[:len(reference)])

	return &OffsetResult{
		OffsetFrames:  peakIdx,
		OffsetSeconds: float64(peakIdx) / framesPerSecond,
		Confidence:    peakValue / float64(len(envNorm)),
	}, nil
}

// normalize scales data to have zero mean and unit variance
func normalize(data []float64) []float64 {
	if len(data) == 0 {
		return data
	}

	// Calculate mean
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	// Calculate standard deviation
	variance := 0.0
	for _, v := range data {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(len(data))
	stdDev := math.Sqrt(variance)

	// Flat envelopes carry no shape to match against
	if stdDev == 0 {
		stdDev = 1.0
	}

	result := make([]float64, len(data))
	for i, v := range data {
		result[i] = (v - mean) / stdDev
	}

	return result
}

// crossCorrelateFFT performs FFT-based cross-correlation.
// Returns len(signal1)+len(signal2)-1 values; the peak indicates best alignment.
func crossCorrelateFFT(signal1, signal2 []float64) []float64 {
	n := len(signal1) + len(signal2) - 1
	fftSize := nextPowerOfTwo(n)

	// Pad signals to FFT size
	padded1 := padToSize(signal1, fftSize)
	padded2 := padToSize(signal2, fftSize)

	fft := fourier.NewFFT(fftSize)

	// Forward FFT (real input to complex output)
	fft1 := fft.Coefficients(nil, padded1)
	fft2 := fft.Coefficients(nil, padded2)

	// Multiply in frequency domain: FFT1 * conj(FFT2)
	product := make([]complex128, len(fft1))
	for i := range product {
		product[i] = fft1[i] * cmplx.Conj(fft2[i])
	}

	// Inverse FFT (complex input to real output)
	resultReal := fft.Sequence(nil, product)

	// Gonum FFT is unnormalized: Coefficients followed by Sequence scales by length
	for i := range resultReal {
		resultReal[i] /= float64(fftSize)
	}

	// Trim to actual correlation size
	result := make([]float64, n)
	copy(result, resultReal[:n])

	return result
}

// findMaxPeak finds the index and value of the maximum peak in the correlation
func findMaxPeak(correlation []float64) (int, float64) {
	if len(correlation) == 0 {
		return 0, 0
	}

	maxIdx := 0
	maxVal := correlation[0]

	for i, v := range correlation {
		if v > maxVal {
			maxVal = v
			maxIdx = i
		}
	}

	return maxIdx, maxVal
}

// nextPowerOfTwo returns the next power of 2 >= n
func nextPowerOfTwo(n int) int {
	power := 1
	for power < n {
		power *= 2
	}
	return power
}

// padToSize pads a slice with zeros to reach the target size
func padToSize(data []float64, size int) []float64 {
	if len(data) >= size {
		return data
	}

	result := make([]float64, size)
	copy(result, data)
	return result
}
