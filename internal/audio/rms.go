package audio

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// RMSFrameCount returns how many whole RMS frames fit in the audio. It equals
// floor(Duration(samples, sampleRate) * framesPerSecond), the same index a
// full-file end time maps to during layout.
func RMSFrameCount(samples, sampleRate int, framesPerSecond float64) int {
	return int(math.Floor(Duration(samples, sampleRate) * framesPerSecond))
}

// frameBounds returns the half-open sample range [start, end) of RMS frame i.
// Boundaries sit at floor(i*sampleRate/fps) so frames average exactly fps per
// second even when sampleRate/fps is not whole.
func frameBounds(i, sampleRate int, framesPerSecond float64) (int, int) {
	per := float64(sampleRate) / framesPerSecond
	start := int(math.Floor(float64(i) * per))
	end := int(math.Floor(float64(i+1) * per))
	if end <= start {
		end = start + 1
	}
	return start, end
}

// ExtractRMS computes one RMS value per whole frame of mono audio. A trailing
// partial frame is dropped so the result covers exactly
// RMSFrameCount(len(mono), sampleRate, framesPerSecond) frames.
func ExtractRMS(mono []float64, sampleRate int, framesPerSecond float64) ([]float64, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", sampleRate)
	}
	if !(framesPerSecond > 0) || math.IsInf(framesPerSecond, 0) {
		return nil, fmt.Errorf("rms frames per second must be positive, got %v", framesPerSecond)
	}
	if len(mono) == 0 {
		return nil, fmt.Errorf("audio data is empty")
	}

	n := RMSFrameCount(len(mono), sampleRate, framesPerSecond)
	if n == 0 {
		return nil, fmt.Errorf("audio of %d samples is shorter than one rms frame at %v frames/s", len(mono), framesPerSecond)
	}

	rms := make([]float64, n)
	for i := range rms {
		start, end := frameBounds(i, sampleRate, framesPerSecond)
		if end > len(mono) {
			end = len(mono)
		}
		frame := mono[start:end]
		rms[i] = math.Sqrt(floats.Dot(frame, frame) / float64(len(frame)))
	}

	return rms, nil
}

// NormalizeRMS scales values in place so the loudest frame is 1.0. Silent
// input is left untouched.
func NormalizeRMS(rms []float64) {
	if len(rms) == 0 {
		return
	}
	peak := floats.Max(rms)
	if peak <= 0 {
		return
	}
	floats.Scale(1/peak, rms)
}
