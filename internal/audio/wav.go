package audio

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WAVData holds a decoded WAV file
type WAVData struct {
	Path       string
	SampleRate int
	Channels   int
	BitDepth   int
	Frames     int       // Samples per channel
	Data       []float64 // Interleaved samples normalized to -1.0 to 1.0
}

// LoadWAV decodes a WAV file into normalized samples. Trailing samples that do
// not fill a whole multi-channel frame are dropped.
func LoadWAV(path string) (*WAVData, error) {
	// Open WAV file
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open WAV file %s: %w", path, err)
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV file: %s", path)
	}

	// Read format information
	format := decoder.Format()
	channels := int(decoder.NumChans)
	bitDepth := int(decoder.BitDepth)
	if channels < 1 || bitDepth < 1 {
		return nil, fmt.Errorf("unsupported WAV format in %s: %d channels, %d bits", path, channels, bitDepth)
	}

	// Read PCM data in chunks
	const bufferSize = 4096
	pcm := make([]int, 0)

	for {
		buf := &audio.IntBuffer{
			Data:   make([]int, bufferSize),
			Format: format,
		}

		n, err := decoder.PCMBuffer(buf)
		if err != nil {
			return nil, fmt.Errorf("failed to read PCM data from %s: %w", path, err)
		}
		if n == 0 {
			break
		}
		pcm = append(pcm, buf.Data[:n]...)
	}

	frames := len(pcm) / channels
	if frames == 0 {
		return nil, fmt.Errorf("WAV file contains no audio data: %s", path)
	}

	// Normalize whole frames to -1.0..1.0
	scale := float64(int(1) << uint(bitDepth-1))
	data := make([]float64, frames*channels)
	for i := range data {
		data[i] = float64(pcm[i]) / scale
	}

	return &WAVData{
		Path:       path,
		SampleRate: int(decoder.SampleRate),
		Channels:   channels,
		BitDepth:   bitDepth,
		Frames:     frames,
		Data:       data,
	}, nil
}

// WriteWAV encodes interleaved samples as PCM, clipping to -1.0..1.0
func WriteWAV(path string, data []float64, sampleRate, channels, bitDepth int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create WAV file %s: %w", path, err)
	}
	defer f.Close()

	encoder := wav.NewEncoder(f, sampleRate, bitDepth, channels, 1)

	// Quantize, keeping +1.0 inside the positive range
	maxVal := 1 << uint(bitDepth-1)
	pcm := make([]int, len(data))
	for i, sample := range data {
		v := int(clip(sample) * float64(maxVal))
		if v >= maxVal {
			v = maxVal - 1
		}
		pcm[i] = v
	}

	buf := &audio.IntBuffer{
		Data: pcm,
		Format: &audio.Format{
			NumChannels: channels,
			SampleRate:  sampleRate,
		},
		SourceBitDepth: bitDepth,
	}

	if err := encoder.Write(buf); err != nil {
		return fmt.Errorf("failed to write WAV data to %s: %w", path, err)
	}

	// Close writes the header sizes
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to finalize WAV file %s: %w", path, err)
	}

	return nil
}

func clip(sample float64) float64 {
	if sample > 1.0 {
		return 1.0
	}
	if sample < -1.0 {
		return -1.0
	}
	return sample
}

// ToMono converts multi-channel audio to mono by averaging channels
func ToMono(data []float64, channels int) []float64 {
	if channels <= 1 {
		return data
	}

	numSamples := len(data) / channels
	mono := make([]float64, numSamples)

	for i := 0; i < numSamples; i++ {
		sum := 0.0
		for ch := 0; ch < channels; ch++ {
			sum += data[i*channels+ch]
		}
		mono[i] = sum / float64(channels)
	}

	return mono
}

// Mono returns the file's samples mixed down to one channel
func (w *WAVData) Mono() []float64 {
	return ToMono(w.Data, w.Channels)
}

// Duration returns the duration of the audio in seconds
func (w *WAVData) Duration() float64 {
	return Duration(w.Frames, w.SampleRate)
}

// Duration converts a per-channel sample count to seconds
func Duration(frames, sampleRate int) float64 {
	return float64(frames) / float64(sampleRate)
}
