package track

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

// Segment is any independently placed excerpt of an audio source that can
// report its timeline placement, the file range it plays and its RMS samples.
type Segment interface {
	ID() string
	PlaybackStartTime() float64
	PlaybackEndTime() float64
	FileStartTime() float64
	FileEndTime() float64
	RMSValues() []float64
}

// RateReporter is implemented by segments that know the rate their RMS values
// were sampled at.
type RateReporter interface {
	RMSFramesPerSecond() float64
}

// PlaybackEnd derives the end of a segment on the playback timeline
func PlaybackEnd(playbackStart, fileStart, fileEnd float64) float64 {
	return playbackStart + (fileEnd - fileStart)
}

// MemorySegment is a Segment backed by RMS values already held in memory
type MemorySegment struct {
	id            string
	playbackStart float64
	fileStart     float64
	fileEnd       float64
	fileEndSet    bool
	framesPerSec  float64
	rms           []float64
}

// SegmentOption configures a MemorySegment
type SegmentOption func(*MemorySegment)

// WithID overrides the generated identifier
func WithID(id string) SegmentOption {
	return func(s *MemorySegment) {
		s.id = id
	}
}

// WithFileRange bounds the part of the source file that is played
func WithFileRange(start, end float64) SegmentOption {
	return func(s *MemorySegment) {
		s.fileStart = start
		s.fileEnd = end
		s.fileEndSet = true
	}
}

// WithSampleRate records the rate the RMS values were produced at. Without a
// file range, the file end defaults to the duration the values cover.
func WithSampleRate(framesPerSecond float64) SegmentOption {
	return func(s *MemorySegment) {
		s.framesPerSec = framesPerSecond
	}
}

// NewSegment builds an immutable segment. It returns either a complete segment
// or an error wrapping ErrInvalidSegment.
func NewSegment(rms []float64, playbackStart float64, opts ...SegmentOption) (*MemorySegment, error) {
	s := &MemorySegment{
		playbackStart: playbackStart,
	}
	for _, opt := range opts {
		opt(s)
	}

	if len(rms) == 0 {
		return nil, fmt.Errorf("%w: no rms values", ErrInvalidSegment)
	}
	if s.framesPerSec < 0 || math.IsNaN(s.framesPerSec) || math.IsInf(s.framesPerSec, 0) {
		return nil, fmt.Errorf("%w: rms rate must be positive, got %v", ErrInvalidSegment, s.framesPerSec)
	}

	if !s.fileEndSet {
		if s.framesPerSec == 0 {
			return nil, fmt.Errorf("%w: file range or rms rate is required", ErrInvalidSegment)
		}
		s.fileEnd = float64(len(rms)) / s.framesPerSec
	}

	if err := validateTimes(s.playbackStart, s.fileStart, s.fileEnd); err != nil {
		return nil, err
	}

	if s.id == "" {
		s.id = uuid.New().String()
	}

	s.rms = make([]float64, len(rms))
	copy(s.rms, rms)

	return s, nil
}

func validateTimes(playbackStart, fileStart, fileEnd float64) error {
	for _, v := range []float64{playbackStart, fileStart, fileEnd} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: times must be finite", ErrInvalidSegment)
		}
	}
	if playbackStart < 0 {
		return fmt.Errorf("%w: playback start %.3fs is negative", ErrInvalidSegment, playbackStart)
	}
	if fileStart < 0 {
		return fmt.Errorf("%w: file start %.3fs is negative", ErrInvalidSegment, fileStart)
	}
	if fileEnd < fileStart {
		return fmt.Errorf("%w: file end %.3fs precedes file start %.3fs", ErrInvalidSegment, fileEnd, fileStart)
	}
	return nil
}

func (s *MemorySegment) ID() string { return s.id }

func (s *MemorySegment) PlaybackStartTime() float64 { return s.playbackStart }

func (s *MemorySegment) PlaybackEndTime() float64 {
	return PlaybackEnd(s.playbackStart, s.fileStart, s.fileEnd)
}

func (s *MemorySegment) FileStartTime() float64 { return s.fileStart }

func (s *MemorySegment) FileEndTime() float64 { return s.fileEnd }

// RMSValues returns the stored samples. Callers must not modify them.
func (s *MemorySegment) RMSValues() []float64 { return s.rms }

// RMSFramesPerSecond returns the recorded sampling rate, or 0 if unknown
func (s *MemorySegment) RMSFramesPerSecond() float64 { return s.framesPerSec }
