package audio

import (
	"fmt"

	"github.com/shidetake/trackview/internal/track"
)

// FileSegment is a track segment whose RMS values come from a WAV file
type FileSegment struct {
	*track.MemorySegment
	Path     string
	Duration float64 // Source file duration in seconds
}

// SegmentOptions bounds the played part of the file. Without HasEnd the
// segment plays the file to its end.
type SegmentOptions struct {
	ID        string
	FileStart float64
	FileEnd   float64
	HasEnd    bool // Whether FileEnd was given explicitly
	Normalize bool
}

// NewFileSegment loads a WAV file, extracts its RMS envelope at
// framesPerSecond and places it at playbackStart on the timeline
func NewFileSegment(path string, playbackStart, framesPerSecond float64, opts SegmentOptions) (*FileSegment, error) {
	// Step 1: Decode audio
	data, err := LoadWAV(path)
	if err != nil {
		return nil, err
	}

	// Step 2: Extract the RMS envelope; its length matches the full-file end time
	rms, err := ExtractRMS(data.Mono(), data.SampleRate, framesPerSecond)
	if err != nil {
		return nil, fmt.Errorf("failed to extract RMS from %s: %w", path, err)
	}
	if opts.Normalize {
		NormalizeRMS(rms)
	}

	// Step 3: Resolve the played file range
	duration := data.Duration()
	fileEnd := duration
	if opts.HasEnd {
		fileEnd = opts.FileEnd
	}
	if fileEnd > duration {
		return nil, fmt.Errorf("file end %.3fs exceeds duration %.3fs of %s", fileEnd, duration, path)
	}

	segOpts := []track.SegmentOption{
		track.WithFileRange(opts.FileStart, fileEnd),
		track.WithSampleRate(framesPerSecond),
	}
	if opts.ID != "" {
		segOpts = append(segOpts, track.WithID(opts.ID))
	}

	seg, err := track.NewSegment(rms, playbackStart, segOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create segment for %s: %w", path, err)
	}

	return &FileSegment{
		MemorySegment: seg,
		Path:          path,
		Duration:      duration,
	}, nil
}

// WithPlaybackStart returns a copy of the segment placed at a new playback start
func (s *FileSegment) WithPlaybackStart(start float64) (*FileSegment, error) {
	seg, err := track.NewSegment(s.RMSValues(), start,
		track.WithID(s.ID()),
		track.WithFileRange(s.FileStartTime(), s.FileEndTime()),
		track.WithSampleRate(s.RMSFramesPerSecond()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to move segment %s: %w", s.Path, err)
	}

	return &FileSegment{
		MemorySegment: seg,
		Path:          s.Path,
		Duration:      s.Duration,
	}, nil
}
