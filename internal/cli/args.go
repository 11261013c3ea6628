package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// SegmentArg describes one segment on the command line:
//
//	path.wav[@playbackStart[:fileStart[:fileEnd]]]
type SegmentArg struct {
	Path          string
	PlaybackStart float64
	HasStart      bool // Whether a playback start was given explicitly
	FileStart     float64
	FileEnd       float64
	HasEnd        bool // Whether a file end was given; otherwise the file plays to its end
}

// ParseSegmentArg parses a segment argument
func ParseSegmentArg(arg string) (SegmentArg, error) {
	sa := SegmentArg{Path: arg}

	at := strings.LastIndex(arg, "@")
	if at < 0 {
		return sa, nil
	}

	sa.Path = arg[:at]
	if sa.Path == "" {
		return sa, fmt.Errorf("missing file path in %q", arg)
	}

	parts := strings.Split(arg[at+1:], ":")
	if len(parts) > 3 {
		return sa, fmt.Errorf("too many time fields in %q", arg)
	}

	times := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return sa, fmt.Errorf("invalid time %q in %q: %w", p, arg, err)
		}
		if v < 0 {
			return sa, fmt.Errorf("negative time %q in %q", p, arg)
		}
		times[i] = v
	}

	sa.PlaybackStart = times[0]
	sa.HasStart = true
	if len(times) > 1 {
		sa.FileStart = times[1]
	}
	if len(times) > 2 {
		sa.FileEnd = times[2]
		sa.HasEnd = true
		if sa.FileEnd < sa.FileStart {
			return sa, fmt.Errorf("file end %.3fs precedes file start %.3fs in %q", sa.FileEnd, sa.FileStart, arg)
		}
	}

	return sa, nil
}

// ParseSegmentArgs parses and validates every segment argument
func ParseSegmentArgs(args []string) ([]SegmentArg, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("at least 1 segment is required")
	}

	segArgs := make([]SegmentArg, len(args))
	for i, a := range args {
		arg, err := ParseSegmentArg(a)
		if err != nil {
			return nil, err
		}
		if err := validateFile(arg.Path); err != nil {
			return nil, fmt.Errorf("segment %d (%s) error: %w", i+1, arg.Path, err)
		}
		segArgs[i] = arg
	}
	return segArgs, nil
}

// validateFile checks if a file exists and has .wav extension
func validateFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file does not exist: %s", path)
		}
		return fmt.Errorf("cannot access file: %w", err)
	}

	if info.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", path)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".wav" {
		return fmt.Errorf("file must be WAV format (got %s): %s", ext, path)
	}

	return nil
}
