package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"path/filepath"
	"time"

	"github.com/shidetake/trackview/internal/align"
	"github.com/shidetake/trackview/internal/audio"
	"github.com/shidetake/trackview/internal/preview"
	"github.com/shidetake/trackview/internal/render"
	"github.com/shidetake/trackview/internal/track"
)

const (
	minConfidence = 0.3 // Minimum alignment confidence before warning
)

// Run renders the configured track to a PNG file
func Run(config *Config, out io.Writer) error {
	fmt.Fprintln(out, "Trackview - Audio Track Waveform Renderer")
	fmt.Fprintln(out, "=========================================")
	fmt.Fprintln(out)

	// Step 1: Load segments
	fmt.Fprintln(out, "Loading files...")
	segments, err := loadSegments(config, out)
	if err != nil {
		return err
	}
	fmt.Fprintln(out)

	// Step 2: Lay out and composite every segment
	fmt.Fprintln(out, "Compositing track...")
	ct, err := track.New(segments, trackOptions(config)...).Composite()
	if err != nil {
		return err
	}
	printShapes(out, config, ct)
	fmt.Fprintln(out)

	// Step 3: Paint and write the image
	fmt.Fprintln(out, "Writing image...")
	if err := render.WritePNGFile(config.OutputPath, ct, config.Height); err != nil {
		return err
	}
	fmt.Fprintf(out, "  ✓ %s (%dx%d)\n", config.OutputPath, imageWidth(ct), config.Height)

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Rendering complete!")

	return nil
}

// RunLayout prints the layout of every segment without rendering
func RunLayout(config *Config, out io.Writer) error {
	// Load quietly so JSON output stays parseable
	segments, err := loadSegments(config, io.Discard)
	if err != nil {
		return err
	}

	params := config.Params()
	layouts := make([]track.SegmentLayout, len(segments))
	for i, seg := range segments {
		layout, err := track.LayoutSegment(seg, params)
		if err != nil {
			return fmt.Errorf("failed to lay out segment %d (%s): %w", i+1, config.Segments[i].Path, err)
		}
		layouts[i] = layout
	}

	if config.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(newLayoutReport(config, layouts))
	}

	fmt.Fprintf(out, "Track: %s\n", params)
	for i, l := range layouts {
		fmt.Fprintf(out, "  %d. %s: window %s (%d rms), offset %.1fpx, width %.1fpx\n",
			i+1,
			filepath.Base(config.Segments[i].Path),
			l.Window,
			l.Window.Len(),
			l.PixelOffset,
			l.PixelWidth)
	}
	return nil
}

// RunServe serves a live preview until ctx is cancelled
func RunServe(ctx context.Context, config *Config, out io.Writer) error {
	// Step 1: Load segments
	fmt.Fprintln(out, "Loading files...")
	segments, err := loadSegments(config, out)
	if err != nil {
		return err
	}

	logger := log.New(out, "trackview: ", log.LstdFlags)
	srv := preview.NewServer(segments, config.Params(), config.Height, logger)

	// Step 2: Watch source files and swap in reloaded segments
	paths := make([]string, len(config.Segments))
	for i, arg := range config.Segments {
		paths[i] = arg.Path
	}

	watcher := &preview.Watcher{
		Paths: paths,
		Load: func() ([]track.Segment, error) {
			return loadSegments(config, io.Discard)
		},
		Apply:  srv.SetSegments,
		Delay:  config.Debounce,
		Logger: logger,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	watchErr := make(chan error, 1)
	go func() {
		watchErr <- watcher.Run(ctx)
	}()

	// Step 3: Serve until cancelled or something fails
	httpServer := &http.Server{
		Addr:              config.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- httpServer.ListenAndServe()
	}()
	fmt.Fprintf(out, "\nServing preview on %s (/track.png, /layout.json)\n", config.Addr)

	return awaitShutdown(ctx, httpServer, serveErr, watchErr)
}

// awaitShutdown blocks until ctx is done, the server stops or the watcher
// fails, then shuts the server down on every path. The first failure wins.
func awaitShutdown(ctx context.Context, httpServer *http.Server, serveErr, watchErr <-chan error) error {
	var runErr error
	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			runErr = fmt.Errorf("preview server failed: %w", err)
		}
	case err := <-watchErr:
		if err != nil {
			runErr = fmt.Errorf("file watcher failed: %w", err)
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := httpServer.Shutdown(shutdownCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("failed to shut down preview server: %w", err)
	}
	return runErr
}

func trackOptions(config *Config) []track.Option {
	return []track.Option{
		track.WithRMSFramesPerSecond(config.RMSFramesPerSecond),
		track.WithPixelsPerRMS(config.PixelsPerRMS),
		track.WithBackgroundColor(config.Background),
		track.WithFillColor(config.Fill),
	}
}

// loadSegments builds every segment, placing unanchored ones by correlation
// when alignment is enabled
func loadSegments(config *Config, out io.Writer) ([]track.Segment, error) {
	files := make([]*audio.FileSegment, len(config.Segments))

	// Decode and extract every file in argument order
	for i, arg := range config.Segments {
		seg, err := audio.NewFileSegment(arg.Path, arg.PlaybackStart, config.RMSFramesPerSecond, audio.SegmentOptions{
			FileStart: arg.FileStart,
			FileEnd:   arg.FileEnd,
			HasEnd:    arg.HasEnd,
			Normalize: config.Normalize,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to load segment %d: %w", i+1, err)
		}
		files[i] = seg
	}

	// Place unanchored segments before anything is reported
	if config.Align && len(files) > 1 {
		if err := alignSegmentsTo(files, config, out); err != nil {
			return nil, err
		}
	}

	segments := make([]track.Segment, len(files))
	for i, seg := range files {
		fmt.Fprintf(out, "  ✓ Segment %d: %s (start %.3fs, file %.3fs-%.3fs of %.3fs, %d rms)\n",
			i+1,
			filepath.Base(seg.Path),
			seg.PlaybackStartTime(),
			seg.FileStartTime(),
			seg.FileEndTime(),
			seg.Duration,
			len(seg.RMSValues()))
		segments[i] = seg
	}

	return segments, nil
}

// alignSegmentsTo places every segment without an explicit start relative
// to the first segment
func alignSegmentsTo(files []*audio.FileSegment, config *Config, out io.Writer) error {
	reference := files[0]

	for i := 1; i < len(files); i++ {
		if config.Segments[i].HasStart {
			continue
		}

		p, err := align.Place(reference, files[i].RMSValues(), files[i].FileStartTime(), config.RMSFramesPerSecond)
		if err != nil {
			return fmt.Errorf("failed to align segment %d: %w", i+1, err)
		}

		moved, err := files[i].WithPlaybackStart(p.PlaybackStart)
		if err != nil {
			return err
		}
		files[i] = moved

		name := filepath.Base(files[i].Path)
		fmt.Fprintf(out, "  ✓ Aligned %s: %s (confidence: %.2f)\n",
			name, align.FormatOffsetSeconds(p.Offset.OffsetSeconds), p.Offset.Confidence)
		if warning, ok := align.ValidateConfidence(name, p, minConfidence); !ok {
			fmt.Fprintf(out, "  ⚠️  %s\n", warning)
		}
	}

	return nil
}

func printShapes(out io.Writer, config *Config, ct *track.CompositedTrack) {
	for i, s := range ct.Shapes {
		fmt.Fprintf(out, "  %s: %d rms at %.1fpx, %.1fpx wide\n",
			filepath.Base(config.Segments[i].Path),
			len(s.Amplitudes),
			s.PixelOffset,
			s.PixelWidth)
	}
}

func imageWidth(ct *track.CompositedTrack) int {
	w := int(math.Ceil(ct.Extent()))
	if w < 1 {
		return 1
	}
	return w
}

type layoutReport struct {
	RMSFramesPerSecond float64         `json:"rmsFramesPerSecond"`
	PixelsPerRMS       float64         `json:"pixelsPerRMS"`
	Segments           []segmentReport `json:"segments"`
}

type segmentReport struct {
	ID          string  `json:"id"`
	Path        string  `json:"path"`
	StartIndex  int     `json:"startIndex"`
	EndIndex    int     `json:"endIndex"`
	PixelOffset float64 `json:"pixelOffset"`
	PixelWidth  float64 `json:"pixelWidth"`
}

func newLayoutReport(config *Config, layouts []track.SegmentLayout) layoutReport {
	report := layoutReport{
		RMSFramesPerSecond: config.RMSFramesPerSecond,
		PixelsPerRMS:       config.PixelsPerRMS,
		Segments:           make([]segmentReport, len(layouts)),
	}
	for i, l := range layouts {
		report.Segments[i] = segmentReport{
			ID:          l.SegmentID,
			Path:        config.Segments[i].Path,
			StartIndex:  l.Window.Start,
			EndIndex:    l.Window.End,
			PixelOffset: l.PixelOffset,
			PixelWidth:  l.PixelWidth,
		}
	}
	return report
}
