package cli

import (
	"fmt"
	"image/color"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/shidetake/trackview/internal/track"
)

// Config holds the parsed command-line configuration
type Config struct {
	Segments           []SegmentArg
	RMSFramesPerSecond float64 // Sample rate used for all index math (default: 50)
	PixelsPerRMS       float64 // Visual zoom factor (default: 1)
	Background         color.NRGBA
	Fill               color.NRGBA
	Height             int  // Image height in pixels (default: 100)
	Normalize          bool // Scale each segment's RMS so its peak is 1.0
	Align              bool // Place segments without a start time by correlation

	OutputPath string
	JSON       bool
	Addr       string
	Debounce   time.Duration
}

// Params returns the track parameters described by the configuration
func (c *Config) Params() track.Params {
	return track.Params{
		RMSFramesPerSecond: c.RMSFramesPerSecond,
		PixelsPerRMS:       c.PixelsPerRMS,
		BackgroundColor:    c.Background,
		FillColor:          c.Fill,
	}
}

var (
	rmsFramesPerSecond float64
	pixelsPerRMS       float64
	backgroundHex      string
	fillHex            string
	height             int
	normalize          bool
	alignSegments      bool

	outputPath  string
	jsonOutput  bool
	addr        string
	debounceDur time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "trackview",
	Short: "Audio track waveform renderer",
	Long: `Trackview - Audio Track Waveform Renderer

Lays out WAV segments on a shared timeline and renders their RMS waveforms
as one track.

Segments are given as path.wav[@playbackStart[:fileStart[:fileEnd]]], times in seconds.

Example:
  trackview render -o track.png drums.wav@0 drums.wav@5
  trackview layout --json vocals.wav@2:1.5:8
  trackview serve --addr :8080 drums.wav bass.wav@4`,
	SilenceUsage: true, // Don't show usage on errors during execution
}

var renderCmd = &cobra.Command{
	Use:   "render [flags] <segment> [segment ...]",
	Short: "Render a track to PNG",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := buildConfig(args)
		if err != nil {
			return err
		}
		if outputPath == "" {
			return fmt.Errorf("--output must not be empty")
		}
		config.OutputPath = outputPath

		return Run(config, cmd.OutOrStdout())
	},
}

var layoutCmd = &cobra.Command{
	Use:   "layout [flags] <segment> [segment ...]",
	Short: "Print the computed layout of every segment",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := buildConfig(args)
		if err != nil {
			return err
		}
		config.JSON = jsonOutput

		return RunLayout(config, cmd.OutOrStdout())
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve [flags] <segment> [segment ...]",
	Short: "Serve a live preview of the track over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := buildConfig(args)
		if err != nil {
			return err
		}
		if debounceDur <= 0 {
			return fmt.Errorf("debounce must be positive, got %s", debounceDur)
		}
		config.Addr = addr
		config.Debounce = debounceDur

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return RunServe(ctx, config, cmd.OutOrStdout())
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.Float64Var(&rmsFramesPerSecond, "rms-fps", track.DefaultRMSFramesPerSecond, "RMS frames per second used for extraction and layout")
	pf.Float64VarP(&pixelsPerRMS, "pixels-per-rms", "p", track.DefaultPixelsPerRMS, "Pixel width of one RMS sample")
	pf.StringVar(&backgroundHex, "background", track.HexColor(track.DefaultBackgroundColor), "Track background color (#rrggbb[aa])")
	pf.StringVar(&fillHex, "fill", track.HexColor(track.DefaultFillColor), "Waveform fill color (#rrggbb[aa])")
	pf.IntVar(&height, "height", 100, "Image height in pixels")
	pf.BoolVar(&normalize, "normalize", false, "Scale each segment so its loudest frame reaches full height")
	pf.BoolVar(&alignSegments, "align", false, "Place segments without a start time by correlating with the first segment")

	renderCmd.Flags().StringVarP(&outputPath, "output", "o", "track.png", "Output PNG path")
	layoutCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the layout as JSON")
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address")
	serveCmd.Flags().DurationVar(&debounceDur, "debounce", 250*time.Millisecond, "Delay before reloading changed files")

	rootCmd.AddCommand(renderCmd, layoutCmd, serveCmd)
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// buildConfig validates the shared flags and segment arguments
func buildConfig(args []string) (*Config, error) {
	segArgs, err := ParseSegmentArgs(args)
	if err != nil {
		return nil, err
	}

	if !(rmsFramesPerSecond > 0) {
		return nil, fmt.Errorf("rms frames per second must be positive, got %v", rmsFramesPerSecond)
	}
	if !(pixelsPerRMS > 0) {
		return nil, fmt.Errorf("pixels per rms must be positive, got %v", pixelsPerRMS)
	}
	if height <= 0 {
		return nil, fmt.Errorf("height must be positive, got %d", height)
	}

	bg, err := track.ParseHexColor(backgroundHex)
	if err != nil {
		return nil, fmt.Errorf("background: %w", err)
	}
	fill, err := track.ParseHexColor(fillHex)
	if err != nil {
		return nil, fmt.Errorf("fill: %w", err)
	}

	return &Config{
		Segments:           segArgs,
		RMSFramesPerSecond: rmsFramesPerSecond,
		PixelsPerRMS:       pixelsPerRMS,
		Background:         bg,
		Fill:               fill,
		Height:             height,
		Normalize:          normalize,
		Align:              alignSegments,
	}, nil
}
