// Package preview serves rendered tracks over HTTP and keeps them in sync
// with their source files.
package preview

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/shidetake/trackview/internal/render"
	"github.com/shidetake/trackview/internal/track"
)

// Server renders the current segment set on every request
type Server struct {
	mu       sync.RWMutex
	segments []track.Segment

	params track.Params
	height int
	logger *log.Logger
}

// NewServer creates a preview server for the given segments
func NewServer(segments []track.Segment, params track.Params, height int, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{params: params, height: height, logger: logger}
	s.SetSegments(segments)
	return s
}

// SetSegments replaces the segment set used by subsequent requests
func (s *Server) SetSegments(segments []track.Segment) {
	segs := make([]track.Segment, len(segments))
	copy(segs, segments)

	s.mu.Lock()
	s.segments = segs
	s.mu.Unlock()
}

func (s *Server) composite() (*track.CompositedTrack, error) {
	s.mu.RLock()
	segs := s.segments
	s.mu.RUnlock()

	return track.Composite(segs, s.params)
}

// Handler returns the routed, CORS-enabled HTTP handler
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/track.png", s.handleImage).Methods(http.MethodGet)
	router.HandleFunc("/layout.json", s.handleLayout).Methods(http.MethodGet)
	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	return cors.Default().Handler(router)
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	ct, err := s.composite()
	if err != nil {
		s.logger.Printf("composite failed: %v", err)
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if err := render.WritePNG(w, ct, s.height); err != nil {
		s.logger.Printf("render failed: %v", err)
	}
}

// LayoutResponse is the JSON form of a composited track
type LayoutResponse struct {
	Background string        `json:"background"`
	Extent     float64       `json:"extent"`
	Shapes     []ShapeLayout `json:"shapes"`
}

type ShapeLayout struct {
	ID         string    `json:"id"`
	Offset     float64   `json:"offset"`
	Width      float64   `json:"width"`
	Fill       string    `json:"fill"`
	Amplitudes []float64 `json:"amplitudes"`
}

// NewLayoutResponse converts a composited track to its JSON form
func NewLayoutResponse(ct *track.CompositedTrack) LayoutResponse {
	res := LayoutResponse{
		Background: track.HexColor(ct.Background),
		Extent:     ct.Extent(),
		Shapes:     make([]ShapeLayout, 0, len(ct.Shapes)),
	}
	for _, sh := range ct.Shapes {
		res.Shapes = append(res.Shapes, ShapeLayout{
			ID:         sh.SegmentID,
			Offset:     sh.PixelOffset,
			Width:      sh.PixelWidth,
			Fill:       track.HexColor(sh.Fill),
			Amplitudes: sh.Amplitudes,
		})
	}
	return res
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	ct, err := s.composite()
	if err != nil {
		s.logger.Printf("composite failed: %v", err)
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(NewLayoutResponse(ct)); err != nil {
		s.logger.Printf("encode failed: %v", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok\n"))
}
