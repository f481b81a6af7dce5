package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image/png"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/jspall/go-progressive-pathtracer/pkg/renderer"
	"github.com/jspall/go-progressive-pathtracer/pkg/scene"
)

// Server handles web requests for the progressive pathtracer
type Server struct {
	port int
	mux  *http.ServeMux
}

// NewServer creates a new web server
func NewServer(port int) *Server {
	s := &Server{port: port, mux: http.NewServeMux()}
	s.mux.HandleFunc("/", s.handleIndex)
	s.mux.HandleFunc("/api/render", s.handleRender)
	s.mux.HandleFunc("/api/health", s.handleHealth)
	return s
}

// Handler returns the server's HTTP handler
func (s *Server) Handler() http.Handler { return s.mux }

// Start starts the web server and blocks
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.mux)
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene   string // Scene name: "default" or "empty"
	Width   int    // Image width
	Height  int    // Image height
	Frames  int    // Number of progressive frames to stream
	Workers int    // Render workers (0 = auto)
	Seed    int64  // Base random seed
}

// ProgressUpdate represents a single progressive update sent via SSE
type ProgressUpdate struct {
	FrameNumber    int     `json:"frameNumber"`
	TotalFrames    int     `json:"totalFrames"`
	ImageData      string  `json:"imageData"` // Base64 encoded PNG
	TotalSamples   int     `json:"totalSamples"`
	AverageSamples float64 `json:"averageSamples"`
	Workers        int     `json:"workers"`
	IsComplete     bool    `json:"isComplete"`
	ElapsedMs      int64   `json:"elapsedMs"`
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleRender streams progressive frames to the client with SSE. The
// render stops between frames when the client disconnects; a frame
// always runs to completion once launched.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	req, err := parseRenderRequest(r)
	if err != nil {
		s.sendSSEError(w, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	var sceneObj *scene.Scene
	switch req.Scene {
	case "default":
		sceneObj = scene.NewDefaultScene()
	case "empty":
		sceneObj = scene.NewEmptyScene()
	default:
		s.sendSSEError(w, "Unknown scene: "+req.Scene)
		return
	}

	config := renderer.DefaultFrameConfig()
	config.NumWorkers = req.Workers
	config.Seed = req.Seed

	progressive := renderer.NewProgressiveRenderer(sceneObj, req.Width, req.Height, config, nil)
	fb := renderer.NewImageFramebuffer(req.Width, req.Height)

	ctx := r.Context()
	startTime := time.Now()

	for i := 1; i <= req.Frames; i++ {
		select {
		case <-ctx.Done():
			return
		default:
		}

		stats := progressive.RenderFrame()
		progressive.WriteTo(fb)

		imageData, err := imageToBase64PNG(fb)
		if err != nil {
			s.sendSSEError(w, fmt.Sprintf("Failed to encode image: %v", err))
			return
		}

		update := ProgressUpdate{
			FrameNumber:    i,
			TotalFrames:    req.Frames,
			ImageData:      imageData,
			TotalSamples:   stats.TotalSamples,
			AverageSamples: stats.AverageSamples,
			Workers:        stats.Workers,
			IsComplete:     i == req.Frames,
			ElapsedMs:      time.Since(startTime).Milliseconds(),
		}
		if err := s.sendSSEUpdate(w, update); err != nil {
			return
		}
	}
}

// parseRenderRequest reads render parameters from the query string and
// applies defaults and limits
func parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{
		Scene:   "default",
		Width:   400,
		Height:  225,
		Frames:  32,
		Workers: 0,
		Seed:    1,
	}

	if v := query.Get("scene"); v != "" {
		req.Scene = v
	}

	intParams := []struct {
		name     string
		dest     *int
		min, max int
	}{
		{"width", &req.Width, 16, 1920},
		{"height", &req.Height, 16, 1080},
		{"frames", &req.Frames, 1, 4096},
		{"workers", &req.Workers, 0, 256},
	}
	for _, p := range intParams {
		v := query.Get(p.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %v", p.name, err)
		}
		if n < p.min || n > p.max {
			return nil, fmt.Errorf("%s must be in [%d, %d], got %d", p.name, p.min, p.max, n)
		}
		*p.dest = n
	}

	if v := query.Get("seed"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("seed: %v", err)
		}
		req.Seed = n
	}
	return req, nil
}

// imageToBase64PNG converts a framebuffer to a base64 encoded PNG
func imageToBase64PNG(fb *renderer.ImageFramebuffer) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, fb.Image()); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// sendSSEUpdate sends a progress update as an SSE event
func (s *Server) sendSSEUpdate(w http.ResponseWriter, update ProgressUpdate) error {
	data, err := json.Marshal(update)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: progress\ndata: %s\n\n", data); err != nil {
		return err
	}
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
	return nil
}

// sendSSEError sends an error message as an SSE event
func (s *Server) sendSSEError(w http.ResponseWriter, message string) {
	data, _ := json.Marshal(map[string]string{"error": message})
	fmt.Fprintf(w, "event: error\ndata: %s\n\n", data)
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}
}
