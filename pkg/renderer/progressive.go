package renderer

import (
	"fmt"
	"time"

	"github.com/jspall/go-progressive-pathtracer/pkg/core"
	"github.com/jspall/go-progressive-pathtracer/pkg/scene"
)

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// ProgressiveRenderer drives repeated frame passes into a persistent
// accumulation buffer. The external event loop owns the cadence: it
// calls RenderFrame between input polls, so a frame always runs to
// completion once launched.
type ProgressiveRenderer struct {
	tracer *Tracer
	scene  *scene.Scene
	camera *Camera
	accum  *AccumBuffer
	config FrameConfig
	logger core.Logger
}

// NewProgressiveRenderer creates a renderer for the given scene and
// image size
func NewProgressiveRenderer(s *scene.Scene, width, height int, config FrameConfig, logger core.Logger) *ProgressiveRenderer {
	tracer := NewTracer()
	tracer.FOV = s.Camera.FOV
	return &ProgressiveRenderer{
		tracer: tracer,
		scene:  s,
		camera: NewCamera(s.Camera, width, height),
		accum:  NewAccumBuffer(width, height),
		config: config,
		logger: logger,
	}
}

// Tracer returns the underlying tracer for parameter tuning
func (pr *ProgressiveRenderer) Tracer() *Tracer { return pr.tracer }

// Frames returns the number of accumulated frames
func (pr *ProgressiveRenderer) Frames() int { return pr.accum.Frames() }

// Width returns the image width in pixels
func (pr *ProgressiveRenderer) Width() int { return pr.accum.Width() }

// Height returns the image height in pixels
func (pr *ProgressiveRenderer) Height() int { return pr.accum.Height() }

// RenderFrame renders one frame into the accumulation buffer and
// returns the pass statistics. Each frame derives fresh per-worker
// seeds from the frame counter, so a full render is reproducible for a
// fixed configuration.
func (pr *ProgressiveRenderer) RenderFrame() RenderStats {
	if pr.accum.Frames() >= MaxFrames {
		return RenderStats{TotalPixels: pr.accum.Width() * pr.accum.Height()}
	}

	frameConfig := pr.config
	frameConfig.Seed = pr.config.Seed + int64(pr.accum.Frames())*65537

	start := time.Now()
	stats := pr.tracer.RenderFrame(pr.scene, pr.camera, pr.accum, frameConfig)
	pr.accum.CommitFrame()

	if pr.logger != nil {
		pr.logger.Printf("Frame %d: %d samples (%.1f/pixel) with %d workers in %v\n",
			pr.accum.Frames(), stats.TotalSamples, stats.AverageSamples, stats.Workers, time.Since(start))
	}
	return stats
}

// WriteTo writes the current accumulated averages to a display sink
func (pr *ProgressiveRenderer) WriteTo(fb Framebuffer) {
	pr.accum.WriteTo(fb)
}

// SetCamera replaces the camera placement and discards accumulated
// history, which is stale the moment the view changes
func (pr *ProgressiveRenderer) SetCamera(cfg scene.CameraConfig) {
	pr.camera = NewCamera(cfg, pr.accum.Width(), pr.accum.Height())
	pr.accum.Reset()
}

// CameraConfig returns the current camera placement
func (pr *ProgressiveRenderer) CameraConfig() scene.CameraConfig {
	return scene.CameraConfig{
		Position: pr.camera.Transform.Position(),
		Angles:   pr.camera.Transform.Angles(),
		FOV:      pr.tracer.FOV,
	}
}
