package renderer

import (
	"math/rand"
	"runtime"
	"sync"

	"github.com/jspall/go-progressive-pathtracer/pkg/core"
	"github.com/jspall/go-progressive-pathtracer/pkg/scene"
)

// FrameConfig configures one parallel frame pass
type FrameConfig struct {
	NumWorkers int   // Number of workers (0 = CPU count)
	Jitter     bool  // Sub-pixel jitter for stochastic supersampling across frames
	Seed       int64 // Base RNG seed; worker i derives its own source from Seed and i
}

// DefaultFrameConfig returns sensible default values
func DefaultFrameConfig() FrameConfig {
	return FrameConfig{
		NumWorkers: 0, // Auto-detect CPU count
		Jitter:     true,
		Seed:       1,
	}
}

// RenderStats contains statistics about one rendered frame
type RenderStats struct {
	TotalPixels    int     // Number of pixels rendered
	TotalSamples   int     // Number of path samples taken
	AverageSamples float64 // Average samples per pixel
	Workers        int     // Workers used for the pass
}

// PartialFramebuffer is a compact buffer exclusively owned by one
// worker. Worker i of n owns every pixel whose linear index is
// congruent to i modulo n; pixel linearIndex is stored at packed slot
// linearIndex / n.
type PartialFramebuffer struct {
	pixels []core.Vec3
	offset int // Worker index
	stride int // Worker count
	width  int
	height int
}

// NewPartialFramebuffer creates the compact buffer for one interlaced
// pixel subset
func NewPartialFramebuffer(width, height, offset, stride int) *PartialFramebuffer {
	total := width * height
	count := 0
	if total > offset {
		count = (total - offset + stride - 1) / stride
	}
	return &PartialFramebuffer{
		pixels: make([]core.Vec3, count),
		offset: offset,
		stride: stride,
		width:  width,
		height: height,
	}
}

// MergeInto scatters the packed pixels back into a full framebuffer,
// recomputing (x, y) from the packed index and worker offset
func (p *PartialFramebuffer) MergeInto(fb Framebuffer) {
	for i, c := range p.pixels {
		linear := i*p.stride + p.offset
		fb.SetPixel(linear%p.width, linear/p.width, c)
	}
}

// RenderFrame renders one frame of the scene into the target
// framebuffer using interlaced parallel workers. Workers share the
// scene read-only and never share mutable state; results become
// visible only after every worker has passed the join barrier.
func (t *Tracer) RenderFrame(s *scene.Scene, camera *Camera, fb Framebuffer, cfg FrameConfig) RenderStats {
	width, height := fb.Width(), fb.Height()
	workers := cfg.NumWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	partials := make([]*PartialFramebuffer, workers)
	samples := make([]int, workers)
	for i := range partials {
		partials[i] = NewPartialFramebuffer(width, height, i, workers)
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			random := rand.New(rand.NewSource(cfg.Seed + int64(worker)))
			samples[worker] = t.renderSubset(s, camera, partials[worker], random, cfg.Jitter)
		}(i)
	}
	wg.Wait()

	stats := RenderStats{TotalPixels: width * height, Workers: workers}
	for i, p := range partials {
		p.MergeInto(fb)
		stats.TotalSamples += samples[i]
	}
	if stats.TotalPixels > 0 {
		stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	}
	return stats
}

// renderSubset runs one worker's pixel subset to completion and
// reports the number of samples taken
func (t *Tracer) renderSubset(s *scene.Scene, camera *Camera, p *PartialFramebuffer, random *rand.Rand, jitter bool) int {
	total := p.width * p.height
	samples := 0
	for linear := p.offset; linear < total; linear += p.stride {
		var jitterX, jitterY float64
		if jitter {
			jitterX = random.Float64() - 0.5
			jitterY = random.Float64() - 0.5
		}
		ray := camera.Ray(linear%p.width, linear/p.width, jitterX, jitterY)
		color, n := t.TracePixel(s, ray, random)
		p.pixels[(linear-p.offset)/p.stride] = color
		samples += n
	}
	return samples
}
