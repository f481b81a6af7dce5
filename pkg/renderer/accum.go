package renderer

import (
	"github.com/jspall/go-progressive-pathtracer/pkg/core"
)

// MaxFrames is where the accumulation frame counter saturates. Once
// reached, further contributions are dropped and the displayed average
// freezes; the counter never wraps.
const MaxFrames = 65535

// AccumBuffer keeps a per-pixel running sum of linear color and a
// frame counter; the displayed value of a pixel is sum / frames. It
// persists across frames for the life of a render session and is the
// sole noise-reduction mechanism. It implements Framebuffer, so a
// frame pass can render straight into it: SetPixel accumulates.
type AccumBuffer struct {
	width  int
	height int
	sums   []core.Vec3
	frames int
}

// NewAccumBuffer creates an empty accumulation buffer
func NewAccumBuffer(width, height int) *AccumBuffer {
	return &AccumBuffer{
		width:  width,
		height: height,
		sums:   make([]core.Vec3, width*height),
	}
}

// Width returns the buffer width in pixels
func (b *AccumBuffer) Width() int { return b.width }

// Height returns the buffer height in pixels
func (b *AccumBuffer) Height() int { return b.height }

// SetPixel adds a frame's contribution to the pixel's running sum.
// Contributions are dropped once the frame counter has saturated.
func (b *AccumBuffer) SetPixel(x, y int, color core.Vec3) {
	if b.frames >= MaxFrames {
		return
	}
	i := y*b.width + x
	b.sums[i] = b.sums[i].Add(color)
}

// CommitFrame records that one complete frame has been accumulated.
// The counter saturates at MaxFrames.
func (b *AccumBuffer) CommitFrame() {
	if b.frames < MaxFrames {
		b.frames++
	}
}

// Frames returns the number of accumulated frames
func (b *AccumBuffer) Frames() int { return b.frames }

// Average returns the displayed value of a pixel: the running sum
// divided by the frame count
func (b *AccumBuffer) Average(x, y int) core.Vec3 {
	if b.frames == 0 {
		return core.Vec3{}
	}
	return b.sums[y*b.width+x].Multiply(1.0 / float64(b.frames))
}

// WriteTo writes the per-pixel averages into a display sink
func (b *AccumBuffer) WriteTo(fb Framebuffer) {
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			fb.SetPixel(x, y, b.Average(x, y))
		}
	}
}

// Reset discards all accumulated history. Drivers call this when the
// scene or camera changes; the buffer itself never detects staleness.
func (b *AccumBuffer) Reset() {
	clear(b.sums)
	b.frames = 0
}
