package renderer

import (
	"math"

	"github.com/jspall/go-progressive-pathtracer/pkg/core"
	"github.com/jspall/go-progressive-pathtracer/pkg/geometry"
	"github.com/jspall/go-progressive-pathtracer/pkg/scene"
)

// Camera generates primary rays through a pinhole model: the focal
// distance places the image plane so that the horizontal field of view
// spans the image width
type Camera struct {
	Transform geometry.Transform
	width     int
	height    int
	focal     float64
}

// NewCamera creates a camera for the given image size from a scene
// camera config
func NewCamera(cfg scene.CameraConfig, width, height int) *Camera {
	halfFOV := cfg.FOV * math.Pi / 180 / 2
	return &Camera{
		Transform: geometry.NewTransform(cfg.Position, core.NewVec3(1, 1, 1), cfg.Angles),
		width:     width,
		height:    height,
		focal:     0.5 / math.Tan(halfFOV) * float64(width),
	}
}

// Ray builds the world-space primary ray through pixel (x, y) with the
// given sub-pixel jitter offsets
func (c *Camera) Ray(x, y int, jitterX, jitterY float64) core.Ray {
	direction := core.NewVec3(
		float64(x)-float64(c.width)/2+jitterX,
		float64(y)-float64(c.height)/2+jitterY,
		c.focal,
	).Normalize()
	return c.Transform.RayToWorld(core.NewRay(core.NewVec3(0, 0, 0), direction))
}
