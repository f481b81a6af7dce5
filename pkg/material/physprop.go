package material

import (
	"github.com/jspall/go-progressive-pathtracer/pkg/core"
)

// PhysProp holds the physical surface properties used by the tracer.
// It is pure data and is copied freely into intersection results.
type PhysProp struct {
	IOR       float64   // Refractive index, must be > 0
	Opacity   float64   // Probability of reflecting instead of refracting, in [0,1]
	Roughness float64   // 0 = pure mirror, 1 = pure diffuse
	Color     core.Vec3 // Base color multiplied into path throughput
	Emission  core.Vec3 // Emitted radiance added via path throughput
}

// Matte creates a fully diffuse opaque material
func Matte(color core.Vec3) PhysProp {
	return PhysProp{
		IOR:       1.0,
		Opacity:   1.0,
		Roughness: 1.0,
		Color:     color,
	}
}

// Mirror creates a perfectly specular opaque material
func Mirror(color core.Vec3) PhysProp {
	return PhysProp{
		IOR:       1.0,
		Opacity:   1.0,
		Roughness: 0.0,
		Color:     color,
	}
}

// Glass creates a transparent material with the given refractive index.
// Opacity sets the chance a ray reflects off the surface instead of
// passing through it.
func Glass(color core.Vec3, ior, opacity float64) PhysProp {
	return PhysProp{
		IOR:       ior,
		Opacity:   opacity,
		Roughness: 0.0,
		Color:     color,
	}
}

// Emissive creates a diffuse material that also emits light
func Emissive(color, emission core.Vec3) PhysProp {
	return PhysProp{
		IOR:       1.0,
		Opacity:   1.0,
		Roughness: 1.0,
		Color:     color,
		Emission:  emission,
	}
}
