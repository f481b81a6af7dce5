package scene

import (
	"github.com/jspall/go-progressive-pathtracer/pkg/core"
	"github.com/jspall/go-progressive-pathtracer/pkg/geometry"
	"github.com/jspall/go-progressive-pathtracer/pkg/material"
)

// Environment holds the procedural sky and sun lighting parameters
type Environment struct {
	GroundColor  core.Vec3 // Gradient color straight down
	HorizonColor core.Vec3 // Gradient color at the horizon
	SkyColor     core.Vec3 // Gradient color straight up
	SunColor     core.Vec3 // Radiance of the sun disc
	SunDirection core.Vec3 // Unit vector pointing at the sun
	SunRadius    float64   // Dot product threshold for a ray to enter the sun disc
}

// CameraConfig is the camera placement a scene recommends; the renderer
// builds its camera from it
type CameraConfig struct {
	Position core.Vec3
	Angles   core.Vec3 // Euler angles in degrees
	FOV      float64   // Horizontal field of view in degrees
}

// Scene is an ordered collection of primitives plus environment
// lighting. It is immutable for the duration of a render pass and is
// shared by reference across all workers.
type Scene struct {
	Objects []geometry.Primitive
	Env     Environment
	Camera  CameraConfig
}

// NewEmptyScene creates a scene with no objects and a black environment
func NewEmptyScene() *Scene {
	return &Scene{
		Env: Environment{
			SunDirection: core.NewVec3(0, 0, 1),
			SunRadius:    1.0,
		},
		Camera: CameraConfig{FOV: 90},
	}
}

// NewDefaultScene creates the built-in demo scene: a matte sphere, a
// mirror sphere, a glass sphere, a grey floor and a small emissive
// sphere under a sunny sky
func NewDefaultScene() *Scene {
	floor := geometry.NewPlane(
		geometry.NewTransform(
			core.NewVec3(0, 0.5, 2),
			core.NewVec3(4, 4, 1),
			core.NewVec3(90, 0, 0),
		),
		material.Matte(core.NewVec3(0.5, 0.5, 0.5)),
	)

	return &Scene{
		Objects: []geometry.Primitive{
			geometry.NewSphere(core.NewVec3(0, 0, 2), 0.5, material.Matte(core.NewVec3(1, 0.1, 0.1))),
			geometry.NewSphere(core.NewVec3(-1, 0, 2), 0.4, material.Mirror(core.NewVec3(0.4, 1, 0.4))),
			geometry.NewSphere(core.NewVec3(1, 0.2, 1.6), 0.3, material.Glass(core.NewVec3(0.95, 0.95, 1), 1.5, 0.1)),
			floor,
			geometry.NewSphere(core.NewVec3(-0.5, 0.3, 1.5), 0.2, material.Emissive(core.NewVec3(1, 1, 0), core.NewVec3(1, 1, 0))),
		},
		Env: Environment{
			GroundColor:  core.NewVec3(0.15, 0.12, 0.1),
			HorizonColor: core.NewVec3(0.5, 0.65, 0.75),
			SkyColor:     core.NewVec3(0.1, 0.3, 0.6),
			SunColor:     core.NewVec3(2, 2, 1.4),
			SunDirection: core.NewVec3(1, -1, -1).Normalize(),
			SunRadius:    0.8,
		},
		Camera: CameraConfig{
			Position: core.NewVec3(0, 0, 0),
			Angles:   core.NewVec3(0, 0, 0),
			FOV:      90,
		},
	}
}
