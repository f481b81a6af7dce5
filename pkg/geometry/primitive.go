package geometry

import (
	"github.com/jspall/go-progressive-pathtracer/pkg/core"
	"github.com/jspall/go-progressive-pathtracer/pkg/material"
)

// Epsilon guards intersection math against tangent rays, grazing
// incidence and self-intersection at the ray origin.
const Epsilon = 1e-8

// Intersection is the result of a successful ray-primitive test.
// It is ephemeral: computed per ray, never stored.
type Intersection struct {
	Point    core.Vec3         // World-space hit position
	Normal   core.Vec3         // World-space unit surface normal
	Material material.PhysProp // Copy of the hit material
	Distance float64           // Distance along the ray, always > Epsilon
	Entry    bool              // True when the ray crosses into the surface from outside
}

// Primitive is the closed set of renderable shapes: Sphere and Plane.
// The unexported marker keeps the set closed so Intersect can dispatch
// with an exhaustive type switch instead of a virtual call.
type Primitive interface {
	isPrimitive()
}

func (*Sphere) isPrimitive() {}
func (*Plane) isPrimitive()  {}

// Intersect tests a world-space ray against a primitive
func Intersect(p Primitive, ray core.Ray) (Intersection, bool) {
	switch p := p.(type) {
	case *Sphere:
		return p.intersect(ray)
	case *Plane:
		return p.intersect(ray)
	}
	return Intersection{}, false
}
