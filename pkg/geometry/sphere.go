package geometry

import (
	"math"

	"github.com/jspall/go-progressive-pathtracer/pkg/core"
	"github.com/jspall/go-progressive-pathtracer/pkg/material"
)

// Sphere is an implicit sphere of the given radius centered at its
// transform's position
type Sphere struct {
	Transform Transform
	Radius    float64
	Material  material.PhysProp
}

// NewSphere creates a sphere at the given position
func NewSphere(position core.Vec3, radius float64, mat material.PhysProp) *Sphere {
	return &Sphere{
		Transform: NewTransform(position, core.NewVec3(1, 1, 1), core.NewVec3(0, 0, 0)),
		Radius:    radius,
		Material:  mat,
	}
}

// intersect tests a world-space ray against the sphere in local space.
// With the quadratic written as t² - 2at + (|o|² - r²) = 0, the
// half-discriminant b = a² - |o|² + r² decides the branch: negative is
// a miss, a value within Epsilon of zero is a tangency, otherwise two
// roots a ± sqrt(b).
func (s *Sphere) intersect(ray core.Ray) (Intersection, bool) {
	local := s.Transform.RayToLocal(ray)

	a := -local.Direction.Dot(local.Origin)
	b := a*a - local.Origin.LengthSquared() + s.Radius*s.Radius

	if b < 0 {
		return Intersection{}, false
	}

	var distance float64
	if b < Epsilon {
		// Tangent ray: a single root at a, valid only in front of the origin
		if a <= Epsilon {
			return Intersection{}, false
		}
		distance = a
	} else {
		sqrtB := math.Sqrt(b)
		near := a - sqrtB
		far := a + sqrtB
		switch {
		case near > Epsilon:
			distance = near
		case far > Epsilon:
			distance = far
		default:
			return Intersection{}, false
		}
	}

	localPoint := local.At(distance)
	return Intersection{
		Point:    s.Transform.PointToWorld(localPoint),
		Normal:   s.Transform.NormalToWorld(localPoint.Multiply(1 / s.Radius)),
		Material: s.Material,
		Distance: distance,
		Entry:    local.Origin.LengthSquared() > s.Radius*s.Radius,
	}, true
}
