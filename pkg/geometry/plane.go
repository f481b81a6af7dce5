package geometry

import (
	"math"

	"github.com/jspall/go-progressive-pathtracer/pkg/core"
	"github.com/jspall/go-progressive-pathtracer/pkg/material"
)

// Plane is a bounded plane covering the unit square [-1,1]x[-1,1] of
// its local XY plane at local Z=0. Scale the transform to size it.
type Plane struct {
	Transform Transform
	Material  material.PhysProp
}

// NewPlane creates a bounded plane with the given placement
func NewPlane(transform Transform, mat material.PhysProp) *Plane {
	return &Plane{Transform: transform, Material: mat}
}

// intersect tests a world-space ray against the plane in local space.
// The surface normal is the local Z axis oriented toward the ray origin.
func (p *Plane) intersect(ray core.Ray) (Intersection, bool) {
	local := p.Transform.RayToLocal(ray)

	// Parallel rays never cross the plane
	if math.Abs(local.Direction.Z) < Epsilon {
		return Intersection{}, false
	}

	distance := -local.Origin.Z / local.Direction.Z
	if distance <= Epsilon {
		return Intersection{}, false
	}

	localPoint := local.At(distance)
	if math.Abs(localPoint.X) > 1 || math.Abs(localPoint.Y) > 1 {
		return Intersection{}, false
	}

	localNormal := core.NewVec3(0, 0, math.Copysign(1, local.Origin.Z))
	return Intersection{
		Point:    p.Transform.PointToWorld(localPoint),
		Normal:   p.Transform.NormalToWorld(localNormal),
		Material: p.Material,
		Distance: distance,
		// A bounded plane has no interior, so every crossing is an entry
		Entry: true,
	}, true
}
