package geometry

import (
	"math"

	"github.com/jspall/go-progressive-pathtracer/pkg/core"
)

// Transform places an object in the world: a position, a per-axis scale
// and per-axis Euler rotation angles in degrees. The rotation matrix and
// its inverse are cached and regenerated on every setter call, so a
// reader never observes a stale matrix.
type Transform struct {
	position core.Vec3
	scale    core.Vec3
	angles   core.Vec3 // degrees, applied X then Y then Z
	rot      core.Mat3
	invRot   core.Mat3
}

// IdentityTransform returns a transform at the origin with unit scale
func IdentityTransform() Transform {
	return Transform{
		position: core.NewVec3(0, 0, 0),
		scale:    core.NewVec3(1, 1, 1),
		angles:   core.NewVec3(0, 0, 0),
		rot:      core.IdentityMat3(),
		invRot:   core.IdentityMat3(),
	}
}

// NewTransform creates a transform with the given position, scale and
// rotation angles in degrees
func NewTransform(position, scale, angles core.Vec3) Transform {
	t := Transform{position: position, scale: scale, angles: angles}
	t.generateMatrices()
	return t
}

func (t *Transform) generateMatrices() {
	rx := t.angles.X * math.Pi / 180
	ry := t.angles.Y * math.Pi / 180
	rz := t.angles.Z * math.Pi / 180
	t.rot = core.RotationX(rx).Mul(core.RotationY(ry)).Mul(core.RotationZ(rz))
	t.invRot = core.RotationZ(-rz).Mul(core.RotationY(-ry)).Mul(core.RotationX(-rx))
}

// Position returns the world-space position
func (t *Transform) Position() core.Vec3 { return t.position }

// SetPosition moves the transform
func (t *Transform) SetPosition(position core.Vec3) { t.position = position }

// Scale returns the per-axis scale
func (t *Transform) Scale() core.Vec3 { return t.scale }

// SetScale changes the per-axis scale and regenerates the cached matrices
func (t *Transform) SetScale(scale core.Vec3) {
	t.scale = scale
	t.generateMatrices()
}

// Angles returns the rotation angles in degrees
func (t *Transform) Angles() core.Vec3 { return t.angles }

// SetAngles changes the rotation angles and regenerates the cached matrices
func (t *Transform) SetAngles(angles core.Vec3) {
	t.angles = angles
	t.generateMatrices()
}

// PointToLocal converts a world-space point to object-local space
func (t *Transform) PointToLocal(p core.Vec3) core.Vec3 {
	return t.invRot.Apply(p.Subtract(t.position)).DivideVec(t.scale)
}

// PointToWorld converts an object-local point to world space
func (t *Transform) PointToWorld(p core.Vec3) core.Vec3 {
	return t.rot.Apply(p.MultiplyVec(t.scale)).Add(t.position)
}

// NormalToLocal converts a world-space direction to local space.
// Only rotation is applied; scale is ignored, which is exact only for
// uniform scale.
func (t *Transform) NormalToLocal(n core.Vec3) core.Vec3 {
	return t.invRot.Apply(n)
}

// NormalToWorld converts a local-space direction to world space.
// Only rotation is applied; scale is ignored, which is exact only for
// uniform scale.
func (t *Transform) NormalToWorld(n core.Vec3) core.Vec3 {
	return t.rot.Apply(n)
}

// RayToLocal converts a world-space ray to object-local space
func (t *Transform) RayToLocal(r core.Ray) core.Ray {
	return core.Ray{
		Origin:    t.PointToLocal(r.Origin),
		Direction: t.NormalToLocal(r.Direction),
	}
}

// RayToWorld converts an object-local ray to world space
func (t *Transform) RayToWorld(r core.Ray) core.Ray {
	return core.Ray{
		Origin:    t.PointToWorld(r.Origin),
		Direction: t.NormalToWorld(r.Direction),
	}
}
