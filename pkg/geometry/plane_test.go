package geometry

import (
	"math"
	"testing"

	"github.com/jspall/go-progressive-pathtracer/pkg/core"
)

func groundPlane() *Plane {
	// XY unit square rotated 90 degrees about X: a vertical wall becomes
	// a horizontal floor at y=0.5
	tr := NewTransform(
		core.NewVec3(0, 0.5, 2),
		core.NewVec3(1, 1, 1),
		core.NewVec3(90, 0, 0),
	)
	return NewPlane(tr, testMaterial())
}

func TestPlaneIntersect(t *testing.T) {
	plane := NewPlane(IdentityTransform(), testMaterial())

	ray := core.NewRay(core.NewVec3(0, 0, -2), core.NewVec3(0, 0, 1))
	hit, ok := Intersect(plane, ray)
	if !ok {
		t.Fatal("expected an intersection")
	}
	if math.Abs(hit.Distance-2.0) > 1e-12 {
		t.Errorf("distance = %v, want 2", hit.Distance)
	}
	if !vecsClose(hit.Point, core.NewVec3(0, 0, 0), 1e-12) {
		t.Errorf("point = %v, want origin", hit.Point)
	}
	// Normal faces the side the ray came from
	if !vecsClose(hit.Normal, core.NewVec3(0, 0, -1), 1e-12) {
		t.Errorf("normal = %v, want (0,0,-1)", hit.Normal)
	}
	if !hit.Entry {
		t.Error("plane crossings are always entries")
	}
}

func TestPlaneNormalFacesRayOrigin(t *testing.T) {
	plane := NewPlane(IdentityTransform(), testMaterial())

	ray := core.NewRay(core.NewVec3(0, 0, 3), core.NewVec3(0, 0, -1))
	hit, ok := Intersect(plane, ray)
	if !ok {
		t.Fatal("expected an intersection")
	}
	if !vecsClose(hit.Normal, core.NewVec3(0, 0, 1), 1e-12) {
		t.Errorf("normal = %v, want (0,0,1)", hit.Normal)
	}
}

func TestPlaneParallelRay(t *testing.T) {
	plane := NewPlane(IdentityTransform(), testMaterial())

	tests := []struct {
		name string
		dir  core.Vec3
	}{
		{"exactly parallel", core.NewVec3(1, 0, 0)},
		{"z component below epsilon", core.NewVec3(1, 0, 1e-9).Normalize()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(core.NewVec3(0, 0, -1), tt.dir)
			if _, ok := Intersect(plane, ray); ok {
				t.Error("expected no intersection for parallel ray")
			}
		})
	}
}

func TestPlaneBehindOrigin(t *testing.T) {
	plane := NewPlane(IdentityTransform(), testMaterial())
	ray := core.NewRay(core.NewVec3(0, 0, 1), core.NewVec3(0, 0, 1))
	if _, ok := Intersect(plane, ray); ok {
		t.Error("expected no intersection behind the ray origin")
	}
}

func TestPlaneUnitSquareBounds(t *testing.T) {
	plane := NewPlane(IdentityTransform(), testMaterial())

	tests := []struct {
		name   string
		origin core.Vec3
		want   bool
	}{
		{"inside bounds", core.NewVec3(0.9, -0.9, -1), true},
		{"on the corner", core.NewVec3(1, 1, -1), true},
		{"outside x", core.NewVec3(1.01, 0, -1), false},
		{"outside y", core.NewVec3(0, -1.5, -1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(tt.origin, core.NewVec3(0, 0, 1))
			hit, ok := Intersect(plane, ray)
			if ok != tt.want {
				t.Fatalf("intersect = %v, want %v", ok, tt.want)
			}
			if ok {
				local := plane.Transform.PointToLocal(hit.Point)
				if math.Abs(local.X) > 1 || math.Abs(local.Y) > 1 {
					t.Errorf("hit point %v is outside the unit square", local)
				}
			}
		})
	}
}

func TestPlaneRotated(t *testing.T) {
	plane := groundPlane()

	// Straight down onto the floor
	ray := core.NewRay(core.NewVec3(0, 0, 2), core.NewVec3(0, 1, 0))
	hit, ok := Intersect(plane, ray)
	if !ok {
		t.Fatal("expected an intersection with the floor")
	}
	if !vecsClose(hit.Point, core.NewVec3(0, 0.5, 2), 1e-9) {
		t.Errorf("point = %v, want (0,0.5,2)", hit.Point)
	}
	if math.Abs(math.Abs(hit.Normal.Y)-1) > 1e-9 {
		t.Errorf("normal = %v, want vertical", hit.Normal)
	}
}
