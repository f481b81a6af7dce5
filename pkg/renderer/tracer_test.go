package renderer

import (
	"math"
	"math/rand"
	"testing"

	"github.com/jspall/go-progressive-pathtracer/pkg/core"
	"github.com/jspall/go-progressive-pathtracer/pkg/geometry"
	"github.com/jspall/go-progressive-pathtracer/pkg/material"
	"github.com/jspall/go-progressive-pathtracer/pkg/scene"
)

func vecsClose(a, b core.Vec3, tol float64) bool {
	return math.Abs(a.X-b.X) < tol && math.Abs(a.Y-b.Y) < tol && math.Abs(a.Z-b.Z) < tol
}

func newTestRand() *rand.Rand {
	return rand.New(rand.NewSource(42))
}

// sunScene has no objects and an axis-aligned sun so miss shading is exact
func sunScene() *scene.Scene {
	s := scene.NewEmptyScene()
	s.Env = scene.Environment{
		GroundColor:  core.NewVec3(0.1, 0.1, 0.1),
		HorizonColor: core.NewVec3(0.5, 0.5, 0.5),
		SkyColor:     core.NewVec3(0, 0, 1),
		SunColor:     core.NewVec3(2, 2, 1.4),
		SunDirection: core.NewVec3(0, 0, 1),
		SunRadius:    0.8,
	}
	return s
}

func TestNearestIntersectionPicksClosest(t *testing.T) {
	mat := material.Matte(core.NewVec3(1, 1, 1))
	near := geometry.NewSphere(core.NewVec3(0, 0, 2), 0.5, mat)
	far := geometry.NewSphere(core.NewVec3(0, 0, 5), 0.5, mat)
	aside := geometry.NewSphere(core.NewVec3(10, 0, 0), 0.5, mat)

	tracer := NewTracer()
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1))

	// The nearest hit wins regardless of scan order, and primitives
	// that do not intersect never change the result
	orders := [][]geometry.Primitive{
		{near, far, aside},
		{far, near},
		{aside, far, near},
	}
	for _, objects := range orders {
		s := &scene.Scene{Objects: objects}
		hit, ok := tracer.NearestIntersection(s, ray)
		if !ok {
			t.Fatal("expected an intersection")
		}
		if math.Abs(hit.Distance-1.5) > 1e-12 {
			t.Errorf("distance = %v, want 1.5", hit.Distance)
		}
	}

	empty := &scene.Scene{}
	if _, ok := tracer.NearestIntersection(empty, ray); ok {
		t.Error("expected no intersection in an empty scene")
	}
}

func TestNearestIntersectionFirstWinsTies(t *testing.T) {
	first := geometry.NewSphere(core.NewVec3(0, 0, 2), 0.5, material.Matte(core.NewVec3(1, 0, 0)))
	second := geometry.NewSphere(core.NewVec3(0, 0, 2), 0.5, material.Matte(core.NewVec3(0, 1, 0)))
	s := &scene.Scene{Objects: []geometry.Primitive{first, second}}

	tracer := NewTracer()
	hit, ok := tracer.NearestIntersection(s, core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1)))
	if !ok {
		t.Fatal("expected an intersection")
	}
	if hit.Material.Color != core.NewVec3(1, 0, 0) {
		t.Errorf("tie broke to %v, want the first-scanned primitive", hit.Material.Color)
	}
}

func TestMissShadingSunDisc(t *testing.T) {
	s := sunScene()
	tracer := NewTracer()

	// Looking exactly at the sun center returns the sun color exactly
	result := tracer.TraceRay(s, core.NewRay(core.Vec3{}, core.NewVec3(0, 0, 1)), newTestRand())
	if result.Color != s.Env.SunColor {
		t.Errorf("color = %v, want exactly %v", result.Color, s.Env.SunColor)
	}
	if result.Reflected || result.Refracted {
		t.Error("a pure miss should not set the sampling flags")
	}
}

func TestMissShadingGradient(t *testing.T) {
	s := sunScene()
	s.Env.SunDirection = core.NewVec3(1, 0, 0) // Out of the way
	s.Env.SunRadius = 0.999
	tracer := NewTracer()

	tests := []struct {
		name string
		dir  core.Vec3
		want core.Vec3
	}{
		{"straight up is sky", core.NewVec3(0, -1, 0), s.Env.SkyColor},
		{"straight down is ground", core.NewVec3(0, 1, 0), s.Env.GroundColor},
		{"level is horizon", core.NewVec3(0, 0, -1), s.Env.HorizonColor},
		// One sixth of the way up: t = 3 * 1/6 = 0.5
		{"half blend to sky", core.NewVec3(0, -1.0/6.0, math.Sqrt(1-1.0/36.0)), s.Env.HorizonColor.Lerp(s.Env.SkyColor, 0.5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tracer.EnvironmentColor(&s.Env, tt.dir)
			if !vecsClose(got, tt.want, 1e-9) {
				t.Errorf("EnvironmentColor(%v) = %v, want %v", tt.dir, got, tt.want)
			}
		})
	}
}

func TestTraceRayEmissionAndThroughput(t *testing.T) {
	// A single emissive surface: first bounce adds emission at full
	// throughput on top of whatever later bounces gather
	emission := core.NewVec3(0.25, 0.5, 0.75)
	s := scene.NewEmptyScene()
	s.Env.SunColor = core.Vec3{}
	s.Env.SunDirection = core.NewVec3(1, 0, 0)
	s.Env.SunRadius = 0.999
	s.Objects = []geometry.Primitive{
		geometry.NewSphere(core.NewVec3(0, 0, 2), 0.5, material.PhysProp{
			IOR: 1, Opacity: 1, Roughness: 0,
			Color:    core.Vec3{}, // Black surface kills the path throughput
			Emission: emission,
		}),
	}

	tracer := NewTracer()
	result := tracer.TraceRay(s, core.NewRay(core.Vec3{}, core.NewVec3(0, 0, 1)), newTestRand())
	if !vecsClose(result.Color, emission, 1e-12) {
		t.Errorf("color = %v, want %v", result.Color, emission)
	}
	if !result.Reflected {
		t.Error("a bounced path should set the reflected flag")
	}
}

func TestTraceRayBounceBudget(t *testing.T) {
	// Two facing mirrors trap the ray; the walk must still terminate
	mirror := material.Mirror(core.NewVec3(0.9, 0.9, 0.9))
	s := scene.NewEmptyScene()
	s.Objects = []geometry.Primitive{
		geometry.NewPlane(geometry.NewTransform(core.NewVec3(0, 0, 1), core.NewVec3(1, 1, 1), core.NewVec3(0, 0, 0)), mirror),
		geometry.NewPlane(geometry.NewTransform(core.NewVec3(0, 0, -1), core.NewVec3(1, 1, 1), core.NewVec3(0, 0, 0)), mirror),
	}

	tracer := NewTracer()
	tracer.MaxBounces = 4
	result := tracer.TraceRay(s, core.NewRay(core.Vec3{}, core.NewVec3(0, 0, 1)), newTestRand())
	if result.Color.HasNaN() {
		t.Errorf("trapped path produced NaN color %v", result.Color)
	}
	if !result.Reflected {
		t.Error("exhausting the bounce budget should mark a reflection")
	}
}

func TestRefractionStraightThrough(t *testing.T) {
	hit := geometry.Intersection{
		Normal:   core.NewVec3(0, 0, -1),
		Material: material.Glass(core.NewVec3(1, 1, 1), 1.5, 0),
		Entry:    true,
	}
	// Head-on entry does not bend
	dir := refract(core.NewVec3(0, 0, 1), hit)
	if !vecsClose(dir, core.NewVec3(0, 0, 1), 1e-12) {
		t.Errorf("head-on refraction = %v, want (0,0,1)", dir)
	}
}

func TestRefractionBendsTowardNormal(t *testing.T) {
	hit := geometry.Intersection{
		Normal:   core.NewVec3(0, 0, -1),
		Material: material.Glass(core.NewVec3(1, 1, 1), 1.5, 0),
		Entry:    true,
	}
	in := core.NewVec3(1, 0, 1).Normalize()
	out := refract(in, hit)

	// Entering a denser medium bends toward the normal: the transverse
	// component shrinks by the index ratio (Snell's law)
	wantSin := (1.0 / 1.5) * math.Sqrt(0.5)
	if math.Abs(out.X-wantSin) > 1e-12 {
		t.Errorf("transverse component = %v, want %v", out.X, wantSin)
	}
	if math.Abs(out.Length()-1.0) > 1e-12 {
		t.Errorf("refracted length = %v, want 1", out.Length())
	}
}

func TestRefractionTotalInternalNaN(t *testing.T) {
	// Exiting a dense medium past the critical angle: the square root
	// argument goes negative and the direction is NaN. This is the
	// preserved behavior, not clamped to a reflection.
	hit := geometry.Intersection{
		Normal:   core.NewVec3(0, 0, 1),
		Material: material.Glass(core.NewVec3(1, 1, 1), 1.5, 0),
		Entry:    false,
	}
	out := refract(core.NewVec3(1, 0, 0), hit)
	if !out.HasNaN() {
		t.Errorf("grazing exit = %v, want NaN direction", out)
	}
}

func TestTraceRayPropagatesRefractionNaN(t *testing.T) {
	// An IOR below one makes the entry ratio exceed one, so a grazing
	// entry ray hits the unguarded square root inside the walk and the
	// NaN reaches the accumulated color
	s := scene.NewEmptyScene()
	s.Objects = []geometry.Primitive{
		geometry.NewSphere(core.NewVec3(0, 0, 2), 0.5, material.Glass(core.NewVec3(1, 1, 1), 0.5, 0)),
	}

	tracer := NewTracer()
	result := tracer.TraceRay(s, core.NewRay(core.NewVec3(0.49, 0, 0), core.NewVec3(0, 0, 1)), newTestRand())
	if !result.Refracted {
		t.Fatal("expected the path to take the refraction branch")
	}
	if !result.Color.HasNaN() {
		t.Errorf("color = %v, want NaN propagated from refraction", result.Color)
	}
}

func TestScatterMirror(t *testing.T) {
	hit := geometry.Intersection{
		Normal:   core.NewVec3(0, 0, -1),
		Material: material.Mirror(core.NewVec3(1, 1, 1)),
	}
	// Roughness zero is an exact mirror reflection regardless of the
	// random draw
	in := core.NewVec3(1, 0, 1).Normalize()
	out := scatter(in, hit, newTestRand())
	want := core.NewVec3(in.X, 0, -in.Z)
	if !vecsClose(out, want, 1e-12) {
		t.Errorf("mirror scatter = %v, want %v", out, want)
	}
}

func TestScatterDiffuseStaysInHemisphere(t *testing.T) {
	hit := geometry.Intersection{
		Normal:   core.NewVec3(0, 0, -1),
		Material: material.Matte(core.NewVec3(1, 1, 1)),
	}
	random := newTestRand()
	for i := 0; i < 100; i++ {
		out := scatter(core.NewVec3(0, 0, 1), hit, random)
		if out.Dot(hit.Normal) < -1e-12 {
			t.Fatalf("diffuse scatter %v left the surface hemisphere", out)
		}
	}
}

func TestTracePixelSampleCounts(t *testing.T) {
	tracer := NewTracer()
	tracer.ReflectSamples = 4
	tracer.RefractSamples = 2

	// A pure miss takes exactly the primary sample
	miss := sunScene()
	_, n := tracer.TracePixel(miss, core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)), newTestRand())
	if n != 1 {
		t.Errorf("miss sample count = %d, want 1", n)
	}

	// A reflecting hit adds the reflect samples
	hitScene := scene.NewEmptyScene()
	hitScene.Objects = []geometry.Primitive{
		geometry.NewSphere(core.NewVec3(0, 0, 2), 0.5, material.Matte(core.NewVec3(0.5, 0.5, 0.5))),
	}
	_, n = tracer.TracePixel(hitScene, core.NewRay(core.Vec3{}, core.NewVec3(0, 0, 1)), newTestRand())
	if n != 5 {
		t.Errorf("reflective sample count = %d, want 5", n)
	}
}

func BenchmarkTraceRay(b *testing.B) {
	s := scene.NewDefaultScene()
	tracer := NewTracer()
	ray := core.NewRay(core.Vec3{}, core.NewVec3(0, 0, 1))
	random := newTestRand()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tracer.TraceRay(s, ray, random)
	}
}

func BenchmarkRenderFrame(b *testing.B) {
	s := scene.NewDefaultScene()
	tracer := NewTracer()
	cam := NewCamera(s.Camera, 64, 64)
	fb := NewAccumBuffer(64, 64)
	cfg := FrameConfig{NumWorkers: 4, Jitter: true, Seed: 1}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tracer.RenderFrame(s, cam, fb, cfg)
		fb.CommitFrame()
	}
}

func TestTracePixelAveragesUniformly(t *testing.T) {
	// In a deterministic scene every sample is identical, so the
	// average must equal a single sample no matter how many are taken
	s := sunScene()
	s.Objects = []geometry.Primitive{
		geometry.NewSphere(core.NewVec3(0, 0, 2), 0.5, material.Mirror(core.NewVec3(0.8, 0.8, 0.8))),
	}
	tracer := NewTracer()

	ray := core.NewRay(core.Vec3{}, core.NewVec3(0, 0, 1))
	single := tracer.TraceRay(s, ray, newTestRand()).Color
	avg, _ := tracer.TracePixel(s, ray, newTestRand())
	if !vecsClose(avg, single, 1e-12) {
		t.Errorf("averaged color = %v, want %v", avg, single)
	}
}
