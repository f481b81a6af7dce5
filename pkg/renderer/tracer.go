package renderer

import (
	"math"
	"math/rand"

	"github.com/jspall/go-progressive-pathtracer/pkg/core"
	"github.com/jspall/go-progressive-pathtracer/pkg/geometry"
	"github.com/jspall/go-progressive-pathtracer/pkg/scene"
)

// Tracer performs the stochastic light-transport walk
type Tracer struct {
	MaxBounces     int     // Bounce budget per path
	FOV            float64 // Horizontal field of view in degrees, used when building cameras
	ReflectSamples int     // Extra samples when the primary sample reflected
	RefractSamples int     // Extra samples when the primary sample refracted
}

// NewTracer creates a tracer with the default sampling parameters
func NewTracer() *Tracer {
	return &Tracer{
		MaxBounces:     8,
		FOV:            90,
		ReflectSamples: 4,
		RefractSamples: 4,
	}
}

// TraceResult is one color sample plus flags recording whether the path
// reflected or refracted at least once
type TraceResult struct {
	Color     core.Vec3
	Reflected bool
	Refracted bool
}

// NearestIntersection scans every primitive and keeps the hit with the
// smallest positive distance. The scan is linear over the scene; at
// equal distance the first-scanned primitive wins.
func (t *Tracer) NearestIntersection(s *scene.Scene, ray core.Ray) (geometry.Intersection, bool) {
	var nearest geometry.Intersection
	found := false
	for _, obj := range s.Objects {
		hit, ok := geometry.Intersect(obj, ray)
		if !ok {
			continue
		}
		if !found || hit.Distance < nearest.Distance {
			nearest = hit
			found = true
		}
	}
	return nearest, found
}

// TraceRay performs a single sample: an iterative walk bounded by the
// bounce budget, accumulating emission weighted by path throughput
func (t *Tracer) TraceRay(s *scene.Scene, ray core.Ray, random *rand.Rand) TraceResult {
	var result TraceResult
	throughput := core.NewVec3(1, 1, 1)
	bounces := t.MaxBounces

	for {
		hit, ok := t.NearestIntersection(s, ray)
		if !ok {
			result.Color = result.Color.Add(throughput.MultiplyVec(t.EnvironmentColor(&s.Env, ray.Direction)))
			return result
		}

		result.Color = result.Color.Add(throughput.MultiplyVec(hit.Material.Emission))
		throughput = throughput.MultiplyVec(hit.Material.Color)

		bounces--
		if bounces <= 0 {
			result.Reflected = true
			return result
		}

		var direction core.Vec3
		if hit.Entry && random.Float64() > hit.Material.Opacity {
			direction = refract(ray.Direction, hit)
			result.Refracted = true
		} else {
			direction = scatter(ray.Direction, hit, random)
			result.Reflected = true
		}

		ray = core.NewRay(hit.Point, direction)
	}
}

// refract bends the ray direction by Snell's law. Total internal
// reflection is not handled: past the critical angle the square root
// argument goes negative and the direction becomes NaN, which then
// propagates into the color accumulator.
func refract(direction core.Vec3, hit geometry.Intersection) core.Vec3 {
	var ratio float64
	var normal core.Vec3
	if hit.Entry {
		ratio = 1.0 / hit.Material.IOR
		normal = hit.Normal.Negate()
	} else {
		ratio = hit.Material.IOR
		normal = hit.Normal
	}

	cosTheta := direction.Dot(normal)
	k := math.Sqrt(1 - ratio*ratio*(1-cosTheta*cosTheta))
	return direction.Multiply(ratio).Add(normal.Multiply(k - ratio*cosTheta))
}

// scatter blends the ideal mirror direction with a cosine-weighted
// hemisphere direction by the material roughness
func scatter(direction core.Vec3, hit geometry.Intersection, random *rand.Rand) core.Vec3 {
	mirror := direction.Subtract(hit.Normal.Multiply(2 * direction.Dot(hit.Normal)))
	diffuse := core.RandomCosineDirection(hit.Normal, random)
	return mirror.Lerp(diffuse, hit.Material.Roughness)
}

// EnvironmentColor shades a ray that escaped the scene: a piecewise
// linear ground/horizon/sky gradient, blended toward the sun color
// inside the sun disc
func (t *Tracer) EnvironmentColor(env *scene.Environment, direction core.Vec3) core.Vec3 {
	// Vertical component, scaled so the gradient wraps up well before
	// the zenith; screen space has Y pointing down
	v := max(-1, min(1, -direction.Y*3))

	var gradient core.Vec3
	if v < 0 {
		gradient = env.HorizonColor.Lerp(env.GroundColor, -v)
	} else {
		gradient = env.HorizonColor.Lerp(env.SkyColor, v)
	}

	if d := direction.Dot(env.SunDirection); d > env.SunRadius {
		gradient = gradient.Lerp(env.SunColor, (d-env.SunRadius)/(1-env.SunRadius))
	}
	return gradient
}

// TracePixel takes one primary sample and, when that sample reflected
// or refracted, the configured number of extra samples; it returns the
// uniform average and the number of samples taken. The extra-sample
// counts are gated by the primary sample's flags only, so the noise
// characteristics are reproducible.
func (t *Tracer) TracePixel(s *scene.Scene, ray core.Ray, random *rand.Rand) (core.Vec3, int) {
	primary := t.TraceRay(s, ray, random)

	extra := 0
	if primary.Reflected {
		extra += t.ReflectSamples
	}
	if primary.Refracted {
		extra += t.RefractSamples
	}

	color := primary.Color
	for i := 0; i < extra; i++ {
		color = color.Add(t.TraceRay(s, ray, random).Color)
	}
	return color.Multiply(1.0 / float64(extra+1)), extra + 1
}
