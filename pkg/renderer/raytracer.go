package renderer

import (
	"math"
	"math/rand"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
)

// Minimum hit distance; keeps scattered rays from re-hitting their origin surface
const shadowAcne = 0.001

var (
	skyBottom = core.NewVec3(1.0, 1.0, 1.0)
	skyTop    = core.NewVec3(0.5, 0.7, 1.0)
)

// RayColor returns the radiance carried back along ray after at most depth
// scatter events
func RayColor(world geometry.Shape, ray core.Ray, depth int, random *rand.Rand) core.Vec3 {
	// If we've exceeded the ray bounce limit, no more light is gathered
	if depth <= 0 {
		return core.Vec3{}
	}

	hit, isHit := world.Hit(ray, shadowAcne, math.Inf(1))
	if !isHit {
		return backgroundGradient(ray)
	}

	scattered, didScatter := hit.Material.Scatter(ray, hit, random)
	if !didScatter {
		return core.Vec3{} // Material absorbed the ray
	}

	return hit.Material.Albedo().MultiplyVec(RayColor(world, scattered, depth-1, random))
}

// backgroundGradient blends white at the horizon into light blue overhead
func backgroundGradient(ray core.Ray) core.Vec3 {
	unitDirection := ray.Direction.Normalize()

	// Use the y-component to create a gradient (map from -1,1 to 0,1)
	t := 0.5 * (unitDirection.Y + 1.0)

	return skyBottom.Lerp(skyTop, t)
}

// Raytracer renders single full-resolution passes of one world
type Raytracer struct {
	world   geometry.Shape
	camera  *Camera
	width   int
	height  int
	bounces int
}

// NewRaytracer creates a pass renderer
func NewRaytracer(world geometry.Shape, camera *Camera, width, height, bounces int) *Raytracer {
	return &Raytracer{
		world:   world,
		camera:  camera,
		width:   width,
		height:  height,
		bounces: bounces,
	}
}

// RenderPass traces one jittered ray per pixel into a new single-layer canvas.
// Camera v grows upwards while canvas rows grow downwards, so rows are flipped.
func (rt *Raytracer) RenderPass(random *rand.Rand) *Canvas {
	canvas := NewCanvas(rt.height, rt.width)

	for j := rt.height - 1; j >= 0; j-- {
		for i := 0; i < rt.width; i++ {
			s := (float64(i) + random.Float64()) / float64(rt.width)
			t := (float64(j) + random.Float64()) / float64(rt.height)

			ray := rt.camera.GetRay(s, t, random)
			canvas.SetPixel(i, rt.height-1-j, RayColor(rt.world, ray, rt.bounces, random))
		}
	}

	return canvas
}
