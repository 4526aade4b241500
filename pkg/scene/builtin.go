package scene

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

type builtin struct {
	description string
	build       func(random *rand.Rand) (*Scene, error)
}

var builtins = map[string]builtin{
	"default": {"Three spheres (diffuse, metal, glass) on a large ground sphere", NewDefaultScene},
	"ground":  {"A mirror ball resting on a diffuse ground sphere", NewGroundScene},
	"random":  {"Ground with a grid of small random spheres and three large ones", NewRandomScene},
}

// BuiltinNames returns the names of the built-in scenes, sorted
func BuiltinNames() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewBuiltin builds the named built-in scene
func NewBuiltin(name string, random *rand.Rand) (*Scene, error) {
	b, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownScene, name)
	}
	return b.build(random)
}

// NewDefaultScene creates the demo scene: three spheres side by side on a large ground sphere
func NewDefaultScene(random *rand.Rand) (*Scene, error) {
	camera := renderer.NewCameraBuilder().
		Origin(core.NewVec3(0, 0, 4)).
		LookAt(core.NewVec3(-0.5, 0, 0)).
		Up(core.NewVec3(0.1, 1, 0)).
		AspectRatio(16.0 / 9.0)

	diffuseGreen := material.NewLambertian(core.NewVec3(0.1, 0.4, 0.6))
	metalYellow := material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.8)
	dielectric := material.NewDielectric(0.8)

	atlas := material.NewAtlas()
	atlas.Insert("DiffuseGreen", diffuseGreen)
	atlas.Insert("MetalYellow", metalYellow)
	atlas.Insert("Dielectric", dielectric)
	ground, _ := atlas.Get(material.DefaultName)

	shapes := []geometry.Shape{
		geometry.NewSphere(core.NewVec3(-1.1, 0, -1), 0.5, diffuseGreen),
		geometry.NewSphere(core.NewVec3(1.1, 0, -1), 0.5, dielectric),
		geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, metalYellow),
		geometry.NewSphere(core.NewVec3(0, -100.5, -1), 100, ground),
	}

	settings := &RenderSettings{Width: 1080, Height: 607, Samples: 100, Bounces: 50}
	return New("default", atlas, shapes, camera, settings, random)
}

// NewGroundScene creates a mirror ball on a large diffuse ground sphere
func NewGroundScene(random *rand.Rand) (*Scene, error) {
	camera := renderer.NewCameraBuilder().
		Origin(core.NewVec3(0, 1, 0)).
		LookAt(core.NewVec3(0, 1, -1)).
		VerticalFOV(90).
		AspectRatio(1)

	mirror := material.NewMetal(core.NewVec3(0.8, 0.8, 0.8), 0)

	atlas := material.NewAtlas()
	atlas.Insert("Mirror", mirror)
	ground, _ := atlas.Get(material.DefaultName)

	shapes := []geometry.Shape{
		geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, ground),
		geometry.NewSphere(core.NewVec3(0, 0.4, -3), 0.5, mirror),
	}

	settings := &RenderSettings{Width: 400, Height: 400, Samples: 16, Bounces: 8}
	return New("ground", atlas, shapes, camera, settings, random)
}

// NewRandomScene creates the book cover scene: a grid of small random spheres
// around three large ones, seen through a lens focused at distance 10
func NewRandomScene(random *rand.Rand) (*Scene, error) {
	camera := renderer.NewCameraBuilder().
		Origin(core.NewVec3(13, 2, 3)).
		LookAt(core.NewVec3(0, 0, 0)).
		VerticalFOV(20).
		AspectRatio(3.0/2.0).
		Focus(0.1, 10)

	ground := material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	glass := material.NewDielectric(1.5)
	brown := material.NewLambertian(core.NewVec3(0.4, 0.2, 0.1))
	steel := material.NewMetal(core.NewVec3(0.7, 0.6, 0.5), 0)

	atlas := material.NewAtlas()
	atlas.Insert("Ground", ground)
	atlas.Insert("Glass", glass)
	atlas.Insert("Brown", brown)
	atlas.Insert("Steel", steel)

	shapes := []geometry.Shape{
		geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, ground),
	}

	clearing := core.NewVec3(4, 0.2, 0)
	for a := -11; a < 11; a++ {
		for b := -11; b < 11; b++ {
			center := core.NewVec3(float64(a)+0.9*random.Float64(), 0.2, float64(b)+0.9*random.Float64())
			if center.Subtract(clearing).Length() <= 0.9 {
				continue
			}

			var mat material.Material
			switch choose := random.Float64(); {
			case choose < 0.8:
				albedo := randomColor(random, 0, 1).MultiplyVec(randomColor(random, 0, 1))
				mat = material.NewLambertian(albedo)
			case choose < 0.95:
				mat = material.NewMetal(randomColor(random, 0.5, 1), 0.5*random.Float64())
			default:
				mat = glass
			}
			shapes = append(shapes, geometry.NewSphere(center, 0.2, mat))
		}
	}

	shapes = append(shapes,
		geometry.NewSphere(core.NewVec3(0, 1, 0), 1, glass),
		geometry.NewSphere(core.NewVec3(-4, 1, 0), 1, brown),
		geometry.NewSphere(core.NewVec3(4, 1, 0), 1, steel),
	)

	settings := &RenderSettings{Width: 1080, Height: 720, Samples: 128, Bounces: 50}
	return New("random", atlas, shapes, camera, settings, random)
}

func randomColor(random *rand.Rand, lo, hi float64) core.Vec3 {
	span := hi - lo
	return core.NewVec3(
		lo+span*random.Float64(),
		lo+span*random.Float64(),
		lo+span*random.Float64(),
	)
}
