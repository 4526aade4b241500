package renderer

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

func TestRayColor_DepthExhausted(t *testing.T) {
	world := geometry.NewList()
	ray := core.NewRay(core.Vec3{}, core.NewVec3(0, 1, 0))

	if got := RayColor(world, ray, 0, rand.New(rand.NewSource(1))); got != (core.Vec3{}) {
		t.Errorf("Expected black at depth 0, got %v", got)
	}
}

func TestRayColor_Background(t *testing.T) {
	world := geometry.NewList()
	random := rand.New(rand.NewSource(1))

	tests := []struct {
		name      string
		direction core.Vec3
		expected  core.Vec3
	}{
		{"straight up", core.NewVec3(0, 1, 0), core.NewVec3(0.5, 0.7, 1.0)},
		{"straight down", core.NewVec3(0, -1, 0), core.NewVec3(1, 1, 1)},
		{"horizon", core.NewVec3(1, 0, 0), core.NewVec3(0.75, 0.85, 1.0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RayColor(world, core.NewRay(core.Vec3{}, tt.direction), 3, random)
			if !vecEqual(got, tt.expected, 1e-12) {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestRayColor_LastBounceIsBlack(t *testing.T) {
	world := geometry.NewList(geometry.NewSphere(core.NewVec3(0, 0, -2), 0.5, material.DefaultLambertian()))
	ray := core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1))

	// One bounce: the hit scatters but the scattered ray has no depth left
	if got := RayColor(world, ray, 1, rand.New(rand.NewSource(1))); got != (core.Vec3{}) {
		t.Errorf("Expected black with a single bounce, got %v", got)
	}
}

func TestRayColor_MirrorReflectsSky(t *testing.T) {
	albedo := core.NewVec3(0.8, 0.6, 0.4)
	world := geometry.NewList(geometry.NewSphere(core.NewVec3(0, 0, -2), 0.5, material.NewMetal(albedo, 0)))

	// Head-on: the mirror sends the ray straight back along +Z, a horizon sky color
	ray := core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1))
	got := RayColor(world, ray, 2, rand.New(rand.NewSource(1)))

	expected := albedo.MultiplyVec(core.NewVec3(0.75, 0.85, 1.0))
	if !vecEqual(got, expected, 1e-9) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

func TestRayColor_AbsorbedIsBlack(t *testing.T) {
	// Grazing hit on a fully fuzzy metal: perturbed reflections that dip
	// below the surface are absorbed
	world := geometry.NewList(geometry.NewSphere(core.NewVec3(0, 0, -2), 0.5, material.NewMetal(core.NewVec3(1, 1, 1), 1)))
	random := rand.New(rand.NewSource(3))
	ray := core.NewRay(core.NewVec3(0.49, 0, 0), core.NewVec3(0, 0, -1))

	absorbed := false
	for i := 0; i < 200 && !absorbed; i++ {
		got := RayColor(world, ray, 2, random)
		if got == (core.Vec3{}) {
			absorbed = true
		}
		if !got.IsFinite() || got.X < 0 || got.X > 1 {
			t.Fatalf("Unexpected color %v", got)
		}
	}
	if !absorbed {
		t.Error("Expected some grazing rays on a fuzzy metal to be absorbed")
	}
}

func TestRaytracer_RenderPassFlipsRows(t *testing.T) {
	// Camera looks at the horizon: upper half of the image is sky only
	camera := NewCameraBuilder().
		Origin(core.NewVec3(0, 0, 0)).
		LookAt(core.NewVec3(0, 0, -1)).
		VerticalFOV(90).
		AspectRatio(1).
		Build()
	world := geometry.NewList(geometry.NewSphere(core.NewVec3(0, -1000.5, 0), 1000, material.DefaultLambertian()))

	canvas := NewRaytracer(world, camera, 4, 4, 1).RenderPass(rand.New(rand.NewSource(1)))
	if canvas.Layers() != 1 {
		t.Fatalf("Expected a single-layer canvas, got %d layers", canvas.Layers())
	}

	for i := 0; i < 4; i++ {
		top := canvas.Pixel(i, 0)
		bottom := canvas.Pixel(i, 3)
		if top == (core.Vec3{}) {
			t.Errorf("Top row pixel %d should see the sky", i)
		}
		if bottom != (core.Vec3{}) {
			t.Errorf("Bottom row pixel %d should see the ground, got %v", i, bottom)
		}
		if math.IsNaN(top.X) {
			t.Errorf("NaN in pixel %d", i)
		}
	}
}
