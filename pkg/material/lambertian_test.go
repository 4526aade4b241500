package material

import (
	"math/rand"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
)

func TestLambertian_AlwaysScattersIntoHemisphere(t *testing.T) {
	albedo := core.NewVec3(0.1, 0.4, 0.6)
	lambertian := NewLambertian(albedo)
	random := rand.New(rand.NewSource(42))

	hit := &HitRecord{
		Point:     core.NewVec3(1, 2, 3),
		Normal:    core.NewVec3(0, 1, 0),
		FrontFace: true,
		Material:  lambertian,
	}
	rayIn := core.NewRay(core.NewVec3(1, 5, 3), core.NewVec3(0, -1, 0))

	for i := 0; i < 1000; i++ {
		scattered, ok := lambertian.Scatter(rayIn, hit, random)
		if !ok {
			t.Fatal("Lambertian should always scatter")
		}
		if scattered.Origin != hit.Point {
			t.Fatalf("Scattered ray should start at hit point, got %v", scattered.Origin)
		}
		// normal + unit vector never points below the tangent plane
		if scattered.Direction.Dot(hit.Normal) < 0 {
			t.Fatalf("Scattered direction %v points into the surface", scattered.Direction)
		}
		if scattered.Direction.NearZero() {
			t.Fatal("Scattered direction should never be degenerate")
		}
	}

	if lambertian.Albedo() != albedo {
		t.Errorf("Expected albedo %v, got %v", albedo, lambertian.Albedo())
	}
}

func TestDefaultLambertian(t *testing.T) {
	if got := DefaultLambertian().Albedo(); got != core.NewVec3(0.5, 0.5, 0.5) {
		t.Errorf("Expected mid grey, got %v", got)
	}
}
