package material

import (
	"math/rand"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Material decides how light leaving a surface is redirected.
//
// The implementations are Lambertian, Metal and Dielectric. Materials are
// immutable once constructed and are shared read-only by every render worker.
type Material interface {
	// Scatter returns the outgoing ray for rayIn hitting the surface described
	// by hit, or false when the ray is absorbed.
	Scatter(rayIn core.Ray, hit *HitRecord, random *rand.Rand) (core.Ray, bool)

	// Albedo is the attenuation applied to light carried by scattered rays.
	Albedo() core.Vec3
}

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	Point     core.Vec3 // Point of intersection
	Normal    core.Vec3 // Surface normal at intersection, facing against the ray
	T         float64   // Parameter t along the ray
	FrontFace bool      // Whether ray hit the front face
	Material  Material  // Material of the hit object
}

// SetFaceNormal sets the normal vector and determines front/back face
func (h *HitRecord) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}
