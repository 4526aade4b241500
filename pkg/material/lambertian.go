package material

import (
	"math/rand"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Lambertian represents a perfectly diffuse material
type Lambertian struct {
	albedo core.Vec3
}

// NewLambertian creates a new lambertian material
func NewLambertian(albedo core.Vec3) *Lambertian {
	return &Lambertian{albedo: albedo}
}

// DefaultLambertian is the mid-grey diffuse material used for unnamed surfaces
func DefaultLambertian() *Lambertian {
	return NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
}

// Scatter bounces the ray towards normal + a random unit vector. It always scatters.
func (l *Lambertian) Scatter(rayIn core.Ray, hit *HitRecord, random *rand.Rand) (core.Ray, bool) {
	scatterDirection := hit.Normal.Add(core.RandomUnitVector(random))

	// The random vector can cancel the normal almost exactly
	if scatterDirection.NearZero() {
		scatterDirection = hit.Normal
	}

	return core.NewRay(hit.Point, scatterDirection), true
}

// Albedo returns the diffuse color
func (l *Lambertian) Albedo() core.Vec3 {
	return l.albedo
}
