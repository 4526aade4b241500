package material

import (
	"math/rand"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Metal represents a metallic material with specular reflection
type Metal struct {
	albedo    core.Vec3 // Metal color
	Fuzziness float64   // 0.0 = perfect mirror, 1.0 = very fuzzy
}

// NewMetal creates a new metal material
func NewMetal(albedo core.Vec3, fuzziness float64) *Metal {
	// Clamp fuzziness to valid range
	if fuzziness > 1.0 {
		fuzziness = 1.0
	}
	if fuzziness < 0.0 {
		fuzziness = 0.0
	}
	return &Metal{albedo: albedo, Fuzziness: fuzziness}
}

// Scatter reflects the incoming ray about the normal, perturbed by the fuzziness.
// Rays perturbed below the surface are absorbed.
func (m *Metal) Scatter(rayIn core.Ray, hit *HitRecord, random *rand.Rand) (core.Ray, bool) {
	reflected := core.Reflect(rayIn.Direction, hit.Normal).Normalize()

	if m.Fuzziness > 0 {
		reflected = reflected.Add(core.RandomInUnitSphere(random).Multiply(m.Fuzziness))
	}

	scattered := core.NewRay(hit.Point, reflected)
	return scattered, reflected.Dot(hit.Normal) > 0
}

// Albedo returns the metal color
func (m *Metal) Albedo() core.Vec3 {
	return m.albedo
}
