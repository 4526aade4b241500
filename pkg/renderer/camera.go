package renderer

import (
	"math"
	"math/rand"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/go-gl/mathgl/mgl64"
)

// Camera generates rays for rendering. It is immutable once built and is
// shared by every render worker.
type Camera struct {
	origin          core.Vec3
	lowerLeftCorner core.Vec3
	horizontal      core.Vec3
	vertical        core.Vec3
	u, v, w         core.Vec3 // Orthonormal basis: right, up, backward
	lensRadius      float64
}

// CameraBuilder collects camera parameters. The zero focus setting is a
// pinhole camera with the image plane one unit in front of the origin.
type CameraBuilder struct {
	origin        core.Vec3
	lookAt        core.Vec3
	up            core.Vec3
	vfov          float64 // Vertical field of view in degrees
	aspectRatio   float64
	aperture      float64
	focusDistance float64
	focus         bool
}

// NewCameraBuilder returns a builder looking down -Z from the origin
func NewCameraBuilder() *CameraBuilder {
	return &CameraBuilder{
		origin:      core.NewVec3(0, 0, 0),
		lookAt:      core.NewVec3(0, 0, -1),
		up:          core.NewVec3(0, 1, 0),
		vfov:        40,
		aspectRatio: 16.0 / 9.0,
	}
}

// Origin sets the camera position
func (b *CameraBuilder) Origin(origin core.Vec3) *CameraBuilder {
	b.origin = origin
	return b
}

// LookAt sets the point the camera faces
func (b *CameraBuilder) LookAt(target core.Vec3) *CameraBuilder {
	b.lookAt = target
	return b
}

// Up sets the world up vector used to orient the image plane
func (b *CameraBuilder) Up(up core.Vec3) *CameraBuilder {
	b.up = up
	return b
}

// VerticalFOV sets the vertical field of view in degrees
func (b *CameraBuilder) VerticalFOV(degrees float64) *CameraBuilder {
	b.vfov = degrees
	return b
}

// AspectRatio sets width / height of the image plane
func (b *CameraBuilder) AspectRatio(ratio float64) *CameraBuilder {
	b.aspectRatio = ratio
	return b
}

// Focus enables depth of field with the given lens aperture and the distance
// of the plane that stays sharp
func (b *CameraBuilder) Focus(aperture, distance float64) *CameraBuilder {
	b.aperture = aperture
	b.focusDistance = distance
	b.focus = true
	return b
}

// Build derives the image plane from the collected parameters
func (b *CameraBuilder) Build() *Camera {
	theta := mgl64.DegToRad(b.vfov)
	h := math.Tan(theta / 2)
	viewportHeight := 2.0 * h
	viewportWidth := b.aspectRatio * viewportHeight

	w := b.origin.Subtract(b.lookAt).Normalize()
	u := b.up.Cross(w).Normalize()
	v := w.Cross(u)

	focusDistance := 1.0
	lensRadius := 0.0
	if b.focus {
		focusDistance = b.focusDistance
		lensRadius = b.aperture / 2
	}

	horizontal := u.Multiply(viewportWidth * focusDistance)
	vertical := v.Multiply(viewportHeight * focusDistance)
	lowerLeftCorner := b.origin.
		Subtract(horizontal.Multiply(0.5)).
		Subtract(vertical.Multiply(0.5)).
		Subtract(w.Multiply(focusDistance))

	return &Camera{
		origin:          b.origin,
		lowerLeftCorner: lowerLeftCorner,
		horizontal:      horizontal,
		vertical:        vertical,
		u:               u,
		v:               v,
		w:               w,
		lensRadius:      lensRadius,
	}
}

// GetRay generates a ray for screen coordinates (s, t) where 0 <= s,t <= 1.
// With a lens the origin is jittered over the aperture and the direction
// corrected so the ray still passes through the same focal plane point.
func (c *Camera) GetRay(s, t float64, random *rand.Rand) core.Ray {
	origin := c.origin
	if c.lensRadius > 0 {
		rd := core.RandomInUnitDisk(random).Multiply(c.lensRadius)
		offset := c.u.Multiply(rd.X).Add(c.v.Multiply(rd.Y))
		origin = origin.Add(offset)
	}

	direction := c.lowerLeftCorner.
		Add(c.horizontal.Multiply(s)).
		Add(c.vertical.Multiply(t)).
		Subtract(origin)

	return core.NewRay(origin, direction)
}

// Position returns the camera origin
func (c *Camera) Position() core.Vec3 {
	return c.origin
}

// Forward returns the unit viewing direction
func (c *Camera) Forward() core.Vec3 {
	return c.w.Negate()
}

// LensRadius is half the aperture, zero for a pinhole camera
func (c *Camera) LensRadius() float64 {
	return c.lensRadius
}
