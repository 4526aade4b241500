package geometry

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Shape interface for objects that can be hit by rays.
//
// Implementations are Sphere, List and BVHNode. A shape is immutable once
// built and may be queried concurrently.
type Shape interface {
	// Hit returns the closest intersection with t in [tMin, tMax].
	Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool)

	// BoundingBox returns a box enclosing the shape, or false if it has none.
	BoundingBox() (core.AABB, bool)
}
