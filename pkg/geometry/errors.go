package geometry

import "errors"

var (
	ErrEmptyPrimitiveList = errors.New("bvh: empty primitive list")
	ErrNoBoundingBox      = errors.New("bvh: primitive has no bounding box")
)
