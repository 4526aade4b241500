package geometry

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// BVHNode represents a node in the Bounding Volume Hierarchy.
// Children are either primitives or further nodes; a single-primitive
// node stores the same primitive on both sides.
type BVHNode struct {
	Left  Shape
	Right Shape
	Box   core.AABB

	single bool // Left and Right alias one primitive
}

// NewBVH builds a hierarchy over shapes. The split axis of every node is
// drawn from random, so the tree shape depends on the generator state but
// intersection results never do.
func NewBVH(shapes []Shape, random *rand.Rand) (*BVHNode, error) {
	if len(shapes) == 0 {
		return nil, ErrEmptyPrimitiveList
	}

	// Sorting happens in place; keep the caller's slice untouched
	shapesCopy := make([]Shape, len(shapes))
	copy(shapesCopy, shapes)

	return buildBVH(shapesCopy, random)
}

// NewBVHFromList builds a hierarchy over the shapes held by list
func NewBVHFromList(list *List, random *rand.Rand) (*BVHNode, error) {
	return NewBVH(list.Shapes, random)
}

func buildBVH(shapes []Shape, random *rand.Rand) (*BVHNode, error) {
	axis := random.Intn(3)
	node := &BVHNode{}

	switch len(shapes) {
	case 1:
		node.Left = shapes[0]
		node.Right = shapes[0]
		node.single = true
	case 2:
		less, err := boxLess(shapes[0], shapes[1], axis)
		if err != nil {
			return nil, err
		}
		if less {
			node.Left, node.Right = shapes[0], shapes[1]
		} else {
			node.Left, node.Right = shapes[1], shapes[0]
		}
	default:
		if err := sortShapesByAxis(shapes, axis); err != nil {
			return nil, err
		}

		mid := len(shapes) / 2
		left, err := buildBVH(shapes[:mid], random)
		if err != nil {
			return nil, err
		}
		right, err := buildBVH(shapes[mid:], random)
		if err != nil {
			return nil, err
		}
		node.Left, node.Right = left, right
	}

	leftBox, ok := node.Left.BoundingBox()
	if !ok {
		return nil, fmt.Errorf("building node: %w", ErrNoBoundingBox)
	}
	rightBox, ok := node.Right.BoundingBox()
	if !ok {
		return nil, fmt.Errorf("building node: %w", ErrNoBoundingBox)
	}
	node.Box = core.SurroundingBox(leftBox, rightBox)

	return node, nil
}

// boxLess orders a before b by the minimum corner of their boxes along axis
func boxLess(a, b Shape, axis int) (bool, error) {
	boxA, ok := a.BoundingBox()
	if !ok {
		return false, ErrNoBoundingBox
	}
	boxB, ok := b.BoundingBox()
	if !ok {
		return false, ErrNoBoundingBox
	}
	minA, _ := boxA.Axis(axis)
	minB, _ := boxB.Axis(axis)
	return minA < minB, nil
}

// sortShapesByAxis sorts shapes by their bounding box minimum along the specified axis
func sortShapesByAxis(shapes []Shape, axis int) error {
	type keyed struct {
		shape Shape
		key   float64
	}

	entries := make([]keyed, len(shapes))
	for i, shape := range shapes {
		box, ok := shape.BoundingBox()
		if !ok {
			return ErrNoBoundingBox
		}
		key, _ := box.Axis(axis)
		entries[i] = keyed{shape: shape, key: key}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].key < entries[j].key
	})

	for i, entry := range entries {
		shapes[i] = entry.shape
	}
	return nil
}

// Hit tests the node box first, then the left child over the full interval
// and the right child only up to the left hit. The closest hit wins.
func (n *BVHNode) Hit(ray core.Ray, tMin, tMax float64) (*material.HitRecord, bool) {
	if !n.Box.Hit(ray, tMin, tMax) {
		return nil, false
	}

	// Probing an aliased primitive twice would return the same hit
	if n.single {
		return n.Left.Hit(ray, tMin, tMax)
	}

	leftHit, hitLeft := n.Left.Hit(ray, tMin, tMax)

	rightMax := tMax
	if hitLeft {
		rightMax = leftHit.T
	}

	rightHit, hitRight := n.Right.Hit(ray, tMin, rightMax)

	switch {
	case hitLeft && hitRight:
		if rightHit.T < leftHit.T {
			return rightHit, true
		}
		return leftHit, true
	case hitRight:
		return rightHit, true
	case hitLeft:
		return leftHit, true
	default:
		return nil, false
	}
}

// BoundingBox returns the precomputed box enclosing both children
func (n *BVHNode) BoundingBox() (core.AABB, bool) {
	return n.Box, true
}

// Depth returns the number of node levels below and including n
func (n *BVHNode) Depth() int {
	depth := 0
	for _, child := range []Shape{n.Left, n.Right} {
		if node, ok := child.(*BVHNode); ok {
			depth = max(depth, node.Depth())
		}
	}
	return depth + 1
}

// Count returns the number of distinct primitives stored under n
func (n *BVHNode) Count() int {
	count := 0
	children := []Shape{n.Left, n.Right}
	if n.single {
		children = children[:1]
	}
	for _, child := range children {
		if node, ok := child.(*BVHNode); ok {
			count += node.Count()
		} else {
			count++
		}
	}
	return count
}
