package core

import (
	"testing"
)

func TestAABB_Hit(t *testing.T) {
	box := NewAABB(NewVec3(-1, -1, -1), NewVec3(1, 1, 1))

	tests := []struct {
		name     string
		ray      Ray
		tMin     float64
		tMax     float64
		expected bool
	}{
		{
			name:     "Ray through center",
			ray:      NewRay(NewVec3(-5, 0, 0), NewVec3(1, 0, 0)),
			tMin:     0,
			tMax:     100,
			expected: true,
		},
		{
			name:     "Interval containing the entry range [4,6]",
			ray:      NewRay(NewVec3(-5, 0, 0), NewVec3(1, 0, 0)),
			tMin:     4.5,
			tMax:     5.5,
			expected: true,
		},
		{
			name:     "Interval ending before entry",
			ray:      NewRay(NewVec3(-5, 0, 0), NewVec3(1, 0, 0)),
			tMin:     0,
			tMax:     3.9,
			expected: false,
		},
		{
			name:     "Interval starting after exit",
			ray:      NewRay(NewVec3(-5, 0, 0), NewVec3(1, 0, 0)),
			tMin:     6.1,
			tMax:     100,
			expected: false,
		},
		{
			name:     "Negative direction",
			ray:      NewRay(NewVec3(5, 0, 0), NewVec3(-1, 0, 0)),
			tMin:     0,
			tMax:     100,
			expected: true,
		},
		{
			name:     "Pointing away",
			ray:      NewRay(NewVec3(5, 0, 0), NewVec3(1, 0, 0)),
			tMin:     0,
			tMax:     100,
			expected: false,
		},
		{
			name:     "Axis-parallel ray inside slab",
			ray:      NewRay(NewVec3(0, 0.5, -5), NewVec3(0, 0, 1)),
			tMin:     0,
			tMax:     100,
			expected: true,
		},
		{
			name:     "Axis-parallel ray outside slab",
			ray:      NewRay(NewVec3(0, 2, -5), NewVec3(0, 0, 1)),
			tMin:     0,
			tMax:     100,
			expected: false,
		},
		{
			name:     "Diagonal ray",
			ray:      NewRay(NewVec3(-3, -3, -3), NewVec3(1, 1, 1)),
			tMin:     0,
			tMax:     100,
			expected: true,
		},
		{
			name:     "Diagonal miss",
			ray:      NewRay(NewVec3(-3, 3, 0), NewVec3(1, 1, 0)),
			tMin:     0,
			tMax:     100,
			expected: false,
		},
		{
			name:     "Origin inside box",
			ray:      NewRay(NewVec3(0, 0, 0), NewVec3(0.3, -0.2, 0.9)),
			tMin:     0.001,
			tMax:     100,
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := box.Hit(tt.ray, tt.tMin, tt.tMax); got != tt.expected {
				t.Errorf("Expected hit=%t, got %t", tt.expected, got)
			}
		})
	}
}

func TestSurroundingBox(t *testing.T) {
	a := NewAABB(NewVec3(0, 0, 0), NewVec3(1, 1, 1))
	b := NewAABB(NewVec3(-2, 0.5, 0.5), NewVec3(0.5, 3, 0.75))

	union := SurroundingBox(a, b)
	expected := NewAABB(NewVec3(-2, 0, 0), NewVec3(1, 3, 1))

	if union != expected {
		t.Errorf("Expected %v, got %v", expected, union)
	}
	if SurroundingBox(b, a) != union {
		t.Error("SurroundingBox should be symmetric")
	}
}

func TestAABBAxisCenterSize(t *testing.T) {
	box := NewAABB(NewVec3(-3, -1, 0), NewVec3(1, 4, 5))

	if lo, hi := box.Axis(1); lo != -1 || hi != 4 {
		t.Errorf("Axis(1) = (%v, %v), want (-1, 4)", lo, hi)
	}
	if box.Center() != NewVec3(-1, 1.5, 2.5) {
		t.Errorf("Unexpected center %v", box.Center())
	}
	if box.Size() != NewVec3(4, 5, 5) {
		t.Errorf("Unexpected size %v", box.Size())
	}
}
