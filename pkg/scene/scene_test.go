package scene

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

func TestBuiltinScenes(t *testing.T) {
	tests := []struct {
		name       string
		primitives int // 0 means at least the ground
	}{
		{"default", 4},
		{"ground", 2},
		{"random", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewBuiltin(tt.name, rand.New(rand.NewSource(1)))
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			if s.Name != tt.name {
				t.Errorf("Expected name %q, got %q", tt.name, s.Name)
			}
			if s.World == nil || s.Camera == nil || s.Atlas == nil {
				t.Fatalf("Scene is incomplete: %+v", s)
			}
			if tt.primitives > 0 && s.GetPrimitiveCount() != tt.primitives {
				t.Errorf("Expected %d primitives, got %d", tt.primitives, s.GetPrimitiveCount())
			}
			if s.GetPrimitiveCount() < 1 {
				t.Error("Expected at least one primitive")
			}
			if err := s.Render.Apply(renderer.DefaultConfig()).Validate(); err != nil {
				t.Errorf("Scene render settings are invalid: %v", err)
			}
		})
	}
}

func TestRandomScene_Population(t *testing.T) {
	s, err := NewRandomScene(rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// Ground + up to 22x22 small spheres + 3 large ones
	count := s.GetPrimitiveCount()
	if count < 400 || count > 1+22*22+3 {
		t.Errorf("Unexpected primitive count %d", count)
	}
	if s.Camera.LensRadius() != 0.05 {
		t.Errorf("Expected a lens radius of 0.05, got %f", s.Camera.LensRadius())
	}
}

func TestNewBuiltin_Unknown(t *testing.T) {
	if _, err := NewBuiltin("cornell", rand.New(rand.NewSource(1))); !errors.Is(err, ErrUnknownScene) {
		t.Errorf("Expected ErrUnknownScene, got %v", err)
	}
}

func TestNew_EmptyScene(t *testing.T) {
	_, err := New("empty", nil, nil, renderer.NewCameraBuilder(), nil, rand.New(rand.NewSource(1)))
	if !errors.Is(err, geometry.ErrEmptyPrimitiveList) {
		t.Errorf("Expected ErrEmptyPrimitiveList, got %v", err)
	}
}

func TestRenderSettings_Apply(t *testing.T) {
	base := renderer.DefaultConfig()

	if got := (*RenderSettings)(nil).Apply(base); got != base {
		t.Errorf("Nil settings should keep the config, got %+v", got)
	}

	got := (&RenderSettings{Width: 320, Samples: 8}).Apply(base)
	if got.Width != 320 || got.Samples != 8 {
		t.Errorf("Expected width 320 and 8 samples, got %+v", got)
	}
	if got.Height != base.Height || got.Bounces != base.Bounces {
		t.Errorf("Zero settings should keep defaults, got %+v", got)
	}
}

func TestScene_CameraFor(t *testing.T) {
	s, err := NewGroundScene(rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// The ground scene camera is square; a 2:1 image widens the right edge
	wide := s.CameraFor(200, 100)
	ray := wide.GetRay(1, 0.5, rand.New(rand.NewSource(1)))
	if ray.Direction.X < 1.99 || ray.Direction.X > 2.01 {
		t.Errorf("Expected right edge at x=2, got %v", ray.Direction)
	}

	// The stored camera is untouched
	square := s.Camera.GetRay(1, 0.5, rand.New(rand.NewSource(1)))
	if square.Direction.X < 0.99 || square.Direction.X > 1.01 {
		t.Errorf("Expected right edge at x=1, got %v", square.Direction)
	}
}
