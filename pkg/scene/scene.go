package scene

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/log"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

var logger = log.New("scene")

var (
	ErrUnknownScene    = errors.New("scene: unknown scene")
	ErrUnknownMaterial = errors.New("scene: cannot find material")
	ErrInvalidScene    = errors.New("scene: invalid scene description")
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name    string
	Atlas   *material.Atlas   // Materials by name, used while building only
	World   *geometry.BVHNode // Acceleration structure over every object
	Objects *geometry.List    // The same objects, flat, in declaration order
	Camera  *renderer.Camera  // Camera built with the scene's own aspect ratio
	Render  *RenderSettings   // Suggested render settings, nil for renderer defaults

	camera renderer.CameraBuilder
}

// RenderSettings are the per-scene render suggestions. Zero fields keep the
// renderer default.
type RenderSettings struct {
	Width   int `yaml:"width"`
	Height  int `yaml:"height"`
	Samples int `yaml:"samples"`
	Bounces int `yaml:"bounces"`
}

// Apply overrides config with the non-zero settings
func (s *RenderSettings) Apply(config renderer.Config) renderer.Config {
	if s == nil {
		return config
	}
	if s.Width > 0 {
		config.Width = s.Width
	}
	if s.Height > 0 {
		config.Height = s.Height
	}
	if s.Samples > 0 {
		config.Samples = s.Samples
	}
	if s.Bounces > 0 {
		config.Bounces = s.Bounces
	}
	return config
}

// New builds the acceleration structure over shapes and the camera. The
// builder is kept so the camera can be rebuilt for other image sizes.
func New(name string, atlas *material.Atlas, shapes []geometry.Shape, camera *renderer.CameraBuilder, settings *RenderSettings, random *rand.Rand) (*Scene, error) {
	objects := geometry.NewList(shapes...)
	world, err := geometry.NewBVHFromList(objects, random)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", name, err)
	}

	logger.Debugf("Scene %s: %d primitives, BVH depth %d", name, world.Count(), world.Depth())

	return &Scene{
		Name:    name,
		Atlas:   atlas,
		World:   world,
		Objects: objects,
		Camera:  camera.Build(),
		Render:  settings,
		camera:  *camera,
	}, nil
}

// CameraFor builds the scene camera with the aspect ratio of a width x height image
func (s *Scene) CameraFor(width, height int) *renderer.Camera {
	builder := s.camera
	return builder.AspectRatio(float64(width) / float64(height)).Build()
}

// GetPrimitiveCount returns the total number of primitive objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	return s.World.Count()
}
