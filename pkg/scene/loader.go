package scene

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"gopkg.in/yaml.v3"
)

// point is a YAML [x, y, z] triple
type point [3]float64

func (p point) vec() core.Vec3 {
	return core.NewVec3(p[0], p[1], p[2])
}

// sceneFile is the YAML scene description. Materials and geometries are
// tagged by a single key naming their variant.
type sceneFile struct {
	Name      string                  `yaml:"name"`
	Materials map[string]materialSpec `yaml:"materials"`
	Objects   []objectSpec            `yaml:"objects"`
	Camera    *cameraSpec             `yaml:"camera"`
	Render    *RenderSettings         `yaml:"render"`
}

type materialSpec struct {
	Diffuse *struct {
		Albedo point `yaml:"albedo"`
	} `yaml:"Diffuse"`
	Metal *struct {
		Albedo    point   `yaml:"albedo"`
		Fuzziness float64 `yaml:"fuziness"`
	} `yaml:"Metal"`
	Dielectric *struct {
		RefractiveIndex float64 `yaml:"refractive_index"`
	} `yaml:"Dielectric"`
}

type objectSpec struct {
	ObjectID string       `yaml:"object_id"`
	Geometry geometrySpec `yaml:"geometry"`
	Material string       `yaml:"material"`
}

type geometrySpec struct {
	Sphere *struct {
		Center point   `yaml:"center"`
		Radius float64 `yaml:"radius"`
	} `yaml:"Sphere"`
}

type cameraSpec struct {
	Origin      *point   `yaml:"origin"`
	LookAt      *point   `yaml:"look_at"`
	Up          *point   `yaml:"up"`
	VerticalFOV *float64 `yaml:"vertical_fov"`
	AspectRatio *float64 `yaml:"aspect_ratio"`
	Focus       *struct {
		Aperture      float64 `yaml:"aperture"`
		FocusDistance float64 `yaml:"focus_distance"`
	} `yaml:"focus"`
}

// Load reads a YAML scene file. The scene is named after the file unless
// the file names itself.
func Load(path string, random *rand.Rand) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	s, err := parse(f, name, random)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse reads a YAML scene description from r
func Parse(r io.Reader, random *rand.Rand) (*Scene, error) {
	return parse(r, "yaml", random)
}

func parse(r io.Reader, name string, random *rand.Rand) (*Scene, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var file sceneFile
	if err := decoder.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidScene)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidScene, err)
	}
	if file.Name != "" {
		name = file.Name
	}

	atlas, err := buildAtlas(file.Materials)
	if err != nil {
		return nil, err
	}

	shapes := make([]geometry.Shape, 0, len(file.Objects))
	for _, object := range file.Objects {
		shape, err := buildObject(object, atlas)
		if err != nil {
			return nil, err
		}
		shapes = append(shapes, shape)
	}

	logger.Infof("Loaded scene %s: %d materials, %d objects", name, atlas.Len(), len(shapes))

	return New(name, atlas, shapes, buildCamera(file.Camera), file.Render, random)
}

func buildAtlas(specs map[string]materialSpec) (*material.Atlas, error) {
	atlas := material.NewAtlas()

	// Map order is random; sort so that errors are reported deterministically
	names := make([]string, 0, len(specs))
	for name := range specs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		m, err := buildMaterial(name, specs[name])
		if err != nil {
			return nil, err
		}
		atlas.Insert(name, m)
	}
	return atlas, nil
}

func buildMaterial(name string, spec materialSpec) (material.Material, error) {
	var variants []material.Material
	if spec.Diffuse != nil {
		variants = append(variants, material.NewLambertian(spec.Diffuse.Albedo.vec()))
	}
	if spec.Metal != nil {
		variants = append(variants, material.NewMetal(spec.Metal.Albedo.vec(), spec.Metal.Fuzziness))
	}
	if spec.Dielectric != nil {
		variants = append(variants, material.NewDielectric(spec.Dielectric.RefractiveIndex))
	}

	if len(variants) != 1 {
		return nil, fmt.Errorf("%w: material %s must be exactly one of Diffuse, Metal, Dielectric", ErrInvalidScene, name)
	}
	return variants[0], nil
}

func buildObject(object objectSpec, atlas *material.Atlas) (geometry.Shape, error) {
	if object.Geometry.Sphere == nil {
		return nil, fmt.Errorf("%w: object %s has no geometry", ErrInvalidScene, object.ObjectID)
	}

	m, ok := atlas.Get(object.Material)
	if !ok {
		return nil, fmt.Errorf("%w %s", ErrUnknownMaterial, object.Material)
	}

	sphere := object.Geometry.Sphere
	return geometry.NewSphere(sphere.Center.vec(), sphere.Radius, m), nil
}

func buildCamera(spec *cameraSpec) *renderer.CameraBuilder {
	builder := renderer.NewCameraBuilder()
	if spec == nil {
		return builder
	}

	if spec.Origin != nil {
		builder.Origin(spec.Origin.vec())
	}
	if spec.LookAt != nil {
		builder.LookAt(spec.LookAt.vec())
	}
	if spec.Up != nil {
		builder.Up(spec.Up.vec())
	}
	if spec.VerticalFOV != nil {
		builder.VerticalFOV(*spec.VerticalFOV)
	}
	if spec.AspectRatio != nil {
		builder.AspectRatio(*spec.AspectRatio)
	}
	if spec.Focus != nil {
		builder.Focus(spec.Focus.Aperture, spec.Focus.FocusDistance)
	}
	return builder
}
