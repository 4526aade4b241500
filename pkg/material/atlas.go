package material

import "sort"

// DefaultName is the atlas key of the material every new atlas starts with
const DefaultName = "Default"

// Atlas maps material names to shared materials while a scene is assembled.
// Renderers never consult it.
type Atlas struct {
	materials map[string]Material
}

// NewAtlas creates an atlas holding only the default lambertian material
func NewAtlas() *Atlas {
	return &Atlas{
		materials: map[string]Material{
			DefaultName: DefaultLambertian(),
		},
	}
}

// Insert stores m under name. If the name was taken, the replaced material is returned.
func (a *Atlas) Insert(name string, m Material) (Material, bool) {
	previous, replaced := a.materials[name]
	a.materials[name] = m
	return previous, replaced
}

// Get returns the material registered under name
func (a *Atlas) Get(name string) (Material, bool) {
	m, ok := a.materials[name]
	return m, ok
}

// Names returns all registered names in sorted order
func (a *Atlas) Names() []string {
	names := make([]string, 0, len(a.materials))
	for name := range a.materials {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered materials
func (a *Atlas) Len() int {
	return len(a.materials)
}
