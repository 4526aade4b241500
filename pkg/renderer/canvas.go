package renderer

import (
	"image"
	"image/color"
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// Canvas is a height x width color buffer that accumulates passes.
// Layers counts how many passes have been summed into the buffer.
type Canvas struct {
	width, height int
	pixels        []core.Vec3 // Row-major, row 0 is the top of the image
	layers        int
}

// NewCanvas creates an empty canvas with zero layers
func NewCanvas(height, width int) *Canvas {
	return &Canvas{
		width:  width,
		height: height,
		pixels: make([]core.Vec3, width*height),
	}
}

// Width returns the number of columns
func (c *Canvas) Width() int { return c.width }

// Height returns the number of rows
func (c *Canvas) Height() int { return c.height }

// Layers returns the number of passes summed into the canvas
func (c *Canvas) Layers() int { return c.layers }

// SetPixel writes the color at column i, row j. Writing into an empty canvas
// makes it a single-layer canvas.
func (c *Canvas) SetPixel(i, j int, color core.Vec3) {
	c.pixels[j*c.width+i] = color
	if c.layers == 0 {
		c.layers = 1
	}
}

// Pixel returns the color at column i, row j
func (c *Canvas) Pixel(i, j int) core.Vec3 {
	return c.pixels[j*c.width+i]
}

// Add sums other into c pixel by pixel and adds its layer count
func (c *Canvas) Add(other *Canvas) error {
	if c.width != other.width || c.height != other.height {
		return ErrCanvasSize
	}

	for i := range c.pixels {
		c.pixels[i] = c.pixels[i].Add(other.pixels[i])
	}
	c.layers += other.layers
	return nil
}

// Normalize averages the summed layers into one. Calling it again without
// adding layers changes nothing.
func (c *Canvas) Normalize() {
	if c.layers > 1 {
		scale := 1.0 / float64(c.layers)
		for i := range c.pixels {
			c.pixels[i] = c.pixels[i].Multiply(scale)
		}
	}
	c.layers = min(c.layers, 1)
}

// GammaCorrection applies gamma 2 (per-channel square root). It is not
// idempotent; apply it exactly once to a normalized canvas.
func (c *Canvas) GammaCorrection() {
	for i, p := range c.pixels {
		c.pixels[i] = core.NewVec3(
			math.Sqrt(math.Max(p.X, 0)),
			math.Sqrt(math.Max(p.Y, 0)),
			math.Sqrt(math.Max(p.Z, 0)),
		)
	}
}

// Clone returns a deep copy
func (c *Canvas) Clone() *Canvas {
	clone := &Canvas{
		width:  c.width,
		height: c.height,
		pixels: make([]core.Vec3, len(c.pixels)),
		layers: c.layers,
	}
	copy(clone.pixels, c.pixels)
	return clone
}

// Rows calls fn for every row from top to bottom. The row slice aliases the
// canvas and must not be retained.
func (c *Canvas) Rows(fn func(j int, row []core.Vec3)) {
	for j := 0; j < c.height; j++ {
		fn(j, c.pixels[j*c.width:(j+1)*c.width])
	}
}

// ToImage converts the canvas to 8-bit RGBA
func (c *Canvas) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, c.width, c.height))
	c.Rows(func(j int, row []core.Vec3) {
		for i, p := range row {
			img.SetRGBA(i, j, ToRGBA(p))
		}
	})
	return img
}

// ToRGBA maps a [0,1] color to bytes with 256*clamp(x, 0, 0.999)
func ToRGBA(colorVec core.Vec3) color.RGBA {
	return color.RGBA{
		R: toByte(colorVec.X),
		G: toByte(colorVec.Y),
		B: toByte(colorVec.Z),
		A: 255,
	}
}

func toByte(x float64) uint8 {
	// NaN fails both comparisons and would otherwise convert to garbage
	if !(x > 0) {
		return 0
	}
	return uint8(256 * math.Min(x, 0.999))
}
