package renderer

import "time"

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	Width            int
	Height           int
	Bounces          int
	Workers          int
	TotalPasses      int           // Passes requested
	CompletedPasses  int           // Passes merged into the image
	LostPasses       int           // Passes that panicked and were dropped
	Primitives       int           // Primitives in the world, when it can report them
	TreeDepth        int           // Acceleration structure depth, when known
	Seed             int64         // Base seed, pass i uses Seed+i
	Duration         time.Duration // Wall time of the render
	AverageLuminance float64       // Mean luminance of the final image
}

// RaysPerSecond returns the camera ray throughput
func (s RenderStats) RaysPerSecond() float64 {
	if s.Duration <= 0 {
		return 0
	}
	rays := float64(s.Width) * float64(s.Height) * float64(s.CompletedPasses)
	return rays / s.Duration.Seconds()
}

// AverageLuminance computes the average luminance of the canvas values
func (c *Canvas) AverageLuminance() float64 {
	if len(c.pixels) == 0 {
		return 0
	}

	var total float64
	for _, p := range c.pixels {
		total += luminance(p.X, p.Y, p.Z)
	}
	return total / float64(len(c.pixels))
}

func luminance(r, g, b float64) float64 {
	return 0.2126*r + 0.7152*g + 0.0722*b
}
