package renderer

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/log"
)

var logger = log.New("renderer")

// Config contains configuration for a render
type Config struct {
	Width    int   // Image width in pixels
	Height   int   // Image height in pixels
	Samples  int   // Passes averaged into the final image
	Bounces  int   // Maximum scatter events per camera ray
	Workers  int   // Number of parallel workers, 0 means one per CPU
	Seed     int64 // Base seed, 0 picks one from the clock
	Progress bool  // Draw a progress bar while rendering

	// ProgressOutput receives the progress bar, os.Stderr when nil
	ProgressOutput io.Writer
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		Width:   960,
		Height:  540,
		Samples: 100,
		Bounces: 2,
		Workers: runtime.NumCPU(),
	}
}

// Validate checks that every size is positive
func (c Config) Validate() error {
	switch {
	case c.Width <= 0:
		return fmt.Errorf("%w: width must be positive, got %d", ErrInvalidConfig, c.Width)
	case c.Height <= 0:
		return fmt.Errorf("%w: height must be positive, got %d", ErrInvalidConfig, c.Height)
	case c.Samples <= 0:
		return fmt.Errorf("%w: samples must be positive, got %d", ErrInvalidConfig, c.Samples)
	case c.Bounces <= 0:
		return fmt.Errorf("%w: bounces must be positive, got %d", ErrInvalidConfig, c.Bounces)
	case c.Workers < 0:
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidConfig, c.Workers)
	}
	return nil
}

// RenderPass is a progressive snapshot: the average of the first CurrentPass
// merged passes, normalized and gamma corrected
type RenderPass struct {
	Canvas      *Canvas
	CurrentPass int // 1-based number of passes merged so far
	TotalPasses int
}

// IsLast reports whether this snapshot holds every pass
func (p RenderPass) IsLast() bool {
	return p.CurrentPass == p.TotalPasses
}

// Renderer runs passes in parallel and averages them into one image
type Renderer struct {
	world  geometry.Shape
	camera *Camera
	config Config

	mu     sync.Mutex
	passes chan RenderPass
	stats  RenderStats
}

// New creates a renderer. The world and camera are shared read-only by the workers.
func New(world geometry.Shape, camera *Camera, config Config) *Renderer {
	return &Renderer{
		world:  world,
		camera: camera,
		config: config,
	}
}

// Config returns the render configuration
func (r *Renderer) Config() Config {
	return r.config
}

// Passes registers a progress consumer for the next Render and returns its
// channel. Each merged pass produces one snapshot; the channel is closed when
// the render ends. Consumers must keep reading, a stalled consumer stalls the render.
func (r *Renderer) Passes() <-chan RenderPass {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.passes == nil {
		r.passes = make(chan RenderPass, 1)
	}
	return r.passes
}

// Stats returns the statistics of the last finished render
func (r *Renderer) Stats() RenderStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

// Render traces Samples passes and returns their normalized, gamma corrected
// average. Cancelling ctx abandons the render and returns ErrInterrupted;
// passes already being traced finish in the background and are discarded.
func (r *Renderer) Render(ctx context.Context) (*Canvas, error) {
	r.mu.Lock()
	sink := r.passes
	r.passes = nil
	r.mu.Unlock()

	if err := r.validate(); err != nil {
		if sink != nil {
			close(sink)
		}
		return nil, err
	}

	seed := r.config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	stats := RenderStats{
		Width:       r.config.Width,
		Height:      r.config.Height,
		Bounces:     r.config.Bounces,
		TotalPasses: r.config.Samples,
		Seed:        seed,
	}
	if tree, ok := r.world.(interface {
		Count() int
		Depth() int
	}); ok {
		stats.Primitives = tree.Count()
		stats.TreeDepth = tree.Depth()
	}

	startTime := time.Now()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var tracker *ProgressTracker
	var onDone func()
	if r.config.Progress {
		out := r.config.ProgressOutput
		if out == nil {
			out = os.Stderr
		}
		tracker = NewProgressTracker(r.config.Samples, out)
		tracker.Start()
		onDone = tracker.Signal
	}

	raytracer := NewRaytracer(r.world, r.camera, r.config.Width, r.config.Height, r.config.Bounces)
	pool := NewWorkerPool(func(task SampleTask) *Canvas {
		return raytracer.RenderPass(rand.New(rand.NewSource(task.Seed)))
	}, r.config.Workers, onDone)
	pool.Start(ctx)
	stats.Workers = pool.GetNumWorkers()

	logger.Infof("Rendering %dx%d, %d passes, %d bounces on %d workers (seed %d)",
		stats.Width, stats.Height, stats.TotalPasses, stats.Bounces, stats.Workers, seed)

	// Dispatcher: one task per sample, then shut the pool down
	dispatched := make(chan struct{})
	go func() {
		defer close(dispatched)
		for i := 0; i < r.config.Samples; i++ {
			task := SampleTask{Index: i, Seed: seed + int64(i)}
			if err := pool.SubmitTask(ctx, task); err != nil {
				logger.Debugf("Dispatch stopped before pass %d: %v", i, err)
				break
			}
			logger.Debugf("Dispatched pass %d", i)
		}
		pool.Stop()
		if tracker != nil {
			tracker.Stop()
		}
	}()

	total, lost, err := r.aggregate(ctx, pool.Results(), sink)
	if err == nil {
		// Results closed, so the pool is stopped; let the tracker draw its last frame
		<-dispatched
	} else if tracker != nil {
		// Workers may still be finishing; the bar must be quiet once Render returns
		tracker.Stop()
	}

	stats.LostPasses = lost
	stats.Duration = time.Since(startTime)
	if total != nil {
		stats.CompletedPasses = total.Layers()
	}

	if err != nil {
		r.setStats(stats)
		logger.Warningf("Render interrupted after %d of %d passes", stats.CompletedPasses, stats.TotalPasses)
		return nil, err
	}
	if total.Layers() == 0 {
		r.setStats(stats)
		return nil, ErrNoPasses
	}

	total.Normalize()
	total.GammaCorrection()

	stats.AverageLuminance = total.AverageLuminance()
	r.setStats(stats)

	logger.Infof("Render finished in %v: %d passes merged, %d lost",
		stats.Duration.Round(time.Millisecond), stats.CompletedPasses, stats.LostPasses)

	return total, nil
}

func (r *Renderer) validate() error {
	if err := r.config.Validate(); err != nil {
		return err
	}
	if r.world == nil {
		return ErrNoWorld
	}
	if r.camera == nil {
		return ErrNoCamera
	}
	return nil
}

func (r *Renderer) setStats(stats RenderStats) {
	r.mu.Lock()
	r.stats = stats
	r.mu.Unlock()
}

// aggregate is the only writer of the running total. It merges passes as they
// arrive and, when a sink is present, publishes an averaged snapshot after each.
// It closes sink before returning.
func (r *Renderer) aggregate(ctx context.Context, results <-chan SampleResult, sink chan<- RenderPass) (*Canvas, int, error) {
	if sink != nil {
		defer close(sink)
	}

	total := NewCanvas(r.config.Height, r.config.Width)
	lost := 0

	for {
		if err := ctx.Err(); err != nil {
			return total, lost, fmt.Errorf("%w: %w", ErrInterrupted, err)
		}

		var result SampleResult
		var ok bool
		select {
		case result, ok = <-results:
		case <-ctx.Done():
			continue
		}
		if !ok {
			return total, lost, nil
		}

		if result.Error != nil {
			lost++
			logger.Warningf("Lost pass %d: %v", result.Index, result.Error)
			continue
		}

		if err := total.Add(result.Canvas); err != nil {
			lost++
			logger.Warningf("Lost pass %d: %v", result.Index, err)
			continue
		}
		logger.Debugf("Merged pass %d (%d/%d)", result.Index, total.Layers(), r.config.Samples)

		if sink == nil {
			continue
		}

		snapshot := total.Clone()
		snapshot.Normalize()
		snapshot.GammaCorrection()

		select {
		case sink <- RenderPass{Canvas: snapshot, CurrentPass: total.Layers(), TotalPasses: r.config.Samples}:
		case <-ctx.Done():
		}
	}
}
