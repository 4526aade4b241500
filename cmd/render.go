package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"time"

	"github.com/df07/go-pathtracer/pkg/config"
	"github.com/df07/go-pathtracer/pkg/export"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// snapshotWidth caps the width of the preview images written per pass
const snapshotWidth = 320

// Render a still frame.
func RenderFrame(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	cfg, err := config.Load(ctx.GlobalString("env-dir"))
	if err != nil {
		return err
	}

	opts := cfg.Render
	if ctx.IsSet("seed") {
		opts.Seed = ctx.Int64("seed")
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}

	// The scene is built with its own generator so that the BVH shape is
	// reproducible for a given seed
	scenes, err := scene.Discover(ctx.GlobalString("scenes-dir"))
	if err != nil {
		return err
	}
	sc, err := scene.Open(ctx.String("scene"), scenes, rand.New(rand.NewSource(opts.Seed)))
	if err != nil {
		return err
	}

	opts = sc.Render.Apply(opts)
	opts = applyFlags(ctx, opts)
	if err := opts.Validate(); err != nil {
		return err
	}

	out := ctx.String("out")
	if out == "" {
		out = cfg.Output
	}
	if _, err := export.FormatFromPath(out); err != nil {
		return err
	}

	logger.Noticef("rendering scene %s at %dx%d, %d samples, %d bounces",
		sc.Name, opts.Width, opts.Height, opts.Samples, opts.Bounces)

	r := renderer.New(sc.World, sc.CameraFor(opts.Width, opts.Height), opts)

	var wg sync.WaitGroup
	if dir := ctx.String("snapshots"); dir != "" {
		passes := r.Passes()
		wg.Add(1)
		go func() {
			defer wg.Done()
			saveSnapshots(dir, passes)
		}()
	}

	renderCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	canvas, err := r.Render(renderCtx)
	wg.Wait()
	if err != nil {
		if errors.Is(err, renderer.ErrInterrupted) {
			logger.Warning("render interrupted, no image written")
		}
		return err
	}

	img := canvas.ToImage()
	if err := export.Save(out, img); err != nil {
		return err
	}
	logger.Noticef("render saved as %s", out)

	if key := ctx.String("upload"); key != "" {
		if !cfg.UploadEnabled() {
			return fmt.Errorf("cannot upload %s: %w", key, export.ErrNoBucket)
		}
		sink, err := export.NewS3Sink(cfg.S3)
		if err != nil {
			return err
		}
		if err := sink.Upload(context.Background(), key, img); err != nil {
			return err
		}
	}

	displayRenderStats(r.Stats())
	return nil
}

// applyFlags overrides opts with the flags given on the command line
func applyFlags(ctx *cli.Context, opts renderer.Config) renderer.Config {
	ints := []struct {
		name   string
		target *int
	}{
		{"width", &opts.Width},
		{"height", &opts.Height},
		{"samples", &opts.Samples},
		{"bounces", &opts.Bounces},
		{"workers", &opts.Workers},
	}
	for _, flag := range ints {
		if ctx.IsSet(flag.name) {
			*flag.target = ctx.Int(flag.name)
		}
	}
	if ctx.Bool("progress") {
		opts.Progress = true
	}
	return opts
}

// saveSnapshots writes a downscaled preview of every progressive pass to dir
func saveSnapshots(dir string, passes <-chan renderer.RenderPass) {
	for pass := range passes {
		path := filepath.Join(dir, fmt.Sprintf("pass_%04d.png", pass.CurrentPass))
		thumb := export.Thumbnail(pass.Canvas.ToImage(), snapshotWidth)
		if err := export.Save(path, thumb); err != nil {
			// Keep draining so the render is never blocked on us
			logger.Warningf("failed to save snapshot %s: %v", path, err)
		}
	}
}

func displayRenderStats(stats renderer.RenderStats) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Statistic", "Value"})
	table.AppendBulk([][]string{
		{"Resolution", fmt.Sprintf("%dx%d", stats.Width, stats.Height)},
		{"Passes", fmt.Sprintf("%d / %d", stats.CompletedPasses, stats.TotalPasses)},
		{"Lost passes", fmt.Sprintf("%d", stats.LostPasses)},
		{"Bounces", fmt.Sprintf("%d", stats.Bounces)},
		{"Workers", fmt.Sprintf("%d", stats.Workers)},
		{"Primitives", fmt.Sprintf("%d", stats.Primitives)},
		{"BVH depth", fmt.Sprintf("%d", stats.TreeDepth)},
		{"Seed", fmt.Sprintf("%d", stats.Seed)},
		{"Rays / second", fmt.Sprintf("%.0f", stats.RaysPerSecond())},
		{"Average luminance", fmt.Sprintf("%.4f", stats.AverageLuminance)},
	})
	table.SetFooter([]string{"TOTAL", stats.Duration.Round(time.Millisecond).String()})

	table.Render()
	logger.Noticef("render statistics\n%s", buf.String())
}
