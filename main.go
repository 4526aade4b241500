package main

import (
	"fmt"
	"os"

	"github.com/df07/go-pathtracer/cmd"
	"github.com/urfave/cli"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "pathtracer"
	app.Usage = "render sphere scenes using progressive Monte Carlo path tracing"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "debug, info, notice, warning or error",
		},
		cli.StringFlag{
			Name:  "scenes-dir",
			Value: "scenes",
			Usage: "directory searched for YAML scene files",
		},
		cli.StringFlag{
			Name:  "env-dir",
			Value: ".",
			Usage: "directory holding an optional .env file",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a scene to an image file",
			Description: `
Trace --samples independent passes over the scene and average them into the
final image. Image settings come from the environment (PATHTRACER_*), then the
scene's own render section, then the flags below.

The output format follows the file extension: .ppm, .png, .bmp or .tiff.`,
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "scene, s",
					Value: "default",
					Usage: "built-in scene name, scene id or path to a YAML scene file",
				},
				cli.IntFlag{
					Name:  "width",
					Usage: "frame width",
				},
				cli.IntFlag{
					Name:  "height",
					Usage: "frame height",
				},
				cli.IntFlag{
					Name:  "samples, spp",
					Usage: "samples per pixel, one render pass each",
				},
				cli.IntFlag{
					Name:  "bounces",
					Usage: "maximum scatter events per camera ray",
				},
				cli.IntFlag{
					Name:  "workers",
					Usage: "parallel workers, 0 for one per CPU",
				},
				cli.Int64Flag{
					Name:  "seed",
					Usage: "base random seed, 0 picks one from the clock",
				},
				cli.StringFlag{
					Name:  "out, o",
					Usage: "image filename for the rendered frame (default $PATHTRACER_OUTPUT or output/render.png)",
				},
				cli.BoolFlag{
					Name:  "progress",
					Usage: "draw a progress bar",
				},
				cli.StringFlag{
					Name:  "snapshots",
					Usage: "directory receiving a preview image of every pass",
				},
				cli.StringFlag{
					Name:  "upload",
					Usage: "also upload the image to the configured S3 bucket under this key",
				},
			},
			Action: cmd.RenderFrame,
		},
		{
			Name:   "scenes",
			Usage:  "list built-in scenes and scene files",
			Action: cmd.ListScenes,
		},
	}

	return app
}
