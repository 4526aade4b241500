package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/df07/go-pathtracer/pkg/scene"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// ListScenes prints the built-in scenes and the scene files found in the scenes directory.
func ListScenes(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	scenes, err := scene.Discover(ctx.GlobalString("scenes-dir"))
	if err != nil {
		return err
	}

	return writeSceneTable(os.Stdout, scenes)
}

func writeSceneTable(w io.Writer, scenes []scene.SceneInfo) error {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Scene", "Name", "Group", "Description"})
	for _, info := range scene.GroupScenes(scenes).Groups {
		for _, s := range info.Scenes {
			ref := s.ID
			if s.Type == scene.TypeYAML {
				ref = s.FilePath
			}
			table.Append([]string{ref, s.DisplayName, info.Name, s.Description})
		}
	}
	table.SetFooter([]string{"", "", "TOTAL", fmt.Sprintf("%d", len(scenes))})
	table.Render()

	_, err := buf.WriteTo(w)
	return err
}
