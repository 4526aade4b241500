package cmd

import (
	"github.com/df07/go-pathtracer/pkg/log"
	"github.com/urfave/cli"
)

var logger = log.New("cli")

// setupLogging applies --log-level; -v and -vv raise it to info and debug.
func setupLogging(ctx *cli.Context) error {
	level := log.Notice
	if name := ctx.GlobalString("log-level"); name != "" {
		parsed, err := log.ParseLevel(name)
		if err != nil {
			return err
		}
		level = parsed
	}

	switch {
	case ctx.GlobalBool("vv"):
		level = log.Debug
	case ctx.GlobalBool("v"):
		level = log.Info
	}

	log.SetLevel(level)
	logger.Debugf("Log level %s", level)
	return nil
}
