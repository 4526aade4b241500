package main

import (
	"flag"
	"os"

	"github.com/df07/go-pathtracer/pkg/log"
	"github.com/df07/go-pathtracer/web/server"
)

var logger = log.New("web")

func main() {
	// Parse command line flags
	port := flag.Int("port", 8080, "Port to serve on")
	scenesDir := flag.String("scenes", "scenes", "Directory searched for YAML scene files")
	verbose := flag.Bool("v", false, "Enable verbose logging")
	logLevel := flag.String("log-level", "notice", "debug, info, notice, warning or error")
	flag.Parse()

	level, err := log.ParseLevel(*logLevel)
	if err != nil {
		logger.Error(err)
		os.Exit(2)
	}
	if *verbose {
		level = log.Info
	}
	log.SetLevel(level)

	// Create and start web server
	webServer := server.NewServer(*port, *scenesDir)

	logger.Notice("Progressive Path Tracer Web Server")
	logger.Noticef("Visit http://localhost:%d to start rendering", *port)

	if err := webServer.Start(); err != nil {
		logger.Errorf("Error starting server: %v", err)
		os.Exit(1)
	}
}
