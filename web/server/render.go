package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/df07/go-pathtracer/pkg/export"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string `json:"type"` // "console", "pass", "error", "complete"
	Data string `json:"data"` // JSON-encoded data
}

// PassUpdate is streamed once per merged pass
type PassUpdate struct {
	PassNumber  int    `json:"passNumber"`
	TotalPasses int    `json:"totalPasses"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageData   string `json:"imageData"` // Base64 encoded PNG
	IsComplete  bool   `json:"isComplete"`
	ElapsedMs   int64  `json:"elapsedMs"`
}

// CompleteUpdate is the final event of a successful render
type CompleteUpdate struct {
	CompletedPasses  int     `json:"completedPasses"`
	LostPasses       int     `json:"lostPasses"`
	Primitives       int     `json:"primitives"`
	TreeDepth        int     `json:"treeDepth"`
	Seed             int64   `json:"seed"`
	DurationMs       int64   `json:"durationMs"`
	RaysPerSecond    float64 `json:"raysPerSecond"`
	AverageLuminance float64 `json:"averageLuminance"`
}

// handleRender streams one SSE event per render pass. The render stops when
// the client disconnects.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	// Set SSE headers
	s.setSSEHeaders(w)

	ctx := r.Context()

	// Create unified SSE event channel for thread-safe writing
	sseEventChan := make(chan SSEEvent, 100)
	writerDone := make(chan struct{})

	// Start single SSE writer goroutine
	go func() {
		defer close(writerDone)
		s.writeSSEEvents(ctx, w, sseEventChan)
	}()
	defer func() {
		close(sseEventChan)
		<-writerDone
	}()

	// Parse and validate request
	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	// Setup console logging and streaming
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	consoleChan := make(chan ConsoleMessage, 50)
	console := NewWebLogger(renderID, consoleChan)
	var consoleWG sync.WaitGroup
	consoleWG.Add(1)
	go func() {
		defer consoleWG.Done()
		s.streamConsoleMessages(ctx, consoleChan, sseEventChan)
	}()
	defer func() {
		close(consoleChan)
		consoleWG.Wait()
	}()

	rt, err := s.setupRenderer(req, console)
	if err != nil {
		s.handleError(ctx, sseEventChan, err.Error())
		return
	}

	// Consume progressive passes while the render runs
	startTime := time.Now()
	passes := rt.Passes()
	var passWG sync.WaitGroup
	passWG.Add(1)
	go func() {
		defer passWG.Done()
		for pass := range passes {
			s.handlePass(ctx, sseEventChan, pass, req, startTime)
		}
	}()

	_, err = rt.Render(ctx)
	passWG.Wait()

	if err != nil {
		if errors.Is(err, renderer.ErrInterrupted) {
			logger.Infof("[%s] client disconnected, render cancelled", renderID)
			return
		}
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Rendering failed: %v", err))
		return
	}

	stats := rt.Stats()
	if stats.LostPasses > 0 {
		console.Warningf("%d of %d passes were lost", stats.LostPasses, stats.TotalPasses)
	}
	console.Infof("Rendered %d passes in %v", stats.CompletedPasses, stats.Duration.Round(time.Millisecond))

	complete := CompleteUpdate{
		CompletedPasses:  stats.CompletedPasses,
		LostPasses:       stats.LostPasses,
		Primitives:       stats.Primitives,
		TreeDepth:        stats.TreeDepth,
		Seed:             stats.Seed,
		DurationMs:       stats.Duration.Milliseconds(),
		RaysPerSecond:    stats.RaysPerSecond(),
		AverageLuminance: stats.AverageLuminance,
	}
	data, err := json.Marshal(complete)
	if err != nil {
		logger.Errorf("Error marshaling completion: %v", err)
		return
	}

	// Send completion event
	select {
	case sseEventChan <- SSEEvent{Type: "complete", Data: string(data)}:
	case <-ctx.Done():
	}
}

// setupRenderer builds the scene and a renderer configured from the scene
// suggestions overridden by the request
func (s *Server) setupRenderer(req *RenderRequest, console *WebLogger) (*renderer.Renderer, error) {
	seed := req.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	sc, err := s.createScene(req.Scene, rand.New(rand.NewSource(seed)))
	if err != nil {
		return nil, err
	}

	config := sc.Render.Apply(renderer.DefaultConfig())
	config.Seed = seed
	if req.Width > 0 {
		config.Width = req.Width
	}
	if req.Height > 0 {
		config.Height = req.Height
	}
	if req.Samples > 0 {
		config.Samples = req.Samples
	}
	if req.Bounces > 0 {
		config.Bounces = req.Bounces
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Report back what is actually rendered
	req.Width, req.Height, req.Samples, req.Bounces = config.Width, config.Height, config.Samples, config.Bounces

	console.Infof("Rendering %s: %d primitives, %dx%d, %d samples, %d bounces",
		sc.Name, sc.GetPrimitiveCount(), config.Width, config.Height, config.Samples, config.Bounces)

	return renderer.New(sc.World, sc.CameraFor(config.Width, config.Height), config), nil
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// writeSSEEvents writes all SSE events from a single goroutine. It drains
// the channel until it is closed so that senders never block on a dead client.
func (s *Server) writeSSEEvents(ctx context.Context, w http.ResponseWriter, sseEventChan <-chan SSEEvent) {
	failed := false
	for event := range sseEventChan {
		if failed || ctx.Err() != nil {
			continue
		}

		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
			// Client disconnected during write
			failed = true
			continue
		}
		if flusher, ok := w.(http.Flusher); ok {
			flusher.Flush()
		}
	}
}

// streamConsoleMessages forwards console messages as SSE events until consoleChan is closed
func (s *Server) streamConsoleMessages(ctx context.Context, consoleChan <-chan ConsoleMessage, sseEventChan chan<- SSEEvent) {
	for consoleMsg := range consoleChan {
		data, err := json.Marshal(consoleMsg)
		if err != nil {
			logger.Errorf("Error marshaling console message: %v", err)
			continue
		}

		select {
		case sseEventChan <- SSEEvent{Type: "console", Data: string(data)}:
		case <-ctx.Done():
		}
	}
}

// handlePass encodes a pass snapshot and queues it for the client
func (s *Server) handlePass(ctx context.Context, sseEventChan chan<- SSEEvent, pass renderer.RenderPass, req *RenderRequest, startTime time.Time) {
	// Check if client is still connected
	if ctx.Err() != nil {
		return
	}

	imageData, err := export.EncodePNGBase64(export.Thumbnail(pass.Canvas.ToImage(), req.Preview))
	if err != nil {
		logger.Errorf("Error encoding pass %d: %v", pass.CurrentPass, err)
		return
	}

	update := PassUpdate{
		PassNumber:  pass.CurrentPass,
		TotalPasses: pass.TotalPasses,
		Width:       req.Width,
		Height:      req.Height,
		ImageData:   imageData,
		IsComplete:  pass.IsLast(),
		ElapsedMs:   time.Since(startTime).Milliseconds(),
	}

	data, err := json.Marshal(update)
	if err != nil {
		logger.Errorf("Error marshaling pass update: %v", err)
		return
	}

	select {
	case sseEventChan <- SSEEvent{Type: "pass", Data: string(data)}:
	case <-ctx.Done():
	}
}

// handleError sends an error event to the SSE channel
func (s *Server) handleError(ctx context.Context, sseEventChan chan<- SSEEvent, message string) {
	logger.Warning(message)
	select {
	case sseEventChan <- SSEEvent{Type: "error", Data: message}:
	case <-ctx.Done():
		// Client disconnected, don't block
	}
}
