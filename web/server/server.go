package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"

	"github.com/df07/go-pathtracer/pkg/log"
	"github.com/df07/go-pathtracer/pkg/scene"
)

var logger = log.New("web")

var (
	errUnknownScene     = errors.New("unknown scene")
	errSceneUnavailable = errors.New("scene could not be loaded")
)

// Server handles web requests for the progressive path tracer
type Server struct {
	port      int
	scenesDir string
}

// NewServer creates a new web server serving scene files from scenesDir
func NewServer(port int, scenesDir string) *Server {
	return &Server{port: port, scenesDir: scenesDir}
}

// RenderRequest represents a render request from the client. Zero values
// fall back to the scene's suggested settings.
type RenderRequest struct {
	Scene   string `json:"scene"`   // Built-in scene name or discovered scene id
	Width   int    `json:"width"`   // Image width
	Height  int    `json:"height"`  // Image height
	Samples int    `json:"samples"` // Passes averaged into the final image
	Bounces int    `json:"bounces"` // Maximum scatter events per camera ray
	Preview int    `json:"preview"` // Maximum width of streamed previews, 0 for full size
	Seed    int64  `json:"seed"`    // Base seed, 0 picks one from the clock
}

// Handler returns the routes served by the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Serve static files
	mux.Handle("/", http.FileServer(http.Dir("static/")))

	// API endpoints
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/inspect", s.handleInspect)

	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	logger.Noticef("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the available scenes grouped for display
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	scenes, err := scene.Discover(s.scenesDir)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, scene.GroupScenes(scenes))
}

// parseSceneParams parses the parameters shared by rendering and inspection
func (s *Server) parseSceneParams(values url.Values, req *RenderRequest) error {
	req.Scene = values.Get("scene")
	if req.Scene == "" {
		req.Scene = "default"
	}

	var err error
	if req.Width, err = parseIntParam(values, "width", 0, 1, 2000); err != nil {
		return err
	}
	if req.Height, err = parseIntParam(values, "height", 0, 1, 2000); err != nil {
		return err
	}
	return nil
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	values := r.URL.Query()
	req := &RenderRequest{}

	if err := s.parseSceneParams(values, req); err != nil {
		return nil, err
	}

	var err error
	if req.Samples, err = parseIntParam(values, "samples", 0, 1, 10000); err != nil {
		return nil, err
	}
	if req.Bounces, err = parseIntParam(values, "bounces", 0, 1, 1000); err != nil {
		return nil, err
	}
	if req.Preview, err = parseIntParam(values, "preview", 0, 16, 2000); err != nil {
		return nil, err
	}
	if seed := values.Get("seed"); seed != "" {
		if req.Seed, err = strconv.ParseInt(seed, 10, 64); err != nil {
			return nil, fmt.Errorf("invalid seed: %s", seed)
		}
	}

	// Performance warning
	if req.Width*req.Height > 800*600 && req.Samples > 100 {
		logger.Warning("Render warning: Large image with high samples may render slowly")
	}

	return req, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// createScene opens a built-in scene or a scene discovered in the scenes
// directory. Failures are logged and reported to clients without detail.
func (s *Server) createScene(ref string, random *rand.Rand) (*scene.Scene, error) {
	scenes, err := scene.Discover(s.scenesDir)
	if err != nil {
		logger.Errorf("Failed to discover scenes: %v", err)
		return nil, errSceneUnavailable
	}

	sc, err := scene.Resolve(ref, scenes, random)
	if errors.Is(err, scene.ErrUnknownScene) {
		return nil, errUnknownScene
	}
	if err != nil {
		logger.Errorf("Failed to load scene %q: %v", ref, err)
		return nil, errSceneUnavailable
	}
	return sc, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warningf("Error encoding response: %v", err)
	}
}
