package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aurelhart/lorecast/pkg/scoring"
)

// Server provides the HTTP API around the scoring engine.
type Server struct {
	engine *scoring.Engine
	port   int
}

// New creates a new HTTP server.
func New(engine *scoring.Engine, port int) *Server {
	if port == 0 {
		port = 8080
	}
	return &Server{engine: engine, port: port}
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/api/v1/score", s.handleScore)
	mux.HandleFunc("/api/v1/methods", s.handleMethods)
	return mux
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	addr := fmt.Sprintf(":%d", s.port)
	fmt.Printf("lorecast server listening on %s\n", addr)
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// scoreRequest is the POST /api/v1/score payload.
type scoreRequest struct {
	Text         string `json:"text"`
	LocationHint string `json:"location_hint,omitempty"`
	ListenerID   string `json:"listener_id,omitempty"`
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json: " + err.Error()})
		return
	}

	item := scoring.ContentItem{Text: req.Text, LocationHint: req.LocationHint}
	scored := s.engine.ScoreFor(r.Context(), item, req.ListenerID)

	writeJSON(w, http.StatusOK, scored)
}

func (s *Server) handleMethods(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	lib := s.engine.PatternLibrary()
	cfg := s.engine.Config()

	type categoryInfo struct {
		Name    string  `json:"name"`
		Weight  float64 `json:"weight"`
		Phrases int     `json:"phrases"`
	}
	type methodInfo struct {
		Method                 scoring.Method `json:"method"`
		Weight                 float64        `json:"weight"`
		Multiplier             float64        `json:"multiplier"`
		QualificationThreshold float64        `json:"qualification_threshold"`
		Categories             []categoryInfo `json:"categories"`
	}

	var methods []methodInfo
	for _, m := range scoring.Methods() {
		mc := cfg.Methods[m]
		info := methodInfo{
			Method:                 m,
			Weight:                 mc.Weight,
			Multiplier:             mc.Multiplier,
			QualificationThreshold: mc.QualificationThreshold,
		}
		for _, c := range lib.Categories[m] {
			info.Categories = append(info.Categories, categoryInfo{
				Name:    c.Name,
				Weight:  c.Weight,
				Phrases: len(c.Phrases),
			})
		}
		methods = append(methods, info)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"library_version": lib.Version,
		"global_scale":    cfg.GlobalScale,
		"thresholds":      cfg.Thresholds,
		"methods":         methods,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
