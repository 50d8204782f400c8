// Package api is the thin HTTP transport around the conversation
// engine: turn and final-report endpoints for the scammer platform,
// plus unauthenticated liveness probes.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/snarelabs/decoy/internal/callback"
	"github.com/snarelabs/decoy/internal/engine"
	"github.com/snarelabs/decoy/internal/report"
	"github.com/snarelabs/decoy/internal/session"
)

type Server struct {
	router   *chi.Mux
	port     int
	engine   *engine.Engine
	callback *callback.Client
	logger   *slog.Logger
}

func NewServer(port int, apiKey string, allowedOrigins []string, eng *engine.Engine, cb *callback.Client, logger *slog.Logger) *Server {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(CORS(allowedOrigins))

	s := &Server{
		router:   router,
		port:     port,
		engine:   eng,
		callback: cb,
		logger:   logger,
	}

	// Liveness probes stay unauthenticated; the platform checks the
	// endpoint with GET/HEAD before sending traffic.
	router.Get("/", s.live)
	router.Head("/", s.live)
	router.Get("/api/honeypot", s.live)
	router.Head("/api/honeypot", s.live)
	router.Get("/health", s.health)
	router.Get("/api/v1/decoy/status", s.status)

	router.Group(func(r chi.Router) {
		r.Use(APIKeyAuth(apiKey))
		r.Post("/", s.handleTurn)
		r.Post("/api/honeypot", s.handleTurn)
		r.Post("/api/honeypot/final", s.handleFinal)
	})

	return s
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("API server starting", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}

type turnResponse struct {
	Status                string              `json:"status"`
	Reply                 string              `json:"reply"`
	SessionID             string              `json:"sessionId"`
	ScamDetected          bool                `json:"scamDetected"`
	ExtractedIntelligence report.Intelligence `json:"extractedIntelligence"`
}

func (s *Server) handleTurn(w http.ResponseWriter, r *http.Request) {
	var req turnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// A malformed body still gets a decoy turn: treat it as an
		// empty message rather than tipping off the sender.
		req = turnRequest{}
	}

	sessionID := req.sessionID()
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	turn, err := s.engine.Process(r.Context(), sessionID, req.Message.Text)
	if err != nil {
		s.logger.Error("turn failed", "session_id", sessionID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"status":  "error",
			"message": "internal error",
		})
		return
	}

	writeJSON(w, http.StatusOK, turnResponse{
		Status:                "success",
		Reply:                 turn.Reply,
		SessionID:             turn.SessionID,
		ScamDetected:          turn.ScamDetected,
		ExtractedIntelligence: report.IntelligenceFrom(turn.Intel),
	})
}

func (s *Server) handleFinal(w http.ResponseWriter, r *http.Request) {
	var req finalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"status":  "error",
			"message": "invalid JSON body",
		})
		return
	}

	sessionID := req.sessionID()
	if sessionID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"status":  "error",
			"message": "sessionId is required",
		})
		return
	}

	final, err := s.engine.FinalReport(r.Context(), sessionID)
	if errors.Is(err, session.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"status":  "error",
			"message": "session not found",
		})
		return
	}
	if err != nil {
		s.logger.Error("final report failed", "session_id", sessionID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"status":  "error",
			"message": "internal error",
		})
		return
	}

	s.callback.Send(r.Context(), final)

	writeJSON(w, http.StatusOK, final)
}

func (s *Server) live(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "decoy is live",
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"agent":  "decoy",
		"status": "active",
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
