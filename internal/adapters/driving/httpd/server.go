package httpd

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/custodia-labs/calbridge/internal/core/domain"
	"github.com/custodia-labs/calbridge/internal/core/ports/driving"
	"github.com/custodia-labs/calbridge/internal/logger"
)

// DefaultListenAddr binds to the loopback interface only; the API carries a
// bearer-token-backed session and is not meant to be reachable off-host.
const DefaultListenAddr = "127.0.0.1:8765"

// Server is the localhost JSON API for the agent.
type Server struct {
	sync      driving.SyncService
	auth      driving.AuthService
	assistant driving.AssistantService
	hub       *Hub
	httpServ  *http.Server
}

// NewServer creates an API server. assistant may be nil when no LLM is
// configured; the summarise endpoint then reports it unavailable.
func NewServer(syncSvc driving.SyncService, authSvc driving.AuthService, assistantSvc driving.AssistantService, hub *Hub) *Server {
	return &Server{
		sync:      syncSvc,
		auth:      authSvc,
		assistant: assistantSvc,
		hub:       hub,
	}
}

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/events/sync", s.handleSync).Methods(http.MethodPost)
	r.HandleFunc("/api/account/switch", s.handleAccountSwitch).Methods(http.MethodPost)
	r.HandleFunc("/api/assistant/summarise", s.handleSummarise).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/status", s.handleAuthStatus).Methods(http.MethodGet)
	r.HandleFunc("/api/results/ws", s.hub.HandleWebSocket).Methods(http.MethodGet)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	return r
}

// ListenAndServe serves the API until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultListenAddr
	}

	s.httpServ = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServ.ListenAndServe()
	}()

	logger.Info("api: listening on %s", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.hub.Close()
		return s.httpServ.Shutdown(shutdownCtx)
	}
}

// handleSync accepts one sync request. A missing card id gets a minted one
// so the caller can still correlate the broadcast result.
func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	var req domain.SyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	if req.CardID == "" {
		req.CardID = uuid.New().String()
	}

	if err := s.sync.Submit(r.Context(), req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"cardId": req.CardID})
}

// switchRequest optionally carries a sync request to submit right after the
// credential reset, so switching accounts and rescheduling is one round trip.
type switchRequest struct {
	Resubmit *domain.SyncRequest `json:"resubmit,omitempty"`
}

func (s *Server) handleAccountSwitch(w http.ResponseWriter, r *http.Request) {
	if err := s.auth.SwitchAccount(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var req switchRequest
	// An empty or absent body is fine; the switch is already done.
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil && req.Resubmit != nil {
		resubmit := *req.Resubmit
		if resubmit.CardID == "" {
			resubmit.CardID = uuid.New().String()
		}
		if err := s.sync.Submit(r.Context(), resubmit); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]string{"cardId": resubmit.CardID})
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// summariseRequest carries the raw mail body.
type summariseRequest struct {
	Body string `json:"body"`
}

func (s *Server) handleSummarise(w http.ResponseWriter, r *http.Request) {
	if s.assistant == nil {
		writeError(w, http.StatusServiceUnavailable, "no language model configured")
		return
	}

	var req summariseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	summary, err := s.assistant.Summarise(r.Context(), req.Body)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "mail body is empty")
		case errors.Is(err, domain.ErrLLMUnavailable):
			writeError(w, http.StatusServiceUnavailable, "no language model configured")
		default:
			writeError(w, http.StatusBadGateway, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleAuthStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.auth.Status(r.Context()))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("api: writing response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
