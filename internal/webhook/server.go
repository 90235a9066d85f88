// internal/webhook/server.go
package webhook

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/user/calltriage/internal/intake"
	"github.com/user/calltriage/internal/types"
	"github.com/user/calltriage/internal/vapi"
)

// Server is a lightweight HTTP handler for the webhook and polling API.
type Server struct {
	pipeline     *intake.Pipeline
	calls        types.CallStore
	appointments types.AppointmentStore
	mux          *http.ServeMux
	handler      http.Handler
}

// NewServer creates a new Server wired to the given pipeline and stores.
func NewServer(pipeline *intake.Pipeline, calls types.CallStore, appointments types.AppointmentStore) *Server {
	s := &Server{
		pipeline:     pipeline,
		calls:        calls,
		appointments: appointments,
		mux:          http.NewServeMux(),
	}
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("POST /webhook/vapi", s.handleVapiWebhook)
	s.mux.HandleFunc("GET /api/calls", s.handleListCalls)
	s.mux.HandleFunc("GET /api/appointments", s.handleListAppointments)
	s.mux.HandleFunc("POST /api/appointments", s.handleCreateAppointment)
	s.mux.HandleFunc("POST /api/calls/{call_id}/callback", s.handleMarkCallback)
	s.handler = withCORS(withRequestLog(s.mux))
	return s
}

// ServeHTTP delegates through the middleware chain, implementing http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// handleVapiWebhook drives the intake pipeline. Malformed bodies are
// absorbed: an undecodable payload carries no recognized event type, so the
// pipeline skips it. Nothing on this path surfaces an error to the caller.
func (s *Server) handleVapiWebhook(w http.ResponseWriter, r *http.Request) {
	var payload vapi.Payload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		slog.Warn("undecodable webhook payload", "error", err)
	}

	result := s.pipeline.Handle(r.Context(), &payload)
	writeJSON(w, map[string]string{"status": result.Status})
}

func (s *Server) handleListCalls(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.calls.List())
}

func (s *Server) handleListAppointments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.appointments.List())
}

func (s *Server) handleCreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req types.AppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid JSON"}`, http.StatusBadRequest)
		return
	}

	rec, err := s.appointments.Create(&req)
	if err != nil {
		http.Error(w, `{"error":"phone, date and time are required"}`, http.StatusBadRequest)
		return
	}

	writeJSON(w, map[string]any{
		"status":      "success",
		"appointment": rec,
	})
}

// handleMarkCallback flips called_back on the addressed record. A missing
// record is a silent no-op; the response is 200 either way.
func (s *Server) handleMarkCallback(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("call_id")
	if !s.calls.MarkCalledBack(id) {
		slog.Debug("callback update for unknown call", "id", id)
	}
	writeJSON(w, map[string]string{"status": "updated"})
}
