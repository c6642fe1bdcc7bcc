package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/acampora/minerva/internal/app/chat"
	"github.com/acampora/minerva/internal/app/session"
	"github.com/acampora/minerva/internal/domain"
)

// Server exposes the session hooks over HTTP: identify, list/start/select
// conversations, submit input. Each client gets one server-side session,
// addressed by an opaque token and discarded on DELETE.
type Server struct {
	svc *chat.Service

	mu       sync.Mutex
	sessions map[string]*clientSession
}

// clientSession serializes access to one session; the session itself is
// not safe for concurrent use.
type clientSession struct {
	mu   sync.Mutex
	sess *session.Session
}

func NewServer(svc *chat.Service) http.Handler {
	s := &Server{
		svc:      svc,
		sessions: make(map[string]*clientSession),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealthz)

	// /sessions               → POST: identify, creates a session
	// /sessions/{id}...       → session-scoped operations
	mux.HandleFunc("/sessions", s.handleSessions)
	mux.HandleFunc("/sessions/", s.handleSessionWithID)

	return chainMiddlewares(mux, withRequestID, withLogging, withCORS)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type identifyRequest struct {
	Email string `json:"email"`
}

type identifyResponse struct {
	SessionID      string         `json:"session_id"`
	UserID         string         `json:"user_id"`
	Greeting       string         `json:"greeting"`
	ConversationID string         `json:"conversation_id,omitempty"`
	Turns          []turnResponse `json:"turns,omitempty"`
}

type turnResponse struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Role           string    `json:"role"`
	Text           string    `json:"text"`
	CreatedAt      time.Time `json:"created_at"`
}

type conversationResponse struct {
	ID           string    `json:"id"`
	Label        string    `json:"label"`
	LastActivity time.Time `json:"last_activity"`
}

type submitRequest struct {
	Text string `json:"text"`
}

type submitResponse struct {
	UserTurn      turnResponse `json:"user_turn"`
	AssistantTurn turnResponse `json:"assistant_turn"`
}

type startConversationResponse struct {
	ConversationID string `json:"conversation_id"`
}

type selectConversationResponse struct {
	ConversationID string         `json:"conversation_id"`
	Turns          []turnResponse `json:"turns"`
}

// ─────────────────────────────────────────────
// Routing
// ─────────────────────────────────────────────

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleIdentify(w, r)
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleSessionWithID(w http.ResponseWriter, r *http.Request) {
	// expected paths:
	// /sessions/{id}
	// /sessions/{id}/turns
	// /sessions/{id}/messages
	// /sessions/{id}/conversations
	// /sessions/{id}/conversations/{convID}/select
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/sessions/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		http.NotFound(w, r)
		return
	}

	client, ok := s.lookup(parts[0])
	if !ok {
		http.NotFound(w, r)
		return
	}

	client.mu.Lock()
	defer client.mu.Unlock()

	switch {
	case len(parts) == 1 && r.Method == http.MethodDelete:
		s.handleDisconnect(w, parts[0])
	case len(parts) == 2 && parts[1] == "turns" && r.Method == http.MethodGet:
		s.handleTurns(w, client)
	case len(parts) == 2 && parts[1] == "messages" && r.Method == http.MethodPost:
		s.handleSubmit(w, r, client)
	case len(parts) == 2 && parts[1] == "conversations" && r.Method == http.MethodGet:
		s.handleListConversations(w, r, client)
	case len(parts) == 2 && parts[1] == "conversations" && r.Method == http.MethodPost:
		s.handleStartConversation(w, client)
	case len(parts) == 4 && parts[1] == "conversations" && parts[3] == "select" && r.Method == http.MethodPost:
		s.handleSelectConversation(w, r, client, parts[2])
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) lookup(token string) (*clientSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	client, ok := s.sessions[token]
	return client, ok
}

// ─────────────────────────────────────────────
// Concrete handlers
// ─────────────────────────────────────────────

func (s *Server) handleIdentify(w http.ResponseWriter, r *http.Request) {
	var req identifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	sess := s.svc.NewSession()
	userID, err := sess.Identify(r.Context(), req.Email)
	if err != nil {
		writeError(w, err)
		return
	}

	token := uuid.NewString()
	s.mu.Lock()
	s.sessions[token] = &clientSession{sess: sess}
	s.mu.Unlock()

	resp := identifyResponse{
		SessionID: token,
		UserID:    string(userID),
		Greeting:  chat.Greeting,
	}
	if sess.HasConversation() {
		resp.ConversationID = string(sess.ConversationID())
		resp.Turns = toTurnResponses(sess.History())
	}

	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleDisconnect(w http.ResponseWriter, token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTurns(w http.ResponseWriter, client *clientSession) {
	writeJSON(w, http.StatusOK, toTurnResponses(client.sess.History()))
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request, client *clientSession) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}

	out, err := s.svc.Submit(r.Context(), client.sess, req.Text)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, submitResponse{
		UserTurn:      toTurnResponse(out.UserTurn),
		AssistantTurn: toTurnResponse(out.AssistantTurn),
	})
}

func (s *Server) handleListConversations(w http.ResponseWriter, r *http.Request, client *clientSession) {
	convs, err := s.svc.ListConversations(r.Context(), client.sess)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]conversationResponse, 0, len(convs))
	for _, c := range convs {
		out = append(out, conversationResponse{
			ID:           string(c.ID),
			Label:        c.Label,
			LastActivity: c.LastActivity,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleStartConversation(w http.ResponseWriter, client *clientSession) {
	id, err := client.sess.StartNew()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, startConversationResponse{ConversationID: string(id)})
}

func (s *Server) handleSelectConversation(w http.ResponseWriter, r *http.Request, client *clientSession, convID string) {
	if err := client.sess.SelectExisting(r.Context(), domain.ConversationID(convID)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, selectConversationResponse{
		ConversationID: convID,
		Turns:          toTurnResponses(client.sess.History()),
	})
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

func toTurnResponse(t *domain.Turn) turnResponse {
	return turnResponse{
		ID:             string(t.ID),
		ConversationID: string(t.ConversationID),
		Role:           string(t.Role),
		Text:           t.Text,
		CreatedAt:      t.CreatedAt,
	}
}

func toTurnResponses(turns []*domain.Turn) []turnResponse {
	out := make([]turnResponse, 0, len(turns))
	for _, t := range turns {
		out = append(out, toTurnResponse(t))
	}
	return out
}

type errorResponse struct {
	Error      string `json:"error"`
	StatusCode int    `json:"status_code,omitempty"`
	Body       string `json:"body,omitempty"`
}

// writeError maps domain errors onto HTTP statuses. Completion failures keep
// the upstream status code and raw body in the payload so the user sees
// both.
func writeError(w http.ResponseWriter, err error) {
	var apiErr *domain.APIError
	if errors.As(err, &apiErr) {
		writeJSON(w, http.StatusBadGateway, errorResponse{
			Error:      "completion API error",
			StatusCode: apiErr.StatusCode,
			Body:       apiErr.Body,
		})
		return
	}
	var netErr *domain.NetworkError
	if errors.As(err, &netErr) {
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: netErr.Error()})
		return
	}

	switch {
	case errors.Is(err, domain.ErrInvalidIdentity),
		errors.Is(err, domain.ErrEmptyInput),
		errors.Is(err, domain.ErrNotIdentified),
		errors.Is(err, domain.ErrNoConversation):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrStoreUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
}
