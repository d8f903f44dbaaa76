// Package httpapi exposes the chat service over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/sandevgo/ragchat/internal/core"
	"github.com/sandevgo/ragchat/pkg/log"
)

// ConversationIDHeader carries the conversation id on ask requests.
// Requests without it share the default conversation.
const ConversationIDHeader = "X_CONV_ID"

// Asker answers a question within a conversation.
type Asker interface {
	Ask(ctx context.Context, question, conversationID string) (string, error)
}

// Conversations is the subset of the memory window the API manages
// directly.
type Conversations interface {
	ConversationIDs() []string
	Clear(ctx context.Context, conversationID string)
}

type Server struct {
	chat          Asker
	conversations Conversations
	mux           *http.ServeMux
	server        *http.Server
	addr          string
}

func NewServer(addr string, chatService Asker, conversations Conversations) *Server {
	s := &Server{
		chat:          chatService,
		conversations: conversations,
		addr:          addr,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /ask", s.handleAsk)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /conversations", s.handleListConversations)
	mux.HandleFunc("DELETE /conversations/{id}", s.handleDeleteConversation)

	s.mux = mux
	return s
}

// Handler exposes the routed handler for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	log.FromCtx(ctx).Info().Str("addr", s.addr).Msg("http server listening")

	if err := s.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	log.FromCtx(ctx).Info().Msg("shutting down http server")
	return s.server.Shutdown(ctx)
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	conversationID := r.Header.Get(ConversationIDHeader)

	answer, err := s.chat.Ask(r.Context(), req.Question, conversationID)
	if err != nil {
		s.writeAskError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"answer": answer,
	})
}

// writeAskError maps service errors onto HTTP statuses: bad input is the
// caller's fault, failed generation or strict retrieval is an upstream
// fault.
func (s *Server) writeAskError(w http.ResponseWriter, r *http.Request, err error) {
	logger := log.FromCtx(r.Context())

	switch {
	case errors.Is(err, core.ErrEmptyQuestion):
		writeError(w, http.StatusBadRequest, "empty_question", "question must not be blank")
	case errors.Is(err, core.ErrGeneration), errors.Is(err, core.ErrRetrieval):
		logger.Error().Err(err).Msg("upstream failure")
		writeError(w, http.StatusBadGateway, "upstream_error", err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		// The connection may still be writable; never let a cancelled
		// request fall through as an implicit 200.
		logger.Debug().Err(err).Msg("request cancelled")
		writeError(w, http.StatusServiceUnavailable, "cancelled", "request cancelled")
	default:
		logger.Error().Err(err).Msg("ask failed")
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": core.AppVersion,
	})
}

func (s *Server) handleListConversations(w http.ResponseWriter, _ *http.Request) {
	ids := s.conversations.ConversationIDs()
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"conversations": ids,
	})
}

func (s *Server) handleDeleteConversation(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s.conversations.Clear(r.Context(), id)
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{
		"error":   code,
		"message": message,
	})
}
