package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/careerbot/internal/logging"
	"github.com/aretw0/careerbot/pkg/domain"
	"github.com/aretw0/careerbot/pkg/runner"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
)

//go:embed openapi.yaml
var openAPISpec []byte

// Bot is the part of the careers bot the HTTP host serves.
type Bot interface {
	Turn(ctx context.Context, activity domain.Activity) ([]domain.ActionRequest, error)
	Inspect(ctx context.Context, conversationID string) (*domain.State, error)
	Reset(ctx context.Context, conversationID string) error
}

// Server exposes a Bot over HTTP.
type Server struct {
	Bot     Bot
	Streams *StreamManager

	logger     *slog.Logger
	origins    []string
	metrics    http.Handler
	version    string
	ready      func(ctx context.Context) error
	validator  routers.Router
	openAPIDoc *openapi3.T
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithCORSOrigins allows browser clients from the given origins.
func WithCORSOrigins(origins ...string) Option {
	return func(s *Server) {
		s.origins = origins
	}
}

// WithMetrics mounts h on GET /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithVersion sets the version reported by GET /info.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// WithReadiness makes GET /healthz report 503 while check fails.
func WithReadiness(check func(ctx context.Context) error) Option {
	return func(s *Server) {
		s.ready = check
	}
}

// NewServer loads the embedded OpenAPI document and prepares the server.
func NewServer(bot Bot, opts ...Option) (*Server, error) {
	s := &Server{
		Bot:     bot,
		Streams: NewStreamManager(),
		logger:  logging.NewNop(),
		version: "dev",
	}
	for _, opt := range opts {
		opt(s)
	}

	doc, err := openapi3.NewLoader().LoadFromData(openAPISpec)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}
	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("build openapi router: %w", err)
	}
	s.openAPIDoc = doc
	s.validator = router
	s.Streams.logger = s.logger
	return s, nil
}

// NewHandler creates the HTTP handler for bot.
func NewHandler(bot Bot, opts ...Option) (http.Handler, error) {
	s, err := NewServer(bot, opts...)
	if err != nil {
		return nil, err
	}
	return s.Routes(), nil
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	if len(s.origins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.origins,
			AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Accept-Language", "Content-Type"},
			MaxAge:         300,
		}))
	}

	r.Get("/healthz", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		w.Write(openAPISpec)
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(s.validateRequest)
		r.Post("/messages", s.PostMessage)
		r.Get("/conversations/{id}", s.GetConversation)
		r.Delete("/conversations/{id}", s.DeleteConversation)
		r.Get("/conversations/{id}/events", s.SubscribeEvents)
	})
	return r
}

// validateRequest rejects requests that do not match the OpenAPI document.
func (s *Server) validateRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route, params, err := s.validator.FindRoute(r)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		input := &openapi3filter.RequestValidationInput{
			Request:    r,
			PathParams: params,
			Route:      route,
			Options:    &openapi3filter.Options{MultiError: false},
		}
		if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
			s.logger.Warn("request rejected", "path", r.URL.Path, "err", err)
			writeError(w, http.StatusBadRequest, "invalid request: "+validationReason(err))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func validationReason(err error) string {
	var reqErr *openapi3filter.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.Reason != "" {
			return reqErr.Reason
		}
		if reqErr.Err != nil {
			return reqErr.Err.Error()
		}
	}
	return err.Error()
}

// MessageRequest is the body of POST /api/messages.
type MessageRequest struct {
	ConversationID string `json:"conversation_id,omitempty"`
	UserID         string `json:"user_id,omitempty"`
	UserName       string `json:"user_name,omitempty"`
	Text           string `json:"text"`
	Locale         string `json:"locale,omitempty"`
}

// TurnResponse is the reply to POST /api/messages.
type TurnResponse struct {
	ConversationID string                 `json:"conversation_id"`
	Actions        []domain.ActionRequest `json:"actions"`
}

// PostMessage handles POST /api/messages. A missing conversation id starts a
// new conversation; a missing locale falls back to Accept-Language.
func (s *Server) PostMessage(w http.ResponseWriter, r *http.Request) {
	var body MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		s.logger.Warn("PostMessage: invalid request body", "err", err)
		return
	}

	text, err := runner.SanitizeInput(body.Text)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid input: %v", err))
		s.logger.Warn("PostMessage: input rejected", "err", err, "size", len(body.Text))
		return
	}

	activity := domain.Activity{
		ConversationID: body.ConversationID,
		UserID:         body.UserID,
		UserName:       body.UserName,
		Text:           text,
		Locale:         body.Locale,
	}
	if activity.ConversationID == "" {
		activity.ConversationID = uuid.NewString()
	}
	if activity.Locale == "" {
		activity.Locale = r.Header.Get("Accept-Language")
	}

	actions, err := s.Bot.Turn(r.Context(), activity)
	if err != nil {
		s.logger.Error("PostMessage: turn failed", "conversation_id", activity.ConversationID, "err", err)
		writeError(w, http.StatusInternalServerError, "turn failed")
		return
	}
	if actions == nil {
		actions = []domain.ActionRequest{}
	}

	if payload, err := json.Marshal(actions); err == nil {
		s.Streams.Broadcast(activity.ConversationID, string(payload))
	}
	writeJSON(w, http.StatusOK, TurnResponse{ConversationID: activity.ConversationID, Actions: actions})
}

// GetConversation handles GET /api/conversations/{id}.
func (s *Server) GetConversation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	state, err := s.Bot.Inspect(r.Context(), id)
	if errors.Is(err, domain.ErrSessionNotFound) {
		writeError(w, http.StatusNotFound, "conversation not found")
		return
	}
	if err != nil {
		s.logger.Error("GetConversation failed", "conversation_id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "inspect failed")
		return
	}
	writeJSON(w, http.StatusOK, state)
}

// DeleteConversation handles DELETE /api/conversations/{id}.
func (s *Server) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.Bot.Reset(r.Context(), id); err != nil {
		s.logger.Error("DeleteConversation failed", "conversation_id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "delete failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetHealth handles GET /healthz.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		if err := s.ready(r.Context()); err != nil {
			s.logger.Warn("health check failed", "err", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if s.openAPIDoc != nil && s.openAPIDoc.Info != nil {
		apiVersion = s.openAPIDoc.Info.Version
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"app":         "careerbot-http",
		"version":     strings.TrimSpace(s.version),
		"api_version": apiVersion,
	})
}

// SubscribeEvents handles GET /api/conversations/{id}/events (SSE). Each
// completed turn of the conversation is sent as one event.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}
	id := chi.URLParam(r, "id")

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe(id)
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()
	s.logger.Debug("SSE: subscribed", "conversation_id", id)

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("SSE: client disconnected", "conversation_id", id)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: turn\ndata: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
