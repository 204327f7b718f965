// Package server is the long-running daemon: it owns the clipboard sink and
// exposes the copy pipeline over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"urlcopier/pkg/copier"
	apperrors "urlcopier/pkg/errors"
	"urlcopier/pkg/logger"
	"urlcopier/pkg/menu"
	"urlcopier/pkg/messaging"
	"urlcopier/pkg/shortcuts"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	DefaultListen   = "127.0.0.1:7788"
	maxMessageBytes = 16 << 20
	shutdownTimeout = 5 * time.Second
)

type Server struct {
	svc       *copier.Service
	shortcuts shortcuts.Dispatcher

	mu   sync.RWMutex
	menu menu.Menu
}

func New(svc *copier.Service) (*Server, error) {
	s := &Server{
		svc:       svc,
		shortcuts: shortcuts.Dispatcher{Copier: svc},
	}
	if err := s.RebuildMenu(); err != nil {
		return nil, err
	}
	return s, nil
}

// RebuildMenu lays the menu out again from the current template list.
func (s *Server) RebuildMenu() error {
	templates, err := s.svc.Templates()
	if err != nil {
		return err
	}

	m := menu.Build(templates)
	s.mu.Lock()
	s.menu = m
	s.mu.Unlock()

	logger.Debug().Int("templates", len(templates)).Msg("Menu rebuilt")
	return nil
}

func (s *Server) Menu() menu.Menu {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.menu
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/healthz", s.health)
	r.Post(messaging.MessagesPath, s.handleMessage)
	r.Post("/action", s.handleAction)
	r.Post("/shortcuts/{name}", s.handleShortcut)
	r.Get("/menu", s.getMenu)
	r.Post("/menu/{item}", s.clickMenu)

	return r
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return apperrors.DaemonError(err)
	}
	return s.Serve(ctx, ln)
}

func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", ln.Addr().String()).Msg("urlcopier daemon listening")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info().Msg("Shutting down daemon")
		return srv.Shutdown(shutdownCtx)
	}
}

type outcomeResponse struct {
	Copied   bool   `json:"copied"`
	Template string `json:"template,omitempty"`
	Records  int    `json:"records,omitempty"`
	Notice   string `json:"notice,omitempty"`
}

func toResponse(out copier.Outcome) outcomeResponse {
	return outcomeResponse{
		Copied:   out.Copied,
		Template: out.Template.ID,
		Records:  out.Records,
		Notice:   out.Notice,
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxMessageBytes))
	if err != nil {
		writeReply(w, http.StatusBadRequest, messaging.ErrorReply{Message: "failed to read request body", Code: int(apperrors.ExitCodeValidation)})
		return
	}

	msg, err := messaging.DecodeMessage(body)
	if err != nil {
		writeReply(w, http.StatusBadRequest, messaging.ErrorReply{Message: err.Error(), Code: int(apperrors.ExitCodeValidation)})
		return
	}

	reply, err := s.svc.Handle(r.Context(), msg)
	if err != nil {
		logger.Error().Err(err).Str("type", string(msg.MessageType())).Msg("Message handling failed")
		writeReply(w, statusFor(err), messaging.NewErrorReply(err))
		return
	}
	writeReply(w, http.StatusOK, reply)
}

// handleAction is the toolbar-icon equivalent: copy with the default
// template.
func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	out, err := s.svc.CopyDefault(r.Context())
	s.writeOutcome(w, out, err)
}

func (s *Server) handleShortcut(w http.ResponseWriter, r *http.Request) {
	out, err := s.shortcuts.Dispatch(r.Context(), chi.URLParam(r, "name"))
	s.writeOutcome(w, out, err)
}

func (s *Server) getMenu(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Menu())
}

func (s *Server) clickMenu(w http.ResponseWriter, r *http.Request) {
	item := chi.URLParam(r, "item")
	if _, ok := s.Menu().Lookup(item); !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("menu item %q not found", item))
		return
	}
	out, err := menu.Dispatch(r.Context(), s.svc, item)
	s.writeOutcome(w, out, err)
}

func (s *Server) writeOutcome(w http.ResponseWriter, out copier.Outcome, err error) {
	if err != nil {
		logger.Error().Err(err).Msg("Copy request failed")
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, toResponse(out))
}

func statusFor(err error) int {
	var e *apperrors.Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Code {
	case apperrors.ExitCodeValidation:
		return http.StatusBadRequest
	case apperrors.ExitCodeTemplateNotFound:
		return http.StatusNotFound
	case apperrors.ExitCodeNoTemplates:
		return http.StatusConflict
	case apperrors.ExitCodeBrowser:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeReply(w http.ResponseWriter, status int, reply messaging.Reply) {
	data, err := messaging.EncodeReply(reply)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logger.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
