// Package preview serves a read-only HTML rendering of the board, built from
// the live API on every request.
package preview

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/idilsaglam/dreams/internal/action"
	"github.com/idilsaglam/dreams/internal/logger"
	"github.com/idilsaglam/dreams/internal/model"
	"github.com/idilsaglam/dreams/internal/notify"
	"github.com/idilsaglam/dreams/internal/render"
)

// logNotes sends loader notifications to the log; there is nobody to toast.
type logNotes struct{}

func (logNotes) Success(msg string) notify.Toast {
	logger.LogInfo("%s", msg)
	return notify.Toast{Kind: notify.Success, Message: msg}
}

func (logNotes) Error(msg string) notify.Toast {
	logger.LogWarn("%s", msg)
	return notify.Toast{Kind: notify.Error, Message: msg}
}

// Notes is the Notifier to build a preview Loader with.
var Notes action.Notifier = logNotes{}

type Server struct {
	loader *action.Loader
	html   render.HTML
	title  string
	router chi.Router
}

func New(loader *action.Loader, photoURL render.URLFunc, title string) *Server {
	s := &Server{
		loader: loader,
		html:   render.HTML{PhotoURL: photoURL, Location: time.Local},
		title:  title,
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLog)
	r.Use(middleware.Recoverer)
	r.Use(securityHeaders)
	r.Get("/", s.handlePage)
	r.Get("/grid", s.handleGrid)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
	s.router = r
	return s
}

func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe blocks until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	return Serve(ctx, addr, s.router)
}

// Serve runs h on addr until ctx is done.
func Serve(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{Addr: addr, Handler: h, ReadHeaderTimeout: 10 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	items, err := s.loader.LoadItems(r.Context())
	if err != nil {
		http.Error(w, "Failed to load items", http.StatusBadGateway)
		return
	}
	// Stats failures only cost the counters.
	var stats *model.Stats
	if st, err := s.loader.LoadStats(r.Context()); err == nil {
		stats = &st
	}

	var buf bytes.Buffer
	if err := s.html.Page(&buf, render.PageData{Title: s.title, Items: items, Stats: stats}); err != nil {
		logger.LogError("preview page: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, buf.Bytes())
}

func (s *Server) handleGrid(w http.ResponseWriter, r *http.Request) {
	items, err := s.loader.LoadItems(r.Context())
	if err != nil {
		http.Error(w, "Failed to load items", http.StatusBadGateway)
		return
	}
	var buf bytes.Buffer
	if err := s.html.Grid(&buf, items); err != nil {
		logger.LogError("preview grid: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, buf.Bytes())
}

func writeHTML(w http.ResponseWriter, b []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; img-src * data:; style-src 'unsafe-inline'; object-src 'none'")
		next.ServeHTTP(w, r)
	})
}

func requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logger.With(log.Fields{
			"request_id": middleware.GetReqID(r.Context()),
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"took":       time.Since(start).String(),
		}).Info("preview request")
	})
}
