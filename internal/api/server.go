// Package api serves the editor over a JSON HTTP API.
//
// The server wraps one [session.Session]. Handlers run one at a time under
// a mutex, so every request sees the state left by the previous one:
//
//	GET    /healthz
//	GET    /maps
//	POST   /maps                                 {"name": "..."}
//	GET    /maps/{name}
//	DELETE /maps/{name}?confirm=true
//	PUT    /maps/{name}/layout                   {"mode": "hierarchical"}
//	POST   /maps/{name}/nodes                    {"parent_id": "...", "text": "..."}
//	PATCH  /maps/{name}/nodes/{id}               {"text": "..."}
//	DELETE /maps/{name}/nodes/{id}?confirm=true
//	PUT    /maps/{name}/nodes/{id}/position      {"x": 10, "y": 20}
//
// Map-scoped requests make {name} the active map first. Deletions need an
// explicit confirm=true and otherwise fail with 428.
package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/mindmap/pkg/session"
)

// Server is the HTTP front of a session.
type Server struct {
	mu     sync.Mutex
	s      *session.Session
	logger *log.Logger
	router chi.Router
}

// New creates a server for s. A nil logger uses log.Default().
func New(s *session.Session, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	srv := &Server{s: s, logger: logger}
	srv.router = srv.routes()
	return srv
}

// Handler returns the root handler.
func (srv *Server) Handler() http.Handler { return srv.router }

func (srv *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(srv.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", srv.handleHealth)

	r.Route("/maps", func(r chi.Router) {
		r.Get("/", srv.handleListMaps)
		r.Post("/", srv.handleCreateMap)

		r.Route("/{name}", func(r chi.Router) {
			r.Get("/", srv.handleGetMap)
			r.Delete("/", srv.handleDeleteMap)
			r.Put("/layout", srv.handleSetLayout)

			r.Post("/nodes", srv.handleCreateNode)
			r.Patch("/nodes/{id}", srv.handleRenameNode)
			r.Delete("/nodes/{id}", srv.handleDeleteNode)
			r.Put("/nodes/{id}/position", srv.handleMoveNode)
		})
	})

	return r
}

// logRequests logs one line per request through charmbracelet/log.
func (srv *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		srv.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"took", time.Since(start).Round(time.Microsecond),
			"id", middleware.GetReqID(r.Context()),
		)
	})
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (srv *Server) ListenAndServe(ctx context.Context, addr string) error {
	hs := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- hs.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := hs.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
