// Package web serves the dashboard: the JSON view model under /api/view and
// the static presentation assets for everything else.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"peerscope/dashboard"
)

// SnapshotSource is anything that can project the current view model.
type SnapshotSource interface {
	Snapshot() *dashboard.Snapshot
}

type Server struct {
	addr string
	srv  *http.Server
}

func New(addr string, view SnapshotSource, staticDir string) *Server {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/view", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(view.Snapshot()); err != nil {
			log.Errorf("web: encoding view: %v", err)
		}
	})
	mux.Handle("/", http.FileServer(http.Dir(staticDir)))

	return &Server{
		addr: addr,
		srv:  &http.Server{Addr: addr, Handler: mux},
	}
}

// Handler exposes the route table, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// Serve blocks until the context is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		log.Infof("web: context cancelled, shutting down listener %s", s.addr)
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(sctx); err != nil {
			log.Warnf("web: shutdown: %v", err)
		}
	}()

	log.Infof("web: serving dashboard on %s", s.addr)
	if err := s.srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return ctx.Err()
}
