// Package server serves the embedded inspector page and its websocket feed.
package server

import (
	"context"
	"net/http"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
	"go.uber.org/zap"

	"github.com/soar/padnav/internal/hub"
)

type Server struct {
	hub         *hub.Hub
	broadcaster *hub.Broadcaster
	logger      *zap.SugaredLogger
	addr        string
	page        []byte
	httpServer  *http.Server
}

func New(h *hub.Hub, b *hub.Broadcaster, logger *zap.SugaredLogger, addr string) *Server {
	return &Server{
		hub:         h,
		broadcaster: b,
		logger:      logger,
		addr:        addr,
		page:        minifyPage(logger),
	}
}

// minifyPage shrinks the embedded page once at startup; inline style and
// script blocks go through their own minifiers. Falls back to the raw page
// if minification fails.
func minifyPage(logger *zap.SugaredLogger) []byte {
	m := minify.New()
	m.AddFunc("text/html", html.Minify)
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("application/javascript", js.Minify)

	out, err := m.Bytes("text/html", indexHTML)
	if err != nil {
		logger.Warnf("Frontend minification failed, serving raw page: %v", err)
		return indexHTML
	}
	return out
}

func (s *Server) ListenAndServe() error {
	mux := http.NewServeMux()

	mux.HandleFunc("/ws", handleWebSocket(s.hub, s.broadcaster, s.logger))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(s.page)
	})

	s.httpServer = &http.Server{
		Addr:    s.addr,
		Handler: mux,
	}

	s.logger.Infof("HTTP server listening on %s", s.addr)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		s.logger.Info("Shutting down HTTP server...")
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
