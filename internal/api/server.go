// Package api exposes the prediction core over HTTP and websockets.
package api

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"banking-chatbot/internal/chatbot/predictor"
	"banking-chatbot/internal/chatbot/responder"
	"banking-chatbot/internal/common/config"
	apperrors "banking-chatbot/internal/common/errors"
	"banking-chatbot/internal/common/logger"
)

const defaultMaxMessageBytes = 64 << 10

// Server owns the HTTP listener and routes.
type Server struct {
	cfg       config.ServerConfig
	predictor *predictor.Predictor
	responder *responder.Responder
	errors    *apperrors.ErrorHandler
	log       logger.Logger
	origins   originPolicy
	upgrader  websocket.Upgrader
	now       func() time.Time

	httpServer *http.Server
	closing    chan struct{}
	closeOnce  sync.Once
}

func New(cfg config.ServerConfig, pred *predictor.Predictor, resp *responder.Responder, log logger.Logger) *Server {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	if cfg.MaxMessageBytes <= 0 {
		cfg.MaxMessageBytes = defaultMaxMessageBytes
	}
	log = logger.Component(log, "api")

	s := &Server{
		cfg:       cfg,
		predictor: pred,
		responder: resp,
		errors:    apperrors.NewErrorHandler(log),
		log:       log,
		origins:   newOriginPolicy(cfg.AllowedOrigins),
		now:       time.Now,
		closing:   make(chan struct{}),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.origins.allowRequest,
	}
	return s
}

// Handler returns the fully wrapped route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /ready", s.handleReady)
	mux.HandleFunc("GET /ws/chat", s.handleWebsocket)
	mux.Handle("GET /metrics", promhttp.Handler())

	return s.cors(s.logRequests(mux))
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:         s.cfg.Address,
		Handler:      s.Handler(),
		ReadTimeout:  config.GetDuration(s.cfg.ReadTimeout),
		WriteTimeout: config.GetDuration(s.cfg.WriteTimeout),
	}
	// Hijacked websocket connections are not closed by Shutdown.
	s.httpServer.RegisterOnShutdown(s.closeStreams)

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("HTTP server listening", map[string]interface{}{"address": s.cfg.Address})
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := config.GetDuration(s.cfg.ShutdownTimeout)
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.log.Info("shutting down HTTP server", nil)
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

func (s *Server) closeStreams() {
	s.closeOnce.Do(func() { close(s.closing) })
}
