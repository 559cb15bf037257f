package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/andrescamacho/headquartz-go/internal/application/common"
	controlQueries "github.com/andrescamacho/headquartz-go/internal/application/control/queries"
	"github.com/andrescamacho/headquartz-go/internal/application/mediator"
	"github.com/andrescamacho/headquartz-go/internal/domain/events"
)

// Config configures the HTTP server
type Config struct {
	Addr        string
	MetricsPath string
	// EventBuffer is the per-connection channel size for the /events feed
	EventBuffer int
}

// Server serves /health, /stats, the Prometheus endpoint and the /events websocket feed
type Server struct {
	cfg      Config
	mediator mediator.Mediator
	bus      *events.Bus
	gatherer prometheus.Gatherer
	logger   common.Logger

	feed   *EventFeed
	server *http.Server
}

// NewServer creates a server. gatherer may be nil when metrics are disabled;
// bus may be nil when the event feed is not wanted.
func NewServer(cfg Config, m mediator.Mediator, bus *events.Bus, gatherer prometheus.Gatherer, logger common.Logger) *Server {
	if cfg.MetricsPath == "" {
		cfg.MetricsPath = "/metrics"
	}
	if logger == nil {
		logger = common.NoOpLogger{}
	}
	s := &Server{
		cfg:      cfg,
		mediator: m,
		bus:      bus,
		gatherer: gatherer,
		logger:   logger,
	}
	if bus != nil {
		s.feed = NewEventFeed(bus, cfg.EventBuffer, logger)
	}
	s.server = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler builds the route table
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("/stats", s.handleStats)

	if s.gatherer != nil {
		mux.Handle(s.cfg.MetricsPath, promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	if s.feed != nil {
		mux.Handle("/events", s.feed)
	}
	return mux
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	resp, err := s.mediator.Send(r.Context(), &controlQueries.GetStatisticsQuery{})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	stats, ok := resp.(*controlQueries.GetStatisticsResponse)
	if !ok {
		http.Error(w, fmt.Sprintf("unexpected response %T", resp), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(stats.Statistics); err != nil {
		s.logger.Log(common.LevelWarning, "Failed to write stats", map[string]interface{}{"error": err.Error()})
	}
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, listener)
}

// Serve serves on listener until ctx is cancelled
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	s.logger.Log(common.LevelInfo, "HTTP server listening", map[string]interface{}{
		"address": listener.Addr().String(),
		"metrics": s.gatherer != nil,
	})

	errChan := make(chan error, 1)
	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}

	if s.feed != nil {
		s.feed.CloseAll()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
