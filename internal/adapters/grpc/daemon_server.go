package grpc

import (
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"google.golang.org/grpc"

	"github.com/andrescamacho/headquartz-go/internal/application/common"
	"github.com/andrescamacho/headquartz-go/internal/application/mediator"
	"github.com/andrescamacho/headquartz-go/internal/domain/events"
)

// DaemonServer exposes the mediator over gRPC on a unix socket.
// Every Execute call becomes exactly one mediator request.
type DaemonServer struct {
	mediator mediator.Mediator
	bus      *events.Bus
	logger   common.Logger
	listener net.Listener

	grpcServer *grpc.Server
	startedAt  time.Time

	// Shutdown coordination
	done      chan struct{}
	closeOnce sync.Once
}

// NewDaemonServer creates a new daemon server listening on socketPath.
// bus may be nil, in which case WatchEvents is unavailable.
func NewDaemonServer(
	m mediator.Mediator,
	bus *events.Bus,
	logger common.Logger,
	socketPath string,
) (*DaemonServer, error) {
	// Remove existing socket file if present
	if err := os.RemoveAll(socketPath); err != nil {
		return nil, fmt.Errorf("failed to remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create unix socket listener: %w", err)
	}

	// Set socket permissions (owner only)
	if err := os.Chmod(socketPath, 0600); err != nil {
		listener.Close()
		return nil, fmt.Errorf("failed to set socket permissions: %w", err)
	}

	return NewDaemonServerWithListener(m, bus, logger, listener), nil
}

// NewDaemonServerWithListener serves on an existing listener
func NewDaemonServerWithListener(m mediator.Mediator, bus *events.Bus, logger common.Logger, listener net.Listener) *DaemonServer {
	if logger == nil {
		logger = common.NoOpLogger{}
	}
	s := &DaemonServer{
		mediator:   m,
		bus:        bus,
		logger:     logger,
		listener:   listener,
		grpcServer: grpc.NewServer(),
		done:       make(chan struct{}),
	}
	RegisterControlServiceServer(s.grpcServer, newDaemonServiceImpl(s))
	return s
}

// Start serves gRPC requests until Shutdown is called or serving fails
func (s *DaemonServer) Start() error {
	s.startedAt = time.Now()
	s.logger.Log(common.LevelInfo, "Daemon server listening", map[string]interface{}{
		"address": s.listener.Addr().String(),
	})

	errChan := make(chan error, 1)
	go func() {
		if err := s.grpcServer.Serve(s.listener); err != nil {
			errChan <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-s.done:
		s.logger.Log(common.LevelInfo, "Initiating graceful shutdown of gRPC server", nil)
		s.grpcServer.GracefulStop()
		return nil
	}
}

// Shutdown asks Start to stop gracefully. Open event streams are cancelled.
// Safe to call more than once.
func (s *DaemonServer) Shutdown() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}

// Uptime is the time since Start
func (s *DaemonServer) Uptime() time.Duration {
	if s.startedAt.IsZero() {
		return 0
	}
	return time.Since(s.startedAt)
}
