package cli

import (
	"context"
	"fmt"
	"time"

	daemongrpc "github.com/andrescamacho/headquartz-go/internal/adapters/grpc"
	"github.com/andrescamacho/headquartz-go/internal/domain/events"
)

const defaultCommandTimeout = 10 * time.Second

// DaemonClient is the CLI's handle on the daemon control service
type DaemonClient interface {
	Execute(ctx context.Context, command string, args map[string]interface{}, out interface{}) error
	Health(ctx context.Context) (*daemongrpc.HealthStatus, error)
	WatchEvents(ctx context.Context, filter daemongrpc.WatchFilter, fn func(events.Record) error) error
	Close() error
}

// clientFactory opens a client for a socket; tests replace it
var clientFactory = func(socket string) (DaemonClient, error) {
	c, err := daemongrpc.NewDaemonClientGRPC(socket)
	if err != nil {
		return nil, err
	}
	return grpcClient{c}, nil
}

type grpcClient struct {
	*daemongrpc.DaemonClientGRPC
}

// NewDaemonClient connects to the daemon socket
func NewDaemonClient(socket string) (DaemonClient, error) {
	return clientFactory(socket)
}

// execute runs one daemon command with the default timeout and decodes the response into out
func execute(command string, args map[string]interface{}, out interface{}) error {
	client, err := NewDaemonClient(socketPath)
	if err != nil {
		return fmt.Errorf("failed to connect to daemon: %w", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), defaultCommandTimeout)
	defer cancel()

	if verbose {
		fmt.Printf("→ %s %v\n", command, args)
	}
	return client.Execute(ctx, command, args, out)
}
