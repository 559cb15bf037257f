package grpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/andrescamacho/headquartz-go/internal/domain/events"
)

// DaemonClientGRPC talks to a running daemon over its unix socket
type DaemonClientGRPC struct {
	conn *grpc.ClientConn
}

// NewDaemonClientGRPC creates a new gRPC daemon client
// socketPath should be a Unix domain socket path (e.g., "/tmp/headquartz-daemon.sock")
func NewDaemonClientGRPC(socketPath string) (*DaemonClientGRPC, error) {
	conn, err := grpc.NewClient(
		"unix:"+socketPath,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon socket: %w", err)
	}
	return NewDaemonClientFromConn(conn), nil
}

// NewDaemonClientFromConn wraps an existing connection
func NewDaemonClientFromConn(conn *grpc.ClientConn) *DaemonClientGRPC {
	return &DaemonClientGRPC{conn: conn}
}

// Close closes the gRPC connection
func (c *DaemonClientGRPC) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Execute runs a named command on the daemon. When out is non-nil the
// response is decoded into it.
// args values must be JSON-like: strings, numbers, bools, []interface{} or nested maps.
func (c *DaemonClientGRPC) Execute(ctx context.Context, command string, args map[string]interface{}, out interface{}) error {
	if args == nil {
		args = map[string]interface{}{}
	}
	req, err := structpb.NewStruct(map[string]interface{}{
		executeCommandKey: command,
		executeArgsKey:    args,
	})
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", command, err)
	}

	resp := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, executeMethod, req, resp); err != nil {
		return fmt.Errorf("%s failed: %w", command, err)
	}
	if out == nil {
		return nil
	}

	raw, err := json.Marshal(resp.AsMap()[executeResponseKey])
	if err != nil {
		return fmt.Errorf("failed to decode %s response: %w", command, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", command, err)
	}
	return nil
}

// HealthStatus is the daemon's liveness report
type HealthStatus struct {
	Status        string   `json:"status"`
	UptimeSeconds float64  `json:"uptime_seconds"`
	Commands      []string `json:"commands"`
}

// Health checks that the daemon is reachable
func (c *DaemonClientGRPC) Health(ctx context.Context) (*HealthStatus, error) {
	resp := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, healthMethod, &emptypb.Empty{}, resp); err != nil {
		return nil, fmt.Errorf("health check failed: %w", err)
	}
	raw, err := json.Marshal(resp.AsMap())
	if err != nil {
		return nil, err
	}
	var health HealthStatus
	if err := json.Unmarshal(raw, &health); err != nil {
		return nil, err
	}
	return &health, nil
}

// WatchFilter narrows an event stream; empty fields match everything
type WatchFilter struct {
	Kind     string
	Severity string
}

// WatchEvents streams events to fn until ctx ends, the daemon closes the
// stream or fn returns an error
func (c *DaemonClientGRPC) WatchEvents(ctx context.Context, filter WatchFilter, fn func(events.Record) error) error {
	desc := &grpc.StreamDesc{StreamName: "WatchEvents", ServerStreams: true}
	stream, err := c.conn.NewStream(ctx, desc, watchEventsMethod)
	if err != nil {
		return fmt.Errorf("failed to open event stream: %w", err)
	}

	req, err := structpb.NewStruct(map[string]interface{}{
		"kind":     filter.Kind,
		"severity": filter.Severity,
	})
	if err != nil {
		return err
	}
	if err := stream.SendMsg(req); err != nil {
		return fmt.Errorf("failed to send watch request: %w", err)
	}
	if err := stream.CloseSend(); err != nil {
		return err
	}

	for {
		msg := new(structpb.Struct)
		if err := stream.RecvMsg(msg); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("event stream failed: %w", err)
		}

		raw, err := json.Marshal(msg.AsMap())
		if err != nil {
			return err
		}
		var record events.Record
		if err := json.Unmarshal(raw, &record); err != nil {
			return err
		}
		if err := fn(record); err != nil {
			return err
		}
	}
}
