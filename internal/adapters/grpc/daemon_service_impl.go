package grpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/andrescamacho/headquartz-go/internal/application/common"
	"github.com/andrescamacho/headquartz-go/internal/domain/events"
	"github.com/andrescamacho/headquartz-go/internal/domain/world"
)

const defaultWatchBuffer = 64

// daemonServiceImpl bridges gRPC requests to the mediator
type daemonServiceImpl struct {
	daemon *DaemonServer
}

func newDaemonServiceImpl(daemon *DaemonServer) *daemonServiceImpl {
	return &daemonServiceImpl{daemon: daemon}
}

// Execute decodes one command, sends it through the mediator and encodes the response
func (s *daemonServiceImpl) Execute(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.AsMap()
	command, _ := fields[executeCommandKey].(string)
	args, _ := fields[executeArgsKey].(map[string]interface{})

	request, err := BuildRequest(command, args)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	ctx = common.WithLogger(ctx, s.daemon.logger)
	response, err := s.daemon.mediator.Send(ctx, request)
	if err != nil {
		s.daemon.logger.Log(common.LevelWarning, "Command failed", map[string]interface{}{
			"command": command,
			"error":   err.Error(),
		})
		return nil, toStatus(err)
	}

	encoded, err := encodeResponse(response)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return structpb.NewStruct(map[string]interface{}{executeResponseKey: encoded})
}

// Health reports liveness and the command catalogue
func (s *daemonServiceImpl) Health(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	names := CommandNames()
	commands := make([]interface{}, len(names))
	for i, n := range names {
		commands[i] = n
	}
	return structpb.NewStruct(map[string]interface{}{
		"status":         "ok",
		"uptime_seconds": s.daemon.Uptime().Seconds(),
		"commands":       commands,
	})
}

// WatchEvents streams world events matching an optional kind and severity
// until the client goes away or the server shuts down
func (s *daemonServiceImpl) WatchEvents(req *structpb.Struct, stream grpc.ServerStream) error {
	if s.daemon.bus == nil {
		return status.Error(codes.Unavailable, "event stream not available")
	}

	fields := req.AsMap()
	kind, _ := fields["kind"].(string)
	severity, _ := fields["severity"].(string)
	buffer := defaultWatchBuffer
	if b, ok := fields["buffer"].(float64); ok && b >= 1 {
		buffer = int(b)
	}

	sub := s.daemon.bus.SubscribeChannel(buffer)
	defer sub.Close()

	ctx := stream.Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.daemon.done:
			return nil
		case e, ok := <-sub.C():
			if !ok {
				return nil
			}
			if kind != "" && string(e.Kind()) != kind {
				continue
			}
			if severity != "" && string(e.Severity()) != severity {
				continue
			}
			msg, err := recordStruct(e.Record())
			if err != nil {
				return status.Error(codes.Internal, err.Error())
			}
			if err := stream.SendMsg(msg); err != nil {
				return err
			}
		}
	}
}

func toStatus(err error) error {
	var invalid *world.ErrInvalidSnapshot
	switch {
	case errors.Is(err, world.ErrSnapshotNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.As(err, &invalid):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err).Err()
	default:
		return status.Error(codes.Unknown, err.Error())
	}
}

// encodeResponse converts a handler response to structpb-compatible values through JSON
func encodeResponse(response interface{}) (interface{}, error) {
	raw, err := json.Marshal(response)
	if err != nil {
		return nil, fmt.Errorf("failed to encode response: %w", err)
	}
	var out interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to encode response: %w", err)
	}
	return out, nil
}

func recordStruct(r events.Record) (*structpb.Struct, error) {
	encoded, err := encodeResponse(r)
	if err != nil {
		return nil, err
	}
	fields, ok := encoded.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("event record did not encode to an object")
	}
	return structpb.NewStruct(fields)
}
