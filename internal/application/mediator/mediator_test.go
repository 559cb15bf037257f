package mediator_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/headquartz-go/internal/application/common"
	"github.com/andrescamacho/headquartz-go/internal/application/mediator"
)

type pingQuery struct{ Value int }

func TestMediator_DispatchesByType(t *testing.T) {
	// Arrange
	m := mediator.NewMediator()
	require.NoError(t, mediator.RegisterHandler[*pingQuery](m, mediator.HandlerFunc(
		func(ctx context.Context, request mediator.Request) (mediator.Response, error) {
			return request.(*pingQuery).Value * 2, nil
		})))

	// Act
	resp, err := m.Send(context.Background(), &pingQuery{Value: 21})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 42, resp)
}

func TestMediator_RejectsDuplicateAndUnknown(t *testing.T) {
	m := mediator.NewMediator()
	h := mediator.HandlerFunc(func(ctx context.Context, request mediator.Request) (mediator.Response, error) {
		return nil, nil
	})

	require.NoError(t, mediator.RegisterHandler[*pingQuery](m, h))
	assert.Error(t, mediator.RegisterHandler[*pingQuery](m, h))

	_, err := m.Send(context.Background(), struct{}{})
	assert.Error(t, err)
}

func TestMediator_MiddlewareOrder(t *testing.T) {
	// Arrange
	m := mediator.NewMediator()
	var trace []string
	require.NoError(t, mediator.RegisterHandler[*pingQuery](m, mediator.HandlerFunc(
		func(ctx context.Context, request mediator.Request) (mediator.Response, error) {
			trace = append(trace, "handler")
			return nil, nil
		})))
	for _, name := range []string{"outer", "inner"} {
		name := name
		m.Use(func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
			trace = append(trace, name)
			return next(ctx, request)
		})
	}

	// Act
	_, err := m.Send(context.Background(), &pingQuery{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"outer", "inner", "handler"}, trace)
}

type recordingLogger struct {
	levels   []string
	messages []string
}

func (l *recordingLogger) Log(level, message string, metadata map[string]interface{}) {
	l.levels = append(l.levels, level)
	l.messages = append(l.messages, message+" "+metadata["request"].(string))
}

func TestLoggingMiddleware_LogsOutcomeAndSharesLogger(t *testing.T) {
	// Arrange
	logger := &recordingLogger{}
	m := mediator.NewMediator()
	m.Use(mediator.LoggingMiddleware(logger))
	var seen common.Logger
	require.NoError(t, mediator.RegisterHandler[*pingQuery](m, mediator.HandlerFunc(
		func(ctx context.Context, request mediator.Request) (mediator.Response, error) {
			seen = common.LoggerFromContext(ctx)
			if request.(*pingQuery).Value < 0 {
				return nil, errors.New("negative ping")
			}
			return nil, nil
		})))

	// Act
	_, okErr := m.Send(context.Background(), &pingQuery{Value: 1})
	_, failErr := m.Send(context.Background(), &pingQuery{Value: -1})

	// Assert
	require.NoError(t, okErr)
	require.Error(t, failErr)
	assert.Same(t, logger, seen)
	assert.Equal(t, []string{common.LevelDebug, common.LevelWarning}, logger.levels)
	assert.Equal(t, "request failed mediator_test.pingQuery", logger.messages[1])
}
