package metrics

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/andrescamacho/headquartz-go/internal/application/mediator"
	"github.com/andrescamacho/headquartz-go/internal/domain/shared"
	"github.com/andrescamacho/headquartz-go/internal/domain/world"
)

// PrometheusMiddleware times every mediator request and counts it by outcome.
// A nil collector turns the middleware into a pass-through.
func PrometheusMiddleware(collector *CommandMetricsCollector) mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		if collector == nil {
			return next(ctx, request)
		}

		name := RequestName(request)
		collector.begin()
		start := time.Now()
		response, err := next(ctx, request)
		collector.RecordCommandExecution(name, requestKind(name), classifyOutcome(err), time.Since(start).Seconds())
		return response, err
	}
}

// RequestName strips the package and pointer from a request type:
// *commands.StepSimulationCommand becomes StepSimulationCommand
func RequestName(request mediator.Request) string {
	if request == nil {
		return "UnknownCommand"
	}
	name := strings.TrimPrefix(reflect.TypeOf(request).String(), "*")
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}

func requestKind(name string) string {
	if strings.HasSuffix(name, "Query") {
		return "query"
	}
	return "command"
}

func classifyOutcome(err error) string {
	var validation *shared.ValidationError
	var transition *shared.InvalidStatusTransitionError
	var missingOrder *world.ErrOrderNotFound
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, world.ErrSnapshotNotFound), errors.As(err, &missingOrder):
		return OutcomeNotFound
	case errors.As(err, &validation), errors.As(err, &transition):
		return OutcomeInvalid
	default:
		return OutcomeError
	}
}
