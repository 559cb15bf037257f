package mediator

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/andrescamacho/headquartz-go/internal/application/common"
)

// LoggingMiddleware puts logger on the context for handlers and logs every request.
// Successful requests log at debug; failures log at warning with the error.
func LoggingMiddleware(logger common.Logger) Middleware {
	if logger == nil {
		logger = common.NoOpLogger{}
	}
	return func(ctx context.Context, request Request, next HandlerFunc) (Response, error) {
		name := strings.TrimPrefix(reflect.TypeOf(request).String(), "*")
		start := time.Now()

		response, err := next(common.WithLogger(ctx, logger), request)

		meta := map[string]interface{}{
			"request":  name,
			"duration": time.Since(start).String(),
		}
		if err != nil {
			meta["error"] = err.Error()
			logger.Log(common.LevelWarning, "request failed", meta)
			return response, err
		}
		logger.Log(common.LevelDebug, "request handled", meta)
		return response, nil
	}
}
