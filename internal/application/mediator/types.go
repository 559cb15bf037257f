package mediator

import (
	"context"
)

// Request is any command or query struct; handlers are keyed by its concrete type
type Request interface{}

// Response is whatever the handler returns, usually a *XResponse struct
type Response interface{}

type RequestHandler interface {
	Handle(ctx context.Context, request Request) (Response, error)
}

// HandlerFunc adapts a plain function to RequestHandler
type HandlerFunc func(ctx context.Context, request Request) (Response, error)

func (f HandlerFunc) Handle(ctx context.Context, request Request) (Response, error) {
	return f(ctx, request)
}

// Middleware runs around every Send; call next to continue the chain
type Middleware func(ctx context.Context, request Request, next HandlerFunc) (Response, error)
