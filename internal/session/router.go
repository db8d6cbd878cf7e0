// ABOUTME: SessionRouter dispatches inbound channel events to the handler
// ABOUTME: Stateless per event: connect, disconnect, message, or unrecognized

package session

import (
	"context"
	"log/slog"
)

// Router dispatches one inbound channel event to the matching handler path.
// Transitions are stateless per event; all cross-turn state lives in the
// store.
type Router struct {
	handler *Handler
	logger  *slog.Logger
}

// NewRouter creates a Router around the given handler.
func NewRouter(handler *Handler, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		handler: handler,
		logger:  logger.With("component", "router"),
	}
}

// Dispatch routes an event by its route key. Any route other than connect,
// disconnect, or message falls through to the unrecognized path, which
// answers with a client-visible error and never fails.
func (r *Router) Dispatch(ctx context.Context, event *Event) error {
	r.logger.Debug("event received", "route", event.Route, "connection_id", event.ConnectionID)

	switch event.Route {
	case RouteConnect:
		return r.handler.HandleConnect(ctx, event)
	case RouteDisconnect:
		return r.handler.HandleDisconnect(ctx, event)
	case RouteMessage:
		return r.handler.HandleMessage(ctx, event)
	default:
		return r.handler.HandleUnrecognized(ctx, event)
	}
}
