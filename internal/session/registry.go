// ABOUTME: ConnectionRegistry tracks live channel connections in the shared store
// ABOUTME: Lifecycle bookkeeping only, no routing or enumeration

package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tucoach/interview-gateway/internal/store"
)

// ConnectionStore defines what the registry needs from storage
type ConnectionStore interface {
	AddConnection(ctx context.Context, conn *store.Connection) error
	RemoveConnection(ctx context.Context, connectionID string) error
}

// Registry tracks live connections keyed by connection id. State lives in
// the external store, never in process, so any invocation can service any
// connection.
type Registry struct {
	store  ConnectionStore
	logger *slog.Logger
}

// NewRegistry creates a Registry backed by the given connection store.
func NewRegistry(s ConnectionStore, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		store:  s,
		logger: logger.With("component", "registry"),
	}
}

// Add records a new live connection.
func (r *Registry) Add(ctx context.Context, connectionID string, connectedAt time.Time) error {
	conn := &store.Connection{
		ID:          connectionID,
		ConnectedAt: connectedAt,
	}
	if err := r.store.AddConnection(ctx, conn); err != nil {
		return fmt.Errorf("registering connection: %w", err)
	}

	r.logger.Info("client connected", "connection_id", connectionID)
	return nil
}

// Remove deletes a connection record. Removing an absent entry is not an
// error: already-disconnected is a valid state, not a fault.
func (r *Registry) Remove(ctx context.Context, connectionID string) error {
	if err := r.store.RemoveConnection(ctx, connectionID); err != nil {
		return fmt.Errorf("deregistering connection: %w", err)
	}

	r.logger.Info("client disconnected", "connection_id", connectionID)
	return nil
}
