// ABOUTME: WebSocket channel endpoint: connection lifecycle and frame dispatch
// ABOUTME: Each frame becomes a session event handled in its own goroutine

package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/tucoach/interview-gateway/internal/session"
)

// connSet holds the open sockets so replies can be pushed to a specific
// connection id. This is transport plumbing, not session state: everything
// the session layer needs across turns lives in the store.
type connSet struct {
	mu     sync.RWMutex
	conns  map[string]*websocket.Conn
	logger *slog.Logger
}

func newConnSet(logger *slog.Logger) *connSet {
	if logger == nil {
		logger = slog.Default()
	}
	return &connSet{
		conns:  make(map[string]*websocket.Conn),
		logger: logger.With("component", "channel"),
	}
}

func (c *connSet) add(id string, conn *websocket.Conn) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conns[id] = conn
}

func (c *connSet) remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.conns, id)
}

// Send pushes an outbound payload to the given connection as a text frame.
func (c *connSet) Send(ctx context.Context, connectionID string, out *session.Outbound) error {
	c.mu.RLock()
	conn, ok := c.conns[connectionID]
	c.mu.RUnlock()

	if !ok {
		return fmt.Errorf("connection %s is not open", connectionID)
	}

	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("encoding outbound payload: %w", err)
	}

	if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
		return fmt.Errorf("writing to connection %s: %w", connectionID, err)
	}
	return nil
}

// Ensure connSet implements session.Sender
var _ session.Sender = (*connSet)(nil)

// handleChannel upgrades the request to a WebSocket, registers the
// connection, and dispatches one session event per inbound frame. The frame's
// "action" field plays the role of the route key; unknown actions reach the
// session layer as unrecognized events and are answered, not dropped.
func (g *Gateway) handleChannel(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		g.logger.Error("websocket accept failed", "error", err)
		return
	}

	connectionID := uuid.New().String()
	ctx := r.Context()

	if err := g.router.Dispatch(ctx, &session.Event{
		Route:        session.RouteConnect,
		ConnectionID: connectionID,
	}); err != nil {
		g.logger.Error("connect failed", "connection_id", connectionID, "error", err)
		conn.Close(websocket.StatusInternalError, "failed to connect")
		return
	}

	g.conns.add(connectionID, conn)

	defer func() {
		g.conns.remove(connectionID)
		conn.Close(websocket.StatusNormalClosure, "")

		// Disconnect is dispatched on a fresh context: the request context
		// is already done when the socket drops.
		g.router.Dispatch(context.Background(), &session.Event{
			Route:        session.RouteDisconnect,
			ConnectionID: connectionID,
		})
	}()

	for {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				return
			}
			g.logger.Debug("read loop ended", "connection_id", connectionID, "error", err)
			return
		}
		if typ != websocket.MessageText {
			continue
		}

		event := &session.Event{
			Route:        routeOf(data),
			ConnectionID: connectionID,
			Payload:      data,
		}

		// Each inbound event is an independent, short-lived unit of
		// execution; turns for different conversations proceed in parallel.
		go func() {
			if err := g.router.Dispatch(ctx, event); err != nil {
				g.logger.Debug("event handling failed",
					"route", event.Route,
					"connection_id", connectionID,
					"error", err,
				)
			}
		}()
	}
}

// routeOf extracts the action field from a frame, tolerating malformed
// bodies. A frame with no recognizable action routes as unrecognized.
func routeOf(data []byte) string {
	var probe struct {
		Action string `json:"action"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return ""
	}
	return probe.Action
}
