// ABOUTME: Inbound channel event and outbound payload types for the session layer
// ABOUTME: Tagged request/response shapes validated at the boundary

package session

import (
	"context"
	"encoding/json"
	"errors"
)

// Routes for inbound channel events
const (
	RouteConnect    = "connect"
	RouteDisconnect = "disconnect"
	RouteMessage    = "message"
)

// Outbound payload types
const (
	TypeResponse = "response"
	TypeError    = "error"
)

// ErrMissingInterviewID is the validation failure for a message event that
// carries no interview identifier. It aborts the turn before any store read
// or provider call.
var ErrMissingInterviewID = errors.New("missing required parameter: interview_id")

// Event is one inbound channel event. Route selects the handling path;
// Payload is the raw frame body (empty for connect/disconnect).
type Event struct {
	Route        string
	ConnectionID string
	Payload      json.RawMessage
}

// MessagePayload is the body of a message-route event. InterviewID is
// required; UserID is optional and defaults to the anonymous identity.
type MessagePayload struct {
	InterviewID string `json:"interview_id"`
	UserID      string `json:"user_id,omitempty"`
	Message     string `json:"message"`
}

// Outbound is the payload pushed back to a specific connection.
type Outbound struct {
	Message     string `json:"message"`
	Type        string `json:"type"` // "response" or "error"
	InterviewID string `json:"interview_id"`
}

// Sender pushes an outbound payload to a specific live connection.
// The surrounding channel infrastructure supplies the implementation.
type Sender interface {
	Send(ctx context.Context, connectionID string, out *Outbound) error
}
