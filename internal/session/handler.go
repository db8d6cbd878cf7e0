// ABOUTME: MessageHandler orchestrates one conversation turn end to end
// ABOUTME: Load config and history, compose, complete, reply, then persist

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tucoach/interview-gateway/internal/completion"
	"github.com/tucoach/interview-gateway/internal/prompt"
	"github.com/tucoach/interview-gateway/internal/store"
)

// InterviewStore defines what the handler needs from storage
type InterviewStore interface {
	GetInterview(ctx context.Context, userID, interviewID string) (*store.Interview, error)
	GetHistory(ctx context.Context, interviewID string) ([]*store.Turn, error)
	AppendTurns(ctx context.Context, interviewID string, turns []*store.Turn) error
}

// Handler services inbound channel events. Every dependency is injected;
// nothing is bound at package level, so each invocation reconstructs its
// view of the session from the store.
type Handler struct {
	store     InterviewStore
	registry  *Registry
	completer completion.Client
	sender    Sender
	logger    *slog.Logger
}

// NewHandler creates a Handler with explicit dependencies.
func NewHandler(s InterviewStore, registry *Registry, completer completion.Client, sender Sender, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		store:     s,
		registry:  registry,
		completer: completer,
		sender:    sender,
		logger:    logger.With("component", "session"),
	}
}

// HandleConnect registers the connection. A store failure here surfaces to
// the transport so the connection is refused rather than half-registered.
func (h *Handler) HandleConnect(ctx context.Context, event *Event) error {
	return h.registry.Add(ctx, event.ConnectionID, time.Now())
}

// HandleDisconnect deregisters the connection. Errors are logged but not
// propagated: disconnect must always appear to succeed from the channel's
// perspective.
func (h *Handler) HandleDisconnect(ctx context.Context, event *Event) error {
	if err := h.registry.Remove(ctx, event.ConnectionID); err != nil {
		h.logger.Error("error removing connection", "connection_id", event.ConnectionID, "error", err)
	}
	return nil
}

// HandleMessage drives one conversation turn:
//
//  1. Parse and validate the payload (interview_id is required).
//  2. Load the interview configuration.
//  3. Load history (may be empty).
//  4. Compose the prompt.
//  5. Invoke the completion provider.
//  6. Send the generated reply to the originating connection.
//  7. Append the user/assistant turn pair to the store.
//
// Validation, lookup, and completion failures abort before any append and
// are reported to the client as an error-typed payload on the same
// connection. An append failure after the reply was sent is logged and
// swallowed: the client-visible outcome stays "answered" even when durable
// history recording failed.
func (h *Handler) HandleMessage(ctx context.Context, event *Event) error {
	reply, err := h.processMessage(ctx, event)
	if err != nil {
		interviewID := extractInterviewID(event.Payload)
		h.logger.Error("error processing message",
			"connection_id", event.ConnectionID,
			"interview_id", interviewID,
			"error", err,
		)

		errOut := &Outbound{
			Message:     fmt.Sprintf("Error processing message: %v", err),
			Type:        TypeError,
			InterviewID: interviewID,
		}
		if sendErr := h.sender.Send(ctx, event.ConnectionID, errOut); sendErr != nil {
			h.logger.Error("error sending error message", "connection_id", event.ConnectionID, "error", sendErr)
		}
		return err
	}

	h.logger.Info("turn completed",
		"connection_id", event.ConnectionID,
		"interview_id", reply.InterviewID,
	)
	return nil
}

// processMessage runs steps 1-7 and returns the reply that was sent.
func (h *Handler) processMessage(ctx context.Context, event *Event) (*Outbound, error) {
	var payload MessagePayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		return nil, fmt.Errorf("parsing message payload: %w", err)
	}
	if payload.InterviewID == "" {
		return nil, ErrMissingInterviewID
	}

	interview, err := h.store.GetInterview(ctx, payload.UserID, payload.InterviewID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("interview not found with the provided interview_id: %w", err)
		}
		return nil, fmt.Errorf("loading interview: %w", err)
	}

	history, err := h.store.GetHistory(ctx, payload.InterviewID)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}

	pc, err := prompt.Compose(interview, history, payload.Message)
	if err != nil {
		return nil, fmt.Errorf("composing prompt: %w", err)
	}

	h.logger.Debug("invoking completion",
		"interview_id", payload.InterviewID,
		"history_turns", len(history),
	)

	result, err := h.completer.Complete(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("completion failed: %w", err)
	}

	reply := &Outbound{
		Message:     result.Text,
		Type:        TypeResponse,
		InterviewID: payload.InterviewID,
	}
	if err := h.sender.Send(ctx, event.ConnectionID, reply); err != nil {
		return nil, fmt.Errorf("sending reply: %w", err)
	}

	// Best-effort persistence behind a guaranteed user-facing response:
	// the reply already reached the client and is never retracted.
	turns := []*store.Turn{
		store.NewTurn(payload.InterviewID, store.TurnRoleUser, payload.Message),
		store.NewTurn(payload.InterviewID, store.TurnRoleAssistant, result.Text),
	}
	if err := h.store.AppendTurns(ctx, payload.InterviewID, turns); err != nil {
		h.logger.Error("error saving chat history",
			"interview_id", payload.InterviewID,
			"error", err,
		)
	}

	return reply, nil
}

// HandleUnrecognized answers any unknown route with a client-visible error.
// The interview id is extracted from the payload on a best-effort basis for
// diagnostic context. Never fails.
func (h *Handler) HandleUnrecognized(ctx context.Context, event *Event) error {
	interviewID := extractInterviewID(event.Payload)
	h.logger.Info("unrecognized route",
		"route", event.Route,
		"connection_id", event.ConnectionID,
		"interview_id", interviewID,
	)

	out := &Outbound{
		Message:     "Unsupported action. Please use 'message' action and include a valid interview_id.",
		Type:        TypeError,
		InterviewID: interviewID,
	}
	if err := h.sender.Send(ctx, event.ConnectionID, out); err != nil {
		h.logger.Error("error handling unrecognized route", "connection_id", event.ConnectionID, "error", err)
	}
	return nil
}

// extractInterviewID pulls interview_id out of a raw payload, tolerating
// malformed or absent bodies.
func extractInterviewID(payload json.RawMessage) string {
	if len(payload) == 0 {
		return ""
	}
	var probe struct {
		InterviewID string `json:"interview_id"`
	}
	if err := json.Unmarshal(payload, &probe); err != nil {
		return ""
	}
	return probe.InterviewID
}
