// Package session is the conversational session manager.
//
// # Overview
//
// The session package services inbound channel events for multi-turn mock
// interviews. Each event is handled by an independent, short-lived unit of
// execution with no in-process state shared between invocations: the
// Registry and Handler reconstruct everything they need from the store on
// every turn.
//
// # Event Flow
//
// An inbound event carries a route, a connection id, and a raw payload:
//
//	channel frame -> Router.Dispatch -> Handler.{HandleConnect,
//	    HandleDisconnect, HandleMessage, HandleUnrecognized}
//
// For a message event the handler drives store -> composer -> completion
// client -> sender -> store:
//
//  1. Validate the payload (interview_id required)
//  2. Load the interview configuration (NotFound aborts)
//  3. Load history (empty is fine)
//  4. Compose the prompt
//  5. Invoke the completion provider
//  6. Send the reply to the originating connection
//  7. Append the user/assistant turn pair
//
// # Failure Policy
//
// Validation, lookup, and completion failures abort the turn before any
// append and are reported to the client as an error-typed payload on the
// same connection; the connection itself stays open so the user can retry.
// A store failure on the post-reply append is logged and swallowed: the
// user-facing response is guaranteed, durable history is best effort. This
// asymmetry is deliberate.
//
// # Concurrency
//
// Different conversations proceed fully in parallel. Within one
// conversation no mutual exclusion is taken; see the store package for the
// ordering trade-off.
package session
