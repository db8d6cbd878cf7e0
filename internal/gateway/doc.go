// Package gateway is the channel infrastructure around the session layer.
//
// # Endpoints
//
//   - GET  /ws         — WebSocket channel; one connection id per socket
//   - POST /interviews — create an interview configuration record
//   - GET  /healthz    — liveness
//
// # Channel Protocol
//
// Inbound frames are JSON with an "action" field selecting the route:
//
//	{"action": "message", "interview_id": "abc123", "message": "Hi"}
//
// Connect and disconnect events are synthesized from the socket lifecycle.
// Frames with any other action (or no parsable action) are routed as
// unrecognized and answered with an error-typed payload.
//
// Outbound payloads are pushed to the originating connection:
//
//	{"message": "...", "type": "response", "interview_id": "abc123"}
//
// Transport framing is the websocket library's concern; this package only
// maps frames to session events and session replies to frames.
package gateway
