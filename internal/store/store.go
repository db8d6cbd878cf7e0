// ABOUTME: Store interface and data types for interview-gateway persistence
// ABOUTME: Defines Interview, Turn, Connection structs and the Store interface

package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrDuplicateInterview is returned when trying to create an interview that already exists
var ErrDuplicateInterview = errors.New("interview already exists")

// AnonymousUser is the user identity assumed when a request carries no user_id
const AnonymousUser = "anonymous"

// Role values for interview configurations
const (
	RoleBackend  = "backend"
	RoleFrontend = "frontend"
	RoleDevops   = "devops"
)

// Seniority values for interview configurations
const (
	SeniorityJunior    = "junior"
	SenioritySenior    = "senior"
	SeniorityTechlead  = "techlead"
	SeniorityArchitect = "architect"
)

// TurnRole values for history turns
const (
	TurnRoleUser      = "user"
	TurnRoleAssistant = "assistant"
)

// Interview is the configuration record for one mock-interview conversation.
// Role and seniority are fixed at creation and never change; every system
// prompt for the conversation is built from them.
type Interview struct {
	UserID    string
	ID        string
	Role      string
	Seniority string
	CreatedAt int64 // unix milliseconds
	UpdatedAt int64 // unix milliseconds
}

// Turn is one role-tagged message within an interview's history.
// Seq is the creation time in unix milliseconds and defines the total order
// of a conversation; ties are broken by insertion order into the store.
type Turn struct {
	InterviewID string
	Seq         int64
	Role        string // "user" or "assistant"
	Content     string
}

// NewTurn builds a Turn with Seq set to the current time in milliseconds.
func NewTurn(interviewID, role, content string) *Turn {
	return &Turn{
		InterviewID: interviewID,
		Seq:         time.Now().UnixMilli(),
		Role:        role,
		Content:     content,
	}
}

// Connection records a live channel connection. Its lifetime is independent
// of any interview: it is created on connect and deleted on disconnect, and
// carries no interview linkage.
type Connection struct {
	ID          string
	ConnectedAt time.Time
}

// Store defines the interface for interview, turn, and connection persistence
type Store interface {
	// Interview configurations
	CreateInterview(ctx context.Context, interview *Interview) error
	GetInterview(ctx context.Context, userID, interviewID string) (*Interview, error)

	// Turn history
	GetHistory(ctx context.Context, interviewID string) ([]*Turn, error)
	AppendTurns(ctx context.Context, interviewID string, turns []*Turn) error

	// Connection bookkeeping
	AddConnection(ctx context.Context, conn *Connection) error
	RemoveConnection(ctx context.Context, connectionID string) error

	// Close releases any resources held by the store
	Close() error
}
