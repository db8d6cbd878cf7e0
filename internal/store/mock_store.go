// ABOUTME: Mock Store implementation for testing
// ABOUTME: Allows tests to run without SQLite

package store

import (
	"context"
	"sort"
	"sync"
)

// MockStore is an in-memory Store implementation for testing.
type MockStore struct {
	mu          sync.RWMutex
	interviews  map[string]*Interview // keyed by "userID:interviewID"
	turns       map[string][]*Turn    // keyed by interviewID, in append order
	connections map[string]*Connection

	// Failure injection and call accounting for handler tests
	FailAppend        error
	FailConnection    error
	GetInterviewCalls int
	GetHistoryCalls   int
	AppendCalls       int
}

// NewMockStore creates a new MockStore.
func NewMockStore() *MockStore {
	return &MockStore{
		interviews:  make(map[string]*Interview),
		turns:       make(map[string][]*Turn),
		connections: make(map[string]*Connection),
	}
}

func interviewKey(userID, interviewID string) string {
	if userID == "" {
		userID = AnonymousUser
	}
	return userID + ":" + interviewID
}

// CreateInterview stores a new interview configuration.
func (m *MockStore) CreateInterview(ctx context.Context, interview *Interview) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := interviewKey(interview.UserID, interview.ID)
	if _, exists := m.interviews[key]; exists {
		return ErrDuplicateInterview
	}

	// Make a copy to avoid external modification
	iv := *interview
	if iv.UserID == "" {
		iv.UserID = AnonymousUser
	}
	m.interviews[key] = &iv
	return nil
}

// GetInterview retrieves an interview configuration.
func (m *MockStore) GetInterview(ctx context.Context, userID, interviewID string) (*Interview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GetInterviewCalls++

	iv, exists := m.interviews[interviewKey(userID, interviewID)]
	if !exists {
		return nil, ErrNotFound
	}

	result := *iv
	return &result, nil
}

// GetHistory returns the interview's turns ordered by seq, insertion order
// breaking ties.
func (m *MockStore) GetHistory(ctx context.Context, interviewID string) ([]*Turn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GetHistoryCalls++

	stored := m.turns[interviewID]
	result := make([]*Turn, len(stored))
	for i, turn := range stored {
		t := *turn
		result[i] = &t
	}

	// Stable sort preserves append order within equal seq values
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Seq < result[j].Seq
	})

	return result, nil
}

// AppendTurns appends turns to the interview's history.
func (m *MockStore) AppendTurns(ctx context.Context, interviewID string, turns []*Turn) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.AppendCalls++
	if m.FailAppend != nil {
		return m.FailAppend
	}

	for _, turn := range turns {
		t := *turn
		t.InterviewID = interviewID
		m.turns[interviewID] = append(m.turns[interviewID], &t)
	}
	return nil
}

// AddConnection records a connection.
func (m *MockStore) AddConnection(ctx context.Context, conn *Connection) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailConnection != nil {
		return m.FailConnection
	}

	c := *conn
	m.connections[c.ID] = &c
	return nil
}

// RemoveConnection deletes a connection record; absent entries are not an error.
func (m *MockStore) RemoveConnection(ctx context.Context, connectionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailConnection != nil {
		return m.FailConnection
	}

	delete(m.connections, connectionID)
	return nil
}

// ConnectionCount returns the number of registered connections.
func (m *MockStore) ConnectionCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.connections)
}

// HasConnection reports whether a connection is currently registered.
func (m *MockStore) HasConnection(connectionID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, exists := m.connections[connectionID]
	return exists
}

// TurnCount returns the number of stored turns for an interview.
func (m *MockStore) TurnCount(interviewID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.turns[interviewID])
}

// Close is a no-op for the mock store.
func (m *MockStore) Close() error {
	return nil
}

// Ensure MockStore implements Store interface
var _ Store = (*MockStore)(nil)
