// ABOUTME: Tests for the gateway HTTP surface and WebSocket channel
// ABOUTME: Covers interview creation, health, and end-to-end channel turns

package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tucoach/interview-gateway/internal/completion"
	"github.com/tucoach/interview-gateway/internal/config"
	"github.com/tucoach/interview-gateway/internal/prompt"
	"github.com/tucoach/interview-gateway/internal/session"
	"github.com/tucoach/interview-gateway/internal/store"
)

type cannedCompleter struct {
	text string
	err  error
}

func (c *cannedCompleter) Complete(ctx context.Context, pc *prompt.Context) (*completion.Result, error) {
	if c.err != nil {
		return nil, c.err
	}
	return &completion.Result{Text: c.text}, nil
}

func testGateway(t *testing.T) (*Gateway, *store.MockStore, *httptest.Server) {
	t.Helper()

	cfg := &config.Config{
		Server:   config.ServerConfig{HTTPAddr: "127.0.0.1:0"},
		Database: config.DatabaseConfig{Path: "unused"},
		Provider: config.ProviderConfig{BaseURL: "http://unused", Model: "test-model"},
	}
	mockStore := store.NewMockStore()
	completer := &cannedCompleter{text: "Tell me about your backend experience."}

	g := newGateway(cfg, nil, mockStore, completer)
	srv := httptest.NewServer(g.Routes())
	t.Cleanup(srv.Close)

	return g, mockStore, srv
}

func TestNewGateway_NilLoggerDefaults(t *testing.T) {
	cfg := &config.Config{
		Server:   config.ServerConfig{HTTPAddr: "127.0.0.1:0"},
		Database: config.DatabaseConfig{Path: "unused"},
		Provider: config.ProviderConfig{BaseURL: "http://unused", Model: "test-model"},
	}

	g := newGateway(cfg, nil, store.NewMockStore(), &cannedCompleter{text: "ok"})
	require.NotNil(t, g)
	require.NotNil(t, g.logger)

	srv := httptest.NewServer(g.Routes())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHealthz(t *testing.T) {
	_, _, srv := testGateway(t)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCreateInterview_Defaults(t *testing.T) {
	_, mockStore, srv := testGateway(t)

	resp, err := http.Post(srv.URL+"/interviews", "application/json", bytes.NewBufferString("{}"))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var created struct {
		UserID      string `json:"user_id"`
		InterviewID string `json:"interview_id"`
		Role        string `json:"role"`
		Seniority   string `json:"seniority"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))

	assert.Equal(t, store.AnonymousUser, created.UserID)
	assert.NotEmpty(t, created.InterviewID)
	assert.Equal(t, store.RoleBackend, created.Role)
	assert.Equal(t, store.SeniorityJunior, created.Seniority)

	// Record is durably created
	_, err = mockStore.GetInterview(context.Background(), store.AnonymousUser, created.InterviewID)
	require.NoError(t, err)
}

func TestCreateInterview_CustomValues(t *testing.T) {
	_, _, srv := testGateway(t)

	body := bytes.NewBufferString(`{"role": "devops", "seniority": "architect"}`)
	resp, err := http.Post(srv.URL+"/interviews", "application/json", body)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var created struct {
		Role      string `json:"role"`
		Seniority string `json:"seniority"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, store.RoleDevops, created.Role)
	assert.Equal(t, store.SeniorityArchitect, created.Seniority)
}

func TestCreateInterview_InvalidEnum(t *testing.T) {
	_, _, srv := testGateway(t)

	body := bytes.NewBufferString(`{"role": "astronaut"}`)
	resp, err := http.Post(srv.URL+"/interviews", "application/json", body)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errBody struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&errBody))
	assert.Contains(t, errBody.Message, "Invalid role or seniority")
}

func TestCreateInterview_CORSPreflight(t *testing.T) {
	_, _, srv := testGateway(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/interviews", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func dialChannel(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	conn, _, err := websocket.Dial(ctx, srv.URL+"/ws", nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		conn.Close(websocket.StatusNormalClosure, "")
	})
	return conn
}

func readOutbound(t *testing.T, conn *websocket.Conn) *session.Outbound {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, data, err := conn.Read(ctx)
	require.NoError(t, err)

	var out session.Outbound
	require.NoError(t, json.Unmarshal(data, &out))
	return &out
}

func TestChannel_EndToEndTurn(t *testing.T) {
	_, mockStore, srv := testGateway(t)
	ctx := context.Background()

	now := time.Now().UnixMilli()
	require.NoError(t, mockStore.CreateInterview(ctx, &store.Interview{
		ID:        "abc123",
		Role:      store.RoleBackend,
		Seniority: store.SeniorityJunior,
		CreatedAt: now,
		UpdatedAt: now,
	}))

	conn := dialChannel(t, srv)

	frame, _ := json.Marshal(map[string]string{
		"action":       "message",
		"interview_id": "abc123",
		"message":      "Hi",
	})
	require.NoError(t, conn.Write(ctx, websocket.MessageText, frame))

	out := readOutbound(t, conn)
	assert.Equal(t, "Tell me about your backend experience.", out.Message)
	assert.Equal(t, session.TypeResponse, out.Type)
	assert.Equal(t, "abc123", out.InterviewID)

	// The turn pair lands after the reply; wait for the append
	require.Eventually(t, func() bool {
		return mockStore.TurnCount("abc123") == 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestChannel_UnknownActionAnswersError(t *testing.T) {
	_, mockStore, srv := testGateway(t)

	conn := dialChannel(t, srv)
	ctx := context.Background()

	frame, _ := json.Marshal(map[string]string{"action": "ping"})
	require.NoError(t, conn.Write(ctx, websocket.MessageText, frame))

	out := readOutbound(t, conn)
	assert.Equal(t, session.TypeError, out.Type)
	assert.Contains(t, out.Message, "Unsupported action")
	assert.Equal(t, "", out.InterviewID)
	assert.Zero(t, mockStore.GetHistoryCalls)
}

func TestChannel_MissingInterviewIDAnswersError(t *testing.T) {
	_, _, srv := testGateway(t)

	conn := dialChannel(t, srv)
	ctx := context.Background()

	frame, _ := json.Marshal(map[string]string{"action": "message", "message": "Hi"})
	require.NoError(t, conn.Write(ctx, websocket.MessageText, frame))

	out := readOutbound(t, conn)
	assert.Equal(t, session.TypeError, out.Type)
}

func TestChannel_ConnectionLifecycleInStore(t *testing.T) {
	_, mockStore, srv := testGateway(t)

	conn := dialChannel(t, srv)

	// Connect registered exactly one connection
	require.Eventually(t, func() bool {
		return mockStore.ConnectionCount() == 1
	}, 2*time.Second, 10*time.Millisecond)

	conn.Close(websocket.StatusNormalClosure, "")

	require.Eventually(t, func() bool {
		return mockStore.ConnectionCount() == 0
	}, 2*time.Second, 10*time.Millisecond)
}
