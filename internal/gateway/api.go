// ABOUTME: REST surface for interview configuration records
// ABOUTME: POST /interviews creates a config; validation happens at this boundary

package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/tucoach/interview-gateway/internal/store"
)

var (
	allowedRoles       = []string{store.RoleBackend, store.RoleFrontend, store.RoleDevops}
	allowedSeniorities = []string{store.SeniorityJunior, store.SenioritySenior, store.SeniorityTechlead, store.SeniorityArchitect}
)

// createInterviewRequest is the POST /interviews body. Both fields are
// optional; defaults mirror the most common configuration.
type createInterviewRequest struct {
	Role      string `json:"role"`
	Seniority string `json:"seniority"`
}

type interviewResponse struct {
	UserID      string `json:"user_id"`
	InterviewID string `json:"interview_id"`
	Role        string `json:"role"`
	Seniority   string `json:"seniority"`
	CreatedAt   int64  `json:"created_at"`
	UpdatedAt   int64  `json:"updated_at"`
}

type errorResponse struct {
	Message string `json:"message"`
}

func writeCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
	w.Header().Set("Access-Control-Allow-Methods", "OPTIONS,POST,GET")
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// handleInterviews serves the interviews resource. The session manager
// trusts records created here: role and seniority are validated against the
// closed enumerations once, at creation, and never re-validated per turn.
func (g *Gateway) handleInterviews(w http.ResponseWriter, r *http.Request) {
	writeCORS(w)

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
	case http.MethodPost:
		g.createInterview(w, r)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Message: "method not allowed"})
	}
}

func (g *Gateway) createInterview(w http.ResponseWriter, r *http.Request) {
	var req createInterviewRequest
	// An empty body falls back to defaults; a malformed one is rejected
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid request body"})
		return
	}

	if req.Role == "" {
		req.Role = store.RoleBackend
	}
	if req.Seniority == "" {
		req.Seniority = store.SeniorityJunior
	}

	if !contains(allowedRoles, req.Role) || !contains(allowedSeniorities, req.Seniority) {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Message: fmt.Sprintf("Invalid role or seniority. Allowed roles: %v, allowed seniorities: %v",
				allowedRoles, allowedSeniorities),
		})
		return
	}

	now := time.Now().UnixMilli()
	interview := &store.Interview{
		UserID:    store.AnonymousUser,
		ID:        uuid.New().String(),
		Role:      req.Role,
		Seniority: req.Seniority,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := g.store.CreateInterview(r.Context(), interview); err != nil {
		g.logger.Error("error creating interview", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "Error creating interview"})
		return
	}

	g.logger.Info("interview created", "interview_id", interview.ID, "role", interview.Role, "seniority", interview.Seniority)
	writeJSON(w, http.StatusOK, interviewResponse{
		UserID:      interview.UserID,
		InterviewID: interview.ID,
		Role:        interview.Role,
		Seniority:   interview.Seniority,
		CreatedAt:   interview.CreatedAt,
		UpdatedAt:   interview.UpdatedAt,
	})
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
