package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/openfrosh/scunt/internal/auth"
	"github.com/openfrosh/scunt/internal/model"
	"github.com/openfrosh/scunt/internal/store"
	"github.com/openfrosh/scunt/internal/websocket"
)

type AssignmentHandler struct {
	assignmentStore *store.AssignmentStore
	hub             *websocket.Hub
}

func NewAssignmentHandler(as *store.AssignmentStore, hub *websocket.Hub) *AssignmentHandler {
	return &AssignmentHandler{assignmentStore: as, hub: hub}
}

func (h *AssignmentHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

func assignmentKey(r *http.Request) (taskID, teamID int64, err error) {
	taskID, err = parsePathID(r, "task_id")
	if err != nil {
		return 0, 0, err
	}
	teamID, err = parsePathID(r, "team_id")
	return taskID, teamID, err
}

func (h *AssignmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	taskID, teamID, err := assignmentKey(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid task_id or team_id"})
		return
	}

	a, err := h.assignmentStore.Get(taskID, teamID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, a)
}

func (h *AssignmentHandler) Status(w http.ResponseWriter, r *http.Request) {
	taskID, teamID, err := assignmentKey(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid task_id or team_id"})
		return
	}

	status, err := h.assignmentStore.GetStatus(taskID, teamID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": string(status)})
}

func (h *AssignmentHandler) ListByTeam(w http.ResponseWriter, r *http.Request) {
	teamID, err := parsePathID(r, "team_id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid team_id"})
		return
	}

	assignments, err := h.assignmentStore.ListByTeam(teamID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list assignments"})
		return
	}
	if assignments == nil {
		assignments = []model.TaskAssignment{}
	}
	writeJSON(w, http.StatusOK, assignments)
}

func (h *AssignmentHandler) Submit(w http.ResponseWriter, r *http.Request) {
	taskID, teamID, err := assignmentKey(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid task_id or team_id"})
		return
	}

	if err := h.assignmentStore.Submit(taskID, teamID); err != nil {
		writeStoreError(w, err)
		return
	}

	h.broadcast(websocket.NewMessage("task", "submitted", taskID, map[string]any{"team_id": teamID}))

	writeJSON(w, http.StatusOK, map[string]string{"status": "submitted"})
}

// Approve marks the submission completed and credits the task's points to
// the team in the same transaction.
func (h *AssignmentHandler) Approve(w http.ResponseWriter, r *http.Request) {
	taskID, teamID, err := assignmentKey(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid task_id or team_id"})
		return
	}

	if err := h.assignmentStore.Approve(taskID, teamID); err != nil {
		writeStoreError(w, err)
		return
	}

	h.broadcast(websocket.NewMessage("task", "approved", taskID, map[string]any{"team_id": teamID}))

	writeJSON(w, http.StatusOK, map[string]string{"status": "completed"})
}

func (h *AssignmentHandler) Reject(w http.ResponseWriter, r *http.Request) {
	taskID, teamID, err := assignmentKey(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid task_id or team_id"})
		return
	}

	if err := h.assignmentStore.Reject(taskID, teamID); err != nil {
		writeStoreError(w, err)
		return
	}

	h.broadcast(websocket.NewMessage("task", "rejected", taskID, map[string]any{"team_id": teamID}))

	writeJSON(w, http.StatusOK, map[string]string{"status": "pending"})
}

type commentRequest struct {
	Body string `json:"body"`
}

func (h *AssignmentHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	if userID == 0 {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	taskID, teamID, err := assignmentKey(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid task_id or team_id"})
		return
	}

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Body = strings.TrimSpace(req.Body)
	if req.Body == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "body is required"})
		return
	}

	comment, err := h.assignmentStore.AddComment(taskID, teamID, userID, req.Body)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	h.broadcast(websocket.NewMessage("comment", "created", comment.ID, map[string]any{"task_id": taskID, "team_id": teamID}))

	writeJSON(w, http.StatusCreated, comment)
}

func (h *AssignmentHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	taskID, teamID, err := assignmentKey(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid task_id or team_id"})
		return
	}

	comments, err := h.assignmentStore.ListComments(taskID, teamID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if comments == nil {
		comments = []model.Comment{}
	}
	writeJSON(w, http.StatusOK, comments)
}
