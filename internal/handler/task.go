package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/openfrosh/scunt/internal/model"
	"github.com/openfrosh/scunt/internal/store"
	"github.com/openfrosh/scunt/internal/websocket"
)

type TaskHandler struct {
	taskStore *store.TaskStore
	hub       *websocket.Hub
}

func NewTaskHandler(ts *store.TaskStore, hub *websocket.Hub) *TaskHandler {
	return &TaskHandler{taskStore: ts, hub: hub}
}

func (h *TaskHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

type taskRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Points      int    `json:"points"`
	HuntID      int64  `json:"hunt_id"`
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	task, err := h.taskStore.Create(req.Name, req.Description, req.Points, req.HuntID)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	h.broadcast(websocket.NewMessage("task", "created", task.ID, map[string]any{"hunt_id": task.HuntID}))

	writeJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	task, err := h.taskStore.GetByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get task"})
		return
	}
	if task == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "task not found"})
		return
	}

	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) ListByHunt(w http.ResponseWriter, r *http.Request) {
	huntID, err := parsePathID(r, "hunt_id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid hunt_id"})
		return
	}

	tasks, err := h.taskStore.ListByHunt(huntID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list tasks"})
		return
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

// Edit applies a partial update. The body is a flat object of column names to
// new values; unknown columns are rejected.
func (h *TaskHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if len(fields) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "no fields to update"})
		return
	}

	task, err := h.taskStore.Edit(id, fields)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	h.broadcast(websocket.NewMessage("task", "updated", task.ID, nil))

	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	if err := h.taskStore.Delete(id); err != nil {
		writeStoreError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
