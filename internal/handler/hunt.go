package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/openfrosh/scunt/internal/model"
	"github.com/openfrosh/scunt/internal/store"
	"github.com/openfrosh/scunt/internal/websocket"
)

type HuntHandler struct {
	huntStore *store.HuntStore
	hub       *websocket.Hub
}

func NewHuntHandler(hs *store.HuntStore, hub *websocket.Hub) *HuntHandler {
	return &HuntHandler{huntStore: hs, hub: hub}
}

func (h *HuntHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

type huntRequest struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
}

func (h *HuntHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req huntRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	hunt, err := h.huntStore.Create(req.Name, req.Description, req.StartTime, req.EndTime)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, hunt)
}

func (h *HuntHandler) List(w http.ResponseWriter, r *http.Request) {
	hunts, err := h.huntStore.List()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list hunts"})
		return
	}
	if hunts == nil {
		hunts = []model.Hunt{}
	}
	writeJSON(w, http.StatusOK, hunts)
}

func (h *HuntHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	hunt, err := h.huntStore.GetByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get hunt"})
		return
	}
	if hunt == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "hunt not found"})
		return
	}

	writeJSON(w, http.StatusOK, hunt)
}

func (h *HuntHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	var req huntRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	hunt, err := h.huntStore.Update(id, req.Name, req.Description, req.StartTime, req.EndTime)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	h.broadcast(websocket.NewMessage("hunt", "updated", hunt.ID, nil))

	writeJSON(w, http.StatusOK, hunt)
}

type huntStatusRequest struct {
	Status string `json:"status"`
}

func (h *HuntHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	var req huntStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	hunt, err := h.huntStore.SetStatus(id, req.Status)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	h.broadcast(websocket.NewMessage("hunt", "status_changed", hunt.ID, map[string]any{"status": string(hunt.Status)}))

	writeJSON(w, http.StatusOK, hunt)
}

func (h *HuntHandler) Publish(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	hunt, err := h.huntStore.Publish(id)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	h.broadcast(websocket.NewMessage("hunt", "published", hunt.ID, nil))

	writeJSON(w, http.StatusOK, hunt)
}

// Start flips the hunt to STARTED and materializes an assignment row for
// every team and task pair. Refused before the scheduled start time.
func (h *HuntHandler) Start(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	if err := h.huntStore.Start(id); err != nil {
		writeStoreError(w, err)
		return
	}

	h.broadcast(websocket.NewMessage("hunt", "started", id, nil))

	writeJSON(w, http.StatusOK, map[string]string{"status": "started"})
}

func (h *HuntHandler) Close(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	if err := h.huntStore.Close(id); err != nil {
		writeStoreError(w, err)
		return
	}

	h.broadcast(websocket.NewMessage("hunt", "finished", id, nil))

	writeJSON(w, http.StatusOK, map[string]string{"status": "finished"})
}

func (h *HuntHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	if err := h.huntStore.Delete(id); err != nil {
		writeStoreError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
