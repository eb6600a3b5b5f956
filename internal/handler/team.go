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

type TeamHandler struct {
	teamStore *store.TeamStore
	hub       *websocket.Hub
}

func NewTeamHandler(ts *store.TeamStore, hub *websocket.Hub) *TeamHandler {
	return &TeamHandler{teamStore: ts, hub: hub}
}

func (h *TeamHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

type teamRequest struct {
	Name       string `json:"name"`
	HuntID     int64  `json:"hunt_id"`
	MaxMembers int    `json:"max_members"`
}

// Create registers a team with the caller as its leader. The leader row and
// the team row commit together, so a leader already on another team in the
// hunt leaves no team behind.
func (h *TeamHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	if userID == 0 {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	var req teamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	team, err := h.teamStore.Create(req.Name, req.HuntID, userID, req.MaxMembers)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	h.broadcast(websocket.NewMessage("team", "created", team.ID, map[string]any{"hunt_id": team.HuntID}))

	writeJSON(w, http.StatusCreated, team)
}

func (h *TeamHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	team, err := h.teamStore.GetByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get team"})
		return
	}
	if team == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "team not found"})
		return
	}

	writeJSON(w, http.StatusOK, team)
}

func (h *TeamHandler) ListByHunt(w http.ResponseWriter, r *http.Request) {
	huntID, err := parsePathID(r, "hunt_id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid hunt_id"})
		return
	}

	teams, err := h.teamStore.ListByHunt(huntID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list teams"})
		return
	}
	if teams == nil {
		teams = []model.Team{}
	}
	writeJSON(w, http.StatusOK, teams)
}

type joinRequest struct {
	Switch bool `json:"switch"`
}

func (h *TeamHandler) Join(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	if userID == 0 {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	teamID, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	var req joinRequest
	json.NewDecoder(r.Body).Decode(&req)

	if err := h.teamStore.Join(userID, teamID, req.Switch); err != nil {
		writeStoreError(w, err)
		return
	}

	h.broadcast(websocket.NewMessage("team", "member_joined", teamID, map[string]any{"user_id": userID}))

	writeJSON(w, http.StatusOK, map[string]string{"status": "joined"})
}

func (h *TeamHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	teamID, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	team, err := h.teamStore.GetByID(teamID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get team"})
		return
	}
	if team == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "team not found"})
		return
	}

	members, err := h.teamStore.ListMembers(teamID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list members"})
		return
	}
	if members == nil {
		members = []model.TeamMember{}
	}
	writeJSON(w, http.StatusOK, members)
}

// MyTeam returns the caller's team for a hunt, or 404 when they have none.
func (h *TeamHandler) MyTeam(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	if userID == 0 {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	huntID, err := parsePathID(r, "hunt_id")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid hunt_id"})
		return
	}

	team, err := h.teamStore.TeamForUser(huntID, userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get team"})
		return
	}
	if team == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no team for this hunt"})
		return
	}

	writeJSON(w, http.StatusOK, team)
}

func (h *TeamHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	if err := h.teamStore.Delete(id); err != nil {
		writeStoreError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
