package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/openfrosh/scunt/internal/auth"
	"github.com/openfrosh/scunt/internal/store"
)

type UserHandler struct {
	userStore *store.UserStore
	jwtSecret []byte
}

func NewUserHandler(us *store.UserStore, jwtSecret []byte) *UserHandler {
	return &UserHandler{userStore: us, jwtSecret: jwtSecret}
}

type registerRequest struct {
	Username    string `json:"username"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phone_number"`
	IsAdmin     bool   `json:"is_admin"`
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "password is required"})
		return
	}

	user, err := h.userStore.Create(req.Username, req.FirstName, req.LastName, req.Email, req.Password, req.PhoneNumber, req.IsAdmin)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	token, err := auth.IssueToken(h.jwtSecret, user.ID, user.IsAdmin)
	if err != nil {
		log.Printf("failed to issue token: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to issue token"})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"user": user, "token": token})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	user, err := h.userStore.Authenticate(strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	token, err := auth.IssueToken(h.jwtSecret, user.ID, user.IsAdmin)
	if err != nil {
		log.Printf("failed to issue token: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to issue token"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": user, "token": token})
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	if userID == 0 {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	user, err := h.userStore.GetByID(userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get user"})
		return
	}
	if user == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "user not found"})
		return
	}

	writeJSON(w, http.StatusOK, user)
}

type updateUserRequest struct {
	Fields []string `json:"fields"`
	Values []string `json:"values"`
}

// Update edits the authenticated user's own record. Fields and values are
// parallel slices so clients can patch any subset of editable columns.
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r.Context())
	if userID == 0 {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
		return
	}

	current, err := h.userStore.GetByID(userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get user"})
		return
	}
	if current == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "user not found"})
		return
	}

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if len(req.Fields) == 0 || len(req.Fields) != len(req.Values) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "fields and values must be non-empty and the same length"})
		return
	}

	user, err := h.userStore.Update(current.Email, req.Fields, req.Values)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
