package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/openfrosh/scunt/internal/handler"
	"github.com/openfrosh/scunt/internal/middleware"
	"github.com/openfrosh/scunt/internal/store"
	ws "github.com/openfrosh/scunt/internal/websocket"
)

type Server struct {
	db          *sql.DB
	hub         *ws.Hub
	userH       *handler.UserHandler
	huntH       *handler.HuntHandler
	teamH       *handler.TeamHandler
	taskH       *handler.TaskHandler
	assignmentH *handler.AssignmentHandler
	jwtSecret   []byte
	rateLimiter *middleware.RateLimiter
	logger      *slog.Logger
}

func New(db *sql.DB, jwtSecret []byte, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	userStore := store.NewUserStore(db)
	huntStore := store.NewHuntStore(db)
	teamStore := store.NewTeamStore(db)
	taskStore := store.NewTaskStore(db)
	assignmentStore := store.NewAssignmentStore(db)

	return &Server{
		db:          db,
		hub:         hub,
		userH:       handler.NewUserHandler(userStore, jwtSecret),
		huntH:       handler.NewHuntHandler(huntStore, hub),
		teamH:       handler.NewTeamHandler(teamStore, hub),
		taskH:       handler.NewTaskHandler(taskStore, hub),
		assignmentH: handler.NewAssignmentHandler(assignmentStore, hub),
		jwtSecret:   jwtSecret,
		rateLimiter: middleware.NewRateLimiter(),
		logger:      logger,
	}
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

// Hub returns the websocket hub.
func (s *Server) Hub() *ws.Hub {
	return s.hub
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("POST /api/register", s.rateLimitedHandler(s.userH.Register))
	outerMux.HandleFunc("POST /api/login", s.rateLimitedHandler(s.userH.Login))
	outerMux.HandleFunc("GET /health", s.healthHandler)
	outerMux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub))

	// Protected routes, wrapped with RequireAuth middleware
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.jwtSecret)
	outerMux.Handle("/api/", authMiddleware(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

// organizer wraps a handler so only admin users may call it.
func organizer(h http.HandlerFunc) http.Handler {
	return middleware.RequireAdmin(h)
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	// User routes
	mux.HandleFunc("GET /api/me", s.userH.Me)
	mux.HandleFunc("PUT /api/me", s.userH.Update)

	// Hunt routes
	mux.HandleFunc("GET /api/hunts", s.huntH.List)
	mux.HandleFunc("GET /api/hunts/{id}", s.huntH.Get)
	mux.Handle("POST /api/hunts", organizer(s.huntH.Create))
	mux.Handle("PUT /api/hunts/{id}", organizer(s.huntH.Update))
	mux.Handle("DELETE /api/hunts/{id}", organizer(s.huntH.Delete))
	mux.Handle("PUT /api/hunts/{id}/status", organizer(s.huntH.SetStatus))
	mux.Handle("POST /api/hunts/{id}/publish", organizer(s.huntH.Publish))
	mux.Handle("POST /api/hunts/{id}/start", organizer(s.huntH.Start))
	mux.Handle("POST /api/hunts/{id}/close", organizer(s.huntH.Close))

	// Team routes
	mux.HandleFunc("POST /api/teams", s.teamH.Create)
	mux.HandleFunc("GET /api/teams/{id}", s.teamH.Get)
	mux.HandleFunc("GET /api/hunts/{hunt_id}/teams", s.teamH.ListByHunt)
	mux.HandleFunc("GET /api/hunts/{hunt_id}/my-team", s.teamH.MyTeam)
	mux.HandleFunc("POST /api/teams/{id}/join", s.teamH.Join)
	mux.HandleFunc("GET /api/teams/{id}/members", s.teamH.ListMembers)
	mux.Handle("DELETE /api/teams/{id}", organizer(s.teamH.Delete))

	// Task routes
	mux.HandleFunc("GET /api/tasks/{id}", s.taskH.Get)
	mux.HandleFunc("GET /api/hunts/{hunt_id}/tasks", s.taskH.ListByHunt)
	mux.Handle("POST /api/tasks", organizer(s.taskH.Create))
	mux.Handle("PATCH /api/tasks/{id}", organizer(s.taskH.Edit))
	mux.Handle("DELETE /api/tasks/{id}", organizer(s.taskH.Delete))

	// Assignment routes, keyed by task and team
	mux.HandleFunc("GET /api/teams/{team_id}/assignments", s.assignmentH.ListByTeam)
	mux.HandleFunc("GET /api/tasks/{task_id}/teams/{team_id}", s.assignmentH.Get)
	mux.HandleFunc("GET /api/tasks/{task_id}/teams/{team_id}/status", s.assignmentH.Status)
	mux.HandleFunc("POST /api/tasks/{task_id}/teams/{team_id}/submit", s.assignmentH.Submit)
	mux.Handle("POST /api/tasks/{task_id}/teams/{team_id}/approve", organizer(s.assignmentH.Approve))
	mux.Handle("POST /api/tasks/{task_id}/teams/{team_id}/reject", organizer(s.assignmentH.Reject))
	mux.HandleFunc("POST /api/tasks/{task_id}/teams/{team_id}/comments", s.assignmentH.AddComment)
	mux.HandleFunc("GET /api/tasks/{task_id}/teams/{team_id}/comments", s.assignmentH.ListComments)
}
