package model

import (
	"time"

	"github.com/openfrosh/scunt/internal/lifecycle"
)

type Task struct {
	ID          int64     `json:"id"`
	HuntID      int64     `json:"hunt_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Points      int       `json:"points"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TaskAssignment tracks one team's progress on one task. Rows exist only
// for hunts that have started.
type TaskAssignment struct {
	TaskID    int64                      `json:"task_id"`
	TeamID    int64                      `json:"team_id"`
	Status    lifecycle.AssignmentStatus `json:"status"`
	CreatedAt time.Time                  `json:"created_at"`
	UpdatedAt time.Time                  `json:"updated_at"`
}
