package model

import "time"

type Team struct {
	ID         int64     `json:"id"`
	HuntID     int64     `json:"hunt_id"`
	Name       string    `json:"name"`
	Points     int       `json:"points"`
	MaxMembers int       `json:"max_members"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TeamMember records a user's membership on a team. A user holds at most
// one membership per hunt.
type TeamMember struct {
	TeamID    int64     `json:"team_id"`
	UserID    int64     `json:"user_id"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	RoleLeader = "leader"
	RoleMember = "member"
)
