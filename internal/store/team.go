package store

import (
	"database/sql"
	"fmt"

	"github.com/openfrosh/scunt/internal/model"
)

type TeamStore struct {
	db *sql.DB
}

func NewTeamStore(db *sql.DB) *TeamStore {
	return &TeamStore{db: db}
}

func scanTeam(scanner interface{ Scan(...any) error }) (*model.Team, error) {
	var t model.Team
	err := scanner.Scan(&t.ID, &t.HuntID, &t.Name, &t.Points, &t.MaxMembers, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func scanTeamMember(scanner interface{ Scan(...any) error }) (*model.TeamMember, error) {
	var m model.TeamMember
	err := scanner.Scan(&m.TeamID, &m.UserID, &m.Role, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

const teamCols = `id, hunt_id, name, points, max_members, created_at, updated_at`
const teamMemberCols = `team_id, user_id, role, created_at, updated_at`

// Create inserts a team under a hunt together with its leader's
// membership. The two inserts are one unit: if the leader already belongs
// to a team in this hunt, no team row persists.
func (s *TeamStore) Create(name string, huntID, leaderID int64, maxMembers int) (*model.Team, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM hunts WHERE id = ?`, huntID).Scan(&count); err != nil {
		return nil, fmt.Errorf("check hunt: %w", err)
	}
	if count == 0 {
		return nil, fmt.Errorf("hunt %d: %w", huntID, ErrNotFound)
	}

	if err := tx.QueryRow(`SELECT COUNT(*) FROM teams WHERE hunt_id = ? AND name = ?`, huntID, name).Scan(&count); err != nil {
		return nil, fmt.Errorf("check team name: %w", err)
	}
	if count > 0 {
		return nil, ErrDuplicateName
	}

	if err := tx.QueryRow(
		`SELECT COUNT(*) FROM team_members tm JOIN teams t ON tm.team_id = t.id
		 WHERE t.hunt_id = ? AND tm.user_id = ?`,
		huntID, leaderID,
	).Scan(&count); err != nil {
		return nil, fmt.Errorf("check leader membership: %w", err)
	}
	if count > 0 {
		return nil, ErrUserAlreadyOnTeam
	}

	result, err := tx.Exec(
		`INSERT INTO teams (hunt_id, name, points, max_members) VALUES (?, ?, 0, ?)`,
		huntID, name, maxMembers,
	)
	if err != nil {
		return nil, fmt.Errorf("insert team: %w", err)
	}
	teamID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	if _, err := tx.Exec(
		`INSERT INTO team_members (team_id, user_id, role) VALUES (?, ?, ?)`,
		teamID, leaderID, model.RoleLeader,
	); err != nil {
		return nil, fmt.Errorf("insert leader membership: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return s.GetByID(teamID)
}

func (s *TeamStore) GetByID(id int64) (*model.Team, error) {
	row := s.db.QueryRow(`SELECT `+teamCols+` FROM teams WHERE id = ?`, id)
	t, err := scanTeam(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get team: %w", err)
	}
	return t, nil
}

func (s *TeamStore) ListByHunt(huntID int64) ([]model.Team, error) {
	rows, err := s.db.Query(
		`SELECT `+teamCols+` FROM teams WHERE hunt_id = ? ORDER BY points DESC, name ASC`,
		huntID,
	)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	defer rows.Close()

	var teams []model.Team
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("scan team: %w", err)
		}
		teams = append(teams, *t)
	}
	return teams, rows.Err()
}

// TeamForUser returns the team the user belongs to within the given hunt,
// or nil if they have none.
func (s *TeamStore) TeamForUser(huntID, userID int64) (*model.Team, error) {
	row := s.db.QueryRow(
		`SELECT t.id, t.hunt_id, t.name, t.points, t.max_members, t.created_at, t.updated_at
		 FROM teams t JOIN team_members tm ON tm.team_id = t.id
		 WHERE t.hunt_id = ? AND tm.user_id = ?`,
		huntID, userID,
	)
	t, err := scanTeam(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("team for user: %w", err)
	}
	return t, nil
}

// Join adds a user to a team. Joining the team they are already on is a
// no-op. Joining a different team in the same hunt fails unless
// allowSwitch is set, in which case the old membership is removed and the
// new one inserted atomically.
func (s *TeamStore) Join(userID, teamID int64, allowSwitch bool) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRow(`SELECT `+teamCols+` FROM teams WHERE id = ?`, teamID)
	team, err := scanTeam(row)
	if err == sql.ErrNoRows {
		return fmt.Errorf("team %d: %w", teamID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("get team: %w", err)
	}

	var currentTeamID int64
	err = tx.QueryRow(
		`SELECT t.id FROM teams t JOIN team_members tm ON tm.team_id = t.id
		 WHERE t.hunt_id = ? AND tm.user_id = ?`,
		team.HuntID, userID,
	).Scan(&currentTeamID)
	switch {
	case err == sql.ErrNoRows:
		// Not on any team in this hunt yet.
	case err != nil:
		return fmt.Errorf("current team lookup: %w", err)
	case currentTeamID == teamID:
		return nil
	case !allowSwitch:
		return ErrUserAlreadyOnTeam
	default:
		if _, err := tx.Exec(
			`DELETE FROM team_members WHERE team_id = ? AND user_id = ?`,
			currentTeamID, userID,
		); err != nil {
			return fmt.Errorf("remove old membership: %w", err)
		}
	}

	var memberCount int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM team_members WHERE team_id = ?`, teamID).Scan(&memberCount); err != nil {
		return fmt.Errorf("count members: %w", err)
	}
	// max_members of 0 means no cap.
	if team.MaxMembers > 0 && memberCount >= team.MaxMembers {
		return ErrTeamFull
	}

	if _, err := tx.Exec(
		`INSERT INTO team_members (team_id, user_id, role) VALUES (?, ?, ?)`,
		teamID, userID, model.RoleMember,
	); err != nil {
		return fmt.Errorf("insert membership: %w", err)
	}

	return tx.Commit()
}

// Delete removes a team and cascades its memberships and assignments.
// Deleting a team that does not exist is a no-op.
func (s *TeamStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM teams WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete team: %w", err)
	}
	return nil
}

func (s *TeamStore) ListMembers(teamID int64) ([]model.TeamMember, error) {
	rows, err := s.db.Query(
		`SELECT `+teamMemberCols+` FROM team_members WHERE team_id = ? ORDER BY created_at ASC`,
		teamID,
	)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []model.TeamMember
	for rows.Next() {
		m, err := scanTeamMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, *m)
	}
	return members, rows.Err()
}
