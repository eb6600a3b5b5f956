package store

import (
	"database/sql"
	"fmt"

	"github.com/openfrosh/scunt/internal/lifecycle"
	"github.com/openfrosh/scunt/internal/model"
)

// AssignmentStore operates on the per-(task, team) completion rows
// materialized when a hunt starts, and the comment threads attached to
// them.
type AssignmentStore struct {
	db *sql.DB
}

func NewAssignmentStore(db *sql.DB) *AssignmentStore {
	return &AssignmentStore{db: db}
}

func scanAssignment(scanner interface{ Scan(...any) error }) (*model.TaskAssignment, error) {
	var a model.TaskAssignment
	err := scanner.Scan(&a.TaskID, &a.TeamID, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func scanComment(scanner interface{ Scan(...any) error }) (*model.Comment, error) {
	var c model.Comment
	err := scanner.Scan(&c.ID, &c.TaskID, &c.TeamID, &c.UserID, &c.Body, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

const assignmentCols = `task_id, team_id, status, created_at, updated_at`
const commentCols = `id, task_id, team_id, user_id, body, created_at`

func getAssignment(q interface {
	QueryRow(string, ...any) *sql.Row
}, taskID, teamID int64) (*model.TaskAssignment, error) {
	row := q.QueryRow(
		`SELECT `+assignmentCols+` FROM task_assignments WHERE task_id = ? AND team_id = ?`,
		taskID, teamID,
	)
	a, err := scanAssignment(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("task %d team %d: %w", taskID, teamID, ErrNoRelation)
	}
	if err != nil {
		return nil, fmt.Errorf("get assignment: %w", err)
	}
	return a, nil
}

// Get returns the assignment row for the pair, or ErrNoRelation.
func (s *AssignmentStore) Get(taskID, teamID int64) (*model.TaskAssignment, error) {
	return getAssignment(s.db, taskID, teamID)
}

// GetStatus returns the current status for the pair.
func (s *AssignmentStore) GetStatus(taskID, teamID int64) (lifecycle.AssignmentStatus, error) {
	a, err := getAssignment(s.db, taskID, teamID)
	if err != nil {
		return "", err
	}
	return a.Status, nil
}

// ListByTeam returns all assignment rows for a team.
func (s *AssignmentStore) ListByTeam(teamID int64) ([]model.TaskAssignment, error) {
	rows, err := s.db.Query(
		`SELECT `+assignmentCols+` FROM task_assignments WHERE team_id = ? ORDER BY task_id ASC`,
		teamID,
	)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer rows.Close()

	var assignments []model.TaskAssignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		assignments = append(assignments, *a)
	}
	return assignments, rows.Err()
}

// Submit moves an unsubmitted assignment to SUBMITTED.
func (s *AssignmentStore) Submit(taskID, teamID int64) error {
	return s.transition(taskID, teamID, lifecycle.AssignmentSubmitted)
}

// Reject returns a SUBMITTED assignment to PENDING. No points change.
func (s *AssignmentStore) Reject(taskID, teamID int64) error {
	return s.transition(taskID, teamID, lifecycle.AssignmentPending)
}

func (s *AssignmentStore) transition(taskID, teamID int64, target lifecycle.AssignmentStatus) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	a, err := getAssignment(tx, taskID, teamID)
	if err != nil {
		return err
	}
	if !a.Status.CanTransitionTo(target) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.Status, target)
	}

	if _, err := tx.Exec(
		`UPDATE task_assignments SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE task_id = ? AND team_id = ?`,
		target, taskID, teamID,
	); err != nil {
		return fmt.Errorf("update assignment: %w", err)
	}
	return tx.Commit()
}

// Approve moves a SUBMITTED assignment to COMPLETED and credits the
// task's point value to the team. Status flip and point increment are one
// transaction.
func (s *AssignmentStore) Approve(taskID, teamID int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	a, err := getAssignment(tx, taskID, teamID)
	if err != nil {
		return err
	}
	if !a.Status.CanTransitionTo(lifecycle.AssignmentCompleted) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.Status, lifecycle.AssignmentCompleted)
	}

	if _, err := tx.Exec(
		`UPDATE task_assignments SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE task_id = ? AND team_id = ?`,
		lifecycle.AssignmentCompleted, taskID, teamID,
	); err != nil {
		return fmt.Errorf("update assignment: %w", err)
	}

	if _, err := tx.Exec(
		`UPDATE teams SET points = points + (SELECT points FROM tasks WHERE id = ?), updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		taskID, teamID,
	); err != nil {
		return fmt.Errorf("credit points: %w", err)
	}

	return tx.Commit()
}

// AddComment appends a comment to the pair's thread. The pair must have
// an assignment row.
func (s *AssignmentStore) AddComment(taskID, teamID, userID int64, body string) (*model.Comment, error) {
	if _, err := getAssignment(s.db, taskID, teamID); err != nil {
		return nil, err
	}

	result, err := s.db.Exec(
		`INSERT INTO comments (task_id, team_id, user_id, body) VALUES (?, ?, ?, ?)`,
		taskID, teamID, userID, body,
	)
	if err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	row := s.db.QueryRow(`SELECT `+commentCols+` FROM comments WHERE id = ?`, id)
	c, err := scanComment(row)
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return c, nil
}

// ListComments returns the pair's comments in chronological order. An
// empty thread is not an error.
func (s *AssignmentStore) ListComments(taskID, teamID int64) ([]model.Comment, error) {
	rows, err := s.db.Query(
		`SELECT `+commentCols+` FROM comments WHERE task_id = ? AND team_id = ? ORDER BY created_at ASC, id ASC`,
		taskID, teamID,
	)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var comments []model.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, *c)
	}
	return comments, rows.Err()
}
