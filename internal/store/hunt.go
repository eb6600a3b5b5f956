package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/openfrosh/scunt/internal/lifecycle"
	"github.com/openfrosh/scunt/internal/model"
)

type HuntStore struct {
	db *sql.DB
}

func NewHuntStore(db *sql.DB) *HuntStore {
	return &HuntStore{db: db}
}

func scanHunt(scanner interface{ Scan(...any) error }) (*model.Hunt, error) {
	var h model.Hunt
	err := scanner.Scan(&h.ID, &h.Name, &h.Description, &h.StartTime, &h.EndTime, &h.Status, &h.CreatedAt, &h.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

const huntCols = `id, name, description, start_time, end_time, status, created_at, updated_at`

// Create inserts a new hunt in PENDING status. Hunt names are unique
// across all hunts.
func (s *HuntStore) Create(name, description string, start, end time.Time) (*model.Hunt, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM hunts WHERE name = ?`, name).Scan(&count); err != nil {
		return nil, fmt.Errorf("check hunt name: %w", err)
	}
	if count > 0 {
		return nil, ErrDuplicateName
	}

	result, err := tx.Exec(
		`INSERT INTO hunts (name, description, start_time, end_time, status) VALUES (?, ?, ?, ?, ?)`,
		name, description, start.UTC(), end.UTC(), lifecycle.HuntPending,
	)
	if err != nil {
		return nil, fmt.Errorf("insert hunt: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return s.GetByID(id)
}

func (s *HuntStore) GetByID(id int64) (*model.Hunt, error) {
	row := s.db.QueryRow(`SELECT `+huntCols+` FROM hunts WHERE id = ?`, id)
	h, err := scanHunt(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get hunt: %w", err)
	}
	return h, nil
}

func (s *HuntStore) List() ([]model.Hunt, error) {
	rows, err := s.db.Query(`SELECT ` + huntCols + ` FROM hunts ORDER BY start_time ASC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list hunts: %w", err)
	}
	defer rows.Close()

	var hunts []model.Hunt
	for rows.Next() {
		h, err := scanHunt(rows)
		if err != nil {
			return nil, fmt.Errorf("scan hunt: %w", err)
		}
		hunts = append(hunts, *h)
	}
	return hunts, rows.Err()
}

// Update overwrites a hunt's metadata. Renaming re-checks name uniqueness
// against all other hunts, the same guard Create applies.
func (s *HuntStore) Update(id int64, name, description string, start, end time.Time) (*model.Hunt, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM hunts WHERE id = ?`, id).Scan(&count); err != nil {
		return nil, fmt.Errorf("check hunt: %w", err)
	}
	if count == 0 {
		return nil, fmt.Errorf("hunt %d: %w", id, ErrNotFound)
	}

	if err := tx.QueryRow(`SELECT COUNT(*) FROM hunts WHERE name = ? AND id != ?`, name, id).Scan(&count); err != nil {
		return nil, fmt.Errorf("check hunt name: %w", err)
	}
	if count > 0 {
		return nil, ErrDuplicateName
	}

	_, err = tx.Exec(
		`UPDATE hunts SET name = ?, description = ?, start_time = ?, end_time = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		name, description, start.UTC(), end.UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update hunt: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return s.GetByID(id)
}

// SetStatus moves a hunt to the given status. Only forward moves along
// PENDING -> PUBLISHED -> STARTED -> FINISHED are accepted.
func (s *HuntStore) SetStatus(id int64, status string) (*model.Hunt, error) {
	target, err := lifecycle.ParseHuntStatus(status)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	hunt, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if hunt == nil {
		return nil, fmt.Errorf("hunt %d: %w", id, ErrNotFound)
	}
	if !hunt.Status.CanTransitionTo(target) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, hunt.Status, target)
	}

	if _, err := s.db.Exec(
		`UPDATE hunts SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		target, id,
	); err != nil {
		return nil, fmt.Errorf("set hunt status: %w", err)
	}
	return s.GetByID(id)
}

// Publish moves a hunt from PENDING to PUBLISHED, opening it for team
// signups.
func (s *HuntStore) Publish(id int64) (*model.Hunt, error) {
	return s.SetStatus(id, string(lifecycle.HuntPublished))
}

// Start moves a hunt to STARTED and materializes one assignment row per
// (task, team) pair currently under the hunt, all INCOMPLETE, in a single
// transaction. Starting is refused before the hunt's scheduled start time
// and refused again once the hunt is already started or finished.
func (s *HuntStore) Start(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRow(`SELECT `+huntCols+` FROM hunts WHERE id = ?`, id)
	hunt, err := scanHunt(row)
	if err == sql.ErrNoRows {
		return fmt.Errorf("hunt %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("get hunt: %w", err)
	}

	if hunt.Status == lifecycle.HuntStarted || hunt.Status == lifecycle.HuntFinished {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, hunt.Status, lifecycle.HuntStarted)
	}
	if now := time.Now().UTC(); now.Before(hunt.StartTime) {
		return &TooEarlyError{StartsAt: hunt.StartTime}
	}

	if _, err := tx.Exec(
		`UPDATE hunts SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		lifecycle.HuntStarted, id,
	); err != nil {
		return fmt.Errorf("set hunt status: %w", err)
	}

	// Cross product of the hunt's tasks and teams, one set-based insert.
	if _, err := tx.Exec(
		`INSERT INTO task_assignments (task_id, team_id, status)
		 SELECT t.id, m.id, ?
		 FROM tasks t JOIN teams m ON t.hunt_id = m.hunt_id
		 WHERE t.hunt_id = ?`,
		lifecycle.AssignmentIncomplete, id,
	); err != nil {
		return fmt.Errorf("materialize assignments: %w", err)
	}

	return tx.Commit()
}

// Close moves a hunt to FINISHED.
func (s *HuntStore) Close(id int64) error {
	result, err := s.db.Exec(
		`UPDATE hunts SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		lifecycle.HuntFinished, id,
	)
	if err != nil {
		return fmt.Errorf("close hunt: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("hunt %d: %w", id, ErrNotFound)
	}
	return nil
}

// Delete removes a hunt; teams, tasks, assignments, and comments under it
// go with it via cascade.
func (s *HuntStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM hunts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete hunt: %w", err)
	}
	return nil
}
