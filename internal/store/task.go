package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/openfrosh/scunt/internal/model"
)

type TaskStore struct {
	db *sql.DB
}

func NewTaskStore(db *sql.DB) *TaskStore {
	return &TaskStore{db: db}
}

func scanTask(scanner interface{ Scan(...any) error }) (*model.Task, error) {
	var t model.Task
	err := scanner.Scan(&t.ID, &t.HuntID, &t.Name, &t.Description, &t.Points, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

const taskCols = `id, hunt_id, name, description, points, created_at, updated_at`

// editableTaskColumns are the columns Edit accepts in its field map.
// Keeping an allowlist lets the update stay parameterized.
var editableTaskColumns = map[string]bool{
	"name":        true,
	"description": true,
	"points":      true,
	"hunt_id":     true,
}

// Create inserts a task under a hunt. Task names are unique within their
// hunt.
func (s *TaskStore) Create(name, description string, points int, huntID int64) (*model.Task, error) {
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

	if err := tx.QueryRow(`SELECT COUNT(*) FROM tasks WHERE hunt_id = ? AND name = ?`, huntID, name).Scan(&count); err != nil {
		return nil, fmt.Errorf("check task name: %w", err)
	}
	if count > 0 {
		return nil, ErrDuplicateName
	}

	result, err := tx.Exec(
		`INSERT INTO tasks (hunt_id, name, description, points) VALUES (?, ?, ?, ?)`,
		huntID, name, description, points,
	)
	if err != nil {
		return nil, fmt.Errorf("insert task: %w", err)
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

func (s *TaskStore) GetByID(id int64) (*model.Task, error) {
	row := s.db.QueryRow(`SELECT `+taskCols+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

func (s *TaskStore) ListByHunt(huntID int64) ([]model.Task, error) {
	rows, err := s.db.Query(
		`SELECT `+taskCols+` FROM tasks WHERE hunt_id = ? ORDER BY name ASC`,
		huntID,
	)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// Edit overwrites only the columns present in fields, plus updated_at.
// Unknown column names are rejected rather than interpolated into SQL.
func (s *TaskStore) Edit(id int64, fields map[string]any) (*model.Task, error) {
	existing, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("task %d: %w", id, ErrNotFound)
	}
	if len(fields) == 0 {
		return existing, nil
	}

	setClauses := make([]string, 0, len(fields)+1)
	args := make([]any, 0, len(fields)+1)
	for col, val := range fields {
		if !editableTaskColumns[col] {
			return nil, fmt.Errorf("%w: unknown task column %q", ErrValidation, col)
		}
		setClauses = append(setClauses, col+" = ?")
		args = append(args, val)
	}
	setClauses = append(setClauses, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, id)

	query := `UPDATE tasks SET ` + strings.Join(setClauses, ", ") + ` WHERE id = ?`
	if _, err := s.db.Exec(query, args...); err != nil {
		return nil, fmt.Errorf("edit task: %w", err)
	}
	return s.GetByID(id)
}

// Delete removes a task and cascades its assignments and comments.
// Unlike team deletion this is not idempotent: deleting an unknown task
// is an error.
func (s *TaskStore) Delete(id int64) error {
	result, err := s.db.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("task %d: %w", id, ErrNotFound)
	}
	return nil
}
