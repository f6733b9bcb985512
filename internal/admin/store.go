// SPDX-License-Identifier: MIT

// Package admin persists operator-authored task and experiment definitions.
// These are configuration documents, not runtime state: sessions and live
// experiment membership stay in memory, definitions survive restarts.
package admin

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrMissingField reports a definition submitted without a required field.
type ErrMissingField struct {
	Field string
}

func (e *ErrMissingField) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// Task describes a unit of participant work referenced by experiment
// definitions.
type Task struct {
	ID          string    `json:"id"`
	Name        string    `json:"taskName"`
	Description string    `json:"taskDescription"`
	DefOfDone   string    `json:"taskDefOfDone"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ExperimentDef is the operator-side template an experiment run is created
// from.
type ExperimentDef struct {
	ID          string    `json:"id"`
	SubjectName string    `json:"subjectName"`
	HumanOnly   bool      `json:"humanOnly"`
	MarketMode  string    `json:"marketMode"`
	TaskID      string    `json:"taskId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Store is a sqlite-backed definition store.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS tasks (
	id TEXT PRIMARY KEY,
	task_name TEXT NOT NULL,
	task_description TEXT NOT NULL,
	task_def_of_done TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);
CREATE TABLE IF NOT EXISTS experiment_defs (
	id TEXT PRIMARY KEY,
	subject_name TEXT NOT NULL,
	human_only INTEGER NOT NULL,
	market_mode TEXT NOT NULL,
	task_id TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);
`

// Open opens (and if needed initializes) the definition database at path.
// Use ":memory:" for tests.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open admin db: %w", err)
	}
	// modernc.org/sqlite serializes writes itself; a single connection
	// avoids SQLITE_BUSY under concurrent handlers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init admin schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateTask stores a new task definition and returns it with its generated
// id and timestamp.
func (s *Store) CreateTask(ctx context.Context, name, description, defOfDone string) (Task, error) {
	if name == "" {
		return Task{}, &ErrMissingField{Field: "taskName"}
	}

	t := Task{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		DefOfDone:   defOfDone,
		CreatedAt:   time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (id, task_name, task_description, task_def_of_done, created_at) VALUES (?, ?, ?, ?, ?)`,
		t.ID, t.Name, t.Description, t.DefOfDone, t.CreatedAt)
	if err != nil {
		return Task{}, fmt.Errorf("insert task: %w", err)
	}
	return t, nil
}

// ListTasks returns all task definitions, newest first.
func (s *Store) ListTasks(ctx context.Context) ([]Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, task_name, task_description, task_def_of_done, created_at FROM tasks ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	tasks := make([]Task, 0)
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.DefOfDone, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// CreateExperimentDef stores a new experiment definition. taskID must
// reference an existing task.
func (s *Store) CreateExperimentDef(ctx context.Context, subjectName, marketMode, taskID string, humanOnly bool) (ExperimentDef, error) {
	if subjectName == "" {
		return ExperimentDef{}, &ErrMissingField{Field: "subjectName"}
	}
	if taskID != "" {
		var exists int
		err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks WHERE id = ?`, taskID).Scan(&exists)
		if err != nil {
			return ExperimentDef{}, fmt.Errorf("check task: %w", err)
		}
		if exists == 0 {
			return ExperimentDef{}, &ErrMissingField{Field: "taskId"}
		}
	}

	d := ExperimentDef{
		ID:          uuid.NewString(),
		SubjectName: subjectName,
		HumanOnly:   humanOnly,
		MarketMode:  marketMode,
		TaskID:      taskID,
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO experiment_defs (id, subject_name, human_only, market_mode, task_id, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		d.ID, d.SubjectName, boolToInt(d.HumanOnly), d.MarketMode, d.TaskID, d.CreatedAt); err != nil {
		return ExperimentDef{}, fmt.Errorf("insert experiment def: %w", err)
	}
	return d, nil
}

// ListExperimentDefs returns all experiment definitions, newest first.
func (s *Store) ListExperimentDefs(ctx context.Context) ([]ExperimentDef, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, subject_name, human_only, market_mode, task_id, created_at FROM experiment_defs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list experiment defs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	defs := make([]ExperimentDef, 0)
	for rows.Next() {
		var d ExperimentDef
		var humanOnly int
		if err := rows.Scan(&d.ID, &d.SubjectName, &humanOnly, &d.MarketMode, &d.TaskID, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan experiment def: %w", err)
		}
		d.HumanOnly = humanOnly != 0
		defs = append(defs, d)
	}
	return defs, rows.Err()
}

// GetTask returns a task by id.
func (s *Store) GetTask(ctx context.Context, id string) (Task, bool, error) {
	var t Task
	err := s.db.QueryRowContext(ctx,
		`SELECT id, task_name, task_description, task_def_of_done, created_at FROM tasks WHERE id = ?`, id).
		Scan(&t.ID, &t.Name, &t.Description, &t.DefOfDone, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Task{}, false, nil
	}
	if err != nil {
		return Task{}, false, fmt.Errorf("get task: %w", err)
	}
	return t, true, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
