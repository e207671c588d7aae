package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"taskdesk/internal/domain"
	"taskdesk/internal/domain/task"
	"taskdesk/internal/ports"
)

// TaskStore implements ports.TaskStore on SQLite.
type TaskStore struct {
	db *sql.DB
}

var _ ports.TaskStore = (*TaskStore)(nil)

// NewTaskStore creates a TaskStore backed by db.
func NewTaskStore(db *sql.DB) *TaskStore {
	return &TaskStore{db: db}
}

const taskColumns = `id, title, description, priority, status, estimated_hours, actual_hours, due_date, completed_at, assigned_to, project_id, created_at, updated_at`

func (s *TaskStore) ListTasks(ctx context.Context, filter task.Filter) ([]task.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks`

	var (
		conds []string
		args  []any
	)
	if filter.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.Priority != "" {
		conds = append(conds, "priority = ?")
		args = append(args, string(filter.Priority))
	}
	if filter.AssignedTo != "" {
		conds = append(conds, "assigned_to = ?")
		args = append(args, filter.AssignedTo)
	}
	if filter.ProjectID != nil {
		conds = append(conds, "project_id = ?")
		args = append(args, *filter.ProjectID)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var tasks []task.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning task row: %w", err)
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating task rows: %w", err)
	}

	return tasks, nil
}

func (s *TaskStore) GetTask(ctx context.Context, id string) (*task.Task, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)

	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Kind: "Task", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("getting task %s: %w", id, err)
	}

	return t, nil
}

func (s *TaskStore) CreateTask(ctx context.Context, t *task.Task) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (`+taskColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Title, t.Description, string(t.Priority), string(t.Status),
		nullableFloat(t.EstimatedHours), t.ActualHours,
		fmtTimePtr(t.DueDate), fmtTimePtr(t.CompletedAt),
		t.AssignedTo, nullableString(t.ProjectID),
		fmtTime(t.CreatedAt), fmtTime(t.UpdatedAt))
	if err != nil {
		return fmt.Errorf("inserting task %s: %w", t.ID, err)
	}

	return nil
}

func (s *TaskStore) UpdateTask(ctx context.Context, t *task.Task) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE tasks
		 SET title = ?, description = ?, priority = ?, status = ?,
		     estimated_hours = ?, actual_hours = ?, due_date = ?, completed_at = ?,
		     assigned_to = ?, project_id = ?, updated_at = ?
		 WHERE id = ?`,
		t.Title, t.Description, string(t.Priority), string(t.Status),
		nullableFloat(t.EstimatedHours), t.ActualHours,
		fmtTimePtr(t.DueDate), fmtTimePtr(t.CompletedAt),
		t.AssignedTo, nullableString(t.ProjectID),
		fmtTime(t.UpdatedAt), t.ID)
	if err != nil {
		return fmt.Errorf("updating task %s: %w", t.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating task %s: %w", t.ID, err)
	}
	if affected == 0 {
		return &domain.NotFoundError{Kind: "Task", ID: t.ID}
	}

	return nil
}

func (s *TaskStore) DeleteTask(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting task %s: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting task %s: %w", id, err)
	}
	if affected == 0 {
		return &domain.NotFoundError{Kind: "Task", ID: id}
	}

	return nil
}

func (s *TaskStore) CountByProject(ctx context.Context, projectID string) (total, completed int, err error) {
	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0)
		 FROM tasks WHERE project_id = ?`,
		string(task.StatusDone), projectID).Scan(&total, &completed)
	if err != nil {
		return 0, 0, fmt.Errorf("counting tasks for project %s: %w", projectID, err)
	}

	return total, completed, nil
}

func (s *TaskStore) CountOpenByProject(ctx context.Context, projectID string) (int, error) {
	var open int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tasks WHERE project_id = ? AND status != ?`,
		projectID, string(task.StatusDone)).Scan(&open)
	if err != nil {
		return 0, fmt.Errorf("counting open tasks for project %s: %w", projectID, err)
	}

	return open, nil
}

func scanTask(row scanner) (*task.Task, error) {
	var (
		t                    task.Task
		priority, status     string
		estimatedHours       sql.NullFloat64
		dueDate, completedAt sql.NullString
		projectID            sql.NullString
		createdAt, updatedAt string
	)

	err := row.Scan(&t.ID, &t.Title, &t.Description, &priority, &status,
		&estimatedHours, &t.ActualHours, &dueDate, &completedAt,
		&t.AssignedTo, &projectID, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	t.Priority = task.Priority(priority)
	t.Status = task.Status(status)
	t.EstimatedHours = float64Ptr(estimatedHours)
	t.ProjectID = stringPtr(projectID)

	if t.DueDate, err = parseTimePtr(dueDate); err != nil {
		return nil, fmt.Errorf("parsing due_date: %w", err)
	}
	if t.CompletedAt, err = parseTimePtr(completedAt); err != nil {
		return nil, fmt.Errorf("parsing completed_at: %w", err)
	}
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}

	return &t, nil
}
