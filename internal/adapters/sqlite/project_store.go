package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"taskdesk/internal/domain"
	"taskdesk/internal/domain/project"
	"taskdesk/internal/ports"
)

// ProjectStore implements ports.ProjectStore on SQLite.
type ProjectStore struct {
	db *sql.DB
}

var _ ports.ProjectStore = (*ProjectStore)(nil)

// NewProjectStore creates a ProjectStore backed by db.
func NewProjectStore(db *sql.DB) *ProjectStore {
	return &ProjectStore{db: db}
}

const projectColumns = `id, name, description, status, budget, actual_cost, start_date, end_date, created_at, updated_at`

func (s *ProjectStore) ListProjects(ctx context.Context) ([]project.Project, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+projectColumns+` FROM projects ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	defer rows.Close()

	var projects []project.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning project row: %w", err)
		}
		projects = append(projects, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating project rows: %w", err)
	}

	return projects, nil
}

func (s *ProjectStore) GetProject(ctx context.Context, id string) (*project.Project, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)

	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &domain.NotFoundError{Kind: "Project", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("getting project %s: %w", id, err)
	}

	return p, nil
}

func (s *ProjectStore) CreateProject(ctx context.Context, p *project.Project) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO projects (`+projectColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Description, string(p.Status),
		nullableFloat(p.Budget), p.ActualCost,
		fmtTimePtr(p.StartDate), fmtTimePtr(p.EndDate),
		fmtTime(p.CreatedAt), fmtTime(p.UpdatedAt))
	if err != nil {
		return fmt.Errorf("inserting project %s: %w", p.ID, err)
	}

	return nil
}

func (s *ProjectStore) UpdateProject(ctx context.Context, p *project.Project) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE projects
		 SET name = ?, description = ?, status = ?, budget = ?, actual_cost = ?,
		     start_date = ?, end_date = ?, updated_at = ?
		 WHERE id = ?`,
		p.Name, p.Description, string(p.Status),
		nullableFloat(p.Budget), p.ActualCost,
		fmtTimePtr(p.StartDate), fmtTimePtr(p.EndDate),
		fmtTime(p.UpdatedAt), p.ID)
	if err != nil {
		return fmt.Errorf("updating project %s: %w", p.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating project %s: %w", p.ID, err)
	}
	if affected == 0 {
		return &domain.NotFoundError{Kind: "Project", ID: p.ID}
	}

	return nil
}

func (s *ProjectStore) DeleteProject(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting project %s: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting project %s: %w", id, err)
	}
	if affected == 0 {
		return &domain.NotFoundError{Kind: "Project", ID: id}
	}

	return nil
}

// scanner abstracts *sql.Row and *sql.Rows for the scan helpers.
type scanner interface {
	Scan(dest ...any) error
}

func scanProject(row scanner) (*project.Project, error) {
	var (
		p                  project.Project
		status             string
		budget             sql.NullFloat64
		startDate, endDate sql.NullString
		createdAt, updatedAt string
	)

	err := row.Scan(&p.ID, &p.Name, &p.Description, &status, &budget, &p.ActualCost,
		&startDate, &endDate, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	p.Status = project.Status(status)
	p.Budget = float64Ptr(budget)

	if p.StartDate, err = parseTimePtr(startDate); err != nil {
		return nil, fmt.Errorf("parsing start_date: %w", err)
	}
	if p.EndDate, err = parseTimePtr(endDate); err != nil {
		return nil, fmt.Errorf("parsing end_date: %w", err)
	}
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}

	return &p, nil
}

func nullableFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func nullableString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
