package ports

import (
	"context"

	"taskdesk/internal/domain/project"
	"taskdesk/internal/domain/task"
)

// ProjectStore defines the persistence port for projects.
// Implemented by the sqlite adapter; called by the application layer.
// Implementations return rows without derived fields; derivation is the
// application layer's job.
type ProjectStore interface {
	// ListProjects returns all projects ordered by creation time, newest first.
	ListProjects(ctx context.Context) ([]project.Project, error)

	// GetProject returns a single project by ID.
	// Returns domain.ErrNotFound if no row matches.
	GetProject(ctx context.Context, id string) (*project.Project, error)

	// CreateProject inserts a new project row.
	CreateProject(ctx context.Context, p *project.Project) error

	// UpdateProject overwrites the named fields of an existing row
	// (last-writer-wins). Returns domain.ErrNotFound if no row matches.
	UpdateProject(ctx context.Context, p *project.Project) error

	// DeleteProject removes a project row; task rows referencing it are
	// removed by the storage layer's cascade.
	// Returns domain.ErrNotFound if no row matches.
	DeleteProject(ctx context.Context, id string) error
}

// TaskStore defines the persistence port for tasks.
// Implemented by the sqlite adapter; called by the application layer.
type TaskStore interface {
	// ListTasks returns tasks matching the filter, newest first.
	ListTasks(ctx context.Context, filter task.Filter) ([]task.Task, error)

	// GetTask returns a single task by ID.
	// Returns domain.ErrNotFound if no row matches.
	GetTask(ctx context.Context, id string) (*task.Task, error)

	// CreateTask inserts a new task row.
	CreateTask(ctx context.Context, t *task.Task) error

	// UpdateTask overwrites the named fields of an existing row
	// (last-writer-wins). Returns domain.ErrNotFound if no row matches.
	UpdateTask(ctx context.Context, t *task.Task) error

	// DeleteTask removes a task row.
	// Returns domain.ErrNotFound if no row matches.
	DeleteTask(ctx context.Context, id string) error

	// CountByProject returns the total number of tasks referencing the
	// project and the number of those with status done.
	CountByProject(ctx context.Context, projectID string) (total, completed int, err error)

	// CountOpenByProject returns the number of tasks referencing the project
	// whose status is not done. Used by the project delete guard.
	CountOpenByProject(ctx context.Context, projectID string) (int, error)
}
