package ports

import (
	"context"
	"time"

	"taskdesk/internal/domain/project"
	"taskdesk/internal/domain/task"
)

// ProjectService defines the service port for project operations.
// Implemented by the application layer; called by inbound adapters (handlers).
// All reads return projects with derived fields (task counts, completion rate,
// remaining budget) populated.
type ProjectService interface {
	// ListProjects returns all projects with derived fields populated.
	ListProjects(ctx context.Context) ([]project.Project, error)

	// GetProject returns a single project by ID with derived fields populated.
	// Returns domain.ErrNotFound if the project does not exist.
	GetProject(ctx context.Context, id string) (*project.Project, error)

	// CreateProject validates and creates a new project, returning the
	// created entity with server-assigned fields (ID, timestamps).
	// Returns domain.ErrValidation if the project fails validation. A cost
	// above the budget does not block the write; it raises a request-scoped
	// warning instead.
	CreateProject(ctx context.Context, p *project.Project) (*project.Project, error)

	// UpdateProject applies the patch to an existing project and validates
	// the result. Nil patch fields leave the stored value unchanged.
	// Returns domain.ErrNotFound if the project does not exist.
	UpdateProject(ctx context.Context, id string, patch ProjectPatch) (*project.Project, error)

	// DeleteProject deletes a project and, at the storage layer, its tasks.
	// Returns domain.ErrValidation if any task of the project is not done;
	// the error message reports the blocking count.
	// Returns domain.ErrNotFound if the project does not exist.
	DeleteProject(ctx context.Context, id string) error

	// UpdateBudget implements the update-budget workflow operation. A missing
	// project or a negative newBudget yields a soft failure (Success=false)
	// rather than an error; infrastructure failures are returned as errors.
	UpdateBudget(ctx context.Context, projectID string, newBudget, additionalCost *float64) (*BudgetResult, error)

	// Stats implements the get-stats workflow operation. Unlike the other
	// workflow operations, a missing project is a hard domain.ErrNotFound.
	Stats(ctx context.Context, projectID string) (*ProjectStats, error)
}

// TaskService defines the service port for task operations.
// Implemented by the application layer; called by inbound adapters (handlers).
// All reads return tasks with the derived IsOverdue flag populated.
type TaskService interface {
	// ListTasks returns tasks matching the filter with derived fields populated.
	ListTasks(ctx context.Context, filter task.Filter) ([]task.Task, error)

	// GetTask returns a single task by ID with derived fields populated.
	// Returns domain.ErrNotFound if the task does not exist.
	GetTask(ctx context.Context, id string) (*task.Task, error)

	// CreateTask validates and creates a new task. A supplied project
	// reference must resolve to an existing project (domain.ErrNotFound
	// otherwise). Returns domain.ErrValidation on business-rule violations.
	CreateTask(ctx context.Context, t *task.Task) (*task.Task, error)

	// UpdateTask applies the patch to an existing task and validates the
	// result. Nil patch fields leave the stored value unchanged. The same
	// project reference rule as CreateTask applies when the patch sets one.
	UpdateTask(ctx context.Context, id string, patch TaskPatch) (*task.Task, error)

	// DeleteTask deletes a task by ID.
	// Returns domain.ErrNotFound if the task does not exist.
	DeleteTask(ctx context.Context, id string) error

	// Complete implements the complete-task workflow operation. A missing or
	// already-done task yields a soft failure (Success=false); otherwise the
	// task is marked done with a completion timestamp.
	Complete(ctx context.Context, taskID string) (*ActionResult, error)

	// Assign implements the assign-task workflow operation. A blank assignee
	// or missing task yields a soft failure. Assigning a task that is still
	// todo advances it to in_progress; other statuses are left unchanged.
	Assign(ctx context.Context, taskID, assignee string) (*ActionResult, error)
}

// ProjectPatch holds optional field updates for a project.
// Nil fields mean "do not change this field".
type ProjectPatch struct {
	Name        *string
	Description *string
	Status      *project.Status
	Budget      *float64
	ActualCost  *float64
	StartDate   *time.Time
	EndDate     *time.Time
}

// TaskPatch holds optional field updates for a task.
// Nil fields mean "do not change this field".
type TaskPatch struct {
	Title          *string
	Description    *string
	Priority       *task.Priority
	Status         *task.Status
	EstimatedHours *float64
	ActualHours    *float64
	DueDate        *time.Time
	AssignedTo     *string
	ProjectID      *string
}

// ActionResult is the soft-failure payload shared by the complete-task and
// assign-task workflow operations. A lookup miss is reported through
// Success=false rather than an error; only infrastructure failures surface
// as errors.
type ActionResult struct {
	Success bool
	Message string
}

// BudgetResult is the payload of the update-budget workflow operation.
// RemainingBudget reflects the stored values on soft failure and the updated
// values on success.
type BudgetResult struct {
	Success         bool
	Message         string
	RemainingBudget float64
}

// ProjectStats holds the four counts returned by the get-stats operation.
type ProjectStats struct {
	TotalTasks     int
	CompletedTasks int
	CompletionRate int
	OverdueTasks   int
}
