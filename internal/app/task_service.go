package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"taskdesk/internal/app/reqctx"
	"taskdesk/internal/domain"
	"taskdesk/internal/domain/task"
	"taskdesk/internal/ports"
)

// Compile-time check that TaskService implements ports.TaskService.
var _ ports.TaskService = (*TaskService)(nil)

// TaskService implements ports.TaskService. It enforces task invariants
// before persistence mutations, computes the derived overdue flag after
// reads, and implements the complete-task and assign-task workflow
// operations.
type TaskService struct {
	tasks    ports.TaskStore
	projects ports.ProjectStore
	notifier ports.Notifier
	logger   *slog.Logger
	now      func() time.Time
}

// NewTaskService creates a TaskService over the given stores. The notifier
// receives workflow events after successful writes and may be nil.
func NewTaskService(tasks ports.TaskStore, projects ports.ProjectStore, notifier ports.Notifier, logger *slog.Logger) *TaskService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &TaskService{
		tasks:    tasks,
		projects: projects,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// ListTasks returns tasks matching the filter with the overdue flag derived.
func (s *TaskService) ListTasks(ctx context.Context, filter task.Filter) ([]task.Task, error) {
	s.logger.InfoContext(ctx, "listing tasks")

	tasks, err := s.tasks.ListTasks(ctx, filter)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list tasks",
			slog.String("operation", "ListTasks"),
			slog.Any("error", err),
		)
		return nil, err
	}

	now := s.now()
	for i := range tasks {
		tasks[i].Derive(now)
	}
	return tasks, nil
}

// GetTask returns a single task by ID with the overdue flag derived.
func (s *TaskService) GetTask(ctx context.Context, id string) (*task.Task, error) {
	s.logger.InfoContext(ctx, "fetching task", slog.String("id", id))

	t, err := s.tasks.GetTask(ctx, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to fetch task",
			slog.String("operation", "GetTask"),
			slog.String("id", id),
			slog.Any("error", err),
		)
		return nil, err
	}

	t.Derive(s.now())
	return t, nil
}

// CreateTask validates and creates a new task. A supplied project reference
// must resolve to an existing project.
func (s *TaskService) CreateTask(ctx context.Context, t *task.Task) (*task.Task, error) {
	s.logger.InfoContext(ctx, "creating task", slog.String("title", t.Title))

	if t.Status == "" {
		t.Status = task.StatusToDo
	}
	if t.Priority == "" {
		t.Priority = task.PriorityMedium
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if t.ProjectID != nil && *t.ProjectID == "" {
		t.ProjectID = nil
	}
	if err := s.verifyProjectRef(ctx, t.ProjectID); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	t.ID = uuid.New().String()
	t.CreatedAt = now
	t.UpdatedAt = now

	if err := s.tasks.CreateTask(ctx, t); err != nil {
		s.logger.ErrorContext(ctx, "failed to create task",
			slog.String("operation", "CreateTask"),
			slog.Any("error", err),
		)
		return nil, err
	}

	t.Derive(now)
	return t, nil
}

// UpdateTask applies the patch to the stored task, re-validates the result,
// and persists it. Nil patch fields leave stored values unchanged.
func (s *TaskService) UpdateTask(ctx context.Context, id string, patch ports.TaskPatch) (*task.Task, error) {
	s.logger.InfoContext(ctx, "updating task", slog.String("id", id))

	t, err := s.tasks.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}

	applyTaskPatch(t, patch)
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if patch.ProjectID != nil {
		if err := s.verifyProjectRef(ctx, t.ProjectID); err != nil {
			return nil, err
		}
	}

	t.UpdatedAt = s.now().UTC()
	if err := s.tasks.UpdateTask(ctx, t); err != nil {
		s.logger.ErrorContext(ctx, "failed to update task",
			slog.String("operation", "UpdateTask"),
			slog.String("id", id),
			slog.Any("error", err),
		)
		return nil, err
	}

	t.Derive(s.now())
	return t, nil
}

// DeleteTask deletes a task by ID.
func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	s.logger.InfoContext(ctx, "deleting task", slog.String("id", id))

	if err := s.tasks.DeleteTask(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to delete task",
			slog.String("operation", "DeleteTask"),
			slog.String("id", id),
			slog.Any("error", err),
		)
		return err
	}
	return nil
}

// Complete implements the complete-task workflow operation. A missing or
// already-done task is a soft failure; calling it twice is guarded and does
// not double-process.
func (s *TaskService) Complete(ctx context.Context, taskID string) (*ports.ActionResult, error) {
	s.logger.InfoContext(ctx, "completing task", slog.String("task_id", taskID))

	t, err := s.tasks.GetTask(ctx, taskID)
	if errors.Is(err, domain.ErrNotFound) {
		return &ports.ActionResult{
			Success: false,
			Message: fmt.Sprintf("Task with ID %s not found", taskID),
		}, nil
	}
	if err != nil {
		return nil, err
	}

	if t.Status == task.StatusDone {
		return &ports.ActionResult{
			Success: false,
			Message: "Task is already completed",
		}, nil
	}

	now := s.now().UTC()
	t.Status = task.StatusDone
	t.CompletedAt = &now
	t.UpdatedAt = now

	if err := s.tasks.UpdateTask(ctx, t); err != nil {
		s.logger.ErrorContext(ctx, "failed to persist task completion",
			slog.String("operation", "Complete"),
			slog.String("task_id", taskID),
			slog.Any("error", err),
		)
		return nil, err
	}

	s.notify(ctx, ports.Event{
		Type:       ports.EventTaskCompleted,
		EntityKind: "task",
		EntityID:   t.ID,
		Actor:      reqctx.Caller(ctx).Subject,
		Payload:    map[string]any{"title": t.Title},
	})

	return &ports.ActionResult{
		Success: true,
		Message: fmt.Sprintf("Task %q marked as completed", t.Title),
	}, nil
}

// Assign implements the assign-task workflow operation. A blank assignee is
// rejected before any lookup. Assigning a task that is still todo advances it
// to in_progress; other statuses are left unchanged.
func (s *TaskService) Assign(ctx context.Context, taskID, assignee string) (*ports.ActionResult, error) {
	s.logger.InfoContext(ctx, "assigning task",
		slog.String("task_id", taskID),
		slog.String("assignee", assignee),
	)

	if strings.TrimSpace(assignee) == "" {
		return &ports.ActionResult{
			Success: false,
			Message: "Assignee name cannot be empty",
		}, nil
	}

	t, err := s.tasks.GetTask(ctx, taskID)
	if errors.Is(err, domain.ErrNotFound) {
		return &ports.ActionResult{
			Success: false,
			Message: fmt.Sprintf("Task with ID %s not found", taskID),
		}, nil
	}
	if err != nil {
		return nil, err
	}

	t.AssignedTo = assignee
	if t.Status == task.StatusToDo {
		t.Status = task.StatusInProgress
	}
	t.UpdatedAt = s.now().UTC()

	if err := s.tasks.UpdateTask(ctx, t); err != nil {
		s.logger.ErrorContext(ctx, "failed to persist task assignment",
			slog.String("operation", "Assign"),
			slog.String("task_id", taskID),
			slog.Any("error", err),
		)
		return nil, err
	}

	s.notify(ctx, ports.Event{
		Type:       ports.EventTaskAssigned,
		EntityKind: "task",
		EntityID:   t.ID,
		Actor:      reqctx.Caller(ctx).Subject,
		Payload:    map[string]any{"title": t.Title, "assigned_to": assignee},
	})

	return &ports.ActionResult{
		Success: true,
		Message: fmt.Sprintf("Task %q assigned to %s", t.Title, assignee),
	}, nil
}

// verifyProjectRef checks that a non-empty project reference resolves to an
// existing project. A missing project surfaces as domain.ErrNotFound.
func (s *TaskService) verifyProjectRef(ctx context.Context, projectID *string) error {
	if projectID == nil || *projectID == "" {
		return nil
	}
	if _, err := s.projects.GetProject(ctx, *projectID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &domain.NotFoundError{Kind: "Project", ID: *projectID}
		}
		return fmt.Errorf("verifying project: %w", err)
	}
	return nil
}

// notify forwards a workflow event to the notifier, if one is configured.
func (s *TaskService) notify(ctx context.Context, event ports.Event) {
	if s.notifier != nil {
		s.notifier.Notify(ctx, event)
	}
}

// applyTaskPatch copies the patch's non-nil fields onto the task.
func applyTaskPatch(t *task.Task, patch ports.TaskPatch) {
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Priority != nil {
		t.Priority = *patch.Priority
	}
	if patch.Status != nil {
		t.Status = *patch.Status
	}
	if patch.EstimatedHours != nil {
		t.EstimatedHours = patch.EstimatedHours
	}
	if patch.ActualHours != nil {
		t.ActualHours = *patch.ActualHours
	}
	if patch.DueDate != nil {
		t.DueDate = patch.DueDate
	}
	if patch.AssignedTo != nil {
		t.AssignedTo = *patch.AssignedTo
	}
	if patch.ProjectID != nil {
		// An empty string clears the association rather than persisting a
		// dangling '' foreign key.
		if *patch.ProjectID == "" {
			t.ProjectID = nil
		} else {
			t.ProjectID = patch.ProjectID
		}
	}
}
