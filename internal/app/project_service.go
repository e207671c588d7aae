// Package app provides application services that implement the business-rule
// validation, derived-state computation, and workflow operations for the
// projects/tasks domain. Services orchestrate the store ports and contain the
// pre-write checks that run before any mutation is committed.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"taskdesk/internal/app/reqctx"
	"taskdesk/internal/domain"
	"taskdesk/internal/domain/project"
	"taskdesk/internal/domain/task"
	"taskdesk/internal/ports"
)

// Compile-time check that ProjectService implements ports.ProjectService.
var _ ports.ProjectService = (*ProjectService)(nil)

// ProjectService implements ports.ProjectService. It enforces project
// invariants before persistence mutations, computes the derived read-only
// fields after reads, and implements the update-budget and get-stats workflow
// operations.
type ProjectService struct {
	projects ports.ProjectStore
	tasks    ports.TaskStore
	notifier ports.Notifier
	logger   *slog.Logger
	now      func() time.Time
}

// NewProjectService creates a ProjectService over the given stores. The
// notifier receives workflow events after successful writes and may be nil.
func NewProjectService(projects ports.ProjectStore, tasks ports.TaskStore, notifier ports.Notifier, logger *slog.Logger) *ProjectService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ProjectService{
		projects: projects,
		tasks:    tasks,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// ListProjects returns all projects with derived fields populated.
func (s *ProjectService) ListProjects(ctx context.Context) ([]project.Project, error) {
	s.logger.InfoContext(ctx, "listing projects")

	projects, err := s.projects.ListProjects(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list projects",
			slog.String("operation", "ListProjects"),
			slog.Any("error", err),
		)
		return nil, err
	}

	for i := range projects {
		if err := s.derive(ctx, &projects[i]); err != nil {
			return nil, err
		}
	}
	return projects, nil
}

// GetProject returns a single project by ID with derived fields populated.
func (s *ProjectService) GetProject(ctx context.Context, id string) (*project.Project, error) {
	s.logger.InfoContext(ctx, "fetching project", slog.String("id", id))

	p, err := s.projects.GetProject(ctx, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to fetch project",
			slog.String("operation", "GetProject"),
			slog.String("id", id),
			slog.Any("error", err),
		)
		return nil, err
	}

	if err := s.derive(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// CreateProject validates and creates a new project. A cost above the budget
// raises a non-blocking warning on the request; the write still proceeds.
func (s *ProjectService) CreateProject(ctx context.Context, p *project.Project) (*project.Project, error) {
	s.logger.InfoContext(ctx, "creating project", slog.String("name", p.Name))

	if p.Status == "" {
		p.Status = project.StatusPlanning
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	s.warnOnCost(ctx, p)

	now := s.now().UTC()
	p.ID = uuid.New().String()
	p.CreatedAt = now
	p.UpdatedAt = now

	if err := s.projects.CreateProject(ctx, p); err != nil {
		s.logger.ErrorContext(ctx, "failed to create project",
			slog.String("operation", "CreateProject"),
			slog.Any("error", err),
		)
		return nil, err
	}

	p.Derive(0, 0)
	return p, nil
}

// UpdateProject applies the patch to the stored project, re-validates the
// result, and persists it. Nil patch fields leave stored values unchanged.
func (s *ProjectService) UpdateProject(ctx context.Context, id string, patch ports.ProjectPatch) (*project.Project, error) {
	s.logger.InfoContext(ctx, "updating project", slog.String("id", id))

	p, err := s.projects.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}

	applyProjectPatch(p, patch)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	s.warnOnCost(ctx, p)

	p.UpdatedAt = s.now().UTC()
	if err := s.projects.UpdateProject(ctx, p); err != nil {
		s.logger.ErrorContext(ctx, "failed to update project",
			slog.String("operation", "UpdateProject"),
			slog.String("id", id),
			slog.Any("error", err),
		)
		return nil, err
	}

	if err := s.derive(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// DeleteProject deletes a project after checking the delete guard: the delete
// is rejected while any task of the project is not done. The storage layer
// cascades the delete to the project's tasks.
func (s *ProjectService) DeleteProject(ctx context.Context, id string) error {
	s.logger.InfoContext(ctx, "deleting project", slog.String("id", id))

	if _, err := s.projects.GetProject(ctx, id); err != nil {
		return err
	}

	open, err := s.tasks.CountOpenByProject(ctx, id)
	if err != nil {
		return err
	}
	if open > 0 {
		return &domain.ValidationError{Fields: map[string]string{
			"tasks": fmt.Sprintf("cannot delete project: %d task(s) are not completed", open),
		}}
	}

	if err := s.projects.DeleteProject(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to delete project",
			slog.String("operation", "DeleteProject"),
			slog.String("id", id),
			slog.Any("error", err),
		)
		return err
	}
	return nil
}

// UpdateBudget implements the update-budget workflow operation. A missing
// project or a negative new budget is a soft failure (Success=false); only
// infrastructure errors are returned as errors. Concurrent calls against the
// same project are last-writer-wins; no lock is taken.
func (s *ProjectService) UpdateBudget(ctx context.Context, projectID string, newBudget, additionalCost *float64) (*ports.BudgetResult, error) {
	s.logger.InfoContext(ctx, "updating project budget", slog.String("project_id", projectID))

	p, err := s.projects.GetProject(ctx, projectID)
	if errors.Is(err, domain.ErrNotFound) {
		return &ports.BudgetResult{
			Success:         false,
			Message:         fmt.Sprintf("Project with ID %s not found", projectID),
			RemainingBudget: 0,
		}, nil
	}
	if err != nil {
		return nil, err
	}

	if newBudget != nil && *newBudget < 0 {
		return &ports.BudgetResult{
			Success:         false,
			Message:         "New budget cannot be negative",
			RemainingBudget: budgetValue(p.Budget) - p.ActualCost,
		}, nil
	}

	if newBudget != nil {
		p.Budget = newBudget
	}
	if additionalCost != nil {
		p.ActualCost += *additionalCost
	}
	p.UpdatedAt = s.now().UTC()
	s.warnOnCost(ctx, p)

	if err := s.projects.UpdateProject(ctx, p); err != nil {
		s.logger.ErrorContext(ctx, "failed to persist budget update",
			slog.String("operation", "UpdateBudget"),
			slog.String("project_id", projectID),
			slog.Any("error", err),
		)
		return nil, err
	}

	remaining := budgetValue(p.Budget) - p.ActualCost
	s.notify(ctx, ports.Event{
		Type:       ports.EventBudgetUpdated,
		EntityKind: "project",
		EntityID:   p.ID,
		Actor:      reqctx.Caller(ctx).Subject,
		Payload: map[string]any{
			"budget":           budgetValue(p.Budget),
			"actual_cost":      p.ActualCost,
			"remaining_budget": remaining,
		},
	})

	return &ports.BudgetResult{
		Success:         true,
		Message:         fmt.Sprintf("Budget updated for project %q", p.Name),
		RemainingBudget: remaining,
	}, nil
}

// Stats implements the get-stats workflow operation. A missing project is a
// hard domain.ErrNotFound, unlike the soft failures of the other workflow
// operations.
func (s *ProjectService) Stats(ctx context.Context, projectID string) (*ports.ProjectStats, error) {
	s.logger.InfoContext(ctx, "computing project stats", slog.String("project_id", projectID))

	if _, err := s.projects.GetProject(ctx, projectID); err != nil {
		return nil, err
	}

	tasks, err := s.tasks.ListTasks(ctx, task.Filter{ProjectID: &projectID})
	if err != nil {
		return nil, err
	}

	now := s.now()
	stats := &ports.ProjectStats{TotalTasks: len(tasks)}
	for i := range tasks {
		if tasks[i].Status == task.StatusDone {
			stats.CompletedTasks++
		}
		if task.Overdue(tasks[i].Status, tasks[i].DueDate, now) {
			stats.OverdueTasks++
		}
	}
	stats.CompletionRate = project.CompletionRate(stats.TotalTasks, stats.CompletedTasks)

	return stats, nil
}

// derive populates the project's computed fields from its task counts.
func (s *ProjectService) derive(ctx context.Context, p *project.Project) error {
	total, completed, err := s.tasks.CountByProject(ctx, p.ID)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to count project tasks",
			slog.String("operation", "derive"),
			slog.String("project_id", p.ID),
			slog.Any("error", err),
		)
		return err
	}
	p.Derive(total, completed)
	return nil
}

// warnOnCost attaches the non-blocking cost-exceeds-budget warning, if any,
// to the current request.
func (s *ProjectService) warnOnCost(ctx context.Context, p *project.Project) {
	if w := p.CostWarning(); w != nil {
		s.logger.WarnContext(ctx, "project cost exceeds budget",
			slog.String("project_id", p.ID),
			slog.Float64("actual_cost", p.ActualCost),
			slog.Float64("budget", *p.Budget),
		)
		reqctx.AddWarning(ctx, *w)
	}
}

// notify forwards a workflow event to the notifier, if one is configured.
func (s *ProjectService) notify(ctx context.Context, event ports.Event) {
	if s.notifier != nil {
		s.notifier.Notify(ctx, event)
	}
}

// applyProjectPatch copies the patch's non-nil fields onto the project.
func applyProjectPatch(p *project.Project, patch ports.ProjectPatch) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.Budget != nil {
		p.Budget = patch.Budget
	}
	if patch.ActualCost != nil {
		p.ActualCost = *patch.ActualCost
	}
	if patch.StartDate != nil {
		p.StartDate = patch.StartDate
	}
	if patch.EndDate != nil {
		p.EndDate = patch.EndDate
	}
}

// budgetValue returns the budget amount, treating an unset budget as zero for
// remaining-budget arithmetic.
func budgetValue(b *float64) float64 {
	if b == nil {
		return 0
	}
	return *b
}
