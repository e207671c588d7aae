// Package dto provides HTTP request/response data transfer objects and
// RFC 9457 Problem Details error responses for the inbound HTTP adapter layer.
package dto

import (
	"time"

	"taskdesk/internal/domain"
	"taskdesk/internal/domain/project"
	"taskdesk/internal/domain/task"
	"taskdesk/internal/ports"
)

// ProjectResponse represents a single project in HTTP responses. The derived
// fields (task counts, completion rate, remaining budget) are computed on
// read and never stored.
type ProjectResponse struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Description     string            `json:"description,omitempty"`
	Status          string            `json:"status"`
	Budget          *float64          `json:"budget,omitempty"`
	ActualCost      float64           `json:"actual_cost"`
	StartDate       *string           `json:"start_date,omitempty"`
	EndDate         *string           `json:"end_date,omitempty"`
	TotalTasks      int               `json:"total_tasks"`
	CompletedTasks  int               `json:"completed_tasks"`
	CompletionRate  int               `json:"completion_rate"`
	RemainingBudget *float64          `json:"remaining_budget,omitempty"`
	Warnings        []WarningResponse `json:"warnings,omitempty"`
	CreatedAt       string            `json:"created_at"`
	UpdatedAt       string            `json:"updated_at"`
}

// ProjectListResponse represents a list of projects in HTTP responses.
type ProjectListResponse struct {
	Projects []ProjectResponse `json:"projects"`
	Count    int               `json:"count"`
}

// WarningResponse represents a non-blocking warning raised while handling the
// request, such as a project cost above its budget.
type WarningResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ToWarningResponses converts domain warnings to HTTP response DTOs.
func ToWarningResponses(warnings []domain.Warning) []WarningResponse {
	if len(warnings) == 0 {
		return nil
	}
	out := make([]WarningResponse, len(warnings))
	for i, w := range warnings {
		out[i] = WarningResponse{Code: w.Code, Message: w.Message}
	}
	return out
}

// ToProjectResponse converts a domain Project entity to an HTTP response DTO.
func ToProjectResponse(p *project.Project) ProjectResponse {
	return ProjectResponse{
		ID:              p.ID,
		Name:            p.Name,
		Description:     p.Description,
		Status:          p.Status.String(),
		Budget:          p.Budget,
		ActualCost:      p.ActualCost,
		StartDate:       formatTimePtr(p.StartDate),
		EndDate:         formatTimePtr(p.EndDate),
		TotalTasks:      p.TotalTasks,
		CompletedTasks:  p.CompletedTasks,
		CompletionRate:  p.CompletionRate,
		RemainingBudget: p.RemainingBudget,
		CreatedAt:       p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       p.UpdatedAt.Format(time.RFC3339),
	}
}

// ToProjectListResponse converts a slice of domain Project entities to an
// HTTP list response DTO.
func ToProjectListResponse(projects []project.Project) ProjectListResponse {
	items := make([]ProjectResponse, len(projects))
	for i := range projects {
		items[i] = ToProjectResponse(&projects[i])
	}
	return ProjectListResponse{
		Projects: items,
		Count:    len(items),
	}
}

// TaskResponse represents a single task in HTTP responses. IsOverdue is
// derived on read.
type TaskResponse struct {
	ID             string            `json:"id"`
	Title          string            `json:"title"`
	Description    string            `json:"description,omitempty"`
	Priority       string            `json:"priority"`
	Status         string            `json:"status"`
	EstimatedHours *float64          `json:"estimated_hours,omitempty"`
	ActualHours    float64           `json:"actual_hours"`
	DueDate        *string           `json:"due_date,omitempty"`
	CompletedAt    *string           `json:"completed_at,omitempty"`
	AssignedTo     string            `json:"assigned_to,omitempty"`
	ProjectID      *string           `json:"project_id,omitempty"`
	IsOverdue      bool              `json:"is_overdue"`
	Warnings       []WarningResponse `json:"warnings,omitempty"`
	CreatedAt      string            `json:"created_at"`
	UpdatedAt      string            `json:"updated_at"`
}

// TaskListResponse represents a list of tasks in HTTP responses.
type TaskListResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Count int            `json:"count"`
}

// ToTaskResponse converts a domain Task entity to an HTTP response DTO.
func ToTaskResponse(t *task.Task) TaskResponse {
	return TaskResponse{
		ID:             t.ID,
		Title:          t.Title,
		Description:    t.Description,
		Priority:       t.Priority.String(),
		Status:         t.Status.String(),
		EstimatedHours: t.EstimatedHours,
		ActualHours:    t.ActualHours,
		DueDate:        formatTimePtr(t.DueDate),
		CompletedAt:    formatTimePtr(t.CompletedAt),
		AssignedTo:     t.AssignedTo,
		ProjectID:      t.ProjectID,
		IsOverdue:      t.IsOverdue,
		CreatedAt:      t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      t.UpdatedAt.Format(time.RFC3339),
	}
}

// ToTaskListResponse converts a slice of domain Task entities to an HTTP list
// response DTO.
func ToTaskListResponse(tasks []task.Task) TaskListResponse {
	items := make([]TaskResponse, len(tasks))
	for i := range tasks {
		items[i] = ToTaskResponse(&tasks[i])
	}
	return TaskListResponse{
		Tasks: items,
		Count: len(items),
	}
}

// ActionResponse represents the outcome of the complete-task and assign-task
// workflow operations. A soft failure is reported with Success=false and an
// HTTP 200, not a problem response.
type ActionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ToActionResponse converts a ports.ActionResult to an HTTP response DTO.
func ToActionResponse(result *ports.ActionResult) ActionResponse {
	return ActionResponse{
		Success: result.Success,
		Message: result.Message,
	}
}

// BudgetResponse represents the outcome of the update-budget workflow
// operation.
type BudgetResponse struct {
	Success         bool              `json:"success"`
	Message         string            `json:"message"`
	RemainingBudget float64           `json:"remaining_budget"`
	Warnings        []WarningResponse `json:"warnings,omitempty"`
}

// ToBudgetResponse converts a ports.BudgetResult to an HTTP response DTO.
func ToBudgetResponse(result *ports.BudgetResult) BudgetResponse {
	return BudgetResponse{
		Success:         result.Success,
		Message:         result.Message,
		RemainingBudget: result.RemainingBudget,
	}
}

// StatsResponse represents the aggregate statistics of a project's tasks.
type StatsResponse struct {
	TotalTasks     int `json:"total_tasks"`
	CompletedTasks int `json:"completed_tasks"`
	CompletionRate int `json:"completion_rate"`
	OverdueTasks   int `json:"overdue_tasks"`
}

// ToStatsResponse converts a ports.ProjectStats to an HTTP response DTO.
func ToStatsResponse(stats *ports.ProjectStats) StatsResponse {
	return StatsResponse{
		TotalTasks:     stats.TotalTasks,
		CompletedTasks: stats.CompletedTasks,
		CompletionRate: stats.CompletionRate,
		OverdueTasks:   stats.OverdueTasks,
	}
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
