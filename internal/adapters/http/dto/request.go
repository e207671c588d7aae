package dto

import (
	"fmt"
	"strings"
	"time"

	"taskdesk/internal/domain"
	"taskdesk/internal/domain/project"
	"taskdesk/internal/domain/task"
	"taskdesk/internal/ports"
)

const (
	msgRequired     = "is required"
	msgMustNotEmpty = "must not be empty"
)

// CreateProjectRequest represents the JSON body for creating a new project.
type CreateProjectRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status,omitempty"`
	Budget      *float64   `json:"budget,omitempty"`
	ActualCost  *float64   `json:"actual_cost,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
}

// Validate checks that required fields are present and enum-typed fields hold
// recognized values. Returns a *domain.ValidationError if any checks fail.
func (r *CreateProjectRequest) Validate() error {
	fields := make(map[string]string)

	if strings.TrimSpace(r.Name) == "" {
		fields["name"] = msgRequired
	}
	if r.Status != "" && !project.Status(r.Status).IsValid() {
		fields["status"] = fmt.Sprintf("invalid: %q", r.Status)
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// ToProject converts the request into a domain project.
func (r *CreateProjectRequest) ToProject() *project.Project {
	p := &project.Project{
		Name:        r.Name,
		Description: r.Description,
		Status:      project.Status(r.Status),
		Budget:      r.Budget,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
	}
	if r.ActualCost != nil {
		p.ActualCost = *r.ActualCost
	}
	return p
}

// UpdateProjectRequest represents the JSON body for updating an existing
// project. All fields are optional; nil means "do not change this field".
type UpdateProjectRequest struct {
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	Status      *string    `json:"status,omitempty"`
	Budget      *float64   `json:"budget,omitempty"`
	ActualCost  *float64   `json:"actual_cost,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
}

// Validate checks that any provided fields have valid values.
// Returns a *domain.ValidationError if any checks fail.
func (r *UpdateProjectRequest) Validate() error {
	fields := make(map[string]string)

	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		fields["name"] = msgMustNotEmpty
	}
	if r.Status != nil && !project.Status(*r.Status).IsValid() {
		fields["status"] = fmt.Sprintf("invalid: %q", *r.Status)
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// ToPatch converts the request into a project patch.
func (r *UpdateProjectRequest) ToPatch() ports.ProjectPatch {
	patch := ports.ProjectPatch{
		Name:        r.Name,
		Description: r.Description,
		Budget:      r.Budget,
		ActualCost:  r.ActualCost,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
	}
	if r.Status != nil {
		status := project.Status(*r.Status)
		patch.Status = &status
	}
	return patch
}

// CreateTaskRequest represents the JSON body for creating a new task.
type CreateTaskRequest struct {
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	Priority       string     `json:"priority,omitempty"`
	Status         string     `json:"status,omitempty"`
	EstimatedHours *float64   `json:"estimated_hours,omitempty"`
	ActualHours    *float64   `json:"actual_hours,omitempty"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	AssignedTo     string     `json:"assigned_to,omitempty"`
	ProjectID      *string    `json:"project_id,omitempty"`
}

// Validate checks that required fields are present and enum-typed fields hold
// recognized values. Returns a *domain.ValidationError if any checks fail.
func (r *CreateTaskRequest) Validate() error {
	fields := make(map[string]string)

	if strings.TrimSpace(r.Title) == "" {
		fields["title"] = msgRequired
	}
	if r.Status != "" && !task.Status(r.Status).IsValid() {
		fields["status"] = fmt.Sprintf("invalid: %q", r.Status)
	}
	if r.Priority != "" && !task.Priority(r.Priority).IsValid() {
		fields["priority"] = fmt.Sprintf("invalid: %q", r.Priority)
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// ToTask converts the request into a domain task.
func (r *CreateTaskRequest) ToTask() *task.Task {
	t := &task.Task{
		Title:          r.Title,
		Description:    r.Description,
		Priority:       task.Priority(r.Priority),
		Status:         task.Status(r.Status),
		EstimatedHours: r.EstimatedHours,
		DueDate:        r.DueDate,
		AssignedTo:     r.AssignedTo,
		ProjectID:      r.ProjectID,
	}
	if r.ActualHours != nil {
		t.ActualHours = *r.ActualHours
	}
	return t
}

// UpdateTaskRequest represents the JSON body for updating an existing task.
// All fields are optional; nil means "do not change this field".
type UpdateTaskRequest struct {
	Title          *string    `json:"title,omitempty"`
	Description    *string    `json:"description,omitempty"`
	Priority       *string    `json:"priority,omitempty"`
	Status         *string    `json:"status,omitempty"`
	EstimatedHours *float64   `json:"estimated_hours,omitempty"`
	ActualHours    *float64   `json:"actual_hours,omitempty"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	AssignedTo     *string    `json:"assigned_to,omitempty"`
	ProjectID      *string    `json:"project_id,omitempty"`
}

// Validate checks that any provided fields have valid values.
// Returns a *domain.ValidationError if any checks fail.
func (r *UpdateTaskRequest) Validate() error {
	fields := make(map[string]string)

	if r.Title != nil && strings.TrimSpace(*r.Title) == "" {
		fields["title"] = msgMustNotEmpty
	}
	if r.Status != nil && !task.Status(*r.Status).IsValid() {
		fields["status"] = fmt.Sprintf("invalid: %q", *r.Status)
	}
	if r.Priority != nil && !task.Priority(*r.Priority).IsValid() {
		fields["priority"] = fmt.Sprintf("invalid: %q", *r.Priority)
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// ToPatch converts the request into a task patch.
func (r *UpdateTaskRequest) ToPatch() ports.TaskPatch {
	patch := ports.TaskPatch{
		Title:          r.Title,
		Description:    r.Description,
		EstimatedHours: r.EstimatedHours,
		ActualHours:    r.ActualHours,
		DueDate:        r.DueDate,
		AssignedTo:     r.AssignedTo,
		ProjectID:      r.ProjectID,
	}
	if r.Status != nil {
		status := task.Status(*r.Status)
		patch.Status = &status
	}
	if r.Priority != nil {
		priority := task.Priority(*r.Priority)
		patch.Priority = &priority
	}
	return patch
}

// AssignTaskRequest represents the JSON body for the assign-task operation.
// A blank assignee is not a request-shape error; the service rejects it as a
// soft failure so no Validate method rejects it here.
type AssignTaskRequest struct {
	AssignedTo string `json:"assigned_to"`
}

// UpdateBudgetRequest represents the JSON body for the update-budget
// operation. Both fields are optional but at least one must be present.
type UpdateBudgetRequest struct {
	NewBudget      *float64 `json:"new_budget,omitempty"`
	AdditionalCost *float64 `json:"additional_cost,omitempty"`
}

// Validate checks that the request carries at least one change.
// Returns a *domain.ValidationError if any checks fail.
func (r *UpdateBudgetRequest) Validate() error {
	if r.NewBudget == nil && r.AdditionalCost == nil {
		return &domain.ValidationError{Fields: map[string]string{
			"body": "at least one of new_budget or additional_cost " + msgRequired,
		}}
	}
	return nil
}
