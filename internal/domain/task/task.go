package task

import (
	"fmt"
	"strings"
	"time"

	"taskdesk/internal/domain"
)

// Task represents a unit of work, optionally owned by a project.
type Task struct {
	ID             string
	Title          string
	Description    string
	Priority       Priority
	Status         Status
	EstimatedHours *float64
	ActualHours    float64
	DueDate        *time.Time
	CompletedAt    *time.Time
	AssignedTo     string
	ProjectID      *string
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Derived on every read, never persisted.
	IsOverdue bool
}

// Validate checks business rules for the Task entity.
// Returns a *domain.ValidationError (wrapping domain.ErrValidation) with
// per-field details, or nil if all rules pass.
func (t *Task) Validate() error {
	fields := make(map[string]string)

	if strings.TrimSpace(t.Title) == "" {
		fields["title"] = domain.MsgRequired
	}
	if !t.Status.IsValid() {
		fields["status"] = fmt.Sprintf("invalid: %q", t.Status)
	}
	if !t.Priority.IsValid() {
		fields["priority"] = fmt.Sprintf("invalid: %q", t.Priority)
	}
	if t.EstimatedHours != nil && *t.EstimatedHours < 0 {
		fields["estimated_hours"] = fmt.Sprintf("must not be negative, got %v", *t.EstimatedHours)
	}
	if t.ActualHours < 0 {
		fields["actual_hours"] = fmt.Sprintf("must not be negative, got %v", t.ActualHours)
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// Derive populates the computed read-only fields relative to now.
func (t *Task) Derive(now time.Time) {
	t.IsOverdue = Overdue(t.Status, t.DueDate, now)
}

// Overdue reports whether a task is overdue: not done, due date present, and
// the due date's calendar day is before today's. The comparison is date-only
// and evaluated in now's location, so a date stored in another zone is not
// flagged while it is still the same calendar day for the caller.
func Overdue(status Status, dueDate *time.Time, now time.Time) bool {
	if status == StatusDone || dueDate == nil {
		return false
	}
	today := midnight(now)
	due := midnight(dueDate.In(now.Location()))
	return due.Before(today)
}

// midnight truncates t to the start of its calendar day in t's location.
func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
