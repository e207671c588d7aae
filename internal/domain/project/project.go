package project

import (
	"fmt"
	"math"
	"strings"
	"time"

	"taskdesk/internal/domain"
)

// Project represents a budgeted unit of work that owns a set of tasks.
// Deleting a project cascades to its tasks at the storage layer, but the
// service layer forbids the delete while any task is still open.
type Project struct {
	ID          string
	Name        string
	Description string
	Status      Status
	Budget      *float64
	ActualCost  float64
	StartDate   *time.Time
	EndDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Derived fields, computed on every read and never persisted.
	TotalTasks      int
	CompletedTasks  int
	CompletionRate  int
	RemainingBudget *float64
}

// Validate checks business rules for the Project entity.
// Returns a *domain.ValidationError (wrapping domain.ErrValidation) with
// per-field details, or nil if all rules pass.
func (p *Project) Validate() error {
	fields := make(map[string]string)

	if strings.TrimSpace(p.Name) == "" {
		fields["name"] = domain.MsgRequired
	}
	if !p.Status.IsValid() {
		fields["status"] = fmt.Sprintf("invalid: %q", p.Status)
	}
	if p.Budget != nil && *p.Budget < 0 {
		fields["budget"] = fmt.Sprintf("must not be negative, got %v", *p.Budget)
	}
	if p.ActualCost < 0 {
		fields["actual_cost"] = fmt.Sprintf("must not be negative, got %v", p.ActualCost)
	}
	if p.StartDate != nil && p.EndDate != nil && p.EndDate.Before(*p.StartDate) {
		fields["end_date"] = "must not be before start_date"
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// CostWarning returns a non-blocking warning when the actual cost exceeds the
// budget, or nil when no budget is set or the cost is within it.
func (p *Project) CostWarning() *domain.Warning {
	if p.Budget == nil || p.ActualCost <= *p.Budget {
		return nil
	}
	return &domain.Warning{
		Code: "cost-exceeds-budget",
		Message: fmt.Sprintf("actual cost %.2f exceeds budget %.2f",
			p.ActualCost, *p.Budget),
	}
}

// Derive populates the computed read-only fields from the persisted row plus
// the task counts for this project. It is invoked by the read path after every
// single-row or collection read.
func (p *Project) Derive(totalTasks, completedTasks int) {
	p.TotalTasks = totalTasks
	p.CompletedTasks = completedTasks
	p.CompletionRate = CompletionRate(totalTasks, completedTasks)
	p.RemainingBudget = nil
	if p.Budget != nil {
		remaining := *p.Budget - p.ActualCost
		p.RemainingBudget = &remaining
	}
}

// CompletionRate returns round(100*completed/total), or 0 when total is zero.
func CompletionRate(total, completed int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}
