package ports

import "context"

// Event is a workflow notification emitted after a successful write.
type Event struct {
	Type       string         `json:"type"`
	EntityKind string         `json:"entity_kind"`
	EntityID   string         `json:"entity_id"`
	Actor      string         `json:"actor,omitempty"`
	Payload    map[string]any `json:"payload,omitempty"`
}

// Event types emitted by the workflow operations.
const (
	EventTaskCompleted = "task.completed"
	EventTaskAssigned  = "task.assigned"
	EventBudgetUpdated = "project.budget_updated"
)

// Notifier delivers workflow events to external consumers (webhooks).
// Implemented by the webhook adapter; called by the application layer after
// the triggering write has committed. Delivery is best-effort: implementations
// log failures and never surface them to the caller.
type Notifier interface {
	Notify(ctx context.Context, event Event)
}
