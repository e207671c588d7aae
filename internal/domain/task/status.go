package task

// Status represents the workflow state of a Task.
//
// The state machine is todo → in_progress → in_review → done, with blocked
// reachable from any non-terminal state. Done is terminal for the purposes of
// overdue and completion calculations. Transitions are caller-driven (any
// status can be set directly via update) except two automatic ones: todo
// advances to in_progress on assignment, and any status moves to done on the
// complete operation.
type Status string

const (
	StatusToDo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusInReview   Status = "in_review"
	StatusDone       Status = "done"
	StatusBlocked    Status = "blocked"
)

// IsValid returns true if the status is one of the defined constants.
func (s Status) IsValid() bool {
	switch s {
	case StatusToDo, StatusInProgress, StatusInReview, StatusDone, StatusBlocked:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (s Status) String() string {
	return string(s)
}
