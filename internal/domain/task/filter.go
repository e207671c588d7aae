package task

// Filter holds optional filter criteria for listing tasks.
// Zero-value fields mean "no filter" for that dimension.
type Filter struct {
	Status     Status
	Priority   Priority
	AssignedTo string
	ProjectID  *string
}
