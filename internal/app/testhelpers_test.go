package app

import (
	"context"
	"log/slog"
	"time"

	"taskdesk/internal/domain"
	"taskdesk/internal/domain/project"
	"taskdesk/internal/domain/task"
	"taskdesk/internal/ports"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func float64Ptr(v float64) *float64 { return &v }

func stringPtr(v string) *string { return &v }

func timePtr(v time.Time) *time.Time { return &v }

var testNow = time.Date(2026, 4, 15, 10, 0, 0, 0, time.UTC)

// fakeProjectStore is an in-memory ports.ProjectStore for service tests.
// forcedErr, when set, is returned by every method.
type fakeProjectStore struct {
	projects  map[string]project.Project
	forcedErr error
}

var _ ports.ProjectStore = (*fakeProjectStore)(nil)

func newFakeProjectStore(projects ...project.Project) *fakeProjectStore {
	s := &fakeProjectStore{projects: make(map[string]project.Project)}
	for _, p := range projects {
		s.projects[p.ID] = p
	}
	return s
}

func (s *fakeProjectStore) ListProjects(context.Context) ([]project.Project, error) {
	if s.forcedErr != nil {
		return nil, s.forcedErr
	}
	out := make([]project.Project, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, p)
	}
	return out, nil
}

func (s *fakeProjectStore) GetProject(_ context.Context, id string) (*project.Project, error) {
	if s.forcedErr != nil {
		return nil, s.forcedErr
	}
	p, ok := s.projects[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := p
	return &cp, nil
}

func (s *fakeProjectStore) CreateProject(_ context.Context, p *project.Project) error {
	if s.forcedErr != nil {
		return s.forcedErr
	}
	s.projects[p.ID] = *p
	return nil
}

func (s *fakeProjectStore) UpdateProject(_ context.Context, p *project.Project) error {
	if s.forcedErr != nil {
		return s.forcedErr
	}
	if _, ok := s.projects[p.ID]; !ok {
		return domain.ErrNotFound
	}
	s.projects[p.ID] = *p
	return nil
}

func (s *fakeProjectStore) DeleteProject(_ context.Context, id string) error {
	if s.forcedErr != nil {
		return s.forcedErr
	}
	if _, ok := s.projects[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.projects, id)
	return nil
}

// fakeTaskStore is an in-memory ports.TaskStore for service tests.
type fakeTaskStore struct {
	tasks     map[string]task.Task
	forcedErr error
}

var _ ports.TaskStore = (*fakeTaskStore)(nil)

func newFakeTaskStore(tasks ...task.Task) *fakeTaskStore {
	s := &fakeTaskStore{tasks: make(map[string]task.Task)}
	for _, t := range tasks {
		s.tasks[t.ID] = t
	}
	return s
}

func (s *fakeTaskStore) ListTasks(_ context.Context, filter task.Filter) ([]task.Task, error) {
	if s.forcedErr != nil {
		return nil, s.forcedErr
	}
	var out []task.Task
	for _, t := range s.tasks {
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		if filter.Priority != "" && t.Priority != filter.Priority {
			continue
		}
		if filter.AssignedTo != "" && t.AssignedTo != filter.AssignedTo {
			continue
		}
		if filter.ProjectID != nil && (t.ProjectID == nil || *t.ProjectID != *filter.ProjectID) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (s *fakeTaskStore) GetTask(_ context.Context, id string) (*task.Task, error) {
	if s.forcedErr != nil {
		return nil, s.forcedErr
	}
	t, ok := s.tasks[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := t
	return &cp, nil
}

func (s *fakeTaskStore) CreateTask(_ context.Context, t *task.Task) error {
	if s.forcedErr != nil {
		return s.forcedErr
	}
	s.tasks[t.ID] = *t
	return nil
}

func (s *fakeTaskStore) UpdateTask(_ context.Context, t *task.Task) error {
	if s.forcedErr != nil {
		return s.forcedErr
	}
	if _, ok := s.tasks[t.ID]; !ok {
		return domain.ErrNotFound
	}
	s.tasks[t.ID] = *t
	return nil
}

func (s *fakeTaskStore) DeleteTask(_ context.Context, id string) error {
	if s.forcedErr != nil {
		return s.forcedErr
	}
	if _, ok := s.tasks[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

func (s *fakeTaskStore) CountByProject(_ context.Context, projectID string) (int, int, error) {
	if s.forcedErr != nil {
		return 0, 0, s.forcedErr
	}
	var total, completed int
	for _, t := range s.tasks {
		if t.ProjectID == nil || *t.ProjectID != projectID {
			continue
		}
		total++
		if t.Status == task.StatusDone {
			completed++
		}
	}
	return total, completed, nil
}

func (s *fakeTaskStore) CountOpenByProject(_ context.Context, projectID string) (int, error) {
	if s.forcedErr != nil {
		return 0, s.forcedErr
	}
	var open int
	for _, t := range s.tasks {
		if t.ProjectID != nil && *t.ProjectID == projectID && t.Status != task.StatusDone {
			open++
		}
	}
	return open, nil
}

// fakeNotifier records events for assertion.
type fakeNotifier struct {
	events []ports.Event
}

var _ ports.Notifier = (*fakeNotifier)(nil)

func (n *fakeNotifier) Notify(_ context.Context, event ports.Event) {
	n.events = append(n.events, event)
}
