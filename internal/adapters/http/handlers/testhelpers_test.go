package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"taskdesk/internal/domain/project"
	"taskdesk/internal/domain/task"
	"taskdesk/internal/ports"
)

var testTime = time.Date(2026, 2, 12, 15, 4, 5, 0, time.UTC)

func withChiParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func validProject() project.Project {
	return project.Project{
		ID:        "7b7e9c1e-6a3f-4f2d-9f8a-0d5cf0a3a111",
		Name:      "Sprint 1",
		Status:    project.StatusActive,
		CreatedAt: testTime,
		UpdatedAt: testTime,
	}
}

func validTask() task.Task {
	return task.Task{
		ID:        "e1f0b7a2-41b2-4f6c-8a4e-2c9d7b3f5222",
		Title:     "Buy groceries",
		Priority:  task.PriorityMedium,
		Status:    task.StatusToDo,
		CreatedAt: testTime,
		UpdatedAt: testTime,
	}
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(v); err != nil {
		t.Fatalf("failed to encode JSON body: %v", err)
	}
	return buf
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var result T
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode JSON response: %v", err)
	}
	return result
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Errorf("status = %d, want %d; body = %s", rec.Code, want, rec.Body.String())
	}
}

// stubProjectService implements ports.ProjectService with per-method function
// fields. An unstubbed call panics, flagging an unexpected service call.
type stubProjectService struct {
	listFn         func(ctx context.Context) ([]project.Project, error)
	getFn          func(ctx context.Context, id string) (*project.Project, error)
	createFn       func(ctx context.Context, p *project.Project) (*project.Project, error)
	updateFn       func(ctx context.Context, id string, patch ports.ProjectPatch) (*project.Project, error)
	deleteFn       func(ctx context.Context, id string) error
	updateBudgetFn func(ctx context.Context, projectID string, newBudget, additionalCost *float64) (*ports.BudgetResult, error)
	statsFn        func(ctx context.Context, projectID string) (*ports.ProjectStats, error)
}

var _ ports.ProjectService = (*stubProjectService)(nil)

func (s *stubProjectService) ListProjects(ctx context.Context) ([]project.Project, error) {
	return s.listFn(ctx)
}

func (s *stubProjectService) GetProject(ctx context.Context, id string) (*project.Project, error) {
	return s.getFn(ctx, id)
}

func (s *stubProjectService) CreateProject(ctx context.Context, p *project.Project) (*project.Project, error) {
	return s.createFn(ctx, p)
}

func (s *stubProjectService) UpdateProject(ctx context.Context, id string, patch ports.ProjectPatch) (*project.Project, error) {
	return s.updateFn(ctx, id, patch)
}

func (s *stubProjectService) DeleteProject(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func (s *stubProjectService) UpdateBudget(ctx context.Context, projectID string, newBudget, additionalCost *float64) (*ports.BudgetResult, error) {
	return s.updateBudgetFn(ctx, projectID, newBudget, additionalCost)
}

func (s *stubProjectService) Stats(ctx context.Context, projectID string) (*ports.ProjectStats, error) {
	return s.statsFn(ctx, projectID)
}

// stubTaskService implements ports.TaskService with per-method function
// fields.
type stubTaskService struct {
	listFn     func(ctx context.Context, filter task.Filter) ([]task.Task, error)
	getFn      func(ctx context.Context, id string) (*task.Task, error)
	createFn   func(ctx context.Context, t *task.Task) (*task.Task, error)
	updateFn   func(ctx context.Context, id string, patch ports.TaskPatch) (*task.Task, error)
	deleteFn   func(ctx context.Context, id string) error
	completeFn func(ctx context.Context, taskID string) (*ports.ActionResult, error)
	assignFn   func(ctx context.Context, taskID, assignee string) (*ports.ActionResult, error)
}

var _ ports.TaskService = (*stubTaskService)(nil)

func (s *stubTaskService) ListTasks(ctx context.Context, filter task.Filter) ([]task.Task, error) {
	return s.listFn(ctx, filter)
}

func (s *stubTaskService) GetTask(ctx context.Context, id string) (*task.Task, error) {
	return s.getFn(ctx, id)
}

func (s *stubTaskService) CreateTask(ctx context.Context, t *task.Task) (*task.Task, error) {
	return s.createFn(ctx, t)
}

func (s *stubTaskService) UpdateTask(ctx context.Context, id string, patch ports.TaskPatch) (*task.Task, error) {
	return s.updateFn(ctx, id, patch)
}

func (s *stubTaskService) DeleteTask(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func (s *stubTaskService) Complete(ctx context.Context, taskID string) (*ports.ActionResult, error) {
	return s.completeFn(ctx, taskID)
}

func (s *stubTaskService) Assign(ctx context.Context, taskID, assignee string) (*ports.ActionResult, error) {
	return s.assignFn(ctx, taskID, assignee)
}
