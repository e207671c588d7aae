// Package reqctx provides request-scoped state for the application layer.
//
// A RequestContext is created per HTTP request by middleware and carries the
// authenticated caller (Principal) plus any non-blocking warnings raised by
// business rules during the request. The core services never re-check role
// membership themselves; they trust the Principal the middleware attached.
//
//	rc := reqctx.New(principal)
//	ctx = reqctx.WithRequestContext(ctx, rc)
//
//	// In the application layer:
//	reqctx.AddWarning(ctx, domain.Warning{Code: "cost-exceeds-budget", ...})
//
//	// Back in the handler, after the service returns:
//	warnings := reqctx.Warnings(ctx)
package reqctx

import (
	"context"
	"slices"
	"sync"

	"taskdesk/internal/domain"
)

// Principal identifies the authenticated caller. Authorization was already
// enforced by the HTTP middleware before the application layer runs.
type Principal struct {
	Subject string
	Roles   []string
}

// Anonymous is the principal used when authentication is disabled.
var Anonymous = Principal{Subject: "anonymous"}

// HasRole returns true if the principal carries the given role.
func (p Principal) HasRole(role string) bool {
	return slices.Contains(p.Roles, role)
}

// RequestContext holds per-request state shared between middleware, handlers,
// and application services. It is created once per HTTP request. Warning
// collection is mutex-guarded because the timeout middleware may run the
// handler on a separate goroutine.
type RequestContext struct {
	Principal Principal

	mu       sync.Mutex
	warnings []domain.Warning
}

// New creates a RequestContext for the given principal.
func New(principal Principal) *RequestContext {
	return &RequestContext{Principal: principal}
}

// AddWarning appends a non-blocking warning to the request.
func (rc *RequestContext) AddWarning(w domain.Warning) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.warnings = append(rc.warnings, w)
}

// Warnings returns a copy of the warnings collected so far.
func (rc *RequestContext) Warnings() []domain.Warning {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	out := make([]domain.Warning, len(rc.warnings))
	copy(out, rc.warnings)
	return out
}

// contextKey is the unexported key type for storing the RequestContext.
type contextKey struct{}

// WithRequestContext returns a new context carrying the RequestContext.
func WithRequestContext(ctx context.Context, rc *RequestContext) context.Context {
	return context.WithValue(ctx, contextKey{}, rc)
}

// FromContext extracts the RequestContext, or nil if none is stored.
func FromContext(ctx context.Context) *RequestContext {
	rc, _ := ctx.Value(contextKey{}).(*RequestContext)
	return rc
}

// AddWarning appends a warning to the request's context, if one is present.
// Safe to call from code paths that run outside an HTTP request (no-op).
func AddWarning(ctx context.Context, w domain.Warning) {
	if rc := FromContext(ctx); rc != nil {
		rc.AddWarning(w)
	}
}

// Warnings returns the warnings collected on the request, or nil when the
// context carries no RequestContext.
func Warnings(ctx context.Context) []domain.Warning {
	if rc := FromContext(ctx); rc != nil {
		return rc.Warnings()
	}
	return nil
}

// Caller returns the principal attached to the request, or Anonymous when the
// context carries no RequestContext.
func Caller(ctx context.Context) Principal {
	if rc := FromContext(ctx); rc != nil {
		return rc.Principal
	}
	return Anonymous
}
