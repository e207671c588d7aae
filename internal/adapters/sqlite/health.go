package sqlite

import (
	"context"
	"database/sql"

	"taskdesk/internal/ports"
)

// HealthChecker reports database reachability for the readiness endpoint.
type HealthChecker struct {
	db *sql.DB
}

var _ ports.HealthChecker = (*HealthChecker)(nil)

// NewHealthChecker creates a HealthChecker for db.
func NewHealthChecker(db *sql.DB) *HealthChecker {
	return &HealthChecker{db: db}
}

func (h *HealthChecker) Name() string {
	return "sqlite"
}

func (h *HealthChecker) HealthCheck(ctx context.Context) error {
	return h.db.PingContext(ctx)
}
