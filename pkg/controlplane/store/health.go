package store

import (
	"context"
	"database/sql"
	"time"
)

// HealthStatus reports store connectivity for the /healthz endpoint.
type HealthStatus struct {
	Status       string        `json:"status"`
	ResponseTime time.Duration `json:"response_time_ms"`
}

// Health pings the store and reports whether it is reachable.
func Health(ctx context.Context, db *sql.DB) (*HealthStatus, error) {
	start := time.Now()
	if err := db.PingContext(ctx); err != nil {
		return &HealthStatus{Status: "unhealthy", ResponseTime: time.Since(start)}, err
	}
	return &HealthStatus{Status: "healthy", ResponseTime: time.Since(start)}, nil
}
