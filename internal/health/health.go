// Package health implements readiness checks for the API's dependencies.
package health

import (
	"context"
	"time"

	"circl/backend/internal/db"
)

// Status is the result of one health check pass.
type Status struct {
	Healthy  bool   `json:"healthy"`
	Database string `json:"database"`
	Uptime   string `json:"uptime,omitempty"`
}

// Checker pings the API's dependencies.
type Checker struct {
	database *db.Database
}

func NewChecker(database *db.Database) *Checker {
	return &Checker{database: database}
}

// Check pings the database with a short deadline so a hung pool cannot stall
// the health endpoint.
func (c *Checker) Check(ctx context.Context) Status {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := c.database.HealthCheck(ctx); err != nil {
		return Status{Healthy: false, Database: err.Error()}
	}
	return Status{Healthy: true, Database: "ok"}
}
