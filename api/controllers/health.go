package controllers

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/multierr"

	"github.com/basabecode/tupijama.com-sub001/api/responses"
	"github.com/basabecode/tupijama.com-sub001/pkg/logger"
)

const readinessTimeout = 5 * time.Second

// Pinger is any dependency that can report liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthController answers liveness and readiness probes. Optional
// dependencies (the storage client in credential-less deployments) are
// registered as nil and skipped.
type HealthController struct {
	deps map[string]Pinger
	logg *logger.Logger
}

func NewHealthController(logg *logger.Logger) *HealthController {
	return &HealthController{
		deps: map[string]Pinger{},
		logg: logg,
	}
}

// Register adds a named dependency to the readiness check. Nil pingers are
// ignored.
func (c *HealthController) Register(name string, dep Pinger) {
	if dep == nil {
		return
	}
	c.deps[name] = dep
}

// Live reports that the process is up.
func (c *HealthController) Live(w http.ResponseWriter, r *http.Request) {
	responses.WriteSuccess(w, map[string]string{"status": "ok"})
}

// Ready pings every registered dependency and aggregates failures.
func (c *HealthController) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	checks := map[string]string{}
	var combined error
	for name, dep := range c.deps {
		if err := dep.Ping(ctx); err != nil {
			checks[name] = err.Error()
			combined = multierr.Append(combined, err)
			continue
		}
		checks[name] = "ok"
	}

	if combined != nil {
		c.logg.Error(ctx, "readiness check failed", combined)
		responses.WriteSuccessStatus(w, http.StatusServiceUnavailable, map[string]any{
			"status": "degraded",
			"checks": checks,
		})
		return
	}

	responses.WriteSuccess(w, map[string]any{
		"status": "ok",
		"checks": checks,
	})
}
