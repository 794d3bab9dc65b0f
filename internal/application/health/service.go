package health

import (
	"context"
	"time"

	corehealth "3tcapital/ms_gestion_solicitudes/internal/core/health"
)

// Metadata contains immutable metadata about the running service.
type Metadata struct {
	Service     string
	Version     string
	Environment string
}

// Check verifies the availability of a single dependency.
type Check func(ctx context.Context) error

// Service exposes health-check use cases to adapters.
type Service struct {
	meta      Metadata
	startedAt time.Time
	checks    map[string]Check
}

func NewService(meta Metadata) *Service {
	return &Service{
		meta:      meta,
		startedAt: time.Now().UTC(),
		checks:    make(map[string]Check),
	}
}

// RegisterDependency adds a named dependency to the availability snapshot.
// Registration happens at wiring time, before the server starts.
func (s *Service) RegisterDependency(name string, check Check) {
	s.checks[name] = check
}

// Status returns the current availability snapshot, probing every
// registered dependency.
func (s *Service) Status(ctx context.Context) corehealth.Status {
	uptime := time.Since(s.startedAt)
	status := corehealth.Status{
		Service:     s.meta.Service,
		Version:     s.meta.Version,
		Environment: s.meta.Environment,
		Status:      "UP",
		StartedAt:   s.startedAt,
		Uptime:      uptime.String(),
		UptimeSecs:  int64(uptime.Seconds()),
	}

	if len(s.checks) == 0 {
		return status
	}
	status.Dependencies = make(map[string]string, len(s.checks))
	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			status.Dependencies[name] = "DOWN"
			continue
		}
		status.Dependencies[name] = "UP"
	}
	return status
}
