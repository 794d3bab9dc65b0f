package health

import "time"

// Status captures the state of the service at a moment in time.
type Status struct {
	Service      string            `json:"service"`
	Version      string            `json:"version"`
	Environment  string            `json:"environment"`
	Status       string            `json:"status"`
	StartedAt    time.Time         `json:"startedAt"`
	Uptime       string            `json:"uptime"`
	UptimeSecs   int64             `json:"uptimeSeconds"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

// Healthy reports whether the service and all its dependencies are up.
func (s Status) Healthy() bool {
	if s.Status != "UP" {
		return false
	}
	for _, estado := range s.Dependencies {
		if estado != "UP" {
			return false
		}
	}
	return true
}
