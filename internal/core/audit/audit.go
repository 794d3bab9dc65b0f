package audit

import (
	"context"
	"encoding/json"
	"time"
)

// PasarelaAuditLog representa un registro de auditoría de una llamada saliente
// a la pasarela de pagos. Captura petición y respuesta completas para
// depuración y conciliación.
type PasarelaAuditLog struct {
	ID              int64
	CorrelationID   string
	Pasarela        string
	Operation       string
	RequestMethod   string
	RequestURL      string
	RequestHeaders  map[string]string
	RequestBody     json.RawMessage
	ResponseStatus  *int
	ResponseHeaders map[string]string
	ResponseBody    json.RawMessage
	DurationMs      int64
	ErrorMessage    string
	CreatedAt       time.Time
}

// Repository defines the contract for persisting and retrieving audit logs.
type Repository interface {
	// Save persists an audit log entry to storage.
	Save(ctx context.Context, log PasarelaAuditLog) error

	// FindByCorrelationID retrieves all audit logs associated with a correlation ID.
	FindByCorrelationID(ctx context.Context, correlationID string) ([]PasarelaAuditLog, error)
}
