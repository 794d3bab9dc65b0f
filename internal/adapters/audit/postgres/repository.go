package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"3tcapital/ms_gestion_solicitudes/internal/core/audit"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository implements the audit.Repository interface using PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

// NewRepository creates a new PostgreSQL audit repository.
func NewRepository(pool *pgxpool.Pool, log *slog.Logger) audit.Repository {
	return &Repository{pool: pool, log: log}
}

// Save persists an audit log entry to the database.
func (r *Repository) Save(ctx context.Context, log audit.PasarelaAuditLog) error {
	query := `
		INSERT INTO pasarela_audit_log (
			correlation_id, pasarela, operation, request_method, request_url,
			request_headers, request_body, response_status, response_headers,
			response_body, duration_ms, error_message
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	requestHeadersJSON, err := json.Marshal(log.RequestHeaders)
	if err != nil {
		return fmt.Errorf("marshal request headers: %w", err)
	}

	responseHeadersJSON, err := json.Marshal(log.ResponseHeaders)
	if err != nil {
		return fmt.Errorf("marshal response headers: %w", err)
	}

	// Handle nil request/response bodies
	var requestBodyJSON, responseBodyJSON interface{}
	if len(log.RequestBody) > 0 {
		requestBodyJSON = log.RequestBody
	}
	if len(log.ResponseBody) > 0 {
		responseBodyJSON = log.ResponseBody
	}

	_, err = r.pool.Exec(ctx, query,
		log.CorrelationID,
		log.Pasarela,
		log.Operation,
		log.RequestMethod,
		log.RequestURL,
		requestHeadersJSON,
		requestBodyJSON,
		log.ResponseStatus,
		responseHeadersJSON,
		responseBodyJSON,
		log.DurationMs,
		log.ErrorMessage,
	)
	if err != nil {
		if r.log != nil {
			r.log.Error("Failed to insert audit log",
				"correlation_id", log.CorrelationID,
				"operation", log.Operation,
				"error", err,
			)
		}
		return fmt.Errorf("insert audit log: %w", err)
	}

	return nil
}

// FindByCorrelationID retrieves all audit logs with the given correlation ID.
func (r *Repository) FindByCorrelationID(ctx context.Context, correlationID string) ([]audit.PasarelaAuditLog, error) {
	query := `
		SELECT id, correlation_id, pasarela, operation, request_method, request_url,
		       request_headers, request_body, response_status, response_headers,
		       response_body, duration_ms, error_message, created_at
		FROM pasarela_audit_log
		WHERE correlation_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, correlationID)
	if err != nil {
		return nil, fmt.Errorf("query audit logs: %w", err)
	}
	defer rows.Close()

	var logs []audit.PasarelaAuditLog
	for rows.Next() {
		var log audit.PasarelaAuditLog
		var requestHeadersJSON, responseHeadersJSON []byte
		var requestBodyJSON, responseBodyJSON []byte

		err := rows.Scan(
			&log.ID,
			&log.CorrelationID,
			&log.Pasarela,
			&log.Operation,
			&log.RequestMethod,
			&log.RequestURL,
			&requestHeadersJSON,
			&requestBodyJSON,
			&log.ResponseStatus,
			&responseHeadersJSON,
			&responseBodyJSON,
			&log.DurationMs,
			&log.ErrorMessage,
			&log.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}

		if err := json.Unmarshal(requestHeadersJSON, &log.RequestHeaders); err != nil {
			return nil, fmt.Errorf("unmarshal request headers: %w", err)
		}
		if err := json.Unmarshal(responseHeadersJSON, &log.ResponseHeaders); err != nil {
			return nil, fmt.Errorf("unmarshal response headers: %w", err)
		}

		log.RequestBody = requestBodyJSON
		log.ResponseBody = responseBodyJSON

		logs = append(logs, log)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return logs, nil
}
