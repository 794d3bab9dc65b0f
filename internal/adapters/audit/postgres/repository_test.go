package postgres

import (
	"encoding/json"
	"testing"
	"time"

	"3tcapital/ms_gestion_solicitudes/internal/core/audit"
)

// Note: These tests require a PostgreSQL database connection.
// They are integration tests and should be run with a test database.
// For unit tests, use a mock repository implementation.

func TestRepositoryIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	t.Run("mock test for structure validation", func(t *testing.T) {
		// This is a structural test to ensure the repository implements the interface
		var _ audit.Repository = (*Repository)(nil)
	})
}

func TestAuditLogStructure(t *testing.T) {
	// Test that audit log can be properly marshaled/unmarshaled
	log := audit.PasarelaAuditLog{
		CorrelationID: "test-123",
		Pasarela:      "pasarela",
		Operation:     "procesar",
		RequestMethod: "POST",
		RequestURL:    "https://pagos.example.com/api/pagos/procesar",
		RequestHeaders: map[string]string{
			"Content-Type": "application/json",
		},
		RequestBody:    json.RawMessage(`{"id_orden":"abc","monto":950000}`),
		ResponseStatus: func() *int { v := 200; return &v }(),
		ResponseHeaders: map[string]string{
			"Content-Type": "application/json",
		},
		ResponseBody: json.RawMessage(`{"solicitud_activada":true}`),
		DurationMs:   150,
		ErrorMessage: "",
		CreatedAt:    time.Now(),
	}

	headersJSON, err := json.Marshal(log.RequestHeaders)
	if err != nil {
		t.Fatalf("failed to marshal headers: %v", err)
	}

	var headers map[string]string
	if err := json.Unmarshal(headersJSON, &headers); err != nil {
		t.Fatalf("failed to unmarshal headers: %v", err)
	}

	if headers["Content-Type"] != "application/json" {
		t.Error("headers not properly serialized")
	}

	var reqBody, respBody map[string]interface{}
	if err := json.Unmarshal(log.RequestBody, &reqBody); err != nil {
		t.Fatalf("request body is not valid JSON: %v", err)
	}
	if err := json.Unmarshal(log.ResponseBody, &respBody); err != nil {
		t.Fatalf("response body is not valid JSON: %v", err)
	}
}

func TestRepositoryNilHandling(t *testing.T) {
	// Test that repository can handle nil/empty values
	log := audit.PasarelaAuditLog{
		CorrelationID:   "test-456",
		Pasarela:        "pasarela",
		Operation:       "procesar",
		RequestMethod:   "POST",
		RequestURL:      "https://pagos.example.com",
		RequestHeaders:  nil, // nil headers
		RequestBody:     nil, // nil body
		ResponseStatus:  nil, // nil status (error case)
		ResponseHeaders: nil,
		ResponseBody:    nil,
		DurationMs:      100,
		ErrorMessage:    "connection timeout",
		CreatedAt:       time.Now(),
	}

	headers := log.RequestHeaders
	if headers == nil {
		headers = make(map[string]string)
	}

	headersJSON, err := json.Marshal(headers)
	if err != nil {
		t.Fatalf("failed to marshal nil headers: %v", err)
	}

	if string(headersJSON) != "{}" {
		t.Errorf("expected empty object for nil headers, got %s", string(headersJSON))
	}
}
