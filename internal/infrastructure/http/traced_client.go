package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"3tcapital/ms_gestion_solicitudes/internal/core/audit"
	ctxutil "3tcapital/ms_gestion_solicitudes/internal/infrastructure/context"
	"3tcapital/ms_gestion_solicitudes/internal/infrastructure/security"
)

// TracedClient wraps an HTTP client to trace outbound gateway calls. It logs
// every request and response, sanitizes sensitive data, and persists an audit
// trail when a repository is configured.
type TracedClient struct {
	client       *http.Client
	log          *slog.Logger
	auditRepo    audit.Repository
	pasarela     string
	auditEnabled bool
	logReqBody   bool
	logRespBody  bool
	maxBodySize  int
}

// TracedClientConfig holds configuration for the traced HTTP client.
type TracedClientConfig struct {
	Timeout         time.Duration
	AuditEnabled    bool
	LogRequestBody  bool
	LogResponseBody bool
	MaxBodySize     int
}

// NewTracedClient creates a new traced HTTP client with connection pooling.
func NewTracedClient(cfg *TracedClientConfig, log *slog.Logger, auditRepo audit.Repository, pasarela string) *TracedClient {
	if cfg.MaxBodySize == 0 {
		cfg.MaxBodySize = 102400 // 100KB default
	}

	transport := &http.Transport{
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		MaxConnsPerHost:       50,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: cfg.Timeout,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &TracedClient{
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		log:          log,
		auditRepo:    auditRepo,
		pasarela:     pasarela,
		auditEnabled: cfg.AuditEnabled,
		logReqBody:   cfg.LogRequestBody,
		logRespBody:  cfg.LogResponseBody,
		maxBodySize:  cfg.MaxBodySize,
	}
}

// Do executes an HTTP request with tracing and audit.
func (c *TracedClient) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	correlationID := ctxutil.GetCorrelationID(ctx)
	operation := c.extractOperation(req)
	start := time.Now()

	// Add correlation ID header for downstream tracing
	if correlationID != "" {
		req.Header.Set("X-Correlation-ID", correlationID)
	}

	// Capture request body for logging/audit
	var requestBody []byte
	if req.Body != nil {
		var err error
		requestBody, err = io.ReadAll(req.Body)
		if err != nil {
			c.log.Error("Failed to read request body for tracing",
				"error", err,
				"correlation_id", correlationID,
			)
		}
		// Restore body for actual request
		req.Body = io.NopCloser(bytes.NewBuffer(requestBody))
	}

	c.logRequest(correlationID, operation, req, requestBody)

	resp, err := c.client.Do(req)
	duration := time.Since(start)

	// Capture response body for logging/audit
	var responseBody []byte
	if resp != nil && resp.Body != nil {
		responseBody, _ = io.ReadAll(resp.Body)
		// Restore body for caller
		resp.Body = io.NopCloser(bytes.NewBuffer(responseBody))
	}

	c.logResponse(correlationID, operation, req, resp, err, duration, responseBody)

	if c.auditEnabled && c.auditRepo != nil {
		if correlationID == "" {
			correlationID = fmt.Sprintf("audit-%d", time.Now().UnixNano())
		}

		// Persist asynchronously with a fresh context: the request context is
		// cancelled as soon as the caller finishes with the response.
		go func() {
			defer func() {
				if r := recover(); r != nil {
					c.log.Error("Panic in audit log persistence",
						"panic", r,
						"correlation_id", correlationID,
						"operation", operation,
					)
				}
			}()

			saveCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			c.persistAuditLog(saveCtx, correlationID, operation, req, resp, err, duration, requestBody, responseBody)
		}()
	}

	return resp, err
}

// logRequest logs the outgoing HTTP request.
func (c *TracedClient) logRequest(correlationID, operation string, req *http.Request, body []byte) {
	attrs := []any{
		"correlation_id", correlationID,
		"pasarela", c.pasarela,
		"operation", operation,
		"method", req.Method,
		"url", security.SanitizeURL(req.URL.String()),
	}

	if c.logReqBody && len(body) > 0 {
		sanitizedBody := security.SanitizeBody(body, c.maxBodySize)
		attrs = append(attrs, "request_body", string(sanitizedBody))
	}

	c.log.Info("pasarela_request", attrs...)
}

// logResponse logs the HTTP response received.
func (c *TracedClient) logResponse(correlationID, operation string, req *http.Request, resp *http.Response, err error, duration time.Duration, body []byte) {
	attrs := []any{
		"correlation_id", correlationID,
		"pasarela", c.pasarela,
		"operation", operation,
		"method", req.Method,
		"url", security.SanitizeURL(req.URL.String()),
		"duration_ms", duration.Milliseconds(),
	}

	if err != nil {
		attrs = append(attrs, "error", err.Error())
		c.log.Error("pasarela_request_failed", attrs...)
		return
	}

	attrs = append(attrs, "status", resp.StatusCode)
	attrs = append(attrs, "response_size_bytes", len(body))

	if c.logRespBody && len(body) > 0 {
		sanitizedBody := security.SanitizeBody(body, c.maxBodySize)
		attrs = append(attrs, "response_body", string(sanitizedBody))
	}

	switch {
	case resp.StatusCode >= 500:
		c.log.Error("pasarela_response", attrs...)
	case resp.StatusCode >= 400:
		c.log.Warn("pasarela_response", attrs...)
	default:
		c.log.Info("pasarela_response", attrs...)
	}
}

// persistAuditLog saves the request/response audit trail to the database.
func (c *TracedClient) persistAuditLog(ctx context.Context, correlationID, operation string, req *http.Request, resp *http.Response, err error, duration time.Duration, requestBody, responseBody []byte) {
	auditLog := audit.PasarelaAuditLog{
		CorrelationID:  correlationID,
		Pasarela:       c.pasarela,
		Operation:      operation,
		RequestMethod:  req.Method,
		RequestURL:     security.SanitizeURL(req.URL.String()),
		RequestHeaders: security.SanitizeHeaders(req.Header),
		DurationMs:     duration.Milliseconds(),
	}

	if len(requestBody) > 0 {
		auditLog.RequestBody = security.SanitizeBody(requestBody, c.maxBodySize)
	}

	if resp != nil {
		status := resp.StatusCode
		auditLog.ResponseStatus = &status
		auditLog.ResponseHeaders = security.SanitizeHeaders(resp.Header)
		if len(responseBody) > 0 {
			auditLog.ResponseBody = security.SanitizeBody(responseBody, c.maxBodySize)
		}
	}

	if err != nil {
		auditLog.ErrorMessage = err.Error()
	}

	if err := c.auditRepo.Save(ctx, auditLog); err != nil {
		// Audit failures never fail the request
		c.log.Error("Failed to persist audit log",
			"error", err,
			"correlation_id", correlationID,
			"operation", operation,
		)
	}
}

// extractOperation attempts to extract a meaningful operation name from the request.
func (c *TracedClient) extractOperation(req *http.Request) string {
	path := req.URL.Path
	parts := strings.Split(strings.Trim(path, "/"), "/")

	if len(parts) > 0 && parts[len(parts)-1] != "" {
		operation := parts[len(parts)-1]
		if len(operation) > 0 {
			operation = strings.ToUpper(operation[:1]) + operation[1:]
		}
		return operation
	}

	return fmt.Sprintf("%s_%s", req.Method, c.pasarela)
}

// Client returns the underlying HTTP client for compatibility.
func (c *TracedClient) Client() *http.Client {
	return c.client
}
