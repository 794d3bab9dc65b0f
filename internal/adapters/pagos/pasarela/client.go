package pasarela

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"3tcapital/ms_gestion_solicitudes/internal/core/pago"
)

var (
	// ErrTimeout is returned when the gateway does not answer in time.
	ErrTimeout = errors.New("la pasarela no respondió a tiempo")
	// ErrRed is returned on transport failures before a response arrives.
	ErrRed = errors.New("error de red hacia la pasarela")
	// ErrRespuesta is returned when the gateway answers with a non-OK status.
	ErrRespuesta = errors.New("respuesta inválida de la pasarela")
	// ErrAutenticacion is returned when the gateway rejects our credentials.
	ErrAutenticacion = errors.New("autenticación rechazada por la pasarela")
)

// Client implements pago.Procesador against the payment gateway HTTP API.
type Client struct {
	baseURL string
	auth    *AuthManager
	client  HTTPClient
	breaker *CircuitBreaker
	log     *slog.Logger
	timeout time.Duration
}

// NewClient creates a new gateway client.
func NewClient(baseURL string, auth *AuthManager, client HTTPClient, log *slog.Logger, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		auth:    auth,
		client:  client,
		breaker: NewCircuitBreaker(5, 30*time.Second),
		log:     log,
		timeout: timeout,
	}
}

// gatewayResponse represents the gateway's payment response payload.
type gatewayResponse struct {
	SolicitudActivada bool   `json:"solicitud_activada"`
	Referencia        string `json:"referencia"`
	Mensaje           string `json:"mensaje"`
}

// Procesar submits a payment attempt to the gateway. A processed payment that
// does not activate the request is reported via Resultado.Activada, not as an
// error.
func (c *Client) Procesar(ctx context.Context, p pago.Pago) (pago.Resultado, error) {
	var resultado pago.Resultado
	err := c.breaker.Execute(func() error {
		var err error
		resultado, err = c.procesar(ctx, p)
		return err
	})
	return resultado, err
}

func (c *Client) procesar(ctx context.Context, p pago.Pago) (pago.Resultado, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	token, err := c.auth.GetToken(ctx)
	if err != nil {
		return pago.Resultado{}, fmt.Errorf("%w: %v", ErrAutenticacion, err)
	}

	jsonData, err := json.Marshal(p)
	if err != nil {
		return pago.Resultado{}, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/api/pagos/procesar", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return pago.Resultado{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))

	c.log.Debug("Submitting payment to gateway", "orden", p.IDOrden, "solicitud", p.IDSolicitud, "metodo", p.Metodo)

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			c.log.Error("Gateway timed out", "orden", p.IDOrden, "timeout", c.timeout)
			return pago.Resultado{}, fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		c.log.Error("Gateway request failed", "orden", p.IDOrden, "error", err)
		return pago.Resultado{}, fmt.Errorf("%w: %v", ErrRed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return pago.Resultado{}, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		// Token might be expired, clear cache so the next attempt refreshes
		c.auth.ClearToken()
		c.log.Warn("Gateway rejected token", "status", resp.StatusCode)
		return pago.Resultado{}, ErrAutenticacion
	}

	if resp.StatusCode != http.StatusOK {
		c.log.Error("Gateway returned non-OK status", "status", resp.StatusCode, "body", string(body))
		return pago.Resultado{}, fmt.Errorf("%w: status %d", ErrRespuesta, resp.StatusCode)
	}

	var gwResp gatewayResponse
	if err := json.Unmarshal(body, &gwResp); err != nil {
		c.log.Error("Failed to unmarshal gateway response", "error", err, "body", string(body))
		return pago.Resultado{}, fmt.Errorf("%w: %v", ErrRespuesta, err)
	}

	c.log.Debug("Gateway response parsed", "orden", p.IDOrden, "activada", gwResp.SolicitudActivada, "referencia", gwResp.Referencia)

	return pago.Resultado{
		Activada:   gwResp.SolicitudActivada,
		Referencia: gwResp.Referencia,
	}, nil
}
