// Package pagos expone la compuerta de pago por HTTP.
package pagos

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"3tcapital/ms_gestion_solicitudes/internal/adapters/pagos/pasarela"
	app "3tcapital/ms_gestion_solicitudes/internal/application/pagos"
	"3tcapital/ms_gestion_solicitudes/internal/application/solicitudes"
	"3tcapital/ms_gestion_solicitudes/internal/core/pago"
	"3tcapital/ms_gestion_solicitudes/internal/core/solicitud"
	httperrors "3tcapital/ms_gestion_solicitudes/internal/infrastructure/http"
	"3tcapital/ms_gestion_solicitudes/internal/infrastructure/http/middleware"
)

// Handler bridges HTTP traffic with the payment application service.
type Handler struct {
	service *app.Service
}

func NewHandler(service *app.Service) *Handler {
	return &Handler{service: service}
}

type procesarRequest struct {
	IDSolicitud int64   `json:"id_orden_servicio"`
	Monto       float64 `json:"monto"`
	Metodo      string  `json:"metodo_pago"`
}

// Procesar handles POST /api/gestion-pagos/process-mock: envía el pago a la
// pasarela y, si esta confirma, activa la solicitud.
func (h *Handler) Procesar(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorDesdeContexto(r.Context())
	if !ok {
		httperrors.WriteError(w, http.StatusUnauthorized, "Error de Autenticación", []string{"Credencial sin identidad de usuario"}, nil)
		return
	}

	var body procesarRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httperrors.WriteError(w, http.StatusBadRequest, "Error de Validación", []string{"Cuerpo JSON inválido"}, nil)
		return
	}
	if body.IDSolicitud <= 0 {
		httperrors.WriteError(w, http.StatusBadRequest, "Error de Validación", []string{"id_orden_servicio es obligatorio"}, nil)
		return
	}

	activada, err := h.service.Activar(r.Context(), body.IDSolicitud, body.Monto, body.Metodo, actor)
	if err != nil {
		h.handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"solicitud_activada": true,
			"solicitud":          activada,
		},
	})
}

// Historial handles GET /api/gestion-pagos/historial/{id}.
func (h *Handler) Historial(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httperrors.WriteError(w, http.StatusBadRequest, "Error de Validación", []string{"El id de la solicitud debe ser numérico"}, nil)
		return
	}

	pagos, err := h.service.Historial(r.Context(), id)
	if err != nil {
		h.handleError(w, err)
		return
	}
	if pagos == nil {
		pagos = []pago.Pago{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": pagos})
}

// handleError maps domain and gateway errors to HTTP status codes. Los
// fallos de la pasarela son 502: el problema está aguas arriba, no aquí.
func (h *Handler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, pago.ErrMontoInvalido), errors.Is(err, pago.ErrMetodoInvalido):
		httperrors.WriteError(w, http.StatusUnprocessableEntity, "Error de Validación", []string{err.Error()}, nil)
	case errors.Is(err, solicitud.ErrNoEncontrada):
		httperrors.WriteError(w, http.StatusNotFound, "No Encontrado", []string{"La solicitud no existe"}, nil)
	case errors.Is(err, app.ErrSinPagoPendiente):
		httperrors.WriteError(w, http.StatusConflict, "Operación Rechazada", []string{err.Error()}, nil)
	case errors.Is(err, solicitudes.ErrOperacionEnCurso):
		httperrors.WriteError(w, http.StatusConflict, "Operación en Curso", []string{err.Error()}, nil)
	case errors.Is(err, pasarela.ErrAbierto):
		httperrors.WriteError(w, http.StatusServiceUnavailable, "Pasarela No Disponible", []string{"La pasarela de pagos está temporalmente fuera de servicio"}, nil)
	case errors.Is(err, app.ErrPagoNoActivado),
		errors.Is(err, pasarela.ErrTimeout),
		errors.Is(err, pasarela.ErrRed),
		errors.Is(err, pasarela.ErrRespuesta),
		errors.Is(err, pasarela.ErrAutenticacion):
		httperrors.WriteError(w, http.StatusBadGateway, "Error de Pasarela", []string{err.Error()}, nil)
	default:
		httperrors.WriteError(w, http.StatusInternalServerError, "Error Interno del Servidor", []string{"Ha ocurrido un error interno"}, nil)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
