// Package seguimientos expone el historial de seguimiento por HTTP.
package seguimientos

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	app "3tcapital/ms_gestion_solicitudes/internal/application/seguimientos"
	"3tcapital/ms_gestion_solicitudes/internal/application/solicitudes"
	"3tcapital/ms_gestion_solicitudes/internal/core/seguimiento"
	"3tcapital/ms_gestion_solicitudes/internal/core/servicio"
	"3tcapital/ms_gestion_solicitudes/internal/core/solicitud"
	httperrors "3tcapital/ms_gestion_solicitudes/internal/infrastructure/http"
	"3tcapital/ms_gestion_solicitudes/internal/infrastructure/http/middleware"
)

// Handler bridges HTTP traffic with the tracking application service.
type Handler struct {
	service *app.Service
}

func NewHandler(service *app.Service) *Handler {
	return &Handler{service: service}
}

// Crear handles POST /api/seguimiento/crear. Si la entrada trae
// nuevo_proceso, la transición de estado y el registro son una sola acción.
func (h *Handler) Crear(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorDesdeContexto(r.Context())
	if !ok {
		httperrors.WriteError(w, http.StatusUnauthorized, "Error de Autenticación", []string{"Credencial sin identidad de usuario"}, nil)
		return
	}
	if !actor.Rol.EsPersonal() {
		httperrors.WriteError(w, http.StatusForbidden, "Acceso Denegado", []string{"El registro de seguimiento es una operación del personal"}, nil)
		return
	}

	var entrada seguimiento.Entrada
	if err := json.NewDecoder(r.Body).Decode(&entrada); err != nil {
		httperrors.WriteError(w, http.StatusBadRequest, "Error de Validación", []string{"Cuerpo JSON inválido"}, nil)
		return
	}

	creada, err := h.service.Crear(r.Context(), entrada, actor)
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"data": creada})
}

// Historial handles GET /api/seguimiento/historial/{id}: las entradas de la
// solicitud en orden cronológico.
func (h *Handler) Historial(w http.ResponseWriter, r *http.Request) {
	id, ok := idDeRuta(w, r)
	if !ok {
		return
	}

	entradas, err := h.service.Historial(r.Context(), id)
	if err != nil {
		h.handleError(w, err)
		return
	}
	if entradas == nil {
		entradas = []seguimiento.Entrada{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": entradas})
}

// EstadosDisponibles handles GET /api/seguimiento/{id}/estados-disponibles.
func (h *Handler) EstadosDisponibles(w http.ResponseWriter, r *http.Request) {
	id, ok := idDeRuta(w, r)
	if !ok {
		return
	}

	estados, err := h.service.EstadosDisponibles(r.Context(), id)
	if err != nil {
		h.handleError(w, err)
		return
	}
	if estados == nil {
		estados = []servicio.EstadoProceso{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": estados})
}

// Eliminar handles DELETE /api/seguimiento/{id}. Solo personal.
func (h *Handler) Eliminar(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorDesdeContexto(r.Context())
	if !ok {
		httperrors.WriteError(w, http.StatusUnauthorized, "Error de Autenticación", []string{"Credencial sin identidad de usuario"}, nil)
		return
	}
	if !actor.Rol.EsPersonal() {
		httperrors.WriteError(w, http.StatusForbidden, "Acceso Denegado", []string{"La eliminación de seguimientos es una operación del personal"}, nil)
		return
	}
	id, ok := idDeRuta(w, r)
	if !ok {
		return
	}

	if err := h.service.Eliminar(r.Context(), id); err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"mensaje": "Entrada de seguimiento eliminada"})
}

// handleError maps domain errors to appropriate HTTP status codes.
func (h *Handler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, seguimiento.ErrTituloRequerido),
		errors.Is(err, seguimiento.ErrTituloMuyLargo),
		errors.Is(err, seguimiento.ErrDescripcionRequerida):
		httperrors.WriteError(w, http.StatusUnprocessableEntity, "Error de Validación", []string{err.Error()}, nil)
	case errors.Is(err, seguimiento.ErrNoEncontrada), errors.Is(err, solicitud.ErrNoEncontrada):
		httperrors.WriteError(w, http.StatusNotFound, "No Encontrado", []string{"La solicitud o la entrada no existe"}, nil)
	case errors.Is(err, solicitudes.ErrSolicitudCerrada), errors.Is(err, solicitudes.ErrTransicionRechazada):
		httperrors.WriteError(w, http.StatusConflict, "Operación Rechazada", []string{err.Error()}, nil)
	case errors.Is(err, solicitudes.ErrOperacionEnCurso):
		httperrors.WriteError(w, http.StatusConflict, "Operación en Curso", []string{err.Error()}, nil)
	default:
		httperrors.WriteError(w, http.StatusInternalServerError, "Error Interno del Servidor", []string{"Ha ocurrido un error interno"}, nil)
	}
}

func idDeRuta(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httperrors.WriteError(w, http.StatusBadRequest, "Error de Validación", []string{"El id debe ser numérico"}, nil)
		return 0, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
