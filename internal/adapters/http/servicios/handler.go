// Package servicios expone el catálogo de servicios por HTTP.
package servicios

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"3tcapital/ms_gestion_solicitudes/internal/application/catalogo"
	"3tcapital/ms_gestion_solicitudes/internal/core/servicio"
	httperrors "3tcapital/ms_gestion_solicitudes/internal/infrastructure/http"
	"3tcapital/ms_gestion_solicitudes/internal/infrastructure/http/middleware"
)

// Handler bridges HTTP traffic with the catalog application service.
type Handler struct {
	service *catalogo.Service
}

func NewHandler(service *catalogo.Service) *Handler {
	return &Handler{service: service}
}

// Landing handles GET /api/servicios/landing: los servicios visibles para la
// página pública, sin credenciales.
func (h *Handler) Landing(w http.ResponseWriter, r *http.Request) {
	todos, err := h.service.Listar(r.Context())
	if err != nil {
		h.handleError(w, err)
		return
	}

	visibles := make([]servicio.Servicio, 0, len(todos))
	for _, s := range todos {
		if s.Visible {
			visibles = append(visibles, s)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": visibles})
}

// Listar handles GET /api/servicios.
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	servicios, err := h.service.Listar(r.Context())
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": servicios})
}

// Actualizar handles PUT /api/servicios/{id}: reemplazo completo del
// documento del servicio, incluida la secuencia de estados. Solo personal.
func (h *Handler) Actualizar(w http.ResponseWriter, r *http.Request) {
	if !exigirPersonal(w, r) {
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httperrors.WriteError(w, http.StatusBadRequest, "Error de Validación", []string{"El id del servicio debe ser numérico"}, nil)
		return
	}

	var body servicio.Servicio
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httperrors.WriteError(w, http.StatusBadRequest, "Error de Validación", []string{"Cuerpo JSON inválido"}, nil)
		return
	}
	body.ID = id

	actualizado, err := h.service.Actualizar(r.Context(), body)
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": actualizado})
}

// ListarEstados handles GET /api/servicios/{nombre}/estados.
func (h *Handler) ListarEstados(w http.ResponseWriter, r *http.Request) {
	estados, err := h.service.ListarEstados(r.Context(), chi.URLParam(r, "nombre"))
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": estados})
}

// AgregarEstado handles POST /api/servicios/{nombre}/estados. Solo personal.
func (h *Handler) AgregarEstado(w http.ResponseWriter, r *http.Request) {
	if !exigirPersonal(w, r) {
		return
	}

	var body struct {
		Nombre string `json:"nombre"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httperrors.WriteError(w, http.StatusBadRequest, "Error de Validación", []string{"Cuerpo JSON inválido"}, nil)
		return
	}

	svc, err := h.service.AgregarEstado(r.Context(), chi.URLParam(r, "nombre"), body.Nombre)
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": svc})
}

// EliminarEstado handles DELETE /api/servicios/{nombre}/estados/{estado}.
func (h *Handler) EliminarEstado(w http.ResponseWriter, r *http.Request) {
	if !exigirPersonal(w, r) {
		return
	}

	svc, err := h.service.EliminarEstado(r.Context(), chi.URLParam(r, "nombre"), chi.URLParam(r, "estado"))
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": svc})
}

// ReordenarEstados handles PUT /api/servicios/{nombre}/estados/reordenar.
func (h *Handler) ReordenarEstados(w http.ResponseWriter, r *http.Request) {
	if !exigirPersonal(w, r) {
		return
	}

	var body struct {
		Orden []string `json:"orden"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httperrors.WriteError(w, http.StatusBadRequest, "Error de Validación", []string{"Cuerpo JSON inválido"}, nil)
		return
	}

	svc, err := h.service.ReordenarEstados(r.Context(), chi.URLParam(r, "nombre"), body.Orden)
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": svc})
}

// handleError maps domain errors to appropriate HTTP status codes.
func (h *Handler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, servicio.ErrNoEncontrado):
		httperrors.WriteError(w, http.StatusNotFound, "No Encontrado", []string{"El servicio o estado no existe"}, nil)
	case errors.Is(err, servicio.ErrNombreRequerido),
		errors.Is(err, servicio.ErrSinEstados),
		errors.Is(err, servicio.ErrEstadoSinNombre),
		errors.Is(err, servicio.ErrEstadoDuplicado):
		httperrors.WriteError(w, http.StatusUnprocessableEntity, "Error de Validación", []string{err.Error()}, nil)
	default:
		httperrors.WriteError(w, http.StatusInternalServerError, "Error Interno del Servidor", []string{"Ha ocurrido un error interno"}, nil)
	}
}

func exigirPersonal(w http.ResponseWriter, r *http.Request) bool {
	actor, ok := middleware.ActorDesdeContexto(r.Context())
	if !ok || !actor.Rol.EsPersonal() {
		httperrors.WriteError(w, http.StatusForbidden, "Acceso Denegado", []string{"Operación reservada al personal"}, nil)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
