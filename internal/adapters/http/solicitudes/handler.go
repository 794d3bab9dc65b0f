// Package solicitudes expone la gestión de solicitudes por HTTP.
package solicitudes

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	app "3tcapital/ms_gestion_solicitudes/internal/application/solicitudes"
	"3tcapital/ms_gestion_solicitudes/internal/core/formulario"
	"3tcapital/ms_gestion_solicitudes/internal/core/servicio"
	"3tcapital/ms_gestion_solicitudes/internal/core/solicitud"
	httperrors "3tcapital/ms_gestion_solicitudes/internal/infrastructure/http"
	"3tcapital/ms_gestion_solicitudes/internal/infrastructure/http/middleware"
)

// Handler bridges HTTP traffic with the solicitudes application service.
type Handler struct {
	service *app.Service
}

func NewHandler(service *app.Service) *Handler {
	return &Handler{service: service}
}

// crearRequest es el cuerpo de creación: el contexto de validación más los
// campos crudos del formulario. Los archivos viajan embebidos, no multipart.
type crearRequest struct {
	TipoSolicitante string         `json:"tipo_solicitante"`
	TipoPersona     string         `json:"tipo_persona"`
	Datos           map[string]any `json:"datos"`
}

// Crear handles POST /api/gestion-solicitudes/crear/{servicio}.
func (h *Handler) Crear(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorDesdeContexto(r.Context())
	if !ok {
		escribirNoAutenticado(w)
		return
	}

	var body crearRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httperrors.WriteError(w, http.StatusBadRequest, "Error de Validación", []string{"Cuerpo JSON inválido"}, nil)
		return
	}

	entrada := decodificarArchivos(body.Datos)
	fctx := formulario.Contexto{
		Solicitante: formulario.TipoSolicitante(body.TipoSolicitante),
		Persona:     formulario.TipoPersona(body.TipoPersona),
	}

	creada, err := h.service.Crear(r.Context(), chi.URLParam(r, "servicio"), entrada, fctx, actor)
	if err != nil {
		h.handleError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"data": map[string]any{
			"solicitud":     creada.Solicitud,
			"requiere_pago": creada.RequierePago,
		},
	})
}

// Listar handles GET /api/gestion-solicitudes. Solo personal.
func (h *Handler) Listar(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorDesdeContexto(r.Context())
	if !ok {
		escribirNoAutenticado(w)
		return
	}
	if !actor.Rol.EsPersonal() {
		escribirProhibido(w)
		return
	}

	solicitudes, err := h.service.Listar(r.Context(), actor)
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": solicitudes})
}

// Mias handles GET /api/gestion-solicitudes/mias: las solicitudes cuyo
// cliente titular es el actor autenticado.
func (h *Handler) Mias(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorDesdeContexto(r.Context())
	if !ok {
		escribirNoAutenticado(w)
		return
	}

	solicitudes, err := h.service.ListarPropias(r.Context(), actor)
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": solicitudes})
}

// Obtener handles GET /api/gestion-solicitudes/{id}.
func (h *Handler) Obtener(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorDesdeContexto(r.Context())
	if !ok {
		escribirNoAutenticado(w)
		return
	}
	id, ok := idDeRuta(w, r)
	if !ok {
		return
	}

	sol, err := h.service.Obtener(r.Context(), id)
	if err != nil {
		h.handleError(w, err)
		return
	}
	if !actor.Rol.EsPersonal() && sol.IDCliente != actor.ID {
		escribirProhibido(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": sol})
}

// Editar handles PUT /api/gestion-solicitudes/editar/{id}.
func (h *Handler) Editar(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.ActorDesdeContexto(r.Context()); !ok {
		escribirNoAutenticado(w)
		return
	}
	id, ok := idDeRuta(w, r)
	if !ok {
		return
	}

	var cambios map[string]any
	if err := json.NewDecoder(r.Body).Decode(&cambios); err != nil {
		httperrors.WriteError(w, http.StatusBadRequest, "Error de Validación", []string{"Cuerpo JSON inválido"}, nil)
		return
	}

	if err := h.service.Editar(r.Context(), id, decodificarArchivos(cambios)); err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"mensaje": "Solicitud actualizada"})
}

// Anular handles PUT /api/gestion-solicitudes/anular/{id}. El motivo es
// obligatorio.
func (h *Handler) Anular(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorDesdeContexto(r.Context())
	if !ok {
		escribirNoAutenticado(w)
		return
	}
	id, ok := idDeRuta(w, r)
	if !ok {
		return
	}

	var body struct {
		Motivo string `json:"motivo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httperrors.WriteError(w, http.StatusBadRequest, "Error de Validación", []string{"Cuerpo JSON inválido"}, nil)
		return
	}

	if err := h.service.Anular(r.Context(), id, body.Motivo, actor); err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"mensaje": "Solicitud anulada"})
}

// AsignarEmpleado handles PUT /api/gestion-solicitudes/asignar-empleado/{id}.
// Solo personal.
func (h *Handler) AsignarEmpleado(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorDesdeContexto(r.Context())
	if !ok {
		escribirNoAutenticado(w)
		return
	}
	if !actor.Rol.EsPersonal() {
		escribirProhibido(w)
		return
	}
	id, ok := idDeRuta(w, r)
	if !ok {
		return
	}

	var body struct {
		IDEmpleado int64 `json:"id_empleado"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.IDEmpleado <= 0 {
		httperrors.WriteError(w, http.StatusBadRequest, "Error de Validación", []string{"id_empleado es obligatorio"}, nil)
		return
	}

	if err := h.service.AsignarEmpleado(r.Context(), id, body.IDEmpleado); err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"mensaje": "Empleado asignado"})
}

// EstadosDisponibles handles GET /api/gestion-solicitudes/{id}/estados-disponibles.
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

// EstadoActual handles GET /api/gestion-solicitudes/{id}/estado-actual.
func (h *Handler) EstadoActual(w http.ResponseWriter, r *http.Request) {
	id, ok := idDeRuta(w, r)
	if !ok {
		return
	}

	estado, err := h.service.EstadoActual(r.Context(), id)
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": map[string]string{"estado": estado}})
}

// handleError maps domain errors to appropriate HTTP status codes.
func (h *Handler) handleError(w http.ResponseWriter, err error) {
	var errores formulario.ErroresValidacion
	switch {
	case errors.As(err, &errores):
		httperrors.WriteFieldErrors(w, http.StatusUnprocessableEntity, "Error de Validación", errores, nil)
	case errors.Is(err, app.ErrClienteRequerido):
		httperrors.WriteError(w, http.StatusUnprocessableEntity, "Error de Validación", []string{err.Error()}, nil)
	case errors.Is(err, solicitud.ErrNoEncontrada), errors.Is(err, servicio.ErrNoEncontrado):
		httperrors.WriteError(w, http.StatusNotFound, "No Encontrado", []string{"La solicitud o el servicio no existe"}, nil)
	case errors.Is(err, app.ErrMotivoRequerido):
		httperrors.WriteError(w, http.StatusUnprocessableEntity, "Error de Validación", []string{err.Error()}, nil)
	case errors.Is(err, app.ErrSolicitudCerrada), errors.Is(err, app.ErrTransicionRechazada):
		httperrors.WriteError(w, http.StatusConflict, "Operación Rechazada", []string{err.Error()}, nil)
	case errors.Is(err, app.ErrOperacionEnCurso):
		httperrors.WriteError(w, http.StatusConflict, "Operación en Curso", []string{err.Error()}, nil)
	case errors.Is(err, app.ErrServicioSinEsquema):
		httperrors.WriteError(w, http.StatusUnprocessableEntity, "Error de Validación", []string{err.Error()}, nil)
	default:
		httperrors.WriteError(w, http.StatusInternalServerError, "Error Interno del Servidor", []string{"Ha ocurrido un error interno"}, nil)
	}
}

// decodificarArchivos convierte los objetos de archivo embebidos del JSON en
// valores formulario.Archivo. Un objeto es archivo cuando trae nombre y
// contenido en base64; el resto de la entrada pasa intacta.
func decodificarArchivos(datos map[string]any) map[string]any {
	if datos == nil {
		return map[string]any{}
	}
	entrada := make(map[string]any, len(datos))
	for campo, valor := range datos {
		obj, esMapa := valor.(map[string]any)
		if !esMapa {
			entrada[campo] = valor
			continue
		}
		nombre, hayNombre := obj["nombre"].(string)
		contenido, hayContenido := obj["contenido"].(string)
		if !hayNombre || !hayContenido {
			entrada[campo] = valor
			continue
		}
		crudo, err := base64.StdEncoding.DecodeString(contenido)
		if err != nil {
			// El validador de archivos reporta el campo como inválido.
			entrada[campo] = valor
			continue
		}
		tipo, _ := obj["tipo_mime"].(string)
		entrada[campo] = formulario.Archivo{Nombre: nombre, TipoMIME: tipo, Contenido: crudo}
	}
	return entrada
}

func idDeRuta(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httperrors.WriteError(w, http.StatusBadRequest, "Error de Validación", []string{"El id de la solicitud debe ser numérico"}, nil)
		return 0, false
	}
	return id, true
}

func escribirNoAutenticado(w http.ResponseWriter) {
	httperrors.WriteError(w, http.StatusUnauthorized, "Error de Autenticación", []string{"Credencial sin identidad de usuario"}, nil)
}

func escribirProhibido(w http.ResponseWriter) {
	httperrors.WriteError(w, http.StatusForbidden, "Acceso Denegado", []string{"El rol del usuario no permite esta operación"}, nil)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
