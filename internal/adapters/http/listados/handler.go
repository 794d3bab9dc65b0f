// Package listados expone las vistas particionadas de solicitudes.
package listados

import (
	"encoding/json"
	"net/http"

	app "3tcapital/ms_gestion_solicitudes/internal/application/listados"
	"3tcapital/ms_gestion_solicitudes/internal/core/solicitud"
	httperrors "3tcapital/ms_gestion_solicitudes/internal/infrastructure/http"
	"3tcapital/ms_gestion_solicitudes/internal/infrastructure/http/middleware"
)

// Handler sirve las particiones abiertas/cerradas desde la vista en memoria.
// La vista se refresca sola ante eventos de cierre y activación; estas rutas
// nunca tocan el repositorio directamente.
type Handler struct {
	vista *app.Vista
}

func NewHandler(vista *app.Vista) *Handler {
	return &Handler{vista: vista}
}

// Abiertas handles GET /api/gestion-solicitudes/abiertas. Solo personal.
func (h *Handler) Abiertas(w http.ResponseWriter, r *http.Request) {
	if !exigirPersonal(w, r) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": noNil(h.vista.Abiertas())})
}

// Cerradas handles GET /api/gestion-solicitudes/cerradas. Solo personal.
func (h *Handler) Cerradas(w http.ResponseWriter, r *http.Request) {
	if !exigirPersonal(w, r) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": noNil(h.vista.Cerradas())})
}

func exigirPersonal(w http.ResponseWriter, r *http.Request) bool {
	actor, ok := middleware.ActorDesdeContexto(r.Context())
	if !ok || !actor.Rol.EsPersonal() {
		httperrors.WriteError(w, http.StatusForbidden, "Acceso Denegado", []string{"Operación reservada al personal"}, nil)
		return false
	}
	return true
}

func noNil(s []solicitud.Solicitud) []solicitud.Solicitud {
	if s == nil {
		return []solicitud.Solicitud{}
	}
	return s
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
