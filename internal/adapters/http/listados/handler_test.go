package listados

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/juju/clock"

	"3tcapital/ms_gestion_solicitudes/internal/adapters/storage/memory"
	app "3tcapital/ms_gestion_solicitudes/internal/application/listados"
	"3tcapital/ms_gestion_solicitudes/internal/application/notificaciones"
	"3tcapital/ms_gestion_solicitudes/internal/core/solicitud"
	"3tcapital/ms_gestion_solicitudes/internal/infrastructure/http/middleware"
	"3tcapital/ms_gestion_solicitudes/internal/testutil"
)

func newHandler(t *testing.T) *Handler {
	t.Helper()
	log := testutil.NewNullLogger()
	repo := memory.NewSolicitudesRepo(memory.NewSeguimientosRepo())
	ctx := context.Background()

	repo.Crear(ctx, solicitud.Solicitud{Servicio: "Búsqueda de Antecedentes", IDCliente: 42, Estado: "Radicada", FechaCreacion: time.Now()})
	repo.Crear(ctx, solicitud.Solicitud{Servicio: "Búsqueda de Antecedentes", IDCliente: 43, Estado: solicitud.EstadoAnulada, FechaCreacion: time.Now()})

	vista := app.NewVista(repo, notificaciones.New(log), clock.WallClock, app.Config{}, log)
	t.Cleanup(vista.Cerrar)
	if err := vista.Refrescar(ctx); err != nil {
		t.Fatalf("unexpected error refreshing vista: %v", err)
	}
	return NewHandler(vista)
}

func hacer(t *testing.T, h http.HandlerFunc, actor *solicitud.Actor) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if actor != nil {
		req = req.WithContext(middleware.ContextoConActor(context.Background(), *actor))
	}
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func decodificar(t *testing.T, rec *httptest.ResponseRecorder) []solicitud.Solicitud {
	t.Helper()
	var sobre struct {
		Data []solicitud.Solicitud `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &sobre); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	return sobre.Data
}

func TestHandler_Abiertas(t *testing.T) {
	h := newHandler(t)
	empleado := solicitud.Actor{ID: 9, Rol: solicitud.RolEmpleado}

	rec := hacer(t, h.Abiertas, &empleado)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	abiertas := decodificar(t, rec)
	if len(abiertas) != 1 || abiertas[0].Estado != "Radicada" {
		t.Errorf("unexpected abiertas: %v", abiertas)
	}
}

func TestHandler_Cerradas(t *testing.T) {
	h := newHandler(t)
	empleado := solicitud.Actor{ID: 9, Rol: solicitud.RolEmpleado}

	rec := hacer(t, h.Cerradas, &empleado)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	cerradas := decodificar(t, rec)
	if len(cerradas) != 1 || cerradas[0].Estado != solicitud.EstadoAnulada {
		t.Errorf("unexpected cerradas: %v", cerradas)
	}
}

func TestHandler_SoloPersonal(t *testing.T) {
	h := newHandler(t)
	cliente := solicitud.Actor{ID: 42, Rol: solicitud.RolCliente}

	if rec := hacer(t, h.Abiertas, &cliente); rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 for cliente, got %d", rec.Code)
	}
	if rec := hacer(t, h.Cerradas, nil); rec.Code != http.StatusForbidden {
		t.Errorf("expected 403 without actor, got %d", rec.Code)
	}
}
