package seguimientos

import (
	"context"
	"errors"
	"testing"

	"3tcapital/ms_gestion_solicitudes/internal/adapters/storage/memory"
	"3tcapital/ms_gestion_solicitudes/internal/application/catalogo"
	"3tcapital/ms_gestion_solicitudes/internal/application/notificaciones"
	appsolicitudes "3tcapital/ms_gestion_solicitudes/internal/application/solicitudes"
	"3tcapital/ms_gestion_solicitudes/internal/core/formulario"
	"3tcapital/ms_gestion_solicitudes/internal/core/seguimiento"
	"3tcapital/ms_gestion_solicitudes/internal/core/solicitud"
	"3tcapital/ms_gestion_solicitudes/internal/testutil"
)

func newEntorno(t *testing.T) (*Service, *appsolicitudes.Service) {
	t.Helper()
	log := testutil.NewNullLogger()

	svcRepo := memory.NewServiciosRepo()
	for _, s := range catalogo.Semilla() {
		svcRepo.Sembrar(s)
	}
	segRepo := memory.NewSeguimientosRepo()
	solRepo := memory.NewSolicitudesRepo(segRepo)

	cat := catalogo.NewService(svcRepo, log)
	constructor := appsolicitudes.NewConstructor(formulario.NewRegistro())
	orq := appsolicitudes.NewService(solRepo, cat, constructor, notificaciones.New(log), log)

	return NewService(segRepo, orq, log), orq
}

func crearSolicitud(t *testing.T, orq *appsolicitudes.Service) solicitud.Solicitud {
	t.Helper()
	entrada := map[string]any{
		"tipo_documento":   "CC",
		"numero_documento": "1032456789",
		"nombres":          "Laura",
		"apellidos":        "García",
		"correo":           "laura@example.com",
		"telefono":         "3105551234",
		"nombre_marca":     "Café del Monte",
		"clase_niza":       float64(30),
		"tipo_marca":       "Nominativa",
		"id_cliente":       float64(42),
	}
	fctx := formulario.Contexto{Solicitante: formulario.SolicitanteTitular, Persona: formulario.PersonaNatural}
	actor := solicitud.Actor{ID: 7, Rol: solicitud.RolEmpleado}

	creada, err := orq.Crear(context.Background(), formulario.ServicioBusqueda, entrada, fctx, actor)
	if err != nil {
		t.Fatalf("unexpected error creating solicitud: %v", err)
	}
	return creada.Solicitud
}

func TestService_Crear_RegistroPuro(t *testing.T) {
	svc, orq := newEntorno(t)
	sol := crearSolicitud(t, orq)
	actor := solicitud.Actor{ID: 7, Rol: solicitud.RolEmpleado}

	creada, err := svc.Crear(context.Background(), seguimiento.Entrada{
		IDSolicitud: sol.ID,
		Titulo:      "Llamada al cliente",
		Descripcion: "Se solicitaron documentos adicionales",
	}, actor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if creada.ID == 0 {
		t.Error("expected entrada with assigned id")
	}
	if creada.IDAutor != actor.ID {
		t.Errorf("expected autor from credential, got %d", creada.IDAutor)
	}

	// El registro puro no mueve el estado.
	releida, _ := orq.Obtener(context.Background(), sol.ID)
	if releida.Estado != "Radicada" {
		t.Errorf("expected estado unchanged, got %q", releida.Estado)
	}
}

func TestService_Crear_ConTransicion(t *testing.T) {
	svc, orq := newEntorno(t)
	sol := crearSolicitud(t, orq)
	actor := solicitud.Actor{ID: 7, Rol: solicitud.RolEmpleado}

	creada, err := svc.Crear(context.Background(), seguimiento.Entrada{
		IDSolicitud:  sol.ID,
		Titulo:       "Inicio de búsqueda",
		Descripcion:  "Se inicia la búsqueda de antecedentes",
		NuevoProceso: "En Búsqueda",
	}, actor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if creada.NuevoProceso != "En Búsqueda" {
		t.Errorf("expected nuevo_proceso recorded, got %q", creada.NuevoProceso)
	}

	// Transición y entrada son una sola acción.
	releida, _ := orq.Obtener(context.Background(), sol.ID)
	if releida.Estado != "En Búsqueda" {
		t.Errorf("expected estado 'En Búsqueda', got %q", releida.Estado)
	}
}

func TestService_Crear_TransicionInvalidaNoDejaRastro(t *testing.T) {
	svc, orq := newEntorno(t)
	sol := crearSolicitud(t, orq)
	actor := solicitud.Actor{ID: 7, Rol: solicitud.RolEmpleado}

	_, err := svc.Crear(context.Background(), seguimiento.Entrada{
		IDSolicitud:  sol.ID,
		Titulo:       "Avance",
		Descripcion:  "detalle",
		NuevoProceso: "Estado Inventado",
	}, actor)
	if !errors.Is(err, appsolicitudes.ErrTransicionRechazada) {
		t.Fatalf("expected ErrTransicionRechazada, got %v", err)
	}

	historial, _ := svc.Historial(context.Background(), sol.ID)
	if len(historial) != 0 {
		t.Errorf("expected no historial entries, got %d", len(historial))
	}
}

func TestService_Crear_Validacion(t *testing.T) {
	svc, orq := newEntorno(t)
	sol := crearSolicitud(t, orq)
	actor := solicitud.Actor{ID: 7, Rol: solicitud.RolEmpleado}
	ctx := context.Background()

	tests := []struct {
		name        string
		entrada     seguimiento.Entrada
		expectedErr error
	}{
		{
			name:        "titulo requerido",
			entrada:     seguimiento.Entrada{IDSolicitud: sol.ID, Descripcion: "detalle"},
			expectedErr: seguimiento.ErrTituloRequerido,
		},
		{
			name:        "descripcion requerida",
			entrada:     seguimiento.Entrada{IDSolicitud: sol.ID, Titulo: "Avance"},
			expectedErr: seguimiento.ErrDescripcionRequerida,
		},
		{
			name:        "solicitud inexistente",
			entrada:     seguimiento.Entrada{IDSolicitud: 999, Titulo: "Avance", Descripcion: "detalle"},
			expectedErr: solicitud.ErrNoEncontrada,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Crear(ctx, tt.entrada, actor)
			if !errors.Is(err, tt.expectedErr) {
				t.Errorf("expected %v, got %v", tt.expectedErr, err)
			}
		})
	}
}

func TestService_Crear_SolicitudCerrada(t *testing.T) {
	svc, orq := newEntorno(t)
	sol := crearSolicitud(t, orq)
	actor := solicitud.Actor{ID: 7, Rol: solicitud.RolEmpleado}

	if err := orq.Anular(context.Background(), sol.ID, "duplicada", actor); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := svc.Crear(context.Background(), seguimiento.Entrada{
		IDSolicitud: sol.ID,
		Titulo:      "Nota tardía",
		Descripcion: "detalle",
	}, actor)
	if !errors.Is(err, appsolicitudes.ErrSolicitudCerrada) {
		t.Errorf("expected ErrSolicitudCerrada, got %v", err)
	}
}

func TestService_Historial_OrdenCronologico(t *testing.T) {
	svc, orq := newEntorno(t)
	sol := crearSolicitud(t, orq)
	actor := solicitud.Actor{ID: 7, Rol: solicitud.RolEmpleado}
	ctx := context.Background()

	titulos := []string{"Primera nota", "Segunda nota", "Tercera nota"}
	for _, titulo := range titulos {
		if _, err := svc.Crear(ctx, seguimiento.Entrada{
			IDSolicitud: sol.ID,
			Titulo:      titulo,
			Descripcion: "detalle",
		}, actor); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	historial, err := svc.Historial(ctx, sol.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(historial) != 3 {
		t.Fatalf("expected 3 entradas, got %d", len(historial))
	}
	for i, titulo := range titulos {
		if historial[i].Titulo != titulo {
			t.Errorf("posicion %d: expected %q, got %q", i, titulo, historial[i].Titulo)
		}
	}
}

func TestService_EstadosDisponibles(t *testing.T) {
	svc, orq := newEntorno(t)
	sol := crearSolicitud(t, orq)

	estados, err := svc.EstadosDisponibles(context.Background(), sol.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(estados) != 2 {
		t.Errorf("expected 2 destinos, got %d", len(estados))
	}
}

func TestService_Eliminar(t *testing.T) {
	svc, orq := newEntorno(t)
	sol := crearSolicitud(t, orq)
	actor := solicitud.Actor{ID: 7, Rol: solicitud.RolAdministrador}

	creada, err := svc.Crear(context.Background(), seguimiento.Entrada{
		IDSolicitud: sol.ID,
		Titulo:      "Nota errónea",
		Descripcion: "registrada sobre la solicitud equivocada",
	}, actor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.Eliminar(context.Background(), creada.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	historial, _ := svc.Historial(context.Background(), sol.ID)
	if len(historial) != 0 {
		t.Errorf("expected empty historial after delete, got %d", len(historial))
	}

	if err := svc.Eliminar(context.Background(), 999); !errors.Is(err, seguimiento.ErrNoEncontrada) {
		t.Errorf("expected ErrNoEncontrada, got %v", err)
	}
}
