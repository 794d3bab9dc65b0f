package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"3tcapital/ms_gestion_solicitudes/internal/core/seguimiento"
)

func TestSeguimientosRepo_CrearValidaLaEntrada(t *testing.T) {
	repo := NewSeguimientosRepo()
	ctx := context.Background()

	creada, err := repo.Crear(ctx, seguimiento.Entrada{
		IDSolicitud: 1,
		Titulo:      "Radicación",
		Descripcion: "Solicitud radicada",
		IDAutor:     9,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if creada.ID != 1 {
		t.Errorf("expected id 1, got %d", creada.ID)
	}
	if creada.FechaCreacion.IsZero() {
		t.Error("expected FechaCreacion assigned")
	}

	if _, err := repo.Crear(ctx, seguimiento.Entrada{IDSolicitud: 1, Descripcion: "sin título"}); !errors.Is(err, seguimiento.ErrTituloRequerido) {
		t.Errorf("expected ErrTituloRequerido, got %v", err)
	}
}

func TestSeguimientosRepo_HistorialOrdenado(t *testing.T) {
	repo := NewSeguimientosRepo()
	ctx := context.Background()
	base := time.Now()

	// Se insertan fuera de orden para verificar el orden cronológico.
	repo.Crear(ctx, seguimiento.Entrada{IDSolicitud: 1, Titulo: "Segunda", Descripcion: "d", IDAutor: 9, FechaCreacion: base.Add(time.Minute)})
	repo.Crear(ctx, seguimiento.Entrada{IDSolicitud: 1, Titulo: "Primera", Descripcion: "d", IDAutor: 9, FechaCreacion: base})
	repo.Crear(ctx, seguimiento.Entrada{IDSolicitud: 2, Titulo: "Otra solicitud", Descripcion: "d", IDAutor: 9, FechaCreacion: base})

	historial, err := repo.Historial(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(historial) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(historial))
	}
	if historial[0].Titulo != "Primera" || historial[1].Titulo != "Segunda" {
		t.Errorf("expected chronological order, got %q then %q", historial[0].Titulo, historial[1].Titulo)
	}
}

func TestSeguimientosRepo_Eliminar(t *testing.T) {
	repo := NewSeguimientosRepo()
	ctx := context.Background()

	creada, _ := repo.Crear(ctx, seguimiento.Entrada{IDSolicitud: 1, Titulo: "Nota", Descripcion: "d", IDAutor: 9})

	if err := repo.Eliminar(ctx, creada.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	historial, _ := repo.Historial(ctx, 1)
	if len(historial) != 0 {
		t.Errorf("expected empty historial, got %d entries", len(historial))
	}

	if err := repo.Eliminar(ctx, creada.ID); !errors.Is(err, seguimiento.ErrNoEncontrada) {
		t.Errorf("expected ErrNoEncontrada, got %v", err)
	}
}
