package memory

import (
	"context"
	"testing"
	"time"

	"3tcapital/ms_gestion_solicitudes/internal/core/pago"
)

func TestPagosRepo_RegistrarYListar(t *testing.T) {
	repo := NewPagosRepo()
	ctx := context.Background()
	base := time.Now()

	repo.Registrar(ctx, pago.Pago{IDOrden: "b", IDSolicitud: 1, Monto: 90000, Metodo: pago.MetodoTarjeta, Fecha: base.Add(time.Minute)})
	repo.Registrar(ctx, pago.Pago{IDOrden: "a", IDSolicitud: 1, Monto: 90000, Metodo: pago.MetodoPSE, Fecha: base})
	repo.Registrar(ctx, pago.Pago{IDOrden: "c", IDSolicitud: 2, Monto: 50000, Metodo: pago.MetodoTarjeta, Fecha: base})

	pagos, err := repo.PorSolicitud(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pagos) != 2 {
		t.Fatalf("expected 2 pagos, got %d", len(pagos))
	}
	if pagos[0].IDOrden != "a" || pagos[1].IDOrden != "b" {
		t.Errorf("expected pagos ordered by fecha, got %q then %q", pagos[0].IDOrden, pagos[1].IDOrden)
	}

	vacios, err := repo.PorSolicitud(ctx, 99)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vacios) != 0 {
		t.Errorf("expected no pagos, got %d", len(vacios))
	}
}
