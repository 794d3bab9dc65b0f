package pasarela

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"3tcapital/ms_gestion_solicitudes/internal/core/pago"
)

// Simulador is an in-process pago.Procesador used when the gateway is not
// configured (local development and tests). Every valid payment activates.
type Simulador struct {
	log *slog.Logger
}

func NewSimulador(log *slog.Logger) *Simulador {
	return &Simulador{log: log}
}

func (s *Simulador) Procesar(ctx context.Context, p pago.Pago) (pago.Resultado, error) {
	if err := ctx.Err(); err != nil {
		return pago.Resultado{}, err
	}
	if err := p.Validar(); err != nil {
		return pago.Resultado{}, err
	}
	referencia := fmt.Sprintf("SIM-%s", uuid.NewString())
	s.log.Info("Pago simulado aprobado", "orden", p.IDOrden, "solicitud", p.IDSolicitud, "referencia", referencia)
	return pago.Resultado{Activada: true, Referencia: referencia}, nil
}
