// Package pagos es la compuerta de pago: retiene una solicitud de cliente en
// "Pendiente de Pago" hasta que llega una confirmación, y entonces la activa.
package pagos

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"3tcapital/ms_gestion_solicitudes/internal/application/solicitudes"
	"3tcapital/ms_gestion_solicitudes/internal/core/pago"
	"3tcapital/ms_gestion_solicitudes/internal/core/solicitud"
)

var (
	// ErrPagoNoActivado: la pasarela aceptó el pago pero no activó la
	// solicitud. Es una anomalía reportable, nunca un éxito silencioso.
	ErrPagoNoActivado = errors.New("pago procesado sin activación de la solicitud")
	// ErrSinPagoPendiente: la solicitud no está esperando pago (ya activada
	// o nunca lo requirió).
	ErrSinPagoPendiente = errors.New("la solicitud no tiene un pago pendiente")
)

type Service struct {
	solicitudes *solicitudes.Service
	procesador  pago.Procesador
	pagos       pago.Repository
	guardia     *solicitudes.GuardiaEnCurso
	log         *slog.Logger
	now         func() time.Time
}

func NewService(orq *solicitudes.Service, procesador pago.Procesador, pagos pago.Repository, log *slog.Logger) *Service {
	return &Service{
		solicitudes: orq,
		procesador:  procesador,
		pagos:       pagos,
		guardia:     solicitudes.NewGuardiaEnCurso(),
		log:         log,
		now:         time.Now,
	}
}

// Activar procesa el pago de una solicitud pendiente y, si la pasarela
// confirma la activación, la mueve al primer estado de su proceso. Un clic
// duplicado mientras hay un intento en vuelo se rechaza con
// ErrOperacionEnCurso; un reintento tras la activación recibe
// ErrSinPagoPendiente, de modo que el pago nunca se duplica en silencio.
func (s *Service) Activar(ctx context.Context, idSolicitud int64, monto float64, metodo string, actor solicitud.Actor) (*solicitud.Solicitud, error) {
	liberar, err := s.guardia.Adquirir("pago:" + strconv.FormatInt(idSolicitud, 10))
	if err != nil {
		return nil, err
	}
	defer liberar()

	sol, err := s.solicitudes.Obtener(ctx, idSolicitud)
	if err != nil {
		return nil, err
	}
	if !sol.PendienteDePago() {
		return nil, fmt.Errorf("solicitud %d en estado %q: %w", idSolicitud, sol.Estado, ErrSinPagoPendiente)
	}

	intento := pago.Pago{
		IDOrden:     uuid.NewString(),
		IDSolicitud: idSolicitud,
		Monto:       monto,
		Metodo:      metodo,
		Fecha:       s.now(),
	}
	if err := intento.Validar(); err != nil {
		return nil, err
	}

	resultado, err := s.procesador.Procesar(ctx, intento)
	if err != nil {
		return nil, fmt.Errorf("procesar pago de solicitud %d: %w", idSolicitud, err)
	}

	if err := s.pagos.Registrar(ctx, intento); err != nil {
		// El pago ya ocurrió; perder el registro local no debe ocultarle la
		// activación al cliente.
		s.log.Error("no se pudo registrar el intento de pago", "solicitud", idSolicitud, "orden", intento.IDOrden, "error", err)
	}

	if !resultado.Activada {
		s.log.Warn("pago aceptado sin activación", "solicitud", idSolicitud, "orden", intento.IDOrden, "referencia", resultado.Referencia)
		return nil, fmt.Errorf("solicitud %d, orden %s: %w", idSolicitud, intento.IDOrden, ErrPagoNoActivado)
	}

	activada, err := s.solicitudes.ActivarPorPago(ctx, idSolicitud, actor.ID)
	if err != nil {
		return nil, err
	}
	s.log.Info("pago confirmado y solicitud activada",
		"solicitud", idSolicitud,
		"orden", intento.IDOrden,
		"monto", monto,
		"metodo", metodo,
	)
	return activada, nil
}

// Historial devuelve los intentos de pago registrados de una solicitud.
func (s *Service) Historial(ctx context.Context, idSolicitud int64) ([]pago.Pago, error) {
	return s.pagos.PorSolicitud(ctx, idSolicitud)
}
