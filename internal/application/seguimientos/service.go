// Package seguimientos expone el historial de solo-anexado de las
// solicitudes. Una entrada con transición delega en el orquestador para que
// cambio de estado y registro sean la misma acción.
package seguimientos

import (
	"context"
	"log/slog"
	"strings"

	"3tcapital/ms_gestion_solicitudes/internal/application/solicitudes"
	"3tcapital/ms_gestion_solicitudes/internal/core/seguimiento"
	"3tcapital/ms_gestion_solicitudes/internal/core/servicio"
	"3tcapital/ms_gestion_solicitudes/internal/core/solicitud"
)

type Service struct {
	repo        seguimiento.Repository
	solicitudes *solicitudes.Service
	log         *slog.Logger
}

func NewService(repo seguimiento.Repository, orq *solicitudes.Service, log *slog.Logger) *Service {
	return &Service{repo: repo, solicitudes: orq, log: log}
}

// Crear anexa una entrada al historial. Si la entrada trae nuevo_proceso, la
// transición y el anexado se ejecutan como una sola acción atómica a través
// del orquestador; si no, es un registro puro. La validación ocurre antes de
// cualquier persistencia.
func (s *Service) Crear(ctx context.Context, e seguimiento.Entrada, actor solicitud.Actor) (*seguimiento.Entrada, error) {
	e.IDAutor = actor.ID

	if strings.TrimSpace(e.NuevoProceso) != "" {
		destino := e.NuevoProceso
		e.NuevoProceso = ""
		return s.solicitudes.Transicionar(ctx, e.IDSolicitud, destino, e)
	}

	if err := e.Validar(); err != nil {
		return nil, err
	}
	// Entrada sin transición: la solicitud debe existir y seguir abierta.
	sol, err := s.solicitudes.Obtener(ctx, e.IDSolicitud)
	if err != nil {
		return nil, err
	}
	if !sol.Abierta() {
		return nil, solicitudes.ErrSolicitudCerrada
	}

	creada, err := s.repo.Crear(ctx, e)
	if err != nil {
		return nil, err
	}
	s.log.Info("entrada de seguimiento anexada", "solicitud", e.IDSolicitud, "entrada", creada.ID)
	return &creada, nil
}

// Historial devuelve las entradas de la solicitud en orden cronológico.
func (s *Service) Historial(ctx context.Context, idSolicitud int64) ([]seguimiento.Entrada, error) {
	return s.repo.Historial(ctx, idSolicitud)
}

// EstadosDisponibles expone los destinos de transición legales de la
// solicitud, para poblar el selector del formulario de seguimiento.
func (s *Service) EstadosDisponibles(ctx context.Context, idSolicitud int64) ([]servicio.EstadoProceso, error) {
	return s.solicitudes.EstadosDisponibles(ctx, idSolicitud)
}

// Eliminar es la corrección privilegiada: borra una entrada por id, fuera
// del flujo normal. El historial nunca se edita.
func (s *Service) Eliminar(ctx context.Context, id int64) error {
	if err := s.repo.Eliminar(ctx, id); err != nil {
		return err
	}
	s.log.Warn("entrada de seguimiento eliminada por corrección privilegiada", "entrada", id)
	return nil
}
