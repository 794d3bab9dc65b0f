// Package catalogo administra el catálogo de servicios y su secuencia de
// estados de proceso. La secuencia es autoritativa y editable en caliente:
// los consumidores releen en lugar de cachear.
package catalogo

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"3tcapital/ms_gestion_solicitudes/internal/core/servicio"
)

type Service struct {
	repo servicio.Repository
	log  *slog.Logger
}

func NewService(repo servicio.Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Listar devuelve el catálogo completo.
func (s *Service) Listar(ctx context.Context) ([]servicio.Servicio, error) {
	return s.repo.Listar(ctx)
}

// Obtener devuelve la definición vigente de un servicio por nombre.
func (s *Service) Obtener(ctx context.Context, nombre string) (*servicio.Servicio, error) {
	return s.repo.Obtener(ctx, nombre)
}

// ListarEstados devuelve la secuencia ordenada de estados de un servicio.
func (s *Service) ListarEstados(ctx context.Context, nombre string) ([]servicio.EstadoProceso, error) {
	svc, err := s.repo.Obtener(ctx, nombre)
	if err != nil {
		return nil, err
	}
	return svc.EstadosProceso, nil
}

// Actualizar reemplaza el documento completo del servicio. La secuencia de
// estados recibida se renumera densa 1..N antes de persistir.
func (s *Service) Actualizar(ctx context.Context, actualizado servicio.Servicio) (*servicio.Servicio, error) {
	actual, err := s.repo.ObtenerPorID(ctx, actualizado.ID)
	if err != nil {
		return nil, err
	}

	actualizado.EstadosProceso = servicio.Reordenar(actualizado.EstadosProceso)
	if err := actualizado.Validar(); err != nil {
		return nil, err
	}

	if err := s.repo.Actualizar(ctx, actualizado); err != nil {
		return nil, fmt.Errorf("actualizar servicio %q: %w", actualizado.Nombre, err)
	}
	s.log.Info("servicio actualizado",
		"servicio", actualizado.Nombre,
		"estados", len(actualizado.EstadosProceso),
		"visible", actualizado.Visible,
		"visible_anterior", actual.Visible,
	)
	return &actualizado, nil
}

// AgregarEstado anexa un estado al final de la secuencia del servicio.
func (s *Service) AgregarEstado(ctx context.Context, nombreServicio, nombreEstado string) (*servicio.Servicio, error) {
	svc, err := s.repo.Obtener(ctx, nombreServicio)
	if err != nil {
		return nil, err
	}
	svc.EstadosProceso = append(svc.EstadosProceso, servicio.EstadoProceso{Nombre: strings.TrimSpace(nombreEstado)})
	return s.guardarConEstados(ctx, *svc)
}

// EliminarEstado quita un estado de la secuencia. No toca el historial de
// las solicitudes que lo referencian: el historial conserva el nombre
// registrado.
func (s *Service) EliminarEstado(ctx context.Context, nombreServicio, nombreEstado string) (*servicio.Servicio, error) {
	svc, err := s.repo.Obtener(ctx, nombreServicio)
	if err != nil {
		return nil, err
	}

	objetivo := strings.ToLower(strings.TrimSpace(nombreEstado))
	restantes := svc.EstadosProceso[:0]
	encontrado := false
	for _, e := range svc.EstadosProceso {
		if strings.ToLower(e.Nombre) == objetivo {
			encontrado = true
			continue
		}
		restantes = append(restantes, e)
	}
	if !encontrado {
		return nil, fmt.Errorf("estado %q en servicio %q: %w", nombreEstado, nombreServicio, servicio.ErrNoEncontrado)
	}
	svc.EstadosProceso = restantes
	return s.guardarConEstados(ctx, *svc)
}

// ReordenarEstados fija la secuencia en el orden de nombres recibido. Todos
// los estados actuales deben aparecer exactamente una vez.
func (s *Service) ReordenarEstados(ctx context.Context, nombreServicio string, orden []string) (*servicio.Servicio, error) {
	svc, err := s.repo.Obtener(ctx, nombreServicio)
	if err != nil {
		return nil, err
	}
	if len(orden) != len(svc.EstadosProceso) {
		return nil, fmt.Errorf("reordenar %q: se esperaban %d estados, llegaron %d",
			nombreServicio, len(svc.EstadosProceso), len(orden))
	}

	porNombre := make(map[string]servicio.EstadoProceso, len(svc.EstadosProceso))
	for _, e := range svc.EstadosProceso {
		porNombre[strings.ToLower(e.Nombre)] = e
	}

	reordenados := make([]servicio.EstadoProceso, 0, len(orden))
	for _, nombre := range orden {
		e, ok := porNombre[strings.ToLower(strings.TrimSpace(nombre))]
		if !ok {
			return nil, fmt.Errorf("estado %q en servicio %q: %w", nombre, nombreServicio, servicio.ErrNoEncontrado)
		}
		delete(porNombre, strings.ToLower(e.Nombre))
		reordenados = append(reordenados, e)
	}
	svc.EstadosProceso = reordenados
	return s.guardarConEstados(ctx, *svc)
}

func (s *Service) guardarConEstados(ctx context.Context, svc servicio.Servicio) (*servicio.Servicio, error) {
	svc.EstadosProceso = servicio.Reordenar(svc.EstadosProceso)
	if err := svc.Validar(); err != nil {
		return nil, err
	}
	if err := s.repo.Actualizar(ctx, svc); err != nil {
		return nil, fmt.Errorf("guardar estados de %q: %w", svc.Nombre, err)
	}
	return &svc, nil
}
