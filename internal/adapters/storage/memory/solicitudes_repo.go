package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"3tcapital/ms_gestion_solicitudes/internal/core/seguimiento"
	"3tcapital/ms_gestion_solicitudes/internal/core/solicitud"
)

type SolicitudesRepo struct {
	mu        sync.RWMutex
	porID     map[int64]solicitud.Solicitud
	siguiente int64
	// El seguimiento se anexa dentro de Transicionar para conservar la
	// atomicidad que en Postgres da la transacción.
	seguimientos *SeguimientosRepo
}

func NewSolicitudesRepo(seguimientos *SeguimientosRepo) *SolicitudesRepo {
	return &SolicitudesRepo{
		porID:        make(map[int64]solicitud.Solicitud),
		siguiente:    1,
		seguimientos: seguimientos,
	}
}

func (r *SolicitudesRepo) Crear(_ context.Context, s solicitud.Solicitud) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.ID = r.siguiente
	r.siguiente++
	s.FechaActualizada = s.FechaCreacion
	r.porID[s.ID] = s
	return s.ID, nil
}

func (r *SolicitudesRepo) Obtener(_ context.Context, id int64) (*solicitud.Solicitud, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.porID[id]
	if !ok {
		return nil, fmt.Errorf("solicitud %d: %w", id, solicitud.ErrNoEncontrada)
	}
	clon := s
	return &clon, nil
}

func (r *SolicitudesRepo) Listar(_ context.Context) ([]solicitud.Solicitud, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	lista := make([]solicitud.Solicitud, 0, len(r.porID))
	for _, s := range r.porID {
		lista = append(lista, s)
	}
	sort.Slice(lista, func(i, j int) bool { return lista[i].ID < lista[j].ID })
	return lista, nil
}

func (r *SolicitudesRepo) ListarPorCliente(_ context.Context, idCliente int64) ([]solicitud.Solicitud, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var lista []solicitud.Solicitud
	for _, s := range r.porID {
		if s.IDCliente == idCliente {
			lista = append(lista, s)
		}
	}
	sort.Slice(lista, func(i, j int) bool { return lista[i].ID < lista[j].ID })
	return lista, nil
}

func (r *SolicitudesRepo) ActualizarCarga(_ context.Context, id int64, carga json.RawMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.porID[id]
	if !ok {
		return fmt.Errorf("solicitud %d: %w", id, solicitud.ErrNoEncontrada)
	}
	s.Carga = append([]byte(nil), carga...)
	s.FechaActualizada = time.Now()
	r.porID[id] = s
	return nil
}

func (r *SolicitudesRepo) AsignarEmpleado(_ context.Context, id, idEmpleado int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.porID[id]
	if !ok {
		return fmt.Errorf("solicitud %d: %w", id, solicitud.ErrNoEncontrada)
	}
	s.IDEmpleado = &idEmpleado
	s.FechaActualizada = time.Now()
	r.porID[id] = s
	return nil
}

func (r *SolicitudesRepo) Transicionar(ctx context.Context, id int64, estado string, entrada seguimiento.Entrada) (seguimiento.Entrada, error) {
	r.mu.Lock()
	s, ok := r.porID[id]
	if !ok {
		r.mu.Unlock()
		return seguimiento.Entrada{}, fmt.Errorf("solicitud %d: %w", id, solicitud.ErrNoEncontrada)
	}
	anterior := s.Estado
	s.Estado = estado
	ahora := time.Now()
	s.FechaActualizada = ahora
	if solicitud.EsTerminal(estado) {
		s.FechaCierre = &ahora
		if estado == solicitud.EstadoAnulada {
			s.MotivoAnulacion = entrada.Descripcion
		}
	}
	r.porID[id] = s
	r.mu.Unlock()

	creada, err := r.seguimientos.Crear(ctx, entrada)
	if err != nil {
		// Revertir el estado: el anexado es todo-o-nada junto a la transición.
		r.mu.Lock()
		s.Estado = anterior
		s.FechaCierre = nil
		r.porID[id] = s
		r.mu.Unlock()
		return seguimiento.Entrada{}, err
	}
	return creada, nil
}
