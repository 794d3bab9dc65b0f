package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"3tcapital/ms_gestion_solicitudes/internal/core/seguimiento"
)

type SeguimientosRepo struct {
	mu        sync.RWMutex
	porID     map[int64]seguimiento.Entrada
	siguiente int64
}

func NewSeguimientosRepo() *SeguimientosRepo {
	return &SeguimientosRepo{porID: make(map[int64]seguimiento.Entrada), siguiente: 1}
}

func (r *SeguimientosRepo) Crear(_ context.Context, e seguimiento.Entrada) (seguimiento.Entrada, error) {
	if err := e.Validar(); err != nil {
		return seguimiento.Entrada{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	e.ID = r.siguiente
	r.siguiente++
	if e.FechaCreacion.IsZero() {
		e.FechaCreacion = time.Now()
	}
	r.porID[e.ID] = e
	return e, nil
}

func (r *SeguimientosRepo) Historial(_ context.Context, idSolicitud int64) ([]seguimiento.Entrada, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var entradas []seguimiento.Entrada
	for _, e := range r.porID {
		if e.IDSolicitud == idSolicitud {
			entradas = append(entradas, e)
		}
	}
	sort.Slice(entradas, func(i, j int) bool {
		if entradas[i].FechaCreacion.Equal(entradas[j].FechaCreacion) {
			return entradas[i].ID < entradas[j].ID
		}
		return entradas[i].FechaCreacion.Before(entradas[j].FechaCreacion)
	})
	return entradas, nil
}

func (r *SeguimientosRepo) Eliminar(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.porID[id]; !ok {
		return fmt.Errorf("entrada %d: %w", id, seguimiento.ErrNoEncontrada)
	}
	delete(r.porID, id)
	return nil
}
