// Package memory implementa los repositorios sobre memoria, para pruebas y
// para ejecutar el servicio sin base de datos configurada.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"3tcapital/ms_gestion_solicitudes/internal/core/servicio"
)

type ServiciosRepo struct {
	mu        sync.RWMutex
	porID     map[int64]servicio.Servicio
	siguiente int64
}

func NewServiciosRepo() *ServiciosRepo {
	return &ServiciosRepo{porID: make(map[int64]servicio.Servicio), siguiente: 1}
}

// Sembrar instala un servicio con ids asignados, para arranque y pruebas.
func (r *ServiciosRepo) Sembrar(s servicio.Servicio) servicio.Servicio {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.ID == 0 {
		s.ID = r.siguiente
		r.siguiente++
	} else if s.ID >= r.siguiente {
		r.siguiente = s.ID + 1
	}
	s.EstadosProceso = servicio.Reordenar(s.EstadosProceso)
	for i := range s.EstadosProceso {
		if s.EstadosProceso[i].ID == 0 {
			s.EstadosProceso[i].ID = s.ID*100 + int64(i) + 1
		}
	}
	r.porID[s.ID] = clonarServicio(s)
	return s
}

func (r *ServiciosRepo) Listar(_ context.Context) ([]servicio.Servicio, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	lista := make([]servicio.Servicio, 0, len(r.porID))
	for _, s := range r.porID {
		lista = append(lista, clonarServicio(s))
	}
	sort.Slice(lista, func(i, j int) bool { return lista[i].ID < lista[j].ID })
	return lista, nil
}

func (r *ServiciosRepo) Obtener(_ context.Context, nombre string) (*servicio.Servicio, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	objetivo := strings.ToLower(strings.TrimSpace(nombre))
	for _, s := range r.porID {
		if strings.ToLower(s.Nombre) == objetivo {
			clon := clonarServicio(s)
			return &clon, nil
		}
	}
	return nil, fmt.Errorf("servicio %q: %w", nombre, servicio.ErrNoEncontrado)
}

func (r *ServiciosRepo) ObtenerPorID(_ context.Context, id int64) (*servicio.Servicio, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.porID[id]
	if !ok {
		return nil, fmt.Errorf("servicio %d: %w", id, servicio.ErrNoEncontrado)
	}
	clon := clonarServicio(s)
	return &clon, nil
}

func (r *ServiciosRepo) Actualizar(_ context.Context, s servicio.Servicio) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.porID[s.ID]; !ok {
		return fmt.Errorf("servicio %d: %w", s.ID, servicio.ErrNoEncontrado)
	}
	r.porID[s.ID] = clonarServicio(s)
	return nil
}

func clonarServicio(s servicio.Servicio) servicio.Servicio {
	clon := s
	clon.EstadosProceso = make([]servicio.EstadoProceso, len(s.EstadosProceso))
	copy(clon.EstadosProceso, s.EstadosProceso)
	if s.DatosLanding != nil {
		clon.DatosLanding = append([]byte(nil), s.DatosLanding...)
	}
	return clon
}
