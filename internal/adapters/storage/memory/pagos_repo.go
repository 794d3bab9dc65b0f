package memory

import (
	"context"
	"sort"
	"sync"

	"3tcapital/ms_gestion_solicitudes/internal/core/pago"
)

type PagosRepo struct {
	mu    sync.RWMutex
	pagos []pago.Pago
}

func NewPagosRepo() *PagosRepo {
	return &PagosRepo{}
}

func (r *PagosRepo) Registrar(_ context.Context, p pago.Pago) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pagos = append(r.pagos, p)
	return nil
}

func (r *PagosRepo) PorSolicitud(_ context.Context, idSolicitud int64) ([]pago.Pago, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var lista []pago.Pago
	for _, p := range r.pagos {
		if p.IDSolicitud == idSolicitud {
			lista = append(lista, p)
		}
	}
	sort.Slice(lista, func(i, j int) bool { return lista[i].Fecha.Before(lista[j].Fecha) })
	return lista, nil
}
