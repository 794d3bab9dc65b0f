// Package listados mantiene las particiones de lectura abiertas/cerradas que
// consultan varias superficies a la vez. Se refresca al recibir los eventos
// del hub, con re-lecturas diferidas acotadas para absorber el retardo de
// propagación del almacén.
package listados

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/juju/clock"
	"github.com/juju/retry"

	"3tcapital/ms_gestion_solicitudes/internal/application/notificaciones"
	"3tcapital/ms_gestion_solicitudes/internal/core/solicitud"
)

// Config acota la política de refresco.
type Config struct {
	// Reintentos ante error de lectura, además del intento inmediato.
	Reintentos int
	// Espera entre reintentos ante error de lectura.
	Espera time.Duration
	// RelecturasDiferidas: retardos de las re-lecturas adicionales tras un
	// refresco exitoso, para capturar escrituras que el almacén aplicó con
	// retardo. Cada retardo se mide desde la re-lectura anterior.
	RelecturasDiferidas []time.Duration
}

func (c *Config) normalizar() {
	if c.Reintentos <= 0 {
		c.Reintentos = 2
	}
	if c.Espera <= 0 {
		c.Espera = 500 * time.Millisecond
	}
}

// Vista es la proyección particionada de solicitudes. Una solicitud está en
// exactamente una partición: abiertas (estado no terminal) o cerradas.
type Vista struct {
	repo  solicitud.Repository
	clock clock.Clock
	log   *slog.Logger
	cfg   Config

	mu       sync.RWMutex
	abiertas []solicitud.Solicitud
	cerradas []solicitud.Solicitud

	ctx         context.Context
	cancelar    context.CancelFunc
	desuscribir []func()
	wg          sync.WaitGroup
}

// NewVista construye la vista y la suscribe a los eventos de cierre y
// activación del hub.
func NewVista(repo solicitud.Repository, hub *notificaciones.Hub, clk clock.Clock, cfg Config, log *slog.Logger) *Vista {
	cfg.normalizar()
	ctx, cancelar := context.WithCancel(context.Background())
	v := &Vista{
		repo:     repo,
		clock:    clk,
		log:      log,
		cfg:      cfg,
		ctx:      ctx,
		cancelar: cancelar,
	}
	v.desuscribir = append(v.desuscribir,
		hub.SuscribirCerradas(func(ev notificaciones.SolicitudCerrada) {
			v.log.Debug("refresco por cierre", "solicitud", ev.ID, "estado", ev.Estado)
			v.refrescarConDiferidas()
		}),
		hub.SuscribirActivadas(func(ev notificaciones.SolicitudActivada) {
			v.log.Debug("refresco por activación", "solicitud", ev.ID, "estado", ev.Estado)
			v.refrescarConDiferidas()
		}),
	)
	return v
}

// Abiertas devuelve la partición de solicitudes en curso.
func (v *Vista) Abiertas() []solicitud.Solicitud {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return copiar(v.abiertas)
}

// Cerradas devuelve la partición de solicitudes terminales.
func (v *Vista) Cerradas() []solicitud.Solicitud {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return copiar(v.cerradas)
}

// Refrescar recarga ambas particiones desde el almacén, con reintentos
// acotados ante errores transitorios de lectura. Las mutaciones nunca se
// reintentan; esto es solo lectura.
func (v *Vista) Refrescar(ctx context.Context) error {
	return retry.Call(retry.CallArgs{
		Func: func() error { return v.cargar(ctx) },
		NotifyFunc: func(err error, intento int) {
			v.log.Warn("refresco de listados fallido", "intento", intento, "error", err)
		},
		Attempts: v.cfg.Reintentos + 1,
		Delay:    v.cfg.Espera,
		Clock:    v.clock,
		Stop:     ctx.Done(),
	})
}

// refrescarConDiferidas refresca ya y programa las re-lecturas diferidas.
func (v *Vista) refrescarConDiferidas() {
	if err := v.Refrescar(v.ctx); err != nil {
		v.log.Error("refresco inmediato de listados fallido", "error", err)
	}
	v.wg.Add(1)
	go func() {
		defer v.wg.Done()
		for _, retardo := range v.cfg.RelecturasDiferidas {
			select {
			case <-v.ctx.Done():
				return
			case <-v.clock.After(retardo):
			}
			if err := v.cargar(v.ctx); err != nil {
				v.log.Warn("re-lectura diferida fallida", "error", err)
			}
		}
	}()
}

func (v *Vista) cargar(ctx context.Context) error {
	todas, err := v.repo.Listar(ctx)
	if err != nil {
		return err
	}
	abiertas := make([]solicitud.Solicitud, 0, len(todas))
	cerradas := make([]solicitud.Solicitud, 0)
	for _, s := range todas {
		if s.Abierta() {
			abiertas = append(abiertas, s)
		} else {
			cerradas = append(cerradas, s)
		}
	}
	v.mu.Lock()
	v.abiertas, v.cerradas = abiertas, cerradas
	v.mu.Unlock()
	return nil
}

// Cerrar cancela las suscripciones y las re-lecturas en curso.
func (v *Vista) Cerrar() {
	for _, des := range v.desuscribir {
		des()
	}
	v.cancelar()
	v.wg.Wait()
}

func copiar(s []solicitud.Solicitud) []solicitud.Solicitud {
	c := make([]solicitud.Solicitud, len(s))
	copy(c, s)
	return c
}
