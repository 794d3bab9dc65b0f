// Package server arma el router HTTP del servicio y gestiona su ciclo de
// vida.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"3tcapital/ms_gestion_solicitudes/internal/adapters/http/health"
	"3tcapital/ms_gestion_solicitudes/internal/adapters/http/listados"
	"3tcapital/ms_gestion_solicitudes/internal/adapters/http/pagos"
	"3tcapital/ms_gestion_solicitudes/internal/adapters/http/seguimientos"
	"3tcapital/ms_gestion_solicitudes/internal/adapters/http/servicios"
	"3tcapital/ms_gestion_solicitudes/internal/adapters/http/solicitudes"
	"3tcapital/ms_gestion_solicitudes/internal/infrastructure/config"
	"3tcapital/ms_gestion_solicitudes/internal/infrastructure/http/middleware"
)

// Handlers agrupa los adaptadores HTTP que el router monta.
type Handlers struct {
	Servicios    *servicios.Handler
	Solicitudes  *solicitudes.Handler
	Seguimientos *seguimientos.Handler
	Pagos        *pagos.Handler
	Listados     *listados.Handler
	Health       *health.Handler
}

// Options de construcción del servidor.
type Options struct {
	HTTP     config.HTTPSettings
	Logger   *slog.Logger
	Auth     *middleware.JWTAuthenticator
	Handlers Handlers
	// RequestTimeout acota cada petición individual; cero usa 30s.
	RequestTimeout time.Duration
}

type Server struct {
	log             *slog.Logger
	httpServer      *http.Server
	auth            *middleware.JWTAuthenticator
	shutdownTimeout time.Duration
}

// New crea el servidor con todas las rutas del servicio montadas.
func New(opts Options) (*Server, error) {
	if opts.Logger == nil {
		return nil, errors.New("logger is required")
	}
	h := opts.Handlers
	if h.Servicios == nil || h.Solicitudes == nil || h.Seguimientos == nil || h.Pagos == nil || h.Health == nil {
		return nil, errors.New("handlers incompletos")
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(opts.Logger))
	r.Use(middleware.Timeout(opts.RequestTimeout))
	if opts.Auth != nil {
		r.Use(opts.Auth.Middleware)
	}

	r.Get("/health", h.Health.Status)

	r.Route("/api", func(r chi.Router) {
		r.Route("/servicios", func(r chi.Router) {
			r.Get("/landing", h.Servicios.Landing)
			r.Get("/", h.Servicios.Listar)
			r.Put("/{id}", h.Servicios.Actualizar)
			r.Get("/{nombre}/estados", h.Servicios.ListarEstados)
			r.Post("/{nombre}/estados", h.Servicios.AgregarEstado)
			r.Delete("/{nombre}/estados/{estado}", h.Servicios.EliminarEstado)
			r.Put("/{nombre}/estados/reordenar", h.Servicios.ReordenarEstados)
		})

		r.Route("/gestion-solicitudes", func(r chi.Router) {
			r.Get("/", h.Solicitudes.Listar)
			r.Get("/mias", h.Solicitudes.Mias)
			if h.Listados != nil {
				r.Get("/abiertas", h.Listados.Abiertas)
				r.Get("/cerradas", h.Listados.Cerradas)
			}
			r.Post("/crear/{servicio}", h.Solicitudes.Crear)
			r.Get("/{id}", h.Solicitudes.Obtener)
			r.Put("/editar/{id}", h.Solicitudes.Editar)
			r.Put("/anular/{id}", h.Solicitudes.Anular)
			r.Put("/asignar-empleado/{id}", h.Solicitudes.AsignarEmpleado)
			r.Get("/{id}/estados-disponibles", h.Solicitudes.EstadosDisponibles)
			r.Get("/{id}/estado-actual", h.Solicitudes.EstadoActual)
		})

		r.Route("/seguimiento", func(r chi.Router) {
			r.Post("/crear", h.Seguimientos.Crear)
			r.Get("/historial/{id}", h.Seguimientos.Historial)
			r.Get("/{id}/estados-disponibles", h.Seguimientos.EstadosDisponibles)
			r.Delete("/{id}", h.Seguimientos.Eliminar)
		})

		r.Route("/gestion-pagos", func(r chi.Router) {
			r.Post("/process-mock", h.Pagos.Procesar)
			r.Get("/historial/{id}", h.Pagos.Historial)
		})
	})

	shutdown := opts.HTTP.ShutdownTimeout
	if shutdown <= 0 {
		shutdown = 15 * time.Second
	}

	return &Server{
		log: opts.Logger,
		httpServer: &http.Server{
			Addr:         opts.HTTP.Address(),
			Handler:      r,
			ReadTimeout:  opts.HTTP.ReadTimeout,
			WriteTimeout: opts.HTTP.WriteTimeout,
			IdleTimeout:  opts.HTTP.IdleTimeout,
		},
		auth:            opts.Auth,
		shutdownTimeout: shutdown,
	}, nil
}

// Run arranca el servidor y bloquea hasta que el contexto se cancela o el
// listener falla. El apagado por cancelación es ordenado.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("HTTP server started", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.log.Error("HTTP server shutdown", "error", err)
		}
		return nil
	case err := <-errCh:
		return err
	}
}

// Close libera los recursos asociados al servidor.
func (s *Server) Close() {
	if s.auth != nil {
		s.auth.Close()
	}
}
