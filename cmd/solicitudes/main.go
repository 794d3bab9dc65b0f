package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/juju/clock"

	auditpg "3tcapital/ms_gestion_solicitudes/internal/adapters/audit/postgres"
	healthhttp "3tcapital/ms_gestion_solicitudes/internal/adapters/http/health"
	listadoshttp "3tcapital/ms_gestion_solicitudes/internal/adapters/http/listados"
	pagoshttp "3tcapital/ms_gestion_solicitudes/internal/adapters/http/pagos"
	seguimientoshttp "3tcapital/ms_gestion_solicitudes/internal/adapters/http/seguimientos"
	servicioshttp "3tcapital/ms_gestion_solicitudes/internal/adapters/http/servicios"
	solicitudeshttp "3tcapital/ms_gestion_solicitudes/internal/adapters/http/solicitudes"
	"3tcapital/ms_gestion_solicitudes/internal/adapters/pagos/pasarela"
	"3tcapital/ms_gestion_solicitudes/internal/adapters/storage/memory"
	"3tcapital/ms_gestion_solicitudes/internal/adapters/storage/postgres"
	"3tcapital/ms_gestion_solicitudes/internal/application/catalogo"
	"3tcapital/ms_gestion_solicitudes/internal/application/health"
	"3tcapital/ms_gestion_solicitudes/internal/application/listados"
	"3tcapital/ms_gestion_solicitudes/internal/application/notificaciones"
	"3tcapital/ms_gestion_solicitudes/internal/application/pagos"
	"3tcapital/ms_gestion_solicitudes/internal/application/seguimientos"
	"3tcapital/ms_gestion_solicitudes/internal/application/solicitudes"
	"3tcapital/ms_gestion_solicitudes/internal/core/audit"
	"3tcapital/ms_gestion_solicitudes/internal/core/formulario"
	"3tcapital/ms_gestion_solicitudes/internal/core/pago"
	"3tcapital/ms_gestion_solicitudes/internal/core/seguimiento"
	"3tcapital/ms_gestion_solicitudes/internal/core/servicio"
	"3tcapital/ms_gestion_solicitudes/internal/core/solicitud"
	"3tcapital/ms_gestion_solicitudes/internal/infrastructure/config"
	"3tcapital/ms_gestion_solicitudes/internal/infrastructure/database"
	httpinfra "3tcapital/ms_gestion_solicitudes/internal/infrastructure/http"
	"3tcapital/ms_gestion_solicitudes/internal/infrastructure/http/middleware"
	"3tcapital/ms_gestion_solicitudes/internal/infrastructure/http/server"
	"3tcapital/ms_gestion_solicitudes/internal/infrastructure/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "service stopped: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg.App.Name, cfg.Log.Level, cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	healthSvc := health.NewService(health.Metadata{
		Service:     cfg.App.Name,
		Version:     cfg.App.Version,
		Environment: cfg.App.Environment,
	})

	// Repositorios: Postgres cuando hay base de datos configurada, memoria
	// en caso contrario (desarrollo local y pruebas de integración).
	var (
		serviciosRepo    servicio.Repository
		solicitudesRepo  solicitud.Repository
		seguimientosRepo seguimiento.Repository
		pagosRepo        pago.Repository
		auditRepo        audit.Repository
	)
	if cfg.Database.Enabled && cfg.Database.Host != "" {
		pool, err := database.NewPool(ctx, database.Config{
			Host:            cfg.Database.Host,
			Port:            cfg.Database.Port,
			Database:        cfg.Database.Database,
			User:            cfg.Database.User,
			Password:        cfg.Database.Password,
			SSLMode:         cfg.Database.SSLMode,
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		})
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer pool.Close()

		if err := database.RunMigrations(ctx, pool, log); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		log.Info("Database connection established", "database", cfg.Database.Database)

		serviciosRepo = postgres.NewServiciosRepo(pool, log)
		solicitudesRepo = postgres.NewSolicitudesRepo(pool, log)
		seguimientosRepo = postgres.NewSeguimientosRepo(pool, log)
		pagosRepo = postgres.NewPagosRepo(pool, log)
		auditRepo = auditpg.NewRepository(pool, log)
		healthSvc.RegisterDependency("database", func(ctx context.Context) error {
			return pool.Ping(ctx)
		})
	} else {
		log.Warn("Database not configured, using in-memory repositories")
		segRepo := memory.NewSeguimientosRepo()
		svcRepo := memory.NewServiciosRepo()
		for _, s := range catalogo.Semilla() {
			svcRepo.Sembrar(s)
		}
		serviciosRepo = svcRepo
		solicitudesRepo = memory.NewSolicitudesRepo(segRepo)
		seguimientosRepo = segRepo
		pagosRepo = memory.NewPagosRepo()
	}

	registro := formulario.NewRegistro()
	hub := notificaciones.New(log)

	catalogoSvc := catalogo.NewService(serviciosRepo, log)
	constructor := solicitudes.NewConstructor(registro)
	orquestador := solicitudes.NewService(solicitudesRepo, catalogoSvc, constructor, hub, log)
	seguimientosSvc := seguimientos.NewService(seguimientosRepo, orquestador, log)

	vista := listados.NewVista(solicitudesRepo, hub, clock.WallClock, listados.Config{
		Reintentos:          cfg.Listados.Reintentos,
		Espera:              cfg.Listados.Espera,
		RelecturasDiferidas: cfg.Listados.RelecturasDiferidas,
	}, log)
	defer vista.Cerrar()
	if err := vista.Refrescar(ctx); err != nil {
		log.Warn("carga inicial de listados fallida", "error", err)
	}

	// Pasarela de pagos: cliente real cuando hay URL configurada, simulador
	// en caso contrario.
	var procesador pago.Procesador
	if cfg.Pasarela.BaseURL != "" {
		traced := httpinfra.NewTracedClient(&httpinfra.TracedClientConfig{
			Timeout:         cfg.Pasarela.APITimeout,
			AuditEnabled:    auditRepo != nil,
			LogRequestBody:  true,
			LogResponseBody: true,
		}, log, auditRepo, "pasarela")
		authManager := pasarela.NewAuthManager(
			cfg.Pasarela.BaseURL,
			cfg.Pasarela.Username,
			cfg.Pasarela.Password,
			cfg.Pasarela.TokenTTL,
			traced,
			log,
		)
		procesador = pasarela.NewClient(cfg.Pasarela.BaseURL, authManager, traced, log, cfg.Pasarela.APITimeout)
		healthSvc.RegisterDependency("pasarela", func(ctx context.Context) error {
			_, err := authManager.GetToken(ctx)
			return err
		})
		log.Info("payment gateway configured", "base_url", cfg.Pasarela.BaseURL)
	} else {
		log.Warn("payment gateway not configured, using simulator")
		procesador = pasarela.NewSimulador(log)
	}
	pagosSvc := pagos.NewService(orquestador, procesador, pagosRepo, log)

	var auth *middleware.JWTAuthenticator
	if cfg.Auth.Enabled {
		auth, err = middleware.NewJWTAuthenticator(cfg.Auth, log)
		if err != nil {
			return fmt.Errorf("configure JWT authentication: %w", err)
		}
	} else {
		log.Warn("JWT authentication DISABLED")
	}

	srv, err := server.New(server.Options{
		HTTP:   cfg.HTTP,
		Logger: log,
		Auth:   auth,
		Handlers: server.Handlers{
			Servicios:    servicioshttp.NewHandler(catalogoSvc),
			Solicitudes:  solicitudeshttp.NewHandler(orquestador),
			Seguimientos: seguimientoshttp.NewHandler(seguimientosSvc),
			Pagos:        pagoshttp.NewHandler(pagosSvc),
			Listados:     listadoshttp.NewHandler(vista),
			Health:       healthhttp.NewHandler(healthSvc),
		},
		RequestTimeout: cfg.HTTP.WriteTimeout,
	})
	if err != nil {
		return fmt.Errorf("build server: %w", err)
	}
	defer srv.Close()

	return srv.Run(ctx)
}
