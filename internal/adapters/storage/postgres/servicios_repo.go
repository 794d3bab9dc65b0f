// Package postgres implementa los repositorios sobre PostgreSQL con pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"3tcapital/ms_gestion_solicitudes/internal/core/servicio"
)

type ServiciosRepo struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewServiciosRepo(pool *pgxpool.Pool, log *slog.Logger) *ServiciosRepo {
	return &ServiciosRepo{pool: pool, log: log}
}

func (r *ServiciosRepo) Listar(ctx context.Context) ([]servicio.Servicio, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, nombre, visible, precio, requiere_pago, landing_data
		FROM servicios
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("listar servicios: %w", err)
	}
	defer rows.Close()

	var servicios []servicio.Servicio
	for rows.Next() {
		var s servicio.Servicio
		if err := rows.Scan(&s.ID, &s.Nombre, &s.Visible, &s.Precio, &s.RequierePago, &s.DatosLanding); err != nil {
			return nil, fmt.Errorf("leer servicio: %w", err)
		}
		servicios = append(servicios, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterar servicios: %w", err)
	}

	for i := range servicios {
		estados, err := r.estadosDe(ctx, servicios[i].ID)
		if err != nil {
			return nil, err
		}
		servicios[i].EstadosProceso = estados
	}
	return servicios, nil
}

func (r *ServiciosRepo) Obtener(ctx context.Context, nombre string) (*servicio.Servicio, error) {
	return r.obtenerDonde(ctx, `lower(nombre) = lower($1)`, nombre)
}

func (r *ServiciosRepo) ObtenerPorID(ctx context.Context, id int64) (*servicio.Servicio, error) {
	return r.obtenerDonde(ctx, `id = $1`, id)
}

func (r *ServiciosRepo) obtenerDonde(ctx context.Context, condicion string, arg any) (*servicio.Servicio, error) {
	var s servicio.Servicio
	err := r.pool.QueryRow(ctx, `
		SELECT id, nombre, visible, precio, requiere_pago, landing_data
		FROM servicios
		WHERE `+condicion,
		arg,
	).Scan(&s.ID, &s.Nombre, &s.Visible, &s.Precio, &s.RequierePago, &s.DatosLanding)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("servicio %v: %w", arg, servicio.ErrNoEncontrado)
	}
	if err != nil {
		return nil, fmt.Errorf("obtener servicio %v: %w", arg, err)
	}

	estados, err := r.estadosDe(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	s.EstadosProceso = estados
	return &s, nil
}

func (r *ServiciosRepo) estadosDe(ctx context.Context, idServicio int64) ([]servicio.EstadoProceso, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, nombre, orden, clave
		FROM estados_proceso
		WHERE id_servicio = $1
		ORDER BY orden
	`, idServicio)
	if err != nil {
		return nil, fmt.Errorf("listar estados de servicio %d: %w", idServicio, err)
	}
	defer rows.Close()

	var estados []servicio.EstadoProceso
	for rows.Next() {
		var e servicio.EstadoProceso
		if err := rows.Scan(&e.ID, &e.Nombre, &e.Orden, &e.Clave); err != nil {
			return nil, fmt.Errorf("leer estado de proceso: %w", err)
		}
		estados = append(estados, e)
	}
	return estados, rows.Err()
}

// Actualizar reemplaza el documento completo: datos del servicio y la
// secuencia de estados, en una transacción. La secuencia entrante ya llega
// renumerada densa; aquí solo se persiste tal cual.
func (r *ServiciosRepo) Actualizar(ctx context.Context, s servicio.Servicio) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	etiqueta, err := tx.Exec(ctx, `
		UPDATE servicios
		SET nombre = $2, visible = $3, precio = $4, requiere_pago = $5, landing_data = $6
		WHERE id = $1
	`, s.ID, s.Nombre, s.Visible, s.Precio, s.RequierePago, s.DatosLanding)
	if err != nil {
		return fmt.Errorf("actualizar servicio %d: %w", s.ID, err)
	}
	if etiqueta.RowsAffected() == 0 {
		return fmt.Errorf("servicio %d: %w", s.ID, servicio.ErrNoEncontrado)
	}

	// Reemplazo completo de la secuencia. El historial de solicitudes guarda
	// nombres, no referencias, así que borrar estados aquí no lo afecta.
	if _, err := tx.Exec(ctx, `DELETE FROM estados_proceso WHERE id_servicio = $1`, s.ID); err != nil {
		return fmt.Errorf("limpiar estados de servicio %d: %w", s.ID, err)
	}
	for _, e := range s.EstadosProceso {
		if _, err := tx.Exec(ctx, `
			INSERT INTO estados_proceso (id_servicio, nombre, orden, clave)
			VALUES ($1, $2, $3, $4)
		`, s.ID, e.Nombre, e.Orden, e.Clave); err != nil {
			return fmt.Errorf("insertar estado %q de servicio %d: %w", e.Nombre, s.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	r.log.Debug("servicio persistido", "id", s.ID, "estados", len(s.EstadosProceso))
	return nil
}
