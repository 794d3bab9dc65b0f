package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"3tcapital/ms_gestion_solicitudes/internal/core/seguimiento"
)

type SeguimientosRepo struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewSeguimientosRepo(pool *pgxpool.Pool, log *slog.Logger) *SeguimientosRepo {
	return &SeguimientosRepo{pool: pool, log: log}
}

func (r *SeguimientosRepo) Crear(ctx context.Context, e seguimiento.Entrada) (seguimiento.Entrada, error) {
	if err := e.Validar(); err != nil {
		return seguimiento.Entrada{}, err
	}
	if e.FechaCreacion.IsZero() {
		e.FechaCreacion = time.Now()
	}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO seguimientos (
			id_solicitud, titulo, descripcion, observaciones, adjuntos,
			nuevo_proceso, id_autor, fecha_creacion
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`,
		e.IDSolicitud, e.Titulo, e.Descripcion, e.Observaciones, e.Adjuntos,
		e.NuevoProceso, e.IDAutor, e.FechaCreacion,
	).Scan(&e.ID)
	if err != nil {
		return seguimiento.Entrada{}, fmt.Errorf("crear seguimiento: %w", err)
	}
	return e, nil
}

func (r *SeguimientosRepo) Historial(ctx context.Context, idSolicitud int64) ([]seguimiento.Entrada, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, id_solicitud, titulo, descripcion, observaciones, adjuntos,
		       nuevo_proceso, id_autor, fecha_creacion
		FROM seguimientos
		WHERE id_solicitud = $1
		ORDER BY fecha_creacion, id
	`, idSolicitud)
	if err != nil {
		return nil, fmt.Errorf("historial de solicitud %d: %w", idSolicitud, err)
	}
	defer rows.Close()

	var entradas []seguimiento.Entrada
	for rows.Next() {
		var e seguimiento.Entrada
		if err := rows.Scan(
			&e.ID, &e.IDSolicitud, &e.Titulo, &e.Descripcion, &e.Observaciones,
			&e.Adjuntos, &e.NuevoProceso, &e.IDAutor, &e.FechaCreacion,
		); err != nil {
			return nil, fmt.Errorf("leer seguimiento: %w", err)
		}
		entradas = append(entradas, e)
	}
	return entradas, rows.Err()
}

func (r *SeguimientosRepo) Eliminar(ctx context.Context, id int64) error {
	etiqueta, err := r.pool.Exec(ctx, `DELETE FROM seguimientos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("eliminar seguimiento %d: %w", id, err)
	}
	if etiqueta.RowsAffected() == 0 {
		return fmt.Errorf("seguimiento %d: %w", id, seguimiento.ErrNoEncontrada)
	}
	r.log.Debug("seguimiento eliminado", "id", id)
	return nil
}
