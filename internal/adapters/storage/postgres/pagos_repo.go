package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"3tcapital/ms_gestion_solicitudes/internal/core/pago"
)

type PagosRepo struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewPagosRepo(pool *pgxpool.Pool, log *slog.Logger) *PagosRepo {
	return &PagosRepo{pool: pool, log: log}
}

func (r *PagosRepo) Registrar(ctx context.Context, p pago.Pago) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO pagos (id_orden, id_solicitud, monto, metodo, fecha)
		VALUES ($1, $2, $3, $4, $5)
	`, p.IDOrden, p.IDSolicitud, p.Monto, p.Metodo, p.Fecha)
	if err != nil {
		return fmt.Errorf("registrar pago %s: %w", p.IDOrden, err)
	}
	return nil
}

func (r *PagosRepo) PorSolicitud(ctx context.Context, idSolicitud int64) ([]pago.Pago, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id_orden, id_solicitud, monto, metodo, fecha
		FROM pagos
		WHERE id_solicitud = $1
		ORDER BY fecha
	`, idSolicitud)
	if err != nil {
		return nil, fmt.Errorf("pagos de solicitud %d: %w", idSolicitud, err)
	}
	defer rows.Close()

	var pagos []pago.Pago
	for rows.Next() {
		var p pago.Pago
		if err := rows.Scan(&p.IDOrden, &p.IDSolicitud, &p.Monto, &p.Metodo, &p.Fecha); err != nil {
			return nil, fmt.Errorf("leer pago: %w", err)
		}
		pagos = append(pagos, p)
	}
	return pagos, rows.Err()
}
