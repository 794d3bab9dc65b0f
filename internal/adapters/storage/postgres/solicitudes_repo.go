package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"3tcapital/ms_gestion_solicitudes/internal/core/seguimiento"
	"3tcapital/ms_gestion_solicitudes/internal/core/solicitud"
)

const columnasSolicitud = `
	id, id_servicio, servicio, tipo_solicitante, tipo_persona, id_cliente,
	datos, estado, id_empleado, fecha_creacion, monto, requiere_pago,
	creada_por_rol, motivo_anulacion, fecha_cierre, fecha_actualizacion
`

type SolicitudesRepo struct {
	pool *pgxpool.Pool
	log  *slog.Logger
}

func NewSolicitudesRepo(pool *pgxpool.Pool, log *slog.Logger) *SolicitudesRepo {
	return &SolicitudesRepo{pool: pool, log: log}
}

func (r *SolicitudesRepo) Crear(ctx context.Context, s solicitud.Solicitud) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO solicitudes (
			id_servicio, servicio, tipo_solicitante, tipo_persona, id_cliente,
			datos, estado, id_empleado, fecha_creacion, monto, requiere_pago,
			creada_por_rol, fecha_actualizacion
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $9)
		RETURNING id
	`,
		s.ServicioID, s.Servicio, s.TipoSolicitante, s.TipoPersona, s.IDCliente,
		s.Carga, s.Estado, s.IDEmpleado, s.FechaCreacion, s.Monto, s.RequierePago,
		s.CreadaPorRol,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("crear solicitud: %w", err)
	}
	return id, nil
}

func (r *SolicitudesRepo) Obtener(ctx context.Context, id int64) (*solicitud.Solicitud, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+columnasSolicitud+` FROM solicitudes WHERE id = $1`, id)
	s, err := escanearSolicitud(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("solicitud %d: %w", id, solicitud.ErrNoEncontrada)
	}
	if err != nil {
		return nil, fmt.Errorf("obtener solicitud %d: %w", id, err)
	}
	return s, nil
}

func (r *SolicitudesRepo) Listar(ctx context.Context) ([]solicitud.Solicitud, error) {
	return r.listarDonde(ctx, ``)
}

func (r *SolicitudesRepo) ListarPorCliente(ctx context.Context, idCliente int64) ([]solicitud.Solicitud, error) {
	return r.listarDonde(ctx, `WHERE id_cliente = $1`, idCliente)
}

func (r *SolicitudesRepo) listarDonde(ctx context.Context, condicion string, args ...any) ([]solicitud.Solicitud, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+columnasSolicitud+`
		FROM solicitudes `+condicion+`
		ORDER BY fecha_creacion DESC, id DESC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("listar solicitudes: %w", err)
	}
	defer rows.Close()

	var lista []solicitud.Solicitud
	for rows.Next() {
		s, err := escanearSolicitud(rows)
		if err != nil {
			return nil, fmt.Errorf("leer solicitud: %w", err)
		}
		lista = append(lista, *s)
	}
	return lista, rows.Err()
}

func (r *SolicitudesRepo) ActualizarCarga(ctx context.Context, id int64, carga json.RawMessage) error {
	etiqueta, err := r.pool.Exec(ctx, `
		UPDATE solicitudes
		SET datos = $2, fecha_actualizacion = now()
		WHERE id = $1
	`, id, carga)
	if err != nil {
		return fmt.Errorf("actualizar carga de solicitud %d: %w", id, err)
	}
	if etiqueta.RowsAffected() == 0 {
		return fmt.Errorf("solicitud %d: %w", id, solicitud.ErrNoEncontrada)
	}
	return nil
}

func (r *SolicitudesRepo) AsignarEmpleado(ctx context.Context, id, idEmpleado int64) error {
	etiqueta, err := r.pool.Exec(ctx, `
		UPDATE solicitudes
		SET id_empleado = $2, fecha_actualizacion = now()
		WHERE id = $1
	`, id, idEmpleado)
	if err != nil {
		return fmt.Errorf("asignar empleado a solicitud %d: %w", id, err)
	}
	if etiqueta.RowsAffected() == 0 {
		return fmt.Errorf("solicitud %d: %w", id, solicitud.ErrNoEncontrada)
	}
	return nil
}

// Transicionar cambia el estado y registra la entrada de seguimiento en una
// sola transacción: o quedan ambas escrituras o ninguna.
func (r *SolicitudesRepo) Transicionar(ctx context.Context, id int64, estado string, entrada seguimiento.Entrada) (seguimiento.Entrada, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return seguimiento.Entrada{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var cierre any
	var motivo string
	if solicitud.EsTerminal(estado) {
		cierre = entrada.FechaCreacion
	}
	if estado == solicitud.EstadoAnulada {
		motivo = entrada.Descripcion
	}

	etiqueta, err := tx.Exec(ctx, `
		UPDATE solicitudes
		SET estado = $2,
		    motivo_anulacion = CASE WHEN $3 <> '' THEN $3 ELSE motivo_anulacion END,
		    fecha_cierre = COALESCE($4, fecha_cierre),
		    fecha_actualizacion = now()
		WHERE id = $1
	`, id, estado, motivo, cierre)
	if err != nil {
		return seguimiento.Entrada{}, fmt.Errorf("transicionar solicitud %d: %w", id, err)
	}
	if etiqueta.RowsAffected() == 0 {
		return seguimiento.Entrada{}, fmt.Errorf("solicitud %d: %w", id, solicitud.ErrNoEncontrada)
	}

	entrada.IDSolicitud = id
	err = tx.QueryRow(ctx, `
		INSERT INTO seguimientos (
			id_solicitud, titulo, descripcion, observaciones, adjuntos,
			nuevo_proceso, id_autor, fecha_creacion
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`,
		entrada.IDSolicitud, entrada.Titulo, entrada.Descripcion, entrada.Observaciones,
		entrada.Adjuntos, entrada.NuevoProceso, entrada.IDAutor, entrada.FechaCreacion,
	).Scan(&entrada.ID)
	if err != nil {
		return seguimiento.Entrada{}, fmt.Errorf("registrar seguimiento de transición: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return seguimiento.Entrada{}, fmt.Errorf("commit: %w", err)
	}
	r.log.Debug("solicitud transicionada", "id", id, "estado", estado)
	return entrada, nil
}

func escanearSolicitud(row pgx.Row) (*solicitud.Solicitud, error) {
	var s solicitud.Solicitud
	err := row.Scan(
		&s.ID, &s.ServicioID, &s.Servicio, &s.TipoSolicitante, &s.TipoPersona, &s.IDCliente,
		&s.Carga, &s.Estado, &s.IDEmpleado, &s.FechaCreacion, &s.Monto, &s.RequierePago,
		&s.CreadaPorRol, &s.MotivoAnulacion, &s.FechaCierre, &s.FechaActualizada,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
