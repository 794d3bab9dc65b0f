package solicitud

import (
	"context"
	"encoding/json"
	"errors"

	"3tcapital/ms_gestion_solicitudes/internal/core/seguimiento"
)

var (
	ErrNoEncontrada = errors.New("solicitud no encontrada")
)

// Repository persiste solicitudes. Transicionar actualiza el estado y anexa
// la entrada de seguimiento en una sola operación: nunca queda una cosa sin
// la otra.
type Repository interface {
	// Crear persiste una solicitud nueva y devuelve su id.
	Crear(ctx context.Context, s Solicitud) (int64, error)
	// Obtener busca por id. Devuelve ErrNoEncontrada si no existe.
	Obtener(ctx context.Context, id int64) (*Solicitud, error)
	// Listar devuelve todas las solicitudes (vista del personal).
	Listar(ctx context.Context) ([]Solicitud, error)
	// ListarPorCliente devuelve las solicitudes de un cliente.
	ListarPorCliente(ctx context.Context, idCliente int64) ([]Solicitud, error)
	// ActualizarCarga reemplaza la carga de datos de la solicitud.
	ActualizarCarga(ctx context.Context, id int64, carga json.RawMessage) error
	// AsignarEmpleado fija el empleado asignado sin tocar el estado.
	AsignarEmpleado(ctx context.Context, id, idEmpleado int64) error
	// Transicionar mueve la solicitud a estado y anexa la entrada en la misma
	// transacción, devolviendo la entrada persistida.
	Transicionar(ctx context.Context, id int64, estado string, entrada seguimiento.Entrada) (seguimiento.Entrada, error)
}
