package seguimiento

import "context"

// Repository persiste el historial de seguimiento. El anexado es todo-o-nada:
// una entrada inválida o huérfana no deja rastro parcial.
type Repository interface {
	// Crear anexa una entrada y la devuelve con id y fecha asignados.
	Crear(ctx context.Context, e Entrada) (Entrada, error)
	// Historial devuelve las entradas de una solicitud en orden cronológico.
	Historial(ctx context.Context, idSolicitud int64) ([]Entrada, error)
	// Eliminar borra una entrada por id. Es la corrección privilegiada, fuera
	// del flujo normal; devuelve ErrNoEncontrada si no existe.
	Eliminar(ctx context.Context, id int64) error
}
