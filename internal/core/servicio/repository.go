package servicio

import (
	"context"
	"errors"
)

// Errores del dominio de servicios.
var (
	ErrNoEncontrado    = errors.New("servicio no encontrado")
	ErrNombreRequerido = errors.New("nombre de servicio requerido")
	ErrSinEstados      = errors.New("el servicio debe tener al menos un estado de proceso")
	ErrEstadoSinNombre = errors.New("estado de proceso sin nombre")
	ErrEstadoDuplicado = errors.New("nombre de estado duplicado dentro del servicio")
)

// Repository define el acceso al catálogo de servicios. Los consumidores no
// deben cachear la secuencia de estados indefinidamente: la lista puede
// cambiar en cualquier momento y la lectura siempre devuelve la versión
// vigente.
type Repository interface {
	// Listar devuelve todos los servicios con sus estados ordenados.
	Listar(ctx context.Context) ([]Servicio, error)
	// Obtener busca un servicio por nombre. Devuelve ErrNoEncontrado si no existe.
	Obtener(ctx context.Context, nombre string) (*Servicio, error)
	// ObtenerPorID busca un servicio por id. Devuelve ErrNoEncontrado si no existe.
	ObtenerPorID(ctx context.Context, id int64) (*Servicio, error)
	// Actualizar reemplaza el documento completo del servicio, incluida la
	// secuencia de estados. El llamador reenvía los campos que no cambia.
	Actualizar(ctx context.Context, s Servicio) error
}
