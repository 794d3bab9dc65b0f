package seguimiento

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// TituloMax es la longitud máxima del título de una entrada. Se valida antes
// de intentar cualquier persistencia para no desperdiciar el viaje.
const TituloMax = 200

var (
	ErrTituloRequerido      = errors.New("titulo requerido")
	ErrTituloMuyLargo       = fmt.Errorf("titulo supera los %d caracteres", TituloMax)
	ErrDescripcionRequerida = errors.New("descripcion requerida")
	ErrNoEncontrada         = errors.New("entrada de seguimiento no encontrada")
)

// Entrada es un registro de auditoría del historial de una solicitud.
// Es de solo-anexado: nunca se edita después de creada. La única corrección
// admitida es el borrado privilegiado por id, fuera del flujo normal.
type Entrada struct {
	ID            int64    `json:"id"`
	IDSolicitud   int64    `json:"id_orden_servicio"`
	Titulo        string   `json:"titulo"`
	Descripcion   string   `json:"descripcion"`
	Observaciones string   `json:"observaciones,omitempty"`
	Adjuntos      []string `json:"documentos_adjuntos,omitempty"`
	// NuevoProceso está presente solo cuando la entrada además ejecuta una
	// transición de estado; transición y entrada son una misma acción atómica.
	NuevoProceso  string    `json:"nuevo_proceso,omitempty"`
	IDAutor       int64     `json:"id_autor"`
	FechaCreacion time.Time `json:"fecha_creacion"`
}

// Validar aplica las reglas de la entrada: título presente y acotado,
// descripción obligatoria. El largo del título se mide en runas, no bytes.
func (e *Entrada) Validar() error {
	if strings.TrimSpace(e.Titulo) == "" {
		return ErrTituloRequerido
	}
	if utf8.RuneCountInString(e.Titulo) > TituloMax {
		return ErrTituloMuyLargo
	}
	if strings.TrimSpace(e.Descripcion) == "" {
		return ErrDescripcionRequerida
	}
	if e.IDSolicitud <= 0 {
		return errors.New("id de solicitud requerido")
	}
	return nil
}
