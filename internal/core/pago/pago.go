package pago

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrMontoInvalido  = errors.New("monto de pago inválido")
	ErrMetodoInvalido = errors.New("método de pago inválido")
)

// Métodos de pago aceptados por la pasarela.
const (
	MetodoTarjeta       = "Tarjeta"
	MetodoPSE           = "PSE"
	MetodoTransferencia = "Transferencia"
)

// Pago es un intento de pago de una solicitud. Solo se crea mientras la
// solicitud está en "Pendiente de Pago".
type Pago struct {
	IDOrden     string    `json:"id_orden"`
	IDSolicitud int64     `json:"id_orden_servicio"`
	Monto       float64   `json:"monto"`
	Metodo      string    `json:"metodo_pago"`
	Fecha       time.Time `json:"fecha"`
}

// Resultado es la respuesta del procesador. Activada falsa con error nulo es
// una anomalía reportable (pago aceptado sin activación), no un éxito
// silencioso.
type Resultado struct {
	Activada   bool   `json:"solicitud_activada"`
	Referencia string `json:"referencia,omitempty"`
}

// Procesador procesa pagos contra una pasarela. Las implementaciones deben
// imponer timeout y cancelación vía contexto en toda llamada de red.
type Procesador interface {
	Procesar(ctx context.Context, p Pago) (Resultado, error)
}

// Repository registra los intentos de pago realizados.
type Repository interface {
	Registrar(ctx context.Context, p Pago) error
	PorSolicitud(ctx context.Context, idSolicitud int64) ([]Pago, error)
}

// Validar aplica las reglas mínimas de un intento de pago.
func (p *Pago) Validar() error {
	if p.Monto <= 0 {
		return ErrMontoInvalido
	}
	switch strings.TrimSpace(p.Metodo) {
	case MetodoTarjeta, MetodoPSE, MetodoTransferencia:
		return nil
	default:
		return ErrMetodoInvalido
	}
}
