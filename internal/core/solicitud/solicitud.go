package solicitud

import (
	"encoding/json"
	"time"
)

// Solicitud es una instancia de solicitud de servicio rastreada a lo largo
// de su ciclo de vida. El estado es siempre un nombre presente en la
// secuencia de estados del servicio o una de las etiquetas fijas
// (EstadoPendientePago y los terminales).
type Solicitud struct {
	ID               int64           `json:"id"`
	Servicio         string          `json:"servicio"`
	ServicioID       int64           `json:"id_servicio"`
	TipoSolicitante  string          `json:"tipo_solicitante"`
	TipoPersona      string          `json:"tipo_persona,omitempty"`
	IDCliente        int64           `json:"id_cliente"`
	Carga            json.RawMessage `json:"datos"`
	Estado           string          `json:"estado"`
	IDEmpleado       *int64          `json:"id_empleado,omitempty"`
	FechaCreacion    time.Time       `json:"fecha_creacion"`
	Monto            *float64        `json:"monto,omitempty"`
	RequierePago     bool            `json:"requiere_pago"`
	CreadaPorRol     Rol             `json:"creada_por_rol"`
	MotivoAnulacion  string          `json:"motivo_anulacion,omitempty"`
	FechaCierre      *time.Time      `json:"fecha_cierre,omitempty"`
	FechaActualizada time.Time       `json:"fecha_actualizacion"`
}

// Abierta indica si la solicitud sigue en curso. Las particiones de listado
// son estrictas: una solicitud está abierta o cerrada, nunca ambas.
func (s *Solicitud) Abierta() bool {
	return !EsTerminal(s.Estado)
}

// PendienteDePago indica si la solicitud espera confirmación de pago.
func (s *Solicitud) PendienteDePago() bool {
	return NormalizarEstado(s.Estado) == EstadoPendientePago
}
