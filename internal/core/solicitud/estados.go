package solicitud

import "strings"

// Etiquetas de estado fijas, ajenas al catálogo de estados de proceso.
const (
	// EstadoPendientePago es el estado sintético de una solicitud de cliente
	// que espera confirmación de pago. Solo se sale de él por una activación
	// de pago exitosa.
	EstadoPendientePago = "Pendiente de Pago"

	EstadoFinalizada = "Finalizada"
	EstadoAnulada    = "Anulada"
	EstadoRechazada  = "Rechazada"
)

// El backend histórico emite ambos géneros gramaticales para los estados
// terminales ("Finalizada" y "Finalizado"). Se normaliza defensivamente en
// lectura hacia la forma femenina canónica y siempre se escribe la forma
// canónica; las variantes masculinas se aceptan como alias, no se "corrigen"
// aguas arriba.
var aliasTerminales = map[string]string{
	"finalizada": EstadoFinalizada,
	"finalizado": EstadoFinalizada,
	"anulada":    EstadoAnulada,
	"anulado":    EstadoAnulada,
	"rechazada":  EstadoRechazada,
	"rechazado":  EstadoRechazada,
}

// NormalizarEstado devuelve la forma canónica de un nombre de estado: las
// variantes de los terminales colapsan a la etiqueta canónica y cualquier
// otro nombre se devuelve recortado tal cual (los estados de proceso son
// hitos opacos definidos por el catálogo).
func NormalizarEstado(nombre string) string {
	recortado := strings.TrimSpace(nombre)
	if canonico, ok := aliasTerminales[strings.ToLower(recortado)]; ok {
		return canonico
	}
	return recortado
}

// EsTerminal indica si el estado (en cualquiera de sus variantes) es una de
// las etiquetas terminales. Un estado terminal no admite transiciones de
// salida ni ediciones.
func EsTerminal(estado string) bool {
	_, ok := aliasTerminales[strings.ToLower(strings.TrimSpace(estado))]
	return ok
}

// EstadosTerminales devuelve las etiquetas terminales canónicas.
func EstadosTerminales() []string {
	return []string{EstadoFinalizada, EstadoAnulada, EstadoRechazada}
}
