package servicio

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
)

// EstadoProceso es un hito dentro de la secuencia de progreso de un servicio.
// El orden es 1-based y denso: tras cualquier mutación del catálogo la
// secuencia queda como 1..N sin huecos ni duplicados.
type EstadoProceso struct {
	ID     int64  `json:"id"`
	Nombre string `json:"nombre"`
	Orden  int    `json:"orden"`
	Clave  string `json:"status_key"`
}

// Servicio describe un servicio del registro de marcas y su secuencia de
// estados de proceso. La lista de estados es editable por el personal y es
// la fuente autoritativa de las transiciones legales: los nombres se usan
// tal cual como destinos de transición.
type Servicio struct {
	ID             int64           `json:"id"`
	Nombre         string          `json:"nombre"`
	Visible        bool            `json:"visible_en_landing"`
	Precio         float64         `json:"precio"`
	RequierePago   bool            `json:"requiere_pago"`
	DatosLanding   json.RawMessage `json:"landing_data,omitempty"`
	EstadosProceso []EstadoProceso `json:"process_states"`
}

// Clave deriva el slug de un nombre de estado: minúsculas, sin tildes y con
// guiones en lugar de espacios ("En Revisión" -> "en-revision").
func Clave(nombre string) string {
	var b strings.Builder
	previoGuion := false
	for _, r := range strings.TrimSpace(nombre) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(sinTilde(r)))
			previoGuion = false
		default:
			if !previoGuion && b.Len() > 0 {
				b.WriteByte('-')
				previoGuion = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func sinTilde(r rune) rune {
	switch unicode.ToLower(r) {
	case 'á':
		r = ajustarCaso(r, 'a')
	case 'é':
		r = ajustarCaso(r, 'e')
	case 'í':
		r = ajustarCaso(r, 'i')
	case 'ó':
		r = ajustarCaso(r, 'o')
	case 'ú', 'ü':
		r = ajustarCaso(r, 'u')
	case 'ñ':
		r = ajustarCaso(r, 'n')
	}
	return r
}

func ajustarCaso(original, base rune) rune {
	if unicode.IsUpper(original) {
		return unicode.ToUpper(base)
	}
	return base
}

// Reordenar recompone la secuencia de estados como 1..N densa, respetando el
// orden del slice recibido, y recalcula las claves.
func Reordenar(estados []EstadoProceso) []EstadoProceso {
	resultado := make([]EstadoProceso, len(estados))
	copy(resultado, estados)
	for i := range resultado {
		resultado[i].Orden = i + 1
		resultado[i].Clave = Clave(resultado[i].Nombre)
	}
	return resultado
}

// Validar verifica los invariantes estructurales del servicio: nombre
// presente, al menos un estado de proceso y nombres de estado únicos.
func (s *Servicio) Validar() error {
	if strings.TrimSpace(s.Nombre) == "" {
		return fmt.Errorf("servicio: %w", ErrNombreRequerido)
	}
	if len(s.EstadosProceso) == 0 {
		return fmt.Errorf("servicio %q: %w", s.Nombre, ErrSinEstados)
	}
	vistos := make(map[string]struct{}, len(s.EstadosProceso))
	for _, e := range s.EstadosProceso {
		nombre := strings.TrimSpace(e.Nombre)
		if nombre == "" {
			return fmt.Errorf("servicio %q: %w", s.Nombre, ErrEstadoSinNombre)
		}
		llave := strings.ToLower(nombre)
		if _, ok := vistos[llave]; ok {
			return fmt.Errorf("servicio %q, estado %q: %w", s.Nombre, nombre, ErrEstadoDuplicado)
		}
		vistos[llave] = struct{}{}
	}
	return nil
}

// PrimerEstado devuelve el nombre del primer estado de la secuencia.
func (s *Servicio) PrimerEstado() (string, error) {
	if len(s.EstadosProceso) == 0 {
		return "", fmt.Errorf("servicio %q: %w", s.Nombre, ErrSinEstados)
	}
	return s.EstadosProceso[0].Nombre, nil
}

// TieneEstado indica si nombre pertenece a la secuencia actual del servicio.
// La comparación ignora mayúsculas porque los nombres llegan de entrada libre.
func (s *Servicio) TieneEstado(nombre string) bool {
	objetivo := strings.ToLower(strings.TrimSpace(nombre))
	for _, e := range s.EstadosProceso {
		if strings.ToLower(e.Nombre) == objetivo {
			return true
		}
	}
	return false
}
