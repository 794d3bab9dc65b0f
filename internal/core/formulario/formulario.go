package formulario

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// TipoSolicitante distingue quién presenta la solicitud.
type TipoSolicitante string

const (
	SolicitanteTitular       TipoSolicitante = "Titular"
	SolicitanteRepresentante TipoSolicitante = "Representante Autorizado"
)

// TipoPersona distingue la naturaleza jurídica del solicitante.
type TipoPersona string

const (
	PersonaNatural  TipoPersona = "Natural"
	PersonaJuridica TipoPersona = "Jurídica"
)

// Contexto son los ejes que condicionan la validación: las reglas de un
// campo pueden depender del tipo de solicitante y del tipo de persona.
type Contexto struct {
	Solicitante TipoSolicitante
	Persona     TipoPersona
}

// Condicion evalúa si una regla aplica bajo un contexto dado.
type Condicion func(Contexto) bool

// SiNatural aplica cuando el solicitante es persona natural.
func SiNatural(c Contexto) bool { return c.Persona == PersonaNatural }

// SiJuridica aplica cuando el solicitante es persona jurídica.
func SiJuridica(c Contexto) bool { return c.Persona == PersonaJuridica }

// SiRepresentante aplica cuando presenta un representante autorizado.
func SiRepresentante(c Contexto) bool { return c.Solicitante == SolicitanteRepresentante }

// Rango acota un campo numérico.
type Rango struct {
	Min, Max float64
}

// Campo es la regla de validación de un único campo del formulario.
type Campo struct {
	Nombre        string
	Requerido     bool
	RequeridoSi   Condicion
	Patron        *regexp.Regexp
	MensajePatron string
	LargoMin      int
	LargoMax      int
	Rango         *Rango
	Archivo       *ReglasArchivo
}

// ErroresValidacion es el resultado campo→mensaje de una validación.
// Nunca se colapsa en una alerta genérica: cada mensaje pertenece a su campo.
type ErroresValidacion map[string]string

func (e ErroresValidacion) Error() string {
	if len(e) == 0 {
		return "sin errores de validación"
	}
	campos := make([]string, 0, len(e))
	for campo := range e {
		campos = append(campos, campo)
	}
	sort.Strings(campos)
	return fmt.Sprintf("validación fallida en campos: %s", strings.Join(campos, ", "))
}

// Esquema es el conjunto de reglas de un servicio concreto. Cada servicio
// tiene su propio esquema: agregar un servicio es aditivo y no toca la
// validación de los demás.
type Esquema struct {
	Servicio string
	Campos   []Campo
}

// Validar aplica el esquema a la entrada cruda bajo el contexto dado y
// devuelve los errores por campo. Un mapa vacío significa entrada válida.
func (e *Esquema) Validar(entrada map[string]any, ctx Contexto) ErroresValidacion {
	errores := make(ErroresValidacion)
	for _, campo := range e.Campos {
		if msg := campo.validar(entrada, ctx); msg != "" {
			errores[campo.Nombre] = msg
		}
	}
	return errores
}

func (c *Campo) aplica(ctx Contexto) bool {
	if c.Requerido {
		return true
	}
	if c.RequeridoSi != nil {
		return c.RequeridoSi(ctx)
	}
	return false
}

func (c *Campo) validar(entrada map[string]any, ctx Contexto) string {
	valor, presente := entrada[c.Nombre]
	requerido := c.aplica(ctx)

	if c.Archivo != nil {
		return c.validarArchivo(valor, presente, requerido)
	}

	texto, hayTexto := comoTexto(valor)
	if !presente || !hayTexto || strings.TrimSpace(texto) == "" {
		if requerido {
			return "campo requerido"
		}
		return ""
	}

	if c.LargoMin > 0 && utf8.RuneCountInString(texto) < c.LargoMin {
		return fmt.Sprintf("debe tener al menos %d caracteres", c.LargoMin)
	}
	if c.LargoMax > 0 && utf8.RuneCountInString(texto) > c.LargoMax {
		return fmt.Sprintf("no puede superar %d caracteres", c.LargoMax)
	}
	if c.Patron != nil && !c.Patron.MatchString(texto) {
		if c.MensajePatron != "" {
			return c.MensajePatron
		}
		return "formato inválido"
	}
	if c.Rango != nil {
		n, err := comoNumero(valor)
		if err != nil {
			return "debe ser un valor numérico"
		}
		if n < c.Rango.Min || n > c.Rango.Max {
			return fmt.Sprintf("debe estar entre %g y %g", c.Rango.Min, c.Rango.Max)
		}
	}
	return ""
}

func (c *Campo) validarArchivo(valor any, presente, requerido bool) string {
	if !presente {
		if requerido || c.Archivo.Requerido {
			return "archivo requerido"
		}
		return ""
	}
	archivo, ok := valor.(Archivo)
	if !ok {
		return "se esperaba un archivo"
	}
	return c.Archivo.validar(archivo)
}

func comoTexto(valor any) (string, bool) {
	switch v := valor.(type) {
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	default:
		return "", false
	}
}

func comoNumero(valor any) (float64, error) {
	switch v := valor.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(v), 64)
	default:
		return 0, fmt.Errorf("valor no numérico: %T", valor)
	}
}
