package formulario

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

var ErrEsquemaDuplicado = errors.New("ya existe un esquema para el servicio")

// Registro resuelve el esquema de validación de cada servicio por nombre.
// Es el punto único de despacho: los consumidores nunca conocen un esquema
// concreto, solo el nombre del servicio.
type Registro struct {
	mu       sync.RWMutex
	esquemas map[string]*Esquema
}

// NewRegistro crea un registro con los esquemas de los servicios del
// portafolio ya instalados.
func NewRegistro() *Registro {
	r := &Registro{esquemas: make(map[string]*Esquema)}
	for _, e := range esquemasBase() {
		// Los esquemas base se construyen sin colisiones; un pánico aquí es
		// un error de programación, no una condición de ejecución.
		if err := r.Registrar(e); err != nil {
			panic(fmt.Sprintf("esquema base duplicado: %v", err))
		}
	}
	return r
}

// Registrar instala el esquema de un servicio nuevo. Registrar un servicio
// ya presente es un error: los esquemas no se reemplazan en caliente.
func (r *Registro) Registrar(e *Esquema) error {
	llave := llaveServicio(e.Servicio)
	if llave == "" {
		return errors.New("esquema sin nombre de servicio")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.esquemas[llave]; ok {
		return fmt.Errorf("%w: %s", ErrEsquemaDuplicado, e.Servicio)
	}
	r.esquemas[llave] = e
	return nil
}

// Por devuelve el esquema del servicio, si existe.
func (r *Registro) Por(servicio string) (*Esquema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.esquemas[llaveServicio(servicio)]
	return e, ok
}

// Servicios devuelve los nombres de servicio con esquema instalado.
func (r *Registro) Servicios() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	nombres := make([]string, 0, len(r.esquemas))
	for _, e := range r.esquemas {
		nombres = append(nombres, e.Servicio)
	}
	return nombres
}

func llaveServicio(nombre string) string {
	return strings.ToLower(strings.TrimSpace(nombre))
}
