package solicitudes

import (
	"errors"
	"fmt"
	"sync"
)

// ErrOperacionEnCurso se devuelve cuando llega una mutación duplicada
// mientras la primera sigue en vuelo.
var ErrOperacionEnCurso = errors.New("ya hay una operación en curso para esta solicitud")

// GuardiaEnCurso rechaza mutaciones duplicadas sobre la misma solicitud.
// El reenvío de una creación con archivos es especialmente costoso, así que
// el duplicado se rechaza en lugar de encolarse.
type GuardiaEnCurso struct {
	mu      sync.Mutex
	enCurso map[string]struct{}
}

func NewGuardiaEnCurso() *GuardiaEnCurso {
	return &GuardiaEnCurso{enCurso: make(map[string]struct{})}
}

// Adquirir toma la guardia para la clave dada. Devuelve la función de
// liberación, o ErrOperacionEnCurso si la clave ya está tomada.
func (g *GuardiaEnCurso) Adquirir(clave string) (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ocupada := g.enCurso[clave]; ocupada {
		return nil, fmt.Errorf("clave %q: %w", clave, ErrOperacionEnCurso)
	}
	g.enCurso[clave] = struct{}{}

	return func() {
		g.mu.Lock()
		delete(g.enCurso, clave)
		g.mu.Unlock()
	}, nil
}
