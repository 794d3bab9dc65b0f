package solicitudes

import (
	"errors"
	"sync"
	"testing"
)

func TestGuardiaEnCurso_Adquirir(t *testing.T) {
	g := NewGuardiaEnCurso()

	liberar, err := g.Adquirir("solicitud:1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Un duplicado mientras la primera sigue en vuelo se rechaza.
	if _, err := g.Adquirir("solicitud:1"); !errors.Is(err, ErrOperacionEnCurso) {
		t.Errorf("expected ErrOperacionEnCurso, got %v", err)
	}

	// Otra clave no se ve afectada.
	liberarOtra, err := g.Adquirir("solicitud:2")
	if err != nil {
		t.Errorf("unexpected error for distinct clave: %v", err)
	}
	liberarOtra()

	// Tras liberar, la clave se puede volver a tomar.
	liberar()
	liberar2, err := g.Adquirir("solicitud:1")
	if err != nil {
		t.Errorf("expected clave reusable after release, got %v", err)
	}
	liberar2()
}

func TestGuardiaEnCurso_Concurrente(t *testing.T) {
	g := NewGuardiaEnCurso()

	const intentos = 50
	var wg sync.WaitGroup
	var mu sync.Mutex
	adquiridos := 0

	for i := 0; i < intentos; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			liberar, err := g.Adquirir("solicitud:1")
			if err != nil {
				return
			}
			mu.Lock()
			adquiridos++
			mu.Unlock()
			liberar()
		}()
	}
	wg.Wait()

	if adquiridos == 0 {
		t.Error("expected at least one successful acquisition")
	}
}
