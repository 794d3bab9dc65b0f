package testutil

import (
	"context"
	"sync"

	"3tcapital/ms_gestion_solicitudes/internal/core/pago"
)

// MockProcesador is a configurable pago.Procesador for tests.
type MockProcesador struct {
	mu sync.Mutex

	// Resultado and Err are returned by every Procesar call.
	Resultado pago.Resultado
	Err       error

	// Procesados records every payment attempt received.
	Procesados []pago.Pago
}

func (m *MockProcesador) Procesar(_ context.Context, p pago.Pago) (pago.Resultado, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Procesados = append(m.Procesados, p)
	if m.Err != nil {
		return pago.Resultado{}, m.Err
	}
	return m.Resultado, nil
}

// Llamadas returns how many payment attempts were processed.
func (m *MockProcesador) Llamadas() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Procesados)
}
