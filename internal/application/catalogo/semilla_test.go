package catalogo

import (
	"encoding/json"
	"testing"

	"3tcapital/ms_gestion_solicitudes/internal/core/formulario"
)

func TestSemilla(t *testing.T) {
	servicios := Semilla()

	if len(servicios) != 7 {
		t.Fatalf("expected 7 servicios, got %d", len(servicios))
	}

	registro := formulario.NewRegistro()
	for _, s := range servicios {
		if err := s.Validar(); err != nil {
			t.Errorf("servicio %q inválido: %v", s.Nombre, err)
		}

		// Cada servicio del portafolio tiene su esquema de formulario.
		if _, ok := registro.Por(s.Nombre); !ok {
			t.Errorf("servicio %q sin esquema de formulario", s.Nombre)
		}

		if s.Precio <= 0 {
			t.Errorf("servicio %q sin precio", s.Nombre)
		}
		if !s.RequierePago {
			t.Errorf("servicio %q debería requerir pago", s.Nombre)
		}

		for i, e := range s.EstadosProceso {
			if e.Orden != i+1 {
				t.Errorf("servicio %q, estado %q: expected orden %d, got %d", s.Nombre, e.Nombre, i+1, e.Orden)
			}
			if e.Clave == "" {
				t.Errorf("servicio %q, estado %q: sin clave", s.Nombre, e.Nombre)
			}
		}

		if len(s.DatosLanding) > 0 && !json.Valid(s.DatosLanding) {
			t.Errorf("servicio %q: landing data no es JSON válido", s.Nombre)
		}
	}
}
