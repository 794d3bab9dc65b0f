package servicio

import (
	"errors"
	"testing"
)

func TestClave(t *testing.T) {
	tests := []struct {
		nombre   string
		expected string
	}{
		{"Solicitud Recibida", "solicitud-recibida"},
		{"En Revisión", "en-revision"},
		{"Búsqueda de Antecedentes", "busqueda-de-antecedentes"},
		{"  Radicación ante la SIC  ", "radicacion-ante-la-sic"},
		{"Año 2", "ano-2"},
		{"Notificación/Respuesta", "notificacion-respuesta"},
		{"Única", "unica"},
		{"", ""},
		{"---", ""},
	}

	for _, tt := range tests {
		t.Run(tt.nombre, func(t *testing.T) {
			if got := Clave(tt.nombre); got != tt.expected {
				t.Errorf("Clave(%q) = %q, expected %q", tt.nombre, got, tt.expected)
			}
		})
	}
}

func TestReordenar(t *testing.T) {
	estados := []EstadoProceso{
		{ID: 10, Nombre: "En Revisión", Orden: 7, Clave: "stale"},
		{ID: 11, Nombre: "Radicada", Orden: 2},
		{ID: 12, Nombre: "Finalizada", Orden: 2},
	}

	resultado := Reordenar(estados)

	for i, e := range resultado {
		if e.Orden != i+1 {
			t.Errorf("estado %d: expected orden %d, got %d", i, i+1, e.Orden)
		}
	}

	if resultado[0].Clave != "en-revision" {
		t.Errorf("expected clave recalculated to 'en-revision', got %q", resultado[0].Clave)
	}

	// El slice original no se toca.
	if estados[0].Orden != 7 {
		t.Errorf("expected original slice untouched, got orden %d", estados[0].Orden)
	}
}

func TestServicio_Validar(t *testing.T) {
	tests := []struct {
		name        string
		servicio    Servicio
		expectedErr error
	}{
		{
			name: "servicio valido",
			servicio: Servicio{
				Nombre: "Registro de Marca",
				EstadosProceso: []EstadoProceso{
					{Nombre: "Recibida", Orden: 1},
					{Nombre: "En Proceso", Orden: 2},
				},
			},
		},
		{
			name:        "nombre requerido",
			servicio:    Servicio{Nombre: "   ", EstadosProceso: []EstadoProceso{{Nombre: "Recibida"}}},
			expectedErr: ErrNombreRequerido,
		},
		{
			name:        "sin estados",
			servicio:    Servicio{Nombre: "Registro de Marca"},
			expectedErr: ErrSinEstados,
		},
		{
			name: "estado sin nombre",
			servicio: Servicio{
				Nombre:         "Registro de Marca",
				EstadosProceso: []EstadoProceso{{Nombre: "Recibida"}, {Nombre: "  "}},
			},
			expectedErr: ErrEstadoSinNombre,
		},
		{
			name: "estado duplicado ignora mayusculas",
			servicio: Servicio{
				Nombre:         "Registro de Marca",
				EstadosProceso: []EstadoProceso{{Nombre: "Recibida"}, {Nombre: "RECIBIDA"}},
			},
			expectedErr: ErrEstadoDuplicado,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.servicio.Validar()

			if tt.expectedErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}

			if !errors.Is(err, tt.expectedErr) {
				t.Errorf("expected error %v, got %v", tt.expectedErr, err)
			}
		})
	}
}

func TestServicio_PrimerEstado(t *testing.T) {
	s := Servicio{
		Nombre: "Registro de Marca",
		EstadosProceso: []EstadoProceso{
			{Nombre: "Recibida", Orden: 1},
			{Nombre: "Finalizada", Orden: 2},
		},
	}

	primero, err := s.PrimerEstado()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if primero != "Recibida" {
		t.Errorf("expected 'Recibida', got %q", primero)
	}

	vacio := Servicio{Nombre: "Sin Estados"}
	if _, err := vacio.PrimerEstado(); !errors.Is(err, ErrSinEstados) {
		t.Errorf("expected ErrSinEstados, got %v", err)
	}
}

func TestServicio_TieneEstado(t *testing.T) {
	s := Servicio{
		Nombre: "Registro de Marca",
		EstadosProceso: []EstadoProceso{
			{Nombre: "En Revisión"},
			{Nombre: "Finalizada"},
		},
	}

	tests := []struct {
		nombre   string
		expected bool
	}{
		{"En Revisión", true},
		{"en revisión", true},
		{"  Finalizada  ", true},
		{"Anulada", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := s.TieneEstado(tt.nombre); got != tt.expected {
			t.Errorf("TieneEstado(%q) = %v, expected %v", tt.nombre, got, tt.expected)
		}
	}
}
