package solicitud

import "testing"

func TestNormalizarEstado(t *testing.T) {
	tests := []struct {
		entrada  string
		expected string
	}{
		{"Finalizada", EstadoFinalizada},
		{"Finalizado", EstadoFinalizada},
		{"finalizado", EstadoFinalizada},
		{"ANULADO", EstadoAnulada},
		{"  Rechazado  ", EstadoRechazada},
		{"Pendiente de Pago", EstadoPendientePago},
		{"  En Revisión  ", "En Revisión"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.entrada, func(t *testing.T) {
			if got := NormalizarEstado(tt.entrada); got != tt.expected {
				t.Errorf("NormalizarEstado(%q) = %q, expected %q", tt.entrada, got, tt.expected)
			}
		})
	}
}

func TestEsTerminal(t *testing.T) {
	tests := []struct {
		estado   string
		expected bool
	}{
		{"Finalizada", true},
		{"Finalizado", true},
		{"anulado", true},
		{"Rechazada", true},
		{"Pendiente de Pago", false},
		{"En Revisión", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := EsTerminal(tt.estado); got != tt.expected {
			t.Errorf("EsTerminal(%q) = %v, expected %v", tt.estado, got, tt.expected)
		}
	}
}

func TestSolicitud_Abierta(t *testing.T) {
	tests := []struct {
		estado   string
		expected bool
	}{
		{"En Revisión", true},
		{EstadoPendientePago, true},
		{"Finalizado", false},
		{EstadoAnulada, false},
	}

	for _, tt := range tests {
		s := Solicitud{Estado: tt.estado}
		if got := s.Abierta(); got != tt.expected {
			t.Errorf("Abierta() con estado %q = %v, expected %v", tt.estado, got, tt.expected)
		}
	}
}

func TestSolicitud_PendienteDePago(t *testing.T) {
	s := Solicitud{Estado: "  Pendiente de Pago  "}
	if !s.PendienteDePago() {
		t.Error("expected solicitud pendiente de pago")
	}

	s.Estado = "En Revisión"
	if s.PendienteDePago() {
		t.Error("expected solicitud not pendiente de pago")
	}
}

func TestParseRol(t *testing.T) {
	tests := []struct {
		entrada  string
		expected Rol
		ok       bool
	}{
		{"cliente", RolCliente, true},
		{"  Empleado  ", RolEmpleado, true},
		{"ADMINISTRADOR", RolAdministrador, true},
		{"auditor", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.entrada, func(t *testing.T) {
			rol, ok := ParseRol(tt.entrada)
			if ok != tt.ok {
				t.Fatalf("ParseRol(%q) ok = %v, expected %v", tt.entrada, ok, tt.ok)
			}
			if ok && rol != tt.expected {
				t.Errorf("ParseRol(%q) = %q, expected %q", tt.entrada, rol, tt.expected)
			}
		})
	}
}

func TestRol_Capacidades(t *testing.T) {
	if c := RolCliente.Capacidades(); !c.RequierePago || c.SeleccionaCliente || c.AutoActiva {
		t.Errorf("capacidades de cliente inesperadas: %+v", c)
	}

	for _, rol := range []Rol{RolEmpleado, RolAdministrador} {
		c := rol.Capacidades()
		if c.RequierePago || !c.SeleccionaCliente || !c.AutoActiva {
			t.Errorf("capacidades de %s inesperadas: %+v", rol, c)
		}
	}

	// Un rol desconocido recibe las capacidades menos privilegiadas.
	if c := Rol("auditor").Capacidades(); !c.RequierePago {
		t.Errorf("expected rol desconocido to fall back to cliente, got %+v", c)
	}
}

func TestRol_EsPersonal(t *testing.T) {
	tests := []struct {
		rol      Rol
		expected bool
	}{
		{RolCliente, false},
		{RolEmpleado, true},
		{RolAdministrador, true},
		{Rol("otro"), false},
	}

	for _, tt := range tests {
		if got := tt.rol.EsPersonal(); got != tt.expected {
			t.Errorf("EsPersonal(%s) = %v, expected %v", tt.rol, got, tt.expected)
		}
	}
}
