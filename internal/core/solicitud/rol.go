package solicitud

import "strings"

// Rol es el rol del actor que opera sobre una solicitud.
type Rol string

const (
	RolCliente       Rol = "cliente"
	RolEmpleado      Rol = "empleado"
	RolAdministrador Rol = "administrador"
)

// Capacidades concentra las reglas dependientes del rol en un solo lugar.
// Los flujos consultan esta tabla una vez en lugar de re-derivar el rol en
// cada punto de decisión.
type Capacidades struct {
	// SeleccionaCliente: el actor escoge explícitamente el cliente titular de
	// la solicitud. Cuando es falso, el cliente se infiere de la credencial.
	SeleccionaCliente bool
	// RequierePago: la activación de la solicitud queda condicionada al pago
	// cuando el servicio lo declara.
	RequierePago bool
	// AutoActiva: la solicitud nace directamente en el primer estado del
	// proceso del servicio.
	AutoActiva bool
}

var capacidadesPorRol = map[Rol]Capacidades{
	RolCliente:       {SeleccionaCliente: false, RequierePago: true, AutoActiva: false},
	RolEmpleado:      {SeleccionaCliente: true, RequierePago: false, AutoActiva: true},
	RolAdministrador: {SeleccionaCliente: true, RequierePago: false, AutoActiva: true},
}

// ParseRol normaliza un rol proveniente de una credencial.
func ParseRol(valor string) (Rol, bool) {
	rol := Rol(strings.ToLower(strings.TrimSpace(valor)))
	_, ok := capacidadesPorRol[rol]
	return rol, ok
}

// Capacidades devuelve la tabla de capacidades del rol. Un rol desconocido
// recibe las capacidades del cliente, el rol menos privilegiado.
func (r Rol) Capacidades() Capacidades {
	if c, ok := capacidadesPorRol[r]; ok {
		return c
	}
	return capacidadesPorRol[RolCliente]
}

// EsPersonal indica si el rol pertenece al personal interno.
func (r Rol) EsPersonal() bool {
	return r == RolEmpleado || r == RolAdministrador
}

// Actor identifica al usuario autenticado que ejecuta una operación.
type Actor struct {
	ID  int64
	Rol Rol
}
