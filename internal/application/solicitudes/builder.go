package solicitudes

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"3tcapital/ms_gestion_solicitudes/internal/core/formulario"
	"3tcapital/ms_gestion_solicitudes/internal/core/solicitud"
)

var (
	// ErrClienteRequerido: el personal debe escoger explícitamente el cliente
	// titular; su ausencia es un error duro, no una advertencia.
	ErrClienteRequerido   = errors.New("debe seleccionar el cliente titular de la solicitud")
	ErrServicioSinEsquema = errors.New("no hay esquema de formulario para el servicio")
)

// Constructor arma la carga canónica de una solicitud a partir de la entrada
// cruda del formulario y el rol del creador.
type Constructor struct {
	registro *formulario.Registro
}

func NewConstructor(registro *formulario.Registro) *Constructor {
	return &Constructor{registro: registro}
}

// Canonica es la carga lista para el orquestador: campos en su forma
// canónica (alias aplicados, archivos embebidos) y el cliente resuelto.
type Canonica struct {
	Campos    map[string]any
	IDCliente int64
}

// Construir valida la entrada contra el esquema del servicio y produce la
// carga canónica. Las reglas de cliente dependen del rol:
//   - personal: la entrada debe traer un id_cliente numérico explícito;
//   - cliente: el id se toma de la credencial y cualquier id enviado en la
//     entrada se descarta.
func (c *Constructor) Construir(servicioNombre string, entrada map[string]any, ctx formulario.Contexto, actor solicitud.Actor) (*Canonica, error) {
	esquema, ok := c.registro.Por(servicioNombre)
	if !ok {
		return nil, fmt.Errorf("servicio %q: %w", servicioNombre, ErrServicioSinEsquema)
	}

	if errores := esquema.Validar(entrada, ctx); len(errores) > 0 {
		return nil, errores
	}

	idCliente, err := resolverCliente(entrada, actor)
	if err != nil {
		return nil, err
	}

	campos := make(map[string]any, len(entrada))
	for nombre, valor := range entrada {
		if nombre == "id_cliente" {
			// Resuelto aparte; nunca viaja dentro de la carga.
			continue
		}
		if archivo, esArchivo := valor.(formulario.Archivo); esArchivo {
			inline, err := archivo.CodificarInline()
			if err != nil {
				// Una conversión fallida aborta la construcción completa:
				// no hay envíos parciales.
				return nil, fmt.Errorf("campo %q: %w", nombre, err)
			}
			campos[nombre] = inline
			continue
		}
		campos[nombre] = valor
	}

	aplicarAlias(campos)

	return &Canonica{Campos: campos, IDCliente: idCliente}, nil
}

// JSON serializa los campos canónicos para persistencia.
func (k *Canonica) JSON() (json.RawMessage, error) {
	datos, err := json.Marshal(k.Campos)
	if err != nil {
		return nil, fmt.Errorf("serializar carga canónica: %w", err)
	}
	return datos, nil
}

func resolverCliente(entrada map[string]any, actor solicitud.Actor) (int64, error) {
	if !actor.Rol.Capacidades().SeleccionaCliente {
		return actor.ID, nil
	}

	crudo, presente := entrada["id_cliente"]
	if !presente {
		return 0, ErrClienteRequerido
	}
	id, err := comoID(crudo)
	if err != nil || id <= 0 {
		return 0, ErrClienteRequerido
	}
	return id, nil
}

func comoID(valor any) (int64, error) {
	switch v := valor.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case float64:
		return int64(v), nil
	case string:
		return strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	default:
		return 0, fmt.Errorf("id de cliente no numérico: %T", valor)
	}
}

// aplicarAlias renombra campos hacia la forma canónica que espera el
// orquestador. El renombre ocurre aquí una sola vez.
func aplicarAlias(campos map[string]any) {
	nombres, hayNombres := campos["nombres"].(string)
	apellidos, hayApellidos := campos["apellidos"].(string)
	if hayNombres && hayApellidos {
		campos["nombres_apellidos"] = strings.TrimSpace(nombres + " " + apellidos)
		delete(campos, "nombres")
		delete(campos, "apellidos")
	}
}
