package catalogo

import (
	"encoding/json"

	"3tcapital/ms_gestion_solicitudes/internal/core/formulario"
	"3tcapital/ms_gestion_solicitudes/internal/core/servicio"
)

// Semilla es el portafolio inicial de servicios. Se instala en el arranque
// sin base de datos; en Postgres la siembra vive en las migraciones. Los
// administradores pueden cambiar precios, visibilidad y estados después.
func Semilla() []servicio.Servicio {
	return []servicio.Servicio{
		{
			Nombre:         formulario.ServicioBusqueda,
			Visible:        true,
			Precio:         90000,
			RequierePago:   true,
			DatosLanding:   landing("Verifique si una marca ya está registrada antes de solicitarla."),
			EstadosProceso: estados("Radicada", "En Búsqueda", "Informe Emitido"),
		},
		{
			Nombre:         formulario.ServicioCertificacion,
			Visible:        true,
			Precio:         950000,
			RequierePago:   true,
			DatosLanding:   landing("Registre su marca ante la autoridad competente."),
			EstadosProceso: estados("Radicada", "Estudio de Forma", "Publicación en Gaceta", "Estudio de Fondo", "Resolución Emitida"),
		},
		{
			Nombre:         formulario.ServicioRenovacion,
			Visible:        true,
			Precio:         520000,
			RequierePago:   true,
			DatosLanding:   landing("Renueve el registro de su marca por diez años más."),
			EstadosProceso: estados("Radicada", "En Verificación", "Resolución Emitida"),
		},
		{
			Nombre:         formulario.ServicioCesion,
			Visible:        true,
			Precio:         480000,
			RequierePago:   true,
			DatosLanding:   landing("Transfiera la titularidad de una marca registrada."),
			EstadosProceso: estados("Radicada", "Estudio del Documento de Cesión", "Inscripción Realizada"),
		},
		{
			Nombre:         formulario.ServicioOposicion,
			Visible:        true,
			Precio:         740000,
			RequierePago:   true,
			DatosLanding:   landing("Oponerse al registro de una marca en trámite."),
			EstadosProceso: estados("Radicada", "En Sustanciación", "Decisión Emitida"),
		},
		{
			Nombre:         formulario.ServicioRespuesta,
			Visible:        true,
			Precio:         690000,
			RequierePago:   true,
			DatosLanding:   landing("Responda una oposición presentada contra su solicitud."),
			EstadosProceso: estados("Radicada", "En Sustanciación", "Decisión Emitida"),
		},
		{
			Nombre:         formulario.ServicioAmpliacion,
			Visible:        true,
			Precio:         600000,
			RequierePago:   true,
			DatosLanding:   landing("Amplíe las clases de Niza cubiertas por su registro."),
			EstadosProceso: estados("Radicada", "Estudio de Forma", "Estudio de Fondo", "Resolución Emitida"),
		},
	}
}

func estados(nombres ...string) []servicio.EstadoProceso {
	lista := make([]servicio.EstadoProceso, 0, len(nombres))
	for i, nombre := range nombres {
		lista = append(lista, servicio.EstadoProceso{
			Nombre: nombre,
			Orden:  i + 1,
			Clave:  servicio.Clave(nombre),
		})
	}
	return lista
}

func landing(descripcion string) json.RawMessage {
	datos, _ := json.Marshal(map[string]string{"descripcion": descripcion})
	return datos
}
