package formulario

import "regexp"

// Nombres de los servicios del portafolio. Se usan como llave del registro
// de esquemas y como nombre de servicio en el catálogo.
const (
	ServicioBusqueda      = "Búsqueda de Antecedentes"
	ServicioCertificacion = "Certificación de Marca"
	ServicioRenovacion    = "Renovación de Marca"
	ServicioCesion        = "Cesión de Marca"
	ServicioOposicion     = "Oposición de Marca"
	ServicioRespuesta     = "Respuesta a Oposición"
	ServicioAmpliacion    = "Ampliación de Cobertura"
)

// Patrones compartidos entre esquemas. Documentos y NIT siguen el formato
// colombiano; el NIT admite el dígito de verificación con o sin guión.
var (
	patronDocumento  = regexp.MustCompile(`^[0-9]{6,10}$`)
	patronNIT        = regexp.MustCompile(`^[0-9]{9}-?[0-9]$`)
	patronCorreo     = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	patronTelefono   = regexp.MustCompile(`^[0-9+][0-9 ]{6,14}$`)
	patronExpediente = regexp.MustCompile(`^SD[0-9]{10,13}$`)
)

// camposIdentidad son los campos de identidad condicionados al tipo de
// persona: una persona natural acredita documento y nombres, una jurídica
// acredita razón social y NIT.
func camposIdentidad() []Campo {
	return []Campo{
		{Nombre: "tipo_documento", RequeridoSi: SiNatural},
		{Nombre: "numero_documento", RequeridoSi: SiNatural, Patron: patronDocumento, MensajePatron: "número de documento inválido"},
		{Nombre: "nombres", RequeridoSi: SiNatural, LargoMax: 100},
		{Nombre: "apellidos", RequeridoSi: SiNatural, LargoMax: 100},
		{Nombre: "razon_social", RequeridoSi: SiJuridica, LargoMax: 200},
		{Nombre: "nit", RequeridoSi: SiJuridica, Patron: patronNIT, MensajePatron: "NIT inválido"},
		{Nombre: "nombre_representante_legal", RequeridoSi: SiJuridica, LargoMax: 200},
	}
}

func camposContacto() []Campo {
	return []Campo{
		{Nombre: "correo", Requerido: true, Patron: patronCorreo, MensajePatron: "correo electrónico inválido"},
		{Nombre: "telefono", Requerido: true, Patron: patronTelefono, MensajePatron: "teléfono inválido"},
		{Nombre: "direccion", LargoMax: 200},
	}
}

// campoPoder exige el poder (pdf) cuando presenta un representante autorizado.
func campoPoder() Campo {
	return Campo{
		Nombre:      "poder",
		RequeridoSi: SiRepresentante,
		Archivo:     &ReglasArchivo{TiposMIME: []string{"application/pdf"}},
	}
}

func concat(grupos ...[]Campo) []Campo {
	var campos []Campo
	for _, g := range grupos {
		campos = append(campos, g...)
	}
	return campos
}

// esquemasBase construye el esquema de cada servicio del portafolio.
func esquemasBase() []*Esquema {
	return []*Esquema{
		{
			Servicio: ServicioBusqueda,
			Campos: concat(camposIdentidad(), camposContacto(), []Campo{
				{Nombre: "nombre_marca", Requerido: true, LargoMin: 2, LargoMax: 100},
				{Nombre: "clase_niza", Requerido: true, Rango: &Rango{Min: 1, Max: 45}},
				{Nombre: "tipo_marca", Requerido: true},
				{Nombre: "logotipo", Archivo: &ReglasArchivo{TiposMIME: []string{"image/jpeg", "image/png"}}},
			}),
		},
		{
			Servicio: ServicioCertificacion,
			Campos: concat(camposIdentidad(), camposContacto(), []Campo{
				{Nombre: "nombre_marca", Requerido: true, LargoMin: 2, LargoMax: 100},
				{Nombre: "clase_niza", Requerido: true, Rango: &Rango{Min: 1, Max: 45}},
				{Nombre: "descripcion_productos", Requerido: true, LargoMin: 10, LargoMax: 2000},
				{Nombre: "logotipo", Archivo: &ReglasArchivo{TiposMIME: []string{"image/jpeg", "image/png"}}},
				campoPoder(),
			}),
		},
		{
			Servicio: ServicioRenovacion,
			Campos: concat(camposIdentidad(), camposContacto(), []Campo{
				{Nombre: "numero_registro", Requerido: true, Patron: patronExpediente, MensajePatron: "número de registro inválido"},
				{Nombre: "nombre_marca", Requerido: true, LargoMax: 100},
				{Nombre: "certificado_registro", Requerido: true, Archivo: &ReglasArchivo{TiposMIME: []string{"application/pdf"}}},
				campoPoder(),
			}),
		},
		{
			Servicio: ServicioCesion,
			Campos: concat(camposIdentidad(), camposContacto(), []Campo{
				{Nombre: "numero_registro", Requerido: true, Patron: patronExpediente, MensajePatron: "número de registro inválido"},
				{Nombre: "nombre_marca", Requerido: true, LargoMax: 100},
				// El cesionario es la parte receptora de la cesión; puede ser
				// natural o jurídica, por eso ambos campos son de formato y no
				// condicionados.
				{Nombre: "nombre_cesionario", Requerido: true, LargoMax: 200},
				{Nombre: "documento_cesionario", Requerido: true, LargoMax: 11},
				{Nombre: "correo_cesionario", Requerido: true, Patron: patronCorreo, MensajePatron: "correo electrónico inválido"},
				{Nombre: "documento_cesion", Requerido: true, Archivo: &ReglasArchivo{TiposMIME: []string{"application/pdf"}}},
				campoPoder(),
			}),
		},
		{
			Servicio: ServicioOposicion,
			Campos: concat(camposIdentidad(), camposContacto(), []Campo{
				{Nombre: "numero_gaceta", Requerido: true, Patron: regexp.MustCompile(`^[0-9]{3,6}$`), MensajePatron: "número de gaceta inválido"},
				{Nombre: "marca_opuesta", Requerido: true, LargoMax: 100},
				{Nombre: "argumentos", Requerido: true, LargoMin: 20, LargoMax: 5000},
				{Nombre: "soportes", Archivo: &ReglasArchivo{TiposMIME: []string{"application/pdf"}}},
				campoPoder(),
			}),
		},
		{
			Servicio: ServicioRespuesta,
			Campos: concat(camposIdentidad(), camposContacto(), []Campo{
				{Nombre: "numero_expediente", Requerido: true, Patron: patronExpediente, MensajePatron: "número de expediente inválido"},
				{Nombre: "respuesta", Requerido: true, LargoMin: 20, LargoMax: 5000},
				{Nombre: "soportes", Archivo: &ReglasArchivo{TiposMIME: []string{"application/pdf"}}},
				campoPoder(),
			}),
		},
		{
			Servicio: ServicioAmpliacion,
			Campos: concat(camposIdentidad(), camposContacto(), []Campo{
				{Nombre: "numero_registro", Requerido: true, Patron: patronExpediente, MensajePatron: "número de registro inválido"},
				{Nombre: "nuevas_clases", Requerido: true, Rango: &Rango{Min: 1, Max: 45}},
				{Nombre: "descripcion_nuevos_productos", Requerido: true, LargoMin: 10, LargoMax: 2000},
				{Nombre: "soporte", Archivo: &ReglasArchivo{TiposMIME: []string{"application/pdf"}}},
				campoPoder(),
			}),
		},
	}
}
