package formulario

import (
	"encoding/base64"
	"errors"
	"fmt"
)

// Límites de archivos adjuntos. Aplican a todo campo de archivo salvo que el
// esquema restrinja aún más los tipos.
const ArchivoTamanoMax = 5 << 20 // 5 MB

var TiposMIMEPermitidos = []string{"application/pdf", "image/jpeg", "image/png"}

var ErrArchivoVacio = errors.New("archivo sin contenido")

// Archivo es un adjunto crudo recibido del formulario.
type Archivo struct {
	Nombre    string
	TipoMIME  string
	Contenido []byte
}

// CodificarInline convierte el archivo a su codificación de transporte
// (contenido embebido, no multipart). Falla con archivo vacío: el llamador
// aborta el envío completo ante cualquier conversión fallida.
func (a Archivo) CodificarInline() (string, error) {
	if len(a.Contenido) == 0 {
		return "", fmt.Errorf("archivo %q: %w", a.Nombre, ErrArchivoVacio)
	}
	return fmt.Sprintf("data:%s;base64,%s", a.TipoMIME, base64.StdEncoding.EncodeToString(a.Contenido)), nil
}

// ReglasArchivo restringe un campo de archivo. TamanoMax en bytes; TiposMIME
// vacío hereda TiposMIMEPermitidos.
type ReglasArchivo struct {
	TamanoMax int64
	TiposMIME []string
	Requerido bool
}

func (r ReglasArchivo) tamanoMax() int64 {
	if r.TamanoMax > 0 {
		return r.TamanoMax
	}
	return ArchivoTamanoMax
}

func (r ReglasArchivo) tipos() []string {
	if len(r.TiposMIME) > 0 {
		return r.TiposMIME
	}
	return TiposMIMEPermitidos
}

// validar devuelve un mensaje de error de campo, o cadena vacía si el
// archivo cumple las restricciones.
func (r ReglasArchivo) validar(a Archivo) string {
	if int64(len(a.Contenido)) > r.tamanoMax() {
		return fmt.Sprintf("el archivo supera el tamaño máximo de %d MB", r.tamanoMax()>>20)
	}
	for _, tipo := range r.tipos() {
		if a.TipoMIME == tipo {
			return ""
		}
	}
	return fmt.Sprintf("tipo de archivo %q no permitido", a.TipoMIME)
}
