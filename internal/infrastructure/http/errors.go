package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// ErrorResponse representa el sobre de error estándar del servicio.
type ErrorResponse struct {
	Mensaje string   `json:"mensaje"`
	Errores []string `json:"errores,omitempty"`
}

// FieldErrorResponse es el sobre de error de validación de formularios: un
// mensaje general más el detalle campo a campo.
type FieldErrorResponse struct {
	Mensaje       string            `json:"mensaje"`
	ErroresCampos map[string]string `json:"errores_campos"`
}

// WriteError writes a standardized JSON error response to the HTTP response writer.
// It sets the appropriate Content-Type header, status code, and encodes the error response.
func WriteError(w http.ResponseWriter, statusCode int, mensaje string, errores []string, log *slog.Logger) {
	response := ErrorResponse{
		Mensaje: mensaje,
		Errores: errores,
	}
	writeJSON(w, statusCode, response, log)
}

// WriteFieldErrors writes a validation error response with per-field messages.
func WriteFieldErrors(w http.ResponseWriter, statusCode int, mensaje string, campos map[string]string, log *slog.Logger) {
	response := FieldErrorResponse{
		Mensaje:       mensaje,
		ErroresCampos: campos,
	}
	writeJSON(w, statusCode, response, log)
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any, log *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// If encoding fails, log the error but don't try to write again
		// as the status code has already been written
		if log != nil {
			log.Error("failed to encode error response", "error", err)
		}
	}
}
