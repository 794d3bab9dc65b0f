package pago

import (
	"errors"
	"testing"
)

func TestPago_Validar(t *testing.T) {
	tests := []struct {
		name        string
		pago        Pago
		expectedErr error
	}{
		{
			name: "pago con tarjeta",
			pago: Pago{IDSolicitud: 1, Monto: 950000, Metodo: MetodoTarjeta},
		},
		{
			name: "pago por PSE",
			pago: Pago{IDSolicitud: 1, Monto: 90000, Metodo: MetodoPSE},
		},
		{
			name: "pago por transferencia con espacios",
			pago: Pago{IDSolicitud: 1, Monto: 120000, Metodo: "  Transferencia  "},
		},
		{
			name:        "monto cero",
			pago:        Pago{IDSolicitud: 1, Monto: 0, Metodo: MetodoTarjeta},
			expectedErr: ErrMontoInvalido,
		},
		{
			name:        "monto negativo",
			pago:        Pago{IDSolicitud: 1, Monto: -100, Metodo: MetodoTarjeta},
			expectedErr: ErrMontoInvalido,
		},
		{
			name:        "metodo desconocido",
			pago:        Pago{IDSolicitud: 1, Monto: 100, Metodo: "Efectivo"},
			expectedErr: ErrMetodoInvalido,
		},
		{
			name:        "metodo vacio",
			pago:        Pago{IDSolicitud: 1, Monto: 100},
			expectedErr: ErrMetodoInvalido,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.pago.Validar()

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
