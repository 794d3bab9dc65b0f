// Package notificaciones es el canal de difusión único entre componentes:
// quien produce un cambio de ciclo de vida y quien refresca vistas no se
// conocen entre sí, solo comparten el hub.
package notificaciones

import (
	"log/slog"

	"github.com/juju/pubsub/v2"
)

// Tópicos publicados por el orquestador.
const (
	TopicoSolicitudCerrada  = "solicitudes.cerrada"
	TopicoSolicitudActivada = "solicitudes.activada"
)

// SolicitudCerrada se publica cuando una solicitud entra a un estado
// terminal. Los suscriptores de la partición de cerradas refrescan sin
// esperar la propagación del almacén.
type SolicitudCerrada struct {
	ID     int64
	Estado string
}

// SolicitudActivada se publica cuando un pago confirmado saca una solicitud
// de "Pendiente de Pago".
type SolicitudActivada struct {
	ID     int64
	Estado string
}

// Hub envuelve el hub de publicación con cargas tipadas por tópico.
type Hub struct {
	hub *pubsub.SimpleHub
	log *slog.Logger
}

func New(log *slog.Logger) *Hub {
	return &Hub{
		hub: pubsub.NewSimpleHub(nil),
		log: log,
	}
}

// PublicarCerrada difunde el cierre de una solicitud. El canal devuelto se
// cierra cuando todos los suscriptores procesaron el evento.
func (h *Hub) PublicarCerrada(ev SolicitudCerrada) <-chan struct{} {
	h.log.Debug("publicando cierre de solicitud", "id", ev.ID, "estado", ev.Estado)
	return alCompletar(h.hub.Publish(TopicoSolicitudCerrada, ev))
}

// PublicarActivada difunde la activación por pago de una solicitud.
func (h *Hub) PublicarActivada(ev SolicitudActivada) <-chan struct{} {
	h.log.Debug("publicando activación de solicitud", "id", ev.ID, "estado", ev.Estado)
	return alCompletar(h.hub.Publish(TopicoSolicitudActivada, ev))
}

// alCompletar adapta la función de espera que devuelve Publish a un canal
// que se cierra cuando todos los suscriptores terminaron.
func alCompletar(espera func()) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		espera()
		close(done)
	}()
	return done
}

// SuscribirCerradas registra un manejador para cierres. Devuelve la función
// para cancelar la suscripción.
func (h *Hub) SuscribirCerradas(fn func(SolicitudCerrada)) func() {
	return h.hub.Subscribe(TopicoSolicitudCerrada, func(_ string, data interface{}) {
		if ev, ok := data.(SolicitudCerrada); ok {
			fn(ev)
		}
	})
}

// SuscribirActivadas registra un manejador para activaciones por pago.
func (h *Hub) SuscribirActivadas(fn func(SolicitudActivada)) func() {
	return h.hub.Subscribe(TopicoSolicitudActivada, func(_ string, data interface{}) {
		if ev, ok := data.(SolicitudActivada); ok {
			fn(ev)
		}
	})
}
