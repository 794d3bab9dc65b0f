// Package solicitudes orquesta el ciclo de vida de las solicitudes de
// servicio: creación condicionada al rol, edición, anulación, asignación y
// transiciones de estado contra la secuencia vigente del catálogo.
package solicitudes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"3tcapital/ms_gestion_solicitudes/internal/application/catalogo"
	"3tcapital/ms_gestion_solicitudes/internal/application/notificaciones"
	"3tcapital/ms_gestion_solicitudes/internal/core/formulario"
	"3tcapital/ms_gestion_solicitudes/internal/core/seguimiento"
	"3tcapital/ms_gestion_solicitudes/internal/core/servicio"
	"3tcapital/ms_gestion_solicitudes/internal/core/solicitud"
)

var (
	// ErrTransicionRechazada: el destino no pertenece a la secuencia vigente
	// del servicio, o la solicitud ya está en un estado terminal.
	ErrTransicionRechazada = errors.New("transición de estado rechazada")
	// ErrSolicitudCerrada: la solicitud está en un estado terminal y es
	// inmutable.
	ErrSolicitudCerrada = errors.New("la solicitud está cerrada")
	ErrMotivoRequerido  = errors.New("el motivo de anulación es obligatorio")
)

type Service struct {
	repo        solicitud.Repository
	catalogo    *catalogo.Service
	constructor *Constructor
	hub         *notificaciones.Hub
	guardia     *GuardiaEnCurso
	log         *slog.Logger
	now         func() time.Time
}

func NewService(repo solicitud.Repository, cat *catalogo.Service, constructor *Constructor, hub *notificaciones.Hub, log *slog.Logger) *Service {
	return &Service{
		repo:        repo,
		catalogo:    cat,
		constructor: constructor,
		hub:         hub,
		guardia:     NewGuardiaEnCurso(),
		log:         log,
		now:         time.Now,
	}
}

// Resultado de una creación: la solicitud persistida y si quedó a la espera
// de pago.
type Creada struct {
	Solicitud    solicitud.Solicitud
	RequierePago bool
}

// Crear valida, construye y persiste una solicitud nueva. El estado inicial
// depende del rol del creador y del servicio:
//   - personal: primer estado del proceso, sin requisito de pago;
//   - cliente con servicio que requiere pago: "Pendiente de Pago";
//   - cliente sin requisito de pago: primer estado del proceso.
func (s *Service) Crear(ctx context.Context, servicioNombre string, entrada map[string]any, fctx formulario.Contexto, actor solicitud.Actor) (*Creada, error) {
	liberar, err := s.guardia.Adquirir(claveCreacion(servicioNombre, actor))
	if err != nil {
		return nil, err
	}
	defer liberar()

	svc, err := s.catalogo.Obtener(ctx, servicioNombre)
	if err != nil {
		return nil, err
	}

	canonica, err := s.constructor.Construir(svc.Nombre, entrada, fctx, actor)
	if err != nil {
		return nil, err
	}
	carga, err := canonica.JSON()
	if err != nil {
		return nil, err
	}

	primerEstado, err := svc.PrimerEstado()
	if err != nil {
		return nil, err
	}

	capacidades := actor.Rol.Capacidades()
	requierePago := capacidades.RequierePago && svc.RequierePago

	nueva := solicitud.Solicitud{
		Servicio:        svc.Nombre,
		ServicioID:      svc.ID,
		TipoSolicitante: string(fctx.Solicitante),
		TipoPersona:     string(fctx.Persona),
		IDCliente:       canonica.IDCliente,
		Carga:           carga,
		Estado:          primerEstado,
		FechaCreacion:   s.now(),
		RequierePago:    requierePago,
		CreadaPorRol:    actor.Rol,
	}
	if requierePago {
		nueva.Estado = solicitud.EstadoPendientePago
		monto := svc.Precio
		nueva.Monto = &monto
	}

	id, err := s.repo.Crear(ctx, nueva)
	if err != nil {
		return nil, fmt.Errorf("crear solicitud de %q: %w", svc.Nombre, err)
	}
	nueva.ID = id

	s.log.Info("solicitud creada",
		"id", id,
		"servicio", svc.Nombre,
		"rol", actor.Rol,
		"estado", nueva.Estado,
		"requiere_pago", requierePago,
	)
	return &Creada{Solicitud: nueva, RequierePago: requierePago}, nil
}

// Editar reemplaza los campos editables de la carga. Solo se admite mientras
// la solicitud no esté cerrada; toda edición se envía, no se asume no-op.
func (s *Service) Editar(ctx context.Context, id int64, cambios map[string]any) error {
	liberar, err := s.guardia.Adquirir(claveSolicitud(id))
	if err != nil {
		return err
	}
	defer liberar()

	actual, err := s.repo.Obtener(ctx, id)
	if err != nil {
		return err
	}
	if !actual.Abierta() {
		return fmt.Errorf("solicitud %d en estado %q: %w", id, actual.Estado, ErrSolicitudCerrada)
	}

	var carga map[string]any
	if len(actual.Carga) > 0 {
		if err := json.Unmarshal(actual.Carga, &carga); err != nil {
			return fmt.Errorf("leer carga de solicitud %d: %w", id, err)
		}
	}
	if carga == nil {
		carga = make(map[string]any)
	}
	for campo, valor := range cambios {
		carga[campo] = valor
	}
	nueva, err := json.Marshal(carga)
	if err != nil {
		return fmt.Errorf("serializar carga de solicitud %d: %w", id, err)
	}
	if err := s.repo.ActualizarCarga(ctx, id, nueva); err != nil {
		return fmt.Errorf("editar solicitud %d: %w", id, err)
	}
	s.log.Info("solicitud editada", "id", id, "campos", len(cambios))
	return nil
}

// Anular cierra la solicitud con la etiqueta terminal "Anulada". El motivo
// es obligatorio y queda registrado en el historial. Irreversible.
func (s *Service) Anular(ctx context.Context, id int64, motivo string, actor solicitud.Actor) error {
	motivo = strings.TrimSpace(motivo)
	if motivo == "" {
		return ErrMotivoRequerido
	}
	entrada := seguimiento.Entrada{
		IDSolicitud: id,
		Titulo:      "Solicitud anulada",
		Descripcion: motivo,
		IDAutor:     actor.ID,
	}
	_, err := s.Transicionar(ctx, id, solicitud.EstadoAnulada, entrada)
	return err
}

// AsignarEmpleado fija el empleado responsable. Se admite en cualquier
// estado no terminal y no altera el estado de la solicitud.
func (s *Service) AsignarEmpleado(ctx context.Context, id, idEmpleado int64) error {
	liberar, err := s.guardia.Adquirir(claveSolicitud(id))
	if err != nil {
		return err
	}
	defer liberar()

	actual, err := s.repo.Obtener(ctx, id)
	if err != nil {
		return err
	}
	if !actual.Abierta() {
		return fmt.Errorf("solicitud %d en estado %q: %w", id, actual.Estado, ErrSolicitudCerrada)
	}
	if err := s.repo.AsignarEmpleado(ctx, id, idEmpleado); err != nil {
		return fmt.Errorf("asignar empleado a solicitud %d: %w", id, err)
	}
	s.log.Info("empleado asignado", "solicitud", id, "empleado", idEmpleado)
	return nil
}

// Transicionar mueve la solicitud a destino y anexa la entrada de
// seguimiento como una sola acción atómica. El destino debe pertenecer a la
// secuencia vigente del servicio o ser una etiqueta terminal; si es
// terminal, la solicitud queda inmutable y se publica el cierre.
func (s *Service) Transicionar(ctx context.Context, id int64, destino string, entrada seguimiento.Entrada) (*seguimiento.Entrada, error) {
	// El título se valida antes de tocar el almacén: un título de 201
	// caracteres no debe costar un viaje de red.
	entrada.IDSolicitud = id
	if err := entrada.Validar(); err != nil {
		return nil, err
	}

	liberar, err := s.guardia.Adquirir(claveSolicitud(id))
	if err != nil {
		return nil, err
	}
	defer liberar()

	actual, err := s.repo.Obtener(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actual.Abierta() {
		return nil, fmt.Errorf("solicitud %d ya cerrada en %q: %w", id, actual.Estado, ErrTransicionRechazada)
	}

	canonico := solicitud.NormalizarEstado(destino)
	if !solicitud.EsTerminal(canonico) {
		// Una solicitud pendiente de pago no entra al proceso por esta vía:
		// solo la confirmación de pago la activa. Anularla sigue permitido.
		if actual.PendienteDePago() {
			return nil, fmt.Errorf("solicitud %d pendiente de pago: %w", id, ErrTransicionRechazada)
		}
		svc, err := s.catalogo.Obtener(ctx, actual.Servicio)
		if err != nil {
			return nil, err
		}
		if !svc.TieneEstado(canonico) {
			return nil, fmt.Errorf("estado %q no pertenece al proceso de %q: %w", destino, actual.Servicio, ErrTransicionRechazada)
		}
		if strings.EqualFold(canonico, actual.Estado) {
			return nil, fmt.Errorf("la solicitud %d ya está en %q: %w", id, canonico, ErrTransicionRechazada)
		}
	}

	entrada.NuevoProceso = canonico
	entrada.FechaCreacion = s.now()
	persistida, err := s.repo.Transicionar(ctx, id, canonico, entrada)
	if err != nil {
		return nil, fmt.Errorf("transicionar solicitud %d a %q: %w", id, canonico, err)
	}

	s.log.Info("solicitud transicionada", "id", id, "de", actual.Estado, "a", canonico)
	if solicitud.EsTerminal(canonico) {
		s.hub.PublicarCerrada(notificaciones.SolicitudCerrada{ID: id, Estado: canonico})
	}
	return &persistida, nil
}

// ActivarPorPago saca la solicitud de "Pendiente de Pago" hacia el primer
// estado del proceso de su servicio. Solo la confirmación de pago llama
// aquí; no hay otra salida de ese estado.
func (s *Service) ActivarPorPago(ctx context.Context, id int64, idAutor int64) (*solicitud.Solicitud, error) {
	actual, err := s.repo.Obtener(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actual.PendienteDePago() {
		return nil, fmt.Errorf("solicitud %d en estado %q, no pendiente de pago: %w", id, actual.Estado, ErrTransicionRechazada)
	}

	svc, err := s.catalogo.Obtener(ctx, actual.Servicio)
	if err != nil {
		return nil, err
	}
	primero, err := svc.PrimerEstado()
	if err != nil {
		return nil, err
	}

	entrada := seguimiento.Entrada{
		IDSolicitud:   id,
		Titulo:        "Pago confirmado",
		Descripcion:   "Pago confirmado por la pasarela; la solicitud entra al proceso.",
		IDAutor:       idAutor,
		FechaCreacion: s.now(),
	}
	if _, err := s.repo.Transicionar(ctx, id, primero, entrada); err != nil {
		return nil, fmt.Errorf("activar solicitud %d: %w", id, err)
	}

	actual.Estado = primero
	s.log.Info("solicitud activada por pago", "id", id, "estado", primero)
	s.hub.PublicarActivada(notificaciones.SolicitudActivada{ID: id, Estado: primero})
	return actual, nil
}

// EstadosDisponibles devuelve los destinos de transición legales de la
// solicitud: todos los estados del proceso menos el actual. Las etiquetas
// terminales no se listan aunque siempre sean destinos legales. Una
// solicitud cerrada o pendiente de pago no tiene destinos.
func (s *Service) EstadosDisponibles(ctx context.Context, id int64) ([]servicio.EstadoProceso, error) {
	actual, err := s.repo.Obtener(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actual.Abierta() || actual.PendienteDePago() {
		return []servicio.EstadoProceso{}, nil
	}

	svc, err := s.catalogo.Obtener(ctx, actual.Servicio)
	if err != nil {
		return nil, err
	}

	disponibles := make([]servicio.EstadoProceso, 0, len(svc.EstadosProceso))
	for _, e := range svc.EstadosProceso {
		if strings.EqualFold(e.Nombre, actual.Estado) {
			continue
		}
		disponibles = append(disponibles, e)
	}
	return disponibles, nil
}

// EstadoActual devuelve el estado vigente de la solicitud, normalizado.
func (s *Service) EstadoActual(ctx context.Context, id int64) (string, error) {
	actual, err := s.repo.Obtener(ctx, id)
	if err != nil {
		return "", err
	}
	return solicitud.NormalizarEstado(actual.Estado), nil
}

// Obtener devuelve la solicitud por id.
func (s *Service) Obtener(ctx context.Context, id int64) (*solicitud.Solicitud, error) {
	return s.repo.Obtener(ctx, id)
}

// Listar devuelve las solicitudes visibles para el actor: todas para el
// personal, solo las propias para un cliente.
func (s *Service) Listar(ctx context.Context, actor solicitud.Actor) ([]solicitud.Solicitud, error) {
	if actor.Rol.EsPersonal() {
		return s.repo.Listar(ctx)
	}
	return s.repo.ListarPorCliente(ctx, actor.ID)
}

// ListarPropias devuelve las solicitudes del cliente autenticado.
func (s *Service) ListarPropias(ctx context.Context, actor solicitud.Actor) ([]solicitud.Solicitud, error) {
	return s.repo.ListarPorCliente(ctx, actor.ID)
}

func claveSolicitud(id int64) string {
	return "solicitud:" + strconv.FormatInt(id, 10)
}

func claveCreacion(servicio string, actor solicitud.Actor) string {
	return "crear:" + strconv.FormatInt(actor.ID, 10) + ":" + strings.ToLower(servicio)
}
