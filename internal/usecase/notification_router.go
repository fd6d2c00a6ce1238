package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cotizaciones/internal/domain/entities"
	"cotizaciones/internal/usecase/interfaces"

	"github.com/rs/zerolog/log"
)

var errNotifierNotConfigured = errors.New("notifier not configured")

// Route is the routing decision for one transition.
type Route struct {
	Recipients []string
	Kind       entities.NotificationKind
}

// NotificationResult reports the single delivery attempt of a transition.
type NotificationResult struct {
	OK         bool                      `json:"ok"`
	Error      string                    `json:"error,omitempty"`
	Kind       entities.NotificationKind `json:"kind"`
	Recipients []string                  `json:"recipients"`
}

// Recipients holds the standing addresses the router fans out to.
type Recipients struct {
	Supervisor string
	Purchasing string
}

// NotificationRouter decides who is told what for each transition, and makes
// exactly one best-effort delivery attempt through the notifier.
type NotificationRouter struct {
	notifier   interfaces.INotifier
	recipients Recipients
	priceField entities.PriceField
}

func NewNotificationRouter(notifier interfaces.INotifier, recipients Recipients, priceField entities.PriceField) *NotificationRouter {
	return &NotificationRouter{notifier: notifier, recipients: recipients, priceField: priceField}
}

// Route maps a transition on q to its recipients and notification kind.
// Unknown transitions fall back to the base recipients and a generic kind.
func (r *NotificationRouter) Route(kind entities.TransitionKind, q entities.Quotation) Route {
	if kind == entities.TransitionComentarioPrivado {
		return Route{
			Recipients: dedupe(r.recipients.Purchasing),
			Kind:       entities.NotificationComentarioPrivado,
		}
	}

	base := []string{q.Vendedor.Email, r.recipients.Supervisor}

	switch kind {
	case entities.TransitionSolicitud:
		if !q.StockDisponible {
			base = append(base, r.recipients.Purchasing)
		}
		return Route{Recipients: dedupe(base...), Kind: entities.NotificationSolicitud}
	case entities.TransitionCotizada:
		return Route{Recipients: dedupe(base...), Kind: entities.NotificationCotizada}
	case entities.TransitionGanada:
		return Route{Recipients: dedupe(base...), Kind: entities.NotificationGanada}
	case entities.TransitionPerdida:
		return Route{Recipients: dedupe(base...), Kind: entities.NotificationPerdida}
	default:
		return Route{Recipients: dedupe(base...), Kind: entities.NotificationActualizacion}
	}
}

// Dispatch routes the transition and attempts delivery once. Failures are
// logged and reported in the result, never retried.
func (r *NotificationRouter) Dispatch(ctx context.Context, kind entities.TransitionKind, q entities.Quotation, comentario string) NotificationResult {
	route := r.Route(kind, q)
	res := NotificationResult{Kind: route.Kind, Recipients: route.Recipients}

	err := r.send(ctx, entities.Notification{
		To:      route.Recipients,
		Subject: subjectFor(route.Kind, q.Numero),
		Kind:    route.Kind,
		Payload: r.payload(q, comentario),
	})
	if err != nil {
		nerr := &NotificationError{Kind: route.Kind, Err: err}
		log.Error().
			Err(nerr).
			Str("kind", string(route.Kind)).
			Str("numero", q.Numero).
			Strs("to", route.Recipients).
			Msg("notification: send failed")
		res.Error = nerr.Error()
		return res
	}

	res.OK = true
	return res
}

func (r *NotificationRouter) send(ctx context.Context, n entities.Notification) (err error) {
	if r.notifier == nil {
		return errNotifierNotConfigured
	}
	if len(n.To) == 0 {
		return errors.New("no recipients")
	}
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("notifier panic: %v", p)
		}
	}()
	return r.notifier.Send(ctx, n)
}

func (r *NotificationRouter) payload(q entities.Quotation, comentario string) entities.NotificationPayload {
	vendedor := q.Vendedor.Nombre
	if vendedor == "" {
		vendedor = q.Vendedor.Email
	}
	return entities.NotificationPayload{
		ID:              q.ID,
		Numero:          q.Numero,
		Cliente:         q.Cliente,
		Tarifa:          q.Tarifa,
		Vendedor:        vendedor,
		Estado:          q.Estado,
		Workflow:        q.Workflow,
		Articulos:       q.Articulos,
		StockDisponible: q.StockDisponible,
		Licitacion:      q.Licitacion,
		ClienteFinal:    q.ClienteFinal,
		TotalCotizado:   q.TotalCotizado(r.priceField),
		Comentario:      comentario,
	}
}

func subjectFor(kind entities.NotificationKind, numero string) string {
	switch kind {
	case entities.NotificationSolicitud:
		return fmt.Sprintf("Solicitud de cotización #%s", numero)
	case entities.NotificationCotizada:
		return fmt.Sprintf("Cotización #%s cotizada", numero)
	case entities.NotificationGanada:
		return fmt.Sprintf("Cotización #%s ganada", numero)
	case entities.NotificationPerdida:
		return fmt.Sprintf("Cotización #%s perdida", numero)
	case entities.NotificationComentarioPrivado:
		return fmt.Sprintf("Comentario privado en cotización #%s", numero)
	default:
		return fmt.Sprintf("Actualización de cotización #%s", numero)
	}
}

// dedupe drops empty addresses and case-insensitive duplicates, keeping order.
func dedupe(addrs ...string) []string {
	seen := make(map[string]bool, len(addrs))
	out := make([]string, 0, len(addrs))
	for _, a := range addrs {
		a = strings.TrimSpace(a)
		k := strings.ToLower(a)
		if a == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, a)
	}
	return out
}
