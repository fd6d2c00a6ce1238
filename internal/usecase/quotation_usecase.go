package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"cotizaciones/internal/domain/entities"
	"cotizaciones/internal/domain/lifecycle"
	"cotizaciones/internal/domain/numbering"
	"cotizaciones/internal/usecase/interfaces"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// IQuotationUseCase exposes the quotation lifecycle operations.
//
//   - "Solicitar cotización" => Create()
//   - review, quote, reopen, close and private notes => Transition()
//   - list views and detail => List() / GetByID()

type IQuotationUseCase interface {
	Create(ctx context.Context, actor entities.Actor, in CreateQuotationInput) (MutationResult, error)
	Transition(ctx context.Context, actor entities.Actor, id string, in TransitionInput) (MutationResult, error)
	GetByID(ctx context.Context, id string) (QuotationView, error)
	List(ctx context.Context, filter ListFilter) ([]QuotationView, error)
}

// MutationResult is returned by Create and Transition once the document write
// committed. Notification carries the outcome of the best-effort send.
type MutationResult struct {
	Quotation    entities.Quotation
	Notification NotificationResult
}

// QuotedPrice sets precioCotizado on the line at Index.
type QuotedPrice struct {
	Index          int
	PrecioCotizado decimal.Decimal
}

// TransitionInput requests exactly one change: a new workflow stage, a new
// estado, or a private comment.
type TransitionInput struct {
	Workflow         string
	Estado           string
	Comentario       string
	PreciosCotizados []QuotedPrice
}

// QuotationView pairs a stored quotation with its derived lifecycle view.
type QuotationView struct {
	Quotation entities.Quotation
	View      lifecycle.View
}

// ListFilter narrows List. Pendientes selects Reopened and Unreviewed.
type ListFilter struct {
	Bucket      lifecycle.Bucket
	Pendientes  bool
	VendedorUID string
}

type QuotationUseCase struct {
	repo      interfaces.IQuotationRepository
	allocator *SequenceAllocator
	router    *NotificationRouter
	now       func() time.Time
}

var _ IQuotationUseCase = (*QuotationUseCase)(nil)

func NewQuotationUseCase(repo interfaces.IQuotationRepository, allocator *SequenceAllocator, router *NotificationRouter) *QuotationUseCase {
	return &QuotationUseCase{
		repo:      repo,
		allocator: allocator,
		router:    router,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time source (tests).
func (u *QuotationUseCase) WithClock(now func() time.Time) *QuotationUseCase {
	u.now = now
	return u
}

func (u *QuotationUseCase) Create(ctx context.Context, actor entities.Actor, in CreateQuotationInput) (MutationResult, error) {
	if strings.TrimSpace(actor.UID) == "" {
		return MutationResult{}, ErrUnauthenticated
	}

	q, err := NormalizeQuotation(in, actor.Vendedor())
	if err != nil {
		return MutationResult{}, err
	}
	if err := CheckNoMissingValues(q); err != nil {
		return MutationResult{}, err
	}

	now := u.now()
	numero, err := u.allocator.NextNumero(ctx, now)
	if err != nil {
		return MutationResult{}, err
	}

	q.Numero = numero
	q.FechaCreacion = now
	q.UpdatedAt = now

	created, err := u.repo.Create(ctx, q)
	if err != nil {
		log.Error().Err(err).Str("numero", numero).Msg("quotation: create failed after allocation")
		return MutationResult{}, fmt.Errorf("%w: %s: %v", ErrPersistence, numero, err)
	}

	log.Info().Str("id", created.ID).Str("numero", created.Numero).Str("vendedor", created.Vendedor.UID).Msg("quotation: created")

	return MutationResult{
		Quotation:    created,
		Notification: u.router.Dispatch(ctx, entities.TransitionSolicitud, created, ""),
	}, nil
}

func (u *QuotationUseCase) Transition(ctx context.Context, actor entities.Actor, id string, in TransitionInput) (MutationResult, error) {
	if strings.TrimSpace(actor.UID) == "" {
		return MutationResult{}, ErrUnauthenticated
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return MutationResult{}, ErrInvalidQuotationID
	}

	current, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return MutationResult{}, err
	}
	if current.ID == "" {
		return MutationResult{}, ErrQuotationNotFound
	}

	change, kind, comentario, err := u.plan(actor, current, in)
	if err != nil {
		return MutationResult{}, err
	}

	updated, err := u.repo.UpdateLifecycle(ctx, id, change)
	if errors.Is(err, interfaces.ErrQuotationClosed) {
		return MutationResult{}, fmt.Errorf("%w: %s closed concurrently", ErrQuotationClosed, current.Numero)
	}
	if err != nil {
		return MutationResult{}, fmt.Errorf("%w: %s: %v", ErrPersistence, id, err)
	}
	if updated.ID == "" {
		return MutationResult{}, ErrQuotationNotFound
	}

	log.Info().Str("id", updated.ID).Str("numero", updated.Numero).Str("transition", string(kind)).Msg("quotation: transition committed")

	return MutationResult{
		Quotation:    updated,
		Notification: u.router.Dispatch(ctx, kind, updated, comentario),
	}, nil
}

// plan validates the requested change against the state machine and builds
// the field update.
func (u *QuotationUseCase) plan(actor entities.Actor, q entities.Quotation, in TransitionInput) (entities.LifecycleChange, entities.TransitionKind, string, error) {
	workflow := strings.TrimSpace(in.Workflow)
	estado := strings.TrimSpace(in.Estado)
	comentario := strings.TrimSpace(in.Comentario)

	requested := 0
	for _, s := range []string{workflow, estado, comentario} {
		if s != "" {
			requested++
		}
	}
	if requested != 1 {
		return entities.LifecycleChange{}, "", "", invalid("", "exactly one of workflow, estado or comentario is required")
	}
	if len(in.PreciosCotizados) > 0 && workflow == "" {
		return entities.LifecycleChange{}, "", "", invalid("preciosCotizados", "only allowed with a workflow change")
	}

	change := entities.LifecycleChange{UpdatedAt: u.now()}

	if comentario != "" {
		autor := actor.DisplayName
		if autor == "" {
			autor = actor.Email
		}
		change.Comentario = &entities.ComentarioPrivado{Autor: autor, Texto: comentario, Fecha: change.UpdatedAt}
		return change, entities.TransitionComentarioPrivado, comentario, nil
	}

	if q.Estado.IsTerminal() {
		return entities.LifecycleChange{}, "", "", fmt.Errorf("%w: %s is %s", ErrQuotationClosed, q.Numero, q.Estado)
	}

	if workflow != "" {
		w, ok := entities.ParseWorkflow(workflow)
		if !ok {
			return entities.LifecycleChange{}, "", "", invalid("workflow", "unknown stage "+workflow)
		}
		if w.Rank() <= q.Workflow.Rank() {
			return entities.LifecycleChange{}, "", "", fmt.Errorf("%w: workflow %q cannot follow %q", ErrInvalidTransition, w, q.Workflow)
		}
		change.Workflow = &w

		if len(in.PreciosCotizados) > 0 {
			articulos, err := applyQuotedPrices(q.Articulos, in.PreciosCotizados)
			if err != nil {
				return entities.LifecycleChange{}, "", "", err
			}
			change.Articulos = articulos
		}

		if w == entities.WorkflowCotizado {
			return change, entities.TransitionCotizada, "", nil
		}
		return change, entities.TransitionRevision, "", nil
	}

	e, ok := entities.ParseEstado(estado)
	if !ok {
		return entities.LifecycleChange{}, "", "", invalid("estado", "unknown estado "+estado)
	}
	change.Estado = &e
	switch e {
	case entities.EstadoGanada:
		return change, entities.TransitionGanada, "", nil
	case entities.EstadoPerdida:
		return change, entities.TransitionPerdida, "", nil
	case entities.EstadoReabierta:
		return change, entities.TransitionReabierta, "", nil
	default:
		return entities.LifecycleChange{}, "", "", fmt.Errorf("%w: cannot move back to %s", ErrInvalidTransition, e)
	}
}

func applyQuotedPrices(articulos []entities.LineItem, precios []QuotedPrice) ([]entities.LineItem, error) {
	out := append([]entities.LineItem(nil), articulos...)
	for _, p := range precios {
		if p.Index < 0 || p.Index >= len(out) {
			return nil, invalid(fmt.Sprintf("preciosCotizados[%d]", p.Index), "no such line")
		}
		if p.PrecioCotizado.IsNegative() {
			return nil, invalid(fmt.Sprintf("preciosCotizados[%d]", p.Index), "must not be negative")
		}
		v := p.PrecioCotizado
		out[p.Index].PrecioCotizado = &v
	}
	return out, nil
}

func (u *QuotationUseCase) GetByID(ctx context.Context, id string) (QuotationView, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return QuotationView{}, ErrInvalidQuotationID
	}

	q, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return QuotationView{}, err
	}
	if q.ID == "" {
		return QuotationView{}, ErrQuotationNotFound
	}
	return QuotationView{Quotation: q, View: lifecycle.ProjectQuotation(q)}, nil
}

func (u *QuotationUseCase) List(ctx context.Context, filter ListFilter) ([]QuotationView, error) {
	all, err := u.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]QuotationView, 0, len(all))
	for _, q := range all {
		if filter.VendedorUID != "" && q.Vendedor.UID != filter.VendedorUID {
			continue
		}
		v := lifecycle.ProjectQuotation(q)
		if filter.Pendientes && !v.Bucket.Pending() {
			continue
		}
		if filter.Bucket != "" && v.Bucket != filter.Bucket {
			continue
		}
		views = append(views, QuotationView{Quotation: q, View: v})
	}

	sort.SliceStable(views, func(i, j int) bool {
		return numbering.Compare(views[i].Quotation.Numero, views[j].Quotation.Numero) > 0
	})
	return views, nil
}
