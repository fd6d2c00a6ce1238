package entities

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Estado is the terminal-capable status axis of a quotation (cotización).
//
// Domain notes:
//   - A quotation starts as pendiente and may be reopened any number of times.
//   - ganada and perdida are terminal: closed is closed.
type Estado string

const (
	EstadoPendiente Estado = "pendiente"
	EstadoGanada    Estado = "ganada"
	EstadoPerdida   Estado = "perdida"
	EstadoReabierta Estado = "reabierta"
)

// IsTerminal reports whether no further lifecycle transition is defined.
func (e Estado) IsTerminal() bool {
	return e == EstadoGanada || e == EstadoPerdida
}

// ParseEstado resolves a case-insensitive estado name. An empty value resolves
// to pendiente, matching records persisted before the field existed.
func ParseEstado(s string) (Estado, bool) {
	switch Estado(strings.ToLower(strings.TrimSpace(s))) {
	case "", EstadoPendiente:
		return EstadoPendiente, true
	case EstadoGanada:
		return EstadoGanada, true
	case EstadoPerdida:
		return EstadoPerdida, true
	case EstadoReabierta:
		return EstadoReabierta, true
	}
	return "", false
}

// Workflow is the internal review-stage axis, independent from Estado.
// It only moves forward, in declaration order.
type Workflow string

const (
	WorkflowNone          Workflow = ""
	WorkflowEnRevision    Workflow = "en_revision"
	WorkflowConsultando   Workflow = "consultando"
	WorkflowEsperaCliente Workflow = "espera_cliente"
	WorkflowCotizado      Workflow = "cotizado"
)

var workflowOrder = map[Workflow]int{
	WorkflowNone:          0,
	WorkflowEnRevision:    1,
	WorkflowConsultando:   2,
	WorkflowEsperaCliente: 3,
	WorkflowCotizado:      4,
}

// Rank returns the position of w in the review sequence, or -1 when unknown.
func (w Workflow) Rank() int {
	if r, ok := workflowOrder[w]; ok {
		return r
	}
	return -1
}

// ParseWorkflow resolves a case-insensitive, non-empty workflow stage.
func ParseWorkflow(s string) (Workflow, bool) {
	w := Workflow(strings.ToLower(strings.TrimSpace(s)))
	if w == WorkflowNone {
		return "", false
	}
	if _, ok := workflowOrder[w]; !ok {
		return "", false
	}
	return w, true
}

// PriceField selects which optional line price feeds the quote total.
type PriceField string

const (
	PriceFieldSolicitado PriceField = "solicitado"
	PriceFieldCotizado   PriceField = "cotizado"
)

// Vendedor is the owning identity, fixed at creation.
type Vendedor struct {
	UID    string `json:"uid"`
	Nombre string `json:"nombre"`
	Email  string `json:"email"`
}

// LineItem is one requested article.
//
// Optional prices are pointers: a nil price is never written to the store,
// the key is simply absent from the persisted document.
type LineItem struct {
	Articulo          string           `json:"articulo"`
	URL               string           `json:"url"`
	Unidades          int64            `json:"unidades"`
	PrecioCliente     decimal.Decimal  `json:"precioCliente"`
	PrecioSolicitado  *decimal.Decimal `json:"precioSolicitado,omitempty"`
	PrecioCotizado    *decimal.Decimal `json:"precioCotizado,omitempty"`
	PrecioCompetencia *decimal.Decimal `json:"precioCompetencia,omitempty"`
}

// Price returns the selected optional price, or zero when it was not supplied.
func (li LineItem) Price(field PriceField) decimal.Decimal {
	var p *decimal.Decimal
	switch field {
	case PriceFieldCotizado:
		p = li.PrecioCotizado
	default:
		p = li.PrecioSolicitado
	}
	if p == nil {
		return decimal.Zero
	}
	return *p
}

// ComentarioPrivado is an internal note addressed to purchasing.
type ComentarioPrivado struct {
	Autor string    `json:"autor"`
	Texto string    `json:"texto"`
	Fecha time.Time `json:"fecha"`
}

// Quotation is the persisted cotización document.
//
// Storage model:
//   - PK: id (assigned by the store)
//   - numero is unique per numbering period and never reassigned
//
// Nullable fields (PrecioAnterior, FechaDecision) are persisted as an explicit
// null; every other optional field carries an empty/false default.
type Quotation struct {
	ID        string     `json:"id"`
	Numero    string     `json:"numero"`
	Cliente   string     `json:"cliente"`
	Tarifa    string     `json:"tarifa"`
	Articulos []LineItem `json:"articulos"`
	Estado    Estado     `json:"estado"`
	Workflow  Workflow   `json:"workflow,omitempty"`
	Vendedor  Vendedor   `json:"vendedor"`

	StockDisponible     bool             `json:"stockDisponible"`
	CompradoAntes       bool             `json:"compradoAntes"`
	PrecioAnterior      *decimal.Decimal `json:"precioAnterior"`
	FechaDecision       *time.Time       `json:"fechaDecision"`
	PlazoEntrega        string           `json:"plazoEntrega"`
	LugarEntrega        string           `json:"lugarEntrega"`
	ComentarioStock     string           `json:"comentarioStock"`
	Licitacion          bool             `json:"licitacion"`
	ClienteFinal        string           `json:"clienteFinal"`
	FormaPagoActual     string           `json:"formaPagoActual"`
	FormaPagoSolicitada string           `json:"formaPagoSolicitada"`
	ComentariosCliente  string           `json:"comentariosCliente"`
	PrecioCompetencia   *decimal.Decimal `json:"precioCompetencia,omitempty"`

	ComentariosPrivados []ComentarioPrivado `json:"comentariosPrivados"`

	FechaCreacion time.Time `json:"fechaCreacion"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// TotalCotizado sums unidades × the selected price over every line.
func (q Quotation) TotalCotizado(field PriceField) decimal.Decimal {
	total := decimal.Zero
	for _, li := range q.Articulos {
		total = total.Add(li.Price(field).Mul(decimal.NewFromInt(li.Unidades)))
	}
	return total
}

// LifecycleChange is the set of mutable fields a transition writes.
// Nil members are left untouched; UpdatedAt is always re-stamped.
type LifecycleChange struct {
	Estado     *Estado
	Workflow   *Workflow
	Articulos  []LineItem
	Comentario *ComentarioPrivado
	UpdatedAt  time.Time
}

// MovesState reports whether the change writes estado or workflow. Stores
// refuse such changes on a closed quotation.
func (c LifecycleChange) MovesState() bool {
	return c.Estado != nil || c.Workflow != nil
}

// Apply returns a copy of q with the change applied.
func (c LifecycleChange) Apply(q Quotation) Quotation {
	if c.Estado != nil {
		q.Estado = *c.Estado
	}
	if c.Workflow != nil {
		q.Workflow = *c.Workflow
	}
	if c.Articulos != nil {
		q.Articulos = append([]LineItem(nil), c.Articulos...)
	}
	if c.Comentario != nil {
		q.ComentariosPrivados = append(append([]ComentarioPrivado(nil), q.ComentariosPrivados...), *c.Comentario)
	}
	q.UpdatedAt = c.UpdatedAt
	return q
}
