package request

import (
	"strings"

	"cotizaciones/internal/domain/lifecycle"
	"cotizaciones/internal/usecase"

	"github.com/shopspring/decimal"
)

type LineItemRequest struct {
	Articulo          string           `json:"articulo" binding:"max=500"`
	URL               string           `json:"url" binding:"max=2000"`
	Unidades          *decimal.Decimal `json:"unidades" swaggertype:"number"`
	PrecioCliente     *decimal.Decimal `json:"precioCliente" swaggertype:"number"`
	PrecioSolicitado  *decimal.Decimal `json:"precioSolicitado" swaggertype:"number"`
	PrecioCotizado    *decimal.Decimal `json:"precioCotizado" swaggertype:"number"`
	PrecioCompetencia *decimal.Decimal `json:"precioCompetencia" swaggertype:"number"`
}

// CreateQuotationRequest is the creation payload.
//
// Besides the canonical flat shape it accepts the shapes older clients send:
// every field nested under "resumen", "precioCompet" for precioCompetencia and
// "comentarios" for comentariosCliente. ToInput folds them into one schema.
type CreateQuotationRequest struct {
	Cliente             string            `json:"cliente"`
	Tarifa              string            `json:"tarifa"`
	Articulos           []LineItemRequest `json:"articulos" binding:"omitempty,dive"`
	StockDisponible     *bool             `json:"stockDisponible"`
	CompradoAntes       *bool             `json:"compradoAntes"`
	PrecioAnterior      *decimal.Decimal  `json:"precioAnterior" swaggertype:"number"`
	FechaDecision       *string           `json:"fechaDecision"`
	PlazoEntrega        string            `json:"plazoEntrega"`
	LugarEntrega        string            `json:"lugarEntrega"`
	ComentarioStock     string            `json:"comentarioStock"`
	Licitacion          *bool             `json:"licitacion"`
	ClienteFinal        string            `json:"clienteFinal"`
	FormaPagoActual     string            `json:"formaPagoActual"`
	FormaPagoSolicitada string            `json:"formaPagoSolicitada"`
	PrecioCompetencia   *decimal.Decimal  `json:"precioCompetencia" swaggertype:"number"`
	ComentariosCliente  string            `json:"comentariosCliente"`

	PrecioCompet *decimal.Decimal        `json:"precioCompet" swaggertype:"number"`
	Comentarios  string                  `json:"comentarios"`
	Resumen      *CreateQuotationRequest `json:"resumen" swaggerignore:"true"`
}

// ToInput maps the payload onto the canonical creation schema. Values inside
// "resumen" win over top-level ones.
func (r CreateQuotationRequest) ToInput() usecase.CreateQuotationInput {
	src := r
	if r.Resumen != nil {
		src = overlay(r, *r.Resumen)
	}

	in := usecase.CreateQuotationInput{
		Cliente:             src.Cliente,
		Tarifa:              src.Tarifa,
		StockDisponible:     boolValue(src.StockDisponible),
		CompradoAntes:       boolValue(src.CompradoAntes),
		PrecioAnterior:      src.PrecioAnterior,
		PlazoEntrega:        src.PlazoEntrega,
		LugarEntrega:        src.LugarEntrega,
		ComentarioStock:     src.ComentarioStock,
		Licitacion:          boolValue(src.Licitacion),
		ClienteFinal:        src.ClienteFinal,
		FormaPagoActual:     src.FormaPagoActual,
		FormaPagoSolicitada: src.FormaPagoSolicitada,
		PrecioCompetencia:   firstDecimal(src.PrecioCompetencia, src.PrecioCompet),
		ComentariosCliente:  firstString(src.ComentariosCliente, src.Comentarios),
	}
	if src.FechaDecision != nil {
		in.FechaDecision = *src.FechaDecision
	}
	in.Articulos = make([]usecase.LineItemInput, 0, len(src.Articulos))
	for _, a := range src.Articulos {
		in.Articulos = append(in.Articulos, usecase.LineItemInput{
			Articulo:          a.Articulo,
			URL:               a.URL,
			Unidades:          a.Unidades,
			PrecioCliente:     a.PrecioCliente,
			PrecioSolicitado:  a.PrecioSolicitado,
			PrecioCotizado:    a.PrecioCotizado,
			PrecioCompetencia: a.PrecioCompetencia,
		})
	}
	return in
}

func overlay(base, top CreateQuotationRequest) CreateQuotationRequest {
	out := base
	out.Resumen = nil
	out.Cliente = firstString(top.Cliente, base.Cliente)
	out.Tarifa = firstString(top.Tarifa, base.Tarifa)
	if top.Articulos != nil {
		out.Articulos = top.Articulos
	}
	out.StockDisponible = firstBool(top.StockDisponible, base.StockDisponible)
	out.CompradoAntes = firstBool(top.CompradoAntes, base.CompradoAntes)
	out.PrecioAnterior = firstDecimal(top.PrecioAnterior, base.PrecioAnterior)
	if top.FechaDecision != nil {
		out.FechaDecision = top.FechaDecision
	}
	out.PlazoEntrega = firstString(top.PlazoEntrega, base.PlazoEntrega)
	out.LugarEntrega = firstString(top.LugarEntrega, base.LugarEntrega)
	out.ComentarioStock = firstString(top.ComentarioStock, base.ComentarioStock)
	out.Licitacion = firstBool(top.Licitacion, base.Licitacion)
	out.ClienteFinal = firstString(top.ClienteFinal, base.ClienteFinal)
	out.FormaPagoActual = firstString(top.FormaPagoActual, base.FormaPagoActual)
	out.FormaPagoSolicitada = firstString(top.FormaPagoSolicitada, base.FormaPagoSolicitada)
	out.PrecioCompetencia = firstDecimal(top.PrecioCompetencia, base.PrecioCompetencia)
	out.PrecioCompet = firstDecimal(top.PrecioCompet, base.PrecioCompet)
	out.ComentariosCliente = firstString(top.ComentariosCliente, base.ComentariosCliente)
	out.Comentarios = firstString(top.Comentarios, base.Comentarios)
	return out
}

func firstString(vs ...string) string {
	for _, v := range vs {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func firstBool(vs ...*bool) *bool {
	for _, v := range vs {
		if v != nil {
			return v
		}
	}
	return nil
}

func firstDecimal(vs ...*decimal.Decimal) *decimal.Decimal {
	for _, v := range vs {
		if v != nil {
			return v
		}
	}
	return nil
}

func boolValue(v *bool) bool {
	return v != nil && *v
}

type QuotedPriceRequest struct {
	Index          int             `json:"index" binding:"min=0"`
	PrecioCotizado decimal.Decimal `json:"precioCotizado" swaggertype:"number"`
}

type WorkflowRequest struct {
	Workflow         string               `json:"workflow" binding:"required"`
	PreciosCotizados []QuotedPriceRequest `json:"preciosCotizados" binding:"omitempty,dive"`
}

func (r WorkflowRequest) ToInput() usecase.TransitionInput {
	in := usecase.TransitionInput{Workflow: r.Workflow}
	for _, p := range r.PreciosCotizados {
		in.PreciosCotizados = append(in.PreciosCotizados, usecase.QuotedPrice{Index: p.Index, PrecioCotizado: p.PrecioCotizado})
	}
	return in
}

type EstadoRequest struct {
	Estado string `json:"estado" binding:"required"`
}

func (r EstadoRequest) ToInput() usecase.TransitionInput {
	return usecase.TransitionInput{Estado: r.Estado}
}

type ComentarioRequest struct {
	Comentario string `json:"comentario" binding:"required,max=4000"`
}

func (r ComentarioRequest) ToInput() usecase.TransitionInput {
	return usecase.TransitionInput{Comentario: r.Comentario}
}

// ListQuery carries the list view filters.
type ListQuery struct {
	Bucket     string `form:"bucket"`
	Pendientes bool   `form:"pendientes"`
	Vendedor   string `form:"vendedor"`
}

// ToFilter resolves the query. ok is false when bucket names no known bucket.
func (q ListQuery) ToFilter() (usecase.ListFilter, bool) {
	f := usecase.ListFilter{Pendientes: q.Pendientes, VendedorUID: strings.TrimSpace(q.Vendedor)}
	if strings.TrimSpace(q.Bucket) != "" {
		b, ok := lifecycle.ParseBucket(q.Bucket)
		if !ok {
			return usecase.ListFilter{}, false
		}
		f.Bucket = b
	}
	return f, true
}
