package usecase

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"cotizaciones/internal/domain/entities"

	"github.com/shopspring/decimal"
)

// LineItemInput is one requested article as supplied by the caller.
// Numeric fields are optional; missing ones default to 0 (optional prices
// stay absent).
type LineItemInput struct {
	Articulo          string
	URL               string
	Unidades          *decimal.Decimal
	PrecioCliente     *decimal.Decimal
	PrecioSolicitado  *decimal.Decimal
	PrecioCotizado    *decimal.Decimal
	PrecioCompetencia *decimal.Decimal
}

// CreateQuotationInput is the canonical creation schema. Legacy payload
// shapes are mapped onto it at the transport boundary.
type CreateQuotationInput struct {
	Cliente             string
	Tarifa              string
	Articulos           []LineItemInput
	StockDisponible     bool
	CompradoAntes       bool
	PrecioAnterior      *decimal.Decimal
	FechaDecision       string
	PlazoEntrega        string
	LugarEntrega        string
	ComentarioStock     string
	Licitacion          bool
	ClienteFinal        string
	FormaPagoActual     string
	FormaPagoSolicitada string
	PrecioCompetencia   *decimal.Decimal
	ComentariosCliente  string
}

// nullableFields may be persisted as an explicit null.
var nullableFields = map[string]bool{
	"precioAnterior": true,
	"fechaDecision":  true,
}

// NormalizeQuotation validates in and builds the quotation document to be
// persisted, owned by vendedor. Numero, ID and timestamps are left for the
// caller.
func NormalizeQuotation(in CreateQuotationInput, vendedor entities.Vendedor) (entities.Quotation, error) {
	cliente := strings.TrimSpace(in.Cliente)
	if cliente == "" {
		return entities.Quotation{}, invalid("cliente", "required")
	}
	tarifa := strings.TrimSpace(in.Tarifa)
	if tarifa == "" {
		return entities.Quotation{}, invalid("tarifa", "required")
	}
	if vendedor.UID == "" {
		return entities.Quotation{}, invalid("vendedor.uid", "required")
	}

	articulos := make([]entities.LineItem, 0, len(in.Articulos))
	for i, a := range in.Articulos {
		li, err := normalizeLineItem(i, a)
		if err != nil {
			return entities.Quotation{}, err
		}
		articulos = append(articulos, li)
	}

	precioAnterior, err := optionalAmount("precioAnterior", in.PrecioAnterior)
	if err != nil {
		return entities.Quotation{}, err
	}
	precioCompetencia, err := optionalAmount("precioCompetencia", in.PrecioCompetencia)
	if err != nil {
		return entities.Quotation{}, err
	}
	fechaDecision, err := parseFechaDecision(in.FechaDecision)
	if err != nil {
		return entities.Quotation{}, err
	}

	clienteFinal := ""
	if in.Licitacion {
		clienteFinal = strings.TrimSpace(in.ClienteFinal)
	}

	return entities.Quotation{
		Cliente:             cliente,
		Tarifa:              tarifa,
		Articulos:           articulos,
		Estado:              entities.EstadoPendiente,
		Vendedor:            vendedor,
		StockDisponible:     in.StockDisponible,
		CompradoAntes:       in.CompradoAntes,
		PrecioAnterior:      precioAnterior,
		FechaDecision:       fechaDecision,
		PlazoEntrega:        strings.TrimSpace(in.PlazoEntrega),
		LugarEntrega:        strings.TrimSpace(in.LugarEntrega),
		ComentarioStock:     strings.TrimSpace(in.ComentarioStock),
		Licitacion:          in.Licitacion,
		ClienteFinal:        clienteFinal,
		FormaPagoActual:     strings.TrimSpace(in.FormaPagoActual),
		FormaPagoSolicitada: strings.TrimSpace(in.FormaPagoSolicitada),
		ComentariosCliente:  strings.TrimSpace(in.ComentariosCliente),
		PrecioCompetencia:   precioCompetencia,
		ComentariosPrivados: []entities.ComentarioPrivado{},
	}, nil
}

func normalizeLineItem(i int, a LineItemInput) (entities.LineItem, error) {
	field := func(name string) string { return fmt.Sprintf("articulos[%d].%s", i, name) }

	unidades := decimal.Zero
	if a.Unidades != nil {
		unidades = *a.Unidades
	}
	if unidades.IsNegative() {
		return entities.LineItem{}, invalid(field("unidades"), "must not be negative")
	}
	if !unidades.Equal(unidades.Truncate(0)) {
		return entities.LineItem{}, invalid(field("unidades"), "must be an integer")
	}

	precioCliente := decimal.Zero
	if a.PrecioCliente != nil {
		precioCliente = *a.PrecioCliente
	}
	if precioCliente.IsNegative() {
		return entities.LineItem{}, invalid(field("precioCliente"), "must not be negative")
	}

	li := entities.LineItem{
		Articulo:      strings.TrimSpace(a.Articulo),
		URL:           strings.TrimSpace(a.URL),
		Unidades:      unidades.IntPart(),
		PrecioCliente: precioCliente,
	}
	var err error
	if li.PrecioSolicitado, err = optionalAmount(field("precioSolicitado"), a.PrecioSolicitado); err != nil {
		return entities.LineItem{}, err
	}
	if li.PrecioCotizado, err = optionalAmount(field("precioCotizado"), a.PrecioCotizado); err != nil {
		return entities.LineItem{}, err
	}
	if li.PrecioCompetencia, err = optionalAmount(field("precioCompetencia"), a.PrecioCompetencia); err != nil {
		return entities.LineItem{}, err
	}
	return li, nil
}

// optionalAmount copies a supplied amount. A nil input stays nil so the key
// is omitted from the stored document.
func optionalAmount(field string, v *decimal.Decimal) (*decimal.Decimal, error) {
	if v == nil {
		return nil, nil
	}
	if v.IsNegative() {
		return nil, invalid(field, "must not be negative")
	}
	out := *v
	return &out, nil
}

func parseFechaDecision(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, invalid("fechaDecision", "expected YYYY-MM-DD or RFC3339")
}

// CheckNoMissingValues walks the document form of q and fails when any field
// other than the explicitly nullable ones resolves to no value.
func CheckNoMissingValues(q entities.Quotation) error {
	raw, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("encode quotation document: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("decode quotation document: %w", err)
	}

	var missing []string
	var walk func(v any, path, key string)
	walk = func(v any, path, key string) {
		switch t := v.(type) {
		case nil:
			if !nullableFields[key] || path != "root."+key {
				missing = append(missing, path)
			}
		case map[string]any:
			keys := make([]string, 0, len(t))
			for k := range t {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				walk(t[k], path+"."+k, k)
			}
		case []any:
			for i, it := range t {
				walk(it, fmt.Sprintf("%s[%d]", path, i), "")
			}
		}
	}
	walk(doc, "root", "")

	if len(missing) > 0 {
		return invalid("", "missing values at "+strings.Join(missing, ", "))
	}
	return nil
}
