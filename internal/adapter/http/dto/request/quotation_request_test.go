package request

import (
	"encoding/json"
	"testing"

	"cotizaciones/internal/domain/lifecycle"

	"github.com/shopspring/decimal"
)

func decode(t *testing.T, body string) CreateQuotationRequest {
	t.Helper()
	var r CreateQuotationRequest
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return r
}

func TestCreateQuotationRequest_CanonicalShape(t *testing.T) {
	r := decode(t, `{
		"cliente": "ACME",
		"tarifa": "PVP",
		"stockDisponible": true,
		"precioAnterior": null,
		"fechaDecision": null,
		"precioCompetencia": 95.5,
		"comentariosCliente": "urgente",
		"articulos": [{"articulo": "Monitor", "unidades": 2, "precioCliente": "110.00"}]
	}`)
	in := r.ToInput()

	if in.Cliente != "ACME" || in.Tarifa != "PVP" || !in.StockDisponible {
		t.Fatalf("unexpected input %+v", in)
	}
	if in.PrecioAnterior != nil || in.FechaDecision != "" {
		t.Fatalf("null fields must stay empty: %+v", in)
	}
	if in.PrecioCompetencia == nil || !in.PrecioCompetencia.Equal(decimal.RequireFromString("95.5")) {
		t.Fatalf("unexpected precioCompetencia %v", in.PrecioCompetencia)
	}
	if in.ComentariosCliente != "urgente" {
		t.Fatalf("unexpected comentariosCliente %q", in.ComentariosCliente)
	}
	if len(in.Articulos) != 1 || in.Articulos[0].PrecioSolicitado != nil {
		t.Fatalf("unexpected articulos %+v", in.Articulos)
	}
	if !in.Articulos[0].Unidades.Equal(decimal.NewFromInt(2)) {
		t.Fatalf("unexpected unidades %v", in.Articulos[0].Unidades)
	}
}

func TestCreateQuotationRequest_LegacyShapes(t *testing.T) {
	r := decode(t, `{
		"cliente": "ignored",
		"precioCompet": 80,
		"comentarios": "llamar antes",
		"resumen": {
			"cliente": "ACME",
			"tarifa": "Distribuidor",
			"licitacion": true,
			"clienteFinal": "Ayuntamiento",
			"fechaDecision": "2025-10-01",
			"articulos": [{"articulo": "Switch", "unidades": 1}]
		}
	}`)
	in := r.ToInput()

	if in.Cliente != "ACME" || in.Tarifa != "Distribuidor" {
		t.Fatalf("resumen must win: %+v", in)
	}
	if !in.Licitacion || in.ClienteFinal != "Ayuntamiento" || in.FechaDecision != "2025-10-01" {
		t.Fatalf("unexpected nested fields: %+v", in)
	}
	if in.PrecioCompetencia == nil || !in.PrecioCompetencia.Equal(decimal.NewFromInt(80)) {
		t.Fatalf("precioCompet must map to precioCompetencia, got %v", in.PrecioCompetencia)
	}
	if in.ComentariosCliente != "llamar antes" {
		t.Fatalf("comentarios must map to comentariosCliente, got %q", in.ComentariosCliente)
	}
	if len(in.Articulos) != 1 || in.Articulos[0].Articulo != "Switch" {
		t.Fatalf("unexpected articulos %+v", in.Articulos)
	}
}

func TestWorkflowRequest_ToInput(t *testing.T) {
	in := WorkflowRequest{
		Workflow:         "cotizado",
		PreciosCotizados: []QuotedPriceRequest{{Index: 1, PrecioCotizado: decimal.NewFromInt(40)}},
	}.ToInput()
	if in.Workflow != "cotizado" || len(in.PreciosCotizados) != 1 || in.PreciosCotizados[0].Index != 1 {
		t.Fatalf("unexpected input %+v", in)
	}
	if in.Estado != "" || in.Comentario != "" {
		t.Fatalf("only workflow must be set: %+v", in)
	}
}

func TestListQuery_ToFilter(t *testing.T) {
	f, ok := ListQuery{Bucket: "quoted", Vendedor: " u-1 "}.ToFilter()
	if !ok || f.Bucket != lifecycle.BucketQuoted || f.VendedorUID != "u-1" {
		t.Fatalf("unexpected filter %+v (%v)", f, ok)
	}
	if _, ok := (ListQuery{Bucket: "archivadas"}).ToFilter(); ok {
		t.Fatalf("expected unknown bucket to be rejected")
	}
	f, ok = ListQuery{Pendientes: true}.ToFilter()
	if !ok || !f.Pendientes || f.Bucket != "" {
		t.Fatalf("unexpected filter %+v", f)
	}
}
