package usecase

import (
	"encoding/json"
	"errors"
	"testing"

	"cotizaciones/internal/domain/entities"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testVendedor = entities.Vendedor{UID: "u-1", Nombre: "Laura", Email: "laura@comercialav.com"}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestNormalizeQuotation_RequiredFields(t *testing.T) {
	cases := []struct {
		name  string
		in    CreateQuotationInput
		field string
	}{
		{name: "blank cliente", in: CreateQuotationInput{Cliente: "   ", Tarifa: "PVP"}, field: "cliente"},
		{name: "blank tarifa", in: CreateQuotationInput{Cliente: "ACME", Tarifa: ""}, field: "tarifa"},
		{name: "negative unidades", in: CreateQuotationInput{Cliente: "ACME", Tarifa: "PVP", Articulos: []LineItemInput{{Unidades: dec("-1")}}}, field: "articulos[0].unidades"},
		{name: "fractional unidades", in: CreateQuotationInput{Cliente: "ACME", Tarifa: "PVP", Articulos: []LineItemInput{{Unidades: dec("1.5")}}}, field: "articulos[0].unidades"},
		{name: "negative precio", in: CreateQuotationInput{Cliente: "ACME", Tarifa: "PVP", Articulos: []LineItemInput{{}, {PrecioSolicitado: dec("-3")}}}, field: "articulos[1].precioSolicitado"},
		{name: "bad fecha", in: CreateQuotationInput{Cliente: "ACME", Tarifa: "PVP", FechaDecision: "mañana"}, field: "fechaDecision"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NormalizeQuotation(tc.in, testVendedor)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestNormalizeQuotation_RequiresVendedor(t *testing.T) {
	_, err := NormalizeQuotation(CreateQuotationInput{Cliente: "ACME", Tarifa: "PVP"}, entities.Vendedor{})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "vendedor.uid", verr.Field)
}

func TestNormalizeQuotation_Defaults(t *testing.T) {
	q, err := NormalizeQuotation(CreateQuotationInput{
		Cliente:      "  ACME  ",
		Tarifa:       " Distribuidor ",
		Licitacion:   false,
		ClienteFinal: "ACME",
		Articulos: []LineItemInput{
			{Articulo: " Portátil ", URL: " https://example.com/p ", Unidades: dec("3"), PrecioCliente: dec("499.90"), PrecioSolicitado: dec("450")},
			{Articulo: "Ratón"},
		},
	}, testVendedor)
	require.NoError(t, err)

	assert.Equal(t, "ACME", q.Cliente)
	assert.Equal(t, "Distribuidor", q.Tarifa)
	assert.Equal(t, entities.EstadoPendiente, q.Estado)
	assert.Equal(t, entities.WorkflowNone, q.Workflow)
	assert.Equal(t, "", q.ClienteFinal)
	assert.Nil(t, q.PrecioAnterior)
	assert.Nil(t, q.FechaDecision)
	assert.NotNil(t, q.ComentariosPrivados)

	require.Len(t, q.Articulos, 2)
	assert.Equal(t, "Portátil", q.Articulos[0].Articulo)
	assert.Equal(t, "https://example.com/p", q.Articulos[0].URL)
	assert.EqualValues(t, 3, q.Articulos[0].Unidades)
	assert.True(t, decimal.RequireFromString("499.90").Equal(q.Articulos[0].PrecioCliente))
	assert.EqualValues(t, 0, q.Articulos[1].Unidades)
	assert.True(t, q.Articulos[1].PrecioCliente.IsZero())
	assert.Nil(t, q.Articulos[1].PrecioSolicitado)

	assert.True(t, decimal.RequireFromString("1350").Equal(q.TotalCotizado(entities.PriceFieldSolicitado)))
	assert.True(t, q.TotalCotizado(entities.PriceFieldCotizado).IsZero())
}

func TestNormalizeQuotation_ClienteFinalOnlyForLicitacion(t *testing.T) {
	q, err := NormalizeQuotation(CreateQuotationInput{Cliente: "ACME", Tarifa: "PVP", Licitacion: true, ClienteFinal: " Ayuntamiento "}, testVendedor)
	require.NoError(t, err)
	assert.Equal(t, "Ayuntamiento", q.ClienteFinal)

	q, err = NormalizeQuotation(CreateQuotationInput{Cliente: "ACME", Tarifa: "PVP", Licitacion: false, ClienteFinal: "ACME"}, testVendedor)
	require.NoError(t, err)
	assert.Equal(t, "", q.ClienteFinal)
}

func TestNormalizeQuotation_OmittedOptionalPricesAreAbsent(t *testing.T) {
	q, err := NormalizeQuotation(CreateQuotationInput{
		Cliente:   "ACME",
		Tarifa:    "PVP",
		Articulos: []LineItemInput{{Articulo: "Monitor", Unidades: dec("1"), PrecioCliente: dec("100"), PrecioSolicitado: dec("90")}},
	}, testVendedor)
	require.NoError(t, err)

	raw, err := json.Marshal(q.Articulos[0])
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))

	assert.Contains(t, doc, "precioSolicitado")
	assert.NotContains(t, doc, "precioCompetencia")
	assert.NotContains(t, doc, "precioCotizado")

	raw, err = json.Marshal(q)
	require.NoError(t, err)
	doc = nil
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.NotContains(t, doc, "precioCompetencia")
	assert.Contains(t, doc, "precioAnterior")
}

func TestNormalizeQuotation_FechaDecision(t *testing.T) {
	q, err := NormalizeQuotation(CreateQuotationInput{Cliente: "ACME", Tarifa: "PVP", FechaDecision: "2025-10-15"}, testVendedor)
	require.NoError(t, err)
	require.NotNil(t, q.FechaDecision)
	assert.Equal(t, "2025-10-15", q.FechaDecision.Format("2006-01-02"))
}

func TestCheckNoMissingValues(t *testing.T) {
	q, err := NormalizeQuotation(CreateQuotationInput{Cliente: "ACME", Tarifa: "PVP"}, testVendedor)
	require.NoError(t, err)
	require.NoError(t, CheckNoMissingValues(q))

	q.Articulos = nil
	err = CheckNoMissingValues(q)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Reason, "root.articulos")

	q.Articulos = []entities.LineItem{}
	q.ComentariosPrivados = nil
	err = CheckNoMissingValues(q)
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Reason, "root.comentariosPrivados")
}
