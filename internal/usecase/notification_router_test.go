package usecase

import (
	"context"
	"errors"
	"testing"

	"cotizaciones/internal/domain/entities"
	mock_interfaces "cotizaciones/internal/usecase/interfaces/mocks"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

var testRecipients = Recipients{Supervisor: "vanessa@comercialav.com", Purchasing: "compras@comercialav.com"}

func routedQuotation(stock bool) entities.Quotation {
	unit := decimal.RequireFromString("12.50")
	return entities.Quotation{
		ID:              "q-1",
		Numero:          "COT-2025-09-007",
		Cliente:         "ACME",
		Tarifa:          "PVP",
		Vendedor:        entities.Vendedor{UID: "u-1", Nombre: "Laura", Email: "laura@comercialav.com"},
		StockDisponible: stock,
		Estado:          entities.EstadoPendiente,
		Articulos: []entities.LineItem{
			{Articulo: "Cable", Unidades: 4, PrecioSolicitado: &unit},
		},
	}
}

func TestNotificationRouter_Route(t *testing.T) {
	r := NewNotificationRouter(nil, testRecipients, entities.PriceFieldSolicitado)

	tests := []struct {
		name  string
		kind  entities.TransitionKind
		stock bool
		want  Route
	}{
		{
			name:  "solicitud without stock includes purchasing",
			kind:  entities.TransitionSolicitud,
			stock: false,
			want: Route{
				Recipients: []string{"laura@comercialav.com", "vanessa@comercialav.com", "compras@comercialav.com"},
				Kind:       entities.NotificationSolicitud,
			},
		},
		{
			name:  "solicitud with stock skips purchasing",
			kind:  entities.TransitionSolicitud,
			stock: true,
			want: Route{
				Recipients: []string{"laura@comercialav.com", "vanessa@comercialav.com"},
				Kind:       entities.NotificationSolicitud,
			},
		},
		{
			name: "cotizada",
			kind: entities.TransitionCotizada,
			want: Route{Recipients: []string{"laura@comercialav.com", "vanessa@comercialav.com"}, Kind: entities.NotificationCotizada},
		},
		{
			name: "ganada",
			kind: entities.TransitionGanada,
			want: Route{Recipients: []string{"laura@comercialav.com", "vanessa@comercialav.com"}, Kind: entities.NotificationGanada},
		},
		{
			name: "perdida",
			kind: entities.TransitionPerdida,
			want: Route{Recipients: []string{"laura@comercialav.com", "vanessa@comercialav.com"}, Kind: entities.NotificationPerdida},
		},
		{
			name: "private comment only to purchasing",
			kind: entities.TransitionComentarioPrivado,
			want: Route{Recipients: []string{"compras@comercialav.com"}, Kind: entities.NotificationComentarioPrivado},
		},
		{
			name: "reopen is a generic update",
			kind: entities.TransitionReabierta,
			want: Route{Recipients: []string{"laura@comercialav.com", "vanessa@comercialav.com"}, Kind: entities.NotificationActualizacion},
		},
		{
			name: "unknown kind falls back",
			kind: entities.TransitionKind("archivada"),
			want: Route{Recipients: []string{"laura@comercialav.com", "vanessa@comercialav.com"}, Kind: entities.NotificationActualizacion},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Route(tt.kind, routedQuotation(tt.stock))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNotificationRouter_RouteDedupesSupervisorVendor(t *testing.T) {
	r := NewNotificationRouter(nil, testRecipients, entities.PriceFieldSolicitado)
	q := routedQuotation(true)
	q.Vendedor.Email = "Vanessa@ComercialAV.com"

	got := r.Route(entities.TransitionCotizada, q)
	assert.Equal(t, []string{"Vanessa@ComercialAV.com"}, got.Recipients)
}

func TestNotificationRouter_DispatchSuccess(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	notifier := mock_interfaces.NewMockINotifier(ctrl)

	notifier.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, n entities.Notification) error {
		if n.Subject != "Solicitud de cotización #COT-2025-09-007" {
			t.Fatalf("unexpected subject %q", n.Subject)
		}
		if !n.Payload.TotalCotizado.Equal(decimal.RequireFromString("50")) {
			t.Fatalf("expected total 50, got %s", n.Payload.TotalCotizado)
		}
		if n.Payload.Vendedor != "Laura" {
			t.Fatalf("expected vendedor Laura, got %q", n.Payload.Vendedor)
		}
		return nil
	}).Times(1)

	r := NewNotificationRouter(notifier, testRecipients, entities.PriceFieldSolicitado)
	res := r.Dispatch(context.Background(), entities.TransitionSolicitud, routedQuotation(false), "")

	if !res.OK || res.Error != "" {
		t.Fatalf("expected ok result, got %+v", res)
	}
	if res.Kind != entities.NotificationSolicitud || len(res.Recipients) != 3 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestNotificationRouter_DispatchFailureIsReportedOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	notifier := mock_interfaces.NewMockINotifier(ctrl)
	notifier.EXPECT().Send(gomock.Any(), gomock.Any()).Return(errors.New("smtp: 421 service not available")).Times(1)

	r := NewNotificationRouter(notifier, testRecipients, entities.PriceFieldSolicitado)
	res := r.Dispatch(context.Background(), entities.TransitionGanada, routedQuotation(true), "")

	if res.OK {
		t.Fatalf("expected failure")
	}
	assert.Contains(t, res.Error, "421")
	assert.Equal(t, entities.NotificationGanada, res.Kind)
}

func TestNotificationRouter_DispatchRecoversPanics(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	notifier := mock_interfaces.NewMockINotifier(ctrl)
	notifier.EXPECT().Send(gomock.Any(), gomock.Any()).DoAndReturn(func(context.Context, entities.Notification) error {
		panic("boom")
	})

	r := NewNotificationRouter(notifier, testRecipients, entities.PriceFieldSolicitado)
	res := r.Dispatch(context.Background(), entities.TransitionCotizada, routedQuotation(true), "")
	assert.False(t, res.OK)
	assert.Contains(t, res.Error, "boom")
}

func TestNotificationRouter_DispatchWithoutRecipientsOrNotifier(t *testing.T) {
	r := NewNotificationRouter(nil, testRecipients, entities.PriceFieldSolicitado)
	res := r.Dispatch(context.Background(), entities.TransitionSolicitud, routedQuotation(false), "")
	assert.False(t, res.OK)
	assert.NotEmpty(t, res.Error)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	notifier := mock_interfaces.NewMockINotifier(ctrl)

	r = NewNotificationRouter(notifier, Recipients{}, entities.PriceFieldSolicitado)
	res = r.Dispatch(context.Background(), entities.TransitionComentarioPrivado, routedQuotation(true), "ojo")
	assert.False(t, res.OK)
	assert.Empty(t, res.Recipients)
}
