package response

import (
	"cotizaciones/internal/domain/entities"
	"cotizaciones/internal/domain/lifecycle"
	"cotizaciones/internal/usecase"

	"github.com/shopspring/decimal"
)

// QuotationResponse is the stored document plus its derived view and total.
type QuotationResponse struct {
	entities.Quotation
	lifecycle.View
	TotalCotizado decimal.Decimal `json:"totalCotizado" swaggertype:"number"`
}

type QuotationEnvelope struct {
	OK         bool              `json:"ok"`
	Cotizacion QuotationResponse `json:"cotizacion"`
}

type QuotationListResponse struct {
	OK           bool                `json:"ok"`
	Total        int                 `json:"total"`
	Cotizaciones []QuotationResponse `json:"cotizaciones"`
}

type NotificacionResponse struct {
	OK         bool     `json:"ok"`
	Error      string   `json:"error,omitempty"`
	Kind       string   `json:"kind"`
	Recipients []string `json:"recipients"`
}

// MutationResponse reports a committed write and the outcome of its
// notification. ok is true whenever the write committed, even if the
// notification failed.
type MutationResponse struct {
	OK           bool                 `json:"ok"`
	ID           string               `json:"id"`
	Numero       string               `json:"numero"`
	Estado       string               `json:"estado"`
	Workflow     string               `json:"workflow,omitempty"`
	Notificacion NotificacionResponse `json:"notificacion"`
}

func FromQuotationView(v usecase.QuotationView, field entities.PriceField) QuotationResponse {
	return QuotationResponse{
		Quotation:     v.Quotation,
		View:          v.View,
		TotalCotizado: v.Quotation.TotalCotizado(field),
	}
}

func FromQuotationViews(views []usecase.QuotationView, field entities.PriceField) QuotationListResponse {
	out := QuotationListResponse{OK: true, Total: len(views), Cotizaciones: make([]QuotationResponse, 0, len(views))}
	for _, v := range views {
		out.Cotizaciones = append(out.Cotizaciones, FromQuotationView(v, field))
	}
	return out
}

func FromMutation(res usecase.MutationResult) MutationResponse {
	recipients := res.Notification.Recipients
	if recipients == nil {
		recipients = []string{}
	}
	return MutationResponse{
		OK:       true,
		ID:       res.Quotation.ID,
		Numero:   res.Quotation.Numero,
		Estado:   string(res.Quotation.Estado),
		Workflow: string(res.Quotation.Workflow),
		Notificacion: NotificacionResponse{
			OK:         res.Notification.OK,
			Error:      res.Notification.Error,
			Kind:       string(res.Notification.Kind),
			Recipients: recipients,
		},
	}
}
