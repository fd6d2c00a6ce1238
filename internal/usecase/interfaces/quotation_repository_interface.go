package interfaces

import (
	"context"
	"errors"

	"cotizaciones/internal/domain/entities"
)

// IQuotationRepository abstracts document-store persistence for Quotation.
//
// The quotation service must be able to:
//   - create a quotation (the store assigns the id when empty)
//   - read one quotation by id, or every quotation for list views
//   - update lifecycle fields in place (last writer wins)
//
// Lookups that find nothing return a zero Quotation and a nil error. List
// returns quotations in no particular order. UpdateLifecycle returns
// ErrQuotationClosed when the change moves estado or workflow and the stored
// quotation is already ganada or perdida.

// ErrQuotationClosed reports that the stored quotation was closed by the time
// the write landed.
var ErrQuotationClosed = errors.New("quotation closed in store")

type IQuotationRepository interface {
	Create(ctx context.Context, q entities.Quotation) (entities.Quotation, error)
	GetByID(ctx context.Context, id string) (entities.Quotation, error)
	List(ctx context.Context) ([]entities.Quotation, error)
	UpdateLifecycle(ctx context.Context, id string, change entities.LifecycleChange) (entities.Quotation, error)
}
