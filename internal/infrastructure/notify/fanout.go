package notify

import (
	"context"
	"errors"

	"cotizaciones/internal/domain/entities"
	"cotizaciones/internal/usecase/interfaces"
)

var _ interfaces.INotifier = Fanout(nil)

// Fanout sends through every transport in order and joins their errors.
// One failing transport does not stop the others.
type Fanout []interfaces.INotifier

func (f Fanout) Send(ctx context.Context, n entities.Notification) error {
	var errs []error
	for _, t := range f {
		if err := t.Send(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
