package interfaces

import (
	"context"

	"cotizaciones/internal/domain/entities"
)

// INotifier abstracts outbound delivery (email, Slack, queue).
//
// Delivery is best-effort: callers attempt a notification once and never
// retry. A returned error means the attempt failed.
type INotifier interface {
	Send(ctx context.Context, n entities.Notification) error
}
