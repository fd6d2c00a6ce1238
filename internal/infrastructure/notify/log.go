package notify

import (
	"context"

	"cotizaciones/internal/domain/entities"
	"cotizaciones/internal/usecase/interfaces"

	"github.com/rs/zerolog/log"
)

var _ interfaces.INotifier = LogNotifier{}

// LogNotifier writes notifications to the application log. Used in development.
type LogNotifier struct{}

func (LogNotifier) Send(_ context.Context, n entities.Notification) error {
	log.Info().
		Str("kind", string(n.Kind)).
		Str("numero", n.Payload.Numero).
		Strs("to", n.To).
		Str("subject", n.Subject).
		Msg("notification")
	return nil
}
