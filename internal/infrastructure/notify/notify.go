// Package notify holds the outbound notification transports.
package notify

import (
	"fmt"

	"cotizaciones/internal/config"
	"cotizaciones/internal/usecase/interfaces"
)

// FromConfig builds the transports named by NOTIFIER. The returned close
// function releases any pooled connections.
func FromConfig(cfg *config.Config) (interfaces.INotifier, func() error, error) {
	var (
		transports Fanout
		closers    []func() error
	)
	for _, name := range cfg.Notifiers() {
		switch name {
		case "log":
			transports = append(transports, LogNotifier{})
		case "smtp":
			mailer := NewEmailNotifier(cfg)
			transports = append(transports, mailer)
			closers = append(closers, mailer.Close)
		case "slack":
			transports = append(transports, NewSlackNotifier(cfg.SlackAPIURL, cfg.SlackBotToken, nil))
		default:
			return nil, nil, fmt.Errorf("unknown notifier %q", name)
		}
	}

	closeAll := func() error {
		for _, c := range closers {
			if err := c(); err != nil {
				return err
			}
		}
		return nil
	}

	switch len(transports) {
	case 0:
		return LogNotifier{}, closeAll, nil
	case 1:
		return transports[0], closeAll, nil
	default:
		return transports, closeAll, nil
	}
}
