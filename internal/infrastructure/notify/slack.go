package notify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"cotizaciones/internal/domain/entities"
	"cotizaciones/internal/usecase/interfaces"

	"github.com/slack-go/slack"
)

var _ interfaces.INotifier = (*SlackNotifier)(nil)

// SlackNotifier delivers a direct message to every recipient that has a
// Slack account under the same email address.
type SlackNotifier struct {
	api *slack.Client
}

// NewSlackNotifier builds a bot client. An empty apiURL keeps the public
// Slack endpoint.
func NewSlackNotifier(apiURL, token string, client *http.Client) *SlackNotifier {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	opts := []slack.Option{slack.OptionHTTPClient(client)}
	if apiURL != "" {
		opts = append(opts, slack.OptionAPIURL(strings.TrimRight(apiURL, "/")+"/"))
	}
	return &SlackNotifier{api: slack.New(token, opts...)}
}

// Send fails if any recipient could not be messaged; the remaining recipients
// are still attempted.
func (s *SlackNotifier) Send(ctx context.Context, n entities.Notification) error {
	text := RenderText(n)
	var errs []error
	for _, to := range n.To {
		if err := s.direct(ctx, to, text); err != nil {
			errs = append(errs, fmt.Errorf("slack %s: %w", to, err))
		}
	}
	return errors.Join(errs...)
}

func (s *SlackNotifier) direct(ctx context.Context, addr, text string) error {
	user, err := s.api.GetUserByEmailContext(ctx, addr)
	if err != nil {
		return fmt.Errorf("users.lookupByEmail: %w", err)
	}
	channel, _, _, err := s.api.OpenConversationContext(ctx, &slack.OpenConversationParameters{
		Users: []string{user.ID},
	})
	if err != nil {
		return fmt.Errorf("conversations.open: %w", err)
	}
	if _, _, err := s.api.PostMessageContext(ctx, channel.ID, slack.MsgOptionText(text, false)); err != nil {
		return fmt.Errorf("chat.postMessage: %w", err)
	}
	return nil
}
