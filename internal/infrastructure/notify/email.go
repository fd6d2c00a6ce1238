package notify

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/smtp"
	"sync"
	"time"

	"cotizaciones/internal/config"
	"cotizaciones/internal/domain/entities"
	"cotizaciones/internal/usecase/interfaces"

	"github.com/jordan-wright/email"
)

const (
	implicitTLSPort = 465
	poolSize        = 2
	sendTimeout     = 15 * time.Second
)

var _ interfaces.INotifier = (*EmailNotifier)(nil)

// EmailNotifier delivers notifications over SMTP.
//
// Port 465 dials implicit TLS per message. Any other port uses a pool that is
// created on first send and released by Close.
type EmailNotifier struct {
	host      string
	port      int
	from      string
	addr      string
	auth      smtp.Auth
	tlsConfig *tls.Config

	mu     sync.Mutex
	pool   *email.Pool
	closed bool
}

func NewEmailNotifier(cfg *config.Config) *EmailNotifier {
	from := cfg.MailFrom
	if from == "" {
		from = cfg.SMTPUser
	}
	return &EmailNotifier{
		host:      cfg.SMTPHost,
		port:      cfg.SMTPPort,
		from:      from,
		addr:      fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		auth:      smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPHost),
		tlsConfig: &tls.Config{ServerName: cfg.SMTPHost},
	}
}

func (m *EmailNotifier) Send(ctx context.Context, n entities.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e := m.build(n)

	if m.port == implicitTLSPort {
		if err := e.SendWithTLS(m.addr, m.auth, m.tlsConfig); err != nil {
			return fmt.Errorf("mailer: send: %w", err)
		}
		return nil
	}

	pool, err := m.getPool()
	if err != nil {
		return err
	}
	if err := pool.Send(e, sendTimeout); err != nil {
		return fmt.Errorf("mailer: send: %w", err)
	}
	return nil
}

// Close releases pooled SMTP connections. Safe to call more than once.
func (m *EmailNotifier) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	if m.pool != nil {
		m.pool.Close()
		m.pool = nil
	}
	return nil
}

func (m *EmailNotifier) getPool() (*email.Pool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, errors.New("mailer: closed")
	}
	if m.pool == nil {
		p, err := email.NewPool(m.addr, poolSize, m.auth, m.tlsConfig)
		if err != nil {
			return nil, fmt.Errorf("mailer: pool: %w", err)
		}
		m.pool = p
	}
	return m.pool, nil
}

func (m *EmailNotifier) build(n entities.Notification) *email.Email {
	e := email.NewEmail()
	e.From = m.from
	e.To = n.To
	e.Subject = n.Subject
	e.Text = []byte(RenderText(n))
	return e
}
