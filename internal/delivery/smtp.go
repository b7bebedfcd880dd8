package delivery

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"

	"github.com/coderguy16/sales-report-automation/internal/config"
)

// ImplicitTLSPort is the submission port that speaks TLS from the first byte
const ImplicitTLSPort = 465

// Transport submits a rendered message
type Transport interface {
	Send(ctx context.Context, msg *mail.Msg) error
}

// Ensure SMTPTransport implements Transport.
var _ Transport = (*SMTPTransport)(nil)

// SMTPTransport submits mail to an SMTP server with PLAIN auth over TLS:
// implicit TLS on port 465, mandatory STARTTLS on any other port.
type SMTPTransport struct {
	host     string
	port     int
	username string
	password string
	timeout  time.Duration
}

// NewSMTPTransport creates a transport for the server in cfg
func NewSMTPTransport(cfg config.DeliveryConfig) *SMTPTransport {
	return &SMTPTransport{
		host:     cfg.Host,
		port:     cfg.Port,
		username: cfg.Username,
		password: cfg.Password,
		timeout:  cfg.Timeout,
	}
}

// Send dials the server, authenticates and submits msg. Credentials are
// only sent once the connection is encrypted.
func (t *SMTPTransport) Send(ctx context.Context, msg *mail.Msg) error {
	client, err := mail.NewClient(t.host, t.options()...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send via %s:%d: %w", t.host, t.port, err)
	}
	return nil
}

func (t *SMTPTransport) options() []mail.Option {
	opts := []mail.Option{
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(t.username),
		mail.WithPassword(t.password),
		mail.WithTLSConfig(&tls.Config{
			ServerName: t.host,
			MinVersion: tls.VersionTLS12,
		}),
	}
	if t.timeout > 0 {
		opts = append(opts, mail.WithTimeout(t.timeout))
	}

	if t.port == ImplicitTLSPort {
		return append(opts, mail.WithSSLPort(false))
	}
	return append(opts, mail.WithPort(t.port), mail.WithTLSPolicy(mail.TLSMandatory))
}
