package delivery

import (
	"context"
	"log/slog"
	"time"

	"github.com/coderguy16/sales-report-automation/internal/config"
	apperrors "github.com/coderguy16/sales-report-automation/internal/errors"
	"github.com/coderguy16/sales-report-automation/internal/files"
	"github.com/coderguy16/sales-report-automation/internal/validation"
)

// MaxAttachmentBytes is the largest report the mailer will attach. Common
// providers reject messages above 25 MB after base64 expansion.
const MaxAttachmentBytes = 18 << 20

// Option configures a Mailer
type Option func(*Mailer)

// WithTransport replaces the SMTP transport
func WithTransport(t Transport) Option {
	return func(m *Mailer) {
		m.transport = t
	}
}

// WithClock sets the clock used for the Date header
func WithClock(now func() time.Time) Option {
	return func(m *Mailer) {
		m.now = now
	}
}

// Mailer emails a finished report to the configured recipient
type Mailer struct {
	cfg       config.DeliveryConfig
	transport Transport
	validator *validation.FileValidator
	files     *files.Manager
	now       func() time.Time
	logger    *slog.Logger
}

// NewMailer creates a mailer for cfg. The configuration is checked on Send,
// not here.
func NewMailer(cfg config.DeliveryConfig, logger *slog.Logger, opts ...Option) *Mailer {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Mailer{
		cfg:       cfg,
		transport: NewSMTPTransport(cfg),
		validator: validation.NewFileValidator(logger),
		files:     files.NewManager(logger),
		now:       time.Now,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Send emails the workbook at artifactPath as an attachment. The artifact
// is only read. Every failure is an errors.ErrTypeDelivery error.
func (m *Mailer) Send(ctx context.Context, artifactPath string) error {
	if err := m.cfg.Validate(); err != nil {
		return apperrors.NewDeliveryError("invalid delivery configuration", err)
	}

	if err := m.validator.ValidateExcelFile(artifactPath); err != nil {
		return apperrors.NewDeliveryError("report is not deliverable", err).
			WithContext("path", artifactPath)
	}
	if err := m.validator.ValidateFileSize(artifactPath, MaxAttachmentBytes); err != nil {
		return apperrors.NewDeliveryError("report is not deliverable", err).
			WithContext("path", artifactPath)
	}

	content, err := m.files.ReadFile(artifactPath)
	if err != nil {
		return apperrors.NewDeliveryError("failed to read report", err).
			WithContext("path", artifactPath)
	}

	msg, err := NewReportMessage(m.cfg.Username, m.cfg.Recipient, m.cfg.Subject, artifactPath, content, m.now())
	if err != nil {
		return apperrors.NewDeliveryError("failed to build message", err)
	}

	m.logger.DebugContext(ctx, "sending report",
		slog.String("host", m.cfg.Host),
		slog.Int("port", m.cfg.Port),
		slog.String("recipient", m.cfg.Recipient),
		slog.Int("attachment_bytes", len(content)))

	if err := m.transport.Send(ctx, msg); err != nil {
		return apperrors.NewDeliveryError("failed to send report", err).
			WithContext("host", m.cfg.Host).
			WithContext("recipient", m.cfg.Recipient)
	}

	m.logger.InfoContext(ctx, "report sent",
		slog.String("recipient", m.cfg.Recipient),
		slog.String("attachment", artifactPath))
	return nil
}
