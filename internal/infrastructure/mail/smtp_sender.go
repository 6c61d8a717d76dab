package mail

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/rafabene/sample-app/internal/domain/ports"
	"github.com/rafabene/sample-app/internal/infrastructure/config"
)

// dialer é a parte do gomail.Dialer usada pelo SMTPSender
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPSender envia emails via SMTP com gomail
type SMTPSender struct {
	cfg    config.SMTPConfig
	dialer dialer
	logger ports.Logger
}

// NewSMTPSender cria um SMTPSender a partir da configuração
func NewSMTPSender(cfg config.SMTPConfig, logger ports.Logger) *SMTPSender {
	return &SMTPSender{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
		logger: logger,
	}
}

// Send entrega a mensagem; sem SMTP_HOST o envio é apenas registrado em log
func (s *SMTPSender) Send(_ context.Context, msg Message) error {
	if s.cfg.Host == "" {
		s.logger.Warn("smtp host not configured, skipping email", "kind", msg.Kind, "to", msg.To)
		return nil
	}
	if strings.TrimSpace(msg.To) == "" {
		return fmt.Errorf("empty recipient")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.TextBody)
	m.AddAlternative("text/html", msg.HTMLBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	s.logger.Info("email sent", "kind", msg.Kind, "to", msg.To)
	return nil
}
