package mail

import (
	"context"

	"github.com/rafabene/sample-app/internal/domain/entities"
	"github.com/rafabene/sample-app/internal/domain/ports"
	"github.com/rafabene/sample-app/internal/infrastructure/metrics"
)

// DirectMailer implementa ports.Mailer enviando na própria requisição
type DirectMailer struct {
	composer *Composer
	sender   Sender
}

var _ ports.Mailer = (*DirectMailer)(nil)

// NewDirectMailer cria um DirectMailer
func NewDirectMailer(composer *Composer, sender Sender) *DirectMailer {
	return &DirectMailer{composer: composer, sender: sender}
}

func (m *DirectMailer) SendAccountActivation(ctx context.Context, user *entities.User, token string) error {
	msg, err := m.composer.AccountActivation(user, token)
	if err != nil {
		return err
	}
	return m.deliver(ctx, msg)
}

func (m *DirectMailer) SendPasswordReset(ctx context.Context, user *entities.User, token string) error {
	msg, err := m.composer.PasswordReset(user, token)
	if err != nil {
		return err
	}
	return m.deliver(ctx, msg)
}

func (m *DirectMailer) deliver(ctx context.Context, msg Message) error {
	if err := m.sender.Send(ctx, msg); err != nil {
		metrics.MailDeliveriesTotal.WithLabelValues(msg.Kind, "failed").Inc()
		return err
	}
	metrics.MailDeliveriesTotal.WithLabelValues(msg.Kind, "sent").Inc()
	return nil
}
