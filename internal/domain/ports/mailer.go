package ports

import (
	"context"

	"github.com/rafabene/sample-app/internal/domain/entities"
)

//go:generate mockgen -source=mailer.go -destination=mocks/mailer_mock.go -package=mocks

// Mailer entrega os emails de ativação de conta e de redefinição de senha
type Mailer interface {
	SendAccountActivation(ctx context.Context, user *entities.User, token string) error
	SendPasswordReset(ctx context.Context, user *entities.User, token string) error
}
