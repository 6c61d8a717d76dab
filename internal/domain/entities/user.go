package entities

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rafabene/sample-app/internal/domain/valueobjects"
)

const (
	// MaxNameLength é o tamanho máximo do nome
	MaxNameLength = 50
	// MinPasswordLength é o tamanho mínimo da senha em texto puro
	MinPasswordLength = 6
	// MaxPasswordLength é o limite do bcrypt em bytes
	MaxPasswordLength = 72
	// PasswordResetTTL é a validade de um pedido de redefinição de senha
	PasswordResetTTL = 2 * time.Hour
)

// User representa um usuário do sistema
type User struct {
	ID               string
	Name             string
	Email            valueobjects.Email
	PasswordDigest   string
	RememberDigest   *string
	ActivationDigest *string
	Activated        bool
	ActivatedAt      *time.Time
	ResetDigest      *string
	ResetSentAt      *time.Time
	Admin            bool
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// Tokens em texto puro, nunca persistidos. Só ficam preenchidos
	// na instância que os gerou.
	ActivationToken string
	RememberToken   string
	ResetToken      string
}

// IsAdmin verifica se o usuário é admin
func (u *User) IsAdmin() bool {
	return u.Admin
}

// Digest retorna o digest armazenado para o tipo de token
func (u *User) Digest(kind TokenKind) *string {
	switch kind {
	case TokenRemember:
		return u.RememberDigest
	case TokenActivation:
		return u.ActivationDigest
	case TokenReset:
		return u.ResetDigest
	default:
		return nil
	}
}

// SetDigest substitui o digest do tipo de token; nil limpa o campo
func (u *User) SetDigest(kind TokenKind, digest *string) {
	switch kind {
	case TokenRemember:
		u.RememberDigest = digest
	case TokenActivation:
		u.ActivationDigest = digest
	case TokenReset:
		u.ResetDigest = digest
	}
}

// Activate marca a conta como ativada
func (u *User) Activate(now time.Time) {
	u.Activated = true
	u.ActivatedAt = &now
}

// PasswordResetExpired indica se o pedido de redefinição passou de 2 horas.
// Sem pedido registrado também conta como expirado.
func (u *User) PasswordResetExpired(now time.Time) bool {
	if u.ResetSentAt == nil {
		return true
	}
	return u.ResetSentAt.Before(now.Add(-PasswordResetTTL))
}

// ClearReset descarta o estado de redefinição de senha
func (u *User) ClearReset() {
	u.ResetDigest = nil
	u.ResetSentAt = nil
	u.ResetToken = ""
}

// ValidateName valida regras de negócio do nome
func ValidateName(name string) []string {
	if strings.TrimSpace(name) == "" {
		return []string{"can't be blank"}
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return []string{"is too long (maximum is 50 characters)"}
	}
	return nil
}

// ValidatePassword valida a senha em texto puro. Senha em branco só é
// aceita quando allowBlank é verdadeiro (atualizações sem troca de senha).
func ValidatePassword(password, confirmation string, allowBlank bool) map[string][]string {
	errs := make(map[string][]string)

	if strings.TrimSpace(password) == "" {
		if !allowBlank {
			errs["password"] = append(errs["password"], "can't be blank")
		}
		return errs
	}

	if utf8.RuneCountInString(password) < MinPasswordLength {
		errs["password"] = append(errs["password"], "is too short (minimum is 6 characters)")
	}
	if len(password) > MaxPasswordLength {
		errs["password"] = append(errs["password"], "is too long (maximum is 72 characters)")
	}
	if password != confirmation {
		errs["password_confirmation"] = append(errs["password_confirmation"], "doesn't match Password")
	}

	return errs
}
