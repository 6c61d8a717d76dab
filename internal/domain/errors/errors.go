package errors

import (
	"errors"
	"sort"
	"strings"
)

// Business errors
// Nota: Estes são códigos de erro (message IDs para i18n).
// As traduções devem estar em internal/infrastructure/i18n/locales/*.json
var (
	ErrUserNotFound         = errors.New("error.user_not_found")
	ErrMicropostNotFound    = errors.New("error.micropost_not_found")
	ErrEmailAlreadyExists   = errors.New("error.email_already_exists")
	ErrInvalidCredentials   = errors.New("error.invalid_credentials")
	ErrAccountNotActivated  = errors.New("error.account_not_activated")
	ErrAccountActivated     = errors.New("error.account_already_activated")
	ErrInvalidToken         = errors.New("error.invalid_token")
	ErrPasswordResetExpired = errors.New("error.password_reset_expired")
	ErrSelfFollow           = errors.New("error.self_follow")
	ErrUnauthorized         = errors.New("error.unauthorized")
	ErrForbidden            = errors.New("error.forbidden")
)

// Domain errors
// Nota: Estes são códigos de erro (message IDs para i18n).
// As traduções devem estar em internal/infrastructure/i18n/locales/*.json
var (
	ErrInvalidEmail = errors.New("error.invalid_email")
)

// ProblemType define tipos de problemas (URIs RFC 7807)
// Nota: O domínio base virá de configuração (API_BASE_URL)
//
//nolint:misspell
const (
	ProblemTypeValidation   = "/problems/validation-error"
	ProblemTypeNotFound     = "/problems/not-found"
	ProblemTypeConflict     = "/problems/conflict"
	ProblemTypeUnauthorized = "/problems/unauthorized"
	ProblemTypeForbidden    = "/problems/forbidden"
	ProblemTypeExpired      = "/problems/expired"
	ProblemTypeInternal     = "/problems/internal-error"
	ProblemTypeBadRequest   = "/problems/bad-request"
)

// ValidationError agrupa mensagens de validação por campo
type ValidationError struct {
	Fields map[string][]string
}

// NewValidationError cria um ValidationError vazio
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string][]string)}
}

// Add registra uma mensagem para o campo
func (e *ValidationError) Add(field, message string) {
	e.Fields[field] = append(e.Fields[field], message)
}

// HasErrors indica se algum campo falhou
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// On retorna as mensagens de um campo
func (e *ValidationError) On(field string) []string {
	return e.Fields[field]
}

// Error formata as mensagens em ordem alfabética de campo, ex.: "email is invalid; name can't be blank"
func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		for _, msg := range e.Fields[field] {
			parts = append(parts, field+" "+msg)
		}
	}
	return strings.Join(parts, "; ")
}

// AsValidationError extrai um *ValidationError da cadeia de erros
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
