package valueobjects

import (
	"errors"
	"regexp"
	"strings"
)

// MaxEmailLength é o tamanho máximo aceito para um email
const MaxEmailLength = 255

var (
	ErrEmptyEmail    = errors.New("can't be blank")
	ErrEmailTooLong  = errors.New("is too long (maximum is 255 characters)")
	ErrInvalidEmail  = errors.New("is invalid")
	validEmailRegexp = regexp.MustCompile(`(?i)\A[\w+\-.]+@[a-z\d\-.]+\.[a-z]+\z`)
)

// Email é um value object que garante que emails sejam sempre válidos
// e normalizados em minúsculas
type Email struct {
	value string
}

// NewEmail cria um novo Email validado
func NewEmail(email string) (Email, error) {
	email = strings.TrimSpace(email)

	if email == "" {
		return Email{}, ErrEmptyEmail
	}

	if len(email) > MaxEmailLength {
		return Email{}, ErrEmailTooLong
	}

	if !isValidEmail(email) {
		return Email{}, ErrInvalidEmail
	}

	return Email{value: strings.ToLower(email)}, nil
}

// String retorna o valor do email
func (e Email) String() string {
	return e.value
}

// IsZero indica se o email não foi inicializado
func (e Email) IsZero() bool {
	return e.value == ""
}

// isValidEmail valida o formato do email
func isValidEmail(email string) bool {
	return validEmailRegexp.MatchString(email)
}
