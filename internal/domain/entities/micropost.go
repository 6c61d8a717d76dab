package entities

import (
	"strings"
	"time"
	"unicode/utf8"
)

// MaxMicropostLength é o tamanho máximo do conteúdo de um micropost
const MaxMicropostLength = 140

// Micropost representa uma publicação curta de um usuário
type Micropost struct {
	ID        string
	UserID    string
	Content   string
	CreatedAt time.Time
}

// Validate valida o conteúdo do micropost
func (m *Micropost) Validate() map[string][]string {
	errs := make(map[string][]string)

	if m.UserID == "" {
		errs["user_id"] = append(errs["user_id"], "can't be blank")
	}

	switch {
	case strings.TrimSpace(m.Content) == "":
		errs["content"] = append(errs["content"], "can't be blank")
	case utf8.RuneCountInString(m.Content) > MaxMicropostLength:
		errs["content"] = append(errs["content"], "is too long (maximum is 140 characters)")
	}

	return errs
}
