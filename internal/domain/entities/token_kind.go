package entities

// TokenKind identifica a família de token verificada contra um digest do usuário
type TokenKind string

const (
	TokenRemember   TokenKind = "remember"
	TokenActivation TokenKind = "activation"
	TokenReset      TokenKind = "reset"
)

// Valid verifica se o tipo é conhecido
func (k TokenKind) Valid() bool {
	switch k {
	case TokenRemember, TokenActivation, TokenReset:
		return true
	}
	return false
}

func (k TokenKind) String() string {
	return string(k)
}
