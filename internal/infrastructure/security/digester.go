package security

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/rafabene/sample-app/internal/domain/ports"
)

// tokenBytes gera tokens de 22 caracteres em base64 URL-safe
const tokenBytes = 16

// BcryptDigester implementa ports.Digester usando bcrypt
type BcryptDigester struct {
	cost int
}

var _ ports.Digester = (*BcryptDigester)(nil)

// NewBcryptDigester cria um digester com o custo informado.
// Custos fora da faixa do bcrypt caem para bcrypt.DefaultCost.
func NewBcryptDigester(cost int) *BcryptDigester {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptDigester{cost: cost}
}

// CostFor escolhe o custo do bcrypt para o ambiente: mínimo em testes
func CostFor(env string, configured int) int {
	if env == "test" {
		return bcrypt.MinCost
	}
	return configured
}

// Cost retorna o custo em uso
func (d *BcryptDigester) Cost() int {
	return d.cost
}

// Digest gera o hash com salt do texto puro
func (d *BcryptDigester) Digest(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), d.cost)
	if err != nil {
		return "", fmt.Errorf("failed to digest value: %w", err)
	}
	return string(hash), nil
}

// Matches compara o texto puro com o digest em tempo constante
func (d *BcryptDigester) Matches(digest, plaintext string) bool {
	if digest == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}

// NewToken gera um token aleatório seguro para URL
func NewToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
