package ports

// Digester gera e confere digests de mão única (senhas e tokens)
type Digester interface {
	Digest(plaintext string) (string, error)
	Matches(digest, plaintext string) bool
}

// TokenGenerator gera tokens aleatórios seguros para URL
type TokenGenerator func() (string, error)
