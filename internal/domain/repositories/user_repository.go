package repositories

import (
	"context"
	"time"

	"github.com/rafabene/sample-app/internal/domain/entities"
)

// UserRepository define a interface para persistência de usuários.
// Buscas retornam (nil, nil) quando o registro não existe.
type UserRepository interface {
	Create(ctx context.Context, user *entities.User) error
	FindByID(ctx context.Context, id string) (*entities.User, error)
	FindByEmail(ctx context.Context, email string) (*entities.User, error)
	// Update grava nome, email, password digest e admin; digests de token não são tocados
	Update(ctx context.Context, user *entities.User) error
	// UpdateDigest grava (ou limpa, com nil) um único digest de token
	UpdateDigest(ctx context.Context, id string, kind entities.TokenKind, digest *string) error
	MarkActivated(ctx context.Context, id string, at time.Time) error
	UpdateReset(ctx context.Context, id string, digest *string, sentAt *time.Time) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filters UserFilters) ([]*entities.User, error)
	Count(ctx context.Context, filters UserFilters) (int64, error)
}

// UserFilters contém filtros para listagem de usuários
type UserFilters struct {
	ActivatedOnly bool
	Pagination
}

// Pagination descreve uma página de resultados
type Pagination struct {
	Page     int // Página (começa em 1)
	PageSize int // Itens por página (default: 20, max: 100)
}

// Normalize aplica os limites padrão e retorna limit/offset
func (p Pagination) Normalize() (limit, offset int) {
	page := p.Page
	if page < 1 {
		page = 1
	}
	pageSize := p.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return pageSize, (page - 1) * pageSize
}
