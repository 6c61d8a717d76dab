package http

import (
	"errors"

	"github.com/gin-gonic/gin"

	domainerrors "github.com/rafabene/sample-app/internal/domain/errors"
	"github.com/rafabene/sample-app/internal/domain/ports"
	"github.com/rafabene/sample-app/internal/domain/repositories"
	"github.com/rafabene/sample-app/internal/handlers/dto"
)

// respondError traduz erros de domínio em respostas RFC 7807
func respondError(c *gin.Context, logger ports.Logger, err error) {
	if verr, ok := domainerrors.AsValidationError(err); ok {
		dto.Abort(c, dto.ValidationErrorResponseI18n(c, dto.FromValidationError(verr)))
		return
	}

	switch {
	case errors.Is(err, domainerrors.ErrUserNotFound):
		dto.Abort(c, dto.NotFoundErrorResponseI18n(c, "User"))
	case errors.Is(err, domainerrors.ErrMicropostNotFound):
		dto.Abort(c, dto.NotFoundErrorResponseI18n(c, "Micropost"))
	case errors.Is(err, domainerrors.ErrEmailAlreadyExists),
		errors.Is(err, domainerrors.ErrAccountActivated):
		dto.Abort(c, dto.ConflictErrorResponseI18n(c, err.Error()))
	case errors.Is(err, domainerrors.ErrInvalidCredentials),
		errors.Is(err, domainerrors.ErrUnauthorized):
		dto.Abort(c, dto.UnauthorizedErrorResponseI18n(c, err.Error()))
	case errors.Is(err, domainerrors.ErrAccountNotActivated),
		errors.Is(err, domainerrors.ErrForbidden):
		dto.Abort(c, dto.ForbiddenErrorResponseI18n(c, err.Error()))
	case errors.Is(err, domainerrors.ErrInvalidToken),
		errors.Is(err, domainerrors.ErrSelfFollow),
		errors.Is(err, domainerrors.ErrInvalidEmail):
		dto.Abort(c, dto.BadRequestErrorResponseI18n(c, err.Error()))
	case errors.Is(err, domainerrors.ErrPasswordResetExpired):
		dto.Abort(c, dto.ExpiredErrorResponseI18n(c, err.Error()))
	default:
		logger.Error("request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err,
		)
		dto.Abort(c, dto.InternalErrorResponseI18n(c))
	}
}

// bindJSON faz o binding e responde 400 em caso de erro
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		abortBinding(c, err)
		return false
	}
	return true
}

// bindPagination lê page/page_size da query string
func bindPagination(c *gin.Context) (repositories.Pagination, bool) {
	var q dto.PaginationQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortBinding(c, err)
		return repositories.Pagination{}, false
	}
	return repositories.Pagination{Page: q.Page, PageSize: q.PageSize}, true
}

// pageMeta devolve page e page_size normalizados para a resposta
func pageMeta(p repositories.Pagination) (page, pageSize int) {
	limit, offset := p.Normalize()
	return offset/limit + 1, limit
}

func abortBinding(c *gin.Context, err error) {
	if fields := dto.BindingErrors(err); fields != nil {
		dto.Abort(c, dto.ValidationErrorResponseI18n(c, fields))
		return
	}
	dto.Abort(c, dto.BadRequestErrorResponseI18n(c, "error.bad_request.detail"))
}
