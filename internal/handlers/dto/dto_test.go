package dto

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/rafabene/sample-app/internal/domain/errors"
	"github.com/rafabene/sample-app/internal/infrastructure/i18n"
)

func testContext(t *testing.T, lang string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	service, err := i18n.NewEmbeddedService("en")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/users/42", nil)
	c.Set("base_url", "https://api.example.com")
	c.Set(i18n.ServiceContextKey, service)
	c.Set(i18n.LanguageContextKey, lang)
	return c, w
}

func TestNotFoundErrorResponse(t *testing.T) {
	c, w := testContext(t, "pt-BR")

	Abort(c, NotFoundErrorResponseI18n(c, "Usuário"))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "https://api.example.com/problems/not-found", body["type"])
	assert.Equal(t, "Não Encontrado", body["title"])
	assert.Equal(t, "Usuário não encontrado", body["detail"])
	assert.Equal(t, "/api/v1/users/42", body["instance"])
	assert.EqualValues(t, 404, body["status"])
}

func TestValidationErrorResponse(t *testing.T) {
	c, w := testContext(t, "en")

	verr := domainerrors.NewValidationError()
	verr.Add("password", "is too short (minimum is 6 characters)")
	verr.Add("email", "is invalid")

	Abort(c, ValidationErrorResponseI18n(c, FromValidationError(verr)))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, http.StatusBadRequest, body.Status)
	require.Len(t, body.Errors, 2)
	assert.Equal(t, "email", body.Errors[0].Field, "fields are sorted")
	assert.Equal(t, "password", body.Errors[1].Field)
}

func TestT_WithoutService(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Equal(t, "error.user_not_found", T(c, "error.user_not_found"))
	assert.Equal(t, "en", GetLanguage(c))
}

func TestBindingErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	var captured []ValidationError
	router.POST("/login", func(c *gin.Context) {
		var req LoginRequest
		captured = BindingErrors(c.ShouldBindJSON(&req))
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":""}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Len(t, captured, 2)
	assert.Equal(t, ValidationError{Field: "email", Message: "can't be blank", Tag: "required"}, captured[0])
	assert.Equal(t, ValidationError{Field: "password", Message: "can't be blank", Tag: "required"}, captured[1])

	assert.Nil(t, BindingErrors(&json.SyntaxError{}), "malformed body is not a field error")
}

