package middleware

import (
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rafabene/sample-app/internal/infrastructure/i18n"
)

// LanguageCookie guarda a escolha explícita de idioma do usuário
const LanguageCookie = "lang"

// I18nMiddleware gerencia a detecção de idioma nas requisições
type I18nMiddleware struct {
	i18nService *i18n.Service
}

// NewI18nMiddleware cria um novo middleware de i18n
func NewI18nMiddleware(i18nService *i18n.Service) *I18nMiddleware {
	return &I18nMiddleware{
		i18nService: i18nService,
	}
}

// DetectLanguage detecta e configura o idioma da requisição
// Prioridade:
// 1. Query parameter ?lang=pt-BR
// 2. Cookie lang
// 3. Accept-Language, respeitando os pesos q
// 4. Idioma padrão
func (m *I18nMiddleware) DetectLanguage() gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := m.match(c.Query("lang"))

		if lang == "" {
			if cookie, err := c.Cookie(LanguageCookie); err == nil {
				lang = m.match(cookie)
			}
		}

		if lang == "" {
			lang = m.parseAcceptLanguage(c.GetHeader("Accept-Language"))
		}

		if lang == "" {
			lang = m.i18nService.GetDefaultLanguage()
		}

		c.Set(i18n.LanguageContextKey, lang)
		c.Set(i18n.ServiceContextKey, m.i18nService)
		c.Header("Content-Language", lang)

		c.Next()
	}
}

// match resolve o idioma suportado ignorando maiúsculas; "pt-br" vira "pt-BR"
func (m *I18nMiddleware) match(lang string) string {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return ""
	}
	for _, supported := range m.i18nService.GetSupportedLanguages() {
		if strings.EqualFold(supported, lang) {
			return supported
		}
	}
	return ""
}

type weightedLanguage struct {
	tag    string
	weight float64
}

// parseAcceptLanguage retorna o idioma suportado de maior peso
// Exemplo: "fr;q=0.9,pt-BR;q=0.8,en;q=0.95" -> "en"
func (m *I18nMiddleware) parseAcceptLanguage(acceptLang string) string {
	if acceptLang == "" {
		return ""
	}

	var candidates []weightedLanguage
	for _, part := range strings.Split(acceptLang, ",") {
		tag, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		weight := 1.0
		if q, ok := strings.CutPrefix(strings.TrimSpace(params), "q="); ok {
			if parsed, err := strconv.ParseFloat(q, 64); err == nil {
				weight = parsed
			}
		}
		if tag != "" && weight > 0 {
			candidates = append(candidates, weightedLanguage{tag: tag, weight: weight})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].weight > candidates[j].weight
	})

	for _, candidate := range candidates {
		if lang := m.match(candidate.tag); lang != "" {
			return lang
		}
		// Variação sem região (en-US -> en)
		if base, _, found := strings.Cut(candidate.tag, "-"); found {
			if lang := m.match(base); lang != "" {
				return lang
			}
		}
	}

	return ""
}
