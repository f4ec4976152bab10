// Package i18n provides internationalization support for the assembly service.
// It handles translation of operator-facing notification and error messages.
package i18n

import (
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

const (
	// DefaultLocale is the default language locale (English).
	DefaultLocale = "en"
	// AcceptLanguageHeader is the HTTP header name for language preference.
	AcceptLanguageHeader = "Accept-Language"
)

var (
	// defaultTranslator is the singleton translator instance.
	defaultTranslator *Translator
	translatorOnce    sync.Once
)

// Translator handles message translation for different locales.
type Translator struct {
	messages map[string]map[string]string
}

// NewTranslator creates a new translator with the default messages.
func NewTranslator() *Translator {
	return &Translator{
		messages: getDefaultMessages(),
	}
}

// GetTranslator returns the default singleton translator instance.
func GetTranslator() *Translator {
	translatorOnce.Do(func() {
		defaultTranslator = NewTranslator()
	})
	return defaultTranslator
}

// Translate returns the translated message for the given key and locale.
// Falls back to DefaultLocale if the locale is not found.
func (t *Translator) Translate(key, locale string) string {
	if locale == "" {
		locale = DefaultLocale
	}

	localeMessages, ok := t.messages[locale]
	if !ok {
		localeMessages = t.messages[DefaultLocale]
	}

	msg, ok := localeMessages[key]
	if !ok {
		// Fallback to default locale
		if defaultMessages := t.messages[DefaultLocale]; defaultMessages != nil {
			if fallbackMsg, exists := defaultMessages[key]; exists {
				return fallbackMsg
			}
		}
		return key
	}

	return msg
}

// GetLocale extracts the locale from the gin context.
// Checks Accept-Language header and falls back to DefaultLocale.
func GetLocale(c *gin.Context) string {
	acceptLang := c.GetHeader(AcceptLanguageHeader)
	if acceptLang == "" {
		return DefaultLocale
	}

	// Parse Accept-Language header (e.g., "en-US,en;q=0.9,pt;q=0.8")
	parts := strings.Split(acceptLang, ",")
	if len(parts) > 0 {
		lang := strings.TrimSpace(strings.Split(parts[0], ";")[0])
		// Extract base language (e.g., "en" from "en-US")
		if idx := strings.Index(lang, "-"); idx > 0 {
			lang = lang[:idx]
		}
		// Normalize to lowercase
		lang = strings.ToLower(lang)
		// Validate it's a supported locale
		if _, ok := getDefaultMessages()[lang]; ok {
			return lang
		}
	}

	return DefaultLocale
}

// getDefaultMessages returns the default message translations.
func getDefaultMessages() map[string]map[string]string {
	return map[string]map[string]string{
		"en": {
			// Error messages
			"error.invalid_request":      "Invalid request",
			"error.invalid_request_body": "Invalid request body",
			"error.internal_error":       "An unexpected error occurred",
			"error.not_found":            "Not found",
			"error.rate_limit_exceeded":  "Too many requests, please try again later",
			"error.timeout":              "Request timed out",
			"error.packing_infeasible":   "No box configuration fits this order",
			"error.unallocated_portions": "Some portions did not fit in any box",

			// Operator notifications
			"scan.duplicate":          "Duplicate scan ignored",
			"scan.box_not_found":      "Scan the box barcode first",
			"scan.item_not_found":     "Item not found in this box",
			"scan.already_done":       "Item already verified",
			"scan.wrong_box":          "Item belongs to another box",
			"scan.box_not_ready":      "Weigh the box before scanning items",
			"weight.out_of_tolerance": "Weight outside the allowed range, re-weigh",
			"session.completed":       "All items verified, order assembled",
		},
		"pt": {
			// Error messages
			"error.invalid_request":      "Requisição inválida",
			"error.invalid_request_body": "Corpo da requisição inválido",
			"error.internal_error":       "Ocorreu um erro inesperado",
			"error.not_found":            "Não encontrado",
			"error.rate_limit_exceeded":  "Muitas requisições, tente novamente mais tarde",
			"error.timeout":              "A requisição expirou",
			"error.packing_infeasible":   "Nenhuma configuração de caixa atende este pedido",
			"error.unallocated_portions": "Algumas porções não couberam em nenhuma caixa",

			// Operator notifications
			"scan.duplicate":          "Leitura duplicada ignorada",
			"scan.box_not_found":      "Escaneie primeiro o código da caixa",
			"scan.item_not_found":     "Item não encontrado nesta caixa",
			"scan.already_done":       "Item já verificado",
			"scan.wrong_box":          "Item pertence a outra caixa",
			"scan.box_not_ready":      "Pese a caixa antes de escanear itens",
			"weight.out_of_tolerance": "Peso fora da faixa permitida, pese novamente",
			"session.completed":       "Todos os itens verificados, pedido montado",
		},
		"nl": {
			// Error messages
			"error.invalid_request":      "Ongeldig verzoek",
			"error.invalid_request_body": "Ongeldige aanvraag body",
			"error.internal_error":       "Er is een onverwachte fout opgetreden",
			"error.not_found":            "Niet gevonden",
			"error.rate_limit_exceeded":  "Te veel verzoeken, probeer het later opnieuw",
			"error.timeout":              "Verzoek verlopen",
			"error.packing_infeasible":   "Geen dooscombinatie past bij deze bestelling",
			"error.unallocated_portions": "Sommige porties pasten in geen enkele doos",

			// Operator notifications
			"scan.duplicate":          "Dubbele scan genegeerd",
			"scan.box_not_found":      "Scan eerst de barcode van de doos",
			"scan.item_not_found":     "Artikel niet gevonden in deze doos",
			"scan.already_done":       "Artikel al geverifieerd",
			"scan.wrong_box":          "Artikel hoort in een andere doos",
			"scan.box_not_ready":      "Weeg de doos voordat u artikelen scant",
			"weight.out_of_tolerance": "Gewicht buiten het toegestane bereik, weeg opnieuw",
			"session.completed":       "Alle artikelen geverifieerd, bestelling samengesteld",
		},
	}
}
