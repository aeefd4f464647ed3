// Package i18n resolves the visitor language and serves the UI dictionaries.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

const (
	LangFR = "fr"
	LangEN = "en"
	LangAR = "ar"

	DefaultLang = LangFR
	// CookieName holds the visitor's explicit language choice.
	CookieName = "lang"
)

// Supported lists languages in display order.
var Supported = []string{LangFR, LangEN, LangAR}

func IsSupported(lang string) bool {
	switch lang {
	case LangFR, LangEN, LangAR:
		return true
	}
	return false
}

// Dir returns the text direction for lang.
func Dir(lang string) string {
	if lang == LangAR {
		return "rtl"
	}
	return "ltr"
}

// Detect prefers a supported cookie value, then the first supported base
// language of the Accept-Language header, then DefaultLang.
func Detect(cookie, acceptLanguage string) string {
	if c := strings.ToLower(strings.TrimSpace(cookie)); IsSupported(c) {
		return c
	}
	if acceptLanguage == "" {
		return DefaultLang
	}

	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil {
		return DefaultLang
	}
	for _, tag := range tags {
		base, _ := tag.Base()
		if b := base.String(); IsSupported(b) {
			return b
		}
	}
	return DefaultLang
}
