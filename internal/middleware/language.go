package middleware

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/samims/ecowatt/internal/i18n"
)

type langKey struct{}

// LanguageFromContext returns the language set by RequireLanguage.
func LanguageFromContext(ctx context.Context) string {
	if lang, ok := ContextLanguage(ctx); ok {
		return lang
	}
	return i18n.DefaultLang
}

// ContextLanguage reports whether RequireLanguage ran for this request.
func ContextLanguage(ctx context.Context) (string, bool) {
	lang, ok := ctx.Value(langKey{}).(string)
	return lang, ok
}

// LanguageRedirect sends requests for the bare root to the detected
// language prefix. Everything else passes through.
func LanguageRedirect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			next.ServeHTTP(w, r)
			return
		}

		var cookie string
		if c, err := r.Cookie(i18n.CookieName); err == nil {
			cookie = c.Value
		}
		lang := i18n.Detect(cookie, r.Header.Get("Accept-Language"))

		target := "/" + lang
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}
		http.Redirect(w, r, target, http.StatusFound)
	})
}

// RequireLanguage validates the {lang} path parameter, answering 404 for
// anything unsupported, and remembers the choice in a cookie.
func RequireLanguage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := chi.URLParam(r, "lang")
		if !i18n.IsSupported(lang) {
			http.NotFound(w, r)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     i18n.CookieName,
			Value:    lang,
			Path:     "/",
			MaxAge:   365 * 24 * 60 * 60,
			SameSite: http.SameSiteLaxMode,
		})
		ctx := context.WithValue(r.Context(), langKey{}, lang)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
