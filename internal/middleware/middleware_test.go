package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/samims/ecowatt/internal/auth"
	"github.com/samims/ecowatt/internal/model"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestLanguageRedirect(t *testing.T) {
	tests := []struct {
		name     string
		cookie   string
		accept   string
		path     string
		wantCode int
		wantLoc  string
	}{
		{name: "cookie ar", cookie: "ar", path: "/", wantCode: http.StatusFound, wantLoc: "/ar"},
		{name: "header en", accept: "en-US,en;q=0.9", path: "/", wantCode: http.StatusFound, wantLoc: "/en"},
		{name: "neither", path: "/", wantCode: http.StatusFound, wantLoc: "/fr"},
		{name: "query kept", path: "/?utm=x", wantCode: http.StatusFound, wantLoc: "/fr?utm=x"},
		{name: "non root untouched", cookie: "ar", path: "/en/products", wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "lang", Value: tt.cookie})
			}
			if tt.accept != "" {
				req.Header.Set("Accept-Language", tt.accept)
			}
			rec := httptest.NewRecorder()

			LanguageRedirect(okHandler).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantLoc, rec.Header().Get("Location"))
		})
	}
}

func TestRequireLanguage(t *testing.T) {
	r := chi.NewRouter()
	r.With(RequireLanguage).Get("/{lang}/ping", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(LanguageFromContext(r.Context())))
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ar/ping", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ar", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Set-Cookie"), "lang=ar")

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/de/ping", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

type stubResolver struct {
	id  *auth.Identity
	err error
}

func (s stubResolver) Resolve(context.Context, string) (*auth.Identity, error) {
	return s.id, s.err
}

func TestAuthAndRequireRole(t *testing.T) {
	editor := &auth.Identity{UserID: "u1", Role: model.RoleEditor}

	tests := []struct {
		name     string
		header   string
		resolver auth.IdentityResolver
		min      model.Role
		wantCode int
	}{
		{name: "missing header", resolver: stubResolver{id: editor}, min: model.RoleEditor, wantCode: http.StatusUnauthorized},
		{name: "bad token", header: "Bearer x", resolver: stubResolver{err: errors.New("bad")}, min: model.RoleEditor, wantCode: http.StatusUnauthorized},
		{name: "role too low", header: "Bearer x", resolver: stubResolver{id: editor}, min: model.RoleAdmin, wantCode: http.StatusForbidden},
		{name: "allowed", header: "Bearer x", resolver: stubResolver{id: editor}, min: model.RoleEditor, wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			Auth(tt.resolver)(RequireRole(tt.min)(okHandler)).ServeHTTP(rec, req)
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestSession(t *testing.T) {
	var seen string
	h := Session(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cart", nil))
	assert.NotEmpty(t, seen)
	assert.Contains(t, rec.Header().Get("Set-Cookie"), SessionCookie+"="+seen)

	existing := "8f14e45f-ceea-467f-a0e6-1b3a2f5c9d10"
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: existing})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, existing, seen)
	assert.Empty(t, rec.Header().Get("Set-Cookie"))
}
