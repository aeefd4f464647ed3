package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name   string
		cookie string
		accept string
		want   string
	}{
		{name: "cookie only", cookie: "ar", want: LangAR},
		{name: "accept language only", accept: "en-US,en;q=0.9", want: LangEN},
		{name: "neither", want: LangFR},
		{name: "cookie wins over header", cookie: "en", accept: "ar-MA,ar;q=0.9", want: LangEN},
		{name: "unsupported cookie falls to header", cookie: "de", accept: "ar-MA", want: LangAR},
		{name: "first supported header entry", accept: "de-DE,es;q=0.8,fr-CA;q=0.5", want: LangFR},
		{name: "nothing supported", accept: "de-DE,es;q=0.8", want: LangFR},
		{name: "garbage header", accept: ";;;===", want: LangFR},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.cookie, tt.accept))
		})
	}
}

func TestDir(t *testing.T) {
	assert.Equal(t, "rtl", Dir(LangAR))
	assert.Equal(t, "ltr", Dir(LangFR))
	assert.Equal(t, "ltr", Dir(LangEN))
}

func TestT_Fallbacks(t *testing.T) {
	assert.Equal(t, "Add to cart", T(LangEN, "product.add_to_cart"))
	// Arabic has no not-found entry yet, French is used.
	assert.Equal(t, "Page introuvable", T(LangAR, "error.not_found"))
	assert.Equal(t, "missing.key", T(LangEN, "missing.key"))
}

func TestDict_HasEveryKey(t *testing.T) {
	fr := Dict(LangFR)
	ar := Dict(LangAR)
	assert.Equal(t, len(fr), len(ar))
	assert.Equal(t, "السلة", ar["nav.cart"])
}
