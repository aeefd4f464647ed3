package i18n

// Dictionary maps UI keys to translated strings.
type Dictionary map[string]string

var dictionaries = map[string]Dictionary{
	LangFR: {
		"nav.home":              "Accueil",
		"nav.products":          "Produits",
		"nav.contact":           "Contact",
		"nav.cart":              "Panier",
		"home.hero.title":       "Réduisez votre consommation d'énergie",
		"home.hero.subtitle":    "Des solutions d'efficacité énergétique pour les professionnels et les particuliers.",
		"home.cta":              "Demander un devis",
		"product.add_to_cart":   "Ajouter au panier",
		"product.request_quote": "Demander un devis",
		"product.quote_only":    "Prix sur devis",
		"cart.empty":            "Votre panier est vide",
		"cart.checkout":         "Valider la commande",
		"contact.success":       "Merci, nous vous recontacterons rapidement.",
		"error.not_found":       "Page introuvable",
	},
	LangEN: {
		"nav.home":              "Home",
		"nav.products":          "Products",
		"nav.contact":           "Contact",
		"nav.cart":              "Cart",
		"home.hero.title":       "Cut your energy consumption",
		"home.hero.subtitle":    "Energy-efficiency solutions for businesses and homes.",
		"home.cta":              "Request a quote",
		"product.add_to_cart":   "Add to cart",
		"product.request_quote": "Request a quote",
		"product.quote_only":    "Price on request",
		"cart.empty":            "Your cart is empty",
		"cart.checkout":         "Checkout",
		"contact.success":       "Thank you, we will get back to you shortly.",
		"error.not_found":       "Page not found",
	},
	LangAR: {
		"nav.home":              "الرئيسية",
		"nav.products":          "المنتجات",
		"nav.contact":           "اتصل بنا",
		"nav.cart":              "السلة",
		"home.hero.title":       "قلّل استهلاكك للطاقة",
		"home.hero.subtitle":    "حلول كفاءة الطاقة للشركات والمنازل.",
		"home.cta":              "اطلب عرض سعر",
		"product.add_to_cart":   "أضف إلى السلة",
		"product.request_quote": "اطلب عرض سعر",
		"product.quote_only":    "السعر عند الطلب",
		"cart.empty":            "سلتك فارغة",
		"cart.checkout":         "إتمام الطلب",
		"contact.success":       "شكرًا لك، سنتواصل معك قريبًا.",
	},
}

// T looks key up in lang, falls back to French and finally to the key.
func T(lang, key string) string {
	if v, ok := dictionaries[lang][key]; ok {
		return v
	}
	if v, ok := dictionaries[DefaultLang][key]; ok {
		return v
	}
	return key
}

// Dict returns every key of the French dictionary resolved in lang.
func Dict(lang string) Dictionary {
	out := make(Dictionary, len(dictionaries[DefaultLang]))
	for key := range dictionaries[DefaultLang] {
		out[key] = T(lang, key)
	}
	return out
}
