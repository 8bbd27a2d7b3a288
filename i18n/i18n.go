// Package i18n holds the small message catalogue used for operator-facing messages
// and violation codes.
package i18n

import (
	"context"

	"golang.org/x/text/language"
)

const DefaultLang = "en"

type langKey struct{}

var supported = []language.Tag{language.English, language.French}

var matcher = language.NewMatcher(supported)

var catalog = map[string]map[string]string{
	"en": {
		"required":                "Required",
		"invalid_choice":          "Not a valid choice",
		"invalid_email":           "Enter a valid email address",
		"already_exists":          "Already exists",
		"too_long":                "Too long",
		"too_many_digits":         "Too many digits",
		"too_many_decimal_places": "Too many decimal places",
		"invalid_reference":       "Refers to a record that does not exist",
		"not_found":               "Not found",
		"select_one_invoice":      "Please select exactly one invoice to print.",
		"missing_reference":       "The invoice references a record that no longer exists.",
		"invalid_credentials":     "Invalid username or password",
		"read_only":               "Cannot be changed",
	},
	"fr": {
		"required":                "Requis",
		"invalid_choice":          "Choix invalide",
		"invalid_email":           "Adresse e-mail invalide",
		"already_exists":          "Existe déjà",
		"too_long":                "Trop long",
		"too_many_digits":         "Trop de chiffres",
		"too_many_decimal_places": "Trop de décimales",
		"invalid_reference":       "Fait référence à un enregistrement inexistant",
		"not_found":               "Introuvable",
		"select_one_invoice":      "Veuillez sélectionner exactement une facture à imprimer.",
		"missing_reference":       "La facture référence un enregistrement qui n'existe plus.",
		"invalid_credentials":     "Identifiant ou mot de passe invalide",
		"read_only":               "Ne peut pas être modifié",
	},
}

// T translates code for lang, falling back to English and then to the code itself.
func T(lang, code string) string {
	if m, ok := catalog[lang]; ok {
		if s, ok := m[code]; ok {
			return s
		}
	}
	if s, ok := catalog[DefaultLang][code]; ok {
		return s
	}
	return code
}

// DetectLanguage picks a supported language from an Accept-Language header value.
func DetectLanguage(acceptLanguage string) string {
	if acceptLanguage == "" {
		return DefaultLang
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return DefaultLang
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return DefaultLang
	}
	base, _ := supported[idx].Base()
	return base.String()
}

func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, langKey{}, lang)
}

func LangFromContext(ctx context.Context) string {
	if l, ok := ctx.Value(langKey{}).(string); ok && l != "" {
		return l
	}
	return DefaultLang
}
