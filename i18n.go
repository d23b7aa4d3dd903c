package jvstgo

import (
	"embed"

	"github.com/kaptinlin/go-i18n"
)

//go:embed locales/*.json
var localesFS embed.FS

// GetI18n returns an initialized internationalization bundle with the
// embedded locale files, keyed on result.go's codeOf() diagnostic codes.
// Kept from the teacher's i18n.go verbatim: the embed + bundle-loading
// approach doesn't change when the translated domain is compile
// diagnostics instead of validation-failure messages.
func GetI18n() (*i18n.I18n, error) {
	bundle := i18n.NewBundle(
		i18n.WithDefaultLocale("en"),
		i18n.WithLocales("en", "zh-Hans"),
	)

	err := bundle.LoadFS(localesFS, "locales/*.json")

	return bundle, err
}
