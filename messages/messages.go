// Package messages holds the user-facing strings shown by the mobile app.
// French is the default language; English is available through Accept-Language.
package messages

import (
	"embed"
	"encoding/json"
	"fmt"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

const (
	ImageRequired   = "ImageRequired"
	NameRequired    = "NameRequired"
	PriceRequired   = "PriceRequired"
	PriceNegative   = "PriceNegative"
	VariantCount    = "VariantCount"
	VariantAxis     = "VariantAxis"
	PinFormat       = "PinFormat"
	PinMismatch     = "PinMismatch"
	PinIncorrect    = "PinIncorrect"
	APIKeyMissing   = "APIKeyMissing"
	ProductNotFound = "ProductNotFound"
	NothingToSync   = "NothingToSync"
	SyncSucceeded   = "SyncSucceeded"
	InvalidJSON     = "InvalidJSON"
	InvalidImage    = "InvalidImage"
)

//go:embed locales/*.json
var locales embed.FS

type Translator struct {
	bundle *i18n.Bundle
}

func NewTranslator() (*Translator, error) {
	bundle := i18n.NewBundle(language.French)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	for _, name := range []string{"locales/active.fr.json", "locales/active.en.json"} {
		if _, err := bundle.LoadMessageFileFS(locales, name); err != nil {
			return nil, fmt.Errorf("load %s: %w", name, err)
		}
	}
	return &Translator{bundle: bundle}, nil
}

// Localize renders id for the given Accept-Language value. Unknown ids are
// returned as-is so a missing translation never hides the underlying error.
func (t *Translator) Localize(acceptLanguage, id string, data map[string]any) string {
	localizer := i18n.NewLocalizer(t.bundle, acceptLanguage)
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: data,
	})
	if err != nil {
		return id
	}
	return msg
}
