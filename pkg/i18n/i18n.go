package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"path"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var locales embed.FS

// Translator resolves message ids for one preferred language, falling back to English.
type Translator struct {
	bundle    *goi18n.Bundle
	localizer *goi18n.Localizer
	lang      string
}

// New builds a Translator with the embedded en/pt catalogs loaded.
func New(lang string) (*Translator, error) {
	bundle := goi18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := locales.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("read embedded locales: %w", err)
	}
	for _, e := range entries {
		if _, err := bundle.LoadMessageFileFS(locales, path.Join("locales", e.Name())); err != nil {
			return nil, fmt.Errorf("load locale %s: %w", e.Name(), err)
		}
	}

	if lang == "" {
		lang = "en"
	}
	return &Translator{
		bundle:    bundle,
		localizer: goi18n.NewLocalizer(bundle, lang, "en"),
		lang:      lang,
	}, nil
}

// Load adds a message file from disk, e.g. active.es.json.
func (t *Translator) Load(file string) error {
	_, err := t.bundle.LoadMessageFile(file)
	return err
}

func (t *Translator) Lang() string {
	return t.lang
}

// T returns the localized message, or the id itself when nothing matches.
func (t *Translator) T(id string, data map[string]any) string {
	msg, err := t.localizer.Localize(&goi18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: data,
	})
	if msg != "" {
		return msg
	}
	if err != nil {
		return id
	}
	return msg
}
