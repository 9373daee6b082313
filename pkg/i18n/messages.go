package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

var messages = map[string]map[language.Tag]string{
	"Home":                     {language.English: "Home", language.Italian: "Home"},
	"Navigation":               {language.English: "Navigation", language.Italian: "Navigazione"},
	"Switch to %s":             {language.English: "Switch to %s", language.Italian: "Passa a %s"},
	"Page not found":           {language.English: "Page not found", language.Italian: "Pagina non trovata"},
	"We could not find %s.":    {language.English: "We could not find %s.", language.Italian: "Non abbiamo trovato %s."},
	"Back to the home page":    {language.English: "Back to the home page", language.Italian: "Torna alla home page"},
	"Site logo":                {language.English: "Site logo", language.Italian: "Logo del sito"},
	"Table of contents":        {language.English: "Table of contents", language.Italian: "Indice dei contenuti"},
	"Skip to the main content": {language.English: "Skip to the main content", language.Italian: "Vai al contenuto principale"},
	"Language":                 {language.English: "Language", language.Italian: "Lingua"},
}

var uiCatalog = newCatalog()

func newCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, translations := range messages {
		for tag, msg := range translations {
			// Keys and messages are literals, SetString only fails on
			// malformed messages.
			if err := b.SetString(tag, key, msg); err != nil {
				panic(err)
			}
		}
	}
	return b
}

// Printer translates interface strings into one language.
type Printer struct {
	p *message.Printer
}

// NewPrinter returns the printer for lang. Missing translations fall back
// to English.
func NewPrinter(lang string) *Printer {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.English
	}
	return &Printer{p: message.NewPrinter(tag, message.Catalog(uiCatalog))}
}

// T translates key, formatting args into it.
func (p *Printer) T(key string, args ...any) string {
	return p.p.Sprintf(key, args...)
}
