// Package translate formats user visible LA16 messages for the host locale.
package translate

import (
	"log"
	"os"
	"sync"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// LOCALE_ENV overrides the host locale when set.
const LOCALE_ENV = "LA16_LOCALE"

var (
	once    sync.Once
	tag     language.Tag
	printer *message.Printer
)

// locales returns the preferred locales, best first.
func locales() []string {
	if env := os.Getenv(LOCALE_ENV); len(env) != 0 {
		return []string{env}
	}

	names, err := locale.GetLocales()
	if err != nil {
		log.Printf("la16: locale: %v", err)
	}

	if len(names) == 0 {
		names = []string{"en-US"}
	}

	return names
}

func setup() {
	tag = message.MatchLanguage(locales()...)
	printer = message.NewPrinter(tag)
}

// Locale returns the language messages are formatted for.
func Locale() language.Tag {
	once.Do(setup)
	return tag
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	once.Do(setup)
	return printer.Sprintf(key, args...)
}
