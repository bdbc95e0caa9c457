package translation

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/clickworkorange/catajson/settings"
)

const (
	msgCannotAutogenerate = "Cannot autogenerate plural form.  Please specify the plural form explicitly."
	msgUnnecessaryPlural  = `"str_pl" is not necessary here since the plural form can be automatically generated.`
	msgUseSame            = `Please use "str_sp" instead of "str" and "str_pl" for text with identical singular and plural forms`
)

// endings whose plural is never the singular plus "s"
var certainIrregular = []string{"s", "sh", "ch", "x", "z"}

// endings whose plural is often not the singular plus "s"
var possibleIrregular = []string{"f", "fe", "o", "man"}

// Regular reports whether appending "s" to singular is taken to produce
// its plural under the given check level. PluralNone accepts everything.
func Regular(singular string, level settings.PluralCheck) bool {
	switch level {
	case settings.PluralNone:
		return true
	case settings.PluralPossible:
		return regularCertain(singular) && regularPossible(singular)
	default:
		return regularCertain(singular)
	}
}

func fold(s string) string {
	return cases.Fold().String(s)
}

func regularCertain(singular string) bool {
	s := fold(singular)
	for _, suffix := range certainIrregular {
		if strings.HasSuffix(s, suffix) {
			return false
		}
	}
	return true
}

func regularPossible(singular string) bool {
	s := fold(singular)
	for _, suffix := range possibleIrregular {
		if strings.HasSuffix(s, suffix) {
			return false
		}
	}

	// consonant followed by y, as in "berry"
	if n := len(s); n >= 2 && s[n-1] == 'y' && !strings.ContainsRune("aeiou", rune(s[n-2])) {
		return false
	}

	return true
}
