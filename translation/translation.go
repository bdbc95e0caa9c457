// Package translation implements translatable text fields: decoding the
// plain and plural forms, checking them against the plural policy and the
// sentence spacing rule, and writing them back in their shortest form.
package translation

import (
	"fmt"

	"github.com/clickworkorange/catajson/diagnostic"
	"github.com/clickworkorange/catajson/jsonin"
	"github.com/clickworkorange/catajson/jsonout"
)

// Member names of the object form
const (
	memberContext  = "ctxt"
	memberSingular = "str"
	memberPlural   = "str_pl"
	memberSame     = "str_sp"

	// NoLint suppresses every text check for the object that carries it
	NoLint = "//NOLINT(cata-text-style)"
)

// Catalog looks up localized text
type Catalog interface {
	Translate(ctxt, singular, plural string, n int) string
}

// Translation is a translatable string. A Translation created with
// PluralTag accepts plural forms when decoded; any other Translation
// rejects them.
type Translation struct {
	ctxt   string
	raw    string
	rawPl  string
	plural bool
	noI18n bool
}

// New returns a singular translation
func New(raw string) Translation {
	return Translation{raw: raw}
}

// NewWithContext returns a singular translation with a translation context
func NewWithContext(ctxt, raw string) Translation {
	return Translation{ctxt: ctxt, raw: raw}
}

// NewPlural returns a translation with explicit singular and plural forms
func NewPlural(raw, rawPl string) Translation {
	return Translation{raw: raw, rawPl: rawPl, plural: true}
}

// NoTranslation returns text that is shown as is
func NoTranslation(s string) Translation {
	return Translation{raw: s, noI18n: true}
}

// PluralTag returns an empty translation that accepts plural forms
func PluralTag() Translation {
	return Translation{plural: true}
}

// Context returns the translation context, if any
func (t Translation) Context() string { return t.ctxt }

// Singular returns the untranslated singular form
func (t Translation) Singular() string { return t.raw }

// Plural returns the untranslated plural form. Without an explicit plural
// it is the singular with "s" appended.
func (t Translation) Plural() string {
	if t.rawPl == "" {
		return t.raw + "s"
	}
	return t.rawPl
}

// IsPlural reports whether the translation carries plural forms
func (t Translation) IsPlural() bool { return t.plural }

// Empty reports whether there is no text
func (t Translation) Empty() bool { return t.raw == "" }

// Equal compares text, context and plural forms
func (t Translation) Equal(o Translation) bool {
	return t.ctxt == o.ctxt && t.raw == o.raw && t.noI18n == o.noI18n &&
		t.plural == o.plural && (!t.plural || t.Plural() == o.Plural())
}

// Translated returns the text for count n. A nil catalog returns the raw
// forms.
func (t Translation) Translated(c Catalog, n int) string {
	if t.noI18n || t.raw == "" {
		return t.raw
	}

	plural := ""
	if t.plural {
		plural = t.Plural()
	}
	if c == nil {
		if t.plural && n != 1 {
			return plural
		}
		return t.raw
	}

	return c.Translate(t.ctxt, t.raw, plural, n)
}

// String returns the raw singular form
func (t Translation) String() string {
	return t.raw
}

// Deserialize reads a bare string or an object with str, str_pl, str_sp
// and ctxt members, then validates the text against the reader's settings.
func (t *Translation) Deserialize(r *jsonin.Reader) error {
	*t = Translation{plural: t.plural}

	if r.TestString() {
		return t.readString(r)
	}

	return t.readObject(r)
}

func (t *Translation) readString(r *jsonin.Reader) error {
	raw, quote, err := r.ReadStringPos()
	if err != nil {
		return err
	}
	t.raw = raw

	if t.plural {
		if !Regular(raw, r.Settings().CheckPlural) {
			r.Warn(diagnostic.KindPlural, msgCannotAutogenerate)
		}
		return nil
	}

	checkStyle(r, raw, quote)

	return nil
}

func (t *Translation) readObject(r *jsonin.Reader) error {
	obj, err := r.ReadObject()
	if err != nil {
		return err
	}
	obj.Visit(NoLint)
	lint := !obj.Has(NoLint)

	if obj.Has(memberContext) {
		if t.ctxt, err = obj.ReadString(memberContext); err != nil {
			return err
		}
	}

	if t.plural {
		err = t.readPluralMembers(r, obj, lint)
	} else {
		err = t.readSingularMembers(r, obj, lint)
	}
	if err != nil {
		return err
	}

	obj.ReportUnvisited()

	return nil
}

func (t *Translation) readSingularMembers(r *jsonin.Reader, obj *jsonin.Object, lint bool) error {
	if obj.Has(memberSame) {
		return obj.MemberError(memberSame, jsonin.ErrUnsupportedForm, "str_sp not supported here")
	}

	raw, quote, err := obj.ReadStringPos(memberSingular)
	if err != nil {
		return err
	}
	if obj.Has(memberPlural) {
		return obj.MemberError(memberPlural, jsonin.ErrUnsupportedForm, "str_pl not supported here")
	}
	t.raw = raw

	if lint {
		checkStyle(r, raw, quote)
	}

	return nil
}

func (t *Translation) readPluralMembers(r *jsonin.Reader, obj *jsonin.Object, lint bool) error {
	if obj.Has(memberSame) {
		if obj.Has(memberSingular) || obj.Has(memberPlural) {
			return obj.MemberError(memberSame, jsonin.ErrUnsupportedForm,
				fmt.Sprintf("%q cannot be combined with %q or %q", memberSame, memberSingular, memberPlural))
		}
		raw, err := obj.ReadString(memberSame)
		if err != nil {
			return err
		}
		t.raw, t.rawPl = raw, raw
		return nil
	}

	raw, err := obj.ReadString(memberSingular)
	if err != nil {
		return err
	}
	t.raw = raw

	if !obj.Has(memberPlural) {
		if lint && !Regular(raw, r.Settings().CheckPlural) {
			obj.MemberWarning(memberSingular, diagnostic.KindPlural, msgCannotAutogenerate)
		}
		return nil
	}

	rawPl, err := obj.ReadString(memberPlural)
	if err != nil {
		return err
	}
	t.rawPl = rawPl

	if lint {
		switch {
		case rawPl == raw+"s" && regularCertain(raw):
			obj.MemberWarning(memberPlural, diagnostic.KindPlural, msgUnnecessaryPlural)
		case rawPl == raw:
			obj.MemberWarning(memberPlural, diagnostic.KindPlural, msgUseSame)
		}
	}

	return nil
}

// Serialize writes the shortest form that reads back to an equal value
func (t Translation) Serialize(w *jsonout.Writer) {
	implicit := !t.plural || t.rawPl == "" || t.rawPl == t.raw+"s"
	if t.ctxt == "" && implicit {
		w.WriteString(t.raw)
		return
	}

	w.StartObject()
	if t.ctxt != "" {
		w.MemberValue(memberContext, t.ctxt)
	}
	switch {
	case t.plural && t.rawPl == t.raw:
		w.MemberValue(memberSame, t.raw)
	case implicit:
		w.MemberValue(memberSingular, t.raw)
	default:
		w.MemberValue(memberSingular, t.raw)
		w.MemberValue(memberPlural, t.rawPl)
	}
	w.EndObject()
}
