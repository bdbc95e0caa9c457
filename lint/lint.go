// Package lint walks JSON documents and validates the members that hold
// translatable text.
package lint

import (
	"errors"
	"slices"

	"github.com/go-logr/logr"

	"github.com/clickworkorange/catajson/diagnostic"
	"github.com/clickworkorange/catajson/jsonin"
	"github.com/clickworkorange/catajson/settings"
	"github.com/clickworkorange/catajson/translation"
)

// Options selects which members are checked
type Options struct {
	// TranslatableFields are members holding singular translations
	TranslatableFields []string
	// PluralFields are members holding plural-capable translations
	PluralFields []string
	// ReportUnvisited keeps warnings about unknown members inside
	// translation objects
	ReportUnvisited bool
}

// Result is the outcome of linting one source
type Result struct {
	Source   string
	Errors   []*jsonin.ParseError
	Warnings []diagnostic.Warning
}

// Failed reports whether any fatal error was found
func (r Result) Failed() bool {
	return len(r.Errors) > 0
}

// Linter checks documents against a fixed set of options
type Linter struct {
	opts     Options
	settings settings.Settings
	log      logr.Logger
}

// New returns a Linter
func New(opts Options, s settings.Settings, log logr.Logger) *Linter {
	return &Linter{opts: opts, settings: s, log: log}
}

// Lint checks src. A translation member that fails to decode is recorded
// and skipped. A structural error stops the walk.
func (l *Linter) Lint(name string, src []byte) Result {
	result := Result{Source: name}

	sink := diagnostic.SinkFunc(func(w diagnostic.Warning) {
		if w.Kind == diagnostic.KindUnvisitedMember && !l.opts.ReportUnvisited {
			return
		}
		result.Warnings = append(result.Warnings, w)
	})
	r := jsonin.NewReader(src,
		jsonin.WithSourceName(name),
		jsonin.WithSettings(l.settings),
		jsonin.WithSink(sink),
		jsonin.WithLogger(l.log))

	err := l.walk(r, &result)
	if err == nil && !r.EOF() {
		err = r.Error(jsonin.ErrSyntax, "expected end of input after the document")
	}
	if err != nil {
		result.Errors = append(result.Errors, asParseError(r, err))
	}

	l.log.V(1).Info("linted", "source", name, "errors", len(result.Errors), "warnings", len(result.Warnings))

	return result
}

func (l *Linter) walk(r *jsonin.Reader, result *Result) error {
	switch {
	case r.TestArray():
		return r.ReadArray(func(r *jsonin.Reader) error {
			return l.walk(r, result)
		})
	case r.TestObject():
		return l.walkObject(r, result)
	default:
		return r.SkipValue()
	}
}

func (l *Linter) walkObject(r *jsonin.Reader, result *Result) error {
	if err := r.StartObject(); err != nil {
		return err
	}

	for {
		end, err := r.EndObject()
		if err != nil {
			return err
		}
		if end {
			return nil
		}

		name, err := r.ReadMemberName()
		if err != nil {
			return err
		}

		switch {
		case slices.Contains(l.opts.PluralFields, name):
			err = l.checkTranslations(r, translation.PluralTag(), result)
		case slices.Contains(l.opts.TranslatableFields, name):
			err = l.checkTranslations(r, translation.New(""), result)
		default:
			err = l.walk(r, result)
		}
		if err != nil {
			return err
		}
	}
}

// checkTranslations validates a translation or an array of them
func (l *Linter) checkTranslations(r *jsonin.Reader, proto translation.Translation, result *Result) error {
	if r.TestArray() {
		return r.ReadArray(func(r *jsonin.Reader) error {
			return l.checkTranslation(r, proto, result)
		})
	}
	return l.checkTranslation(r, proto, result)
}

func (l *Linter) checkTranslation(r *jsonin.Reader, proto translation.Translation, result *Result) error {
	mark := r.Mark()

	t := proto
	err := t.Deserialize(r)
	if err == nil {
		return nil
	}

	var pe *jsonin.ParseError
	if !errors.As(err, &pe) {
		return err
	}

	r.Reset(mark)
	if skipErr := r.SkipValue(); skipErr != nil {
		return skipErr
	}
	result.Errors = append(result.Errors, pe)

	return nil
}

func asParseError(r *jsonin.Reader, err error) *jsonin.ParseError {
	if pe, ok := jsonin.AsParseError(err); ok {
		return pe
	}
	return r.Error(jsonin.ErrInvalidValue, err.Error())
}
