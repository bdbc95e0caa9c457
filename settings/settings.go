package settings

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// ErrorLogFormat selects how diagnostics are rendered
type ErrorLogFormat int

const (
	// HumanReadable renders a header line followed by a source excerpt and caret
	HumanReadable ErrorLogFormat = iota
	// GithubAction renders a single workflow command line
	GithubAction
)

// String returns the string representation of the format
func (f ErrorLogFormat) String() string {
	switch f {
	case HumanReadable:
		return "human"
	case GithubAction:
		return "github"
	default:
		return fmt.Sprintf("ErrorLogFormat(%d)", int(f))
	}
}

// ParseErrorLogFormat converts a configuration name into an ErrorLogFormat
func ParseErrorLogFormat(name string) (ErrorLogFormat, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "human", "human_readable", "human-readable":
		return HumanReadable, nil
	case "github", "github_action", "github-action":
		return GithubAction, nil
	default:
		return HumanReadable, fmt.Errorf("%w: unknown error log format %q", ErrInvalidSetting, name)
	}
}

// PluralCheck controls how strictly translatable plural forms are checked
type PluralCheck int

const (
	// PluralNone disables the "cannot autogenerate" check
	PluralNone PluralCheck = iota
	// PluralCertain flags singulars whose regular plural is certainly wrong
	PluralCertain
	// PluralPossible also flags singulars whose regular plural is probably wrong
	PluralPossible
)

// String returns the string representation of the level
func (p PluralCheck) String() string {
	switch p {
	case PluralNone:
		return "none"
	case PluralCertain:
		return "certain"
	case PluralPossible:
		return "possible"
	default:
		return fmt.Sprintf("PluralCheck(%d)", int(p))
	}
}

// ParsePluralCheck converts a configuration name into a PluralCheck
func ParsePluralCheck(name string) (PluralCheck, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "none", "off":
		return PluralNone, nil
	case "", "certain":
		return PluralCertain, nil
	case "possible":
		return PluralPossible, nil
	default:
		return PluralCertain, fmt.Errorf("%w: unknown plural check level %q", ErrInvalidSetting, name)
	}
}

// Settings holds the process-wide diagnostic and validation toggles.
// A Settings value is plain data; pass it explicitly or install it with Set.
type Settings struct {
	ErrorLogFormat  ErrorLogFormat
	CheckPlural     PluralCheck
	TextStyle       bool
	SentenceSpacing int
	ContextLines    int
	ContextBytes    int
}

// Default returns the built-in settings
func Default() Settings {
	return Settings{
		ErrorLogFormat:  HumanReadable,
		CheckPlural:     PluralCertain,
		TextStyle:       true,
		SentenceSpacing: 2,
		ContextLines:    3,
		ContextBytes:    240,
	}
}

var current atomic.Pointer[Settings]

func init() {
	s := Default()
	current.Store(&s)
}

// Current returns a copy of the installed settings
func Current() Settings {
	return *current.Load()
}

// Set installs s as the process-wide settings and returns the previous value
func Set(s Settings) Settings {
	return *current.Swap(&s)
}

// Override applies fn to a copy of the current settings and installs the result.
// The returned function restores the settings that were active before the call:
//
//	defer settings.Override(func(s *settings.Settings) { s.CheckPlural = settings.PluralNone })()
func Override(fn func(*Settings)) (restore func()) {
	next := Current()
	fn(&next)
	prev := Set(next)

	return func() {
		Set(prev)
	}
}
