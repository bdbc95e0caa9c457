package diagnostic

import (
	"strings"

	"github.com/go-logr/logr"

	"github.com/clickworkorange/catajson/position"
	"github.com/clickworkorange/catajson/settings"
)

// Category is the marker line that precedes every rendered warning
const Category = "(json-error)"

// Kind classifies a warning
type Kind string

const (
	KindTextStyle       Kind = "text-style"
	KindPlural          Kind = "plural"
	KindUnvisitedMember Kind = "unvisited-member"
)

// Warning is a non-fatal diagnostic. Parsing continues after a warning is
// reported and the decoded value is still returned.
type Warning struct {
	Kind     Kind
	Source   string
	Position position.Position
	AtEOF    bool
	Message  string
	// Text is the fully rendered diagnostic without the category line
	Text string
}

// NewWarning renders a warning for offset in src
func NewWarning(kind Kind, src Source, offset int, message string, s settings.Settings) Warning {
	w := Warning{
		Kind:    kind,
		Source:  src.DisplayName(),
		AtEOF:   offset < 0 || offset >= len(src.Text),
		Message: message,
		Text:    Render(src, offset, message, s),
	}
	if !w.AtEOF {
		w.Position = position.Resolve(src.Text, offset)
	}

	return w
}

// String returns the category line followed by the rendered diagnostic
func (w Warning) String() string {
	return Category + "\n" + w.Text
}

// Sink receives warnings
type Sink interface {
	Report(w Warning)
}

// SinkFunc adapts a function to the Sink interface
type SinkFunc func(w Warning)

// Report calls f(w)
func (f SinkFunc) Report(w Warning) {
	f(w)
}

type discard struct{}

func (discard) Report(Warning) {}

// Discard drops every warning
var Discard Sink = discard{}

// Emit counts w and hands it to sink
func Emit(sink Sink, w Warning) {
	warningsTotal.WithLabelValues(string(w.Kind)).Inc()
	if sink != nil {
		sink.Report(w)
	}
}

// Collector keeps every reported warning in order
type Collector struct {
	warnings []Warning
}

// Report appends w
func (c *Collector) Report(w Warning) {
	c.warnings = append(c.warnings, w)
}

// Warnings returns the collected warnings
func (c *Collector) Warnings() []Warning {
	return c.warnings
}

// Len returns the number of collected warnings
func (c *Collector) Len() int {
	return len(c.warnings)
}

// String concatenates every collected warning
func (c *Collector) String() string {
	var b strings.Builder
	for _, w := range c.warnings {
		b.WriteString(w.String())
	}
	return b.String()
}

// Reset drops the collected warnings
func (c *Collector) Reset() {
	c.warnings = nil
}

// LogSink reports warnings through a logr.Logger
type LogSink struct {
	Log logr.Logger
}

// NewLogSink creates a LogSink
func NewLogSink(log logr.Logger) *LogSink {
	return &LogSink{Log: log}
}

// Report logs w with its position as structured values
func (s *LogSink) Report(w Warning) {
	kv := []any{"kind", string(w.Kind), "source", w.Source}
	if !w.AtEOF {
		kv = append(kv, "line", w.Position.Line, "column", w.Position.Column)
	}
	s.Log.Info(w.Message, kv...)
}

// Tee reports every warning to all sinks
func Tee(sinks ...Sink) Sink {
	return SinkFunc(func(w Warning) {
		for _, s := range sinks {
			s.Report(w)
		}
	})
}
