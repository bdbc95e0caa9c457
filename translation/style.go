package translation

import (
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/clickworkorange/catajson/diagnostic"
	"github.com/clickworkorange/catajson/jsonin"
)

var abbreviations = []string{"e.g.", "i.e.", "vs.", "etc.", "mr.", "mrs.", "ms.", "dr.", "st."}

// SpacingIssue is a sentence end followed by too few spaces
type SpacingIssue struct {
	// Index is the rune index of the punctuation in the decoded text
	Index    int
	Found    int
	Required int
}

// Message renders the issue the way it is reported
func (s SpacingIssue) Message() string {
	return fmt.Sprintf("insufficient spaces at this location.  %d required, but only %d found.\n"+
		"    Suggested fix: insert \"%s\"\n"+
		"    At the following position (marked with caret)",
		s.Required, s.Found, strings.Repeat(" ", s.Required-s.Found))
}

// CheckSentenceSpacing finds every sentence end in text that is followed by
// at least one but fewer than required spaces before the next word.
func CheckSentenceSpacing(text string, required int) []SpacingIssue {
	runes := []rune(text)

	var issues []SpacingIssue
	for i, c := range runes {
		if !isTerminator(c) {
			continue
		}
		// ellipses and runs such as "?!"
		if i == 0 || unicode.IsSpace(runes[i-1]) || isTerminator(runes[i-1]) {
			continue
		}
		if i+1 < len(runes) && isTerminator(runes[i+1]) {
			continue
		}

		spaces := 0
		for j := i + 1; j < len(runes) && runes[j] == ' '; j++ {
			spaces++
		}
		if spaces == 0 || spaces >= required || i+1+spaces == len(runes) {
			continue
		}
		if isAbbreviation(runes[:i+1]) {
			continue
		}

		issues = append(issues, SpacingIssue{Index: i, Found: spaces, Required: required})
	}

	return issues
}

func isTerminator(c rune) bool {
	return c == '.' || c == '!' || c == '?'
}

func isAbbreviation(prefix []rune) bool {
	start := len(prefix)
	for start > 0 && !unicode.IsSpace(prefix[start-1]) {
		start--
	}
	word := fold(string(prefix[start:]))
	return slices.Contains(abbreviations, word)
}

// checkStyle reports spacing issues in the string literal at quote
func checkStyle(r *jsonin.Reader, text string, quote int) {
	s := r.Settings()
	if !s.TextStyle {
		return
	}

	for _, issue := range CheckSentenceSpacing(text, s.SentenceSpacing) {
		r.StringWarning(diagnostic.KindTextStyle, quote, issue.Index+1, issue.Message())
	}
}
