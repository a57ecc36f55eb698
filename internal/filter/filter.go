// Package filter rejects candidate items on sensitive topics before any
// extraction or rewrite work is spent on them. It is a blunt substring
// filter, not an intent classifier; false positives are the accepted cost.
package filter

import "strings"

// defaultDenyList holds topic phrases that disqualify a candidate.
var defaultDenyList = []string{
	"adult",
	"explicit",
	"graphic",
	"violent",
	"violence",
	"offensive",
	"discriminatory",
	"drugs",
	"alcohol abuse",
	"illegal activities",
	"political opinions",
}

type Filter struct {
	denyList []string
}

// New returns a filter over the given phrases, or the default deny-list
// when none are given.
func New(phrases ...string) *Filter {
	if len(phrases) == 0 {
		phrases = defaultDenyList
	}
	lowered := make([]string, len(phrases))
	for i, p := range phrases {
		lowered[i] = strings.ToLower(p)
	}
	return &Filter{denyList: lowered}
}

// IsSensitive reports whether the text matches the deny-list and returns
// the first matched phrase. Case-insensitive, short-circuits on the first
// hit. No side effects.
func (f *Filter) IsSensitive(text string) (bool, string) {
	lower := strings.ToLower(text)
	for _, phrase := range f.denyList {
		if strings.Contains(lower, phrase) {
			return true, phrase
		}
	}
	return false, ""
}

// CheckItem checks a candidate's title and summary together.
func (f *Filter) CheckItem(title, summary string) (bool, string) {
	return f.IsSensitive(title + " " + summary)
}
