package platform

import (
	"strings"

	golocale "github.com/jeandeaual/go-locale"
	"golang.org/x/text/language"
)

// DefaultTimeSeparator separates minutes and seconds when the locale gives
// no better answer.
const DefaultTimeSeparator = ":"

var dotSeparatorLanguages = []language.Tag{
	language.Finnish,
	language.Danish,
}

// TimeSeparator returns the minutes/seconds separator for the user locale.
func TimeSeparator() string {
	name, err := golocale.GetLocale()
	if err != nil {
		return DefaultTimeSeparator
	}
	return TimeSeparatorFor(name)
}

// TimeSeparatorFor returns the separator for a POSIX or BCP 47 locale name,
// e.g. "fi_FI.UTF-8" or "en-GB".
func TimeSeparatorFor(name string) string {
	if cut := strings.IndexAny(name, ".@"); cut >= 0 {
		name = name[:cut]
	}
	tag, err := language.Parse(strings.ReplaceAll(name, "_", "-"))
	if err != nil {
		return DefaultTimeSeparator
	}

	base, _ := tag.Base()
	for _, candidate := range dotSeparatorLanguages {
		if candidateBase, _ := candidate.Base(); candidateBase == base {
			return "."
		}
	}
	return DefaultTimeSeparator
}
