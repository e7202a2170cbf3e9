package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimeSeparatorFor(t *testing.T) {
	cases := map[string]string{
		"fi_FI.UTF-8": ".",
		"da-DK":       ".",
		"fi":          ".",
		"en_US.UTF-8": ":",
		"en-GB":       ":",
		"de_DE@euro":  ":",
		"C":           ":",
		"":            ":",
	}

	for name, want := range cases {
		assert.Equal(t, want, TimeSeparatorFor(name), "locale %q", name)
	}
}

func TestTimeSeparatorNeverEmpty(t *testing.T) {
	assert.NotEmpty(t, TimeSeparator())
}
