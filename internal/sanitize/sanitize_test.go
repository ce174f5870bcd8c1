package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	tests := map[string]string{
		"  Bench Press ":  "Bench Press",
		"$gt":             "gt",
		"$$where":         "where",
		" $ne":            "ne",
		"a\x00b":          "ab",
		"line\nbreak":     "linebreak",
		"price $5":        "price $5",
		"":                "",
		"$":               "",
		"Chest\t":         "Chest",
	}
	for in, want := range tests {
		assert.Equal(t, want, String(in), "String(%q)", in)
	}
}

func TestEmail(t *testing.T) {
	assert.Equal(t, "a@b.com", Email("  A@B.com "))
	assert.Equal(t, "ne@x.com", Email("$ne@x.com"))
}

func TestFields(t *testing.T) {
	a, b := " $first ", "second"
	Fields(&a, &b, nil)
	assert.Equal(t, "first", a)
	assert.Equal(t, "second", b)
}
