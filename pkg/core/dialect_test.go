package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDialectConfig_FormatPlaceholder(t *testing.T) {
	tests := []struct {
		name  string
		style PlaceholderStyle
		index int
		want  string
	}{
		{"question", PlaceholderQuestion, 3, "?"},
		{"dollar", PlaceholderDollar, 2, "$2"},
		{"at-p", PlaceholderAtP, 1, "@p1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &DialectConfig{Placeholder: tt.style}
			assert.Equal(t, tt.want, d.FormatPlaceholder(tt.index))
		})
	}
}

func TestDialectConfig_QuoteIdentifier(t *testing.T) {
	tests := []struct {
		name  string
		ident IdentifierConfig
		in    string
		want  string
	}{
		{"default double quotes", IdentifierConfig{}, "sales", `"sales"`},
		{"embedded quote escaped", IdentifierConfig{}, `we"ird`, `"we""ird"`},
		{"brackets", IdentifierConfig{Quote: "[", QuoteEnd: "]", Escape: "]]"}, "a]b", "[a]]b]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &DialectConfig{Identifiers: tt.ident}
			assert.Equal(t, tt.want, d.QuoteIdentifier(tt.in))
		})
	}
}

func TestTableRef_QualifiedName(t *testing.T) {
	assert.Equal(t, "sales", TableRef{Name: "sales"}.QualifiedName())
	assert.Equal(t, "main.sales", TableRef{Schema: "main", Name: "sales"}.QualifiedName())
}
