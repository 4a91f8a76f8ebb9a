package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableRef_DisplayName(t *testing.T) {
	duckdb := &DialectConfig{DefaultSchema: "main"}
	snowflake := &DialectConfig{DefaultSchema: "PUBLIC"}

	tests := []struct {
		name    string
		ref     TableRef
		dialect *DialectConfig
		want    string
	}{
		{"default schema", TableRef{Schema: "main", Name: "SALES"}, duckdb, "SALES"},
		{"other schema", TableRef{Schema: "staging", Name: "SALES"}, duckdb, "staging.SALES"},
		{"case-insensitive schema", TableRef{Schema: "public", Name: "ORDERS"}, snowflake, "ORDERS"},
		{"no schema", TableRef{Name: "SALES"}, duckdb, "SALES"},
		{"no dialect", TableRef{Schema: "main", Name: "SALES"}, nil, "main.SALES"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.ref.DisplayName(tt.dialect))
		})
	}
}
