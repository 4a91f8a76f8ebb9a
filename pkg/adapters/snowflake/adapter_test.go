package snowflake

import (
	"testing"

	"github.com/leapstack-labs/leapprofile/pkg/adapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSnowflakeDSN(t *testing.T) {
	dsn, err := buildSnowflakeDSN(adapter.Config{
		Account:   "xy12345",
		Username:  "analyst",
		Password:  "secret",
		Database:  "ANALYTICS",
		Schema:    "PUBLIC",
		Warehouse: "COMPUTE_WH",
		Role:      "REPORTER",
	})
	require.NoError(t, err)

	assert.Contains(t, dsn, "analyst:secret@")
	assert.Contains(t, dsn, "xy12345")
	assert.Contains(t, dsn, "database=ANALYTICS")
	assert.Contains(t, dsn, "schema=PUBLIC")
	assert.Contains(t, dsn, "warehouse=COMPUTE_WH")
	assert.Contains(t, dsn, "role=REPORTER")
}

func TestBuildSnowflakeDSN_RequiresAccount(t *testing.T) {
	_, err := buildSnowflakeDSN(adapter.Config{Username: "u", Password: "p"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "account")
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"sales", "SALES"},
		{"analytics.sales", "ANALYTICS.SALES"},
		{`analytics."MixedCase"`, "ANALYTICS.MixedCase"},
		{`"we""ird"`, `we"ird`},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeName(tt.in))
		})
	}
}

func TestAdapter_Dialect(t *testing.T) {
	d := New(nil).DialectConfig()
	assert.Equal(t, "snowflake", d.Name)
	assert.Equal(t, "PUBLIC", d.DefaultSchema)
}
