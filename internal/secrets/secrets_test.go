package secrets

import (
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *Manager {
	return New(keyring.NewArrayKeyring([]keyring.Item{
		{Key: "warehouse", Data: []byte("s3cret")},
	}))
}

func TestManager_Resolve(t *testing.T) {
	m := newTestManager()

	tests := []struct {
		name    string
		value   string
		want    string
		wantErr error
	}{
		{"plain value", "hunter2", "hunter2", nil},
		{"empty", "", "", nil},
		{"reference", "keyring:warehouse", "s3cret", nil},
		{"reference with spaces", "keyring: warehouse ", "s3cret", nil},
		{"missing", "keyring:nope", "", ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Resolve(tt.value)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestManager_SetGetDelete(t *testing.T) {
	m := newTestManager()

	require.NoError(t, m.Set("pg", "pw"))
	got, err := m.Get("pg")
	require.NoError(t, err)
	assert.Equal(t, "pw", got)

	keys, err := m.Keys()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"warehouse", "pg"}, keys)

	require.NoError(t, m.Delete("pg"))
	require.NoError(t, m.Delete("pg"))
	_, err = m.Get("pg")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Error(t, m.Set("", "x"))
}

func TestIsReference(t *testing.T) {
	assert.True(t, IsReference("keyring:x"))
	assert.False(t, IsReference("x"))
}
