package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/stockroom/internal/repo"
)

func TestPreferences_DarkMode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value *string
		want  bool
	}{
		{name: "missing", want: false},
		{name: "true", value: ptr("true"), want: true},
		{name: "false", value: ptr("false"), want: false},
		{name: "garbage", value: ptr("yes please"), want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			kv := repo.NewMemoryRepo()
			if tt.value != nil {
				require.NoError(t, kv.Set(context.Background(), DarkModeKey, *tt.value))
			}
			p := &Preferences{KV: kv}
			assert.Equal(t, tt.want, p.DarkMode(context.Background()))
		})
	}
}

func TestPreferences_SetDarkMode(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	p := &Preferences{KV: repo.NewMemoryRepo()}

	require.NoError(t, p.SetDarkMode(ctx, true))
	assert.True(t, p.DarkMode(ctx))
	require.NoError(t, p.SetDarkMode(ctx, false))
	assert.False(t, p.DarkMode(ctx))
}

func TestPreferences_StorageErrors(t *testing.T) {
	t.Parallel()

	boom := errors.New("read only")
	p := &Preferences{KV: failingKV{getErr: boom, setErr: boom}}

	assert.False(t, p.DarkMode(context.Background()))
	assert.ErrorIs(t, p.SetDarkMode(context.Background(), true), boom)
}

func ptr(s string) *string { return &s }
