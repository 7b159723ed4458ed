package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestModel_Overlay(t *testing.T) {
	file := &Model{Format: ptr("utf-8"), Pretty: ptr(true), LogLevel: ptr("info")}
	flags := &Model{Pretty: ptr(false), DuplicateKeys: ptr("group")}

	merged := file.Overlay(flags)

	require.NotNil(t, merged.Format)
	assert.Equal(t, "utf-8", *merged.Format)
	assert.Equal(t, "group", *merged.DuplicateKeys)
	assert.False(t, *merged.Pretty)
	assert.Equal(t, "info", *merged.LogLevel)
	assert.Nil(t, merged.Interpolation)

	// The receiver is left untouched.
	assert.True(t, *file.Pretty)
	assert.Nil(t, file.DuplicateKeys)
}

func TestModel_OverlayNil(t *testing.T) {
	var m *Model
	out := m.Overlay(&Model{Format: ptr("utf-8")})
	assert.Equal(t, "utf-8", *out.Format)

	out = (&Model{Format: ptr("utf-8")}).Overlay(nil)
	assert.Equal(t, "utf-8", *out.Format)
}

func TestModel_Resolve(t *testing.T) {
	tests := []struct {
		name  string
		model *Model
		want  Settings
	}{
		{
			name:  "nil model keeps defaults",
			model: nil,
			want:  Defaults(),
		},
		{
			name:  "set fields win",
			model: &Model{Format: ptr("utf-8"), Interpolation: ptr(true), LogFormat: ptr("json")},
			want: Settings{
				Format:        "utf-8",
				DuplicateKeys: DefaultDuplicateKeys,
				Interpolation: true,
				LogLevel:      DefaultLogLevel,
				LogFormat:     "json",
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.model.Resolve(Defaults()))
		})
	}
}
