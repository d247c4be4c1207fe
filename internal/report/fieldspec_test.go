package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSpecDefault(t *testing.T) {
	require.NoError(t, ValidateSpec(Fields))
	assert.Len(t, Fields, 20)
	assert.Equal(t, "Subject", Fields[idxSubject].Name)
	assert.Equal(t, "CRN", Fields[idxCRN].Name)
	assert.Equal(t, "Time", Fields[idxTime].Name)
	assert.Equal(t, timeWidth, Fields[idxTime].Width)
}

func TestValidateSpecErrors(t *testing.T) {
	tests := []struct {
		name string
		spec []Field
	}{
		{"empty", nil},
		{"zero width", []Field{{Name: "A", Width: 0}}},
		{"negative width", []Field{{Name: "A", Width: -3}}},
		{"wrong total", []Field{{Name: "A", Width: 139}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSpec(tt.spec)
			require.Error(t, err)
			var cfgErr *ConfigError
			assert.ErrorAs(t, err, &cfgErr)
		})
	}
}
