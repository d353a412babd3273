package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("Secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "Secret123", hash)
	assert.True(t, CheckPassword("Secret123", hash))
	assert.False(t, CheckPassword("secret123", hash))
}

func TestValidatePlateNumber(t *testing.T) {
	tests := []struct {
		plate string
		want  bool
	}{
		{"А123ВС45", true},
		{"Х000ХХ99", true},
		{"A123BC45", false}, // Latin look-alikes
		{"А12ВС45", false},
		{"А123ВС456", false},
		{"Б123ВС45", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidatePlateNumber(tt.plate), tt.plate)
	}
}

func TestGeneratePlateNumber(t *testing.T) {
	for i := 0; i < 100; i++ {
		plate := GeneratePlateNumber()
		assert.True(t, ValidatePlateNumber(plate), plate)
	}
}

func TestRandomFloat(t *testing.T) {
	for i := 0; i < 100; i++ {
		f := RandomFloat(-90, 90)
		assert.GreaterOrEqual(t, f, -90.0)
		assert.Less(t, f, 90.0)
	}
}
