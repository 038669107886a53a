package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompareHash(t *testing.T) {
	hash, err := GetHash("Segreteria2024!")
	require.NoError(t, err)
	require.NotEqual(t, "Segreteria2024!", hash)

	tests := []struct {
		name     string
		hash     string
		password string
		wantErr  error
		anyErr   bool
	}{
		{name: "верный пароль", hash: hash, password: "Segreteria2024!"},
		{name: "неверный пароль", hash: hash, password: "segreteria2024!", wantErr: ErrMismatch},
		{name: "пустой пароль", hash: hash, password: "", wantErr: ErrMismatch},
		{name: "испорченный хеш", hash: "not-a-bcrypt-hash", password: "x", anyErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CompareHash(tt.hash, tt.password)
			switch {
			case tt.wantErr != nil:
				assert.ErrorIs(t, err, tt.wantErr)
			case tt.anyErr:
				assert.Error(t, err)
				assert.NotErrorIs(t, err, ErrMismatch)
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestGetHash_Salted(t *testing.T) {
	h1, err := GetHash("same")
	require.NoError(t, err)
	h2, err := GetHash("same")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}
