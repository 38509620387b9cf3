package authenticating

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/crm-pipeline-api/internal/config"
	"github.com/vfg2006/crm-pipeline-api/internal/domain"
)

func TestValidateToken(t *testing.T) {
	service := NewService(&config.Config{SecretKey: "segredo"})

	token, err := service.IssueToken(domain.Claims{UserID: "u1", UserRoleID: 1}, time.Hour)
	require.NoError(t, err)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, 1, claims.UserRoleID)
}

func TestValidateToken_Errors(t *testing.T) {
	service := NewService(&config.Config{SecretKey: "segredo"})
	other := NewService(&config.Config{SecretKey: "outro"})

	expired, err := service.IssueToken(domain.Claims{UserID: "u1"}, -time.Minute)
	require.NoError(t, err)
	foreign, err := other.IssueToken(domain.Claims{UserID: "u1"}, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"expirado", expired, ErrExpiredToken},
		{"assinatura de outra chave", foreign, ErrInvalidToken},
		{"malformado", "abc.def", ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := service.ValidateToken(tt.token)

			assert.Nil(t, claims)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestMissingSecret(t *testing.T) {
	service := NewService(&config.Config{})

	_, err := service.IssueToken(domain.Claims{UserID: "u1"}, time.Hour)
	assert.ErrorIs(t, err, ErrMissingSecret)

	_, err = service.ValidateToken("abc.def.ghi")
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "AUTH_006", authErr.Code)
}
