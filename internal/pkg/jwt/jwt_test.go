package jwt

import (
	"context"
	"testing"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timenest/timenest-backend-go/internal/domain/employee"
)

func TestGenerateAccessToken_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret-key-for-jwt", "1h")

	token, exp, err := svc.GenerateAccessToken("user-1", "admin@example.com", employee.RoleAdmin)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Positive(t, exp)

	decoded, err := svc.JWTAuth().Decode(token)
	require.NoError(t, err)

	ctx := jwtauth.NewContext(context.Background(), decoded, nil)

	claims, err := ClaimsFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, TokenTypeAccess, claims.Type)
	assert.True(t, claims.IsAdmin())
}

func TestGenerateAccessToken_BadExpiration(t *testing.T) {
	svc := NewJWTService("secret", "forever")
	_, _, err := svc.GenerateAccessToken("user-1", "a@example.com", employee.RoleEmployee)
	assert.Error(t, err)
}

func TestClaimsFromContext_Missing(t *testing.T) {
	_, err := ClaimsFromContext(context.Background())
	assert.Error(t, err)
}
