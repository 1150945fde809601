package jwt

import (
	"context"
	"testing"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccessToken_RoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret-key-for-jwt", "1h")
	employeeID := "emp-1"

	token, expiresAt, err := svc.GenerateAccessToken("user-1", &employeeID, []string{"hr"})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Positive(t, expiresAt)

	decoded, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	require.NoError(t, err)

	claims, err := decoded.AsMap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims[ClaimUserID])
	assert.Equal(t, "emp-1", claims[ClaimEmployeeID])
	assert.Equal(t, TokenTypeAccess, claims[ClaimType])

	ctx := jwtauth.NewContext(context.Background(), decoded, nil)
	actor, err := ActorFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "user-1", actor)
}

func TestGenerateAccessToken_BadExpiration(t *testing.T) {
	svc := NewJWTService("secret", "forever")
	_, _, err := svc.GenerateAccessToken("user-1", nil, nil)
	assert.Error(t, err)
}

func TestActorFromContext_Missing(t *testing.T) {
	_, err := ActorFromContext(context.Background())
	assert.Error(t, err)
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	issuer := NewJWTService("secret-a", "1h")
	verifier := NewJWTService("secret-b", "1h")

	token, _, err := issuer.GenerateAccessToken("user-1", nil, nil)
	require.NoError(t, err)

	_, err = jwtauth.VerifyToken(verifier.JWTAuth(), token)
	assert.Error(t, err)
}
