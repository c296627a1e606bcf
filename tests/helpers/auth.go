package helpers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/hbomb79/Tubely/internal/api/auth"
	"github.com/stretchr/testify/require"
)

// Defines common functions which assist tests with
// creating access tokens for test users

// NewAccessToken returns a signed access token for the user, as
// would be issued to them by the identity provider.
func NewAccessToken(t *testing.T, userID uuid.UUID, secret string) string {
	return NewAccessTokenWithClaims(t, secret, jwt.RegisteredClaims{
		Issuer:    auth.TokenIssuer,
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
}

func NewAccessTokenWithClaims(t *testing.T, secret string, claims jwt.RegisteredClaims) string {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err, "failed to sign access token")

	return token
}

// WithBearerToken sets the Authorization header of the request to the token given.
func WithBearerToken(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	return req
}
