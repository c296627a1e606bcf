package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/hbomb79/Tubely/internal/api/gen"
	"github.com/hbomb79/Tubely/pkg/logger"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const (
	TokenIssuer = "tubely-access"

	principalContextKey = "principal"
	bearerPrefix        = "Bearer "
)

var (
	ErrNoAuthHeader = errors.New("authorization header missing or malformed")
	ErrInvalidToken = errors.New("access token is invalid")
	ErrNoPrincipal  = errors.New("request is not authenticated")

	log = logger.Get("Auth")
)

// ExtractBearerToken returns the token from an 'Authorization: Bearer <token>' header.
func ExtractBearerToken(headers http.Header) (string, error) {
	header := headers.Get(echo.HeaderAuthorization)
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", ErrNoAuthHeader
	}

	token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	if token == "" {
		return "", ErrNoAuthHeader
	}

	return token, nil
}

// ValidatePrincipal verifies the HS256 signed access token and returns the
// ID of the user it was issued to (the 'sub' claim).
func ValidatePrincipal(token string, secret string) (uuid.UUID, error) {
	claims := &jwt.RegisteredClaims{}
	tkn, err := jwt.ParseWithClaims(
		token,
		claims,
		func(token *jwt.Token) (interface{}, error) { return []byte(secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(TokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if tkn == nil || !tkn.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: subject is not a user ID: %w", ErrInvalidToken, err)
	}

	return userID, nil
}

// Middleware returns an echo middleware which rejects any request without
// a valid bearer token. The authenticated user ID is stored on the context
// and can be retrieved with PrincipalFromContext.
func Middleware(secret string) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey: principalContextKey,
		TokenLookupFuncs: []middleware.ValuesExtractor{
			func(ec echo.Context) ([]string, error) {
				token, err := ExtractBearerToken(ec.Request().Header)
				if err != nil {
					return nil, err
				}

				return []string{token}, nil
			},
		},
		ParseTokenFunc: func(ec echo.Context, token string) (interface{}, error) {
			return ValidatePrincipal(token, secret)
		},
		ErrorHandler: func(ec echo.Context, err error) error {
			log.Debugf("Rejected %s request to %s: %v\n", ec.Request().Method, ec.Request().RequestURI, err)
			return gen.APIError{
				Status:  http.StatusUnauthorized,
				Code:    "UNAUTHENTICATED",
				Message: "A valid bearer token is required",
			}
		},
	})
}

// PrincipalFromContext returns the ID of the authenticated user for
// this request. An error is returned if the request was not authenticated.
func PrincipalFromContext(ec echo.Context) (uuid.UUID, error) {
	userID, ok := ec.Get(principalContextKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, ErrNoPrincipal
	}

	return userID, nil
}
