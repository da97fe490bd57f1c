package auth

import (
	"context"
	"errors"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

// ContextKey is where the JWT middleware stores the validated *Claims.
const ContextKey = "user"

// ErrTokenRevoked is returned for access tokens blacklisted at logout.
var ErrTokenRevoked = errors.New("token revoked")

// Middleware returns an echo-jwt middleware that accepts only non-revoked
// access tokens issued by jwtService.
func Middleware(jwtService *JWTService, store TokenStore) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  ContextKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			claims, err := jwtService.ValidateAccessToken(token)
			if err != nil {
				return nil, err
			}
			if revoked, _ := store.IsAccessTokenBlacklisted(requestContext(c), claims.ID); revoked {
				return nil, ErrTokenRevoked
			}
			return claims, nil
		},
	})
}

func requestContext(c echo.Context) context.Context {
	if c.Request() == nil {
		return context.Background()
	}
	return c.Request().Context()
}

// FromContext returns the claims stored by Middleware.
func FromContext(c echo.Context) (*Claims, bool) {
	claims, ok := c.Get(ContextKey).(*Claims)
	return claims, ok && claims != nil
}
