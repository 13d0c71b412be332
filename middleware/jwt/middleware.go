package jwt

import (
	"net/http"
	"strings"

	"github.com/jmcordova/accounts-backend/services/token"
	"github.com/labstack/echo/v4"
)

const (
	AccountIDKey = "_jwt_account_id"
	ClaimsKey    = "_jwt_claims"
)

// RequireAuth guards a route with a bearer identity token. Verified
// claims are stored on the echo context for the handler.
func RequireAuth(tokens *token.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authorization header required")
			}

			if !strings.HasPrefix(authHeader, "Bearer ") {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization header format")
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Bearer token required")
			}

			claims, err := tokens.Verify(tokenString, token.PurposeIdentity)
			if err != nil {
				switch err {
				case token.ErrExpiredToken:
					return echo.NewHTTPError(http.StatusUnauthorized, "Token has expired")
				case token.ErrMalformedToken:
					return echo.NewHTTPError(http.StatusUnauthorized, "Malformed token")
				case token.ErrInvalidSignature:
					return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token signature")
				default:
					return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
				}
			}

			c.Set(AccountIDKey, claims.AccountID)
			c.Set(ClaimsKey, claims)

			return next(c)
		}
	}
}

func GetAccountID(c echo.Context) uint {
	if accountID, ok := c.Get(AccountIDKey).(uint); ok {
		return accountID
	}
	return 0
}

func GetClaims(c echo.Context) *token.Claims {
	if claims, ok := c.Get(ClaimsKey).(*token.Claims); ok {
		return claims
	}
	return nil
}
