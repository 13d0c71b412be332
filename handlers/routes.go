package handlers

import (
	"net/http"

	"github.com/jmcordova/accounts-backend/config"
	jwtmw "github.com/jmcordova/accounts-backend/middleware/jwt"
	"github.com/jmcordova/accounts-backend/middleware/ratelimit"
	"github.com/jmcordova/accounts-backend/services/token"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes mounts the public auth API. Login and reset-request
// are rate limited per client IP; /me requires a bearer identity
// token.
func RegisterRoutes(
	e *echo.Echo,
	h *AuthHandler,
	tokens *token.Service,
	cfg *config.Config,
	rlStore ratelimit.Store,
) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	g := e.Group("/api/auth")

	var limited echo.MiddlewareFunc
	if cfg.RateLimit.Enabled {
		limited = ratelimit.Middleware(&ratelimit.Config{
			Store:     rlStore,
			Rate:      cfg.RateLimit.Rate,
			Period:    cfg.RateLimit.Period,
			CountMode: cfg.RateLimit.CountMode,
		})
	} else {
		limited = func(next echo.HandlerFunc) echo.HandlerFunc {
			return next
		}
	}

	g.POST("/register", h.Register)
	g.POST("/login", h.Login, limited)
	g.GET("/validate-email/:token", h.ValidateEmail)
	g.GET("/validate-token/:token", h.ValidateToken)
	g.POST("/send-reset-password", h.SendResetPassword, limited)
	g.POST("/validate-code/:token", h.ValidateCode)
	g.POST("/reset-password/:token", h.ResetPassword)
	g.GET("/me", h.Me, jwtmw.RequireAuth(tokens))
}
