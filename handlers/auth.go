package handlers

import (
	"errors"
	"net/http"

	jwtmw "github.com/jmcordova/accounts-backend/middleware/jwt"
	"github.com/jmcordova/accounts-backend/services/auth"
	"github.com/jmcordova/accounts-backend/services/logging"
	"github.com/jmcordova/accounts-backend/services/token"
	"github.com/jmcordova/accounts-backend/store"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type AuthHandler struct {
	auth   *auth.Service
	logger *logging.Service
}

func NewAuthHandler(authService *auth.Service, logger *logging.Service) *AuthHandler {
	return &AuthHandler{
		auth:   authService,
		logger: logger,
	}
}

type registerRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sendResetPasswordRequest struct {
	Email string `json:"email"`
}

type validateCodeRequest struct {
	Code string `json:"code"`
}

type resetPasswordRequest struct {
	NewPassword string `json:"new_password"`
}

type accountResponse struct {
	ID             uint   `json:"id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email"`
	EmailValidated bool   `json:"email_validated"`
}

type authResponse struct {
	Account accountResponse `json:"account"`
	Token   string          `json:"token"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	account, identityToken, err := h.auth.Register(auth.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		return h.mapError(c, err)
	}

	return c.JSON(http.StatusCreated, authResponse{
		Account: toAccountResponse(account),
		Token:   identityToken,
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	account, identityToken, err := h.auth.Login(auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return h.mapError(c, err)
	}

	return c.JSON(http.StatusOK, authResponse{
		Account: toAccountResponse(account),
		Token:   identityToken,
	})
}

func (h *AuthHandler) ValidateEmail(c echo.Context) error {
	if err := h.auth.ValidateEmail(c.Param("token")); err != nil {
		return h.mapError(c, err)
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "email validated"})
}

func (h *AuthHandler) ValidateToken(c echo.Context) error {
	account, err := h.auth.ValidateToken(c.Param("token"))
	if err != nil {
		return h.mapError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"authenticated": true,
		"account":       toAccountResponse(account),
	})
}

func (h *AuthHandler) SendResetPassword(c echo.Context) error {
	var req sendResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := h.auth.RequestPasswordReset(req.Email); err != nil {
		return h.mapError(c, err)
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "reset email sent"})
}

func (h *AuthHandler) ValidateCode(c echo.Context) error {
	var req validateCodeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	proofToken, err := h.auth.VerifyResetCode(c.Param("token"), req.Code)
	if err != nil {
		return h.mapError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message":     "code validated",
		"proof_token": proofToken,
	})
}

func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := h.auth.ResetPassword(c.Param("token"), req.NewPassword); err != nil {
		return h.mapError(c, err)
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "password updated"})
}

// Me is mounted behind the auth middleware, which has already
// verified the identity token and stashed its claims.
func (h *AuthHandler) Me(c echo.Context) error {
	claims := jwtmw.GetClaims(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
	}

	account, err := h.auth.AccountByEmail(claims.Email)
	if err != nil {
		return h.mapError(c, err)
	}

	return c.JSON(http.StatusOK, toAccountResponse(account))
}

func toAccountResponse(account *store.Account) accountResponse {
	return accountResponse{
		ID:             account.ID,
		FirstName:      account.FirstName,
		LastName:       account.LastName,
		Email:          account.Email,
		EmailValidated: account.EmailValidated,
	}
}

// mapError converts service errors into HTTP responses. Internal
// failures surface as a generic 500 so storage or mail details never
// leak to clients.
func (h *AuthHandler) mapError(c echo.Context, err error) error {
	var validationErr *auth.ValidationError
	if errors.As(err, &validationErr) {
		return echo.NewHTTPError(http.StatusBadRequest, validationErr.Error())
	}

	switch {
	case errors.Is(err, auth.ErrDuplicateEmail),
		errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrUnknownEmail),
		errors.Is(err, auth.ErrUnknownAccount),
		errors.Is(err, auth.ErrNoValidCode),
		errors.Is(err, auth.ErrCodeMismatch):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, token.ErrExpiredToken),
		errors.Is(err, token.ErrMalformedToken),
		errors.Is(err, token.ErrInvalidSignature),
		errors.Is(err, token.ErrWrongPurpose),
		errors.Is(err, token.ErrInvalidToken):
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
	default:
		if h.logger != nil {
			h.logger.Error("request failed",
				zap.String("path", c.Path()),
				zap.Error(err))
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}
