package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/jmcordova/accounts-backend/services/auth"
	"github.com/jmcordova/accounts-backend/services/hashing"
	"github.com/jmcordova/accounts-backend/services/token"
	"github.com/jmcordova/accounts-backend/store"
	"github.com/jmcordova/accounts-backend/testutils"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	echo   *echo.Echo
	tokens *token.Service
	sender *testutils.MockMailSender
}

func setupTestServer(t *testing.T) *testServer {
	cfg := testutils.GetTestConfig()
	db := testutils.SetupTestDB(t, &store.Account{}, &store.ResetCode{})

	accounts := store.NewGormAccountStore(db)
	codes := store.NewGormResetCodeStore(db)
	hasher := hashing.NewService(cfg, nil)
	tokens := token.NewService(cfg, nil)
	sender := &testutils.MockMailSender{}

	authService := auth.NewService(cfg, accounts, codes, hasher, tokens, sender, nil)
	handler := NewAuthHandler(authService, nil)

	e := echo.New()
	RegisterRoutes(e, handler, tokens, cfg, nil)

	return &testServer{
		echo:   e,
		tokens: tokens,
		sender: sender,
	}
}

func (s *testServer) request(method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) registerAccount(t *testing.T) (accountID uint, identityToken string) {
	s.sender.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

	rec := s.request(http.MethodPost, "/api/auth/register",
		`{"first_name":"Jane","last_name":"Doe","email":"jane.doe@example.com","password":"Password123"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Account struct {
			ID uint `json:"id"`
		} `json:"account"`
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Account.ID, resp.Token
}

func TestHealthEndpoint(t *testing.T) {
	s := setupTestServer(t)

	rec := s.request(http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestRegisterEndpoint(t *testing.T) {
	t.Run("successful registration", func(t *testing.T) {
		s := setupTestServer(t)
		s.sender.On("Send", "jane.doe@example.com", "Validate your email", mock.Anything).Return(nil).Once()

		rec := s.request(http.MethodPost, "/api/auth/register",
			`{"first_name":"Jane","last_name":"Doe","email":"jane.doe@example.com","password":"Password123"}`, nil)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"email":"jane.doe@example.com"`)
		assert.Contains(t, rec.Body.String(), `"token"`)
		assert.NotContains(t, rec.Body.String(), "Password123")
		s.sender.AssertExpectations(t)
	})

	t.Run("invalid body", func(t *testing.T) {
		s := setupTestServer(t)

		rec := s.request(http.MethodPost, "/api/auth/register", `{"email":`, nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("weak password", func(t *testing.T) {
		s := setupTestServer(t)

		rec := s.request(http.MethodPost, "/api/auth/register",
			`{"first_name":"Jane","last_name":"Doe","email":"jane.doe@example.com","password":"short"}`, nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "at least 8 characters")
	})

	t.Run("duplicate email", func(t *testing.T) {
		s := setupTestServer(t)
		s.registerAccount(t)

		rec := s.request(http.MethodPost, "/api/auth/register",
			`{"first_name":"Jane","last_name":"Doe","email":"jane.doe@example.com","password":"Password123"}`, nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "already registered")
	})
}

func TestLoginEndpoint(t *testing.T) {
	t.Run("successful login", func(t *testing.T) {
		s := setupTestServer(t)
		s.registerAccount(t)

		rec := s.request(http.MethodPost, "/api/auth/login",
			`{"email":"jane.doe@example.com","password":"Password123"}`, nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"token"`)
	})

	t.Run("wrong password and unknown email return the same response", func(t *testing.T) {
		s := setupTestServer(t)
		s.registerAccount(t)

		wrongPassword := s.request(http.MethodPost, "/api/auth/login",
			`{"email":"jane.doe@example.com","password":"Nope12345"}`, nil)
		unknownEmail := s.request(http.MethodPost, "/api/auth/login",
			`{"email":"nobody@example.com","password":"Password123"}`, nil)

		assert.Equal(t, http.StatusBadRequest, wrongPassword.Code)
		assert.Equal(t, wrongPassword.Code, unknownEmail.Code)
		assert.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
	})
}

func TestValidateEmailEndpoint(t *testing.T) {
	s := setupTestServer(t)
	s.registerAccount(t)

	t.Run("valid verification token", func(t *testing.T) {
		verificationToken, err := s.tokens.Issue(0, "jane.doe@example.com", token.PurposeEmailVerification, time.Hour)
		require.NoError(t, err)

		rec := s.request(http.MethodGet, "/api/auth/validate-email/"+verificationToken, "", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "email validated")
	})

	t.Run("garbage token", func(t *testing.T) {
		rec := s.request(http.MethodGet, "/api/auth/validate-email/garbage", "", nil)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestValidateTokenEndpoint(t *testing.T) {
	s := setupTestServer(t)
	_, identityToken := s.registerAccount(t)

	t.Run("valid identity token", func(t *testing.T) {
		rec := s.request(http.MethodGet, "/api/auth/validate-token/"+identityToken, "", nil)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"authenticated":true`)
		assert.Contains(t, rec.Body.String(), `"email":"jane.doe@example.com"`)
	})

	t.Run("expired token", func(t *testing.T) {
		expired, err := s.tokens.Issue(1, "jane.doe@example.com", token.PurposeIdentity, -time.Minute)
		require.NoError(t, err)

		rec := s.request(http.MethodGet, "/api/auth/validate-token/"+expired, "", nil)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestPasswordResetEndpoints(t *testing.T) {
	codePattern := regexp.MustCompile(`<strong>(\d{6})</strong>`)

	requestReset := func(t *testing.T, s *testServer) string {
		var body string
		s.sender.On("Send", "jane.doe@example.com", "Reset your password", mock.Anything).
			Run(func(args mock.Arguments) {
				body = args.String(2)
			}).
			Return(nil).Once()

		rec := s.request(http.MethodPost, "/api/auth/send-reset-password",
			`{"email":"jane.doe@example.com"}`, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		matches := codePattern.FindStringSubmatch(body)
		require.Len(t, matches, 2)
		return matches[1]
	}

	t.Run("complete reset flow", func(t *testing.T) {
		s := setupTestServer(t)
		s.registerAccount(t)

		code := requestReset(t, s)

		linkToken, err := s.tokens.Issue(0, "jane.doe@example.com", token.PurposeResetLink, time.Hour)
		require.NoError(t, err)

		rec := s.request(http.MethodPost, "/api/auth/validate-code/"+linkToken,
			`{"code":"`+code+`"}`, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp struct {
			ProofToken string `json:"proof_token"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.NotEmpty(t, resp.ProofToken)

		rec = s.request(http.MethodPost, "/api/auth/reset-password/"+resp.ProofToken,
			`{"new_password":"BrandNew123"}`, nil)
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		rec = s.request(http.MethodPost, "/api/auth/login",
			`{"email":"jane.doe@example.com","password":"BrandNew123"}`, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unknown email on reset request", func(t *testing.T) {
		s := setupTestServer(t)

		rec := s.request(http.MethodPost, "/api/auth/send-reset-password",
			`{"email":"nobody@example.com"}`, nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("wrong code", func(t *testing.T) {
		s := setupTestServer(t)
		s.registerAccount(t)

		code := requestReset(t, s)
		wrong := "000000"
		if wrong == code {
			wrong = "000001"
		}

		linkToken, err := s.tokens.Issue(0, "jane.doe@example.com", token.PurposeResetLink, time.Hour)
		require.NoError(t, err)

		rec := s.request(http.MethodPost, "/api/auth/validate-code/"+linkToken,
			`{"code":"`+wrong+`"}`, nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("reset requires the proof token", func(t *testing.T) {
		s := setupTestServer(t)
		s.registerAccount(t)

		requestReset(t, s)

		linkToken, err := s.tokens.Issue(0, "jane.doe@example.com", token.PurposeResetLink, time.Hour)
		require.NoError(t, err)

		rec := s.request(http.MethodPost, "/api/auth/reset-password/"+linkToken,
			`{"new_password":"BrandNew123"}`, nil)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestMeEndpoint(t *testing.T) {
	t.Run("returns the authenticated account", func(t *testing.T) {
		s := setupTestServer(t)
		_, identityToken := s.registerAccount(t)

		rec := s.request(http.MethodGet, "/api/auth/me", "", map[string]string{
			"Authorization": "Bearer " + identityToken,
		})

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"email":"jane.doe@example.com"`)
	})

	t.Run("missing token", func(t *testing.T) {
		s := setupTestServer(t)

		rec := s.request(http.MethodGet, "/api/auth/me", "", nil)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("verification token is not an identity token", func(t *testing.T) {
		s := setupTestServer(t)
		s.registerAccount(t)

		verificationToken, err := s.tokens.Issue(0, "jane.doe@example.com", token.PurposeEmailVerification, time.Hour)
		require.NoError(t, err)

		rec := s.request(http.MethodGet, "/api/auth/me", "", map[string]string{
			"Authorization": "Bearer " + verificationToken,
		})

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
