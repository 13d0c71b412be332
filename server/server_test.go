package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jmcordova/accounts-backend/testutils"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	cfg := testutils.GetTestConfig()

	srv := New(cfg, nil)

	require.NotNil(t, srv)
	require.NotNil(t, srv.Echo())
	assert.True(t, srv.Echo().HideBanner)
}

func TestServerServesRegisteredRoutes(t *testing.T) {
	cfg := testutils.GetTestConfig()
	srv := New(cfg, nil)

	srv.Echo().GET("/ping", func(c echo.Context) error {
		return c.String(http.StatusOK, "pong")
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rec := httptest.NewRecorder()
	srv.Echo().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
}

func TestServerRecoversFromPanics(t *testing.T) {
	cfg := testutils.GetTestConfig()
	srv := New(cfg, nil)

	srv.Echo().GET("/panic", func(c echo.Context) error {
		panic("boom")
	})

	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	rec := httptest.NewRecorder()
	srv.Echo().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestShutdownWithoutStart(t *testing.T) {
	cfg := testutils.GetTestConfig()
	srv := New(cfg, nil)

	err := srv.Shutdown(context.Background())
	assert.NoError(t, err)
}
