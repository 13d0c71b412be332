package token

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jmcordova/accounts-backend/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupService() *Service {
	return NewService(testutils.GetTestConfig(), nil)
}

func TestIssue(t *testing.T) {
	service := setupService()

	t.Run("issues a signed token with full claims", func(t *testing.T) {
		tokenString, err := service.Issue(42, "jane.doe@example.com", PurposeIdentity, time.Hour)
		require.NoError(t, err)
		require.NotEmpty(t, tokenString)
		assert.Equal(t, 3, len(strings.Split(tokenString, ".")))

		claims, err := service.Verify(tokenString, PurposeIdentity)
		require.NoError(t, err)
		assert.Equal(t, uint(42), claims.AccountID)
		assert.Equal(t, "jane.doe@example.com", claims.Email)
		assert.Equal(t, PurposeIdentity, claims.Purpose)
		assert.Equal(t, "accounts-backend", claims.Issuer)
		assert.Equal(t, "jane.doe@example.com", claims.Subject)
		assert.NotEmpty(t, claims.ID)
	})

	t.Run("tokens carry unique IDs", func(t *testing.T) {
		first, err := service.Issue(1, "a@example.com", PurposeIdentity, time.Hour)
		require.NoError(t, err)
		second, err := service.Issue(1, "a@example.com", PurposeIdentity, time.Hour)
		require.NoError(t, err)

		firstClaims, err := service.Verify(first, PurposeIdentity)
		require.NoError(t, err)
		secondClaims, err := service.Verify(second, PurposeIdentity)
		require.NoError(t, err)

		assert.NotEqual(t, firstClaims.ID, secondClaims.ID)
	})

	t.Run("zero account ID is omitted from the payload", func(t *testing.T) {
		tokenString, err := service.Issue(0, "a@example.com", PurposeResetLink, time.Hour)
		require.NoError(t, err)

		claims, err := service.Verify(tokenString, PurposeResetLink)
		require.NoError(t, err)
		assert.Equal(t, uint(0), claims.AccountID)
	})
}

func TestVerify(t *testing.T) {
	service := setupService()

	t.Run("expired token", func(t *testing.T) {
		tokenString, err := service.Issue(1, "a@example.com", PurposeIdentity, -time.Minute)
		require.NoError(t, err)

		_, err = service.Verify(tokenString, PurposeIdentity)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("malformed token", func(t *testing.T) {
		_, err := service.Verify("not-a-token", PurposeIdentity)
		assert.ErrorIs(t, err, ErrMalformedToken)
	})

	t.Run("empty token", func(t *testing.T) {
		_, err := service.Verify("", PurposeIdentity)
		assert.ErrorIs(t, err, ErrMalformedToken)
	})

	t.Run("wrong signing key", func(t *testing.T) {
		otherCfg := testutils.GetTestConfig()
		otherCfg.JWT.SecretKey = "z9y8x7w6v5u4t3s2r1q0p9o8n7m6l5k4"
		otherService := NewService(otherCfg, nil)

		tokenString, err := otherService.Issue(1, "a@example.com", PurposeIdentity, time.Hour)
		require.NoError(t, err)

		_, err = service.Verify(tokenString, PurposeIdentity)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("tampered payload", func(t *testing.T) {
		tokenString, err := service.Issue(1, "a@example.com", PurposeIdentity, time.Hour)
		require.NoError(t, err)

		parts := strings.Split(tokenString, ".")
		require.Len(t, parts, 3)
		tampered := parts[0] + ".eyJhY2NvdW50X2lkIjo5OTl9." + parts[2]

		_, err = service.Verify(tampered, PurposeIdentity)
		assert.Error(t, err)
	})

	t.Run("wrong purpose", func(t *testing.T) {
		tokenString, err := service.Issue(1, "a@example.com", PurposeEmailVerification, time.Hour)
		require.NoError(t, err)

		_, err = service.Verify(tokenString, PurposeIdentity)
		assert.ErrorIs(t, err, ErrWrongPurpose)
	})

	t.Run("each purpose only verifies against itself", func(t *testing.T) {
		purposes := []Purpose{
			PurposeIdentity,
			PurposeEmailVerification,
			PurposeResetLink,
			PurposeResetProof,
		}

		for _, issued := range purposes {
			tokenString, err := service.Issue(1, "a@example.com", issued, time.Hour)
			require.NoError(t, err)

			for _, checked := range purposes {
				_, err := service.Verify(tokenString, checked)
				if issued == checked {
					assert.NoError(t, err)
				} else {
					assert.ErrorIs(t, err, ErrWrongPurpose)
				}
			}
		}
	})

	t.Run("unsigned token is rejected", func(t *testing.T) {
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
			AccountID: 1,
			Email:     "a@example.com",
			Purpose:   PurposeIdentity,
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})
		tokenString, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = service.Verify(tokenString, PurposeIdentity)
		assert.Error(t, err)
	})
}
