package testutils

import (
	"time"

	"github.com/jmcordova/accounts-backend/config"
	"golang.org/x/crypto/bcrypt"
)

func GetTestConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{
			Name: "Test App",
			URL:  "http://localhost:8080",
		},
		Auth: config.AuthConfig{
			MinLength:       8,
			RequireUpper:    true,
			RequireLower:    true,
			RequireNumber:   true,
			RequireSpecial:  false,
			BcryptCost:      bcrypt.MinCost,
			ResetCodeExpiry: 15 * time.Minute,
		},
		JWT: config.JWTConfig{
			SecretKey:               "a1b2c3d4e5f6g7h8i9j0k1l2m3n4o5p6",
			Issuer:                  "accounts-backend",
			IdentityExpiry:          15 * time.Minute,
			EmailVerificationExpiry: 24 * time.Hour,
			ResetLinkExpiry:         15 * time.Minute,
			ResetProofExpiry:        10 * time.Minute,
		},
		Database: config.DatabaseConfig{
			Driver: "sqlite",
			DSN:    ":memory:",
		},
		Mail: config.MailConfig{
			Host:        "localhost",
			Port:        2525,
			Encryption:  "none",
			FromAddress: "noreply@localhost",
			FromName:    "Test App",
		},
	}
}

var TestPasswords = struct {
	Valid       string
	TooShort    string
	NoUpper     string
	NoLower     string
	NoNumber    string
	WithSpecial string
}{
	Valid:       "Password123",
	TooShort:    "Pass1",
	NoUpper:     "password123",
	NoLower:     "PASSWORD123",
	NoNumber:    "Password",
	WithSpecial: "Password123!",
}

var TestAccounts = struct {
	Valid struct {
		FirstName string
		LastName  string
		Email     string
		Password  string
	}
	InvalidEmail struct {
		FirstName string
		LastName  string
		Email     string
		Password  string
	}
}{
	Valid: struct {
		FirstName string
		LastName  string
		Email     string
		Password  string
	}{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane.doe@example.com",
		Password:  "Password123",
	},
	InvalidEmail: struct {
		FirstName string
		LastName  string
		Email     string
		Password  string
	}{
		FirstName: "John",
		LastName:  "Doe",
		Email:     "invalid-email",
		Password:  "Password123",
	},
}
