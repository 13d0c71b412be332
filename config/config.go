package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig       `envPrefix:"APP_"`
	Server    ServerConfig    `envPrefix:"SERVER_"`
	Log       LogConfig       `envPrefix:"LOG_"`
	Database  DatabaseConfig  `envPrefix:"DATABASE_"`
	Auth      AuthConfig      `envPrefix:"AUTH_"`
	JWT       JWTConfig       `envPrefix:"JWT_"`
	Mail      MailConfig      `envPrefix:"MAIL_"`
	RateLimit RateLimitConfig `envPrefix:"RATE_LIMIT_"`
}

type AppConfig struct {
	Name string `env:"NAME" envDefault:"Accounts Backend"`
	URL  string `env:"URL" envDefault:"http://localhost:8080"`
}

type ServerConfig struct {
	Port string `env:"PORT" envDefault:"8080"`
	Host string `env:"HOST" envDefault:"localhost"`
}

type LogConfig struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"json"`
	Output string `env:"OUTPUT" envDefault:"stdout"`
}

type DatabaseConfig struct {
	Driver      string `env:"DRIVER" envDefault:"sqlite"`
	DSN         string `env:"DSN" envDefault:"accounts.db"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" envDefault:"true"`
}

type AuthConfig struct {
	MinLength       int           `env:"MIN_LENGTH" envDefault:"8"`
	RequireUpper    bool          `env:"REQUIRE_UPPER" envDefault:"true"`
	RequireLower    bool          `env:"REQUIRE_LOWER" envDefault:"true"`
	RequireNumber   bool          `env:"REQUIRE_NUMBER" envDefault:"true"`
	RequireSpecial  bool          `env:"REQUIRE_SPECIAL" envDefault:"true"`
	BcryptCost      int           `env:"BCRYPT_COST" envDefault:"10"`
	ResetCodeExpiry time.Duration `env:"RESET_CODE_EXPIRY" envDefault:"15m"`
}

type JWTConfig struct {
	SecretKey               string        `env:"SECRET_KEY"`
	Issuer                  string        `env:"ISSUER" envDefault:"accounts-backend"`
	IdentityExpiry          time.Duration `env:"IDENTITY_EXPIRY" envDefault:"24h"`
	EmailVerificationExpiry time.Duration `env:"EMAIL_VERIFICATION_EXPIRY" envDefault:"24h"`
	ResetLinkExpiry         time.Duration `env:"RESET_LINK_EXPIRY" envDefault:"15m"`
	ResetProofExpiry        time.Duration `env:"RESET_PROOF_EXPIRY" envDefault:"10m"`
}

type MailConfig struct {
	Host        string `env:"HOST" envDefault:"localhost"`
	Port        int    `env:"PORT" envDefault:"587"`
	Username    string `env:"USERNAME"`
	Password    string `env:"PASSWORD"`
	Encryption  string `env:"ENCRYPTION" envDefault:"starttls"`
	FromAddress string `env:"FROM_ADDRESS" envDefault:"noreply@localhost"`
	FromName    string `env:"FROM_NAME" envDefault:"Accounts Backend"`
}

type RateLimitConfig struct {
	Enabled   bool          `env:"ENABLED" envDefault:"true"`
	Rate      int           `env:"RATE" envDefault:"10"`
	Period    time.Duration `env:"PERIOD" envDefault:"1m"`
	CountMode CountingMode  `env:"COUNT_MODE" envDefault:"all"`
}

type CountingMode string

const (
	CountAll      CountingMode = "all"
	CountFailures CountingMode = "failures"
	CountSuccess  CountingMode = "success"
)

func LoadConfig(cfg any) error {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found: %v", err)
	}

	if err := env.Parse(cfg); err != nil {
		return err
	}

	if appCfg, ok := cfg.(*Config); ok {
		if err := validateJWTConfig(&appCfg.JWT); err != nil {
			return err
		}
	}

	return nil
}

var weakSecretPatterns = []string{
	"secret", "password", "changeme", "change-this", "default", "example", "test",
}

func validateJWTConfig(cfg *JWTConfig) error {
	if len(cfg.SecretKey) < 32 {
		return fmt.Errorf("JWT secret key must be at least 32 characters long")
	}

	lower := strings.ToLower(cfg.SecretKey)
	for _, pattern := range weakSecretPatterns {
		if strings.Contains(lower, pattern) {
			return fmt.Errorf("JWT secret key contains weak patterns, use a randomly generated key")
		}
	}

	return nil
}
