package hashing

import (
	"errors"

	"github.com/jmcordova/accounts-backend/config"
	"github.com/jmcordova/accounts-backend/services/logging"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrHashingFailed = errors.New("failed to hash credential")
	ErrHashMismatch  = errors.New("credential does not match digest")
)

// Service is a one-way credential hasher used for both passwords and
// reset codes. Verification is constant-time via bcrypt.
type Service struct {
	cost   int
	logger *logging.Service
}

func NewService(cfg *config.Config, logger *logging.Service) *Service {
	cost := cfg.Auth.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Service{
		cost:   cost,
		logger: logger,
	}
}

func (s *Service) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), s.cost)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("credential hashing failed", zap.Error(err))
		}
		return "", ErrHashingFailed
	}
	return string(hash), nil
}

func (s *Service) Verify(plaintext, digest string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)); err != nil {
		return ErrHashMismatch
	}
	return nil
}
