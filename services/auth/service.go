package auth

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"unicode"

	"github.com/jmcordova/accounts-backend/config"
	"github.com/jmcordova/accounts-backend/services/hashing"
	"github.com/jmcordova/accounts-backend/services/logging"
	"github.com/jmcordova/accounts-backend/services/token"
	"github.com/jmcordova/accounts-backend/store"
	"go.uber.org/zap"
)

// MailSender is the narrow notification contract the orchestrator
// consumes; the mail service satisfies it in production.
type MailSender interface {
	Send(to, subject, htmlBody string) error
}

// Service coordinates the stores, the hasher, the token service and
// the notification sender into the account lifecycle flows. Each
// method is an independent, short-lived unit of work; there is no
// shared mutable state beyond the stores.
type Service struct {
	config   *config.Config
	accounts store.AccountStore
	codes    store.ResetCodeStore
	hasher   *hashing.Service
	tokens   *token.Service
	sender   MailSender
	logger   *logging.Service
}

func NewService(
	cfg *config.Config,
	accounts store.AccountStore,
	codes store.ResetCodeStore,
	hasher *hashing.Service,
	tokens *token.Service,
	sender MailSender,
	logger *logging.Service,
) *Service {
	return &Service{
		config:   cfg,
		accounts: accounts,
		codes:    codes,
		hasher:   hasher,
		tokens:   tokens,
		sender:   sender,
		logger:   logger,
	}
}

func (s *Service) ValidatePassword(password string) error {
	if len(password) < s.config.Auth.MinLength {
		return validationErrorf("password must be at least %d characters", s.config.Auth.MinLength)
	}

	var hasUpper, hasLower, hasNumber, hasSpecial bool
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}

	var missing []string
	if s.config.Auth.RequireUpper && !hasUpper {
		missing = append(missing, "one uppercase letter")
	}
	if s.config.Auth.RequireLower && !hasLower {
		missing = append(missing, "one lowercase letter")
	}
	if s.config.Auth.RequireNumber && !hasNumber {
		missing = append(missing, "one number")
	}
	if s.config.Auth.RequireSpecial && !hasSpecial {
		missing = append(missing, "one special character")
	}

	if len(missing) > 0 {
		return validationErrorf("password must contain at least %s", strings.Join(missing, ", "))
	}

	return nil
}

// Register creates an account, sends the email-validation link and
// issues an identity token. A failed validation email aborts the flow:
// the user cannot complete onboarding without it.
func (s *Service) Register(in RegisterInput) (*store.Account, string, error) {
	if err := in.Validate(); err != nil {
		return nil, "", err
	}
	if err := s.ValidatePassword(in.Password); err != nil {
		return nil, "", err
	}

	// Best-effort pre-check; the store's unique index is the final
	// arbiter under concurrent registration.
	if _, err := s.accounts.FindByEmail(in.Email); err == nil {
		return nil, "", ErrDuplicateEmail
	} else if !errors.Is(err, store.ErrAccountNotFound) {
		return nil, "", fmt.Errorf("failed to check email uniqueness: %w", err)
	}

	passwordHash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	account := &store.Account{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Password:  passwordHash,
	}

	if err := s.accounts.Create(account); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return nil, "", ErrDuplicateEmail
		}
		return nil, "", fmt.Errorf("failed to create account: %w", err)
	}

	if err := s.sendEmailValidationLink(account); err != nil {
		if s.logger != nil {
			s.logger.Error("failed to send validation email",
				zap.String("email", account.Email),
				zap.Error(err))
		}
		return nil, "", fmt.Errorf("failed to send validation email: %w", err)
	}

	identityToken, err := s.tokens.Issue(account.ID, account.Email, token.PurposeIdentity, s.config.JWT.IdentityExpiry)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue identity token: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("account registered", zap.String("email", account.Email))
	}

	return account, identityToken, nil
}

// Login checks credentials and issues an identity token. Unknown email
// and wrong password produce the same error so responses do not reveal
// which emails are registered.
func (s *Service) Login(in LoginInput) (*store.Account, string, error) {
	if err := in.Validate(); err != nil {
		return nil, "", err
	}

	account, err := s.accounts.FindByEmail(in.Email)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to look up account: %w", err)
	}

	if err := s.hasher.Verify(in.Password, account.Password); err != nil {
		if s.logger != nil {
			s.logger.Warn("failed login attempt", zap.String("email", in.Email))
		}
		return nil, "", ErrInvalidCredentials
	}

	identityToken, err := s.tokens.Issue(account.ID, account.Email, token.PurposeIdentity, s.config.JWT.IdentityExpiry)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue identity token: %w", err)
	}

	return account, identityToken, nil
}

// ValidateEmail marks the account behind a verification token as
// validated. Re-validating an already validated account succeeds.
func (s *Service) ValidateEmail(tokenString string) error {
	claims, err := s.tokens.Verify(tokenString, token.PurposeEmailVerification)
	if err != nil {
		return err
	}

	if _, err := s.accounts.MarkEmailValidated(claims.Email); err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			return ErrUnknownAccount
		}
		return fmt.Errorf("failed to mark email as validated: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("email validated", zap.String("email", claims.Email))
	}

	return nil
}

// AccountByEmail resolves an account for an already-authenticated
// caller.
func (s *Service) AccountByEmail(email string) (*store.Account, error) {
	account, err := s.accounts.FindByEmail(email)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			return nil, ErrUnknownAccount
		}
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}
	return account, nil
}

// ValidateToken verifies an identity token and confirms the account
// still exists.
func (s *Service) ValidateToken(tokenString string) (*store.Account, error) {
	claims, err := s.tokens.Verify(tokenString, token.PurposeIdentity)
	if err != nil {
		return nil, err
	}

	account, err := s.accounts.FindByEmail(claims.Email)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			return nil, ErrUnknownAccount
		}
		return nil, fmt.Errorf("failed to look up account: %w", err)
	}

	return account, nil
}

// RequestPasswordReset generates a 6-digit one-time code and a reset
// link token, persists the hashed code and emails both. The code write
// is awaited: a failed save fails the request.
func (s *Service) RequestPasswordReset(email string) error {
	if err := validateEmailFormat(email); err != nil {
		return err
	}

	account, err := s.accounts.FindByEmail(email)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			return ErrUnknownEmail
		}
		return fmt.Errorf("failed to look up account: %w", err)
	}

	code, err := generateResetCode()
	if err != nil {
		return fmt.Errorf("failed to generate reset code: %w", err)
	}

	codeHash, err := s.hasher.Hash(code)
	if err != nil {
		return fmt.Errorf("failed to hash reset code: %w", err)
	}

	expiresAt := timeNow().Add(s.config.Auth.ResetCodeExpiry)
	if err := s.codes.Save(account.ID, codeHash, expiresAt); err != nil {
		return fmt.Errorf("failed to save reset code: %w", err)
	}

	// Link token carries the email claim only.
	linkToken, err := s.tokens.Issue(0, account.Email, token.PurposeResetLink, s.config.JWT.ResetLinkExpiry)
	if err != nil {
		return fmt.Errorf("failed to issue reset link token: %w", err)
	}

	if err := s.sendResetPasswordEmail(account, linkToken, code); err != nil {
		if s.logger != nil {
			s.logger.Error("failed to send reset email",
				zap.String("email", account.Email),
				zap.Error(err))
		}
		return fmt.Errorf("failed to send reset email: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("password reset requested", zap.String("email", account.Email))
	}

	return nil
}

// VerifyResetCode checks the submitted code against the latest valid
// stored hash, consumes the code, and returns a short-lived proof
// token that ResetPassword requires. Marking the code used here closes
// the replay window: a code verifies exactly once.
func (s *Service) VerifyResetCode(tokenString, code string) (string, error) {
	claims, err := s.tokens.Verify(tokenString, token.PurposeResetLink)
	if err != nil {
		return "", err
	}

	account, err := s.accounts.FindByEmail(claims.Email)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			return "", ErrUnknownAccount
		}
		return "", fmt.Errorf("failed to look up account: %w", err)
	}

	resetCode, err := s.codes.LatestValid(account.ID)
	if err != nil {
		if errors.Is(err, store.ErrNoValidCode) {
			return "", ErrNoValidCode
		}
		return "", fmt.Errorf("failed to look up reset code: %w", err)
	}

	if err := s.hasher.Verify(code, resetCode.CodeHash); err != nil {
		if s.logger != nil {
			s.logger.Warn("reset code mismatch", zap.String("email", account.Email))
		}
		return "", ErrCodeMismatch
	}

	if err := s.codes.MarkUsed(resetCode.ID); err != nil {
		if errors.Is(err, store.ErrCodeAlreadyUsed) {
			// Lost the race against a concurrent verification.
			return "", ErrNoValidCode
		}
		return "", fmt.Errorf("failed to consume reset code: %w", err)
	}

	proofToken, err := s.tokens.Issue(account.ID, account.Email, token.PurposeResetProof, s.config.JWT.ResetProofExpiry)
	if err != nil {
		return "", fmt.Errorf("failed to issue reset proof token: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("reset code verified", zap.String("email", account.Email))
	}

	return proofToken, nil
}

// ResetPassword sets a new password for the account behind a proof
// token. Only tokens issued by VerifyResetCode are accepted; the reset
// link token alone does not authorize a password change.
func (s *Service) ResetPassword(proofToken, newPassword string) error {
	claims, err := s.tokens.Verify(proofToken, token.PurposeResetProof)
	if err != nil {
		return err
	}

	if err := s.ValidatePassword(newPassword); err != nil {
		return err
	}

	account, err := s.accounts.FindByEmail(claims.Email)
	if err != nil {
		if errors.Is(err, store.ErrAccountNotFound) {
			return ErrUnknownAccount
		}
		return fmt.Errorf("failed to look up account: %w", err)
	}

	newHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	if err := s.accounts.UpdatePassword(account.ID, newHash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("password reset completed", zap.String("email", account.Email))
	}

	return nil
}

func (s *Service) sendEmailValidationLink(account *store.Account) error {
	verificationToken, err := s.tokens.Issue(0, account.Email, token.PurposeEmailVerification, s.config.JWT.EmailVerificationExpiry)
	if err != nil {
		return fmt.Errorf("failed to issue verification token: %w", err)
	}

	link := fmt.Sprintf("%s/api/auth/validate-email/%s", s.config.App.URL, verificationToken)
	body := fmt.Sprintf(emailValidationBody, account.FirstName, link)

	return s.sender.Send(account.Email, "Validate your email", body)
}

func (s *Service) sendResetPasswordEmail(account *store.Account, linkToken, code string) error {
	link := fmt.Sprintf("%s/auth/reset-password/%s", s.config.App.URL, linkToken)
	body := fmt.Sprintf(resetPasswordBody,
		account.FirstName, link, code, int(s.config.Auth.ResetCodeExpiry.Minutes()))

	return s.sender.Send(account.Email, "Reset your password", body)
}

// generateResetCode draws a 6-digit code uniformly from
// [100000, 999999] using crypto/rand.
func generateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
