package store

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type GormAccountStore struct {
	db *gorm.DB
}

func NewGormAccountStore(db *gorm.DB) *GormAccountStore {
	return &GormAccountStore{db: db}
}

func (s *GormAccountStore) FindByEmail(email string) (*Account, error) {
	var account Account
	if err := s.db.Where("email = ?", email).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to find account by email: %w", err)
	}
	return &account, nil
}

func (s *GormAccountStore) FindByID(id uint) (*Account, error) {
	var account Account
	if err := s.db.First(&account, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to find account by id: %w", err)
	}
	return &account, nil
}

func (s *GormAccountStore) Create(account *Account) error {
	if err := s.db.Create(account).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

func (s *GormAccountStore) MarkEmailValidated(email string) (*Account, error) {
	account, err := s.FindByEmail(email)
	if err != nil {
		return nil, err
	}

	// Idempotent: re-validating an already validated account is a no-op.
	if account.EmailValidated {
		return account, nil
	}

	if err := s.db.Model(account).Update("email_validated", true).Error; err != nil {
		return nil, fmt.Errorf("failed to mark email as validated: %w", err)
	}
	account.EmailValidated = true
	return account, nil
}

func (s *GormAccountStore) UpdatePassword(accountID uint, newHash string) error {
	result := s.db.Model(&Account{}).Where("id = ?", accountID).Update("password", newHash)
	if result.Error != nil {
		return fmt.Errorf("failed to update password: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrAccountNotFound
	}
	return nil
}

type GormResetCodeStore struct {
	db *gorm.DB
}

func NewGormResetCodeStore(db *gorm.DB) *GormResetCodeStore {
	return &GormResetCodeStore{db: db}
}

func (s *GormResetCodeStore) Save(accountID uint, codeHash string, expiresAt time.Time) error {
	code := ResetCode{
		AccountID: accountID,
		CodeHash:  codeHash,
		ExpiresAt: expiresAt,
	}
	if err := s.db.Create(&code).Error; err != nil {
		return fmt.Errorf("failed to save reset code: %w", err)
	}
	return nil
}

func (s *GormResetCodeStore) LatestValid(accountID uint) (*ResetCode, error) {
	var code ResetCode
	err := s.db.
		Where("account_id = ? AND expires_at > ? AND used = ?", accountID, time.Now(), false).
		Order("expires_at DESC").
		First(&code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoValidCode
		}
		return nil, fmt.Errorf("failed to look up reset code: %w", err)
	}
	return &code, nil
}

func (s *GormResetCodeStore) MarkUsed(codeID uint) error {
	now := time.Now()
	result := s.db.Model(&ResetCode{}).
		Where("id = ? AND used = ?", codeID, false).
		Updates(map[string]any{"used": true, "used_at": &now})
	if result.Error != nil {
		return fmt.Errorf("failed to mark reset code as used: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCodeAlreadyUsed
	}
	return nil
}
