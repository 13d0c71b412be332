package store

import (
	"time"

	"gorm.io/gorm"
)

// ResetCode is a hashed one-time password reset code bound to an
// account. A code is valid while expires_at is in the future and used
// is false; multiple codes may be outstanding per account but only the
// most recent valid one is honoured.
type ResetCode struct {
	gorm.Model
	AccountID uint       `json:"account_id" gorm:"index;not null"`
	CodeHash  string     `json:"-" gorm:"not null"`
	ExpiresAt time.Time  `json:"expires_at" gorm:"not null"`
	Used      bool       `json:"used" gorm:"default:false"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
}

func (ResetCode) TableName() string {
	return "reset_codes"
}
