package store

import (
	"gorm.io/gorm"
)

// Account is the canonical user record. The password column always
// holds a bcrypt digest, never the plaintext, and is excluded from
// JSON serialization.
type Account struct {
	gorm.Model
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Email          string `json:"email" gorm:"uniqueIndex;not null"`
	Password       string `json:"-" gorm:"not null"`
	EmailValidated bool   `json:"email_validated" gorm:"default:false"`
}

func (Account) TableName() string {
	return "accounts"
}
