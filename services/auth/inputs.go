package auth

import (
	"net/mail"
	"strings"
)

// RegisterInput is the typed registration payload. Fields are
// validated once here, at the boundary, instead of being plucked out
// of a loose map downstream.
type RegisterInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

func (in *RegisterInput) Validate() error {
	if strings.TrimSpace(in.FirstName) == "" {
		return validationErrorf("first name is required")
	}
	if strings.TrimSpace(in.LastName) == "" {
		return validationErrorf("last name is required")
	}
	if err := validateEmailFormat(in.Email); err != nil {
		return err
	}
	if in.Password == "" {
		return validationErrorf("password is required")
	}
	return nil
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in *LoginInput) Validate() error {
	if strings.TrimSpace(in.Email) == "" {
		return validationErrorf("email is required")
	}
	if in.Password == "" {
		return validationErrorf("password is required")
	}
	return nil
}

func validateEmailFormat(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return validationErrorf("email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return validationErrorf("invalid email format")
	}
	return nil
}
