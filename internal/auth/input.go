package auth

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/taskflow-app/taskflow/internal/db/models"
)

// LoginInput is the submitted login form.
type LoginInput struct {
	Email      string `validate:"required"`
	Password   string `validate:"required"`
	RememberMe bool
}

// SignupInput is the submitted signup form.
// Name is checked by the length rule instead of the presence check.
type SignupInput struct {
	Email           string `validate:"required"`
	Name            string
	Password        string `validate:"required"`
	ConfirmPassword string `validate:"required"`
	AutoLogin       bool
}

var validate = validator.New() //nolint:gochecknoglobals

// validator counts string lengths in runes.
var (
	nameRule     = fmt.Sprintf("min=%d,max=%d", MinNameLength, MaxNameLength) //nolint:gochecknoglobals
	passwordRule = fmt.Sprintf("min=%d", MinPasswordLength)                  //nolint:gochecknoglobals
)

// normalize returns a copy with the email normalized.
func (in LoginInput) normalize() LoginInput {
	in.Email = models.NormalizeEmail(in.Email)
	return in
}

func (in SignupInput) normalize() SignupInput {
	in.Email = models.NormalizeEmail(in.Email)
	return in
}

// checkPresence maps any failed required tag to ErrMissingCredentials.
func checkPresence(in any) error {
	if err := validate.Struct(in); err != nil {
		return ErrMissingCredentials
	}

	return nil
}

// checkSignupRules applies the name, password strength and confirmation rules in order.
// The first failing rule decides the rejection.
func checkSignupRules(in SignupInput) error {
	if err := validate.Var(in.Name, nameRule); err != nil {
		return ErrInvalidName
	}

	if err := validate.Var(in.Password, passwordRule); err != nil {
		return ErrWeakPassword
	}

	if err := validate.VarWithValue(in.ConfirmPassword, in.Password, "eqcsfield"); err != nil {
		return ErrPasswordMismatch
	}

	return nil
}
