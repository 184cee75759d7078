package session

import (
	"fmt"
	"strings"

	"github.com/heartmarshall/solutions-manager/internal/domain"
)

// Credentials is an email + password pair entered on the auth screen.
type Credentials struct {
	Email    string
	Password string
}

// Validate checks the credentials. Sign-up additionally enforces the
// minimum password length.
func (c Credentials) Validate(signUp bool) error {
	var errs []domain.FieldError

	email := domain.NormalizeEmail(c.Email)
	switch {
	case email == "":
		errs = append(errs, domain.FieldError{Field: "email", Message: "required"})
	case !strings.Contains(email, "@"):
		errs = append(errs, domain.FieldError{Field: "email", Message: "invalid email"})
	}

	switch {
	case c.Password == "":
		errs = append(errs, domain.FieldError{Field: "password", Message: "required"})
	case signUp && len([]rune(c.Password)) < MinPasswordLength:
		errs = append(errs, domain.FieldError{
			Field:   "password",
			Message: fmt.Sprintf("must be at least %d characters", MinPasswordLength),
		})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
