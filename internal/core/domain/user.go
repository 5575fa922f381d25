package domain

import (
	"net/mail"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/lorrc/it-helpdesk/internal/core/errors"
)

// RoleITStaff is the privileged role permitted to triage, update, assign,
// archive and purge tickets.
const RoleITStaff = "it_staff"

// Password validation constants
const (
	MinPasswordLength = 8
	MaxPasswordLength = 128
	MaxFullNameLength = 255
	MaxEmailLength    = 255
)

type User struct {
	ID             uuid.UUID
	FullName       string
	Email          string
	HashedPassword string
	CreatedAt      time.Time
	IsActive       bool
}

// UserRegistrationParams holds parameters for user registration
type UserRegistrationParams struct {
	FullName string
	Email    string
	Password string
}

// Validate validates user registration parameters
func (p *UserRegistrationParams) Validate() error {
	errs := apperrors.NewValidationErrors()

	if p.FullName == "" {
		errs.Add("fullName", "Full name is required")
	} else if len(p.FullName) > MaxFullNameLength {
		errs.Add("fullName", "Full name must be 255 characters or less")
	}

	if p.Email == "" {
		errs.Add("email", "Email is required")
	} else if len(p.Email) > MaxEmailLength {
		errs.Add("email", "Email must be 255 characters or less")
	} else if !isValidEmail(p.Email) {
		errs.Add("email", "Invalid email format")
	}

	if passwordErrs := ValidatePassword(p.Password); len(passwordErrs) > 0 {
		for _, err := range passwordErrs {
			errs.Add("password", err)
		}
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}

// ValidatePassword checks if a password meets security requirements
// Returns a slice of error messages (empty if valid)
func ValidatePassword(password string) []string {
	var errors []string

	if len(password) < MinPasswordLength {
		errors = append(errors, "Password must be at least 8 characters long")
	}
	if len(password) > MaxPasswordLength {
		errors = append(errors, "Password must be 128 characters or less")
	}

	var (
		hasUpper  bool
		hasLower  bool
		hasNumber bool
	)

	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		}
	}

	if !hasUpper {
		errors = append(errors, "Password must contain at least one uppercase letter")
	}
	if !hasLower {
		errors = append(errors, "Password must contain at least one lowercase letter")
	}
	if !hasNumber {
		errors = append(errors, "Password must contain at least one number")
	}

	return errors
}

// isValidEmail validates email format
func isValidEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(password))
	return err == nil
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	if errs := ValidatePassword(password); len(errs) > 0 {
		return "", apperrors.ErrPasswordTooWeak
	}

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// NewUser creates a new user with validated parameters
func NewUser(params UserRegistrationParams) (*User, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	hashedPassword, err := HashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	return &User{
		ID:             uuid.New(),
		FullName:       params.FullName,
		Email:          params.Email,
		HashedPassword: hashedPassword,
		CreatedAt:      time.Now().UTC(),
		IsActive:       true,
	}, nil
}
