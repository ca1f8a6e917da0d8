package identity

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/foodgram/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Password cost for bcrypt
const bcryptCost = 12

const (
	maxUsernameLength = 150
	maxNameLength     = 150
	maxEmailLength    = 254
	minPasswordLength = 8
	maxPasswordLength = 128
)

// ReservedUsername collides with the /users/me route and can never be registered
const ReservedUsername = "me"

var (
	usernameRegex = regexp.MustCompile(`^[\p{L}\p{N}_.@+\-]+$`)
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	digitsOnly    = regexp.MustCompile(`^[0-9]+$`)
)

// User represents a registered account.
// It is the aggregate root for user-related operations
type User struct {
	shared.BaseEntity
	Email        string
	Username     string
	FirstName    string
	LastName     string
	PasswordHash string
	IsAdmin      bool
	LastLoginAt  *time.Time
}

// Profile holds the fields a user supplies at registration
type Profile struct {
	Email     string
	Username  string
	FirstName string
	LastName  string
}

// NewUser creates a new user with a hashed password
func NewUser(profile Profile, password string) (*User, error) {
	email := strings.ToLower(strings.TrimSpace(profile.Email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	username := strings.TrimSpace(profile.Username)
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	firstName, err := validateName("First name", profile.FirstName)
	if err != nil {
		return nil, err
	}
	lastName, err := validateName("Last name", profile.LastName)
	if err != nil {
		return nil, err
	}

	user := &User{
		BaseEntity: shared.NewBaseEntity(),
		Email:      email,
		Username:   username,
		FirstName:  firstName,
		LastName:   lastName,
	}
	if err := user.SetPassword(password); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword changes the user's password
func (u *User) ChangePassword(currentPassword, newPassword string) error {
	if !u.VerifyPassword(currentPassword) {
		return shared.NewValidationError("Current password is incorrect")
	}
	return u.SetPassword(newPassword)
}

// SetPassword sets a new password without checking the old one
func (u *User) SetPassword(newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	passwordHash, err := hashPassword(newPassword)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	u.PasswordHash = passwordHash
	u.Touch()
	return nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// RecordLogin records a successful login
func (u *User) RecordLogin() {
	now := time.Now().UTC()
	u.LastLoginAt = &now
}

// Actor returns the caller identity this user acts as
func (u *User) Actor() shared.Actor {
	return shared.NewActor(u.ID, u.IsAdmin)
}

// Validation functions

func validateUsername(username string) error {
	if username == "" {
		return shared.NewValidationError("Username cannot be empty")
	}
	if utf8.RuneCountInString(username) > maxUsernameLength {
		return shared.NewValidationError("Username cannot exceed %d characters", maxUsernameLength)
	}
	if strings.EqualFold(username, ReservedUsername) {
		return shared.NewValidationError("Username %q is reserved", ReservedUsername)
	}
	if !usernameRegex.MatchString(username) {
		return shared.NewValidationError("Username can only contain letters, digits and @/./+/-/_")
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return shared.NewValidationError("Email cannot be empty")
	}
	if len(email) > maxEmailLength {
		return shared.NewValidationError("Email cannot exceed %d characters", maxEmailLength)
	}
	if !emailRegex.MatchString(email) {
		return shared.NewValidationError("Invalid email format")
	}
	return nil
}

func validateName(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", shared.NewValidationError("%s cannot be empty", field)
	}
	if utf8.RuneCountInString(value) > maxNameLength {
		return "", shared.NewValidationError("%s cannot exceed %d characters", field, maxNameLength)
	}
	return value, nil
}

func validatePassword(password string) error {
	if password == "" {
		return shared.NewValidationError("Password cannot be empty")
	}
	if len(password) < minPasswordLength {
		return shared.NewValidationError("Password must be at least %d characters", minPasswordLength)
	}
	if len(password) > maxPasswordLength {
		return shared.NewValidationError("Password cannot exceed %d characters", maxPasswordLength)
	}
	if digitsOnly.MatchString(password) {
		return shared.NewValidationError("Password cannot be entirely numeric")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
