package service

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/lalith-99/flockr/internal/apperr"
	"github.com/lalith-99/flockr/internal/auth"
)

const (
	MaxNameLength        = 50
	MaxHandleLength      = 20
	MinHandleLength      = 3
	MinPasswordLength    = 6
	MaxChannelNameLength = 20
	MaxMessageLength     = 1000
)

var (
	validate = validator.New()

	// One optional '.' or '_' in the local part, then name@domain.tld.
	emailPattern = regexp.MustCompile(`^[a-z0-9]+[._]?[a-z0-9]+@\w+\.\w+$`)
)

// validateRegisterName accepts 1-50 ASCII letters.
func validateRegisterName(name string) error {
	if err := validate.Var(name, "required,alpha,max=50"); err != nil {
		return apperr.ErrInvalidName
	}
	return nil
}

// validateProfileName accepts any 1-50 characters.
func validateProfileName(name string) error {
	if err := validate.Var(name, "required,max=50"); err != nil {
		return apperr.ErrInvalidName
	}
	return nil
}

func validateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return apperr.ErrInvalidEmail
	}
	return nil
}

// validatePassword counts characters for the minimum and bytes for bcrypt's
// cap.
func validatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return apperr.ErrWeakPassword
	}
	if len(password) > auth.MaxPasswordLength {
		return apperr.ErrPasswordTooLong
	}
	return nil
}

func validateHandle(handle string) error {
	n := utf8.RuneCountInString(handle)
	if n < MinHandleLength || n > MaxHandleLength {
		return apperr.ErrInvalidHandle
	}
	return nil
}

func validateMessageBody(body string) error {
	if utf8.RuneCountInString(body) > MaxMessageLength {
		return apperr.ErrMessageTooLong
	}
	return nil
}

// generateHandle lowercases the first 20 characters of first. On collision it
// trims the base to make room for a numeric suffix and counts up from 0.
func generateHandle(first string, exists func(string) bool) string {
	base := strings.ToLower(truncate(first, MaxHandleLength))
	handle := base
	for i := 0; exists(handle); i++ {
		suffix := strconv.Itoa(i)
		handle = truncate(base, MaxHandleLength-len(suffix)) + suffix
	}
	return handle
}

func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
