// Package validate holds the pure form validators shared by every page
// flow: email shape, the two password policies, phone normalization,
// name character sets, and OTP codes. All functions are stateless and
// perform no I/O; they gate requests before anything reaches the network.
package validate

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	// ErrEmailFormat is returned when an address does not match the
	// front end's email shape check.
	ErrEmailFormat = errors.New("invalid email format")
	// ErrEmpty is returned for required fields left blank.
	ErrEmpty = errors.New("value is required")
	// ErrNameLength is returned when a name exceeds 45 characters.
	ErrNameLength = errors.New("name exceeds 45 characters")
	// ErrNameCharset is returned when a name contains anything beyond
	// letters (including accented Spanish letters) and spaces.
	ErrNameCharset = errors.New("name contains invalid characters")
	// ErrPasswordLength is returned when a password is not exactly 10
	// characters long.
	ErrPasswordLength = errors.New("password must be exactly 10 characters")
	// ErrPasswordUpper, ErrPasswordLower and ErrPasswordDigit report the
	// missing character class of a candidate password.
	ErrPasswordUpper = errors.New("password needs an uppercase letter")
	ErrPasswordLower = errors.New("password needs a lowercase letter")
	ErrPasswordDigit = errors.New("password needs a digit")
	// ErrPasswordSymbols is returned by the recovery policy only: reset
	// passwords must be strictly alphanumeric.
	ErrPasswordSymbols = errors.New("password must not contain symbols")
	// ErrLoginPasswordLength is the pre-submission login hint: between 6
	// and 10 characters.
	ErrLoginPasswordLength = errors.New("password must be between 6 and 10 characters")
	// ErrOTPFormat is returned when an OTP code is not exactly 6 digits.
	ErrOTPFormat = errors.New("code must be exactly 6 digits")
	// ErrPhoneFormat is returned when a phone number cannot be
	// normalized to +52 followed by 10 digits.
	ErrPhoneFormat = errors.New("invalid phone number format")
)

var (
	emailRe   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	nameRe    = regexp.MustCompile(`^[a-zA-ZáéíóúÁÉÍÓÚñÑüÜ\s]+$`)
	otpRe     = regexp.MustCompile(`^\d{6}$`)
	upperRe   = regexp.MustCompile(`[A-Z]`)
	lowerRe   = regexp.MustCompile(`[a-z]`)
	digitRe   = regexp.MustCompile(`\d`)
	alnumRe   = regexp.MustCompile(`^[a-zA-Z\d]+$`)
	nonDigits = regexp.MustCompile(`\D`)
)

// Email checks the address against the front end's shape regex. The
// check is deliberately loose (no RFC parsing); the backend is the
// authority on deliverability.
func Email(s string) error {
	if !emailRe.MatchString(strings.TrimSpace(s)) {
		return ErrEmailFormat
	}
	return nil
}

// Name validates a first or last name: non-empty, at most 45
// characters, letters (Spanish accents included) and spaces only.
func Name(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return ErrEmpty
	}
	if utf8.RuneCountInString(s) > 45 {
		return ErrNameLength
	}
	if !nameRe.MatchString(s) {
		return ErrNameCharset
	}
	return nil
}

// RegistrationPassword enforces the registration policy: exactly 10
// characters with at least one uppercase letter, one lowercase letter,
// and one digit. Symbols are permitted.
func RegistrationPassword(s string) error {
	if s == "" {
		return ErrEmpty
	}
	if utf8.RuneCountInString(s) != 10 {
		return ErrPasswordLength
	}
	return passwordClasses(s)
}

// RecoveryPassword enforces the reset policy, which is stricter than
// registration: exactly 10 characters, at least one uppercase letter,
// one lowercase letter and one digit, and no symbols at all. The
// asymmetry with RegistrationPassword is inherited from the backend
// contract and must not be unified here.
func RecoveryPassword(s string) error {
	if s == "" {
		return ErrEmpty
	}
	if utf8.RuneCountInString(s) != 10 {
		return ErrPasswordLength
	}
	if !alnumRe.MatchString(s) {
		return ErrPasswordSymbols
	}
	return passwordClasses(s)
}

func passwordClasses(s string) error {
	if !upperRe.MatchString(s) {
		return ErrPasswordUpper
	}
	if !lowerRe.MatchString(s) {
		return ErrPasswordLower
	}
	if !digitRe.MatchString(s) {
		return ErrPasswordDigit
	}
	return nil
}

// LoginPassword is the pre-submission login hint only; the server
// remains the authority on the stored credential.
func LoginPassword(s string) error {
	if n := utf8.RuneCountInString(s); n < 6 || n > 10 {
		return ErrLoginPasswordLength
	}
	return nil
}

// OTPCode checks that a one-time code is exactly six digits.
func OTPCode(s string) error {
	if !otpRe.MatchString(strings.TrimSpace(s)) {
		return ErrOTPFormat
	}
	return nil
}

// NormalizePhone converts a raw phone input into E.164 form with the
// Mexican country code:
//
//	"5512345678"    -> "+525512345678"
//	"525512345678"  -> "+525512345678"
//	"+525512345678" -> unchanged
//
// Anything else is rejected.
func NormalizePhone(raw string) (string, error) {
	cleaned := nonDigits.ReplaceAllString(raw, "")

	switch {
	case len(cleaned) == 10:
		return "+52" + cleaned, nil
	case len(cleaned) == 12 && strings.HasPrefix(cleaned, "52"):
		return "+" + cleaned, nil
	default:
		return "", ErrPhoneFormat
	}
}
