// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/danielhkuo/pollwise/models"
)

var (
	ErrInvalidCredentials = errors.New("invalid login credentials")
	ErrUsernameLength     = fmt.Errorf("username must be between %d and %d characters", models.MinUsernameLength, models.MaxUsernameLength)
	ErrUsernameChars      = errors.New("username can only contain letters, numbers, hyphens, and underscores")
	ErrPasswordLength     = fmt.Errorf("password must be at least %d characters", models.MinPasswordLength)
	ErrPasswordClasses    = errors.New("password must contain at least one lowercase letter, one uppercase letter, and one number")
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

const (
	lowercase = "abcdefghijklmnopqrstuvwxyz"
	uppercase = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits    = "0123456789"
)

// HashPassword returns a bcrypt hash of password
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compares a bcrypt hash with a candidate password
func CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

func ValidateUsername(username string) error {
	n := len(username)
	if n < models.MinUsernameLength || n > models.MaxUsernameLength {
		return ErrUsernameLength
	}
	if !usernamePattern.MatchString(username) {
		return ErrUsernameChars
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < models.MinPasswordLength {
		return ErrPasswordLength
	}
	lower := strings.ContainsAny(password, lowercase)
	upper := strings.ContainsAny(password, uppercase)
	digit := strings.ContainsAny(password, digits)
	if !lower || !upper || !digit {
		return ErrPasswordClasses
	}
	return nil
}

// Strength scores a password 0-5: length >= 8, lowercase, uppercase,
// digit, and a character outside [A-Za-z0-9] each add one.
func Strength(password string) models.PasswordStrength {
	if password == "" {
		return models.PasswordStrength{}
	}

	checks := []bool{
		len(password) >= models.MinPasswordLength,
		strings.ContainsAny(password, lowercase),
		strings.ContainsAny(password, uppercase),
		strings.ContainsAny(password, digits),
		strings.IndexFunc(password, func(r rune) bool {
			return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9')
		}) >= 0,
	}

	score := 0
	for _, ok := range checks {
		if ok {
			score++
		}
	}

	label := "Strong"
	switch {
	case score < 2:
		label = "Weak"
	case score < 4:
		label = "Fair"
	case score < 5:
		label = "Good"
	}

	return models.PasswordStrength{Score: score, Label: label}
}
