package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordEncoder turns a raw password into its stored form
type PasswordEncoder interface {
	Encode(raw string) (string, error)
	Matches(raw, encoded string) bool
}

// PlainEncoder stores passwords exactly as given.
// TODO: switch the default to BcryptEncoder once clients authenticate against stored credentials.
type PlainEncoder struct{}

// Encode returns the raw password unchanged
func (PlainEncoder) Encode(raw string) (string, error) {
	return raw, nil
}

// Matches compares the raw password with the stored one
func (PlainEncoder) Matches(raw, encoded string) bool {
	return raw == encoded
}

// BcryptEncoder hashes passwords with bcrypt
type BcryptEncoder struct {
	Cost int
}

// Encode hashes the raw password
func (e BcryptEncoder) Encode(raw string) (string, error) {
	cost := e.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Matches reports whether raw hashes to encoded
func (e BcryptEncoder) Matches(raw, encoded string) bool {
	return bcrypt.CompareHashAndPassword([]byte(encoded), []byte(raw)) == nil
}

// NewPasswordEncoder returns the encoder registered under name ("plain" or "bcrypt")
func NewPasswordEncoder(name string) (PasswordEncoder, error) {
	switch name {
	case "", "plain":
		return PlainEncoder{}, nil
	case "bcrypt":
		return BcryptEncoder{}, nil
	default:
		return nil, fmt.Errorf("unknown password encoder: %s", name)
	}
}
