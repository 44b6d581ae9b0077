// Package auth stores user credentials for the HTML front end.
package auth

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserExists         = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("username and password are required")
)

type CredentialStore interface {
	CreateUser(ctx context.Context, username, password string) error
	// ValidateUser reports whether the pair matches a stored user. Unknown
	// users and wrong passwords both return false with a nil error.
	ValidateUser(ctx context.Context, username, password string) (bool, error)
	Close() error
}

func normalize(username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", ErrInvalidCredentials
	}
	return username, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func passwordMatches(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
