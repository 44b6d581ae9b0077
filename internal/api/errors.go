package api

import (
	"errors"
	"net/http"

	"github.com/spacesedan/reviewpulse/internal/auth"
	"github.com/spacesedan/reviewpulse/internal/batch"
	"github.com/spacesedan/reviewpulse/internal/sentiment"
	"github.com/spacesedan/reviewpulse/internal/tabular"
)

var (
	ErrMissingFile  = errors.New("no file uploaded under field 'file'")
	ErrUnnamedFile  = errors.New("uploaded file has no name")
	ErrInvalidJSON  = errors.New("request body must be a JSON object")
	ErrUnauthorized = errors.New("login required")
)

// MapHTTPStatus maps domain errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, sentiment.ErrInvalidInput),
		errors.Is(err, batch.ErrColumnNotFound),
		errors.Is(err, batch.ErrNoTextColumn),
		errors.Is(err, tabular.ErrSourceUnreadable),
		errors.Is(err, ErrMissingFile),
		errors.Is(err, ErrUnnamedFile),
		errors.Is(err, ErrInvalidJSON),
		errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrUserExists):
		return http.StatusConflict
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}
