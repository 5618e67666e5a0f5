package models

import (
	"errors"
	"net/http"
	"strings"
)

var (
	// ErrInvalidInput is malformed input: empty period data, duplicate period ends or a blank symbol
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is an unknown ticker symbol at the statement source
	ErrNotFound = errors.New("not found")
	// ErrUnavailable is an upstream fetch failure, timeouts included
	ErrUnavailable = errors.New("unavailable")
)

// StatusCode maps an error kind to the http status returned to the caller
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// UserMessage is the text shown to the user for a failed analysis
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return capitalize(detail(err, ErrNotFound))
	case errors.Is(err, ErrInvalidInput):
		return capitalize(detail(err, ErrInvalidInput))
	case errors.Is(err, ErrUnavailable):
		return "The market data provider could not be reached, please try again in a moment."
	default:
		return "Something went wrong while analyzing this symbol."
	}
}

// detail drops everything up to and including the "<kind>: " prefix of the message
func detail(err error, kind error) string {
	msg := err.Error()
	prefix := kind.Error() + ": "
	if i := strings.Index(msg, prefix); i >= 0 && i+len(prefix) < len(msg) {
		return msg[i+len(prefix):]
	}
	return msg
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
