package web

import (
	"errors"
	"net/http"
)

// WebError is an error that knows which HTTP status it should be
// reported with.
type WebError interface {
	Error() string
	StatusCode() int
}

type webError struct {
	e string
	s int
}

func (e webError) Error() string {
	return e.e
}

func (e webError) StatusCode() int {
	return e.s
}

// Error returns a WebError carrying status.
func Error(status int, message string) error {
	return webError{e: message, s: status}
}

// StatusCode returns the HTTP status err should be reported with:
// the status of the first WebError in its chain, or 500.
func StatusCode(err error) int {
	var we WebError
	if errors.As(err, &we) {
		return we.StatusCode()
	}
	return http.StatusInternalServerError
}
