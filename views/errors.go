package views

import (
	"errors"
	"net/http"
)

var (
	// ErrViewNotFound is matched (via errors.Is) by every NotFoundError.
	ErrViewNotFound = errors.New("view not found")

	// ErrNoModel is returned when rendering a View that was never attached
	// to a Model.
	ErrNoModel = errors.New("view has no model")
)

// NotFoundError is returned by Render when no template file exists at the
// conventional path for a view.
type NotFoundError struct {
	Module string
	Name   string
	Path   string
}

func (e *NotFoundError) Error() string {
	return "view " + e.Name + " not found in module " + e.Module + " (" + e.Path + ")"
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrViewNotFound
}

// StatusCode lets web handlers translate a missing view into a 404.
func (e *NotFoundError) StatusCode() int {
	return http.StatusNotFound
}
