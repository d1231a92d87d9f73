// Package four provides an http.Handler that intercepts the bare "404 page
// not found" responses produced by net/http (http.NotFound, http.FileServer,
// an unmatched mux route) and replaces them with a rendered page.
package four

import (
	"net/http"
	"strings"
)

// interceptWriter swallows a plain-text 404 so that it can be replaced.
// Any other response passes straight through.
type interceptWriter struct {
	http.ResponseWriter
	status  int
	tripped bool
}

func (w *interceptWriter) WriteHeader(status int) {
	w.status = status
	if status == http.StatusNotFound && strings.HasPrefix(w.Header().Get("Content-Type"), "text/plain") {
		w.tripped = true
		return
	}
	w.ResponseWriter.WriteHeader(status)
}

func (w *interceptWriter) Write(p []byte) (int, error) {
	if w.tripped {
		return len(p), nil
	}
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(p)
}

type notFoundHandler struct {
	http.Handler
	notFound http.Handler
}

func (h *notFoundHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	iw := &interceptWriter{ResponseWriter: w}
	h.Handler.ServeHTTP(iw, r)
	if iw.tripped {
		// http.Error sets these; they do not describe the replacement.
		w.Header().Del("Content-Type")
		w.Header().Del("X-Content-Type-Options")
		h.notFound.ServeHTTP(w, r)
	}
}

// WrapHandler returns a new http.Handler that invokes notFound when orig
// would have rendered a plain-text 404.
func WrapHandler(orig http.Handler, notFound http.Handler) http.Handler {
	return &notFoundHandler{orig, notFound}
}
