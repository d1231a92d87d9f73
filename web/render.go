package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/golang/glog"

	"github.com/DHowett/swiftlet/views"
)

// Renderer writes views and errors to HTTP responses.
type Renderer interface {
	Error(w http.ResponseWriter, r *http.Request, err error)
	Render(w http.ResponseWriter, r *http.Request, status int, v *views.View, modulePath string)
}

// ViewRenderer renders through a views.Model. Errors are reported by
// rendering the view named after their status code (e.g. "404") in
// ErrorModule, falling back to plain text when no such view exists.
type ViewRenderer struct {
	Model       *views.Model
	ErrorModule string
}

var _ Renderer = (*ViewRenderer)(nil)

// statusWriter delays WriteHeader until the first body write, so that
// nothing reaches the client when a render fails.
type statusWriter struct {
	http.ResponseWriter
	status  int
	written bool
}

func (w *statusWriter) Write(p []byte) (int, error) {
	if !w.written {
		w.written = true
		if w.Header().Get("Content-Type") == "" {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
		}
		w.ResponseWriter.WriteHeader(w.status)
	}
	return w.ResponseWriter.Write(p)
}

// Render renders v with the given status. Failures are passed to Error.
func (vr *ViewRenderer) Render(w http.ResponseWriter, r *http.Request, status int, v *views.View, modulePath string) {
	sw := &statusWriter{ResponseWriter: w, status: status}
	if _, err := v.Render(sw, modulePath); err != nil {
		if sw.written {
			glog.Errorf("web: %s %s: writing response: %v", r.Method, r.URL.Path, err)
			return
		}
		vr.Error(w, r, err)
		return
	}
	if !sw.written {
		// empty template
		w.WriteHeader(status)
	}
}

// Error reports err, rendering an error view when one exists.
func (vr *ViewRenderer) Error(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusCode(err)
	if status >= 500 {
		glog.Errorf("web: %s %s: %v", r.Method, r.URL.Path, err)
	} else {
		glog.V(1).Infof("web: %s %s: %v", r.Method, r.URL.Path, err)
	}

	if vr.ErrorModule != "" && vr.Model != nil {
		v := vr.Model.NewView(strconv.Itoa(status)).
			SetValue("status", status).
			SetValue("status_text", http.StatusText(status)).
			SetValue("path", r.URL.Path)
		if status < 500 {
			v.SetValue("error", err.Error())
		}

		sw := &statusWriter{ResponseWriter: w, status: status}
		_, rerr := v.Render(sw, vr.ErrorModule)
		if rerr == nil {
			if !sw.written {
				w.WriteHeader(status)
			}
			return
		}
		if sw.written {
			return
		}
		if !errors.Is(rerr, views.ErrViewNotFound) {
			glog.Errorf("web: rendering error view for %d: %v", status, rerr)
		}
	}

	w.Header().Del(views.GeneratorHeader)
	http.Error(w, http.StatusText(status), status)
}
