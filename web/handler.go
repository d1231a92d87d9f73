package web

import (
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"

	"github.com/DHowett/swiftlet/views"
)

// DefaultModule and DefaultView name the view served at "/".
const (
	DefaultModule = "home"
	DefaultView   = "index"
)

// Routable is implemented by anything that can attach its routes to a
// router.
type Routable interface {
	BindRoutes(*mux.Router) error
}

// A Controller prepares a view for rendering. Returning an error aborts
// the render; a WebError chooses the response status.
type Controller func(v *views.View, r *http.Request) error

// Handler dispatches /{module}/{view} to the view of that name in that
// module, after running the module's controller (if any) against it.
//
// Every view gets the variables "module", "view" and "path", and "flash"
// when flash messages are pending.
type Handler struct {
	Model    *views.Model
	Renderer Renderer
	Sessions sessions.Store

	mu          sync.RWMutex
	controllers map[string]Controller
}

var _ Routable = (*Handler)(nil)

// Register installs the controller for module.
func (h *Handler) Register(module string, c Controller) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.controllers == nil {
		h.controllers = make(map[string]Controller)
	}
	h.controllers[module] = c
}

func (h *Handler) controller(module string) Controller {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.controllers[module]
}

func (h *Handler) serveView(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	module, name := vars["module"], vars["view"]
	if module == "" {
		module = DefaultModule
	}
	if name == "" {
		name = DefaultView
	}
	if strings.HasPrefix(name, "_") {
		// partials are not addressable
		h.Renderer.Error(w, r, &views.NotFoundError{Module: module, Name: name})
		return
	}

	v := h.Model.NewView(name).
		SetValue("module", module).
		SetValue("view", name).
		SetValue("path", r.URL.Path)

	if h.Sessions != nil {
		if flashes := takeFlashes(h.Sessions, w, r); len(flashes) > 0 {
			v.SetValue("flash", flashes)
		}
	}

	if c := h.controller(module); c != nil {
		if err := c(v, r); err != nil {
			h.Renderer.Error(w, r, err)
			return
		}
	}

	h.Renderer.Render(w, r, http.StatusOK, v, module)
}

// BindRoutes implements Routable.
func (h *Handler) BindRoutes(router *mux.Router) error {
	router.Path("/").
		Methods("GET", "HEAD", "POST").HandlerFunc(h.serveView)

	router.Path("/{module:[a-zA-Z0-9_-]+}").
		Methods("GET", "HEAD", "POST").HandlerFunc(h.serveView)

	router.Path("/{module:[a-zA-Z0-9_-]+}/{view:[a-zA-Z0-9_-]+}").
		Methods("GET", "HEAD", "POST").HandlerFunc(h.serveView)

	return nil
}

// NewHandler returns a Handler that renders through m. store may be nil,
// which disables flash messages.
func NewHandler(m *views.Model, r Renderer, store sessions.Store) *Handler {
	return &Handler{
		Model:       m,
		Renderer:    r,
		Sessions:    store,
		controllers: make(map[string]Controller),
	}
}
