package views

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/glog"
)

const (
	DefaultVendorRoot = "vendor"
	DefaultExtension  = ".html"
	DefaultGenerator  = "Swiftlet"

	// GeneratorHeader is the response header naming the rendering engine.
	GeneratorHeader = "X-Generator"
)

// FuncMap is the type of the map providing template functions to all of
// a model's views.
type FuncMap template.FuncMap

// FunctionProvider is the interface that allows Model consumers to
// provide their own template functions.
type FunctionProvider interface {
	GetViewFunctions() FuncMap
}

// Engine executes a single template file with a view's variables
// available to it.
type Engine interface {
	Execute(w io.Writer, filename string, dp DataProvider) error
}

// Model holds the rendering configuration shared by every View attached
// to it. A Model is safe for concurrent use once constructed.
type Model struct {
	vendorRoot string
	extension  string
	generator  string
	engine     Engine

	// consumed while building the default engine
	funcs     FuncMap
	cacheSize int
	rebuild   bool
}

// New returns a Model configured by options. Unless EngineOption is
// given, templates are executed by a TemplateEngine.
func New(options ...ModelOption) (*Model, error) {
	m := &Model{
		vendorRoot: DefaultVendorRoot,
		extension:  DefaultExtension,
		generator:  DefaultGenerator,
		funcs:      make(FuncMap),
	}

	for _, opt := range options {
		if err := opt(m); err != nil {
			return nil, err
		}
	}

	if m.engine == nil {
		m.engine = NewTemplateEngine(m.funcs, m.cacheSize, m.rebuild)
	}
	return m, nil
}

// NewView returns an empty view named name attached to m.
func (m *Model) NewView(name string) *View {
	return NewView(name).SetModel(m)
}

// VendorRoot returns the directory module paths are resolved against.
func (m *Model) VendorRoot() string {
	return m.vendorRoot
}

// Extension returns the template file extension, including its dot.
func (m *Model) Extension() string {
	return m.extension
}

// Path returns the conventional location of the template for the view
// named name in the module at modulePath:
//
//	<vendor root>/<module path>/views/<name><extension>
func (m *Model) Path(modulePath, name string) string {
	return filepath.Join(m.vendorRoot, filepath.FromSlash(modulePath), "views", name+m.extension)
}

// contained reports whether path lies inside the vendor root.
func (m *Model) contained(path string) bool {
	rel, err := filepath.Rel(filepath.Clean(m.vendorRoot), path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func (m *Model) render(w io.Writer, modulePath string, v *View) error {
	path := m.Path(modulePath, v.Name)

	notFound := &NotFoundError{Module: modulePath, Name: v.Name, Path: path}
	if !m.contained(path) {
		return notFound
	}
	fi, err := os.Stat(path)
	if err != nil || !fi.Mode().IsRegular() {
		return notFound
	}

	if rw, ok := w.(http.ResponseWriter); ok && m.generator != "" {
		rw.Header().Set(GeneratorHeader, m.generator)
	}

	glog.V(1).Infof("views: rendering %s", path)

	buf := &bytes.Buffer{}
	if err := m.engine.Execute(buf, path, v); err != nil {
		return fmt.Errorf("views: execute %s: %w", path, err)
	}
	_, err = buf.WriteTo(w)
	return err
}
