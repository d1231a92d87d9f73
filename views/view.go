package views

import (
	"bytes"
	"io"
	"sort"
)

type entry struct {
	safe   Value
	unsafe Value
}

// View represents a named template together with the variables it will
// be rendered with. Each variable is kept twice: as set, and HTML-encoded.
//
// A View is request-scoped and is not safe for concurrent use.
type View struct {
	// Name selects the template file; see Model.Path.
	Name string

	m    *Model
	vars map[string]entry
}

// NewView returns an empty view named name that is not yet attached to a
// Model.
func NewView(name string) *View {
	return &View{
		Name: name,
		vars: make(map[string]entry),
	}
}

// SetModel attaches the view to the model that will render it.
func (v *View) SetModel(m *Model) *View {
	v.m = m
	return v
}

// Model returns the model the view is attached to, if any.
func (v *View) Model() *Model {
	return v.m
}

// Set stores value under name, alongside its HTML-encoded form. The
// encoded form is computed once, here; later changes made directly to a
// container inside value are not reflected in it. A nil value is stored
// as Null{}, which is what Get then returns.
func (v *View) Set(name string, value Value) *View {
	if value == nil {
		value = Null{}
	}
	if v.vars == nil {
		v.vars = make(map[string]entry)
	}
	v.vars[name] = entry{
		safe:   Encode(value),
		unsafe: value,
	}
	return v
}

// SetValue converts a native Go value with ValueOf and stores it.
func (v *View) SetValue(name string, value interface{}) *View {
	return v.Set(name, ValueOf(value))
}

// Get returns the variable stored under name: HTML-encoded when
// htmlEncode is set, otherwise exactly as it was passed to Set. Get
// returns nil for a variable that was never set.
func (v *View) Get(name string, htmlEncode bool) Value {
	e, ok := v.vars[name]
	if !ok {
		return nil
	}
	if htmlEncode {
		return e.safe
	}
	return e.unsafe
}

// Var is shorthand for Get(name, true).
func (v *View) Var(name string) Value {
	return v.Get(name, true)
}

// Has reports whether name has been set.
func (v *View) Has(name string) bool {
	_, ok := v.vars[name]
	return ok
}

// Names returns the names of all set variables, sorted.
func (v *View) Names() []string {
	names := make([]string, 0, len(v.vars))
	for name := range v.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ViewValue implements DataProvider.
func (v *View) ViewValue(name string, htmlEncode bool) Value {
	return v.Get(name, htmlEncode)
}

// SetViewValue implements DataProvider.
func (v *View) SetViewValue(name string, value Value) {
	v.Set(name, value)
}

// ViewValues implements DataProvider.
func (v *View) ViewValues(htmlEncode bool) map[string]Value {
	out := make(map[string]Value, len(v.vars))
	for name := range v.vars {
		out[name] = v.Get(name, htmlEncode)
	}
	return out
}

// Render executes the template at Model.Path(modulePath, v.Name) and
// writes its output to w. Output is written only if the template executed
// successfully. When w is an http.ResponseWriter the model's generator
// header is set before execution.
//
// Render returns a *NotFoundError (matching ErrViewNotFound) when there is
// no template file at that path.
func (v *View) Render(w io.Writer, modulePath string) (*View, error) {
	if v.m == nil {
		return nil, ErrNoModel
	}
	if err := v.m.render(w, modulePath, v); err != nil {
		return nil, err
	}
	return v, nil
}

// RenderBytes is like Render but returns the rendered output.
func (v *View) RenderBytes(modulePath string) ([]byte, error) {
	buf := &bytes.Buffer{}
	if _, err := v.Render(buf, modulePath); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
