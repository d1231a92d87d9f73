// Package pongo provides a views.Engine backed by pongo2, for view
// templates written in Django syntax.
//
// Templates see the same functions as views.TemplateEngine:
//
//	{{ get("title") }}      the encoded variable
//	{{ raw("title") }}      the variable as set; pongo2 autoescapes it
//	{{ set("k", "v") }}     stores a variable; prints nothing
//
// Every variable whose name is an identifier is also available by name:
// {{ title }} prints the encoded string. Sequences and mappings are
// exposed in their raw form and escaped by pongo2's autoescaping.
package pongo

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"path/filepath"
	"reflect"
	"regexp"
	"strings"

	"github.com/flosch/pongo2/v6"

	"github.com/DHowett/swiftlet/views"
)

var identifierRe = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// Option configures an Engine before construction.
type Option func(*Engine)

var (
	htmlType  = reflect.TypeOf(template.HTML(""))
	valueType = reflect.TypeOf((*pongo2.Value)(nil))
)

// WithFunctions exposes the provider's functions to every template.
// Results of type template.HTML are marked safe, as html/template would
// treat them.
func WithFunctions(provider views.FunctionProvider) Option {
	return func(e *Engine) {
		for name, fn := range provider.GetViewFunctions() {
			e.globals[strings.TrimSpace(name)] = safeResults(fn)
		}
	}
}

// safeResults wraps fn so that each template.HTML it returns reaches
// pongo2 as a safe value. Other functions are returned unchanged.
func safeResults(fn interface{}) interface{} {
	fv := reflect.ValueOf(fn)
	ft := fv.Type()
	if ft.Kind() != reflect.Func {
		return fn
	}

	in := make([]reflect.Type, ft.NumIn())
	for i := range in {
		in[i] = ft.In(i)
	}
	out := make([]reflect.Type, ft.NumOut())
	wrap := false
	for i := range out {
		out[i] = ft.Out(i)
		if out[i] == htmlType {
			out[i] = valueType
			wrap = true
		}
	}
	if !wrap {
		return fn
	}

	wt := reflect.FuncOf(in, out, ft.IsVariadic())
	return reflect.MakeFunc(wt, func(args []reflect.Value) []reflect.Value {
		var results []reflect.Value
		if ft.IsVariadic() {
			results = fv.CallSlice(args)
		} else {
			results = fv.Call(args)
		}
		for i, r := range results {
			if r.Type() == htmlType {
				results[i] = reflect.ValueOf(pongo2.AsSafeValue(r.String()))
			}
		}
		return results
	}).Interface()
}

// WithDebug disables the parsed-template cache.
func WithDebug(debug bool) Option {
	return func(e *Engine) {
		e.set.Debug = debug
	}
}

// Engine executes pongo2 template files.
type Engine struct {
	set     *pongo2.TemplateSet
	globals pongo2.Context
}

var _ views.Engine = (*Engine)(nil)

// New returns an Engine configured by options.
func New(options ...Option) (*Engine, error) {
	loader, err := pongo2.NewLocalFileSystemLoader("")
	if err != nil {
		return nil, fmt.Errorf("pongo: create loader: %w", err)
	}
	e := &Engine{
		set:     pongo2.NewSet("views", loader),
		globals: pongo2.Context{},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(e)
	}
	return e, nil
}

// Execute implements views.Engine.
func (e *Engine) Execute(w io.Writer, filename string, dp views.DataProvider) error {
	if e == nil || e.set == nil {
		return errors.New("pongo: engine is nil")
	}
	abs, err := filepath.Abs(filename)
	if err != nil {
		return err
	}

	tmpl, err := e.set.FromCache(abs)
	if err != nil {
		return fmt.Errorf("pongo: load template %q: %w", filename, err)
	}

	ctx := pongo2.Context{}
	ctx.Update(e.globals)
	for name := range dp.ViewValues(true) {
		// pongo2 rejects contexts with keys that are not identifiers;
		// such variables remain reachable through get and raw.
		if !identifierRe.MatchString(name) {
			continue
		}
		ctx[name] = contextValue(dp, name)
	}
	ctx["get"] = func(name string) *pongo2.Value {
		return contextValue(dp, name)
	}
	ctx["raw"] = func(name string) *pongo2.Value {
		return pongo2.AsValue(views.Native(dp.ViewValue(name, false)))
	}
	ctx["set"] = func(name string, value interface{}) string {
		dp.SetViewValue(name, views.ValueOf(value))
		return ""
	}

	return tmpl.ExecuteWriter(ctx, w)
}

// contextValue wraps an encoded string so that pongo2 does not escape it a
// second time. Containers are handed over in their raw form instead and
// their leaves are escaped by pongo2's autoescaping when printed.
func contextValue(dp views.DataProvider, name string) *pongo2.Value {
	switch tv := dp.ViewValue(name, true).(type) {
	case views.String:
		return pongo2.AsSafeValue(string(tv))
	case views.Sequence, *views.Mapping:
		return pongo2.AsValue(views.Native(dp.ViewValue(name, false)))
	case nil:
		return pongo2.AsValue(nil)
	default:
		return pongo2.AsValue(views.Native(tv))
	}
}
