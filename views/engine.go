package views

import (
	"errors"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/golang/groupcache/lru"
)

// TemplateEngine executes html/template files. Three functions are
// available to every template:
//
//	get "name"
//		The HTML-encoded form of a view variable.
//	raw "name"
//		The variable as it was set. html/template still escapes it for
//		the context it is printed in.
//	set "name" value
//		Stores a view variable; prints nothing.
//
// The template's dot is a map of every variable in its encoded form, so
// {{.title}} is equivalent to {{get "title"}}.
//
// Parsed templates are cached until their file's modification time
// changes. Rendered output is never cached.
type TemplateEngine struct {
	mu    sync.Mutex
	funcs template.FuncMap
	cache *lru.Cache
}

type parsedTemplate struct {
	tmpl    *template.Template
	modTime time.Time
}

// NewTemplateEngine returns an engine that makes funcs available to every
// template. cacheSize bounds the number of parsed templates kept (zero
// means no limit); rebuild disables the cache entirely.
func NewTemplateEngine(funcs FuncMap, cacheSize int, rebuild bool) *TemplateEngine {
	e := &TemplateEngine{
		funcs: template.FuncMap{
			// all rebound functions must be defined here,
			// otherwise the parse will fail.
			"get": func(string) interface{} {
				panic(errors.New("unbound use of get"))
			},
			"raw": func(string) interface{} {
				panic(errors.New("unbound use of raw"))
			},
			"set": func(string, interface{}) string {
				panic(errors.New("unbound use of set"))
			},
		},
	}
	for name, fn := range funcs {
		e.funcs[name] = fn
	}
	if !rebuild {
		e.cache = lru.New(cacheSize)
	}
	return e
}

// Execute implements Engine.
func (e *TemplateEngine) Execute(w io.Writer, filename string, dp DataProvider) error {
	root, err := e.lookup(filename)
	if err != nil {
		return err
	}

	// The cached template is never executed itself; html/template refuses
	// to clone a template after execution.
	tmpl, err := root.Clone()
	if err != nil {
		return err
	}
	tmpl.Funcs(template.FuncMap{
		"get": func(name string) interface{} {
			return templateValue(dp.ViewValue(name, true), true)
		},
		"raw": func(name string) interface{} {
			return templateValue(dp.ViewValue(name, false), false)
		},
		"set": func(name string, value interface{}) string {
			dp.SetViewValue(name, ValueOf(value))
			return ""
		},
	})

	dot := make(map[string]interface{})
	for name, v := range dp.ViewValues(true) {
		dot[name] = templateValue(v, true)
	}
	return tmpl.Execute(w, dot)
}

func (e *TemplateEngine) lookup(filename string) (*template.Template, error) {
	fi, err := os.Stat(filename)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cache != nil {
		if cached, ok := e.cache.Get(filename); ok {
			pt := cached.(*parsedTemplate)
			if pt.modTime.Equal(fi.ModTime()) {
				return pt.tmpl, nil
			}
			glog.V(1).Infof("views: %s changed on disk; reparsing", filename)
		}
	}

	tmpl, err := template.New(filepath.Base(filename)).Funcs(e.funcs).ParseFiles(filename)
	if err != nil {
		return nil, err
	}

	if e.cache != nil {
		e.cache.Add(filename, &parsedTemplate{tmpl: tmpl, modTime: fi.ModTime()})
	}
	return tmpl, nil
}

// Len returns the number of cached templates.
func (e *TemplateEngine) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cache == nil {
		return 0
	}
	return e.cache.Len()
}

// templateValue converts v for html/template. Encoded strings are marked
// as trusted HTML so that they are not escaped a second time.
func templateValue(v Value, encoded bool) interface{} {
	switch tv := v.(type) {
	case String:
		if encoded {
			return template.HTML(tv)
		}
		return string(tv)
	case Sequence:
		out := make([]interface{}, len(tv))
		for i, e := range tv {
			out[i] = templateValue(e, encoded)
		}
		return out
	case *Mapping:
		out := make(map[string]interface{}, tv.Len())
		tv.Each(func(k string, e Value) {
			out[k] = templateValue(e, encoded)
		})
		return out
	}
	return Native(v)
}
