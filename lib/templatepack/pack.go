package templatepack

import (
	"fmt"
	"html/template"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/russross/blackfriday"

	"github.com/DHowett/swiftlet/views"
)

const markdownExtensions = blackfriday.EXTENSION_NO_INTRA_EMPHASIS |
	blackfriday.EXTENSION_TABLES |
	blackfriday.EXTENSION_AUTOLINK |
	blackfriday.EXTENSION_FENCED_CODE |
	blackfriday.EXTENSION_HEADER_IDS |
	blackfriday.EXTENSION_LAX_HTML_BLOCKS

// A Pack represents a set of template functions.
type Pack struct {
	mu    sync.RWMutex
	funcs views.FuncMap

	policy   *bluemonday.Policy
	markdown blackfriday.Renderer
}

var _ views.FunctionProvider = (*Pack)(nil)

// AddFunction adds or replaces a function in the pack.
func (p *Pack) AddFunction(name string, function interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.funcs[name] = function
}

// GetViewFunctions implements views.FunctionProvider.
func (p *Pack) GetViewFunctions() views.FuncMap {
	p.mu.RLock()
	defer p.mu.RUnlock()
	funcs := make(views.FuncMap, len(p.funcs))
	for name, fn := range p.funcs {
		funcs[name] = fn
	}
	return funcs
}

// Markdown renders src as Markdown, sanitized by the pack's policy.
func (p *Pack) Markdown(src string) template.HTML {
	md := blackfriday.Markdown([]byte(src), p.markdown, markdownExtensions)
	return template.HTML(p.policy.SanitizeBytes(md))
}

// Sanitize strips s of anything the pack's policy does not allow.
func (p *Pack) Sanitize(s string) template.HTML {
	return template.HTML(p.policy.Sanitize(s))
}

// New returns a pack holding the predefined functions.
func New() *Pack {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").OnElements("div", "i", "span", "code")

	pack := &Pack{
		funcs:  make(views.FuncMap),
		policy: policy,
		markdown: blackfriday.HtmlRenderer(blackfriday.HTML_SAFELINK|
			blackfriday.HTML_NOFOLLOW_LINKS, "", ""),
	}

	pack.AddFunction("equal", func(t1, t2 string) bool { return t1 == t2 })

	pack.AddFunction("now", func() time.Time {
		return time.Now()
	})

	pack.AddFunction("markdown", pack.Markdown)
	pack.AddFunction("sanitize", pack.Sanitize)
	pack.AddFunction("decode", func(s interface{}) string {
		return views.DecodeString(fmt.Sprint(s))
	})

	return pack
}
