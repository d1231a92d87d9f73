package web

import (
	"errors"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/DHowett/swiftlet/views"
)

func writeView(t *testing.T, root, module, name, body string) {
	t.Helper()
	path := filepath.Join(root, module, "views", name+".html")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
}

func newTestRouter(t *testing.T, setup func(root string, h *Handler)) *mux.Router {
	t.Helper()

	root := t.TempDir()
	m, err := views.New(views.VendorRootOption(root))
	if err != nil {
		t.Fatal(err)
	}
	store, err := NewCookieStore("", time.Hour, false)
	if err != nil {
		t.Fatal(err)
	}

	h := NewHandler(m, &ViewRenderer{Model: m, ErrorModule: "errors"}, store)
	setup(root, h)

	router := mux.NewRouter()
	if err := h.BindRoutes(router); err != nil {
		t.Fatal(err)
	}
	return router
}

func get(t *testing.T, h http.Handler, path string, cookies ...*http.Cookie) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	resp := rr.Result()
	body, _ := ioutil.ReadAll(resp.Body)
	return resp, string(body)
}

func TestHandler(t *testing.T) {
	router := newTestRouter(t, func(root string, h *Handler) {
		writeView(t, root, "home", "index", `home {{.module}}/{{.view}}`)
		writeView(t, root, "blog", "index", `blog index`)
		writeView(t, root, "blog", "post", `<h1>{{.title}}</h1>`)
		writeView(t, root, "blog", "_partial", `hidden`)
		writeView(t, root, "errors", "404", `missing {{.path}}`)
		writeView(t, root, "broken", "index", `{{template "nope"}}`)

		h.Register("blog", func(v *views.View, r *http.Request) error {
			if r.URL.Query().Get("deny") != "" {
				return Error(http.StatusForbidden, "denied")
			}
			if r.URL.Query().Get("fail") != "" {
				return errors.New("controller failure")
			}
			v.SetValue("title", "A & B")
			return nil
		})
	})

	t.Run("Root", func(t *testing.T) {
		resp, body := get(t, router, "/")
		if resp.StatusCode != http.StatusOK || body != "home home/index" {
			t.Fatalf("unexpected response: %d %q", resp.StatusCode, body)
		}
		if got := resp.Header.Get(views.GeneratorHeader); got != views.DefaultGenerator {
			t.Errorf("unexpected generator header: %q", got)
		}
		if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
			t.Errorf("unexpected content type: %q", ct)
		}
	})

	t.Run("ModuleIndex", func(t *testing.T) {
		resp, body := get(t, router, "/blog")
		if resp.StatusCode != http.StatusOK || body != "blog index" {
			t.Fatalf("unexpected response: %d %q", resp.StatusCode, body)
		}
	})

	t.Run("ControllerVariables", func(t *testing.T) {
		resp, body := get(t, router, "/blog/post")
		if resp.StatusCode != http.StatusOK || body != "<h1>A &amp; B</h1>" {
			t.Fatalf("unexpected response: %d %q", resp.StatusCode, body)
		}
	})

	t.Run("MissingView", func(t *testing.T) {
		resp, body := get(t, router, "/blog/nope")
		if resp.StatusCode != http.StatusNotFound || body != "missing /blog/nope" {
			t.Fatalf("unexpected response: %d %q", resp.StatusCode, body)
		}
	})

	t.Run("Partial", func(t *testing.T) {
		resp, _ := get(t, router, "/blog/_partial")
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("partial was served: %d", resp.StatusCode)
		}
	})

	t.Run("WebError", func(t *testing.T) {
		resp, body := get(t, router, "/blog/post?deny=1")
		if resp.StatusCode != http.StatusForbidden {
			t.Fatalf("unexpected response: %d %q", resp.StatusCode, body)
		}
		if got := resp.Header.Get(views.GeneratorHeader); got != "" {
			t.Errorf("generator header on a plain error: %q", got)
		}
	})

	t.Run("ControllerError", func(t *testing.T) {
		resp, _ := get(t, router, "/blog/post?fail=1")
		if resp.StatusCode != http.StatusInternalServerError {
			t.Fatalf("unexpected response status: %d", resp.StatusCode)
		}
	})

	t.Run("TemplateError", func(t *testing.T) {
		resp, body := get(t, router, "/broken")
		if resp.StatusCode != http.StatusInternalServerError {
			t.Fatalf("unexpected response: %d %q", resp.StatusCode, body)
		}
	})
}

func TestFlash(t *testing.T) {
	store, err := NewCookieStore("", time.Hour, false)
	if err != nil {
		t.Fatal(err)
	}

	root := t.TempDir()
	writeView(t, root, "home", "index", `{{range .flash}}[{{.kind}}: {{.message}}]{{end}}`)
	m, err := views.New(views.VendorRootOption(root))
	if err != nil {
		t.Fatal(err)
	}
	h := NewHandler(m, &ViewRenderer{Model: m}, store)
	router := mux.NewRouter()
	// registered first; it would otherwise match /{module}
	router.Path("/flash").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := AddFlash(store, w, r, "success", "Saved <it>."); err != nil {
			t.Error(err)
		}
		w.WriteHeader(http.StatusNoContent)
	})
	h.BindRoutes(router)

	resp, _ := get(t, router, "/flash")
	cookies := resp.Cookies()
	if len(cookies) == 0 {
		t.Fatal("no flash cookie set")
	}

	_, body := get(t, router, "/", cookies...)
	if want := "[success: Saved &lt;it&gt;.]"; body != want {
		t.Fatalf("unexpected body\nwant: %q\n got: %q", want, body)
	}
}

func TestNewCookieStoreKeyFile(t *testing.T) {
	keyFile := filepath.Join(t.TempDir(), "session.key")

	if _, err := NewCookieStore(keyFile, time.Hour, true); err != nil {
		t.Fatal(err)
	}
	key, err := ioutil.ReadFile(keyFile)
	if err != nil {
		t.Fatalf("key file not written: %v", err)
	}
	if len(key) != 32 {
		t.Fatalf("unexpected key length %d", len(key))
	}

	store, err := NewCookieStore(keyFile, time.Hour, true)
	if err != nil {
		t.Fatal(err)
	}
	if !store.Options.Secure || store.Options.MaxAge != 3600 {
		t.Errorf("unexpected options: %+v", store.Options)
	}
	again, _ := ioutil.ReadFile(keyFile)
	if string(again) != string(key) {
		t.Errorf("existing key file was overwritten")
	}
}

func TestStatusCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.New("x"), http.StatusInternalServerError},
		{Error(http.StatusTeapot, "tea"), http.StatusTeapot},
		{&views.NotFoundError{Name: "x"}, http.StatusNotFound},
	}
	for _, tt := range tests {
		if got := StatusCode(tt.err); got != tt.want {
			t.Errorf("StatusCode(%v) = %d; want %d", tt.err, got, tt.want)
		}
	}
}
