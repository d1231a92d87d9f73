// Command swiftletd serves the views under a vendor root over HTTP.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/gorilla/mux"

	"github.com/DHowett/swiftlet"
	"github.com/DHowett/swiftlet/internal/config"
	"github.com/DHowett/swiftlet/lib/four"
	"github.com/DHowett/swiftlet/lib/templatepack"
	"github.com/DHowett/swiftlet/views"
	"github.com/DHowett/swiftlet/views/pongo"
	"github.com/DHowett/swiftlet/web"
)

type args struct {
	configFiles string
	addr        string
	static      string

	registrationOnce sync.Once
	parseOnce        sync.Once
}

func (a *args) register() {
	a.registrationOnce.Do(func() {
		flag.StringVar(&a.configFiles, "config", "swiftlet.yml", "comma-separated configuration files; later files override earlier ones")
		flag.StringVar(&a.addr, "addr", "", "bind address and port (overrides web.bind)")
		flag.StringVar(&a.static, "static", "public", "directory of static files served under /static/")
	})
}

func (a *args) parse() {
	a.parseOnce.Do(func() {
		flag.Parse()
	})
}

var arguments = &args{}

func init() {
	arguments.register()
}

func newEngine(c *swiftlet.Configuration, pack *templatepack.Pack) (views.ModelOption, error) {
	switch c.Views.Engine {
	case "pongo2":
		e, err := pongo.New(pongo.WithFunctions(pack), pongo.WithDebug(c.Views.Rebuild))
		if err != nil {
			return nil, err
		}
		return views.EngineOption(e), nil
	case "html":
		return views.GlobalFunctionsOption(pack), nil
	}
	return nil, fmt.Errorf("unknown view engine %q", c.Views.Engine)
}

func newModel(c *swiftlet.Configuration) (*views.Model, error) {
	engine, err := newEngine(c, templatepack.New())
	if err != nil {
		return nil, err
	}
	return views.New(
		views.VendorRootOption(c.Views.VendorRoot),
		views.ExtensionOption(c.Views.Extension),
		views.GeneratorOption(*c.Views.Generator),
		views.CacheSizeOption(c.Views.CacheSize),
		views.RebuildOption(c.Views.Rebuild),
		engine,
	)
}

func main() {
	arguments.parse()
	defer glog.Flush()

	var files []string
	for _, f := range strings.Split(arguments.configFiles, ",") {
		if f = strings.TrimSpace(f); f != "" {
			files = append(files, f)
		}
	}
	conf, err := config.NewFileConfigurationService(files).LoadConfiguration()
	if err != nil {
		glog.Fatal("Failed to load configuration: ", err)
	}
	if conf.Logging.Verbosity > 0 {
		flag.Set("v", conf.Logging.Verbosity.String())
	}

	model, err := newModel(conf)
	if err != nil {
		glog.Fatal("Failed to configure views: ", err)
	}
	glog.Infof("Serving %s views from %s", conf.Views.Engine, model.VendorRoot())

	store, err := web.NewCookieStore(conf.Web.SessionKeyFile, time.Duration(conf.Web.SessionMaxAge), conf.Web.Secure)
	if err != nil {
		glog.Fatal("Failed to set up sessions: ", err)
	}

	notFoundModule, notFoundView := "", ""
	if i := strings.LastIndex(conf.Web.NotFound, ":"); i >= 0 {
		notFoundModule, notFoundView = conf.Web.NotFound[:i], conf.Web.NotFound[i+1:]
	}
	renderer := &web.ViewRenderer{Model: model, ErrorModule: notFoundModule}

	router := mux.NewRouter()
	router.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.Dir(arguments.static))))

	handler := web.NewHandler(model, renderer, store)
	if err := handler.BindRoutes(router); err != nil {
		glog.Fatal(err)
	}

	notFound := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v := model.NewView(notFoundView).SetValue("path", r.URL.Path)
		renderer.Render(w, r, http.StatusNotFound, v, notFoundModule)
	})

	addr := conf.Web.Bind
	if arguments.addr != "" {
		addr = arguments.addr
	}
	glog.Info("Listening on ", addr)
	err = http.ListenAndServe(addr, four.WrapHandler(router, notFound))
	if err != nil {
		glog.Error(err.Error())
	}
}
